package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWelcomeBodies_EscapesNameInHTML(t *testing.T) {
	text, htmlBody := welcomeBodies(`<img src=x onerror=alert(1)> "Chef"`)

	assert.NotContains(t, htmlBody, "<img")
	assert.Contains(t, htmlBody, "&lt;img src=x onerror=alert(1)&gt;")
	assert.Contains(t, htmlBody, "&#34;Chef&#34;")

	// The plain-text variant stays verbatim.
	assert.Contains(t, text, `<img src=x onerror=alert(1)> "Chef"`)
}

func TestWelcomeBodies_PlainName(t *testing.T) {
	_, htmlBody := welcomeBodies("Ada Lovelace")
	assert.Contains(t, htmlBody, "<strong>Ada Lovelace</strong>")
}
