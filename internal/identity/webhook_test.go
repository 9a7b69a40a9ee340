package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookKey = "c2VjcmV0LXNpZ25pbmcta2V5" // base64("secret-signing-key")

func newWebhookTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(Config{
		JWKSURL:       "https://example.test/.well-known/jwks.json",
		WebhookSecret: "whsec_" + testWebhookKey,
	})
	require.NoError(t, err)
	return client
}

func signPayload(t *testing.T, msgID, timestamp string, payload []byte) string {
	t.Helper()
	key, err := base64.StdEncoding.DecodeString(testWebhookKey)
	require.NoError(t, err)

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msgID + "." + timestamp + "."))
	mac.Write(payload)
	return "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func webhookHeaders(t *testing.T, payload []byte) http.Header {
	t.Helper()
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	header := http.Header{}
	header.Set("svix-id", "msg_123")
	header.Set("svix-timestamp", ts)
	header.Set("svix-signature", signPayload(t, "msg_123", ts, payload))
	return header
}

func TestVerifyWebhook_ValidEvent(t *testing.T) {
	client := newWebhookTestClient(t)
	payload := []byte(`{
		"type": "user.created",
		"data": {
			"id": "user_abc",
			"first_name": "Ada",
			"last_name": "Lovelace",
			"primary_email_address_id": "em_1",
			"email_addresses": [
				{"id": "em_2", "email_address": "second@example.com"},
				{"id": "em_1", "email_address": "Ada@Example.com"}
			]
		}
	}`)

	evt, err := client.VerifyWebhook(webhookHeaders(t, payload), payload)
	require.NoError(t, err)
	assert.Equal(t, EventUserCreated, evt.Type)
	assert.Equal(t, "user_abc", evt.Data.ID)
	assert.Equal(t, "ada@example.com", evt.Data.PrimaryEmail())
}

func TestVerifyWebhook_PrimaryEmailFallsBackToFirst(t *testing.T) {
	client := newWebhookTestClient(t)
	payload := []byte(`{
		"type": "user.updated",
		"data": {
			"id": "user_abc",
			"email_addresses": [{"id": "em_9", "email_address": "only@example.com"}]
		}
	}`)

	evt, err := client.VerifyWebhook(webhookHeaders(t, payload), payload)
	require.NoError(t, err)
	assert.Equal(t, "only@example.com", evt.Data.PrimaryEmail())
}

func TestVerifyWebhook_BadSignature(t *testing.T) {
	client := newWebhookTestClient(t)
	payload := []byte(`{"type": "user.created", "data": {"id": "user_abc"}}`)

	header := webhookHeaders(t, payload)
	header.Set("svix-signature", "v1,AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=")

	_, err := client.VerifyWebhook(header, payload)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWebhookVerificationFailed)
}

func TestVerifyWebhook_TamperedPayload(t *testing.T) {
	client := newWebhookTestClient(t)
	payload := []byte(`{"type": "user.created", "data": {"id": "user_abc"}}`)
	header := webhookHeaders(t, payload)

	tampered := []byte(`{"type": "user.deleted", "data": {"id": "user_abc"}}`)
	_, err := client.VerifyWebhook(header, tampered)
	assert.ErrorIs(t, err, ErrWebhookVerificationFailed)
}

func TestVerifyWebhook_StaleTimestamp(t *testing.T) {
	client := newWebhookTestClient(t)
	payload := []byte(`{"type": "user.created", "data": {"id": "user_abc"}}`)

	stale := strconv.FormatInt(time.Now().Add(-10*time.Minute).Unix(), 10)
	header := http.Header{}
	header.Set("svix-id", "msg_123")
	header.Set("svix-timestamp", stale)
	header.Set("svix-signature", signPayload(t, "msg_123", stale, payload))

	_, err := client.VerifyWebhook(header, payload)
	assert.ErrorIs(t, err, ErrWebhookVerificationFailed)
}

func TestVerifyWebhook_MissingHeaders(t *testing.T) {
	client := newWebhookTestClient(t)
	payload := []byte(`{"type": "user.created"}`)

	for _, missing := range []string{"svix-id", "svix-timestamp", "svix-signature"} {
		t.Run(fmt.Sprintf("without %s", missing), func(t *testing.T) {
			header := webhookHeaders(t, payload)
			header.Del(missing)
			_, err := client.VerifyWebhook(header, payload)
			assert.ErrorIs(t, err, ErrWebhookVerificationFailed)
		})
	}
}

func TestVerifyWebhook_RotatedKeyCandidates(t *testing.T) {
	client := newWebhookTestClient(t)
	payload := []byte(`{"type": "user.created", "data": {"id": "user_abc"}}`)

	header := webhookHeaders(t, payload)
	// An old key's signature may precede the current one after rotation.
	header.Set("svix-signature", "v1,b2xkLWtleS1zaWduYXR1cmU= "+header.Get("svix-signature"))

	_, err := client.VerifyWebhook(header, payload)
	require.NoError(t, err)
}

func TestVerifyWebhook_NoSecretConfigured(t *testing.T) {
	client, err := NewClient(Config{JWKSURL: "https://example.test/jwks.json"})
	require.NoError(t, err)

	payload := []byte(`{"type": "user.created"}`)
	_, err = client.VerifyWebhook(webhookHeaders(t, payload), payload)
	assert.ErrorIs(t, err, ErrWebhookVerificationFailed)
}
