package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Webhook event kinds delivered by the identity provider.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// webhookTolerance bounds the accepted clock skew of event timestamps.
const webhookTolerance = 5 * time.Minute

// ErrWebhookVerificationFailed wraps any webhook authentication failure.
var ErrWebhookVerificationFailed = errors.New("webhook_verification_failed")

// Event is an inbound identity change notification.
type Event struct {
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

// EventData carries the provider user fields of an event.
type EventData struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	ImageURL  string `json:"image_url"`

	PrimaryEmailAddressID string `json:"primary_email_address_id"`
	EmailAddresses        []struct {
		ID           string `json:"id"`
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

// PrimaryEmail picks the primary address, falling back to the first one.
// Returns "" when the event carries no addresses (deleted events do not).
func (d *EventData) PrimaryEmail() string {
	for _, addr := range d.EmailAddresses {
		if addr.ID != "" && addr.ID == d.PrimaryEmailAddressID {
			return strings.ToLower(strings.TrimSpace(addr.EmailAddress))
		}
	}
	if len(d.EmailAddresses) > 0 {
		return strings.ToLower(strings.TrimSpace(d.EmailAddresses[0].EmailAddress))
	}
	return ""
}

// VerifyWebhook authenticates a raw webhook payload against the svix-style
// headers (svix-id, svix-timestamp, svix-signature) and parses the event.
// The signature is HMAC-SHA256 over "id.timestamp.payload" keyed with the
// base64 part of the whsec_ secret; the signature header may list several
// space-separated "v1,<base64>" candidates after key rotation.
func (c *Client) VerifyWebhook(header http.Header, payload []byte) (*Event, error) {
	secret := strings.TrimSpace(c.cfg.WebhookSecret)
	if secret == "" {
		return nil, fmt.Errorf("%w: webhook secret is not configured", ErrWebhookVerificationFailed)
	}

	msgID := strings.TrimSpace(header.Get("svix-id"))
	msgTimestamp := strings.TrimSpace(header.Get("svix-timestamp"))
	msgSignature := strings.TrimSpace(header.Get("svix-signature"))
	if msgID == "" || msgTimestamp == "" || msgSignature == "" {
		return nil, fmt.Errorf("%w: missing svix headers", ErrWebhookVerificationFailed)
	}

	ts, err := strconv.ParseInt(msgTimestamp, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid timestamp", ErrWebhookVerificationFailed)
	}
	age := time.Since(time.Unix(ts, 0))
	if age > webhookTolerance || age < -webhookTolerance {
		return nil, fmt.Errorf("%w: timestamp outside tolerance", ErrWebhookVerificationFailed)
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, "whsec_"))
	if err != nil {
		return nil, fmt.Errorf("%w: malformed webhook secret", ErrWebhookVerificationFailed)
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msgID + "." + msgTimestamp + "."))
	mac.Write(payload)
	expected := "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))

	matched := false
	for _, candidate := range strings.Fields(msgSignature) {
		if hmac.Equal([]byte(candidate), []byte(expected)) {
			matched = true
			break
		}
	}
	if !matched {
		return nil, fmt.Errorf("%w: signature mismatch", ErrWebhookVerificationFailed)
	}

	var evt Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return nil, fmt.Errorf("%w: malformed event payload: %v", ErrWebhookVerificationFailed, err)
	}
	if strings.TrimSpace(evt.Type) == "" {
		return nil, fmt.Errorf("%w: event type is missing", ErrWebhookVerificationFailed)
	}

	return &evt, nil
}
