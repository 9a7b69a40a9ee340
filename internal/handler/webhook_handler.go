package handler

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/platera-api/internal/identity"
	apperrors "github.com/yourusername/platera-api/internal/pkg/errors"
	"github.com/yourusername/platera-api/internal/service"
)

// maxWebhookBody bounds inbound webhook payloads.
const maxWebhookBody = 1 << 20 // 1MB

// WebhookHandler ingests identity provider events and keeps local accounts
// in sync.
type WebhookHandler struct {
	identityClient *identity.Client
	accountService *service.AccountService
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(identityClient *identity.Client, accountService *service.AccountService) *WebhookHandler {
	return &WebhookHandler{
		identityClient: identityClient,
		accountService: accountService,
	}
}

// HandleIdentityEvent verifies and applies one provider event.
// POST /api/webhooks/identity
func (h *WebhookHandler) HandleIdentityEvent(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read payload"})
		return
	}

	evt, err := h.identityClient.VerifyWebhook(c.Request.Header, payload)
	if err != nil {
		log.Printf("[WebhookHandler] Verification failed: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Webhook verification failed"})
		return
	}

	switch evt.Type {
	case identity.EventUserCreated, identity.EventUserUpdated:
		email := evt.Data.PrimaryEmail()
		if email == "" {
			// Nothing to sync without an address. Acknowledge so the
			// provider does not retry forever.
			log.Printf("[WebhookHandler] Event %s for %s has no email, skipping", evt.Type, evt.Data.ID)
			c.JSON(http.StatusOK, gin.H{"message": "Skipped"})
			return
		}

		user, created, err := h.accountService.SyncFromProvider(
			c.Request.Context(),
			evt.Data.ID,
			email,
			evt.Data.FirstName,
			evt.Data.LastName,
			evt.Data.ImageURL,
		)
		if err != nil {
			log.Printf("[WebhookHandler] Sync failed for %s: %v", evt.Data.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sync account"})
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		c.JSON(status, gin.H{"message": "Synced", "user_id": user.ID})

	case identity.EventUserDeleted:
		if err := h.accountService.DeleteByClerkID(evt.Data.ID); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[WebhookHandler] Delete failed for %s: %v", evt.Data.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Deleted"})

	default:
		// Unknown event kinds are acknowledged, not rejected.
		c.JSON(http.StatusOK, gin.H{"message": "Ignored"})
	}
}
