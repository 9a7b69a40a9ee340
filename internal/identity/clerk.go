// Package identity talks to the hosted identity provider: it verifies
// session tokens against the provider JWKS, fetches user profiles over the
// management API and authenticates inbound webhook events.
package identity

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrTokenVerificationFailed wraps any session token verification failure.
// Callers treat it as "no session", not as a hard error.
var ErrTokenVerificationFailed = errors.New("session_token_verification_failed")

// Config holds provider endpoints and credentials.
type Config struct {
	// SecretKey authenticates management API calls (sk_... key).
	SecretKey string
	// APIURL is the management API base, e.g. https://api.clerk.com.
	APIURL string
	// JWKSURL serves the RS256 public keys session tokens are signed with.
	JWKSURL string
	// AuthorizedParties restricts the azp claim when non-empty.
	AuthorizedParties []string
	// WebhookSecret is the whsec_... signing secret for inbound events.
	WebhookSecret string
}

// Profile is the provider-side view of a user.
type Profile struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	ImageURL  string
}

// Client is a provider API client with a cached JWKS.
type Client struct {
	cfg        Config
	httpClient *http.Client

	jwksMu     sync.RWMutex
	jwksKeys   map[string]*rsa.PublicKey
	jwksExpiry time.Time
}

// NewClient creates a provider client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.JWKSURL) == "" {
		return nil, fmt.Errorf("identity jwks url is required")
	}
	if strings.TrimSpace(cfg.APIURL) == "" {
		cfg.APIURL = "https://api.clerk.com"
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type sessionClaims struct {
	AuthorizedParty string `json:"azp,omitempty"`
	jwt.RegisteredClaims
}

// VerifySessionToken validates an RS256 session token and returns the
// external user id (sub claim).
func (c *Client) VerifySessionToken(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("%w: empty token", ErrTokenVerificationFailed)
	}

	claims := &sessionClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		if strings.TrimSpace(kid) == "" {
			return nil, fmt.Errorf("%w: missing kid header", ErrTokenVerificationFailed)
		}
		return c.getPublicKey(ctx, strings.TrimSpace(kid))
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenVerificationFailed, err)
	}
	if parsed == nil || !parsed.Valid {
		return "", fmt.Errorf("%w: invalid token", ErrTokenVerificationFailed)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrTokenVerificationFailed)
	}
	if claims.ExpiresAt == nil || time.Now().After(claims.ExpiresAt.Time) {
		return "", fmt.Errorf("%w: token expired", ErrTokenVerificationFailed)
	}
	if len(c.cfg.AuthorizedParties) > 0 && !c.isAuthorizedParty(claims.AuthorizedParty) {
		return "", fmt.Errorf("%w: azp mismatch", ErrTokenVerificationFailed)
	}

	return strings.TrimSpace(claims.Subject), nil
}

func (c *Client) isAuthorizedParty(azp string) bool {
	azp = strings.TrimSpace(azp)
	if azp == "" {
		return false
	}
	for _, party := range c.cfg.AuthorizedParties {
		if strings.TrimSpace(party) == azp {
			return true
		}
	}
	return false
}

// userPayload mirrors the provider's user object, shared by the management
// API response and webhook event data.
type userPayload struct {
	ID                    string `json:"id"`
	FirstName             string `json:"first_name"`
	LastName              string `json:"last_name"`
	ImageURL              string `json:"image_url"`
	PrimaryEmailAddressID string `json:"primary_email_address_id"`
	EmailAddresses        []struct {
		ID           string `json:"id"`
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

// primaryEmail picks the address referenced by primary_email_address_id,
// falling back to the first one.
func (p *userPayload) primaryEmail() string {
	for _, addr := range p.EmailAddresses {
		if addr.ID != "" && addr.ID == p.PrimaryEmailAddressID {
			return strings.ToLower(strings.TrimSpace(addr.EmailAddress))
		}
	}
	if len(p.EmailAddresses) > 0 {
		return strings.ToLower(strings.TrimSpace(p.EmailAddresses[0].EmailAddress))
	}
	return ""
}

func (p *userPayload) profile() *Profile {
	return &Profile{
		ID:        strings.TrimSpace(p.ID),
		Email:     p.primaryEmail(),
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
		ImageURL:  strings.TrimSpace(p.ImageURL),
	}
}

// FetchUser loads a user profile from the management API.
func (c *Client) FetchUser(ctx context.Context, externalID string) (*Profile, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, fmt.Errorf("external user id is required")
	}
	if strings.TrimSpace(c.cfg.SecretKey) == "" {
		return nil, fmt.Errorf("identity secret key is not configured")
	}

	url := strings.TrimRight(c.cfg.APIURL, "/") + "/v1/users/" + externalID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider user request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("provider user request status=%d body=%s", resp.StatusCode, string(body))
	}

	var payload userPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse provider user response: %w", err)
	}

	return payload.profile(), nil
}

type jwkSet struct {
	Keys []jwk `json:"keys"`
}

type jwk struct {
	Kty string `json:"kty"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func (c *Client) getPublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	now := time.Now()
	c.jwksMu.RLock()
	if key, ok := c.jwksKeys[kid]; ok && now.Before(c.jwksExpiry) {
		c.jwksMu.RUnlock()
		return key, nil
	}
	c.jwksMu.RUnlock()

	if err := c.refreshJWKS(ctx); err != nil {
		return nil, err
	}

	c.jwksMu.RLock()
	defer c.jwksMu.RUnlock()
	key, ok := c.jwksKeys[kid]
	if !ok || key == nil {
		return nil, fmt.Errorf("%w: jwks key not found", ErrTokenVerificationFailed)
	}
	return key, nil
}

func (c *Client) refreshJWKS(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.JWKSURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create jwks request: %w", err)
	}
	if strings.TrimSpace(c.cfg.SecretKey) != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to fetch jwks: %v", ErrTokenVerificationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%w: jwks status=%d body=%s", ErrTokenVerificationFailed, resp.StatusCode, string(body))
	}

	var set jwkSet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("failed to decode jwks response: %w", err)
	}
	if len(set.Keys) == 0 {
		return fmt.Errorf("%w: empty jwks response", ErrTokenVerificationFailed)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if strings.TrimSpace(k.Kid) == "" || k.Kty != "RSA" {
			continue
		}
		pub, err := parseRSAPublicKey(k)
		if err != nil {
			continue
		}
		keys[k.Kid] = pub
	}
	if len(keys) == 0 {
		return fmt.Errorf("%w: no usable rsa keys in jwks", ErrTokenVerificationFailed)
	}

	ttl := parseJWKSMaxAge(resp.Header.Get("Cache-Control"))
	if ttl <= 0 {
		ttl = time.Hour
	}

	c.jwksMu.Lock()
	c.jwksKeys = keys
	c.jwksExpiry = time.Now().Add(ttl)
	c.jwksMu.Unlock()
	return nil
}

func parseRSAPublicKey(k jwk) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, err
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, err
	}

	n := new(big.Int).SetBytes(nBytes)
	eInt := 0
	for _, b := range eBytes {
		eInt = eInt<<8 + int(b)
	}
	if n.Sign() <= 0 || eInt <= 0 {
		return nil, fmt.Errorf("invalid rsa jwk")
	}

	return &rsa.PublicKey{N: n, E: eInt}, nil
}

func parseJWKSMaxAge(cacheControl string) time.Duration {
	for _, part := range strings.Split(cacheControl, ",") {
		part = strings.TrimSpace(part)
		if !strings.HasPrefix(strings.ToLower(part), "max-age=") {
			continue
		}
		value := strings.TrimSpace(strings.TrimPrefix(strings.ToLower(part), "max-age="))
		seconds, err := time.ParseDuration(value + "s")
		if err != nil {
			return 0
		}
		if seconds < time.Minute {
			return time.Minute
		}
		return seconds
	}
	return 0
}
