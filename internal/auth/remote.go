package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// RemoteIdentity is the identity reported by the token authority for a
// token it has verified.
type RemoteIdentity struct {
	Subject  string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata"`
}

// RemoteVerifier asks the token authority directly whether a token is
// valid. It is the expensive, authoritative path behind the local Verifier.
type RemoteVerifier interface {
	VerifyToken(ctx context.Context, token string) (*RemoteIdentity, error)
}

type httpRemoteVerifier struct {
	client     *http.Client
	userURL    string
	serviceKey string
}

// NewRemoteVerifier returns a RemoteVerifier backed by the authority's
// /auth/v1/user endpoint.
func NewRemoteVerifier(issuerURL, serviceKey string) RemoteVerifier {
	return &httpRemoteVerifier{
		client:     &http.Client{Timeout: 10 * time.Second},
		userURL:    strings.TrimRight(issuerURL, "/") + "/auth/v1/user",
		serviceKey: serviceKey,
	}
}

func (v *httpRemoteVerifier) VerifyToken(ctx context.Context, token string) (*RemoteIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.userURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build verification request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", v.serviceKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote verification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote verification: authority returned %d", resp.StatusCode)
	}

	var identity RemoteIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("decode verification response: %w", err)
	}
	if identity.Subject == "" || identity.Email == "" {
		return nil, fmt.Errorf("remote verification: incomplete identity")
	}
	return &identity, nil
}
