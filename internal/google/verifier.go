// Package google verifies Google OAuth ID tokens against the token-info
// endpoint. Verification is a single synchronous GET with a bounded
// timeout; a failure of any kind surfaces as a login failure, never a
// retry.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// TokenInfo holds the identity fields parsed from a verified ID token.
type TokenInfo struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Name       string `json:"name"`
}

// Verifier calls the Google token-info endpoint.
type Verifier struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
}

// NewVerifier creates a Verifier for the given endpoint with the given
// request timeout.
func NewVerifier(baseURL string, timeout time.Duration) *Verifier {
	return &Verifier{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// Verify validates the ID token and returns the identity it asserts.
// Any transport error or non-200 status means the token could not be
// verified.
func (v *Verifier) Verify(ctx context.Context, idToken string) (*TokenInfo, error) {
	endpoint := v.baseURL + "?id_token=" + url.QueryEscape(idToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating token-info request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling token-info endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token-info endpoint returned status %d", resp.StatusCode)
	}

	var info TokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decoding token-info response: %w", err)
	}
	return &info, nil
}
