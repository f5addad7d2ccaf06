package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrInvalidCredentials is returned when the identity provider refuses the
// email and password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Account is a signed-in Firebase user.
type Account struct {
	UserID  string
	Email   string
	IDToken string
}

// PasswordAuthenticator signs users in through the Identity Toolkit REST API
// (or the Auth emulator, which serves the same paths).
type PasswordAuthenticator struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewPasswordAuthenticator takes the Identity Toolkit base, e.g.
// https://identitytoolkit.googleapis.com/v1.
func NewPasswordAuthenticator(baseURL, apiKey string) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

func (a *PasswordAuthenticator) SignIn(ctx context.Context, email, password string) (*Account, error) {
	jsonData, err := json.Marshal(signInRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/accounts:signInWithPassword?key=%s", a.baseURL, url.QueryEscape(a.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call identity toolkit: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, fmt.Errorf("%w: status %d", ErrInvalidCredentials, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity toolkit returned status %d: %s", resp.StatusCode, string(body))
	}

	var out signInResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if out.LocalID == "" || out.IDToken == "" {
		return nil, fmt.Errorf("%w: incomplete sign-in response", ErrInvalidCredentials)
	}

	return &Account{UserID: out.LocalID, Email: out.Email, IDToken: out.IDToken}, nil
}
