package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"elevator-chat/internal/config"
)

// User is the authenticated technician as reported by Supabase auth.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ErrInvalidCredentials covers every sign-in rejection; the browser never
// learns which part was wrong.
var ErrInvalidCredentials = fmt.Errorf("invalid email or password")

// Client talks to the Supabase GoTrue endpoint.
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
}

func NewClient(cfg *config.SupabaseConfig) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.URL, "/"),
		anonKey: cfg.AnonKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SignInWithPassword performs the password grant and returns the user plus
// the access token of the Supabase session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*User, string, error) {
	payload := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, "", err
	}

	url := c.baseURL + "/auth/v1/token?grant_type=password"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized ||
		resp.StatusCode == http.StatusUnprocessableEntity {
		return nil, "", ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("sign-in failed: %d, %s", resp.StatusCode, string(body))
	}

	var session struct {
		AccessToken string `json:"access_token"`
		User        User   `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, "", err
	}
	if session.User.ID == "" {
		return nil, "", fmt.Errorf("sign-in response carried no user id")
	}
	return &session.User, session.AccessToken, nil
}
