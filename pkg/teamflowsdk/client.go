package teamflowsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Client talks to a TeamFlow deployment. It handles the unauthenticated
// operations and creates authenticated Sessions via Login.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates a new account. Verification happens out of band: the
// service emails a token which is redeemed via VerifyEmail.
func (c *Client) Register(ctx context.Context, username, email, password string) (*User, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/auth/register",
		registerRequest{Username: username, Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeJSON(resp, &user, http.StatusCreated); err != nil {
		return nil, err
	}
	return &user, nil
}

// VerifyEmail redeems an email verification token.
func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/auth/verify-email", tokenRequest{Token: token})
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// Login authenticates and returns a Session holding the bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/auth/login",
		loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var tok Token
	if err := decodeJSON(resp, &tok, http.StatusOK); err != nil {
		return nil, err
	}
	return c.NewSessionFromToken(tok.AccessToken), nil
}

// NewSessionFromToken wraps an existing access token (e.g. one stored from a
// previous login) in a Session.
func (c *Client) NewSessionFromToken(accessToken string) *Session {
	return &Session{client: c, accessToken: accessToken}
}
