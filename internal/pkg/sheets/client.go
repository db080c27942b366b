// Package sheets pushes the latest price grid to a Google Sheet through the
// Sheets REST API, authenticating with a service account via a signed JWT
// (no SDK dependency).
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	sheetsScope  = "https://www.googleapis.com/auth/spreadsheets"
	grantType    = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	sheetsAPIURL = "https://sheets.googleapis.com/v4/spreadsheets"
)

// Credentials is the subset of a Google service-account key file we need.
type Credentials struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

// ParseCredentials reads a service-account key JSON, typically the value of
// the GOOGLE_CREDENTIALS environment variable.
func ParseCredentials(data []byte) (*Credentials, error) {
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}
	if creds.ClientEmail == "" || creds.PrivateKey == "" {
		return nil, fmt.Errorf("service account credentials missing client_email or private_key")
	}
	if creds.TokenURI == "" {
		creds.TokenURI = "https://oauth2.googleapis.com/token"
	}
	return &creds, nil
}

// Client writes value grids to one spreadsheet range.
type Client struct {
	creds         *Credentials
	spreadsheetID string
	rangeName     string
	httpClient    *http.Client
}

func NewClient(creds *Credentials, spreadsheetID, rangeName string) *Client {
	return &Client{
		creds:         creds,
		spreadsheetID: spreadsheetID,
		rangeName:     rangeName,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Update clears the configured range and writes the new grid.
func (c *Client) Update(ctx context.Context, values [][]any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return fmt.Errorf("obtain access token: %w", err)
	}

	if err := c.clear(ctx, token); err != nil {
		return fmt.Errorf("clear range: %w", err)
	}
	if err := c.write(ctx, token, values); err != nil {
		return fmt.Errorf("write values: %w", err)
	}
	return nil
}

// accessToken exchanges a signed service-account JWT for a bearer token.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(c.creds.PrivateKey))
	if err != nil {
		return "", fmt.Errorf("parse private key: %w", err)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   c.creds.ClientEmail,
		"scope": sheetsScope,
		"aud":   c.creds.TokenURI,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign assertion: %w", err)
	}

	form := url.Values{}
	form.Set("grant_type", grantType)
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.creds.TokenURI, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, string(b))
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if parsed.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned empty access_token")
	}
	return parsed.AccessToken, nil
}

func (c *Client) clear(ctx context.Context, token string) error {
	endpoint := fmt.Sprintf("%s/%s/values/%s:clear",
		sheetsAPIURL, url.PathEscape(c.spreadsheetID), url.PathEscape(c.rangeName))
	return c.doJSON(ctx, http.MethodPost, endpoint, token, map[string]any{})
}

func (c *Client) write(ctx context.Context, token string, values [][]any) error {
	endpoint := fmt.Sprintf("%s/%s/values/%s?valueInputOption=USER_ENTERED",
		sheetsAPIURL, url.PathEscape(c.spreadsheetID), url.PathEscape(c.rangeName+"!A1"))
	body := map[string]any{"values": values}
	return c.doJSON(ctx, http.MethodPut, endpoint, token, body)
}

func (c *Client) doJSON(ctx context.Context, method, endpoint, token string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sheets API returned %d: %s", resp.StatusCode, string(b))
	}
	return nil
}
