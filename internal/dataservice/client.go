// Package dataservice is a small REST client for the hosted data and auth API
// (PostgREST-style tables under /rest/v1, GoTrue-style auth under /auth/v1).
// Uses raw HTTP calls like the payment client it replaced.
package dataservice

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

	"github.com/akhadeatharv/Crowd-Funding-Project/pkg/auth"
)

// ErrNotConfigured は URL またはキーが未設定の場合のエラー
var ErrNotConfigured = errors.New("dataservice: not configured")

// Client はホスト型データサービスへの raw HTTP クライアント
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client (tests use the httptest client).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New は Client を生成する。baseURL はサービスのルート URL
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	if baseURL == "" || apiKey == "" {
		return nil, ErrNotConfigured
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("dataservice: invalid url: %w", err)
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// APIError はデータサービスが返したエラー
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("dataservice: %d %s: %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("dataservice: %d: %s", e.Status, msg)
}

// IsNotFound reports whether err is the "no rows" answer to a single-object query.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == "PGRST116" || apiErr.Status == http.StatusNotFound
}

// Ping checks that the REST endpoint answers with the configured key.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/rest/v1/", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusUnauthorized {
		return &APIError{Status: resp.StatusCode}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.apiKey)
	bearer := c.apiKey
	if token, ok := auth.AccessTokenFromContext(ctx); ok {
		bearer = token
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do は req を送信し、2xx なら dest にデコードする（dest が nil なら読み捨て）
func (c *Client) do(req *http.Request, dest any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, body)
	}
	if dest == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("dataservice: decode response: %w", err)
	}
	return nil
}

func decodeError(status int, body []byte) error {
	apiErr := &APIError{Status: status}
	// REST エラーは {code,message,details,hint}、認証エラーは {error,error_description} や {msg}
	var raw struct {
		Code             json.RawMessage `json:"code"`
		Message          string          `json:"message"`
		Details          string          `json:"details"`
		Hint             string          `json:"hint"`
		Msg              string          `json:"msg"`
		Error            string          `json:"error"`
		ErrorDescription string          `json:"error_description"`
	}
	if err := json.Unmarshal(body, &raw); err == nil {
		if code := string(raw.Code); code != "null" {
			apiErr.Code = strings.Trim(code, `"`)
		}
		apiErr.Message = raw.Message
		apiErr.Details = raw.Details
		apiErr.Hint = raw.Hint
		if apiErr.Message == "" {
			apiErr.Message = firstNonEmpty(raw.ErrorDescription, raw.Msg, raw.Error)
		}
		if apiErr.Code == "" && raw.Error != "" {
			apiErr.Code = raw.Error
		}
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
