package remote

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

	"accounts-cli/internal/model"
)

// Client reads and writes accounts through an `accounts serve` instance.
type Client struct {
	base  *url.URL
	http  *http.Client
	token string
}

type Option func(*Client)

// WithToken sends token as a bearer token on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote: http %d", e.Code)
	}
	return fmt.Sprintf("remote: http %d: %s", e.Code, e.Message)
}

func New(baseURL string, hc *http.Client, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("remote: empty base url")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("remote: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("remote: unsupported scheme %q", u.Scheme)
	}
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	c := &Client{base: u, http: hc}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Client) endpoint(p string) string {
	u := *c.base
	u.Path = u.Path + p
	return u.String()
}

func (c *Client) FetchAccounts(ctx context.Context) ([]model.Account, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/api/accounts"), nil)
	if err != nil {
		return nil, err
	}
	var env struct {
		Data []model.Account `json:"data"`
	}
	if err := c.do(req, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		env.Data = []model.Account{}
	}
	return env.Data, nil
}

func (c *Client) SaveAccounts(ctx context.Context, updates []model.AccountUpdate) error {
	if updates == nil {
		updates = []model.AccountUpdate{}
	}
	body, err := json.Marshal(map[string]any{"updatedAccounts": updates})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/api/accounts/save"), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(b, &e)
		return &StatusError{Code: resp.StatusCode, Message: strings.TrimSpace(e.Error)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("remote: decode response: %w", err)
	}
	return nil
}
