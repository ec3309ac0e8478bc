package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/shubho/expenseview/internal/log"
)

// ErrSessionExpired is returned when an authenticated endpoint answers 401 or
// 403. The caller treats it as "session invalid" and returns to the login
// view; no other recovery is attempted.
var ErrSessionExpired = errors.New("session expired")

// ErrLoginFailed is returned when the login endpoint redirects back to the
// landing page with an error marker.
var ErrLoginFailed = errors.New("login failed")

// StatusError is any other non-2xx answer. Body keeps the response text so
// registration failures can surface it verbatim; every other flow shows a
// generic notice and discards it.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Body)
}

// Client talks to the expense backend. The cookie jar carries the session
// credential the same way a browser would; redirects are never followed so
// the login flow can inspect them. No timeout is set — the transport default
// applies — and nothing is retried.
type Client struct {
	base     *url.URL
	http     *http.Client
	validate *validator.Validate
	log      *log.Logger
}

// New builds a client for the backend at baseURL.
func New(baseURL string, logger *log.Logger) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Client{
		base: base,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		validate: validator.New(),
		log:      logger.WithComponent("api"),
	}, nil
}

func (c *Client) endpoint(path string) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String()
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// do issues an authenticated request and maps 401/403 to ErrSessionExpired.
// On success the caller owns the response body.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", "method", req.Method, "url", req.URL.Path, "err", err)
		return nil, err
	}
	c.log.Debug("request done", "method", req.Method, "url", req.URL.Path, "status", resp.StatusCode)
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		resp.Body.Close()
		return nil, ErrSessionExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return resp, nil
}

// Login authenticates against the session service's form endpoint. The
// service answers with a redirect either way: back to the landing page with
// an error marker on bad credentials, to the dashboard on success.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	req, err := c.newRequest(ctx, http.MethodPost, "/login", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	c.log.Debug("login", "status", resp.StatusCode, "location", resp.Header.Get("Location"))

	if loc := resp.Header.Get("Location"); loc != "" {
		if u, err := url.Parse(loc); err == nil && u.Query().Has("error") {
			return ErrLoginFailed
		}
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return nil
}

// Register creates an account. A non-2xx body is kept verbatim in the
// returned StatusError — registration is the one flow that shows backend
// text to the user.
func (c *Client) Register(ctx context.Context, username, password string) error {
	payload, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth/register", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return nil
}

// ListExpenses fetches the full receipt collection for the session. The
// result replaces any previous snapshot wholesale; defaults are substituted
// here so callers only ever see normalized records.
func (c *Client) ListExpenses(ctx context.Context) ([]Receipt, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/expenses", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var receipts []Receipt
	if err := json.NewDecoder(resp.Body).Decode(&receipts); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}
	return Normalize(receipts), nil
}

// UploadReceipt posts one image for the ingestion pipeline as a multipart
// form with field "image". The receipt itself appears on the next fetch.
func (c *Client) UploadReceipt(ctx context.Context, filename string, image io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, image); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/receipts/upload", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// CreateItem adds a line item to a receipt.
func (c *Client) CreateItem(ctx context.Context, receiptID int64, input ItemInput) error {
	return c.sendItem(ctx, http.MethodPost, fmt.Sprintf("/api/items/receipt/%d", receiptID), input)
}

// UpdateItem replaces all fields of an existing item.
func (c *Client) UpdateItem(ctx context.Context, itemID int64, input ItemInput) error {
	return c.sendItem(ctx, http.MethodPut, fmt.Sprintf("/api/items/%d", itemID), input)
}

func (c *Client) sendItem(ctx context.Context, method, path string, input ItemInput) error {
	if err := c.validate.Struct(input); err != nil {
		return fmt.Errorf("invalid item: %w", err)
	}
	payload, err := json.Marshal(input)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, method, path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// DeleteItem removes an item by id.
func (c *Client) DeleteItem(ctx context.Context, itemID int64) error {
	req, err := c.newRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/items/%d", itemID), nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Logout hands the session back to the session service. The redirect it
// answers with is ignored; the jar's cookie is invalid afterwards either way.
func (c *Client) Logout(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/logout", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
