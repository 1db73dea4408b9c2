// Package taskapi implements service.Service against the /api/tasks REST
// endpoints of the task application.
package taskapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"tasklist/internal/config"
	"tasklist/internal/logging"
	"tasklist/internal/service"
)

const (
	// TasksPath is the collection endpoint.
	TasksPath = "/api/tasks"

	// CSRFHeader carries the anti-forgery token on every request.
	CSRFHeader = "X-CSRF-Token"

	// CSRFFormField carries the anti-forgery token in submitted forms.
	CSRFFormField = "csrfToken"

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 4 << 20
)

// Client implements service.Service and service.PageService over HTTP.
type Client struct {
	http       *http.Client
	base       *url.URL
	cookieName string
	timeout    time.Duration
	log        *logging.Logger
}

// New creates a client for the configured task application.
// Cookies issued by the server, including the anti-forgery cookie, are kept
// in an in-memory jar for the lifetime of the client.
func New(ctx context.Context, cfg *config.Config, log *logging.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	var transport http.RoundTripper = http.DefaultTransport
	if cfg.APIToken != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIToken, TokenType: "Bearer"}),
			Base:   transport,
		}
	}

	return newClient(cfg.BaseURL, cfg.CSRFCookie, cfg.Timeout, &http.Client{Jar: jar, Transport: transport}, log)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
// A cookie jar is attached if the HTTP client has none.
func NewWithHTTPClient(baseURL, cookieName string, httpClient *http.Client) (*Client, error) {
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		httpClient.Jar = jar
	}
	return newClient(baseURL, cookieName, config.DefaultTimeout, httpClient, logging.NopLogger())
}

func newClient(baseURL, cookieName string, timeout time.Duration, httpClient *http.Client, log *logging.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url: %q", baseURL)
	}
	if log == nil {
		log = logging.NopLogger()
	}
	return &Client{
		http:       httpClient,
		base:       base,
		cookieName: cookieName,
		timeout:    timeout,
		log:        log.WithComponent("taskapi"),
	}, nil
}

// envelope is the JSON body every /api/tasks endpoint answers with.
type envelope struct {
	Success bool           `json:"success"`
	Tasks   []service.Task `json:"tasks"`
	Task    *service.Task  `json:"task"`
	Message string         `json:"message"`
}

type taskBody struct {
	Description string `json:"description"`
}

// ListTasks fetches GET /api/tasks.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var env envelope
	if err := c.doJSON(ctx, "list tasks", http.MethodGet, TasksPath, nil, &env); err != nil {
		return nil, err
	}
	if env.Tasks == nil {
		return []service.Task{}, nil
	}
	return env.Tasks, nil
}

// CreateTask posts a new task.
func (c *Client) CreateTask(ctx context.Context, description string) (service.Result, error) {
	var env envelope
	if err := c.doJSON(ctx, "create task", http.MethodPost, TasksPath, taskBody{Description: description}, &env); err != nil {
		return service.Result{}, err
	}
	return resultFrom("create task", env)
}

// UpdateTask puts a new description for task id.
func (c *Client) UpdateTask(ctx context.Context, id int, description string) (service.Result, error) {
	var env envelope
	if err := c.doJSON(ctx, "update task", http.MethodPut, taskPath(id), taskBody{Description: description}, &env); err != nil {
		return service.Result{}, err
	}
	return resultFrom("update task", env)
}

// DeleteTask deletes task id.
func (c *Client) DeleteTask(ctx context.Context, id int) (service.Result, error) {
	var env envelope
	if err := c.doJSON(ctx, "delete task", http.MethodDelete, taskPath(id), nil, &env); err != nil {
		return service.Result{}, err
	}
	return service.Result{Message: env.Message}, nil
}

// FetchPage returns the HTML served at path.
func (c *Client) FetchPage(ctx context.Context, path string) (string, error) {
	resp, err := c.send(ctx, http.MethodGet, path, "text/html", "", nil)
	if err != nil {
		return "", wrapError("fetch page", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	return string(body), nil
}

// SubmitForm posts fields to action as a urlencoded form.
func (c *Client) SubmitForm(ctx context.Context, action string, fields url.Values) error {
	if err := c.ensureToken(ctx); err != nil {
		return wrapError("submit form", err)
	}

	form := url.Values{}
	for k, v := range fields {
		form[k] = v
	}
	form.Set(CSRFFormField, c.CSRFToken())

	resp, err := c.send(ctx, http.MethodPost, action, "text/html", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return wrapError("submit form", err)
	}
	resp.Body.Close()
	return nil
}

// ensureToken asks the server for the anti-forgery cookie when the jar does
// not hold one yet. A fresh process has an empty jar, so its first mutation
// would otherwise go out without a token.
func (c *Client) ensureToken(ctx context.Context) error {
	if c.CSRFToken() != "" {
		return nil
	}
	resp, err := c.send(ctx, http.MethodGet, TasksPath, "application/json", "", nil)
	if err != nil {
		return err
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
	resp.Body.Close()
	if c.CSRFToken() == "" {
		c.log.Warn("server issued no csrf cookie", "cookie", c.cookieName)
	}
	return nil
}

// CSRFToken returns the anti-forgery token held in the cookie jar,
// or an empty string if the server has not issued one yet.
func (c *Client) CSRFToken() string {
	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name != c.cookieName {
			continue
		}
		if v, err := url.QueryUnescape(ck.Value); err == nil {
			return v
		}
		return ck.Value
	}
	return ""
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, in any, out *envelope) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	if method != http.MethodGet {
		if err := c.ensureToken(ctx); err != nil {
			return wrapError(op, err)
		}
	}

	resp, err := c.send(ctx, method, path, "application/json", contentType, body)
	if err != nil {
		return wrapError(op, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(out); err != nil {
		return fmt.Errorf("%s: invalid response: %w", op, err)
	}
	// Only a 2xx answer can carry a server rejection; error statuses never
	// reach this point.
	if !out.Success {
		return &service.APIError{Op: op, Message: out.Message}
	}
	return nil
}

// send issues one request. Non-2xx responses are returned as errors with the
// body already consumed.
func (c *Client) send(ctx context.Context, method, path, accept, contentType string, body io.Reader) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)

	u, err := c.base.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set(CSRFHeader, c.CSRFToken())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		c.log.Debug("request failed", "method", method, "path", u.Path, "error", err.Error())
		return nil, err
	}
	c.log.Debug("request", "method", method, "path", u.Path, "status", resp.StatusCode, "duration", time.Since(start).String())

	if err := googleapi.CheckResponse(resp); err != nil {
		resp.Body.Close()
		cancel()
		return nil, err
	}

	resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// cancelBody releases the request context once the body is closed.
type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

func taskPath(id int) string {
	return TasksPath + "/" + strconv.Itoa(id)
}

func resultFrom(op string, env envelope) (service.Result, error) {
	if env.Task == nil {
		return service.Result{}, fmt.Errorf("%s: invalid response: missing task", op)
	}
	return service.Result{Task: *env.Task, Message: env.Message}, nil
}

// wrapError maps transport and HTTP status errors to user-facing errors.
// Error statuses are classified by code alone, whatever body they carry.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: request timed out", op)
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s: %w (status %d): check the session or csrf cookie", op, service.ErrUnauthorized, gerr.Code)
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w", op, service.ErrNotFound)
		}
		return fmt.Errorf("%s: server error (status %d)", op, gerr.Code)
	}

	return fmt.Errorf("%s: %w", op, err)
}
