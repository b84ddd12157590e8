// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"html"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
)

var csrfField = regexp.MustCompile(`name="csrf_token" value="([^"]*)"`)

// Client is a browser-like test client: it keeps cookies and does not follow
// redirects, so tests can assert on 303 responses.
type Client struct {
	t      *testing.T
	server *httptest.Server
	http   *http.Client
}

func NewClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("Failed to create cookie jar: %v", err)
	}

	return &Client{
		t:      t,
		server: server,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Response is a fully read HTTP response
type Response struct {
	Status   int
	Body     string
	Location string
}

func (c *Client) Get(path string) Response {
	c.t.Helper()
	resp, err := c.http.Get(c.server.URL + path)
	if err != nil {
		c.t.Fatalf("GET %s failed: %v", path, err)
	}
	return c.read(resp)
}

func (c *Client) PostForm(path string, form url.Values) Response {
	c.t.Helper()
	resp, err := c.http.PostForm(c.server.URL+path, form)
	if err != nil {
		c.t.Fatalf("POST %s failed: %v", path, err)
	}
	return c.read(resp)
}

func (c *Client) read(resp *http.Response) Response {
	c.t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatalf("Failed to read response body: %v", err)
	}
	return Response{
		Status:   resp.StatusCode,
		Body:     string(body),
		Location: resp.Header.Get("Location"),
	}
}

// CSRFToken loads a page and returns the csrf_token embedded in its form
func (c *Client) CSRFToken(path string) string {
	c.t.Helper()
	resp := c.Get(path)
	token := ExtractCSRFToken(resp.Body)
	if token == "" {
		c.t.Fatalf("No csrf_token found on %s (status %d)", path, resp.Status)
	}
	return token
}

// Login posts credentials and fails the test unless the server redirects to /
func (c *Client) Login(username, password string) {
	c.t.Helper()
	resp := c.PostForm("/login", url.Values{"username": {username}, "password": {password}})
	if resp.Status != http.StatusSeeOther || resp.Location != "/" {
		c.t.Fatalf("Login as %s: status %d location %q body %q", username, resp.Status, resp.Location, resp.Body)
	}
}

// ExtractCSRFToken finds the csrf_token hidden field in rendered HTML
func ExtractCSRFToken(body string) string {
	m := csrfField.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return html.UnescapeString(m[1])
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertBody checks that a plain-text response body matches after trimming
func AssertBody(t *testing.T, got, want string) {
	t.Helper()
	if strings.TrimSpace(got) != want {
		t.Errorf("Expected body %q, got %q", want, got)
	}
}
