package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the PDF Chat backend. All methods are safe for
// concurrent use; the zero timeout falls back to 60s.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Login exchanges credentials for a bearer token. The endpoint expects
// application/x-www-form-urlencoded and answers with either a bare token
// string or an object carrying an access_token field.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/auth/login/access-token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", ErrInvalidCredentials
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read login response: %w", err)
	}
	token, err := extractToken(body)
	if err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	return token, nil
}

func extractToken(body []byte) (string, error) {
	var bare string
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}
	var obj struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &obj); err != nil {
		return "", err
	}
	if obj.AccessToken == "" {
		return "", fmt.Errorf("no access_token in response")
	}
	return obj.AccessToken, nil
}

// Signup registers a new account. It never establishes a session; the
// caller logs in afterwards.
func (c *Client) Signup(ctx context.Context, username, email, password string) error {
	payload, err := json.Marshal(map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("marshal signup payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/auth/signup", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build signup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("signup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &SignupError{Message: signupMessage(resp.Body)}
}

func signupMessage(r io.Reader) string {
	var body struct {
		Detail []struct {
			Msg string `json:"msg"`
		} `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&body); err == nil && len(body.Detail) > 0 && body.Detail[0].Msg != "" {
		return body.Detail[0].Msg
	}
	return "Failed to sign up."
}

// UploadPDF sends the file as a multipart form field named "file".
// The response body is ignored; only the status matters.
func (c *Client) UploadPDF(ctx context.Context, token, filename string, content io.Reader) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/pdfs/upload-pdf", &buf)
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s", ErrUpload, resp.Status)
	}
	return nil
}

// Query asks a question about the active document and returns the
// server's answer text.
func (c *Client) Query(ctx context.Context, token, question string) (string, error) {
	payload, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return "", fmt.Errorf("marshal query payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/pdfs/query", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrQuery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: %s", ErrQuery, resp.Status)
	}

	var body struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrQuery, err)
	}
	return body.Response, nil
}

// BaseURL exposes the configured server address for diagnostics.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Reachable reports whether the backend answers HTTP at all. Used by
// the doctor command; any response counts, including error statuses.
func (c *Client) Reachable() bool {
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(c.baseURL + "/docs")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}
