// Package api talks to the collaboration platform's REST API on behalf of generated users.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// Observer is notified of every request the client makes.
type Observer interface {
	ObserveRequest(operation string, elapsed time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveRequest(string, time.Duration, error) {}

// Credentials identify the user a request is made as.
type Credentials struct {
	UserID   string
	Password string
}

type Config struct {
	ServerURL         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

type Client struct {
	baseURL  string
	http     *http.Client
	session  *Session
	limiter  *rate.Limiter
	observer Observer
}

// NewClient creates a client for the server at config.ServerURL. Trailing slashes are ignored.
// A zero RequestsPerSecond disables pacing.
func NewClient(config Config, observer Observer) *Client {
	if observer == nil {
		observer = nopObserver{}
	}
	c := &Client{
		baseURL:  strings.TrimRight(config.ServerURL, "/"),
		http:     &http.Client{Timeout: config.Timeout},
		session:  NewSession(),
		observer: observer,
	}
	if config.RequestsPerSecond > 0 {
		burst := config.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst)
	}
	return c
}

func (c *Client) Session() *Session {
	return c.session
}

func (c *Client) ServerURL() string {
	return c.baseURL
}

type request struct {
	operation string
	path      string
	params    url.Values
	as        *Credentials
	file      string
	fileName  string
}

// Login authenticates creds and caches the session cookie.
func (c *Client) Login(ctx context.Context, creds Credentials) error {
	_, cookie, err := c.send(ctx, request{
		operation: "Login",
		path:      "/api/auth/login",
		params:    url.Values{"username": {creds.UserID}, "password": {creds.Password}},
	})
	if err != nil {
		return err
	}
	if cookie == "" {
		return errors.WithStack(&ErrNoSessionCookie{UserID: creds.UserID})
	}
	c.session.Store(creds.UserID, cookie)
	return nil
}

// post performs an authenticated POST, logging in first if the user has no cached session.
func (c *Client) post(ctx context.Context, req request) ([]byte, error) {
	if req.as != nil {
		if _, ok := c.session.Cookie(req.as.UserID); !ok {
			if err := c.Login(ctx, *req.as); err != nil {
				return nil, err
			}
		}
	}
	body, _, err := c.send(ctx, req)
	var reqErr *RequestError
	if req.as != nil && errors.As(err, &reqErr) && reqErr.Status == http.StatusUnauthorized {
		c.session.Forget(req.as.UserID)
	}
	return body, err
}

// postForID is post for create calls that answer with a JSON object carrying the new id.
func (c *Client) postForID(ctx context.Context, req request) (string, error) {
	body, err := c.post(ctx, req)
	if err != nil {
		return "", err
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return "", errors.Wrapf(err, "%s: decoding response %q", req.operation, body)
	}
	if created.ID == "" {
		return "", errors.Errorf("%s: response has no id: %s", req.operation, body)
	}
	return created.ID, nil
}

func (c *Client) send(ctx context.Context, req request) ([]byte, string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, "", errors.WithStack(err)
		}
	}

	start := time.Now()
	body, cookie, err := c.do(ctx, req)
	c.observer.ObserveRequest(req.operation, time.Since(start), err)
	return body, cookie, err
}

func (c *Client) do(ctx context.Context, req request) ([]byte, string, error) {
	endpoint := c.baseURL + req.path
	payload, contentType, err := encode(req)
	if err != nil {
		return nil, "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		return nil, "", errors.WithStack(err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Referer", c.baseURL+"/test")
	if req.as != nil {
		if cookie, ok := c.session.Cookie(req.as.UserID); ok {
			httpReq.Header.Set("Cookie", cookie)
		}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, "", errors.Wrapf(err, "%s: POST %s", req.operation, endpoint)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", errors.Wrapf(err, "%s: reading response", req.operation)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return body, "", errors.WithStack(&RequestError{
			Operation: req.operation,
			Method:    http.MethodPost,
			URL:       endpoint,
			Status:    resp.StatusCode,
			Params:    req.params,
			Body:      string(body),
		})
	}

	cookie := ""
	if cookies := resp.Header.Values("Set-Cookie"); len(cookies) > 0 {
		cookie = strings.SplitN(cookies[0], ";", 2)[0]
	}
	return body, cookie, nil
}

func encode(req request) (io.Reader, string, error) {
	if req.file == "" {
		return strings.NewReader(req.params.Encode()), "application/x-www-form-urlencoded", nil
	}

	f, err := os.Open(req.file)
	if err != nil {
		return nil, "", errors.Wrapf(err, "%s: opening upload", req.operation)
	}
	defer f.Close()

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	if err := w.SetBoundary("Boundary" + strings.ReplaceAll(uuid.NewString(), "-", "")); err != nil {
		return nil, "", errors.WithStack(err)
	}
	for key, values := range req.params {
		for _, v := range values {
			if err := w.WriteField(key, v); err != nil {
				return nil, "", errors.WithStack(err)
			}
		}
	}

	name := req.fileName
	if name == "" {
		name = filepath.Base(req.file)
	}
	contentType := mime.TypeByExtension(filepath.Ext(req.file))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(name)))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", errors.WithStack(err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", errors.Wrapf(err, "%s: reading upload", req.operation)
	}
	if err := w.Close(); err != nil {
		return nil, "", errors.WithStack(err)
	}
	return buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
