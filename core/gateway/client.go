package gateway

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"vigilant-console/config"
	"vigilant-console/core/utils"
)

const responseMaxBytes = 4 << 20

// Client speaks JSON over HTTPS to the incident platform. Every authenticated
// call carries the session's bearer token; the client itself holds no state
// beyond transport configuration.
type Client struct {
	baseURL    string
	httpClient *http.Client
	perPage    int
	logger     *utils.Logger
}

func NewClient(cfg *config.AppConfig, logger *utils.Logger) *Client {
	transport := http.DefaultTransport
	if !cfg.Gateway.VerifyTLS {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		transport = t
	}
	perPage := cfg.Gateway.DefaultPerPage
	if perPage <= 0 {
		perPage = 10
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.Gateway.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.GatewayTimeout(),
			Transport: transport,
		},
		perPage: perPage,
		logger:  logger,
	}
}

func (c *Client) DefaultPerPage() int { return c.perPage }

// do executes one platform call. authed toggles how a 401 is classified: on
// login/verify it is bad credentials, everywhere else it means the token died.
func (c *Client) do(ctx context.Context, token, method, path string, query url.Values, payload, out any, authed bool) (*PageMeta, string, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, "", fmt.Errorf("encode %s: %w", path, err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, "", fmt.Errorf("build %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", &NetworkError{Op: method + " " + path, Err: err, Retryable: true}
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseMaxBytes))
	if err != nil {
		return nil, "", &NetworkError{Op: method + " " + path, Err: err, Retryable: true}
	}
	if resp.StatusCode >= 500 {
		return nil, "", &NetworkError{
			Op:        method + " " + path,
			Err:       fmt.Errorf("upstream status %d", resp.StatusCode),
			Retryable: true,
		}
	}
	var env envelope
	if len(raw) > 0 {
		// Some endpoints answer with a bare object instead of the envelope.
		if err := json.Unmarshal(raw, &env); err != nil {
			env = envelope{Data: json.RawMessage(raw)}
		}
	}
	if resp.StatusCode == http.StatusUnauthorized {
		if authed {
			return nil, "", ErrSessionExpired
		}
		return nil, "", &AuthError{Message: messageFrom(env)}
	}
	if resp.StatusCode >= 400 {
		return nil, "", &BusinessRuleViolation{Status: resp.StatusCode, Message: messageFrom(env)}
	}
	if out != nil {
		data := env.Data
		if len(data) == 0 {
			data = json.RawMessage(raw)
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, out); err != nil {
				return nil, "", fmt.Errorf("decode %s: %w", path, err)
			}
		}
	}
	return env.Meta, messageFrom(env), nil
}

func messageFrom(env envelope) string {
	if env.Message != "" {
		return env.Message
	}
	return env.Error
}

func pageQuery(page, perPage int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		q.Set("per_page", strconv.Itoa(perPage))
	}
	return q
}

// IsAuthFailure reports whether err is a login-phase rejection.
func IsAuthFailure(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}
