// Package api is the single HTTP client every domain service goes through.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
)

const (
	RefreshPath = "/auth/refresh-token"

	authPathPrefix  = "/auth/"
	requestIDHeader = "X-Request-ID"
)

// TokenStore holds the bearer token. core/session implements it.
type TokenStore interface {
	Token() string
	SetToken(token string) error
	Clear() error
}

// Requester is what domain services need from the client.
type Requester interface {
	Do(ctx context.Context, method rest.Method, path string, query map[string]string, body, out interface{}) error
}

type Options struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenStore
	Logger  core.Logger

	// OnUnauthorized runs after the credentials were cleared because the session could not be refreshed.
	OnUnauthorized func()

	HTTPClient *http.Client // optional
}

type Client struct {
	baseURL        string
	rest           *rest.Client
	tokens         TokenStore
	logger         core.Logger
	onUnauthorized func()
}

var _ Requester = (*Client)(nil)

func New(opts Options) (*Client, error) {
	if err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(opts.BaseURL, "BaseURL"),
		vala.IsNotNil(opts.Tokens, "Tokens"),
		vala.IsNotNil(opts.Logger, "Logger"),
	).Check(); err != nil {
		return nil, errors.Wrap(err, "api.New")
	}

	httpClient := &http.Client{}
	if opts.HTTPClient != nil {
		copied := *opts.HTTPClient
		httpClient = &copied
	}
	if opts.Timeout > 0 {
		httpClient.Timeout = opts.Timeout
	}
	return &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		rest:           &rest.Client{HTTPClient: httpClient},
		tokens:         opts.Tokens,
		logger:         opts.Logger,
		onUnauthorized: opts.OnUnauthorized,
	}, nil
}

// Envelope wraps every API response.
type Envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data,omitempty"`
	Message   string          `json:"message,omitempty"`
	ErrorCode string          `json:"errorCode,omitempty"`
}

func (c *Client) Get(ctx context.Context, path string, query map[string]string, out interface{}) error {
	return c.Do(ctx, rest.Get, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, rest.Post, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, rest.Put, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, rest.Delete, path, nil, nil, nil)
}

// Do sends one request and decodes the envelope's data into out (when out is not nil).
// A 401 outside /auth/ triggers exactly one token refresh and one retry. When either
// fails the stored credentials are cleared and an unauthorized *Error is returned.
func (c *Client) Do(ctx context.Context, method rest.Method, path string, query map[string]string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return errors.Wrapf(err, "encoding %s %s", method, path)
		}
	}

	reqID := uuid.New().String()
	resp, err := c.send(ctx, method, path, query, payload, reqID)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && !strings.HasPrefix(path, authPathPrefix) {
		if err = c.refresh(ctx, reqID); err != nil {
			c.logger.Warn("token refresh failed", err, map[string]interface{}{"path": path, "requestId": reqID})
			return c.expire(reqID)
		}
		if resp, err = c.send(ctx, method, path, query, payload, reqID); err != nil {
			return err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			c.logger.Warn("request still unauthorized after refresh", map[string]interface{}{"path": path, "requestId": reqID})
			return c.expire(reqID)
		}
	}
	return decode(resp, reqID, out)
}

func (c *Client) send(ctx context.Context, method rest.Method, path string, query map[string]string, payload []byte, reqID string) (*rest.Response, error) {
	headers := map[string]string{
		"Accept":        "application/json",
		requestIDHeader: reqID,
	}
	if len(payload) > 0 {
		headers["Content-Type"] = "application/json"
	}
	if token := c.tokens.Token(); token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	req, err := rest.BuildRequestObject(rest.Request{
		Method:      method,
		BaseURL:     c.baseURL + path,
		Headers:     headers,
		QueryParams: query,
		Body:        payload,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "building %s %s", method, path)
	}
	res, err := c.rest.MakeRequest(req.WithContext(ctx))
	if err != nil {
		requestsTotal.WithLabelValues(string(method), "error").Inc()
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	resp, err := rest.BuildResponse(res)
	if err != nil {
		requestsTotal.WithLabelValues(string(method), "error").Inc()
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	requestsTotal.WithLabelValues(string(method), strconv.Itoa(resp.StatusCode)).Inc()
	c.logger.Debug(string(method)+" "+path, map[string]interface{}{"status": resp.StatusCode, "requestId": reqID})
	return resp, nil
}

type refreshResult struct {
	Token string `json:"token"`
}

func (c *Client) refresh(ctx context.Context, reqID string) error {
	if c.tokens.Token() == "" {
		refreshesTotal.WithLabelValues("skipped").Inc()
		return errors.New("no token to refresh")
	}

	resp, err := c.send(ctx, rest.Post, RefreshPath, nil, nil, reqID)
	if err != nil {
		refreshesTotal.WithLabelValues("error").Inc()
		return err
	}
	var res refreshResult
	if err = decode(resp, reqID, &res); err != nil {
		refreshesTotal.WithLabelValues("rejected").Inc()
		return err
	}
	if res.Token == "" {
		refreshesTotal.WithLabelValues("rejected").Inc()
		return errors.New("refresh returned no token")
	}
	if err = c.tokens.SetToken(res.Token); err != nil {
		refreshesTotal.WithLabelValues("error").Inc()
		return errors.Wrap(err, "storing refreshed token")
	}
	refreshesTotal.WithLabelValues("ok").Inc()
	return nil
}

func (c *Client) expire(reqID string) error {
	if err := c.tokens.Clear(); err != nil {
		c.logger.Error("clearing credentials", err)
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
	return errSessionExpired(reqID)
}

func decode(resp *rest.Response, reqID string, out interface{}) error {
	var env Envelope
	body := strings.TrimSpace(resp.Body)
	if body != "" {
		if err := json.Unmarshal([]byte(body), &env); err != nil {
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return errors.Wrap(err, "decoding response envelope")
			}
			env.Message = body
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{StatusCode: resp.StatusCode, Message: env.Message, Code: env.ErrorCode, RequestID: reqID}
	}
	if body == "" { // 204
		return nil
	}
	if !env.Success {
		return &Error{StatusCode: resp.StatusCode, Message: env.Message, Code: env.ErrorCode, RequestID: reqID}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	return errors.Wrap(json.Unmarshal(env.Data, out), "decoding response data")
}
