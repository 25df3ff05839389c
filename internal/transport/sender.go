// Package transport owns the HTTP side of the client: a configured sender
// for single gateway calls and a dispatcher that fans chunked payloads out
// concurrently.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const contentType = "application/json"

// Response is the raw outcome of one gateway call, consumed by the
// response aggregator.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Sender performs single authenticated calls against the gateway. The
// underlying http.Client (including any proxy mapping) is built once at
// construction and shared read-only across concurrent calls.
type Sender struct {
	client        *http.Client
	apiKey        string
	timeout       time.Duration
	maxRetryAfter int
	logger        *slog.Logger
}

// NewSender builds a Sender. proxies maps a URL scheme ("http", "https") to
// a proxy URL; an empty map disables proxying. timeout bounds each
// individual HTTP attempt. maxRetryAfter bounds how many additional
// attempts a server-supplied Retry-After may trigger.
func NewSender(apiKey string, proxies map[string]string, timeout time.Duration, maxRetryAfter int, logger *slog.Logger) (*Sender, error) {
	proxyByScheme := make(map[string]*url.URL, len(proxies))
	for scheme, raw := range proxies {
		proxyURL, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s proxy %q: %w", scheme, raw, err)
		}
		proxyByScheme[scheme] = proxyURL
	}

	client := &http.Client{}
	if len(proxyByScheme) > 0 {
		client.Transport = &http.Transport{
			Proxy: func(req *http.Request) (*url.URL, error) {
				return proxyByScheme[req.URL.Scheme], nil
			},
		}
	}

	return &Sender{
		client:        client,
		apiKey:        apiKey,
		timeout:       timeout,
		maxRetryAfter: maxRetryAfter,
		logger:        logger.With("component", "Sender"),
	}, nil
}

// Post sends one payload. When the response carries a positive Retry-After
// (seconds), Post suspends for that duration and resubmits the identical
// request, at most maxRetryAfter extra times; the wait aborts if ctx is
// cancelled. The last response is returned regardless of status code --
// classification is the aggregator's job, not the transport's.
func (s *Sender) Post(ctx context.Context, endpoint string, body []byte) (*Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := s.do(ctx, http.MethodPost, endpoint, body)
		if err != nil {
			return nil, err
		}

		wait := retryAfter(resp.Header)
		if wait <= 0 || attempt >= s.maxRetryAfter {
			return resp, nil
		}

		s.logger.Info("Gateway requested retry", "wait", wait, "attempt", attempt+1)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// Get performs one GET against the instance-id endpoints. No Retry-After
// handling: the gateway only emits it on the send path.
func (s *Sender) Get(ctx context.Context, endpoint string) (*Response, error) {
	return s.do(ctx, http.MethodGet, endpoint, nil)
}

func (s *Sender) do(ctx context.Context, method, endpoint string, body []byte) (*Response, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "key="+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway call failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading gateway response: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       raw,
	}, nil
}

// retryAfter returns the server-requested delay, or zero when absent or
// not a positive integer number of seconds.
func retryAfter(h http.Header) time.Duration {
	raw := h.Get("Retry-After")
	if raw == "" {
		return 0
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
