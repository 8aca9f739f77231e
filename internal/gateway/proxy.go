// Package gateway is the single public entry point. It gates routes on a
// valid bearer token and relays requests to the backend services.
package gateway

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shopgrid/platform/internal/api/metrics"
)

const defaultProxyTimeout = 5 * time.Second

// Upstream is a named backend base URL, e.g. {"auth", "http://auth:3001"}.
type Upstream struct {
	Name    string
	BaseURL string
}

// Proxy relays requests to upstreams. The caller's Authorization header is
// forwarded on every call and backends verify it again.
type Proxy struct {
	client *http.Client
	log    zerolog.Logger
}

func NewProxy(timeout time.Duration, log zerolog.Logger) *Proxy {
	if timeout <= 0 {
		timeout = defaultProxyTimeout
	}
	return &Proxy{client: &http.Client{Timeout: timeout}, log: log}
}

// To returns a handler forwarding the request path and query unchanged to up.
func (p *Proxy) To(up Upstream) echo.HandlerFunc {
	base := strings.TrimRight(up.BaseURL, "/")
	return func(c echo.Context) error {
		in := c.Request()
		target := base + in.URL.Path
		if in.URL.RawQuery != "" {
			target += "?" + in.URL.RawQuery
		}

		req, err := http.NewRequestWithContext(in.Context(), in.Method, target, in.Body)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to build upstream request")
		}
		for _, h := range []string{echo.HeaderContentType, echo.HeaderAuthorization, echo.HeaderAccept} {
			if v := in.Header.Get(h); v != "" {
				req.Header.Set(h, v)
			}
		}
		if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
			req.Header.Set(echo.HeaderXRequestID, rid)
		}

		start := time.Now()
		resp, err := p.client.Do(req)
		metrics.ProxyDuration.WithLabelValues(up.Name).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.ProxyRequestsTotal.WithLabelValues(up.Name, "502").Inc()
			p.log.Error().Err(err).Str("upstream", up.Name).Str("url", target).Msg("upstream request failed")
			return c.JSON(http.StatusBadGateway, map[string]string{"error": "upstream " + up.Name + " unavailable"})
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			metrics.ProxyRequestsTotal.WithLabelValues(up.Name, "502").Inc()
			p.log.Error().Err(err).Str("upstream", up.Name).Msg("reading upstream response failed")
			return c.JSON(http.StatusBadGateway, map[string]string{"error": "upstream " + up.Name + " unavailable"})
		}
		metrics.ProxyRequestsTotal.WithLabelValues(up.Name, strconv.Itoa(resp.StatusCode)).Inc()

		if len(body) == 0 {
			return c.NoContent(resp.StatusCode)
		}
		contentType := resp.Header.Get(echo.HeaderContentType)
		if contentType == "" {
			contentType = echo.MIMEApplicationJSON
		}
		return c.Blob(resp.StatusCode, contentType, body)
	}
}
