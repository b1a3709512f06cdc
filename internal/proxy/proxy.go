// Package proxy serves the identity provider's public API under a local path prefix so browser
// flows stay on the page's origin.
package proxy

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"ory-session-page/internal/config"
	"ory-session-page/internal/identity"
)

type Proxy struct {
	prefix  string
	target  *url.URL
	logger  *slog.Logger
	reverse *httputil.ReverseProxy
}

func New(cfg config.IdentityConfig, logger *slog.Logger) (*Proxy, error) {
	target, err := url.Parse(cfg.PublicURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse identity public url: %w", err)
	}

	p := &Proxy{
		prefix: cfg.ProxyPath,
		target: target,
		logger: logger,
	}

	p.reverse = &httputil.ReverseProxy{
		Rewrite:        p.rewrite,
		ModifyResponse: p.modifyResponse,
		ErrorHandler:   p.handleError,
		Transport:      identity.InstrumentedTransport(http.DefaultTransport),
	}

	return p, nil
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.reverse.ServeHTTP(w, r)
}

// LocalURL maps an absolute provider URL onto the proxy prefix. Other URLs are returned unchanged.
func (p *Proxy) LocalURL(raw string) string {
	if local, ok := p.localLocation(raw); ok {
		return local
	}
	return raw
}

func (p *Proxy) rewrite(r *httputil.ProxyRequest) {
	r.SetURL(p.target)
	r.SetXForwarded()

	r.Out.URL.Path = joinPath(p.target.Path, p.stripPrefix(r.In.URL.Path))
	r.Out.URL.RawPath = ""
	r.Out.Host = p.target.Host
}

func (p *Proxy) stripPrefix(path string) string {
	trimmed := strings.TrimPrefix(path, p.prefix)
	if trimmed == "" {
		return "/"
	}
	return trimmed
}

// modifyResponse points redirects at the provider back through the prefix and scopes the
// provider's cookies to this origin.
func (p *Proxy) modifyResponse(resp *http.Response) error {
	if location := resp.Header.Get("Location"); location != "" {
		resp.Header.Set("Location", p.LocalURL(location))
	}

	cookies := resp.Header.Values("Set-Cookie")
	if len(cookies) == 0 {
		return nil
	}

	resp.Header.Del("Set-Cookie")
	for _, raw := range cookies {
		resp.Header.Add("Set-Cookie", hostOnlyCookie(raw))
	}

	return nil
}

// hostOnlyCookie drops the Domain attribute so the browser binds the cookie to the page's host.
func hostOnlyCookie(raw string) string {
	cookie, err := http.ParseSetCookie(raw)
	if err != nil || cookie.Domain == "" {
		return raw
	}

	cookie.Domain = ""
	if rewritten := cookie.String(); rewritten != "" {
		return rewritten
	}
	return raw
}

func (p *Proxy) localLocation(location string) (string, bool) {
	u, err := url.Parse(location)
	if err != nil || !u.IsAbs() {
		return "", false
	}

	if u.Scheme != p.target.Scheme || u.Host != p.target.Host {
		return "", false
	}

	path := u.Path
	if base := strings.TrimSuffix(p.target.Path, "/"); base != "" {
		if path != base && !strings.HasPrefix(path, base+"/") {
			return "", false
		}
		path = strings.TrimPrefix(path, base)
	}

	local := &url.URL{
		Path:     joinPath(p.prefix, path),
		RawQuery: u.RawQuery,
		Fragment: u.Fragment,
	}
	return local.String(), true
}

func (p *Proxy) handleError(w http.ResponseWriter, r *http.Request, err error) {
	p.logger.Error("identity proxy request failed", "path", r.URL.Path, "error", err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	_, _ = w.Write([]byte(`{"error":"identity provider unavailable"}`))
}

func joinPath(base, path string) string {
	base = strings.TrimSuffix(base, "/")
	if path == "" || path == "/" {
		if base == "" {
			return "/"
		}
		return base + "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
