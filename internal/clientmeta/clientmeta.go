// Package clientmeta resolves best-effort metadata about the visitor who
// submitted a form.
package clientmeta

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/lumenforge/website/internal/logger"
)

// DefaultLookupURL is the public IP lookup service.
const DefaultLookupURL = "https://api.ipify.org?format=json"

const lookupTimeout = 5 * time.Second

// Meta is the metadata stored alongside a submission. IP is empty when it
// could not be resolved.
type Meta struct {
	IP        string
	UserAgent string
}

// IPLookup asks a public service for the caller's address.
type IPLookup struct {
	url    string
	client *http.Client
}

// NewIPLookup creates a lookup against url, or DefaultLookupURL when empty.
func NewIPLookup(url string) *IPLookup {
	if url == "" {
		url = DefaultLookupURL
	}
	return &IPLookup{
		url:    url,
		client: &http.Client{Timeout: lookupTimeout},
	}
}

// Lookup returns the address reported by the service.
func (l *IPLookup) Lookup(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return "", fmt.Errorf("creating ip lookup request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ip lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("ip lookup returned status %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		IP string `json:"ip"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding ip lookup response: %w", err)
	}
	if out.IP == "" {
		return "", fmt.Errorf("ip lookup returned no address")
	}
	return out.IP, nil
}

// Lookuper is anything that can report the visitor's address.
type Lookuper interface {
	Lookup(ctx context.Context) (string, error)
}

// Resolver combines the IP lookup with the request's user agent.
type Resolver struct {
	ip  Lookuper
	log *slog.Logger
}

// NewResolver creates a Resolver. A nil lookuper always yields an empty IP.
func NewResolver(ip Lookuper, log *slog.Logger) *Resolver {
	if log == nil {
		log = logger.Discard()
	}
	return &Resolver{ip: ip, log: log.With(logger.Scope("clientmeta"))}
}

// Resolve never fails: a lookup error leaves Meta.IP empty.
func (r *Resolver) Resolve(ctx context.Context, userAgent string) Meta {
	m := Meta{UserAgent: userAgent}
	if r == nil || r.ip == nil {
		return m
	}
	ip, err := r.ip.Lookup(ctx)
	if err != nil {
		r.log.Debug("ip lookup failed", logger.Error(err))
		return m
	}
	m.IP = ip
	return m
}

// Remote binds r to one request. A public remoteAddr is reported as is;
// loopback and private addresses, as seen in development or behind an
// unconfigured proxy, fall back to the lookup.
func (r *Resolver) Remote(remoteAddr string) RemoteResolver {
	return RemoteResolver{addr: remoteAddr, next: r}
}

// RemoteResolver is a Resolver bound to a request's remote address.
type RemoteResolver struct {
	addr string
	next *Resolver
}

// Resolve never fails.
func (rr RemoteResolver) Resolve(ctx context.Context, userAgent string) Meta {
	if ip := PublicIP(rr.addr); ip != "" {
		return Meta{IP: ip, UserAgent: userAgent}
	}
	return rr.next.Resolve(ctx, userAgent)
}

// PublicIP extracts the address from a RemoteAddr ("ip" or "ip:port") and
// returns it only when it is globally routable.
func PublicIP(remoteAddr string) string {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	ip := net.ParseIP(host)
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || ip.IsLinkLocalUnicast() {
		return ""
	}
	return ip.String()
}
