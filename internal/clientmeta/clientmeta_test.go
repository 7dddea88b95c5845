package clientmeta

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ip":"203.0.113.7"}`))
	}))
	defer srv.Close()

	ip, err := NewIPLookup(srv.URL).Lookup(context.Background())
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if ip != "203.0.113.7" {
		t.Errorf("ip = %q", ip)
	}
}

func TestLookupErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status", func(w http.ResponseWriter, r *http.Request) { http.Error(w, "down", http.StatusBadGateway) }},
		{"bad json", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("nope")) }},
		{"empty ip", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"ip":""}`)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			if _, err := NewIPLookup(srv.URL).Lookup(context.Background()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNewIPLookupDefaultURL(t *testing.T) {
	if got := NewIPLookup("").url; got != DefaultLookupURL {
		t.Errorf("url = %q", got)
	}
}

func TestResolveSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ip":"198.51.100.1"}`))
	}))
	defer srv.Close()

	m := NewResolver(NewIPLookup(srv.URL), nil).Resolve(context.Background(), "test-agent/1.0")
	if m.IP != "198.51.100.1" || m.UserAgent != "test-agent/1.0" {
		t.Errorf("meta = %+v", m)
	}
}

func TestResolveFailureYieldsEmptyIP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := NewResolver(NewIPLookup(srv.URL), nil).Resolve(context.Background(), "ua")
	if m.IP != "" || m.UserAgent != "ua" {
		t.Errorf("meta = %+v", m)
	}
}

func TestResolveWithoutLookup(t *testing.T) {
	m := NewResolver(nil, nil).Resolve(context.Background(), "ua")
	if m.IP != "" || m.UserAgent != "ua" {
		t.Errorf("meta = %+v", m)
	}
}

func TestPublicIP(t *testing.T) {
	tests := map[string]string{
		"203.0.113.7:51234": "203.0.113.7",
		"203.0.113.7":       "203.0.113.7",
		"[2001:db8::1]:443": "2001:db8::1",
		"127.0.0.1:8080":    "",
		"10.1.2.3":          "",
		"192.168.0.10:80":   "",
		"[::1]:9000":        "",
		"not-an-ip":         "",
		"":                  "",
	}
	for in, want := range tests {
		if got := PublicIP(in); got != want {
			t.Errorf("PublicIP(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRemotePrefersPublicAddress(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"ip":"198.51.100.1"}`))
	}))
	defer srv.Close()
	resolver := NewResolver(NewIPLookup(srv.URL), nil)

	m := resolver.Remote("203.0.113.7:443").Resolve(context.Background(), "ua")
	if m.IP != "203.0.113.7" || calls != 0 {
		t.Errorf("public remote: meta = %+v, lookups = %d", m, calls)
	}

	m = resolver.Remote("127.0.0.1:5555").Resolve(context.Background(), "ua")
	if m.IP != "198.51.100.1" || calls != 1 {
		t.Errorf("loopback remote: meta = %+v, lookups = %d", m, calls)
	}
}

func TestRemoteOnNilResolver(t *testing.T) {
	var r *Resolver
	m := r.Remote("10.0.0.1:1").Resolve(context.Background(), "ua")
	if m.IP != "" || m.UserAgent != "ua" {
		t.Errorf("meta = %+v", m)
	}
}
