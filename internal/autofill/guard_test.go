package autofill

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFill_DefaultClientRefusesLoopback(t *testing.T) {
	var hit atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit.Store(true)
		_, _ = w.Write([]byte(`<html><head><title>internal-admin-secret</title></head></html>`))
	}))
	defer srv.Close()

	p, err := New(nil, quiet()).Fill(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.False(t, hit.Load())
	assert.Equal(t, UnknownPosition, p.JobName)
	assert.NotContains(t, p.Description, "internal-admin-secret")
}

func TestPublicAddr(t *testing.T) {
	cases := map[string]bool{
		"127.0.0.1":       false,
		"::1":             false,
		"10.1.2.3":        false,
		"172.16.0.9":      false,
		"192.168.1.1":     false,
		"169.254.169.254": false,
		"100.64.0.1":      false,
		"0.0.0.0":         false,
		"::":              false,
		"fe80::1":         false,
		"fd00::1":         false,
		"::ffff:10.0.0.1": false,
		"224.0.0.1":       false,
		"8.8.8.8":         true,
		"151.101.1.69":    true,
		"2606:4700::1111": true,
	}
	for in, want := range cases {
		assert.Equal(t, want, PublicAddr(netip.MustParseAddr(in)), in)
	}
}

func TestDialControl(t *testing.T) {
	assert.ErrorIs(t, dialControl("tcp", "127.0.0.1:80", nil), errBlockedAddr)
	assert.ErrorIs(t, dialControl("tcp", "[fd00::1]:443", nil), errBlockedAddr)
	assert.NoError(t, dialControl("tcp", "8.8.8.8:443", nil))
}

func TestCheckRedirect(t *testing.T) {
	req := func(raw string) *http.Request {
		u, _ := url.Parse(raw)
		return &http.Request{URL: u}
	}
	assert.NoError(t, checkRedirect(req("https://jobs.example.com/1"), make([]*http.Request, 1)))
	assert.ErrorIs(t, checkRedirect(req("file:///etc/passwd"), nil), errBlockedProto)
	assert.ErrorIs(t, checkRedirect(req("https://jobs.example.com/1"), make([]*http.Request, maxRedirects)), errTooManyHops)
}

func TestValidateURL_OnlyHTTP(t *testing.T) {
	for _, raw := range []string{"file:///etc/passwd", "gopher://x.io/1", "ftp://jobs.example.com/a"} {
		_, err := ValidateURL(raw)
		assert.Error(t, err, raw)
	}
	_, err := ValidateURL("HTTP://jobs.example.com/a")
	assert.NoError(t, err)
}
