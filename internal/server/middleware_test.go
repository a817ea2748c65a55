package server

import (
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestParseTrustedProxies(t *testing.T) {
	prefixes := parseTrustedProxies([]string{
		"10.0.0.0/8",
		" 127.0.0.1 ",
		"::1",
		"192.168.1.77/24",
		"not-an-ip",
		"",
	}, arbor.NewLogger())

	require.Len(t, prefixes, 4)
	assert.Equal(t, netip.MustParsePrefix("10.0.0.0/8"), prefixes[0])
	assert.Equal(t, netip.MustParsePrefix("127.0.0.1/32"), prefixes[1])
	assert.Equal(t, netip.MustParsePrefix("::1/128"), prefixes[2])
	assert.Equal(t, netip.MustParsePrefix("192.168.1.0/24"), prefixes[3])
}

func TestClientAddress(t *testing.T) {
	trusted := []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.0.2.1/32"),
	}

	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		trusted    []netip.Prefix
		want       string
	}{
		{"no proxies configured", "192.0.2.1:1234", "203.0.113.5", nil, "192.0.2.1"},
		{"untrusted peer spoofing", "198.51.100.9:5555", "203.0.113.5", trusted, "198.51.100.9"},
		{"trusted peer", "192.0.2.1:1234", "203.0.113.5", trusted, "203.0.113.5"},
		{"trusted chain", "192.0.2.1:1234", "203.0.113.5, 10.1.2.3", trusted, "203.0.113.5"},
		{"client forged leftmost hop", "192.0.2.1:1234", "1.1.1.1, 203.0.113.5", trusted, "203.0.113.5"},
		{"only trusted hops", "192.0.2.1:1234", "10.0.0.1", trusted, "192.0.2.1"},
		{"trusted peer without header", "192.0.2.1:1234", "", trusted, "192.0.2.1"},
		{"address without port", "192.0.2.1", "203.0.113.5", trusted, "203.0.113.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/health", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, clientAddress(req, tt.trusted))
		})
	}
}
