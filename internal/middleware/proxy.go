package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/labstack/echo/v4"
)

// TrustedProxies configures Echo to trust reverse proxy headers (X-Real-IP,
// X-Forwarded-For) only from connections whose peer address falls in one of
// trustedCIDRs.
//
// Without this config, c.RealIP() behind a reverse proxy would always return
// the proxy's IP, and the submit rate limit would throttle every client as one.
func TrustedProxies(e *echo.Echo, trustedCIDRs []string) {
	e.IPExtractor = buildIPExtractor(parsePrefixes(trustedCIDRs))
}

// parsePrefixes parses CIDRs, skipping (and logging) invalid entries.
func parsePrefixes(cidrs []string) []netip.Prefix {
	prefixes := make([]netip.Prefix, 0, len(cidrs))
	for _, cidr := range cidrs {
		p, err := netip.ParsePrefix(cidr)
		if err != nil {
			slog.Warn("ignoring invalid trusted proxy CIDR",
				slog.String("cidr", cidr),
				slog.Any("error", err),
			)
			continue
		}
		prefixes = append(prefixes, p.Masked())
	}
	return prefixes
}

// buildIPExtractor returns an IPExtractor that prefers X-Real-IP, then the
// leftmost X-Forwarded-For entry, when the peer is trusted.
func buildIPExtractor(trusted []netip.Prefix) echo.IPExtractor {
	return func(req *http.Request) string {
		direct := peerIP(req.RemoteAddr)
		if !isTrusted(direct, trusted) {
			return direct
		}

		if realIP := strings.TrimSpace(req.Header.Get("X-Real-IP")); realIP != "" {
			return realIP
		}
		if xff := req.Header.Get("X-Forwarded-For"); xff != "" {
			client, _, _ := strings.Cut(xff, ",")
			if client = strings.TrimSpace(client); client != "" {
				return client
			}
		}
		return direct
	}
}

// peerIP strips the port from a RemoteAddr.
func peerIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

func isTrusted(ip string, trusted []netip.Prefix) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
