package ingest

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"syscall"
	"time"
)

// ErrForbiddenHost is returned when a source resolves to a loopback,
// private, link-local or otherwise non-public address.
var ErrForbiddenHost = fmt.Errorf("%w: host is not a public address", ErrUnsupportedSource)

// NewHTTPClient returns a client that only dials public addresses. The check
// runs on the resolved address of every connection, redirects included.
// allowed lists extra prefixes that may be dialed anyway.
func NewHTTPClient(timeout time.Duration, allowed ...netip.Prefix) *http.Client {
	dialer := &net.Dialer{
		Timeout: 10 * time.Second,
		Control: publicOnly(allowed),
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			// No proxy: the dial check must see the real destination.
			Proxy:                 nil,
			DialContext:           dialer.DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: timeout,
			MaxIdleConns:          10,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}

func publicOnly(allowed []netip.Prefix) func(network, address string, c syscall.RawConn) error {
	return func(network, address string, c syscall.RawConn) error {
		host, _, err := net.SplitHostPort(address)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrForbiddenHost, address)
		}
		addr, err := netip.ParseAddr(host)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrForbiddenHost, address)
		}
		addr = addr.Unmap()
		for _, p := range allowed {
			if p.Contains(addr) {
				return nil
			}
		}
		if !isPublic(addr) {
			return fmt.Errorf("%w: %s", ErrForbiddenHost, addr)
		}
		return nil
	}
}

func isPublic(addr netip.Addr) bool {
	return addr.IsValid() &&
		addr.IsGlobalUnicast() &&
		!addr.IsPrivate() &&
		!addr.IsLoopback() &&
		!addr.IsLinkLocalUnicast() &&
		!sharedAddressSpace.Contains(addr)
}

// 100.64.0.0/10 is carrier-grade NAT space, not reachable publicly.
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")
