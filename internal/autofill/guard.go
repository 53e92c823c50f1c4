package autofill

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"syscall"
	"time"
)

const maxRedirects = 5

var (
	errBlockedAddr  = errors.New("autofill: destination address not allowed")
	errTooManyHops  = errors.New("autofill: too many redirects")
	errBlockedProto = errors.New("autofill: redirect scheme not allowed")
	cgnat           = netip.MustParsePrefix("100.64.0.0/10")
)

// PublicClient fetches only public addresses. The check runs on the
// resolved IP at dial time, so DNS names and redirects that point inward
// are refused too.
func PublicClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: timeout, Control: dialControl}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               nil,
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: timeout,
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
		},
		CheckRedirect: checkRedirect,
	}
}

func dialControl(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return fmt.Errorf("%w: %s", errBlockedAddr, host)
	}
	if !PublicAddr(ip) {
		return fmt.Errorf("%w: %s", errBlockedAddr, ip)
	}
	return nil
}

// PublicAddr reports whether ip is routable on the internet.
func PublicAddr(ip netip.Addr) bool {
	ip = ip.Unmap()
	switch {
	case !ip.IsValid(),
		ip.IsLoopback(),
		ip.IsPrivate(),
		ip.IsLinkLocalUnicast(),
		ip.IsLinkLocalMulticast(),
		ip.IsInterfaceLocalMulticast(),
		ip.IsMulticast(),
		ip.IsUnspecified(),
		cgnat.Contains(ip):
		return false
	}
	return true
}

func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return errTooManyHops
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return errBlockedProto
	}
	return nil
}
