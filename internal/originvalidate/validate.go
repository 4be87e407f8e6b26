// Package originvalidate implements the SSRF filter applied to any
// client-supplied origin URL before the stitcher fetches it.
package originvalidate

import (
	"net"
	"net/url"

	"github.com/streamops/stitcher/internal/apperr"
)

// genericErrMsg is returned for every rejection. It deliberately never
// echoes the blocked address, to avoid leaking internal-network
// topology back to the caller.
const genericErrMsg = "Origin address is not allowed"

// blockedV4 lists the reserved/private IPv4 ranges the spec forbids.
var blockedV4 = mustParseCIDRs(
	"0.0.0.0/8",
	"10.0.0.0/8",
	"100.64.0.0/10",
	"127.0.0.0/8",
	"169.254.0.0/16",
	"172.16.0.0/12",
	"192.0.0.0/24",
	"192.0.2.0/24",
	"192.168.0.0/16",
	"198.18.0.0/15",
	"198.51.100.0/24",
	"203.0.113.0/24",
	"240.0.0.0/4",
)

// blockedV6 lists the reserved IPv6 ranges the spec forbids, not
// counting the NAT64/mapped/compat forms which are unwrapped to their
// embedded IPv4 address and validated against blockedV4 instead.
var blockedV6 = mustParseCIDRs(
	"fe80::/10",
	"fc00::/7",
	"2001:db8::/32",
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(c)
		if err != nil {
			panic("originvalidate: invalid CIDR literal " + c)
		}
		nets = append(nets, n)
	}
	return nets
}

// nat64Prefixes are the well-known-prefix and one documented
// operator-assigned NAT64 prefix; an address under either embeds an
// IPv4 address in its low 32 bits.
var nat64Prefixes = mustParseCIDRs(
	"64:ff9b::/96",
	"64:ff9b:1::/48",
)

// Validate rejects any URL that is not plain HTTP(S) to a public host,
// returning an apperr.KindInvalidOrigin error on rejection. Hostnames
// are accepted without DNS resolution; this is a documented residual
// risk (DNS rebinding), not a bug.
func Validate(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return apperr.New(apperr.KindInvalidOrigin, genericErrMsg)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return apperr.New(apperr.KindInvalidOrigin, genericErrMsg)
	}

	host := u.Hostname()
	if host == "" {
		return apperr.New(apperr.KindInvalidOrigin, genericErrMsg)
	}

	ip := net.ParseIP(host)
	if ip == nil {
		// Not a literal IP address; accepted without resolution.
		return nil
	}

	if ip4 := ip.To4(); ip4 != nil {
		if ipBlockedV4(ip4) {
			return apperr.New(apperr.KindInvalidOrigin, genericErrMsg)
		}
		return nil
	}

	if embedded := embeddedIPv4(ip); embedded != nil {
		if ipBlockedV4(embedded) {
			return apperr.New(apperr.KindInvalidOrigin, genericErrMsg)
		}
		return nil
	}

	if ipBlockedV6(ip) {
		return apperr.New(apperr.KindInvalidOrigin, genericErrMsg)
	}

	return nil
}

func ipBlockedV4(ip net.IP) bool {
	if ip.Equal(net.IPv4bcast) {
		return true
	}
	for _, n := range blockedV4 {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

func ipBlockedV6(ip net.IP) bool {
	if ip.IsUnspecified() || ip.IsLoopback() {
		return true
	}
	for _, n := range blockedV6 {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// embeddedIPv4 detects IPv4-in-IPv6 bypass forms: IPv4-mapped
// (::ffff:a.b.c.d), IPv4-compatible (::a.b.c.d, a non-zero address in
// the low 32 bits of the unspecified prefix), and NAT64 synthesized
// addresses. It returns the embedded address, or nil if ip carries no
// embedded IPv4.
func embeddedIPv4(ip net.IP) net.IP {
	if ip.To4() != nil {
		return nil
	}
	ip16 := ip.To16()
	if ip16 == nil {
		return nil
	}

	// IPv4-mapped: ::ffff:0:0/96
	if isZero(ip16[0:10]) && ip16[10] == 0xff && ip16[11] == 0xff {
		return net.IP(ip16[12:16])
	}

	// IPv4-compatible: ::a.b.c.d/96 (low 32 bits non-zero, rest zero).
	if isZero(ip16[0:12]) && !isZero(ip16[12:16]) {
		v4 := net.IP(ip16[12:16])
		if !v4.Equal(net.IPv4zero) && !v4.Equal(net.IPv4(0, 0, 0, 1)) {
			return v4
		}
	}

	for _, prefix := range nat64Prefixes {
		if prefix.Contains(ip16) {
			ones, bits := prefix.Mask.Size()
			if bits-ones >= 32 {
				return net.IP(ip16[12:16])
			}
		}
	}

	return nil
}

func isZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
