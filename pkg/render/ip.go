package render

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	dnsServerOctet = 10
	gatewayOctet   = 1
)

// DeriveServiceIP strips the mask from a CIDR and replaces the final octet,
// so "10.1.2.0/24" with octet 10 yields "10.1.2.10".
func DeriveServiceIP(cidr string, lastOctet int) (string, error) {
	ip := strings.SplitN(cidr, "/", 2)[0]
	octets := strings.Split(ip, ".")
	if len(octets) != 4 {
		return "", errors.Errorf("cannot derive service address from %q", cidr)
	}
	for _, o := range octets[:3] {
		if _, err := strconv.Atoi(o); err != nil {
			return "", errors.Errorf("cannot derive service address from %q", cidr)
		}
	}
	octets[3] = strconv.Itoa(lastOctet)
	return strings.Join(octets, "."), nil
}

// DNSServerIP returns the cluster DNS address on the given CIDR.
func DNSServerIP(cidr string) (string, error) {
	return DeriveServiceIP(cidr, dnsServerOctet)
}

// GatewayIP returns the SDN gateway address on the given CIDR. Nothing in
// the reconciliation rules consumes it yet; it is kept for the SDN-facing
// templates that will.
func GatewayIP(cidr string) (string, error) {
	return DeriveServiceIP(cidr, gatewayOctet)
}
