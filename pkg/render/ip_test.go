package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveServiceIP(t *testing.T) {
	tests := []struct {
		name     string
		cidr     string
		octet    int
		expected string
	}{
		{"class B service range", "10.1.0.0/16", 10, "10.1.0.10"},
		{"class C subnet", "192.168.2.0/24", 10, "192.168.2.10"},
		{"gateway octet", "192.168.2.0/24", 1, "192.168.2.1"},
		{"no mask suffix", "10.152.183.0", 10, "10.152.183.10"},
		{"nonzero host bits", "10.1.0.7/16", 10, "10.1.0.10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveServiceIP(tt.cidr, tt.octet)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDeriveServiceIPRejectsMalformedInput(t *testing.T) {
	for _, cidr := range []string{"", "nonsense", "10.1.0/16", "fe80::1/64"} {
		_, err := DeriveServiceIP(cidr, 10)
		assert.Error(t, err, "cidr %q", cidr)
	}
}

func TestDNSAndGatewayAddresses(t *testing.T) {
	dns, err := DNSServerIP("10.1.0.0/16")
	require.NoError(t, err)
	assert.Equal(t, "10.1.0.10", dns)

	gw, err := GatewayIP("10.1.0.0/16")
	require.NoError(t, err)
	assert.Equal(t, "10.1.0.1", gw)
}
