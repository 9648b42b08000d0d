// Package config loads the node configuration consumed by the render
// context: network parameters, DNS settings and free-form service options
// forwarded verbatim to the unit templates.
package config

import (
	"net"
	"os"
	"strings"

	"github.com/distribution/reference"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/validation"
)

// Config is the unit configuration for one control-plane node.
type Config struct {
	// CIDR is the service network used to derive the DNS address when no
	// SDN subnet fact has been published.
	CIDR string `yaml:"cidr"`
	// DNSDomain is the cluster DNS domain, e.g. "cluster.local".
	DNSDomain string `yaml:"dns_domain"`
	// DNSImage is the kube-dns container image reference rendered into the
	// DNS add-on defaults.
	DNSImage string `yaml:"dns_image"`
	// PrivateAddress and PublicAddress are the node's addresses as exposed
	// to the rendered units.
	PrivateAddress string `yaml:"private_address"`
	PublicAddress  string `yaml:"public_address"`
	// Options is merged flat into the render context after the network
	// block, so an option can override a derived value.
	Options map[string]string `yaml:"options"`
}

// Option defaults applied when the config file omits a field.
const (
	DefaultCIDR      = "10.1.0.0/16"
	DefaultDNSDomain = "cluster.local"
	DefaultDNSImage  = "registry.k8s.io/kube-dns:1.14.13"
)

// Default returns a configuration with every option at its default.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	return Parse(data)
}

// Parse decodes and validates YAML configuration data.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal node config")
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.CIDR == "" {
		c.CIDR = DefaultCIDR
	}
	if c.DNSDomain == "" {
		c.DNSDomain = DefaultDNSDomain
	}
	if c.DNSImage == "" {
		c.DNSImage = DefaultDNSImage
	}
}

// Validate checks the fields a bad value would otherwise only surface at
// render or start time.
func (c *Config) Validate() error {
	if _, _, err := net.ParseCIDR(c.CIDR); err != nil {
		return errors.Wrapf(err, "invalid cidr %q", c.CIDR)
	}
	if msgs := validation.IsDNS1123Subdomain(c.DNSDomain); len(msgs) > 0 {
		return errors.Errorf("invalid dns_domain %q: %s", c.DNSDomain, msgs[0])
	}
	if _, err := reference.ParseAnyReference(c.DNSImage); err != nil {
		return errors.Wrapf(err, "invalid dns_image %q", c.DNSImage)
	}
	if c.PrivateAddress != "" {
		if msgs := validation.IsValidIP(c.PrivateAddress); len(msgs) > 0 {
			return errors.Errorf("invalid private_address %q: %s", c.PrivateAddress, msgs[0])
		}
	}
	if c.PublicAddress != "" {
		if msgs := validation.IsValidIP(c.PublicAddress); len(msgs) > 0 {
			return errors.Errorf("invalid public_address %q: %s", c.PublicAddress, msgs[0])
		}
	}
	return nil
}

// Map flattens the configuration into render-context keys. Options are laid
// on top so operators can override the named fields per template.
func (c *Config) Map() map[string]interface{} {
	m := map[string]interface{}{
		"cidr":            c.CIDR,
		"dns_domain":      c.DNSDomain,
		"dns_image":       c.DNSImage,
		"private_address": c.PrivateAddress,
		"public_address":  c.PublicAddress,
	}
	for k, v := range c.Options {
		m[k] = v
	}
	return m
}
