// Package render assembles the configuration context for the control-plane
// services and writes their unit and defaults files from the embedded
// templates. The context is rebuilt from scratch on every render pass;
// nothing in it is persisted.
package render

import (
	"context"
	"path/filepath"

	"github.com/kubelift/kubelift/pkg/common"
	"github.com/kubelift/kubelift/pkg/config"
	"github.com/kubelift/kubelift/pkg/etcd"
	"github.com/kubelift/kubelift/pkg/logger"
	"github.com/kubelift/kubelift/pkg/runner"
	"github.com/kubelift/kubelift/pkg/state"
	"github.com/kubelift/kubelift/pkg/status"
)

// Renderer renders service definitions for one node. The directory fields
// default to the fixed node layout and are only overridden by tests.
type Renderer struct {
	Runner runner.Runner
	Store  state.Store
	Config *config.Config
	Status status.Setter
	Log    *logger.Logger

	WorkDir     string
	UnitDir     string
	DefaultsDir string
	EtcdTLSDir  string
}

// New returns a Renderer against the node's fixed directory layout.
func New(run runner.Runner, store state.Store, cfg *config.Config, st status.Setter, log *logger.Logger) *Renderer {
	return &Renderer{
		Runner:      run,
		Store:       store,
		Config:      cfg,
		Status:      st,
		Log:         log,
		WorkDir:     common.WorkDir,
		UnitDir:     common.SystemdUnitDir,
		DefaultsDir: common.DefaultsDir,
		EtcdTLSDir:  common.EtcdTLSDir,
	}
}

// gatherSDNData derives the DNS parameters. The SDN subnet fact is
// preferred; the configured CIDR is the fallback. The values stay nested
// under "pillar" because the upstream kubedns templates expect them there.
func (r *Renderer) gatherSDNData() (map[string]interface{}, error) {
	cidr := r.Config.CIDR
	if subnet, ok := r.Store.Get(common.KeySDNSubnet); ok {
		cidr = subnet
	}
	dnsServer, err := DNSServerIP(cidr)
	if err != nil {
		return nil, err
	}
	pillar := map[string]interface{}{
		"dns_server":   dnsServer,
		"dns_replicas": common.DNSReplicas,
		"dns_domain":   r.Config.DNSDomain,
	}
	return map[string]interface{}{"pillar": pillar}, nil
}

// BuildContext assembles the full render context. Later steps overwrite
// earlier keys on conflict. When a relation is supplied its client
// credentials are materialized under EtcdTLSDir as a side effect.
func (r *Renderer) BuildContext(ctx context.Context, rel etcd.Relation) (map[string]interface{}, error) {
	out := map[string]interface{}{}

	sdn, err := r.gatherSDNData()
	if err != nil {
		return nil, err
	}
	for k, v := range sdn {
		out[k] = v
	}

	for k, v := range r.Config.Map() {
		out[k] = v
	}

	if rel != nil {
		ca := filepath.Join(r.EtcdTLSDir, common.EtcdClientCAFile)
		key := filepath.Join(r.EtcdTLSDir, common.EtcdClientKeyFile)
		cert := filepath.Join(r.EtcdTLSDir, common.EtcdClientCertFile)
		if err := rel.SaveClientCredentials(key, cert, ca); err != nil {
			return nil, err
		}
		out["etcd_dir"] = r.EtcdTLSDir
		out["connection_string"] = rel.ConnectionString()
		out["etcd_ca"] = ca
		out["etcd_key"] = key
		out["etcd_cert"] = cert
	}

	arch, err := r.DetectArchitecture(ctx)
	if err != nil {
		return nil, err
	}
	out["arch"] = arch
	out["master_address"] = r.Config.PrivateAddress
	out["private_address"] = r.Config.PrivateAddress
	out["public_address"] = r.Config.PublicAddress
	out["manifest_directory"] = filepath.Join(r.WorkDir, common.RenderedManifestDirName)

	return out, nil
}
