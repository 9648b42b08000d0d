package reconcile

import (
	"context"

	"github.com/kubelift/kubelift/pkg/common"
	"github.com/kubelift/kubelift/pkg/state"
	"github.com/kubelift/kubelift/pkg/status"
)

// installRule unpacks and installs the control-plane binaries once. Any
// install failure is fatal; the installed flag stays unset so the next
// event retries from scratch.
func (d *Driver) installRule() Rule {
	return Rule{
		Name: "install",
		When: func(s state.Store) bool {
			return !s.HasFlag(common.FlagInstalled)
		},
		Run: func(ctx context.Context, p *Pass) error {
			if err := d.deps.Installer.InstallBinaries(ctx); err != nil {
				return err
			}
			return d.deps.Store.SetFlag(common.FlagInstalled)
		},
	}
}

// startMasterRule renders every service with the etcd relation data and
// starts the three master services. Each service that starts cleanly gets
// its readiness flag; a failed start leaves the flag unset and a later
// event retries here because not all three flags are set.
func (d *Driver) startMasterRule() Rule {
	allMastersAvailable := func(s state.Store) bool {
		for _, svc := range common.MasterComponents {
			if !s.HasFlag(common.AvailableFlag(svc)) {
				return false
			}
		}
		return true
	}
	return Rule{
		Name: "start-master",
		When: func(s state.Store) bool {
			return s.HasFlag(common.FlagCAAvailable) &&
				s.HasFlag(common.FlagEtcdAvailable) &&
				!allMastersAvailable(s)
		},
		Run: func(ctx context.Context, p *Pass) error {
			d.deps.Status.Set(status.Maintenance, "Rendering the Kubernetes master systemd files.")
			if err := d.deps.Renderer.RenderFiles(ctx, p.Relation); err != nil {
				return err
			}
			d.deps.Status.Set(status.Maintenance, "Starting the Kubernetes master services.")
			for _, svc := range common.MasterComponents {
				log := p.Log.With("service", svc)
				ok, err := d.deps.Runner.StartService(ctx, svc)
				if err != nil {
					return err
				}
				if !ok {
					log.Warnf("service failed to start, will retry on the next event")
					continue
				}
				if err := d.deps.Store.SetFlag(common.AvailableFlag(svc)); err != nil {
					return err
				}
				log.Successf("service started")
			}
			return nil
		},
	}
}

// launchDNSRule brings up the DNS add-on once the API server answers. The
// probe failing is not an error: the readiness flag is cleared and a later
// event retries. A namespace create failure is fatal; the namespace is a
// hard prerequisite of the DNS manifests.
func (d *Driver) launchDNSRule() Rule {
	dnsFlag := common.AvailableFlag(common.KubeDNS)
	return Rule{
		Name: "launch-dns",
		When: func(s state.Store) bool {
			return s.HasFlag(common.AvailableFlag(common.KubeAPIServer)) &&
				!s.HasFlag(dnsFlag)
		},
		Run: func(ctx context.Context, p *Pass) error {
			d.deps.Status.Set(status.Maintenance, "Rendering the Kubernetes DNS systemd files.")
			if !d.deps.Runner.ClusterInfo(ctx) {
				p.Log.Infof("kubectl probe failed, waiting for apiserver to start")
				return d.deps.Store.ClearFlag(dnsFlag)
			}
			if !d.deps.Runner.NamespaceExists(ctx, common.SystemNamespace) {
				if err := d.deps.Runner.CreateNamespace(ctx, common.SystemNamespace); err != nil {
					return err
				}
				p.Log.Infof("created namespace %s", common.SystemNamespace)
			}
			if err := d.deps.Renderer.RenderFiles(ctx, p.Relation); err != nil {
				return err
			}
			ok, err := d.deps.Runner.StartService(ctx, common.KubeDNS)
			if err != nil {
				return err
			}
			if !ok {
				p.Log.Warnf("kube-dns failed to start, will retry on the next event")
				return nil
			}
			if err := d.deps.Store.SetFlag(dnsFlag); err != nil {
				return err
			}
			p.Log.Successf("kube-dns started")
			return nil
		},
	}
}
