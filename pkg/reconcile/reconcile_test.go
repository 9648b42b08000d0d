package reconcile

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubelift/kubelift/pkg/common"
	"github.com/kubelift/kubelift/pkg/etcd"
	"github.com/kubelift/kubelift/pkg/logger"
	"github.com/kubelift/kubelift/pkg/state"
	"github.com/kubelift/kubelift/pkg/status"
)

type fakeRunner struct {
	startResults map[string]bool
	startErr     error
	started      []string

	clusterUp        bool
	clusterProbes    int
	namespacePresent bool
	namespaceChecks  []string
	created          []string
	createErr        error
}

func (f *fakeRunner) Run(ctx context.Context, cmd string, sudo bool) (string, error) {
	return "", nil
}
func (f *fakeRunner) Check(ctx context.Context, cmd string, sudo bool) (bool, error) {
	return true, nil
}
func (f *fakeRunner) Mkdirp(ctx context.Context, path string) error { return nil }
func (f *fakeRunner) InstallBinary(ctx context.Context, src, destDir string) error {
	return nil
}
func (f *fakeRunner) StartService(ctx context.Context, service string) (bool, error) {
	f.started = append(f.started, service)
	if f.startErr != nil {
		return false, f.startErr
	}
	if f.startResults == nil {
		return true, nil
	}
	ok, known := f.startResults[service]
	if !known {
		return true, nil
	}
	return ok, nil
}
func (f *fakeRunner) PackageArchitecture(ctx context.Context) (string, error) {
	return "amd64", nil
}
func (f *fakeRunner) ClusterInfo(ctx context.Context) bool {
	f.clusterProbes++
	return f.clusterUp
}
func (f *fakeRunner) NamespaceExists(ctx context.Context, namespace string) bool {
	f.namespaceChecks = append(f.namespaceChecks, namespace)
	return f.namespacePresent
}
func (f *fakeRunner) CreateNamespace(ctx context.Context, namespace string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, namespace)
	return nil
}

type fakeInstaller struct {
	calls int
	err   error
}

func (f *fakeInstaller) InstallBinaries(ctx context.Context) error {
	f.calls++
	return f.err
}

type fakeRenderer struct {
	calls     int
	relations []etcd.Relation
	err       error
}

func (f *fakeRenderer) RenderFiles(ctx context.Context, rel etcd.Relation) error {
	f.calls++
	f.relations = append(f.relations, rel)
	return f.err
}

type staticRelation struct{ connection string }

func (r *staticRelation) ConnectionString() string { return r.connection }
func (r *staticRelation) SaveClientCredentials(keyPath, certPath, caPath string) error {
	return nil
}

type harness struct {
	driver    *Driver
	store     *state.MemoryStore
	runner    *fakeRunner
	installer *fakeInstaller
	renderer  *fakeRenderer
	recorder  *status.Recorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log, err := logger.NewLogger(logger.Options{})
	require.NoError(t, err)
	h := &harness{
		store:     state.NewMemory(),
		runner:    &fakeRunner{clusterUp: true, namespacePresent: true},
		installer: &fakeInstaller{},
		renderer:  &fakeRenderer{},
		recorder:  &status.Recorder{},
	}
	h.driver = New(Deps{
		Store:     h.store,
		Runner:    h.runner,
		Status:    h.recorder,
		Log:       log,
		Installer: h.installer,
		Renderer:  h.renderer,
	})
	return h
}

func TestInstallRuleRunsOnceAndSetsFlag(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.driver.HandleEvent(context.Background(), Event{}))
	assert.Equal(t, 1, h.installer.calls)
	assert.True(t, h.store.HasFlag(common.FlagInstalled))

	require.NoError(t, h.driver.HandleEvent(context.Background(), Event{}))
	assert.Equal(t, 1, h.installer.calls)
}

func TestInstallFailureIsFatalAndLeavesFlagUnset(t *testing.T) {
	h := newHarness(t)
	h.installer.err = errors.New("bad bundle")

	err := h.driver.HandleEvent(context.Background(), Event{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule install failed")
	assert.False(t, h.store.HasFlag(common.FlagInstalled))
}

func TestStartMasterSetsPerServiceFlags(t *testing.T) {
	h := newHarness(t)
	rel := &staticRelation{connection: "https://10.0.0.11:2379"}

	err := h.driver.HandleEvent(context.Background(), Event{
		SetFlags: []string{common.FlagCAAvailable},
		Relation: rel,
	})
	require.NoError(t, err)

	assert.True(t, h.store.HasFlag(common.FlagEtcdAvailable))
	for _, svc := range common.MasterComponents {
		assert.True(t, h.store.HasFlag(common.AvailableFlag(svc)), svc)
	}
	assert.Contains(t, h.runner.started, common.KubeAPIServer)
	require.NotEmpty(t, h.renderer.relations)
	assert.Equal(t, rel, h.renderer.relations[0])

	var messages []string
	for _, e := range h.recorder.Entries {
		assert.Equal(t, status.Maintenance, e.Level)
		messages = append(messages, e.Message)
	}
	assert.Contains(t, messages, "Rendering the Kubernetes master systemd files.")
	assert.Contains(t, messages, "Starting the Kubernetes master services.")
}

func TestStartMasterFailedStartLeavesFlagUnsetAndRetries(t *testing.T) {
	h := newHarness(t)
	h.runner.startResults = map[string]bool{common.KubeScheduler: false}

	err := h.driver.HandleEvent(context.Background(), Event{
		SetFlags: []string{common.FlagCAAvailable, common.FlagEtcdAvailable},
	})
	require.NoError(t, err)

	assert.True(t, h.store.HasFlag(common.AvailableFlag(common.KubeAPIServer)))
	assert.False(t, h.store.HasFlag(common.AvailableFlag(common.KubeScheduler)))

	h.runner.startResults = nil
	h.runner.started = nil
	require.NoError(t, h.driver.HandleEvent(context.Background(), Event{}))
	assert.Contains(t, h.runner.started, common.KubeScheduler)
	assert.True(t, h.store.HasFlag(common.AvailableFlag(common.KubeScheduler)))
}

func TestStartMasterDoesNotRunWhenAllAvailable(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.SetFlag(common.FlagInstalled))
	for _, svc := range common.AllComponents {
		require.NoError(t, h.store.SetFlag(common.AvailableFlag(svc)))
	}

	err := h.driver.HandleEvent(context.Background(), Event{
		SetFlags: []string{common.FlagCAAvailable, common.FlagEtcdAvailable},
	})
	require.NoError(t, err)
	assert.Empty(t, h.runner.started)
	assert.Zero(t, h.renderer.calls)
}

func TestLaunchDNSProbeFailureSkipsNamespaceOps(t *testing.T) {
	h := newHarness(t)
	h.runner.clusterUp = false
	require.NoError(t, h.store.SetFlag(common.FlagInstalled))
	require.NoError(t, h.store.SetFlag(common.AvailableFlag(common.KubeAPIServer)))

	err := h.driver.HandleEvent(context.Background(), Event{})
	require.NoError(t, err)

	assert.False(t, h.store.HasFlag(common.AvailableFlag(common.KubeDNS)))
	assert.Empty(t, h.runner.namespaceChecks)
	assert.Empty(t, h.runner.created)
	assert.Zero(t, h.renderer.calls)
}

func TestLaunchDNSExistingNamespaceNotRecreated(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.SetFlag(common.FlagInstalled))
	require.NoError(t, h.store.SetFlag(common.AvailableFlag(common.KubeAPIServer)))

	err := h.driver.HandleEvent(context.Background(), Event{})
	require.NoError(t, err)

	assert.Equal(t, []string{common.SystemNamespace}, h.runner.namespaceChecks)
	assert.Empty(t, h.runner.created)
	assert.True(t, h.store.HasFlag(common.AvailableFlag(common.KubeDNS)))
}

func TestLaunchDNSCreatesMissingNamespace(t *testing.T) {
	h := newHarness(t)
	h.runner.namespacePresent = false
	require.NoError(t, h.store.SetFlag(common.FlagInstalled))
	require.NoError(t, h.store.SetFlag(common.AvailableFlag(common.KubeAPIServer)))

	err := h.driver.HandleEvent(context.Background(), Event{})
	require.NoError(t, err)
	assert.Equal(t, []string{common.SystemNamespace}, h.runner.created)
}

func TestLaunchDNSNamespaceCreateFailureIsFatal(t *testing.T) {
	h := newHarness(t)
	h.runner.namespacePresent = false
	h.runner.createErr = errors.New("forbidden")
	require.NoError(t, h.store.SetFlag(common.FlagInstalled))
	require.NoError(t, h.store.SetFlag(common.AvailableFlag(common.KubeAPIServer)))

	err := h.driver.HandleEvent(context.Background(), Event{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule launch-dns failed")
	assert.False(t, h.store.HasFlag(common.AvailableFlag(common.KubeDNS)))
}

func TestLaunchDNSStartFailureLeavesFlagUnset(t *testing.T) {
	h := newHarness(t)
	h.runner.startResults = map[string]bool{common.KubeDNS: false}
	require.NoError(t, h.store.SetFlag(common.FlagInstalled))
	require.NoError(t, h.store.SetFlag(common.AvailableFlag(common.KubeAPIServer)))

	err := h.driver.HandleEvent(context.Background(), Event{})
	require.NoError(t, err)
	assert.False(t, h.store.HasFlag(common.AvailableFlag(common.KubeDNS)))
	assert.Equal(t, 1, h.renderer.calls)
}

func TestSingleEventCascadesToTerminalState(t *testing.T) {
	h := newHarness(t)

	err := h.driver.HandleEvent(context.Background(), Event{
		SetFlags: []string{common.FlagCAAvailable},
		Relation: &staticRelation{connection: "https://10.0.0.11:2379"},
	})
	require.NoError(t, err)

	assert.True(t, h.store.HasFlag(common.FlagInstalled))
	for _, svc := range common.AllComponents {
		assert.True(t, h.store.HasFlag(common.AvailableFlag(svc)), svc)
	}
	// Install, master render+start, DNS re-render: renderer ran twice.
	assert.Equal(t, 2, h.renderer.calls)
	assert.Equal(t, 1, h.installer.calls)
}

func TestEventClearFlagsAppliedBeforeEvaluation(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.SetFlag(common.FlagInstalled))
	for _, svc := range common.AllComponents {
		require.NoError(t, h.store.SetFlag(common.AvailableFlag(svc)))
	}

	err := h.driver.HandleEvent(context.Background(), Event{
		ClearFlags: []string{common.AvailableFlag(common.KubeDNS)},
	})
	require.NoError(t, err)
	assert.True(t, h.store.HasFlag(common.AvailableFlag(common.KubeDNS)))
	assert.Equal(t, 1, h.runner.clusterProbes)
}

func TestDriverRunsRuleAtMostOncePerEvent(t *testing.T) {
	log, err := logger.NewLogger(logger.Options{})
	require.NoError(t, err)
	store := state.NewMemory()

	runs := 0
	always := Rule{
		Name: "always",
		When: func(s state.Store) bool { return true },
		Run: func(ctx context.Context, p *Pass) error {
			runs++
			return nil
		},
	}
	d := NewWithRules(Deps{Store: store, Log: log}, []Rule{always})

	require.NoError(t, d.HandleEvent(context.Background(), Event{}))
	assert.Equal(t, 1, runs)
}

func TestDriverFatalErrorAbortsPass(t *testing.T) {
	log, err := logger.NewLogger(logger.Options{})
	require.NoError(t, err)
	store := state.NewMemory()

	var order []string
	first := Rule{
		Name: "first",
		When: func(s state.Store) bool { return true },
		Run: func(ctx context.Context, p *Pass) error {
			order = append(order, "first")
			return errors.New("boom")
		},
	}
	second := Rule{
		Name: "second",
		When: func(s state.Store) bool { return true },
		Run: func(ctx context.Context, p *Pass) error {
			order = append(order, "second")
			return nil
		},
	}
	d := NewWithRules(Deps{Store: store, Log: log}, []Rule{first, second})

	err = d.HandleEvent(context.Background(), Event{})
	require.Error(t, err)
	assert.Equal(t, []string{"first"}, order)
}

func TestDriverReevaluatesBetweenRules(t *testing.T) {
	log, err := logger.NewLogger(logger.Options{})
	require.NoError(t, err)
	store := state.NewMemory()

	var order []string
	gated := Rule{
		Name: "gated",
		When: func(s state.Store) bool { return s.HasFlag("ready") },
		Run: func(ctx context.Context, p *Pass) error {
			order = append(order, "gated")
			return nil
		},
	}
	opener := Rule{
		Name: "opener",
		When: func(s state.Store) bool { return !s.HasFlag("ready") },
		Run: func(ctx context.Context, p *Pass) error {
			order = append(order, "opener")
			return store.SetFlag("ready")
		},
	}
	d := NewWithRules(Deps{Store: store, Log: log}, []Rule{gated, opener})

	require.NoError(t, d.HandleEvent(context.Background(), Event{}))
	assert.Equal(t, []string{"opener", "gated"}, order)
}
