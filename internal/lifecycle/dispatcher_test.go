package lifecycle

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// recorder implements every collaborator interface and records the
// call sequence, so tests assert exact ordering.
type recorder struct {
	calls     []string
	failOn    string
	namespace string
}

func (r *recorder) note(name string) error {
	r.calls = append(r.calls, name)
	if r.failOn != "" && r.failOn == name {
		return fmt.Errorf("boom at %s", name)
	}
	return nil
}

func (r *recorder) Summary(msg string)              { r.calls = append(r.calls, "summary:"+msg) }
func (r *recorder) ConfigureNova() error            { return r.note("configure-nova") }
func (r *recorder) ConfigureHeat() error            { return r.note("configure-heat") }
func (r *recorder) ConfigureNeutronGBP() error      { return r.note("configure-neutron-gbp") }
func (r *recorder) ConfigureNeutronNFP() error      { return r.note("configure-neutron-nfp") }
func (r *recorder) InstallGBPClient() error         { return r.note("install-gbpclient") }
func (r *recorder) InstallGBPService() error        { return r.note("install-gbpservice") }
func (r *recorder) InitGBPService() error           { return r.note("init-gbpservice") }
func (r *recorder) InstallGBPHeat() error           { return r.note("install-gbpheat") }
func (r *recorder) InstallGBPUI() error             { return r.note("install-gbpui") }
func (r *recorder) InstallNFPGBPService() error     { return r.note("install-nfpgbpservice") }
func (r *recorder) InitNFPGBPService() error        { return r.note("init-nfpgbpservice") }
func (r *recorder) StopApache() error               { return r.note("stop-apache") }
func (r *recorder) StartApache() error              { return r.note("start-apache") }
func (r *recorder) AssignUserRoleCredential() error { return r.note("assign-user-role-credential") }
func (r *recorder) CreateNFPGBPResources() error    { return r.note("create-nfp-gbp-resources") }

func (r *recorder) RouterNamespace() (string, error) {
	if err := r.note("get-router-namespace"); err != nil {
		return "", err
	}
	return "qrouter-6a5f3c", nil
}

func (r *recorder) CopyNFPFilesAndStartProcess(namespace string) error {
	r.namespace = namespace
	return r.note("copy-nfp-files-and-start-process")
}

func collaboratorsFor(r *recorder) Collaborators {
	return Collaborators{
		Summary:   r,
		Config:    r,
		Packages:  r,
		Services:  r,
		Bootstrap: r,
	}
}

func newTestDispatcher(t *testing.T, opts Options, r *recorder) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(opts, collaboratorsFor(r), zerolog.Nop())
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	return d
}

func TestNewDispatcherRejectsMissingCollaborators(t *testing.T) {
	collab := collaboratorsFor(&recorder{})
	collab.Services = nil
	if _, err := NewDispatcher(Options{}, collab, zerolog.Nop()); !errors.Is(err, ErrMissingCollaborator) {
		t.Fatalf("expected ErrMissingCollaborator, got %v", err)
	}
}

func TestDisabledGuardSuppressesEverything(t *testing.T) {
	for _, verb := range []Verb{VerbStack, VerbUnstack, VerbClean} {
		for _, phase := range []Phase{PhasePreInstall, PhaseInstall, PhasePostConfig, PhaseExtra} {
			rec := &recorder{}
			d := newTestDispatcher(t, Options{GroupPolicyEnabled: false, EnableNFP: true}, rec)
			if err := d.Dispatch(verb, phase); err != nil {
				t.Fatalf("dispatch %s/%s: %v", verb, phase, err)
			}
			if len(rec.calls) != 0 {
				t.Fatalf("%s/%s: expected no actions, got %v", verb, phase, rec.calls)
			}
			if plan := d.Plan(verb, phase); len(plan) != 0 {
				t.Fatalf("%s/%s: expected empty plan under guard, got %v", verb, phase, plan.Names())
			}
		}
	}
}

func TestStackWithoutPhaseIsRejected(t *testing.T) {
	d := newTestDispatcher(t, Options{GroupPolicyEnabled: true}, &recorder{})
	if err := d.Dispatch(VerbStack, PhaseNone); !errors.Is(err, ErrPhaseMissing) {
		t.Fatalf("expected ErrPhaseMissing, got %v", err)
	}
}

func TestNonMatchingPairsAreNoOps(t *testing.T) {
	rec := &recorder{}
	if plan := BuildPlan(Verb("reload"), PhaseExtra, Options{EnableNFP: true}, collaboratorsFor(rec)); len(plan) != 0 {
		t.Fatalf("unknown verb should yield empty plan, got %v", plan.Names())
	}
	if plan := BuildPlan(VerbStack, Phase("post-install"), Options{EnableNFP: true}, collaboratorsFor(rec)); len(plan) != 0 {
		t.Fatalf("unknown phase should yield empty plan, got %v", plan.Names())
	}
}

func TestPreInstallAndInstallLogOnly(t *testing.T) {
	cases := []struct {
		phase Phase
		nfp   bool
		want  []string
	}{
		{PhasePreInstall, false, []string{"summary:Preparing GBP"}},
		{PhasePreInstall, true, []string{"summary:Preparing GBP", "summary:Preparing NFP"}},
		{PhaseInstall, false, []string{"summary:Installing GBP"}},
		{PhaseInstall, true, []string{"summary:Installing GBP", "summary:Installing NFP"}},
	}
	for _, tc := range cases {
		rec := &recorder{}
		d := newTestDispatcher(t, Options{GroupPolicyEnabled: true, EnableNFP: tc.nfp}, rec)
		if err := d.Dispatch(VerbStack, tc.phase); err != nil {
			t.Fatalf("dispatch %s: %v", tc.phase, err)
		}
		if !reflect.DeepEqual(rec.calls, tc.want) {
			t.Fatalf("%s nfp=%v: got %v, want %v", tc.phase, tc.nfp, rec.calls, tc.want)
		}
	}
}

func TestPostConfigSequenceWithoutNFP(t *testing.T) {
	rec := &recorder{}
	d := newTestDispatcher(t, Options{GroupPolicyEnabled: true, EnableNFP: false}, rec)
	if err := d.Dispatch(VerbStack, PhasePostConfig); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	want := []string{
		"summary:Configuring GBP",
		"configure-nova",
		"configure-heat",
		"configure-neutron-gbp",
		"install-gbpclient",
		"install-gbpservice",
		"init-gbpservice",
		"install-gbpheat",
		"install-gbpui",
		"stop-apache",
		"start-apache",
	}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Fatalf("got %v, want %v", rec.calls, want)
	}
}

func TestPostConfigNFPWritesFollowGBPWrites(t *testing.T) {
	rec := &recorder{}
	d := newTestDispatcher(t, Options{GroupPolicyEnabled: true, EnableNFP: true}, rec)
	if err := d.Dispatch(VerbStack, PhasePostConfig); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	gbpWrite := indexOf(rec.calls, "configure-neutron-gbp")
	nfpWrite := indexOf(rec.calls, "configure-neutron-nfp")
	if gbpWrite < 0 || nfpWrite < 0 {
		t.Fatalf("missing neutron writes in %v", rec.calls)
	}
	if gbpWrite > nfpWrite {
		t.Fatalf("NFP neutron write must come after the GBP one: %v", rec.calls)
	}

	stop := indexOf(rec.calls, "stop-apache")
	start := indexOf(rec.calls, "start-apache")
	if stop < 0 || start < 0 || stop > start {
		t.Fatalf("apache must stop strictly before start: %v", rec.calls)
	}

	tail := rec.calls[len(rec.calls)-4:]
	wantTail := []string{
		"summary:Configuring NFP",
		"configure-neutron-nfp",
		"install-nfpgbpservice",
		"init-nfpgbpservice",
	}
	if !reflect.DeepEqual(tail, wantTail) {
		t.Fatalf("unexpected NFP tail: %v", tail)
	}
}

func TestExtraPhaseThreadsNamespace(t *testing.T) {
	rec := &recorder{}
	d := newTestDispatcher(t, Options{GroupPolicyEnabled: true, EnableNFP: true}, rec)
	if err := d.Dispatch(VerbStack, PhaseExtra); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	want := []string{
		"summary:Initializing GBP",
		"summary:Initializing NFP",
		"assign-user-role-credential",
		"create-nfp-gbp-resources",
		"get-router-namespace",
		"copy-nfp-files-and-start-process",
	}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Fatalf("got %v, want %v", rec.calls, want)
	}
	if rec.namespace != "qrouter-6a5f3c" {
		t.Fatalf("namespace not threaded into copy step: %q", rec.namespace)
	}
}

func TestExtraPhaseWithoutNFPLogsOnly(t *testing.T) {
	rec := &recorder{}
	d := newTestDispatcher(t, Options{GroupPolicyEnabled: true, EnableNFP: false}, rec)
	if err := d.Dispatch(VerbStack, PhaseExtra); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if !reflect.DeepEqual(rec.calls, []string{"summary:Initializing GBP"}) {
		t.Fatalf("expected GBP summary only, got %v", rec.calls)
	}
}

func TestUnstackIsSingleSummary(t *testing.T) {
	for _, phase := range []Phase{PhaseNone, PhasePreInstall, PhasePostConfig} {
		rec := &recorder{}
		d := newTestDispatcher(t, Options{GroupPolicyEnabled: true, EnableNFP: true}, rec)
		if err := d.Dispatch(VerbUnstack, phase); err != nil {
			t.Fatalf("dispatch unstack/%q: %v", phase, err)
		}
		if !reflect.DeepEqual(rec.calls, []string{"summary:Removing GBP"}) {
			t.Fatalf("unstack/%q: got %v", phase, rec.calls)
		}
	}
}

func TestCleanIsSingleSummary(t *testing.T) {
	rec := &recorder{}
	d := newTestDispatcher(t, Options{GroupPolicyEnabled: true}, rec)
	if err := d.Dispatch(VerbClean, PhaseNone); err != nil {
		t.Fatalf("dispatch clean: %v", err)
	}
	if !reflect.DeepEqual(rec.calls, []string{"summary:Cleaning GBP"}) {
		t.Fatalf("got %v", rec.calls)
	}
}

func TestFirstFailureAbortsTheInvocation(t *testing.T) {
	rec := &recorder{failOn: "install-gbpservice"}
	d := newTestDispatcher(t, Options{GroupPolicyEnabled: true, EnableNFP: true}, rec)

	err := d.Dispatch(VerbStack, PhasePostConfig)
	if err == nil {
		t.Fatalf("expected dispatch to fail")
	}
	if !strings.Contains(err.Error(), "install-gbpservice") {
		t.Fatalf("error should name the failing action: %v", err)
	}
	if last := rec.calls[len(rec.calls)-1]; last != "install-gbpservice" {
		t.Fatalf("no action may run after the failure, last was %q", last)
	}
	if indexOf(rec.calls, "stop-apache") >= 0 {
		t.Fatalf("later actions fired after failure: %v", rec.calls)
	}
}

func TestPlanNamesMatchDispatchOrder(t *testing.T) {
	rec := &recorder{}
	d := newTestDispatcher(t, Options{GroupPolicyEnabled: true, EnableNFP: true}, rec)

	names := d.Plan(VerbStack, PhasePostConfig).Names()
	if len(names) != 15 {
		t.Fatalf("expected 15 post-config actions with NFP, got %d: %v", len(names), names)
	}
	if names[0] != "summary-configuring-gbp" || names[len(names)-1] != "init-nfpgbpservice" {
		t.Fatalf("unexpected plan boundaries: %v", names)
	}
}

func indexOf(haystack []string, needle string) int {
	for i, v := range haystack {
		if v == needle {
			return i
		}
	}
	return -1
}
