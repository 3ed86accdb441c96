package joy

import (
	"errors"
	"testing"
)

func register(t *testing.T, r *Registry, name string, fn func()) Job {
	t.Helper()
	if fn == nil {
		fn = func() {}
	}
	j, err := r.Register(name, fn)
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return j
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a := register(t, r, "a", nil)
	b := register(t, r, "b", nil)
	if a == b || a == NoJob || b == NoJob {
		t.Fatalf("bad job ids %d %d", a, b)
	}
	if j, ok := r.Lookup("b"); !ok || j != b {
		t.Errorf("Lookup(b) = %d, %v", j, ok)
	}
	if _, ok := r.Lookup("c"); ok {
		t.Errorf("found a job that was never registered")
	}
	if r.Name(NoJob) != "<none>" || r.Name(a) != "a" {
		t.Errorf("unexpected names %q %q", r.Name(NoJob), r.Name(a))
	}
	for i := 2; i < MaxJobs; i++ {
		register(t, r, "filler", nil)
	}
	if _, err := r.Register("one too many", func() {}); !errors.Is(err, ErrRegistryFull) {
		t.Errorf("expected ErrRegistryFull, got %v", err)
	}
}

func TestSubmitRefusesBusyCore(t *testing.T) {
	r := NewRegistry()
	a := register(t, r, "a", nil)
	b := register(t, r, "b", nil)
	jt := NewJobTable(r)

	if err := jt.Submit(2, a); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	err := jt.Submit(2, b)
	if !errors.Is(err, ErrAlreadyBusy) {
		t.Fatalf("expected ErrAlreadyBusy, got %v", err)
	}
	var je JoyError
	if !errors.As(err, &je) || je.Core() != 2 {
		t.Errorf("error does not name core 2: %v", err)
	}
	if j, _ := jt.Pending(2); j != a {
		t.Errorf("pending job changed to %d", j)
	}
	if _, busy := jt.Pending(3); busy {
		t.Errorf("core 3 has a job nobody gave it")
	}
}

func TestSubmitOverride(t *testing.T) {
	r := NewRegistry()
	a := register(t, r, "a", nil)
	c := register(t, r, "c", nil)
	jt := NewJobTable(r)

	discarded, err := jt.SubmitOverride(1, a)
	if err != nil || discarded {
		t.Fatalf("override of empty slot: %v %v", discarded, err)
	}
	discarded, err = jt.SubmitOverride(1, c)
	if err != nil || !discarded {
		t.Fatalf("override of full slot: %v %v", discarded, err)
	}
	if j, ok := jt.Take(1); !ok || j != c {
		t.Errorf("Take = %d, %v; want %d", j, ok, c)
	}
	if _, ok := jt.Take(1); ok {
		t.Errorf("slot not empty after Take")
	}
}

func TestSubmitRejectsBadTargets(t *testing.T) {
	r := NewRegistry()
	a := register(t, r, "a", nil)
	jt := NewJobTable(r)
	for _, id := range []CoreID{BootCore, 4, 0x10} {
		if err := jt.Submit(id, a); !errors.Is(err, ErrNoSuchCore) {
			t.Errorf("Submit to core %d: expected ErrNoSuchCore, got %v", id, err)
		}
	}
	if err := jt.Submit(1, Job(9)); !errors.Is(err, ErrUnknownJob) {
		t.Errorf("expected ErrUnknownJob, got %v", err)
	}
	if err := jt.Submit(1, NoJob); !errors.Is(err, ErrUnknownJob) {
		t.Errorf("expected ErrUnknownJob for NoJob, got %v", err)
	}
}

func TestErrorCodes(t *testing.T) {
	err := MakeError(ErrAlreadyBusy, 3)
	if !errors.Is(err, ErrAlreadyBusy) || errors.Is(err, ErrNoSuchCore) {
		t.Errorf("Is does not match on the code alone")
	}
	if err.Error() != "core 3: had on going job, refuse to override" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if err.Subsystem() != DispatchSubsystem {
		t.Errorf("subsystem %d", err.Subsystem())
	}
	if ErrDriverInit.Error() != "driver init failed" {
		t.Errorf("unexpected message %q", ErrDriverInit.Error())
	}
}
