package testutil

import (
	"testing"
	"time"
)

func TestHooksRecorderCapturesSignals(t *testing.T) {
	h := &HooksRecorder{}
	h.ObserveOperation("directory.org.create", "success", 10*time.Millisecond)
	h.ObserveOperation("directory.org.create", "missing_required_field", time.Millisecond)
	h.IncConflict("directory.org.create")
	h.ObserveBump("RehabProgram")
	h.ObserveBump("RehabOrg")
	h.ObserveBump("RehabOrg")

	if status, ok := h.LastStatus("directory.org.create"); !ok || status != "missing_required_field" {
		t.Fatalf("LastStatus = %q %v", status, ok)
	}
	if _, ok := h.LastStatus("directory.campus.create"); ok {
		t.Fatalf("expected no campus operation")
	}
	if len(h.Conflicts) != 1 || len(h.Retries) != 0 {
		t.Fatalf("unexpected conflicts=%v retries=%v", h.Conflicts, h.Retries)
	}
	got := h.BumpedNamespaces()
	if len(got) != 2 || got[0] != "RehabOrg" || got[1] != "RehabProgram" {
		t.Fatalf("BumpedNamespaces = %v", got)
	}

	h.Reset()
	if len(h.Operations)+len(h.Bumps)+len(h.Conflicts) != 0 {
		t.Fatalf("expected empty recorder after Reset")
	}
}
