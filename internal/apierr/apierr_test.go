package apierr

import (
	"errors"
	"net/http"
	"testing"
)

func TestWithPhase_StampsWithoutMutating(t *testing.T) {
	shared := Transient(errors.New("backend unavailable"))

	first := From(WithPhase(PhaseContent, shared))
	second := From(WithPhase(PhasePopulate, shared))

	if shared.Phase != "" {
		t.Fatalf("shared error mutated: phase = %q", shared.Phase)
	}
	if first.Phase != PhaseContent {
		t.Fatalf("first phase = %q", first.Phase)
	}
	if second.Phase != PhasePopulate {
		t.Fatalf("second phase = %q", second.Phase)
	}
	if first.Code != CodeTransient || second.Code != CodeTransient {
		t.Fatalf("codes = %q, %q", first.Code, second.Code)
	}
}

func TestWithPhase_KeepsExistingPhase(t *testing.T) {
	stamped := From(WithPhase(PhaseCreate, Validation(errors.New("bad"))))
	again := From(WithPhase(PhaseMove, stamped))
	if again.Phase != PhaseCreate {
		t.Fatalf("phase = %q", again.Phase)
	}
}

func TestWithPhase_WrapsPlainError(t *testing.T) {
	plain := errors.New("boom")
	ae := From(WithPhase(PhaseSnapshot, plain))
	if ae.Code != CodeInternal || ae.Phase != PhaseSnapshot || ae.Status != http.StatusInternalServerError {
		t.Fatalf("got %+v", ae)
	}
	if !errors.Is(ae, plain) {
		t.Fatal("lost wrapped error")
	}
}

func TestWithPhase_Nil(t *testing.T) {
	if WithPhase(PhaseCreate, nil) != nil {
		t.Fatal("nil should stay nil")
	}
}
