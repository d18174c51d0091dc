package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_Distinct(t *testing.T) {
	all := []error{
		ErrNotFound, ErrEmptyResult, ErrConflict, ErrReferenceNotFound,
		ErrInvalidArgument, ErrConnectivity, ErrPersistence,
	}
	for i, a := range all {
		if a == nil {
			t.Fatalf("sentinel %d is nil", i)
		}
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Fatalf("%v must not match %v", a, b)
			}
		}
	}
}

func TestSentinelErrors_Messages(t *testing.T) {
	if ErrNotFound.Error() != "item not found" {
		t.Fatalf("unexpected message: %q", ErrNotFound.Error())
	}
	if ErrReferenceNotFound.Error() != "collection not found" {
		t.Fatalf("unexpected message: %q", ErrReferenceNotFound.Error())
	}
}

func TestSentinelErrors_WrappedIdentity(t *testing.T) {
	wrapped := fmt.Errorf("get item detail: %w", ErrNotFound)
	if !errors.Is(wrapped, ErrNotFound) {
		t.Fatal("errors.Is must match wrapped ErrNotFound")
	}

	wrapped2 := fmt.Errorf("%w: %w", ErrConnectivity, errors.New("dial tcp: timeout"))
	if !errors.Is(wrapped2, ErrConnectivity) {
		t.Fatal("errors.Is must match double-wrapped ErrConnectivity")
	}
}
