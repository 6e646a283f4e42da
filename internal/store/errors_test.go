package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestEntitySentinelsWrapGenericOnes(t *testing.T) {
	if !errors.Is(ErrProfileNotFound, ErrNotFound) {
		t.Error("Expected ErrProfileNotFound to wrap ErrNotFound")
	}
	if !errors.Is(ErrEpisodeNotFound, ErrNotFound) {
		t.Error("Expected ErrEpisodeNotFound to wrap ErrNotFound")
	}
	if !errors.Is(ErrProfileNameExists, ErrDuplicate) {
		t.Error("Expected ErrProfileNameExists to wrap ErrDuplicate")
	}
}

func TestIsNotFoundError(t *testing.T) {
	if !IsNotFoundError(fmt.Errorf("loading: %w", ErrProfileNotFound)) {
		t.Error("Expected wrapped profile-not-found to be a not-found error")
	}
	if IsNotFoundError(ErrDuplicate) {
		t.Error("Expected duplicate error not to be a not-found error")
	}
	if IsNotFoundError(nil) {
		t.Error("Expected nil not to be a not-found error")
	}
}

func TestStoreErrorUnwrap(t *testing.T) {
	err := NewStoreError("profile", "update", "row vanished", ErrProfileNotFound)

	if !errors.Is(err, ErrNotFound) {
		t.Error("Expected StoreError to unwrap to ErrNotFound")
	}
	if err.Error() == "" {
		t.Error("Expected a non-empty message")
	}
}
