package errors

import "testing"

func TestSentinelWrapping(t *testing.T) {
	t.Run("wrapped parse error keeps identity", func(t *testing.T) {
		err := Wrap(ErrParse, "unsupported data format: chan int")
		if !IsParseError(err) {
			t.Error("expected wrapped error to satisfy IsParseError")
		}
		if IsStoreError(err) {
			t.Error("parse error must not satisfy IsStoreError")
		}
	})

	t.Run("formatted store error keeps identity", func(t *testing.T) {
		err := NewStoreError("upload failed with status %d", 503)
		if !IsStoreError(err) {
			t.Error("expected NewStoreError result to satisfy IsStoreError")
		}
	})

	t.Run("nil is no error", func(t *testing.T) {
		if IsParseError(nil) || IsStoreError(nil) || IsInvalidRuleKindError(nil) {
			t.Error("nil must not match any sentinel")
		}
	})

	t.Run("double wrap preserves sentinel", func(t *testing.T) {
		err := Wrap(Wrap(ErrInvalidRuleKind, "kind 7"), "dispatch failed")
		if !IsInvalidRuleKindError(err) {
			t.Error("expected double-wrapped error to keep sentinel identity")
		}
	})
}
