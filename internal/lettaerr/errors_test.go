package lettaerr

import (
	"errors"
	"testing"
)

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(KindStorage, cause)
	if !errors.Is(err, cause) {
		t.Fatal("Wrap should preserve Unwrap chain to cause")
	}
}

func TestIs(t *testing.T) {
	err := New(KindAgentNotFound, "no such agent")
	if !Is(err, KindAgentNotFound) {
		t.Error("Is should match the error's own kind")
	}
	if Is(err, KindStorage) {
		t.Error("Is should not match a different kind")
	}
	if Is(errors.New("plain"), KindStorage) {
		t.Error("Is should not match a non-lettaerr error")
	}
}

func TestOverflow(t *testing.T) {
	err := Overflow(9000, 8192)
	le, ok := As(err)
	if !ok {
		t.Fatal("As should extract the overflow error")
	}
	if le.Current != 9000 || le.Max != 8192 {
		t.Errorf("Current/Max = %d/%d, want 9000/8192", le.Current, le.Max)
	}
	if le.Error() == "" {
		t.Error("Error() should not be empty")
	}
}

func TestAsMissesNonLettaErr(t *testing.T) {
	if _, ok := As(errors.New("plain")); ok {
		t.Error("As should fail on a non-lettaerr error")
	}
}
