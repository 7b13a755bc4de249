package pipeline

import (
	"strings"
	"testing"
)

func TestGenerateULID_Format(t *testing.T) {
	id := generateULID()
	if len(id) != 26 {
		t.Fatalf("expected 26 chars, got %d (%q)", len(id), id)
	}
	for _, c := range id {
		if !strings.ContainsRune(crockford, c) {
			t.Fatalf("unexpected character %q in %q", c, id)
		}
	}
}

func TestGenerateULID_MonotonicWithinMillisecond(t *testing.T) {
	ulidMu.Lock()
	a := newULID(1700000000000)
	b := newULID(1700000000000)
	ulidMu.Unlock()

	if a[:10] != b[:10] {
		t.Errorf("expected shared timestamp prefix, got %q and %q", a, b)
	}
	if !(a < b) {
		t.Errorf("expected %q < %q", a, b)
	}
}

func TestEncodeULID_KnownValues(t *testing.T) {
	var zero [16]byte
	if got := encodeULID(zero); got != strings.Repeat("0", 26) {
		t.Errorf("expected all zeros, got %q", got)
	}

	var ones [16]byte
	for i := range ones {
		ones[i] = 0xFF
	}
	if got := encodeULID(ones); got != "7"+strings.Repeat("Z", 25) {
		t.Errorf("expected max ULID, got %q", got)
	}
}
