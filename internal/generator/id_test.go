package generator

import (
	"testing"
)

func TestNewShortID_Length(t *testing.T) {
	id := NewShortID()
	if len(id) != ShortIDLength {
		t.Errorf("NewShortID() length = %d, want %d", len(id), ShortIDLength)
	}
}

func TestNewShortID_Alphabet(t *testing.T) {
	id := NewShortID()
	for _, c := range id {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			t.Errorf("NewShortID() = %q, contains non-hex character %q", id, c)
		}
	}
}

func TestNewShortID_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewShortID()
		if seen[id] {
			t.Fatalf("NewShortID() produced duplicate %q after %d iterations", id, i)
		}
		seen[id] = true
	}
}

func TestNewUserID_NotEmpty(t *testing.T) {
	id := NewUserID()
	if id == "" {
		t.Error("NewUserID() returned empty string")
	}

	if id == NewUserID() {
		t.Error("NewUserID() returned the same value twice")
	}
}
