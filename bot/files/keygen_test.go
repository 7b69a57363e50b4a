package files

import (
	"strings"
	"testing"
)

func TestNewKeyLengthAndAlphabet(t *testing.T) {
	key, err := NewKey()
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	if len(key) != KeyLen {
		t.Fatalf("key length = %d, want %d (%q)", len(key), KeyLen, key)
	}
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	for _, r := range key {
		if !strings.ContainsRune(alphabet, r) {
			t.Fatalf("key %q contains non-URL-safe rune %q", key, r)
		}
	}
}

func TestNewKeyUniqueness(t *testing.T) {
	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		key, err := NewKey()
		if err != nil {
			t.Fatalf("NewKey: %v", err)
		}
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate key after %d generations: %q", i, key)
		}
		seen[key] = struct{}{}
	}
}
