package service

import "testing"

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(4)

	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret1" {
		t.Fatalf("expected password to be hashed")
	}
	if !h.Verify("secret1", hash) {
		t.Fatalf("expected matching password to verify")
	}
	if h.Verify("secret2", hash) {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestBcryptHasher_FreshSalt(t *testing.T) {
	h := NewBcryptHasher(4)

	a, _ := h.Hash("same-input")
	b, _ := h.Hash("same-input")
	if a == b {
		t.Fatalf("expected different hashes for repeated calls")
	}
	if !h.Verify("same-input", a) || !h.Verify("same-input", b) {
		t.Fatalf("both hashes must verify")
	}
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	h := NewBcryptHasher(4)

	for _, stored := range []string{"", "not-a-hash", "$2a$10$short"} {
		if h.Verify("secret1", stored) {
			t.Fatalf("malformed hash %q must not verify", stored)
		}
	}
}

func TestNewBcryptHasher_DefaultCost(t *testing.T) {
	if got := NewBcryptHasher(0).cost; got != DefaultBcryptCost {
		t.Fatalf("expected default cost %d, got %d", DefaultBcryptCost, got)
	}
	if got := NewBcryptHasher(99).cost; got != DefaultBcryptCost {
		t.Fatalf("expected default cost for out-of-range value, got %d", got)
	}
}
