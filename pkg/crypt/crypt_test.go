package crypt_test

import (
	"errors"
	"testing"

	"github.com/rishavanand/bazario/pkg/crypt"
)

func TestRoundTrip(t *testing.T) {
	enc, err := crypt.Encrypt("first pet's name")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if enc == "first pet's name" {
		t.Fatal("ciphertext equals plaintext")
	}

	plain, err := crypt.Decrypt(enc)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if plain != "first pet's name" {
		t.Errorf("round trip = %q", plain)
	}
}

func TestNonceMakesOutputUnique(t *testing.T) {
	a, err := crypt.Encrypt("blue")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	b, err := crypt.Encrypt("blue")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if a == b {
		t.Error("two encryptions of the same plaintext must differ")
	}
}

func TestDecryptRejectsTampering(t *testing.T) {
	enc, err := crypt.Encrypt("blue")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}

	tampered := []byte(enc)
	tampered[len(tampered)-4] ^= 'x'
	if _, err := crypt.Decrypt(string(tampered)); !errors.Is(err, crypt.ErrDecrypt) {
		t.Errorf("expected ErrDecrypt, got %v", err)
	}
}

func TestDecryptRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "%%%", "AAAA"} {
		if _, err := crypt.Decrypt(bad); err == nil {
			t.Errorf("Decrypt(%q) accepted garbage", bad)
		}
	}
}
