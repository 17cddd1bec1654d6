package security

import (
	"strings"
	"testing"

	"github.com/herbpoint/kiosk-backend/pkg/config"
)

func testArgonConfig() config.LoginCodeConfig {
	return config.LoginCodeConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func TestHashAndVerifyLoginCode(t *testing.T) {
	encoded, err := HashLoginCode("ABCD2345", testArgonConfig())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format %q", encoded)
	}

	ok, err := VerifyLoginCode("ABCD2345", encoded)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected match")
	}

	ok, err = VerifyLoginCode("WRONG234", encoded)
	if err != nil {
		t.Fatalf("verify wrong: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatch")
	}
}

func TestVerifyLoginCodeCaseInsensitive(t *testing.T) {
	encoded, err := HashLoginCode("abcd2345", testArgonConfig())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	ok, err := VerifyLoginCode(" ABCD2345 ", encoded)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected case-insensitive match")
	}
}

func TestVerifyLoginCodeInvalidHash(t *testing.T) {
	if _, err := VerifyLoginCode("ABCD2345", "not-a-hash"); err != ErrInvalidHash {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
	if _, err := VerifyLoginCode("ABCD2345", "$bcrypt$v=19$m=8,t=1,p=1$c2FsdA$aGFzaA"); err != ErrInvalidHash {
		t.Fatalf("expected ErrInvalidHash for wrong algorithm, got %v", err)
	}
}

func TestHashLoginCodeEmpty(t *testing.T) {
	if _, err := HashLoginCode("", testArgonConfig()); err == nil {
		t.Fatalf("expected error for empty code")
	}
}

func TestGenerateLoginCode(t *testing.T) {
	code, err := GenerateLoginCode(8)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(code) != 8 {
		t.Fatalf("expected 8 chars got %d", len(code))
	}
	for _, r := range code {
		if strings.ContainsRune("01IO", r) {
			t.Fatalf("ambiguous character %q in code %q", r, code)
		}
	}

	if _, err := GenerateLoginCode(0); err == nil {
		t.Fatalf("expected error for zero length")
	}
}
