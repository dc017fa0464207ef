package crypto

import (
	"strings"
	"testing"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("pw1")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "pw1" || !strings.HasPrefix(hash, "$2a$") {
		t.Fatalf("HashPassword = %q; want a bcrypt hash", hash)
	}
	if !CheckPasswordHash(hash, "pw1") {
		t.Error("CheckPasswordHash(correct) = false; want true")
	}
	if CheckPasswordHash(hash, "pw2") {
		t.Error("CheckPasswordHash(wrong) = true; want false")
	}
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("same")
	if err != nil {
		t.Fatal(err)
	}
	b, err := HashPassword("same")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Errorf("two hashes of the same password are equal: %q", a)
	}
}

func TestCheckPasswordHash_Garbage(t *testing.T) {
	if CheckPasswordHash("not-a-hash", "pw") {
		t.Error("CheckPasswordHash on malformed hash = true; want false")
	}
}
