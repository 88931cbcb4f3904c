package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndComparePassword(t *testing.T) {
	hashed, err := HashPassword("hunter2", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hashed == "hunter2" {
		t.Fatal("password not hashed")
	}
	if err := ComparePassword(hashed, "hunter2"); err != nil {
		t.Errorf("ComparePassword match: %v", err)
	}
	if err := ComparePassword(hashed, "hunter3"); err == nil {
		t.Error("ComparePassword accepted wrong password")
	}
}
