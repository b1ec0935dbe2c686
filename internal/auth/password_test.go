package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("hunter2!", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := ComparePassword(hash, "hunter2!"); err != nil {
		t.Fatalf("ComparePassword with correct password: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Fatal("ComparePassword accepted a wrong password")
	}
}

func TestHashPasswordOutOfRangeCostFallsBack(t *testing.T) {
	for _, cost := range []int{-1, 0, bcrypt.MaxCost + 1} {
		hash, err := HashPassword("hunter2!", cost)
		if err != nil {
			t.Fatalf("HashPassword(cost=%d): %v", cost, err)
		}
		got, err := bcrypt.Cost([]byte(hash))
		if err != nil {
			t.Fatalf("bcrypt.Cost: %v", err)
		}
		if got != bcrypt.DefaultCost {
			t.Errorf("cost %d: hash cost = %d, want %d", cost, got, bcrypt.DefaultCost)
		}
	}
}
