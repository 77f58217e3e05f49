package utils

import (
	"testing"

	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/models"
)

func TestPasswordHashing(t *testing.T) {
	password := "secret123"

	// Test Hashing
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if hash == password {
		t.Error("Hash should not match plaintext password")
	}
	if len(hash) == 0 {
		t.Error("Hash should not be empty")
	}

	// Test Comparison (Success)
	if !CheckPasswordHash(password, hash) {
		t.Error("Password should match hash")
	}

	// Test Comparison (Failure)
	if CheckPasswordHash("wrongpassword", hash) {
		t.Error("Wrong password should not match hash")
	}
}

func TestJWT(t *testing.T) {
	secret := "test-secret-key-12345"

	staff := &models.StaffProfile{
		ID:    "uuid-1234",
		Email: "test@taller.cl",
		Role:  models.StaffRoleAdmin,
	}

	// Test Generation
	token, err := GenerateToken(staff, secret)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	if token == "" {
		t.Error("Token should not be empty")
	}

	// Test Validation (Success)
	claims, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}

	if claims["id"] != staff.ID {
		t.Errorf("Expected staff ID %s, got %v", staff.ID, claims["id"])
	}
	if claims["email"] != staff.Email {
		t.Errorf("Expected email %s, got %v", staff.Email, claims["email"])
	}
	if claims["rol"] != string(models.StaffRoleAdmin) {
		t.Errorf("Expected role admin, got %v", claims["rol"])
	}

	// Test Validation (Failure - Wrong Key)
	_, err = ValidateToken(token, "wrong-key")
	if err == nil {
		t.Error("Validation should fail with wrong key")
	}
}
