package jwt

import (
	"errors"
	"testing"
	"time"
)

var secret = []byte("test-secret")

func TestGenerateAndParse(t *testing.T) {
	token, err := GenerateToken(secret, 42, "access", time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := ParseToken(secret, "access", token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("user id = %d, want 42", claims.UserID)
	}
}

func TestParseToken_WrongType(t *testing.T) {
	token, _ := GenerateToken(secret, 42, "refresh", time.Minute)

	_, err := ParseToken(secret, "access", token)
	if !errors.Is(err, ErrInvalidTokenType) {
		t.Fatalf("err = %v, want ErrInvalidTokenType", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _ := GenerateToken(secret, 42, "access", time.Minute)

	if _, err := ParseToken([]byte("other"), "access", token); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestParseToken_Expired(t *testing.T) {
	token, _ := GenerateToken(secret, 42, "access", -time.Minute)

	if _, err := ParseToken(secret, "access", token); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestShouldRotateRefreshToken(t *testing.T) {
	token, _ := GenerateToken(secret, 1, "refresh", 10*time.Second)
	claims, err := ParseToken(secret, "refresh", token)
	if err != nil {
		t.Fatal(err)
	}
	if !ShouldRotateRefreshToken(claims, time.Minute) {
		t.Error("token expiring within buffer should rotate")
	}
	if ShouldRotateRefreshToken(claims, time.Second) {
		t.Error("token outside buffer should not rotate")
	}
}
