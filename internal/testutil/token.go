package testutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token returns a signed token whose payload carries userId. The signature is
// never verified client-side, so the key is arbitrary.
func Token(t *testing.T, userID int64) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"email":  "user@example.com",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return s
}
