package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken indicates a token whose payload could not be decoded
// or does not carry a user id.
var ErrInvalidToken = errors.New("invalid session token")

// Claims is the part of the token payload the client uses.
type Claims struct {
	UserID int64
	Email  string
}

// Decode reads the token payload without verifying the signature. The
// backend is the trust boundary; the client only needs the user id for
// addressing its own resources.
func Decode(token string) (Claims, error) {
	parser := jwt.NewParser(jwt.WithJSONNumber())
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, ok := numericClaim(claims["userId"])
	if !ok {
		id, ok = numericClaim(claims["sub"])
	}
	if !ok {
		return Claims{}, fmt.Errorf("%w: no user id claim", ErrInvalidToken)
	}

	c := Claims{UserID: id}
	if email, ok := claims["email"].(string); ok {
		c.Email = email
	}
	return c, nil
}

// numericClaim accepts a JSON number or a numeric string.
func numericClaim(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		id, err := n.Int64()
		return id, err == nil
	case float64:
		return int64(n), n == float64(int64(n))
	case string:
		id, err := strconv.ParseInt(n, 10, 64)
		return id, err == nil
	}
	return 0, false
}
