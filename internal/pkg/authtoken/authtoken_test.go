package authtoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func mint(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestExpired_EmptyToken(t *testing.T) {
	if !Expired("", time.Now()) {
		t.Fatalf("empty token must read as expired")
	}
}

func TestExpired_Garbage(t *testing.T) {
	if !Expired("not.a.jwt", time.Now()) {
		t.Fatalf("unparsable token must read as expired")
	}
}

func TestExpired_MissingExpClaim(t *testing.T) {
	token := mint(t, jwt.MapClaims{"sub": "u1"})
	if !Expired(token, time.Now()) {
		t.Fatalf("token without exp must read as expired")
	}
}

func TestExpired_FutureExp(t *testing.T) {
	now := time.Now()
	token := mint(t, jwt.MapClaims{"sub": "u1", "exp": now.Add(time.Hour).Unix()})
	if Expired(token, now) {
		t.Fatalf("token expiring in an hour must not read as expired")
	}
}

func TestExpired_PastExp(t *testing.T) {
	now := time.Now()
	token := mint(t, jwt.MapClaims{"sub": "u1", "exp": now.Add(-time.Minute).Unix()})
	if !Expired(token, now) {
		t.Fatalf("token expired a minute ago must read as expired")
	}
}

func TestExpired_ExactBoundary(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	token := mint(t, jwt.MapClaims{"sub": "u1", "exp": now.Unix()})
	if !Expired(token, now) {
		t.Fatalf("token expiring exactly now must read as expired")
	}
}
