package user

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	u := &User{ID: primitive.NewObjectID(), Username: "admin", Role: "admin"}

	token, err := issuer.Issue(u)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Username != "admin" || claims.Role != "admin" || claims.Subject != u.ID.Hex() {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestParseRejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	u := &User{ID: primitive.NewObjectID(), Username: "admin", Role: "admin"}

	good, err := issuer.Issue(u)
	if err != nil {
		t.Fatal(err)
	}

	other, err := NewTokenIssuer("other", time.Hour).Issue(u)
	if err != nil {
		t.Fatal(err)
	}

	expiredIssuer := NewTokenIssuer("secret", time.Minute)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := expiredIssuer.Issue(u)
	if err != nil {
		t.Fatal(err)
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"role": "admin"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}

	for name, tok := range map[string]string{
		"wrong secret": other,
		"expired":      expired,
		"alg none":     none,
		"garbage":      "not.a.token",
		"tampered":     good + "x",
	} {
		if _, err := issuer.Parse(tok); err != ErrInvalidToken {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}
