package token

import (
	"testing"
	"time"
)

func testCodec() *Codec {
	return NewCodec("test-access-secret", "test-refresh-secret", time.Minute, time.Hour)
}

func testIdentity() *Identity {
	return &Identity{
		ID:          7,
		Email:       "a@x.com",
		Name:        "Alice",
		RoleID:      2,
		RoleName:    "staff",
		Permissions: []string{"checkout", "order_management"},
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	c := testCodec()
	signed, err := c.CreateAccessToken(testIdentity())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	claims, ok := c.VerifyAccessToken(signed)
	if !ok {
		t.Fatal("verify failed for a freshly signed token")
	}
	if claims.UserID != 7 || claims.Email != "a@x.com" || claims.RoleName != "staff" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if len(claims.Permissions) != 2 {
		t.Fatalf("permissions lost: %v", claims.Permissions)
	}
	id := claims.Identity()
	if id.ID != 7 || id.RoleName != "staff" {
		t.Fatalf("identity mismatch: %+v", id)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	c := testCodec()
	jti, err := GenerateJTI()
	if err != nil {
		t.Fatalf("jti: %v", err)
	}
	signed, expiresAt, err := c.CreateRefreshToken(7, jti)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if until := time.Until(expiresAt); until < 59*time.Minute || until > time.Hour {
		t.Fatalf("unexpected expiry %v", expiresAt)
	}
	claims, ok := c.VerifyRefreshToken(signed)
	if !ok {
		t.Fatal("verify failed for a freshly signed token")
	}
	if claims.UserID != 7 || claims.ID != jti {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

// A refresh token must never pass as an access token and vice versa, even
// though both carry valid signatures.
func TestTokenKindConfusionRejected(t *testing.T) {
	c := testCodec()
	access, _ := c.CreateAccessToken(testIdentity())
	jti, _ := GenerateJTI()
	refresh, _, _ := c.CreateRefreshToken(7, jti)

	if _, ok := c.VerifyAccessToken(refresh); ok {
		t.Fatal("refresh token accepted as access token")
	}
	if _, ok := c.VerifyRefreshToken(access); ok {
		t.Fatal("access token accepted as refresh token")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	c := testCodec()
	other := NewCodec("other-access", "other-refresh", time.Minute, time.Hour)

	access, _ := c.CreateAccessToken(testIdentity())
	if _, ok := other.VerifyAccessToken(access); ok {
		t.Fatal("token verified under a different secret")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	c := NewCodec("s1", "s2", time.Millisecond, time.Millisecond)
	access, _ := c.CreateAccessToken(testIdentity())
	jti, _ := GenerateJTI()
	refresh, _, _ := c.CreateRefreshToken(7, jti)

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.VerifyAccessToken(access); ok {
		t.Fatal("expired access token accepted")
	}
	if _, ok := c.VerifyRefreshToken(refresh); ok {
		t.Fatal("expired refresh token accepted")
	}
}

func TestGarbageRejected(t *testing.T) {
	c := testCodec()
	for _, s := range []string{"", "not-a-jwt", "aaa.bbb.ccc"} {
		if _, ok := c.VerifyAccessToken(s); ok {
			t.Fatalf("accepted garbage %q", s)
		}
	}
}

func TestGenerateJTIUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		jti, err := GenerateJTI()
		if err != nil {
			t.Fatalf("jti: %v", err)
		}
		if len(jti) != 64 { // 32 bytes hex-encoded
			t.Fatalf("unexpected jti length %d", len(jti))
		}
		if seen[jti] {
			t.Fatalf("duplicate jti %s", jti)
		}
		seen[jti] = true
	}
}
