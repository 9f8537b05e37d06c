package main

import (
	"errors"
	"testing"
	"time"
)

func setupStore(t *testing.T) *SessionStore {
	t.Helper()
	setupTestServer(t)
	return sessions
}

func seedSessionUser(t *testing.T) uint {
	t.Helper()
	u := createTestUser(t, "sess@example.com", "Sess", "secret1", "staff")
	return u.ID
}

func TestSessionStoreCreateAndFind(t *testing.T) {
	s := setupStore(t)
	uid := seedSessionUser(t)

	exp := time.Now().Add(time.Hour)
	if err := s.Create(uid, "jti-1", exp); err != nil {
		t.Fatalf("create: %v", err)
	}
	rec, err := s.FindByJTI("jti-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if rec == nil || rec.UserID != uid || rec.RevokedAt != nil {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !rec.Valid(time.Now()) {
		t.Fatal("fresh record should be valid")
	}

	missing, err := s.FindByJTI("no-such-jti")
	if err != nil {
		t.Fatalf("missing lookup errored: %v", err)
	}
	if missing != nil {
		t.Fatalf("missing jti returned %+v", missing)
	}
}

func TestSessionStoreRevokeIsOneWayAndIdempotent(t *testing.T) {
	s := setupStore(t)
	uid := seedSessionUser(t)
	if err := s.Create(uid, "jti-r", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.RevokeByJTI("jti-r"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	rec, _ := s.FindByJTI("jti-r")
	if rec.Valid(time.Now()) {
		t.Fatal("revoked record still valid")
	}
	firstRevokedAt := *rec.RevokedAt

	// double revocation is a no-op, not an error, and keeps the first timestamp
	if err := s.RevokeByJTI("jti-r"); err != nil {
		t.Fatalf("second revoke: %v", err)
	}
	rec, _ = s.FindByJTI("jti-r")
	if !rec.RevokedAt.Equal(firstRevokedAt) {
		t.Fatal("double revocation moved the revocation timestamp")
	}

	// revoking an unknown jti is also fine
	if err := s.RevokeByJTI("ghost"); err != nil {
		t.Fatalf("revoke missing: %v", err)
	}
}

func TestSessionStoreExpiredRecordInvalid(t *testing.T) {
	s := setupStore(t)
	uid := seedSessionUser(t)
	if err := s.Create(uid, "jti-e", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("create: %v", err)
	}
	rec, _ := s.FindByJTI("jti-e")
	if rec.Valid(time.Now()) {
		t.Fatal("expired record should be invalid even though unrevoked")
	}
}

func TestSessionStoreRevokeAllForUser(t *testing.T) {
	s := setupStore(t)
	uid := seedSessionUser(t)
	other := createTestUser(t, "other@example.com", "Other", "secret1", "staff")

	exp := time.Now().Add(time.Hour)
	for _, jti := range []string{"a", "b", "c"} {
		if err := s.Create(uid, jti, exp); err != nil {
			t.Fatalf("create %s: %v", jti, err)
		}
	}
	if err := s.Create(other.ID, "d", exp); err != nil {
		t.Fatalf("create d: %v", err)
	}

	if err := s.RevokeAllForUser(uid); err != nil {
		t.Fatalf("revoke all: %v", err)
	}
	for _, jti := range []string{"a", "b", "c"} {
		rec, _ := s.FindByJTI(jti)
		if rec.Valid(time.Now()) {
			t.Fatalf("session %s survived revoke-all", jti)
		}
	}
	rec, _ := s.FindByJTI("d")
	if !rec.Valid(time.Now()) {
		t.Fatal("another user's session was revoked")
	}
}

func TestSessionStoreRotateAtMostOneWinner(t *testing.T) {
	s := setupStore(t)
	uid := seedSessionUser(t)
	exp := time.Now().Add(time.Hour)
	if err := s.Create(uid, "old", exp); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.Rotate("old", uid, "new-1", exp); err != nil {
		t.Fatalf("first rotation: %v", err)
	}
	// the second rotation of the same jti must refuse, not mint another token
	err := s.Rotate("old", uid, "new-2", exp)
	if !errors.Is(err, errSessionRotated) {
		t.Fatalf("second rotation = %v, want errSessionRotated", err)
	}

	old, _ := s.FindByJTI("old")
	if old.Valid(time.Now()) {
		t.Fatal("rotated-away jti still valid")
	}
	winner, _ := s.FindByJTI("new-1")
	if winner == nil || !winner.Valid(time.Now()) {
		t.Fatal("winner session missing or invalid")
	}
	loser, _ := s.FindByJTI("new-2")
	if loser != nil {
		t.Fatal("losing rotation must not leave a record behind")
	}
}
