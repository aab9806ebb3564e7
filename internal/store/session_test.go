package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/avelan/rationd/internal/database"
)

func setupSessionTestDB(t *testing.T) (*sql.DB, *SessionStore, *UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, NewSessionStore(db), NewUserStore(db)
}

func TestSessionCreateAndGet(t *testing.T) {
	_, sessions, users := setupSessionTestDB(t)

	user, err := users.Create("operator", "hashed")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	sess, err := sessions.Create(user.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if len(sess.Token) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(sess.Token))
	}
	if sess.UserID != user.ID {
		t.Errorf("userID = %d, want %d", sess.UserID, user.ID)
	}
	if !sess.ExpiresAt.After(time.Now().Add(6 * 24 * time.Hour)) {
		t.Errorf("expiry %v not roughly 7 days out", sess.ExpiresAt)
	}

	got, err := sessions.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got == nil || got.ID != sess.ID {
		t.Fatalf("got %+v, want session %d", got, sess.ID)
	}
}

func TestSessionTokensUnique(t *testing.T) {
	_, sessions, users := setupSessionTestDB(t)

	user, _ := users.Create("operator", "hashed")
	a, err := sessions.Create(user.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	b, err := sessions.Create(user.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if a.Token == b.Token {
		t.Error("two sessions share a token")
	}
}

func TestSessionUnknownToken(t *testing.T) {
	_, sessions, _ := setupSessionTestDB(t)

	got, err := sessions.GetByToken("no-such-token")
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown token, got %+v", got)
	}
}

func TestSessionExpiry(t *testing.T) {
	db, sessions, users := setupSessionTestDB(t)

	user, _ := users.Create("operator", "hashed")

	// Insert an already-expired session directly
	_, err := db.Exec(
		`INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, datetime('now', '-1 hour'))`,
		"expiredtoken", user.ID,
	)
	if err != nil {
		t.Fatalf("insert expired session: %v", err)
	}

	got, err := sessions.GetByToken("expiredtoken")
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got != nil {
		t.Errorf("expired session should not resolve, got %+v", got)
	}
}

func TestSessionDelete(t *testing.T) {
	_, sessions, users := setupSessionTestDB(t)

	user, _ := users.Create("operator", "hashed")
	sess, _ := sessions.Create(user.ID)

	if err := sessions.Delete(sess.ID); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	got, _ := sessions.GetByToken(sess.Token)
	if got != nil {
		t.Error("deleted session still resolves")
	}
}

func TestSessionDeleteExpired(t *testing.T) {
	db, sessions, users := setupSessionTestDB(t)

	user, _ := users.Create("operator", "hashed")
	live, _ := sessions.Create(user.ID)

	for _, token := range []string{"old1", "old2"} {
		_, err := db.Exec(
			`INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, datetime('now', '-1 day'))`,
			token, user.ID,
		)
		if err != nil {
			t.Fatalf("insert expired session: %v", err)
		}
	}

	count, err := sessions.DeleteExpired()
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if count != 2 {
		t.Errorf("deleted %d sessions, want 2", count)
	}

	got, _ := sessions.GetByToken(live.Token)
	if got == nil {
		t.Error("live session was removed by DeleteExpired")
	}
}
