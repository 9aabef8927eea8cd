package parking

import (
	"path/filepath"
	"testing"
)

func tempStore(t *testing.T) *SessionStore {
	t.Helper()
	dir := t.TempDir()
	store, err := OpenSessionStore(filepath.Join(dir, "session.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRestoreWithoutSavedSession(t *testing.T) {
	store := tempStore(t)
	session, err := store.Restore()
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if session != nil {
		t.Fatalf("expected no session, got %+v", session)
	}
}

func TestSaveRestoreRoundTrip(t *testing.T) {
	store := tempStore(t)
	user := User{ID: 7, Username: "maya", Role: "user"}
	if err := store.Save(user, "tok-abc"); err != nil {
		t.Fatalf("save: %v", err)
	}

	session, err := store.Restore()
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if session == nil {
		t.Fatal("expected a session")
	}
	if session.Token != "tok-abc" {
		t.Fatalf("token = %q, want tok-abc", session.Token)
	}
	if session.User != user {
		t.Fatalf("user = %+v, want %+v", session.User, user)
	}
}

func TestSaveReplacesPreviousSession(t *testing.T) {
	store := tempStore(t)
	if err := store.Save(User{ID: 1, Username: "old", Role: "user"}, "tok-old"); err != nil {
		t.Fatalf("save old: %v", err)
	}
	if err := store.Save(User{ID: 2, Username: "new", Role: "admin"}, "tok-new"); err != nil {
		t.Fatalf("save new: %v", err)
	}

	session, err := store.Restore()
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if session.Token != "tok-new" || session.User.Username != "new" {
		t.Fatalf("got %+v, want the replacement session", session)
	}
}

func TestClearRemovesSession(t *testing.T) {
	store := tempStore(t)
	if err := store.Save(User{ID: 1, Username: "maya", Role: "user"}, "tok"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	session, err := store.Restore()
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if session != nil {
		t.Fatalf("expected no session after clear, got %+v", session)
	}
}
