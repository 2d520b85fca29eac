package db

import "testing"

func TestEnsureAuthTokenQuery_AppendsToken(t *testing.T) {
	got := ensureAuthTokenQuery("libsql://bp.turso.io", "tok123")
	if got != "libsql://bp.turso.io?authToken=tok123" {
		t.Fatalf("unexpected dsn: %s", got)
	}
}

func TestEnsureAuthTokenQuery_KeepsExistingToken(t *testing.T) {
	in := "libsql://bp.turso.io?authToken=orig"
	if got := ensureAuthTokenQuery(in, "other"); got != in {
		t.Fatalf("unexpected dsn: %s", got)
	}
}

func TestEnsureAuthTokenQuery_SkipsLocalDSNs(t *testing.T) {
	in := "file:local.db"
	if got := ensureAuthTokenQuery(in, "tok"); got != in {
		t.Fatalf("unexpected dsn: %s", got)
	}
}

func TestEnsureAuthTokenQuery_EmptyToken(t *testing.T) {
	in := "libsql://bp.turso.io"
	if got := ensureAuthTokenQuery(in, ""); got != in {
		t.Fatalf("unexpected dsn: %s", got)
	}
}

func TestDisabledConnFailsFast(t *testing.T) {
	c := newDisabledSQLiteConn()
	if _, err := c.Exec("select 1"); err != ErrSQLiteDisabled {
		t.Fatalf("expected ErrSQLiteDisabled, got %v", err)
	}
	if _, err := c.Query("select 1"); err != ErrSQLiteDisabled {
		t.Fatalf("expected ErrSQLiteDisabled, got %v", err)
	}
}
