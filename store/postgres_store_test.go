package store

import (
	"net/url"
	"testing"
)

func TestBuildPostgresDSNEscapesCredentials(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_PORT", "5433")
	t.Setenv("POSTGRES_DB", "craft")
	t.Setenv("POSTGRES_USER", "bot")
	t.Setenv("POSTGRES_PASSWORD", "p@ss:w/rd%40")

	dsn := buildPostgresDSNFromEnv()

	u, err := url.Parse(dsn)
	if err != nil {
		t.Fatalf("Parse(%q): %v", dsn, err)
	}
	if u.Scheme != "postgres" {
		t.Errorf("scheme = %q, want postgres", u.Scheme)
	}
	if u.Host != "db.internal:5433" {
		t.Errorf("host = %q, want db.internal:5433", u.Host)
	}
	if u.Path != "/craft" {
		t.Errorf("path = %q, want /craft", u.Path)
	}
	if u.User.Username() != "bot" {
		t.Errorf("user = %q, want bot", u.User.Username())
	}
	pass, _ := u.User.Password()
	if pass != "p@ss:w/rd%40" {
		t.Errorf("password round-tripped as %q, want p@ss:w/rd%%40", pass)
	}
}

func TestBuildPostgresDSNDefaults(t *testing.T) {
	for _, name := range []string{"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_DB", "POSTGRES_USER", "POSTGRES_PASSWORD"} {
		t.Setenv(name, "")
	}

	dsn := buildPostgresDSNFromEnv()

	u, err := url.Parse(dsn)
	if err != nil {
		t.Fatalf("Parse(%q): %v", dsn, err)
	}
	if u.Host != "localhost:5432" {
		t.Errorf("host = %q, want localhost:5432", u.Host)
	}
	if u.Path != "/page_craft" {
		t.Errorf("path = %q, want /page_craft", u.Path)
	}
	if u.RawQuery != "sslmode=disable" {
		t.Errorf("query = %q, want sslmode=disable", u.RawQuery)
	}
}
