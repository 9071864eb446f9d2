package auth

import (
	"context"
	"testing"
)

func TestBasicAuthRoundTrip(t *testing.T) {
	ctx := WithBasicAuth(context.Background(), "dbuser", "dbpass")

	user, pass, ok := GetBasicAuthCredentials(ctx)
	if !ok {
		t.Fatal("credentials missing from context")
	}
	if user != "dbuser" || pass != "dbpass" {
		t.Errorf("credentials = (%q, %q), want (dbuser, dbpass)", user, pass)
	}
}

func TestBasicAuthAbsent(t *testing.T) {
	user, pass, ok := GetBasicAuthCredentials(context.Background())
	if ok {
		t.Error("empty context reported credentials")
	}
	if user != "" || pass != "" {
		t.Errorf("credentials = (%q, %q), want empty", user, pass)
	}
}

func TestBasicAuthOverwrite(t *testing.T) {
	// A later middleware invocation replaces earlier credentials wholesale.
	ctx := WithBasicAuth(context.Background(), "first", "one")
	ctx = WithBasicAuth(ctx, "second", "two")

	user, pass, ok := GetBasicAuthCredentials(ctx)
	if !ok {
		t.Fatal("credentials missing from context")
	}
	if user != "second" || pass != "two" {
		t.Errorf("credentials = (%q, %q), want the later pair", user, pass)
	}
}

func TestBasicAuthEmptyPair(t *testing.T) {
	// An empty pair is still a stored pair; presence and content are
	// separate signals.
	user, pass, ok := GetBasicAuthCredentials(WithBasicAuth(context.Background(), "", ""))
	if !ok {
		t.Fatal("empty pair was not stored")
	}
	if user != "" || pass != "" {
		t.Errorf("credentials = (%q, %q), want empty strings", user, pass)
	}
}
