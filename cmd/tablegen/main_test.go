package main

import (
	"testing"
	"time"
)

func TestGetenvFallbacks(t *testing.T) {
	t.Setenv("TABLEGEN_TEST_STRING", "")
	if got := getenv("TABLEGEN_TEST_STRING", "table.pdf"); got != "table.pdf" {
		t.Fatalf("expected fallback, got %q", got)
	}
	t.Setenv("TABLEGEN_TEST_STRING", "quote.pdf")
	if got := getenv("TABLEGEN_TEST_STRING", "table.pdf"); got != "quote.pdf" {
		t.Fatalf("expected env value, got %q", got)
	}
}

func TestGetbool(t *testing.T) {
	t.Setenv("TABLEGEN_TEST_BOOL", "true")
	if !getbool("TABLEGEN_TEST_BOOL", false) {
		t.Fatalf("expected true")
	}
	t.Setenv("TABLEGEN_TEST_BOOL", "maybe")
	if getbool("TABLEGEN_TEST_BOOL", false) {
		t.Fatalf("expected fallback on invalid value")
	}
}

func TestGetduration(t *testing.T) {
	t.Setenv("TABLEGEN_TEST_IDLE", "30m")
	if got := getduration("TABLEGEN_TEST_IDLE", time.Hour); got != 30*time.Minute {
		t.Fatalf("expected 30m, got %s", got)
	}
	t.Setenv("TABLEGEN_TEST_IDLE", "soon")
	if got := getduration("TABLEGEN_TEST_IDLE", time.Hour); got != time.Hour {
		t.Fatalf("expected fallback, got %s", got)
	}
}
