package repository

import (
	"testing"
)

func TestSQLDateExprSQLite(t *testing.T) {
	got := sqlDateExpr(nil, "planned_date")
	want := "strftime('%Y-%m-%d', planned_date)"
	if got != want {
		t.Fatalf("sqlite date expr mismatch, want %s got %s", want, got)
	}
}

func TestDBDialectNameNil(t *testing.T) {
	if got := dbDialectName(nil); got != "sqlite" {
		t.Fatalf("nil db should default to sqlite, got %s", got)
	}
}
