// internal/record/record_test.go
//
// Unit-tests for the Record value: mass-assignment filtering, dirty
// tracking, and soft-delete state.
//
// Run: go test ./internal/record -v

package record

import (
	"testing"
	"time"
)

var testTable = Table{
	Name:       "songs",
	Timestamps: true,
	Fillable: []string{
		"song_title", "artist_name", "user_id",
		"created_at", "updated_at", "deleted_at",
	},
}

func TestFillDropsNonFillableKeys(t *testing.T) {
	rec := New(testTable).Fill(map[string]any{
		"song_title": "Night Drive",
		"user_id":    int64(7),
		"is_admin":   true, // not fillable, must be dropped
		"id":         int64(99),
	})

	attrs := rec.Attributes()
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d: %#v", len(attrs), attrs)
	}
	if attrs["song_title"] != "Night Drive" {
		t.Errorf("song_title lost: %#v", attrs)
	}
	if _, ok := attrs["is_admin"]; ok {
		t.Errorf("non-fillable key survived fill: %#v", attrs)
	}
	if _, ok := attrs["id"]; ok {
		t.Errorf("primary key must not enter via fill: %#v", attrs)
	}
}

func TestDirtyTracksChangesSinceLastFill(t *testing.T) {
	rec := New(testTable).Fill(map[string]any{
		"song_title":  "Night Drive",
		"artist_name": "Mireille",
	})

	if d := rec.Dirty(); len(d) != 0 {
		t.Fatalf("freshly filled record must be clean, got %#v", d)
	}

	rec.Set("song_title", "Day Drive")
	d := rec.Dirty()
	if len(d) != 1 {
		t.Fatalf("expected exactly one dirty key, got %#v", d)
	}
	if d["song_title"] != "Day Drive" {
		t.Errorf("unexpected dirty value: %#v", d)
	}

	// A second fill snapshots again: the change is no longer dirty.
	rec.Fill(map[string]any{"artist_name": "Someone Else"})
	if d := rec.Dirty(); len(d) != 0 {
		t.Errorf("fill must reset the snapshot, got %#v", d)
	}
}

func TestFillNormalizesScanTypes(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	rec := New(testTable).Fill(map[string]any{
		"song_title": []byte("Night Drive"),
		"created_at": ts,
	})

	if got := rec.GetString("song_title"); got != "Night Drive" {
		t.Errorf("[]byte not normalized: %q", got)
	}
	if got := rec.CreatedAt(); got != "2026-03-14 09:26:53" {
		t.Errorf("time.Time not normalized: %q", got)
	}
}

func TestSoftDeleteState(t *testing.T) {
	rec := New(testTable).Fill(map[string]any{"song_title": "x"})

	if rec.IsSoftDeleted() {
		t.Fatal("fresh record reported soft-deleted")
	}

	rec.Set("deleted_at", "2026-01-01 00:00:00")
	if !rec.IsSoftDeleted() {
		t.Fatal("deleted_at set but IsSoftDeleted is false")
	}

	rec.Set("deleted_at", nil)
	if rec.IsSoftDeleted() {
		t.Fatal("deleted_at cleared but IsSoftDeleted is true")
	}
}

func TestTypedGetters(t *testing.T) {
	rec := New(testTable)
	rec.Set("user_id", "42")
	rec.Set("artist_name", int64(5))

	if id, ok := rec.GetInt64("user_id"); !ok || id != 42 {
		t.Errorf("GetInt64 on numeric string: %d, %v", id, ok)
	}
	if s := rec.GetString("artist_name"); s != "5" {
		t.Errorf("GetString on int64: %q", s)
	}
	if _, ok := rec.GetInt64("missing"); ok {
		t.Error("GetInt64 on absent key reported ok")
	}

	rec.Set("created_at", "2026-03-14 09:26:53")
	ts, ok := rec.GetTime("created_at")
	if !ok || ts.Hour() != 9 {
		t.Errorf("GetTime: %v, %v", ts, ok)
	}
}

func TestTableColumns(t *testing.T) {
	cols := testTable.Columns()
	if cols[0] != "id" {
		t.Errorf("primary key must lead the column list: %v", cols)
	}
	if !testTable.HasColumn("song_title") || testTable.HasColumn("dropped") {
		t.Error("HasColumn allowlist broken")
	}
	if testTable.fillable("id") {
		t.Error("primary key must not be fillable")
	}
}
