package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "resumake.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resumake.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	db.Close()

	// Reopening an already-migrated database must not fail.
	db, err = Open(path)
	if err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	db.Close()
}

func TestCreateAndGet(t *testing.T) {
	db := openTestDB(t)

	app := &Application{
		JobID:     "4021337",
		Company:   "Acme Corp",
		Position:  "Senior Go Engineer",
		URL:       "https://example.com/jobs/4021337",
		OutputDir: "/tmp/out/acme",
	}
	if err := db.Create(app); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if app.ID == 0 {
		t.Error("Create() did not assign an id")
	}
	if app.Status != "generated" {
		t.Errorf("Status = %q, want default \"generated\"", app.Status)
	}

	got, err := db.GetByJobID("4021337")
	if err != nil {
		t.Fatalf("GetByJobID() error = %v", err)
	}
	if got.Company != "Acme Corp" || got.Position != "Senior Go Engineer" {
		t.Errorf("GetByJobID() = %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not round-tripped")
	}
	if got.ATSScore != nil {
		t.Errorf("ATSScore = %v, want nil before scoring", *got.ATSScore)
	}
}

func TestCreateDuplicateJobID(t *testing.T) {
	db := openTestDB(t)

	app := &Application{JobID: "1", Company: "Acme", Position: "Engineer"}
	if err := db.Create(app); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := db.Create(&Application{JobID: "1", Company: "Acme", Position: "Engineer"}); err == nil {
		t.Error("expected unique constraint violation for duplicate job id")
	}
}

func TestGetMissing(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.GetByJobID("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListFilterAndLimit(t *testing.T) {
	db := openTestDB(t)

	seed := []*Application{
		{JobID: "1", Company: "Acme Corp", Position: "Engineer"},
		{JobID: "2", Company: "Initech", Position: "Developer"},
		{JobID: "3", Company: "Acme Labs", Position: "SRE"},
	}
	for _, app := range seed {
		if err := db.Create(app); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	all, err := db.List("", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List() returned %d, want 3", len(all))
	}
	// Newest first; same timestamp falls back to id order.
	if all[0].JobID != "3" {
		t.Errorf("List()[0].JobID = %q, want 3", all[0].JobID)
	}

	acme, err := db.List("acme", 0)
	if err != nil {
		t.Fatalf("List(acme) error = %v", err)
	}
	if len(acme) != 2 {
		t.Errorf("List(acme) returned %d, want 2", len(acme))
	}

	limited, err := db.List("", 1)
	if err != nil {
		t.Fatalf("List(limit) error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("List(limit 1) returned %d, want 1", len(limited))
	}
}

func TestUpdateScoreAndStatus(t *testing.T) {
	db := openTestDB(t)

	if err := db.Create(&Application{JobID: "1", Company: "Acme", Position: "Engineer"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := db.UpdateScore("1", 0.82); err != nil {
		t.Fatalf("UpdateScore() error = %v", err)
	}
	if err := db.UpdateStatus("1", "submitted"); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	got, err := db.GetByJobID("1")
	if err != nil {
		t.Fatalf("GetByJobID() error = %v", err)
	}
	if got.ATSScore == nil || *got.ATSScore != 0.82 {
		t.Errorf("ATSScore = %v, want 0.82", got.ATSScore)
	}
	if got.Status != "submitted" {
		t.Errorf("Status = %q, want submitted", got.Status)
	}

	if err := db.UpdateScore("missing", 0.5); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateScore(missing) = %v, want ErrNotFound", err)
	}
	if err := db.UpdateStatus("missing", "submitted"); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateStatus(missing) = %v, want ErrNotFound", err)
	}
}

func TestStats(t *testing.T) {
	db := openTestDB(t)

	for _, app := range []*Application{
		{JobID: "1", Company: "Acme", Position: "Engineer"},
		{JobID: "2", Company: "Acme", Position: "SRE"},
		{JobID: "3", Company: "Initech", Position: "Developer"},
	} {
		if err := db.Create(app); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	if err := db.UpdateScore("1", 0.8); err != nil {
		t.Fatalf("UpdateScore() error = %v", err)
	}
	if err := db.UpdateScore("2", 0.6); err != nil {
		t.Fatalf("UpdateScore() error = %v", err)
	}

	stats, err := db.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.ApplicationCount != 3 {
		t.Errorf("ApplicationCount = %d, want 3", stats.ApplicationCount)
	}
	if stats.CompanyCount != 2 {
		t.Errorf("CompanyCount = %d, want 2", stats.CompanyCount)
	}
	if stats.AverageATSScore < 0.69 || stats.AverageATSScore > 0.71 {
		t.Errorf("AverageATSScore = %v, want 0.7", stats.AverageATSScore)
	}
}
