package storage

import (
	"math"
	"testing"

	"github.com/pable/go-pass-metrics/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func makeMatch(hash, name string) *model.Match {
	return &model.Match{
		Summary: model.MatchSummary{
			FileHash:    hash,
			FileName:    name + ".csv",
			DisplayName: name,
			Delimiter:   ";",
			Teams:       []string{"Le Havre", "Lorient"},
			LoadedAt:    "2025-01-01",
		},
		Columns: model.Columns{TeamID: true, TeamName: true, Name: true, Type: true, X: true, EndX: true, Qualifiers: true, ProgPass: true},
		Events: []model.PassEvent{
			{
				Index: 0, TeamID: "1", TeamName: "Le Havre", Name: "Touré", Type: "Pass",
				Outcome: model.OutcomeSuccessful, X: 40, Y: 50, EndX: 60, EndY: 52, Minute: 3,
				Qualifiers: model.ParseQualifiers("[{'displayName': 'KeyPass'}]"), ProgPass: 12.5,
			},
			{
				Index: 1, TeamID: "2", TeamName: "Lorient", Name: "Faivre", Type: "Tackle",
				Outcome: model.OutcomeUnsuccessful, X: math.NaN(), Y: math.NaN(), EndX: math.NaN(), EndY: math.NaN(),
				Minute: math.NaN(), ProgPass: math.NaN(),
			},
		},
	}
}

func TestMatchInsertAndExists(t *testing.T) {
	db := openMemDB(t)

	if err := db.InsertMatch(makeMatch("abc123", "HAC-FCL")); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}

	exists, err := db.MatchExists("abc123")
	if err != nil {
		t.Fatalf("MatchExists: %v", err)
	}
	if !exists {
		t.Error("expected match to exist after insert")
	}

	exists2, _ := db.MatchExists("nonexistent")
	if exists2 {
		t.Error("expected non-existent match to not exist")
	}
}

func TestGetMatchRoundTrip(t *testing.T) {
	db := openMemDB(t)
	in := makeMatch("h1", "HAC-FCL")
	if err := db.InsertMatch(in); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}

	got, err := db.GetMatch("h1")
	if err != nil {
		t.Fatalf("GetMatch: %v", err)
	}
	if got == nil {
		t.Fatal("expected cached match")
	}
	if got.Columns != in.Columns {
		t.Errorf("columns: got %+v, want %+v", got.Columns, in.Columns)
	}
	if got.Summary.Delimiter != ";" || got.Summary.RowCount != 2 || len(got.Summary.Teams) != 2 {
		t.Errorf("summary: %+v", got.Summary)
	}
	if len(got.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got.Events))
	}

	first := got.Events[0]
	if first.Name != "Touré" || first.X != 40 || first.ProgPass != 12.5 || !first.IsSuccessful() {
		t.Errorf("first event: %+v", first)
	}
	if first.Qualifiers != in.Events[0].Qualifiers {
		t.Errorf("qualifiers: got %+v, want %+v", first.Qualifiers, in.Events[0].Qualifiers)
	}

	second := got.Events[1]
	for name, v := range map[string]float64{"x": second.X, "endX": second.EndX, "minute": second.Minute, "prog": second.ProgPass} {
		if !math.IsNaN(v) {
			t.Errorf("%s: expected NaN after round trip, got %v", name, v)
		}
	}
	if second.Index != 1 || second.IsSuccessful() {
		t.Errorf("second event: %+v", second)
	}
}

func TestGetMatchUnknown(t *testing.T) {
	db := openMemDB(t)
	m, err := db.GetMatch("missing")
	if err != nil {
		t.Fatalf("GetMatch: %v", err)
	}
	if m != nil {
		t.Error("expected nil for unknown hash")
	}
}

func TestListMatches(t *testing.T) {
	db := openMemDB(t)
	for _, m := range []*model.Match{makeMatch("h2", "ZZ-Last"), makeMatch("h1", "AA-First")} {
		if err := db.InsertMatch(m); err != nil {
			t.Fatalf("InsertMatch: %v", err)
		}
	}

	list, err := db.ListMatches()
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(list))
	}
	// Ordered by display name.
	if list[0].DisplayName != "AA-First" {
		t.Errorf("expected AA-First first, got %s", list[0].DisplayName)
	}
}

func TestGetMatchByPrefix(t *testing.T) {
	db := openMemDB(t)
	db.InsertMatch(makeMatch("deadbeef1234", "HAC-PSG"))

	s, err := db.GetMatchByPrefix("deadb")
	if err != nil {
		t.Fatalf("GetMatchByPrefix: %v", err)
	}
	if s == nil {
		t.Fatal("expected match for prefix 'deadb'")
	}
	if s.FileHash != "deadbeef1234" {
		t.Errorf("unexpected hash %s", s.FileHash)
	}

	s2, err := db.GetMatchByPrefix("ffffffff")
	if err != nil {
		t.Fatalf("GetMatchByPrefix no-match: %v", err)
	}
	if s2 != nil {
		t.Error("expected nil for unknown prefix")
	}
}

func TestInsertIdempotency(t *testing.T) {
	db := openMemDB(t)

	m := makeMatch("idem1", "HAC-OL")
	db.InsertMatch(m)
	// Second insert should not error or duplicate rows.
	if err := db.InsertMatch(m); err != nil {
		t.Errorf("second InsertMatch should succeed (idempotent): %v", err)
	}
	events, err := db.GetEvents("idem1")
	if err != nil {
		t.Fatalf("GetEvents: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("expected 2 events after re-insert, got %d", len(events))
	}
}

func TestDeleteMatchAndOverview(t *testing.T) {
	db := openMemDB(t)
	db.InsertMatch(makeMatch("h1", "A"))
	db.InsertMatch(makeMatch("h2", "B"))

	ov, err := db.GetOverview()
	if err != nil {
		t.Fatalf("GetOverview: %v", err)
	}
	if ov.TotalMatches != 2 || ov.TotalEvents != 4 || ov.UniquePlayers != 2 {
		t.Errorf("overview: %+v", ov)
	}

	if err := db.DeleteMatch("h1"); err != nil {
		t.Fatalf("DeleteMatch: %v", err)
	}
	ov, _ = db.GetOverview()
	if ov.TotalMatches != 1 || ov.TotalEvents != 2 {
		t.Errorf("overview after delete: %+v", ov)
	}
}

func TestGetTeamCounts(t *testing.T) {
	db := openMemDB(t)
	db.InsertMatch(makeMatch("h1", "A"))
	db.InsertMatch(makeMatch("h2", "B"))

	counts, err := db.GetTeamCounts()
	if err != nil {
		t.Fatalf("GetTeamCounts: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(counts))
	}
	if counts[0].TeamName != "Le Havre" || counts[0].Matches != 2 || counts[0].Passes != 2 {
		t.Errorf("first team: %+v", counts[0])
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	db.InsertMatch(makeMatch("h1", "A"))

	cols, rows, err := db.QueryRaw("SELECT name, prog_pass FROM events ORDER BY row_pos")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 2 || cols[0] != "name" {
		t.Errorf("columns: %v", cols)
	}
	if len(rows) != 2 || rows[0][0] != "Touré" || rows[1][1] != "NULL" {
		t.Errorf("rows: %v", rows)
	}
}
