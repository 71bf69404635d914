package aggregator

import (
	"math"
	"testing"

	"github.com/pable/go-pass-metrics/internal/model"
)

// Team IDs for test events.
const (
	teamA = "A"
	teamB = "B"
)

var fullColumns = model.Columns{
	Index: true, TeamID: true, TeamName: true, Name: true, Type: true, Outcome: true,
	X: true, Y: true, EndX: true, EndY: true, Minute: true, Qualifiers: true, ProgPass: true,
}

// makeEvent creates a minimal event at the given index.
func makeEvent(idx int, team, name, typ string) model.PassEvent {
	return model.PassEvent{
		Index:    idx,
		TeamID:   team,
		TeamName: "Team " + team,
		Name:     name,
		Type:     typ,
		Outcome:  model.OutcomeSuccessful,
		X:        50, EndX: 55, Y: 50, EndY: 50,
		Minute:   float64(idx),
		ProgPass: math.NaN(),
	}
}

// makePass builds a classified pass with the given outcome and qualifiers.
func makePass(ok bool, qualifiers string, progressive bool) model.ClassifiedPass {
	e := makeEvent(0, teamA, "P1", model.PassType)
	if !ok {
		e.Outcome = model.OutcomeUnsuccessful
	}
	e.Qualifiers = model.ParseQualifiers(qualifiers)
	q := e.Qualifiers
	return model.ClassifiedPass{
		PassEvent:     e,
		IsProgressive: progressive,
		IsAssist:      q.Has(model.QualGoalAssist),
		IsKeyPass:     q.Has(model.QualKeyPass) && !q.Has(model.QualGoalAssist),
	}
}

func makeMatch(events ...model.PassEvent) *model.Match {
	return &model.Match{Columns: fullColumns, Events: events}
}

// ---- Receiver resolution ----

func TestReceiver_SameTeam(t *testing.T) {
	seq := NewSequence([]model.PassEvent{
		makeEvent(5, teamA, "P1", model.PassType),
		makeEvent(6, teamA, "P2", model.PassType),
	}, fullColumns)
	if got := seq.Receiver(makeEvent(5, teamA, "P1", model.PassType)); got != "P2" {
		t.Errorf("want P2, got %q", got)
	}
}

func TestReceiver_OtherTeamIsLost(t *testing.T) {
	seq := NewSequence([]model.PassEvent{
		makeEvent(5, teamA, "P1", model.PassType),
		makeEvent(6, teamB, "P3", model.PassType),
	}, fullColumns)
	if got := seq.Receiver(makeEvent(5, teamA, "P1", model.PassType)); got != model.ReceiverLost {
		t.Errorf("want %q, got %q", model.ReceiverLost, got)
	}
}

func TestReceiver_LastEventIsUnknown(t *testing.T) {
	seq := NewSequence([]model.PassEvent{
		makeEvent(4, teamA, "P0", model.PassType),
		makeEvent(5, teamA, "P1", model.PassType),
	}, fullColumns)
	if got := seq.Receiver(makeEvent(5, teamA, "P1", model.PassType)); got != model.ReceiverUnknown {
		t.Errorf("want %q, got %q", model.ReceiverUnknown, got)
	}
}

func TestReceiver_GapAndInvalidIndex(t *testing.T) {
	seq := NewSequence([]model.PassEvent{
		makeEvent(5, teamA, "P1", model.PassType),
		makeEvent(7, teamA, "P2", model.PassType),
		makeEvent(-1, teamA, "P3", model.PassType),
	}, fullColumns)
	if got := seq.Receiver(makeEvent(5, teamA, "P1", model.PassType)); got != model.ReceiverUnknown {
		t.Errorf("gap: want %q, got %q", model.ReceiverUnknown, got)
	}
	if got := seq.Receiver(makeEvent(-1, teamA, "P3", model.PassType)); got != model.ReceiverUnknown {
		t.Errorf("invalid index: want %q, got %q", model.ReceiverUnknown, got)
	}
	if seq.Len() != 2 {
		t.Errorf("invalid index should not be indexed: len=%d", seq.Len())
	}
}

func TestReceiver_UsesFullSequenceNotFilteredSubset(t *testing.T) {
	// P1's pass at 10 is followed by a non-pass event by P2; the filtered
	// subset only holds P1's passes, but the receiver comes from the full match.
	match := makeMatch(
		makeEvent(10, teamA, "P1", model.PassType),
		makeEvent(11, teamA, "P2", "BallRecovery"),
		makeEvent(12, teamA, "P1", model.PassType),
		makeEvent(13, teamB, "P9", "Tackle"),
	)
	rep := Aggregate(match, "P1", Filter{})
	if len(rep.Passes) != 2 {
		t.Fatalf("expected 2 passes, got %d", len(rep.Passes))
	}
	if rep.Passes[0].Receiver != "P2" {
		t.Errorf("pass 10: want P2, got %q", rep.Passes[0].Receiver)
	}
	if rep.Passes[1].Receiver != model.ReceiverLost {
		t.Errorf("pass 12: want %q, got %q", model.ReceiverLost, rep.Passes[1].Receiver)
	}
}

func TestResolveReceivers_OnePerPass(t *testing.T) {
	events := []model.PassEvent{
		makeEvent(0, teamA, "P1", model.PassType),
		makeEvent(1, teamA, "P2", model.PassType),
		makeEvent(2, teamB, "P3", model.PassType),
	}
	passes := []model.ClassifiedPass{{PassEvent: events[0]}, {PassEvent: events[1]}, {PassEvent: events[2]}}
	got := ResolveReceivers(passes, NewSequence(events, fullColumns))
	want := []string{"P2", model.ReceiverLost, model.ReceiverUnknown}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pass %d: want %q, got %q", i, want[i], got[i])
		}
	}
}

func TestReceiver_NoTeamColumnIsUnknown(t *testing.T) {
	match := makeMatch(
		makeEvent(0, "", "P1", model.PassType),
		makeEvent(1, "", "P9", "Tackle"),
	)
	match.Columns.TeamID = false
	rep := Aggregate(match, "P1", Filter{})
	if len(rep.Passes) != 1 {
		t.Fatalf("expected 1 pass, got %d", len(rep.Passes))
	}
	if got := rep.Passes[0].Receiver; got != model.ReceiverUnknown {
		t.Errorf("without teamId: want %q, got %q", model.ReceiverUnknown, got)
	}
}

// ---- Summary ----

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.Total != 0 || s.Successful != 0 || s.KeyPasses != 0 || s.Assists != 0 || s.ProgressiveSuccessful != 0 {
		t.Errorf("expected all-zero summary, got %+v", s)
	}
	if s.SuccessPct() != 0 {
		t.Errorf("expected 0%%, got %f", s.SuccessPct())
	}
}

func TestSummarize_KeyPassCountIncludesAssists(t *testing.T) {
	passes := []model.ClassifiedPass{
		makePass(true, "KeyPass,GoalAssist", false),
		makePass(true, "KeyPass", false),
		makePass(false, "", false),
	}
	s := Summarize(passes)
	if s.KeyPasses != 2 {
		t.Errorf("KeyPasses: want 2 (raw qualifier count), got %d", s.KeyPasses)
	}
	if s.Assists != 1 {
		t.Errorf("Assists: want 1, got %d", s.Assists)
	}
	if s.Total != 3 || s.Successful != 2 {
		t.Errorf("Total/Successful: got %d/%d", s.Total, s.Successful)
	}
}

func TestSummarize_ProgressiveNeedsSuccess(t *testing.T) {
	passes := []model.ClassifiedPass{
		makePass(true, "", true),
		makePass(false, "", true),
		makePass(true, "", false),
	}
	if got := Summarize(passes).ProgressiveSuccessful; got != 1 {
		t.Errorf("want 1 successful progressive pass, got %d", got)
	}
}

// ---- Filters and categories ----

func TestApplyFilters(t *testing.T) {
	passes := []model.ClassifiedPass{
		makePass(true, "", true),
		makePass(false, "", true),
		makePass(true, "", false),
		makePass(false, "", false),
	}
	cases := []struct {
		f    Filter
		want int
	}{
		{Filter{}, 4},
		{Filter{SuccessfulOnly: true}, 2},
		{Filter{ProgressiveOnly: true}, 2},
		{Filter{SuccessfulOnly: true, ProgressiveOnly: true}, 1},
	}
	for _, c := range cases {
		if got := len(ApplyFilters(passes, c.f)); got != c.want {
			t.Errorf("filter %+v: want %d, got %d", c.f, c.want, got)
		}
	}
}

func TestCategorize_PartitionsSuccessful(t *testing.T) {
	passes := []model.ClassifiedPass{
		makePass(true, "GoalAssist,KeyPass", false),
		makePass(true, "KeyPass", false),
		makePass(true, "", false),
		makePass(true, "Longball", false),
		makePass(false, "GoalAssist", false),
	}
	cats := Categorize(passes)
	if len(cats) != len(model.Categories) {
		t.Fatalf("expected %d categories, got %d", len(model.Categories), len(cats))
	}
	if n := len(cats[model.CategoryUnsuccessful]); n != 1 {
		t.Errorf("unsuccessful: want 1, got %d", n)
	}
	if n := len(cats[model.CategoryAssist]); n != 1 {
		t.Errorf("assist: want 1, got %d", n)
	}
	if n := len(cats[model.CategoryKeyPass]); n != 1 {
		t.Errorf("keypass: want 1, got %d", n)
	}
	if n := len(cats[model.CategoryPlain]); n != 2 {
		t.Errorf("plain: want 2, got %d", n)
	}
	ok := len(cats[model.CategoryAssist]) + len(cats[model.CategoryKeyPass]) + len(cats[model.CategoryPlain])
	if ok != 4 {
		t.Errorf("successful categories should sum to 4, got %d", ok)
	}
}

// ---- Pipeline ----

func TestAggregate_StatsIgnoreDisplayFilter(t *testing.T) {
	prog := makeEvent(0, teamA, "P1", model.PassType)
	prog.X, prog.EndX, prog.ProgPass = 40, 70, 15
	flat := makeEvent(1, teamA, "P1", model.PassType)
	miss := makeEvent(2, teamA, "P1", model.PassType)
	miss.Outcome = model.OutcomeUnsuccessful
	other := makeEvent(3, teamB, "P9", model.PassType)

	rep := Aggregate(makeMatch(prog, flat, miss, other), "P1", Filter{ProgressiveOnly: true})
	if rep.Summary.Total != 3 || rep.Summary.Successful != 2 || rep.Summary.ProgressiveSuccessful != 1 {
		t.Errorf("summary: %+v", rep.Summary)
	}
	if len(rep.Passes) != 1 || rep.Passes[0].Index != 0 {
		t.Fatalf("expected only the progressive pass, got %d", len(rep.Passes))
	}
	if rep.Passes[0].Receiver != "P1" {
		t.Errorf("receiver: want P1, got %q", rep.Passes[0].Receiver)
	}
	if len(rep.Categories[model.CategoryPlain]) != 1 {
		t.Errorf("plain category: want 1, got %d", len(rep.Categories[model.CategoryPlain]))
	}
}

func TestAggregate_UnknownPlayer(t *testing.T) {
	rep := Aggregate(makeMatch(makeEvent(0, teamA, "P1", model.PassType)), "Nobody", Filter{})
	if rep.Summary.Total != 0 || len(rep.Passes) != 0 {
		t.Errorf("expected empty report, got %+v", rep.Summary)
	}
}

// ---- Pool ----

func TestSelectPool_TeamFilter(t *testing.T) {
	m := makeMatch(
		makeEvent(0, teamA, "P2", model.PassType),
		makeEvent(1, teamA, "P1", model.PassType),
		makeEvent(2, teamB, "P9", model.PassType),
		makeEvent(3, teamA, "", model.PassType),
	)
	pool := SelectPool(m, "Team A")
	if pool.Kind != PoolTeam {
		t.Fatalf("expected team pool, got %v", pool.Kind)
	}
	roster := pool.Roster()
	if len(roster) != 2 || roster[0] != "P1" || roster[1] != "P2" {
		t.Errorf("roster: %v", roster)
	}
}

func TestSelectPool_FallbackToAll(t *testing.T) {
	m := makeMatch(
		makeEvent(0, teamA, "P1", model.PassType),
		makeEvent(1, teamB, "P9", model.PassType),
	)
	if pool := SelectPool(m, "Le Havre"); pool.Kind != PoolAll || len(pool.Events) != 2 {
		t.Errorf("unmatched team: want fallback to all, got %v with %d events", pool.Kind, len(pool.Events))
	}
	m.Columns.TeamName = false
	if pool := SelectPool(m, "Team A"); pool.Kind != PoolAll {
		t.Errorf("missing team column: want fallback to all, got %v", pool.Kind)
	}
}
