// Package classifier derives the per-pass flags: progressive, key pass and assist.
package classifier

import "github.com/pable/go-pass-metrics/internal/model"

// Thresholds for the progressive-pass rule. Inclusive.
const (
	StandardMinProgress = 9.11 // distance gained for an ordinary open-play pass
	StandardMinX        = 35.0 // start zone for ordinary passes (0–100 scale)
	LongBallMinProgress = 4.0  // distance gained for a long ball, any zone
)

// ClassifyProgressive returns one flag per event. A table missing any column
// the rule reads yields all-false rather than an error. NaN operands fail
// every comparison, so rows with blank cells are never progressive.
func ClassifyProgressive(events []model.PassEvent, cols model.Columns) []bool {
	out := make([]bool, len(events))
	if !cols.CanClassify() {
		return out
	}
	for i := range events {
		out[i] = IsProgressive(&events[i])
	}
	return out
}

// IsProgressive applies the rule to a single event.
func IsProgressive(e *model.PassEvent) bool {
	if !e.IsPass() {
		return false
	}
	isForward := e.EndX > e.X
	if !isForward {
		return false
	}
	isStandard := e.ProgPass >= StandardMinProgress && e.X >= StandardMinX && e.Qualifiers.IsOpenPlay()
	isLongProg := e.Qualifiers.Has(model.QualLongball) && e.ProgPass >= LongBallMinProgress
	return isStandard || isLongProg
}

// TagKeyAndAssist flags key passes and assists. An assist suppresses the key
// pass flag on the same event.
func TagKeyAndAssist(events []model.PassEvent) (keyPass, assist []bool) {
	keyPass = make([]bool, len(events))
	assist = make([]bool, len(events))
	for i := range events {
		q := events[i].Qualifiers
		assist[i] = q.Has(model.QualGoalAssist)
		keyPass[i] = q.Has(model.QualKeyPass) && !assist[i]
	}
	return keyPass, assist
}

// Classify runs both stages and bundles the flags with each event. Receiver
// is left empty; see aggregator.Enrich.
func Classify(events []model.PassEvent, cols model.Columns) []model.ClassifiedPass {
	prog := ClassifyProgressive(events, cols)
	key, ast := TagKeyAndAssist(events)
	out := make([]model.ClassifiedPass, len(events))
	for i, e := range events {
		out[i] = model.ClassifiedPass{
			PassEvent:     e,
			IsProgressive: prog[i],
			IsAssist:      ast[i],
			IsKeyPass:     key[i],
		}
	}
	return out
}
