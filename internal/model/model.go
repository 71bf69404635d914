package model

import (
	"math"
	"strconv"
)

// Outcome is the result of a pass event.
type Outcome int

const (
	OutcomeUnsuccessful Outcome = 0
	OutcomeSuccessful   Outcome = 1
)

func (o Outcome) String() string {
	if o == OutcomeSuccessful {
		return "Successful"
	}
	return "Unsuccessful"
}

// ParseOutcome maps an outcomeType cell to an Outcome. Anything other than the
// exact "Successful" label counts as unsuccessful.
func ParseOutcome(s string) Outcome {
	if s == "Successful" {
		return OutcomeSuccessful
	}
	return OutcomeUnsuccessful
}

// PassType is the event type tag that takes part in classification.
const PassType = "Pass"

// ReceiverLost and ReceiverUnknown are the sentinel receiver values.
const (
	ReceiverLost    = "Perte"
	ReceiverUnknown = "-"
)

// ---- Raw rows emitted by the parser ----

// PassEvent is one row of a match event table. Coordinates are on a 0–100
// scale; missing numeric cells are NaN.
type PassEvent struct {
	Index      int // position in the full match sequence; -1 if the cell was unparseable
	TeamID     string
	TeamName   string
	Name       string
	Type       string
	Outcome    Outcome
	X, Y       float64
	EndX, EndY float64
	Minute     float64
	Qualifiers QualifierSet
	ProgPass   float64
}

// IsPass reports whether the event is a pass.
func (e *PassEvent) IsPass() bool { return e.Type == PassType }

// IsSuccessful reports whether the event completed.
func (e *PassEvent) IsSuccessful() bool { return e.Outcome == OutcomeSuccessful }

// MinuteLabel formats the minute for display ("-" when missing).
func (e *PassEvent) MinuteLabel() string {
	if math.IsNaN(e.Minute) {
		return ReceiverUnknown
	}
	return strconv.FormatFloat(e.Minute, 'f', -1, 64) + "'"
}

// Columns records which optional columns the loaded table carries.
type Columns struct {
	Index      bool
	TeamID     bool
	TeamName   bool
	Name       bool
	Type       bool
	Outcome    bool
	X, Y       bool
	EndX, EndY bool
	Minute     bool
	Qualifiers bool
	ProgPass   bool
}

// CanClassify reports whether every column the progressive rule reads is present.
func (c Columns) CanClassify() bool {
	return c.Qualifiers && c.ProgPass && c.X && c.EndX
}

// MatchSummary is a lightweight record for list/load commands.
type MatchSummary struct {
	FileHash    string
	FileName    string
	DisplayName string
	Delimiter   string // "," or ";"
	RowCount    int
	Teams       []string
	LoadedAt    string // YYYY-MM-DD
}

// Match is a fully loaded event table.
type Match struct {
	Summary MatchSummary
	Columns Columns
	Events  []PassEvent
}

// ---- Derived records ----

// PassCategory is the display bucket of a pass.
type PassCategory int

const (
	CategoryUnsuccessful PassCategory = iota
	CategoryAssist
	CategoryKeyPass
	CategoryPlain
)

// Categories lists every category in display priority order.
var Categories = []PassCategory{CategoryUnsuccessful, CategoryAssist, CategoryKeyPass, CategoryPlain}

func (c PassCategory) String() string {
	switch c {
	case CategoryUnsuccessful:
		return "Missed"
	case CategoryAssist:
		return "Assists"
	case CategoryKeyPass:
		return "Key passes"
	case CategoryPlain:
		return "Completed"
	default:
		return "?"
	}
}

// Key is the stable machine name used in exports.
func (c PassCategory) Key() string {
	switch c {
	case CategoryUnsuccessful:
		return "unsuccessful"
	case CategoryAssist:
		return "assist"
	case CategoryKeyPass:
		return "keypass"
	case CategoryPlain:
		return "plain"
	default:
		return "unknown"
	}
}

// ClassifiedPass is a pass event with the flags derived for one run.
type ClassifiedPass struct {
	PassEvent
	IsProgressive bool
	IsAssist      bool
	IsKeyPass     bool
	Receiver      string
}

// Category assigns the display bucket: unsuccessful first, then assist,
// key pass, and plain completions.
func (p *ClassifiedPass) Category() PassCategory {
	switch {
	case !p.IsSuccessful():
		return CategoryUnsuccessful
	case p.IsAssist:
		return CategoryAssist
	case p.IsKeyPass:
		return CategoryKeyPass
	default:
		return CategoryPlain
	}
}

// PassSummary holds the per-player headline numbers.
type PassSummary struct {
	Total                 int
	Successful            int
	KeyPasses             int // raw KeyPass qualifier count, assists included
	Assists               int
	ProgressiveSuccessful int
}

// SuccessPct returns the completion rate in percent, 0 for an empty set.
func (s *PassSummary) SuccessPct() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Successful) / float64(s.Total) * 100
}
