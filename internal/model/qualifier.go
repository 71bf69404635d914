package model

import "strings"

// Qualifier is a pass-context tag recognised in the qualifier blob.
type Qualifier uint8

const (
	QualCornerTaken Qualifier = 1 << iota
	QualFreekick
	QualLongball
	QualKeyPass
	QualGoalAssist
)

// qualifierKeywords holds the exact spellings matched against the raw blob.
var qualifierKeywords = []struct {
	q    Qualifier
	word string
}{
	{QualCornerTaken, "CornerTaken"},
	{QualFreekick, "Freekick"},
	{QualLongball, "Longball"},
	{QualKeyPass, "KeyPass"},
	{QualGoalAssist, "GoalAssist"},
}

func (q Qualifier) String() string {
	for _, k := range qualifierKeywords {
		if k.q == q {
			return k.word
		}
	}
	return "?"
}

// QualifierSet is the parsed form of a qualifier blob. It keeps the raw text
// for storage and display and a bitset for membership tests.
type QualifierSet struct {
	Raw  string
	tags Qualifier
}

// ParseQualifiers scans the raw blob once. Each keyword matches as a
// case-insensitive substring, so "KeyPass" inside a longer token still counts.
func ParseQualifiers(raw string) QualifierSet {
	lower := strings.ToLower(raw)
	set := QualifierSet{Raw: raw}
	for _, k := range qualifierKeywords {
		if strings.Contains(lower, strings.ToLower(k.word)) {
			set.tags |= k.q
		}
	}
	return set
}

// NewQualifierSet builds a set directly from tags; Raw lists the tag names.
func NewQualifierSet(qs ...Qualifier) QualifierSet {
	var set QualifierSet
	names := make([]string, 0, len(qs))
	for _, q := range qs {
		set.tags |= q
		names = append(names, q.String())
	}
	set.Raw = strings.Join(names, ",")
	return set
}

// Has reports whether q is present.
func (s QualifierSet) Has(q Qualifier) bool { return s.tags&q != 0 }

// IsOpenPlay is false for corners and free kicks.
func (s QualifierSet) IsOpenPlay() bool { return !s.Has(QualCornerTaken) && !s.Has(QualFreekick) }

// Tags lists the recognised tags in keyword order.
func (s QualifierSet) Tags() []Qualifier {
	var out []Qualifier
	for _, k := range qualifierKeywords {
		if s.Has(k.q) {
			out = append(out, k.q)
		}
	}
	return out
}
