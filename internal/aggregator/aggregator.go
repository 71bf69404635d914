package aggregator

import (
	"github.com/pable/go-pass-metrics/internal/classifier"
	"github.com/pable/go-pass-metrics/internal/model"
)

// Filter narrows the passes shown on the map. Summary stats are always
// computed before filtering.
type Filter struct {
	SuccessfulOnly  bool
	ProgressiveOnly bool
}

// Report is everything the presentation layer needs for one player in one match.
type Report struct {
	Player     string
	Summary    model.PassSummary
	Filter     Filter
	Classified []model.ClassifiedPass // every pass by the player, unfiltered
	Passes     []model.ClassifiedPass // filtered, receivers resolved
	Categories map[model.PassCategory][]model.ClassifiedPass
}

// Aggregate runs the whole pipeline for one player: select their passes,
// classify them, summarise, filter, then resolve receivers against the full
// match sequence.
func Aggregate(match *model.Match, player string, f Filter) Report {
	passes := classifier.Classify(PlayerPasses(match.Events, player), match.Columns)
	rep := Report{
		Player:     player,
		Summary:    Summarize(passes),
		Filter:     f,
		Classified: passes,
	}
	rep.Passes = ApplyFilters(passes, f)
	Enrich(rep.Passes, NewSequence(match.Events, match.Columns))
	rep.Categories = Categorize(rep.Passes)
	return rep
}

// PlayerPasses returns the player's pass events in match order.
func PlayerPasses(events []model.PassEvent, name string) []model.PassEvent {
	var out []model.PassEvent
	for _, e := range events {
		if e.Name == name && e.IsPass() {
			out = append(out, e)
		}
	}
	return out
}

// Summarize computes the headline numbers. KeyPasses counts every raw
// KeyPass qualifier, including passes also tagged as assists.
func Summarize(passes []model.ClassifiedPass) model.PassSummary {
	s := model.PassSummary{Total: len(passes)}
	for _, p := range passes {
		if p.IsSuccessful() {
			s.Successful++
			if p.IsProgressive {
				s.ProgressiveSuccessful++
			}
		}
		if p.Qualifiers.Has(model.QualKeyPass) {
			s.KeyPasses++
		}
		if p.Qualifiers.Has(model.QualGoalAssist) {
			s.Assists++
		}
	}
	return s
}

// ApplyFilters returns the passes matching f, preserving order.
func ApplyFilters(passes []model.ClassifiedPass, f Filter) []model.ClassifiedPass {
	out := make([]model.ClassifiedPass, 0, len(passes))
	for _, p := range passes {
		if f.SuccessfulOnly && !p.IsSuccessful() {
			continue
		}
		if f.ProgressiveOnly && !p.IsProgressive {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categorize partitions passes into the four display buckets. Every
// category key is present, possibly with a nil slice.
func Categorize(passes []model.ClassifiedPass) map[model.PassCategory][]model.ClassifiedPass {
	out := make(map[model.PassCategory][]model.ClassifiedPass, len(model.Categories))
	for _, c := range model.Categories {
		out[c] = nil
	}
	for _, p := range passes {
		c := p.Category()
		out[c] = append(out[c], p)
	}
	return out
}
