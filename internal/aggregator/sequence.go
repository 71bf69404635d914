package aggregator

import "github.com/pable/go-pass-metrics/internal/model"

// Sequence indexes the full, unfiltered match by event index so the event
// after any pass can be found without scanning.
type Sequence struct {
	byIndex map[int]model.PassEvent
	hasTeam bool
}

// NewSequence builds the index. Rows with an invalid index are skipped; when
// two rows share an index the first one wins. Without a teamId column no
// receiver can be resolved.
func NewSequence(events []model.PassEvent, cols model.Columns) *Sequence {
	s := &Sequence{
		byIndex: make(map[int]model.PassEvent, len(events)),
		hasTeam: cols.TeamID,
	}
	for _, e := range events {
		if e.Index < 0 {
			continue
		}
		if _, dup := s.byIndex[e.Index]; dup {
			continue
		}
		s.byIndex[e.Index] = e
	}
	return s
}

// Len returns the number of indexed events.
func (s *Sequence) Len() int { return len(s.byIndex) }

// Next returns the event immediately after e, if there is one.
func (s *Sequence) Next(e model.PassEvent) (model.PassEvent, bool) {
	if e.Index < 0 {
		return model.PassEvent{}, false
	}
	next, ok := s.byIndex[e.Index+1]
	return next, ok
}

// Receiver names who got the ball after e: the next event's player when that
// event belongs to the same team, ReceiverLost when it belongs to the other
// team, and ReceiverUnknown when there is no next event or no team column.
func (s *Sequence) Receiver(e model.PassEvent) string {
	next, ok := s.Next(e)
	if !ok || !s.hasTeam {
		return model.ReceiverUnknown
	}
	if next.TeamID == e.TeamID {
		return next.Name
	}
	return model.ReceiverLost
}

// ResolveReceivers returns one receiver per pass.
func ResolveReceivers(passes []model.ClassifiedPass, seq *Sequence) []string {
	out := make([]string, len(passes))
	for i, p := range passes {
		out[i] = seq.Receiver(p.PassEvent)
	}
	return out
}

// Enrich writes resolved receivers into passes in place.
func Enrich(passes []model.ClassifiedPass, seq *Sequence) {
	for i, r := range ResolveReceivers(passes, seq) {
		passes[i].Receiver = r
	}
}
