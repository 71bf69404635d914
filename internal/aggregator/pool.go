package aggregator

import (
	"sort"

	"github.com/pable/go-pass-metrics/internal/model"
)

// PoolKind tells whether a player pool came from the team filter or fell back
// to the whole table.
type PoolKind int

const (
	PoolTeam PoolKind = iota
	PoolAll
)

func (k PoolKind) String() string {
	if k == PoolTeam {
		return "team"
	}
	return "all"
}

// Pool is the set of events players are picked from.
type Pool struct {
	Kind   PoolKind
	Events []model.PassEvent
}

// SelectPool restricts events to teamName. It falls back to every event when
// the table has no team-name column, no team is given, or the filter matches
// nothing.
func SelectPool(match *model.Match, teamName string) Pool {
	if !match.Columns.TeamName || teamName == "" {
		return Pool{Kind: PoolAll, Events: match.Events}
	}
	var team []model.PassEvent
	for _, e := range match.Events {
		if e.TeamName == teamName {
			team = append(team, e)
		}
	}
	if len(team) == 0 {
		return Pool{Kind: PoolAll, Events: match.Events}
	}
	return Pool{Kind: PoolTeam, Events: team}
}

// Roster returns the sorted distinct player names in the pool.
func (p Pool) Roster() []string {
	seen := make(map[string]struct{})
	for _, e := range p.Events {
		if e.Name == "" {
			continue
		}
		seen[e.Name] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
