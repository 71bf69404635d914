package storage

import (
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/pable/go-pass-metrics/internal/model"
)

// MatchExists returns true if a table with the given hash is already cached.
func (db *DB) MatchExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertMatch caches a parsed table and its rows in one transaction. Uses
// INSERT OR REPLACE for idempotency.
func (db *DB) InsertMatch(m *model.Match) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	s := m.Summary
	if _, err := tx.Exec(`DELETE FROM events WHERE match_hash = ?`, s.FileHash); err != nil {
		return fmt.Errorf("clear events: %w", err)
	}
	_, err = tx.Exec(`
		INSERT OR REPLACE INTO matches(hash, file_name, display_name, delimiter, row_count, teams, columns, loaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.FileHash, s.FileName, s.DisplayName, s.Delimiter, len(m.Events),
		strings.Join(s.Teams, "\n"), encodeColumns(m.Columns), s.LoadedAt,
	)
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO events(
			match_hash, row_pos, event_index, team_id, team_name, name, type, outcome,
			x, y, end_x, end_y, minute, qualifiers, prog_pass
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, e := range m.Events {
		_, err = stmt.Exec(
			s.FileHash, i, e.Index, e.TeamID, e.TeamName, e.Name, e.Type, e.Outcome.String(),
			nullFloat(e.X), nullFloat(e.Y), nullFloat(e.EndX), nullFloat(e.EndY),
			nullFloat(e.Minute), e.Qualifiers.Raw, nullFloat(e.ProgPass),
		)
		if err != nil {
			return fmt.Errorf("insert event %d: %w", i, err)
		}
	}
	return tx.Commit()
}

const matchColumns = `hash, file_name, display_name, delimiter, row_count, teams, columns, loaded_at`

func scanMatch(sc interface{ Scan(...any) error }) (model.MatchSummary, model.Columns, error) {
	var s model.MatchSummary
	var teams, cols string
	err := sc.Scan(&s.FileHash, &s.FileName, &s.DisplayName, &s.Delimiter, &s.RowCount, &teams, &cols, &s.LoadedAt)
	if err != nil {
		return s, model.Columns{}, err
	}
	if teams != "" {
		s.Teams = strings.Split(teams, "\n")
	}
	return s, decodeColumns(cols), nil
}

// ListMatches returns all cached match summaries ordered by display name.
func (db *DB) ListMatches() ([]model.MatchSummary, error) {
	rows, err := db.conn.Query(`SELECT ` + matchColumns + ` FROM matches ORDER BY display_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		s, _, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetMatchByPrefix finds the first cached table whose hash starts with prefix.
// Returns nil, nil when nothing matches.
func (db *DB) GetMatchByPrefix(prefix string) (*model.MatchSummary, error) {
	s, _, err := scanMatch(db.conn.QueryRow(
		`SELECT `+matchColumns+` FROM matches WHERE hash LIKE ? ORDER BY hash LIMIT 1`, prefix+"%"))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetMatch rebuilds a cached table. Returns nil, nil when hash is not cached.
func (db *DB) GetMatch(hash string) (*model.Match, error) {
	s, cols, err := scanMatch(db.conn.QueryRow(
		`SELECT `+matchColumns+` FROM matches WHERE hash = ?`, hash))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	events, err := db.GetEvents(hash)
	if err != nil {
		return nil, err
	}
	return &model.Match{Summary: s, Columns: cols, Events: events}, nil
}

// GetEvents returns the cached rows of a table in file order.
func (db *DB) GetEvents(hash string) ([]model.PassEvent, error) {
	rows, err := db.conn.Query(`
		SELECT event_index, team_id, team_name, name, type, outcome,
		       x, y, end_x, end_y, minute, qualifiers, prog_pass
		FROM events WHERE match_hash = ?
		ORDER BY row_pos`, hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PassEvent
	for rows.Next() {
		var e model.PassEvent
		var outcome, qualifiers string
		var x, y, endX, endY, minute, prog sql.NullFloat64
		if err := rows.Scan(
			&e.Index, &e.TeamID, &e.TeamName, &e.Name, &e.Type, &outcome,
			&x, &y, &endX, &endY, &minute, &qualifiers, &prog,
		); err != nil {
			return nil, err
		}
		e.Outcome = model.ParseOutcome(outcome)
		e.X, e.Y = floatOrNaN(x), floatOrNaN(y)
		e.EndX, e.EndY = floatOrNaN(endX), floatOrNaN(endY)
		e.Minute = floatOrNaN(minute)
		e.ProgPass = floatOrNaN(prog)
		e.Qualifiers = model.ParseQualifiers(qualifiers)
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteMatch removes a cached table and its rows.
func (db *DB) DeleteMatch(hash string) error {
	if _, err := db.conn.Exec(`DELETE FROM events WHERE match_hash = ?`, hash); err != nil {
		return err
	}
	_, err := db.conn.Exec(`DELETE FROM matches WHERE hash = ?`, hash)
	return err
}

// Overview is the high-level state of the cache.
type Overview struct {
	TotalMatches  int
	TotalEvents   int
	UniquePlayers int
	EarliestLoad  string
	LatestLoad    string
}

// GetOverview summarises the cache contents.
func (db *DB) GetOverview() (Overview, error) {
	var ov Overview
	err := db.conn.QueryRow(`
		SELECT COUNT(1), COALESCE(MIN(loaded_at), ''), COALESCE(MAX(loaded_at), '')
		FROM matches`).Scan(&ov.TotalMatches, &ov.EarliestLoad, &ov.LatestLoad)
	if err != nil {
		return ov, err
	}
	err = db.conn.QueryRow(`
		SELECT COUNT(1), COUNT(DISTINCT NULLIF(name, ''))
		FROM events`).Scan(&ov.TotalEvents, &ov.UniquePlayers)
	return ov, err
}

// TeamCount is the number of cached matches a team appears in.
type TeamCount struct {
	TeamName string
	Matches  int
	Passes   int
}

// GetTeamCounts lists teams by the number of cached matches they appear in.
func (db *DB) GetTeamCounts() ([]TeamCount, error) {
	rows, err := db.conn.Query(`
		SELECT team_name, COUNT(DISTINCT match_hash), SUM(CASE WHEN type = 'Pass' THEN 1 ELSE 0 END)
		FROM events WHERE team_name != ''
		GROUP BY team_name
		ORDER BY 2 DESC, team_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TeamCount
	for rows.Next() {
		var tc TeamCount
		if err := rows.Scan(&tc.TeamName, &tc.Matches, &tc.Passes); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch t := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(t)
			default:
				row[i] = fmt.Sprint(t)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func nullFloat(f float64) sql.NullFloat64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func floatOrNaN(f sql.NullFloat64) float64 {
	if !f.Valid {
		return math.NaN()
	}
	return f.Float64
}

// columnNames pairs each optional column flag with its header name.
func columnNames(c *model.Columns) []struct {
	name string
	flag *bool
} {
	return []struct {
		name string
		flag *bool
	}{
		{"index", &c.Index}, {"teamId", &c.TeamID}, {"teamName", &c.TeamName},
		{"name", &c.Name}, {"type", &c.Type}, {"outcomeType", &c.Outcome},
		{"x", &c.X}, {"y", &c.Y}, {"endX", &c.EndX}, {"endY", &c.EndY},
		{"minute", &c.Minute}, {"qualifiers", &c.Qualifiers}, {"prog_pass", &c.ProgPass},
	}
}

func encodeColumns(c model.Columns) string {
	var names []string
	for _, col := range columnNames(&c) {
		if *col.flag {
			names = append(names, col.name)
		}
	}
	return strings.Join(names, ",")
}

func decodeColumns(s string) model.Columns {
	var c model.Columns
	present := make(map[string]bool)
	for _, n := range strings.Split(s, ",") {
		present[n] = true
	}
	for _, col := range columnNames(&c) {
		*col.flag = present[col.name]
	}
	return c
}
