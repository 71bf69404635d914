package parser

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/pable/go-pass-metrics/internal/logger"
	"github.com/pable/go-pass-metrics/internal/model"
)

// ErrNoData is wrapped by every load failure. Callers show "no data
// available" instead of the underlying error.
var ErrNoData = errors.New("no data available")

// Column names read from the event table.
const (
	colIndex      = "index"
	colTeamID     = "teamId"
	colTeamName   = "teamName"
	colName       = "name"
	colType       = "type"
	colOutcome    = "outcomeType"
	colX          = "x"
	colY          = "y"
	colEndX       = "endX"
	colEndY       = "endY"
	colMinute     = "minute"
	colQualifiers = "qualifiers"
	colProgPass   = "prog_pass"
)

// matchSuffixes are the file endings recognised as match tables, longest first.
var matchSuffixes = []string{".csv.zst", ".csv.gz", ".csv"}

// LoadMatch reads and parses the event table at path.
func LoadMatch(path string) (*model.Match, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrNoData, path, err)
	}
	hash := HashBytes(raw)

	data, err := decompress(path, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress %s: %v", ErrNoData, path, err)
	}

	m, err := ParseTable(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrNoData, path, err)
	}
	m.Summary.FileHash = hash
	m.Summary.FileName = filepath.Base(path)
	m.Summary.DisplayName = DisplayName(path)
	m.Summary.LoadedAt = time.Now().Format("2006-01-02")
	return m, nil
}

// HashFile returns the hex SHA-256 of the file, the load cache key.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash table: %w", err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// HashBytes returns the hex SHA-256 of b.
func HashBytes(b []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(b))
}

func decompress(path string, raw []byte) ([]byte, error) {
	switch {
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		return dec.DecodeAll(raw, nil)
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		return io.ReadAll(gz)
	default:
		return raw, nil
	}
}

// ParseTable parses a delimited event table. It tries commas first and falls
// back to semicolons when the comma header has fewer than 2 columns. The
// returned Match has no file metadata.
func ParseTable(data []byte) (*model.Match, error) {
	records, err := readRecords(data, ',')
	if err != nil || len(records) == 0 || len(records[0]) < 2 {
		logger.Debug("comma parse gave too few columns, retrying with ';'")
		records, err = readRecords(data, ';')
		if err != nil {
			return nil, err
		}
		if len(records) == 0 || len(records[0]) < 2 {
			return nil, errors.New("table has fewer than 2 columns")
		}
		return buildMatch(records, ";"), nil
	}
	return buildMatch(records, ","), nil
}

func readRecords(data []byte, comma rune) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = comma
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func buildMatch(records [][]string, delim string) *model.Match {
	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}
	has := func(name string) bool {
		_, ok := pos[name]
		return ok
	}

	cols := model.Columns{
		Index:      has(colIndex),
		TeamID:     has(colTeamID),
		TeamName:   has(colTeamName),
		Name:       has(colName),
		Type:       has(colType),
		Outcome:    has(colOutcome),
		X:          has(colX),
		Y:          has(colY),
		EndX:       has(colEndX),
		EndY:       has(colEndY),
		Minute:     has(colMinute),
		Qualifiers: has(colQualifiers),
		ProgPass:   has(colProgPass),
	}

	rows := records[1:]
	events := make([]model.PassEvent, 0, len(rows))
	for i, rec := range rows {
		cell := func(name string) string {
			p, ok := pos[name]
			if !ok || p >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[p])
		}
		num := func(name string) float64 { return parseFloat(cell(name), delim) }

		e := model.PassEvent{
			Index:      i,
			TeamID:     cell(colTeamID),
			TeamName:   cell(colTeamName),
			Name:       cell(colName),
			Type:       cell(colType),
			Outcome:    model.ParseOutcome(cell(colOutcome)),
			X:          num(colX),
			Y:          num(colY),
			EndX:       num(colEndX),
			EndY:       num(colEndY),
			Minute:     num(colMinute),
			Qualifiers: model.ParseQualifiers(cell(colQualifiers)),
			ProgPass:   num(colProgPass),
		}
		if cols.Index {
			e.Index = parseIndex(cell(colIndex))
		}
		events = append(events, e)
	}

	return &model.Match{
		Summary: model.MatchSummary{
			Delimiter: delim,
			RowCount:  len(events),
			Teams:     teamNames(events),
		},
		Columns: cols,
		Events:  events,
	}
}

// parseFloat returns NaN for blank, malformed or infinite cells. Semicolon
// tables may use a decimal comma.
func parseFloat(s, delim string) float64 {
	if s == "" {
		return math.NaN()
	}
	if delim == ";" {
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return math.NaN()
	}
	return f
}

// parseIndex accepts integers and integral floats ("12.0"); anything else is -1.
func parseIndex(s string) int {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return -1
		}
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f != math.Trunc(f) || math.IsInf(f, 0) {
		return -1
	}
	return int(f)
}

func teamNames(events []model.PassEvent) []string {
	seen := make(map[string]struct{})
	for _, e := range events {
		if e.TeamName != "" {
			seen[e.TeamName] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// IsMatchFile reports whether name looks like a match table.
func IsMatchFile(name string) bool {
	for _, s := range matchSuffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// DisplayName strips the directory and the table suffix: "data/HAC-PSG.csv"
// becomes "HAC-PSG".
func DisplayName(path string) string {
	base := filepath.Base(path)
	for _, s := range matchSuffixes {
		if strings.HasSuffix(base, s) {
			return strings.TrimSuffix(base, s)
		}
	}
	return base
}

// ListMatchFiles returns the sorted match tables in dir. A missing directory
// is created and yields an empty list.
func ListMatchFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		if mkErr := os.MkdirAll(dir, 0755); mkErr != nil {
			logger.Warn("create data dir %s: %v", dir, mkErr)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !IsMatchFile(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

// ResolvePath finds the table for a user-supplied match reference: an
// existing path, or a file name in dataDir with or without its ".csv" suffix.
func ResolvePath(dataDir, ref string) (string, error) {
	if fileExists(ref) {
		return ref, nil
	}
	candidates := []string{filepath.Join(dataDir, ref)}
	for _, s := range matchSuffixes {
		candidates = append(candidates, filepath.Join(dataDir, ref+s))
	}
	for _, c := range candidates {
		if fileExists(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: no match table %q in %s", ErrNoData, ref, dataDir)
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}
