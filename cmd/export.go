package cmd

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pass-metrics/internal/aggregator"
	"github.com/pable/go-pass-metrics/internal/model"
	"github.com/pable/go-pass-metrics/internal/pitch"
)

var (
	exportOut         string
	exportSuccessful  bool
	exportProgressive bool
)

// passExport is the top-level JSON document written by export.
type passExport struct {
	Match      exportMatch      `json:"match"`
	Player     string           `json:"player"`
	Summary    exportSummary    `json:"summary"`
	Filters    exportFilters    `json:"filters"`
	Pitch      exportPitch      `json:"pitch"`
	Categories []exportCategory `json:"categories"`
}

type exportMatch struct {
	Name      string   `json:"name"`
	File      string   `json:"file"`
	Hash      string   `json:"hash"`
	Delimiter string   `json:"delimiter"`
	Rows      int      `json:"rows"`
	Teams     []string `json:"teams"`
}

type exportSummary struct {
	Total                 int     `json:"total"`
	Successful            int     `json:"successful"`
	SuccessPct            float64 `json:"success_pct"`
	KeyPasses             int     `json:"key_passes"`
	Assists               int     `json:"assists"`
	ProgressiveSuccessful int     `json:"progressive_successful"`
}

type exportFilters struct {
	SuccessfulOnly  bool `json:"successful_only"`
	ProgressiveOnly bool `json:"progressive_only"`
}

type exportPitch struct {
	Length float64 `json:"length_m"`
	Width  float64 `json:"width_m"`
}

// exportCategory holds one display group; categories appear in display order.
type exportCategory struct {
	Key    string       `json:"key"`
	Label  string       `json:"label"`
	Passes []exportPass `json:"passes"`
}

type exportPass struct {
	Index       int         `json:"index"`
	Minute      *float64    `json:"minute"`
	Outcome     string      `json:"outcome"`
	Start       exportPoint `json:"start"`
	End         exportPoint `json:"end"`
	StartMetric exportPoint `json:"start_m"`
	EndMetric   exportPoint `json:"end_m"`
	Progressive bool        `json:"progressive"`
	KeyPass     bool        `json:"key_pass"`
	Assist      bool        `json:"assist"`
	Receiver    string      `json:"receiver"`
	Qualifiers  []string    `json:"qualifiers"`
}

// exportPoint uses pointers so missing coordinates encode as null.
type exportPoint struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

var exportCmd = &cobra.Command{
	Use:   "export <match> <player>",
	Short: "Export a player's classified passes as JSON",
	Long: `Write a JSON document with the match metadata, the player's pass summary,
the active filters and the passes grouped by category (missed, assists, key
passes, completed). Every pass carries its raw 0-100 coordinates and the same
points on a 105x68 m pitch, ready for a chart renderer.

Example:
  passmetrics export HAC-FCL "A. Touré" --successful --out toure.json`,
	Args: cobra.ExactArgs(2),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
	exportCmd.Flags().BoolVar(&exportSuccessful, "successful", false, "export successful passes only")
	exportCmd.Flags().BoolVar(&exportProgressive, "progressive", false, "export progressive passes only")
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := openDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	match, err := loadMatch(db, mets, cfg.DataDir, args[0])
	if noData(os.Stderr, err) {
		return nil
	}
	if err != nil {
		return err
	}

	rep := analyze(mets, match, args[1], aggregator.Filter{
		SuccessfulOnly:  exportSuccessful,
		ProgressiveOnly: exportProgressive,
	})

	data, err := json.MarshalIndent(buildExport(match.Summary, rep), "", "  ")
	if err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}

	if exportOut == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(exportOut, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", exportOut)
	return nil
}

func buildExport(s model.MatchSummary, rep aggregator.Report) passExport {
	out := passExport{
		Match: exportMatch{
			Name:      s.DisplayName,
			File:      s.FileName,
			Hash:      s.FileHash,
			Delimiter: s.Delimiter,
			Rows:      s.RowCount,
			Teams:     s.Teams,
		},
		Player: rep.Player,
		Summary: exportSummary{
			Total:                 rep.Summary.Total,
			Successful:            rep.Summary.Successful,
			SuccessPct:            math.Round(rep.Summary.SuccessPct()*10) / 10,
			KeyPasses:             rep.Summary.KeyPasses,
			Assists:               rep.Summary.Assists,
			ProgressiveSuccessful: rep.Summary.ProgressiveSuccessful,
		},
		Filters: exportFilters{
			SuccessfulOnly:  rep.Filter.SuccessfulOnly,
			ProgressiveOnly: rep.Filter.ProgressiveOnly,
		},
		Pitch: exportPitch{Length: pitch.Length, Width: pitch.Width},
	}
	if out.Match.Teams == nil {
		out.Match.Teams = []string{}
	}

	for _, c := range model.Categories {
		cat := exportCategory{Key: c.Key(), Label: c.String(), Passes: []exportPass{}}
		for _, p := range rep.Categories[c] {
			cat.Passes = append(cat.Passes, toExportPass(p))
		}
		out.Categories = append(out.Categories, cat)
	}
	return out
}

func toExportPass(p model.ClassifiedPass) exportPass {
	start := pitch.ToMetric(p.X, p.Y)
	end := pitch.ToMetric(p.EndX, p.EndY)
	tags := []string{}
	for _, q := range p.Qualifiers.Tags() {
		tags = append(tags, q.String())
	}
	return exportPass{
		Index:       p.Index,
		Minute:      optional(p.Minute),
		Outcome:     p.Outcome.String(),
		Start:       point(p.X, p.Y),
		End:         point(p.EndX, p.EndY),
		StartMetric: point(start.X, start.Y),
		EndMetric:   point(end.X, end.Y),
		Progressive: p.IsProgressive,
		KeyPass:     p.IsKeyPass,
		Assist:      p.IsAssist,
		Receiver:    p.Receiver,
		Qualifiers:  tags,
	}
}

func point(x, y float64) exportPoint {
	return exportPoint{X: optional(x), Y: optional(y)}
}

// optional maps NaN and ±Inf to nil.
func optional(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
