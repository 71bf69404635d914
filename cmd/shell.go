package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-pass-metrics/internal/aggregator"
	"github.com/pable/go-pass-metrics/internal/metrics"
	"github.com/pable/go-pass-metrics/internal/model"
	"github.com/pable/go-pass-metrics/internal/parser"
	"github.com/pable/go-pass-metrics/internal/report"
	"github.com/pable/go-pass-metrics/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long: `Open a session for picking a match, a player and display filters, then
showing the player's passes. Type 'help' for available commands.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

// session is the REPL selection state.
type session struct {
	db      *storage.DB
	mets    *metrics.Manager
	dataDir string
	team    string

	out    io.Writer
	errOut io.Writer

	match  *model.Match
	pool   aggregator.Pool
	player string
	filter aggregator.Filter
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	s := &session{
		db: db, mets: mets, dataDir: cfg.DataDir, team: cfg.Team,
		out: os.Stdout, errOut: os.Stderr,
	}
	cGreeting.Println("passmetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()
	s.run(os.Stdin, true)
	return nil
}

// run reads commands from in until EOF or exit.
func (s *session) run(in io.Reader, prompt bool) {
	scanner := bufio.NewScanner(in)
	for {
		if prompt {
			s.prompt()
		}
		if !scanner.Scan() {
			if prompt {
				fmt.Fprintln(s.out)
			}
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !s.exec(line) {
			return
		}
	}
}

func (s *session) prompt() {
	cPrompt.Fprint(s.out, "passmetrics")
	if s.match != nil {
		cMuted.Fprintf(s.out, " [%s", s.match.Summary.DisplayName)
		if s.player != "" {
			cMuted.Fprintf(s.out, " / %s", s.player)
		}
		cMuted.Fprint(s.out, "]")
	}
	cMuted.Fprint(s.out, "> ")
}

// exec runs one command line. It returns false when the session should end.
// Match and player names are taken verbatim from the rest of the line.
func (s *session) exec(line string) bool {
	tokens := strings.Fields(line)
	cmd, args := tokens[0], tokens[1:]
	rest := strings.TrimSpace(line[len(cmd):])

	switch cmd {
	case "exit", "quit":
		return false
	case "help":
		s.help()
	case "files":
		s.files()
	case "use":
		if len(args) == 0 {
			cError.Fprintln(s.errOut, "usage: use <match>")
			return true
		}
		s.use(rest)
	case "players":
		s.players()
	case "player":
		if len(args) == 0 {
			cError.Fprintln(s.errOut, "usage: player <name>")
			return true
		}
		s.selectPlayer(rest)
	case "filter":
		s.setFilter(args)
	case "show":
		s.show()
	default:
		cWarn.Fprintf(s.errOut, "unknown command %q, type 'help'\n", cmd)
	}
	return true
}

func (s *session) help() {
	fmt.Fprintln(s.out)
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"files", "list match tables in the data directory"},
		{"use <match>", "load a match table"},
		{"players", "list the focus team's players"},
		{"player <name>", "select a player"},
		{"filter successful|progressive", "toggle a display filter"},
		{"filter none", "clear display filters"},
		{"show", "show the selected player's passes"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Fprint(s.out, "  ")
		cCmd.Fprintf(s.out, "%-32s", r.cmd)
		fmt.Fprintln(s.out, r.desc)
	}
	fmt.Fprintln(s.out)
}

func (s *session) files() {
	files, err := parser.ListMatchFiles(s.dataDir)
	if err != nil {
		cError.Fprintf(s.errOut, "error: %v\n", err)
		return
	}
	if len(files) == 0 {
		cMuted.Fprintf(s.out, "No match tables in %s.\n", s.dataDir)
		return
	}
	cHeader.Fprintln(s.out, "Match tables:")
	for _, f := range files {
		marker := " "
		if s.match != nil && s.match.Summary.FileName == f {
			marker = ">"
		}
		fmt.Fprintf(s.out, "%s %s\n", marker, parser.DisplayName(f))
	}
}

func (s *session) use(ref string) {
	match, err := loadMatch(s.db, s.mets, s.dataDir, ref)
	if noData(s.out, err) {
		return
	}
	if err != nil {
		cError.Fprintf(s.errOut, "error: %v\n", err)
		return
	}
	s.match = match
	s.pool = aggregator.SelectPool(match, s.team)
	s.player = ""
	report.PrintMatchSummary(s.out, match.Summary)
	if s.pool.Kind == aggregator.PoolAll && s.team != "" {
		cWarn.Fprintf(s.out, "No rows for %q, all players are selectable.\n", s.team)
	}
}

func (s *session) players() {
	if s.match == nil {
		cWarn.Fprintln(s.errOut, "no match selected, run 'use <match>' first")
		return
	}
	report.PrintRoster(s.out, s.pool, s.team, s.player)
}

func (s *session) selectPlayer(name string) {
	if s.match == nil {
		cWarn.Fprintln(s.errOut, "no match selected, run 'use <match>' first")
		return
	}
	for _, p := range s.pool.Roster() {
		if p == name {
			s.player = name
			return
		}
	}
	cError.Fprintf(s.errOut, "no player %q in this match, see 'players'\n", name)
}

func (s *session) setFilter(args []string) {
	for _, a := range args {
		switch a {
		case "successful":
			s.filter.SuccessfulOnly = !s.filter.SuccessfulOnly
		case "progressive":
			s.filter.ProgressiveOnly = !s.filter.ProgressiveOnly
		case "none":
			s.filter = aggregator.Filter{}
		default:
			cWarn.Fprintf(s.errOut, "unknown filter %q\n", a)
		}
	}
	fmt.Fprintf(s.out, "successful only: %v, progressive only: %v\n",
		s.filter.SuccessfulOnly, s.filter.ProgressiveOnly)
}

func (s *session) show() {
	if s.match == nil || s.player == "" {
		cWarn.Fprintln(s.errOut, "select a match and a player first ('use', 'player')")
		return
	}
	rep := analyze(s.mets, s.match, s.player, s.filter)
	fmt.Fprintln(s.out)
	cHeader.Fprintf(s.out, "--- %s ---\n", s.player)
	report.PrintReport(s.out, rep)
}
