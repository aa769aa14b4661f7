package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/section-planner-api/internal/models"
	"github.com/noah-isme/section-planner-api/internal/scheduler"
	"github.com/noah-isme/section-planner-api/internal/service"
	"github.com/noah-isme/section-planner-api/pkg/export"
)

type generateOptions struct {
	courses         []string
	options         int
	prefs           models.Preferences
	pairing         string
	maxCombinations int64
	poolMultiplier  int
	format          string
}

// optionRow is one section of one ranked option in --format csv output.
type optionRow struct {
	Option  int    `csv:"option"`
	Score   int    `csv:"score"`
	Course  string `csv:"course_code"`
	Section string `csv:"section"`
	Day1    string `csv:"day1"`
	Time1   string `csv:"time1"`
	Day2    string `csv:"day2"`
	Time2   string `csv:"time2"`
	Faculty string `csv:"faculty"`
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print ranked conflict-free schedules for the given courses",
		Example: "  planner generate --sections offerings.csv --course CSE1111 --course MAT2105 --options 5 --avoid-early",
		RunE: func(cmd *cobra.Command, args []string) error {
			sections, err := root.loadSheet()
			if err != nil {
				return err
			}
			return runGenerate(cmd.OutOrStdout(), root.log, sections, opts)
		},
	}
	f := cmd.Flags()
	f.StringArrayVarP(&opts.courses, "course", "c", nil, "course code, repeat in priority order")
	f.IntVarP(&opts.options, "options", "n", 5, "number of schedules to print")
	f.BoolVar(&opts.prefs.MaxFreeDays, "max-free-days", false, "prefer schedules with more free days")
	f.BoolVar(&opts.prefs.AvoidEarly, "avoid-early", false, "penalise classes starting before 9 AM")
	f.BoolVar(&opts.prefs.AvoidLate, "avoid-late", false, "penalise classes ending after 5 PM")
	f.StringVar(&opts.pairing, "pairing", "positional", "meeting comparison: positional or cross")
	f.Int64Var(&opts.maxCombinations, "max-combinations", 2000000, "refuse inputs with more combinations, 0 disables")
	f.IntVar(&opts.poolMultiplier, "pool-multiplier", 3, "valid combinations collected per requested option")
	f.StringVar(&opts.format, "format", "table", "output format: table or csv")
	_ = cmd.MarkFlagRequired("course")
	return cmd
}

func runGenerate(out io.Writer, log *zap.Logger, sections []models.Section, opts *generateOptions) error {
	if opts.options < 1 {
		return fmt.Errorf("--options must be at least 1")
	}
	if opts.format == "" {
		opts.format = "table"
	}
	if opts.format != "table" && opts.format != "csv" {
		return fmt.Errorf("unknown --format %q, want table or csv", opts.format)
	}
	pairing, err := scheduler.ParsePairingMode(opts.pairing)
	if err != nil {
		return err
	}

	codes := make([]string, 0, len(opts.courses))
	seen := make(map[string]struct{}, len(opts.courses))
	for _, raw := range opts.courses {
		code := strings.ToUpper(strings.TrimSpace(raw))
		if _, dup := seen[code]; dup || code == "" {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	courses, err := service.GroupSections(codes, sections)
	if err != nil {
		return err
	}

	engine := scheduler.NewEngine(scheduler.Options{
		PoolMultiplier:  opts.poolMultiplier,
		MaxCombinations: opts.maxCombinations,
		Pairing:         pairing,
	})
	candidates, err := engine.Generate(courses, opts.prefs, opts.options)
	if err != nil {
		return err
	}
	total, _ := scheduler.CombinationCount(courses)
	log.Info("schedules generated", zap.Int("courses", len(courses)), zap.Int("options", len(candidates)), zap.Int64("combinations", total))

	if opts.format == "csv" {
		return writeCandidatesCSV(out, candidates)
	}
	if len(candidates) == 0 {
		fmt.Fprintln(out, "No conflict-free schedule exists for these courses.")
		return nil
	}
	for i, candidate := range candidates {
		printCandidate(out, i+1, candidate)
	}
	return nil
}

func writeCandidatesCSV(out io.Writer, candidates []models.ScheduleCandidate) error {
	rows := make([]optionRow, 0)
	for i, c := range candidates {
		for _, s := range c.Sections {
			faculty := s.FacultyName
			if faculty == "" {
				faculty = s.FacultyInitial
			}
			rows = append(rows, optionRow{
				Option:  i + 1,
				Score:   c.Score,
				Course:  s.CourseCode,
				Section: s.SectionLabel,
				Day1:    s.Day1,
				Time1:   s.Time1,
				Day2:    s.Day2,
				Time2:   s.Time2,
				Faculty: faculty,
			})
		}
	}
	payload, err := export.MarshalRecords(rows)
	if err != nil {
		return err
	}
	_, err = out.Write(payload)
	return err
}

func printCandidate(out io.Writer, rank int, c models.ScheduleCandidate) {
	fmt.Fprintf(out, "Option %d  score %d  credits %.1f  free days %d\n", rank, c.Score, c.Stats.TotalCredits, c.Stats.FreeDays)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COURSE\tSECTION\tDAYS\tTIME 1\tTIME 2\tFACULTY")
	for _, s := range c.Sections {
		days := s.Day1
		if s.Day2 != "" {
			days += "/" + s.Day2
		}
		faculty := s.FacultyName
		if faculty == "" {
			faculty = s.FacultyInitial
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", s.CourseCode, s.SectionLabel, days, s.Time1, dash(s.Time2), dash(faculty))
	}
	_ = tw.Flush()
	fmt.Fprintln(out)
}

func dash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}
