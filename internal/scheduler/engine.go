// Package scheduler enumerates conflict-free section combinations and ranks them.
package scheduler

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/noah-isme/section-planner-api/internal/models"
)

// DefaultPoolMultiplier oversamples the requested number of options before scoring.
const DefaultPoolMultiplier = 3

// Scoring weights.
const (
	FreeDayBonus  = 10
	EarlyPenalty  = 5
	LatePenalty   = 5
	QuietDayBonus = 3
)

var (
	ErrEmptyCourse         = errors.New("course has no sections")
	ErrInvalidOptions      = errors.New("number of options must be at least 1")
	ErrTooManyCombinations = errors.New("too many section combinations")
)

// Options tune an Engine. A zero MaxCombinations disables the ceiling.
type Options struct {
	PoolMultiplier  int
	MaxCombinations int64
	Pairing         PairingMode
}

// Engine is stateless and safe for concurrent use.
type Engine struct {
	opts     Options
	detector Detector
}

// NewEngine applies defaults to opts.
func NewEngine(opts Options) *Engine {
	if opts.PoolMultiplier <= 0 {
		opts.PoolMultiplier = DefaultPoolMultiplier
	}
	if opts.MaxCombinations < 0 {
		opts.MaxCombinations = 0
	}
	return &Engine{opts: opts, detector: Detector{Mode: opts.Pairing}}
}

// Options returns the effective options.
func (e *Engine) Options() Options {
	return e.opts
}

// Detector returns the conflict detector used for the pairwise filter.
func (e *Engine) Detector() Detector {
	return e.detector
}

// Generate returns at most numOptions conflict-free candidates, best score first.
// Combinations are visited in course order with the last course varying fastest;
// enumeration stops once numOptions*PoolMultiplier valid combinations are found.
func (e *Engine) Generate(courses []models.Course, prefs models.Preferences, numOptions int) ([]models.ScheduleCandidate, error) {
	if len(courses) == 0 {
		return []models.ScheduleCandidate{}, nil
	}
	for _, course := range courses {
		if len(course.Sections) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyCourse, course.Code)
		}
	}
	if numOptions < 1 {
		return nil, ErrInvalidOptions
	}
	if e.opts.MaxCombinations > 0 {
		total, ok := CombinationCount(courses)
		if !ok || total > e.opts.MaxCombinations {
			return nil, fmt.Errorf("%w: %s exceeds limit of %d", ErrTooManyCombinations, describeCount(total, ok), e.opts.MaxCombinations)
		}
	}

	limit := math.MaxInt32
	if numOptions <= math.MaxInt32/e.opts.PoolMultiplier {
		limit = numOptions * e.opts.PoolMultiplier
	}

	pool := e.enumerate(courses, limit)
	if len(pool) == 0 {
		return []models.ScheduleCandidate{}, nil
	}

	candidates := make([]models.ScheduleCandidate, len(pool))
	for i, sections := range pool {
		stats := ComputeStats(sections)
		candidates[i] = models.ScheduleCandidate{
			Sections: sections,
			Stats:    stats,
			Score:    Score(sections, stats, prefs),
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > numOptions {
		candidates = candidates[:numOptions]
	}
	return candidates, nil
}

// enumerate walks the cartesian product depth-first and abandons a prefix as
// soon as its newest section clashes with an earlier one.
func (e *Engine) enumerate(courses []models.Course, limit int) [][]models.Section {
	n := len(courses)
	pool := make([][]models.Section, 0, minInt(limit, 64))
	chosen := make([]models.Section, n)

	var walk func(depth int) bool
	walk = func(depth int) bool {
		if depth == n {
			combo := make([]models.Section, n)
			copy(combo, chosen)
			pool = append(pool, combo)
			return len(pool) < limit
		}
		for _, section := range courses[depth].Sections {
			if e.clashesWith(chosen[:depth], section) {
				continue
			}
			chosen[depth] = section
			if !walk(depth + 1) {
				return false
			}
		}
		return true
	}
	walk(0)

	return pool
}

// clashesWith checks (earlier, candidate) pairs in that order.
func (e *Engine) clashesWith(prefix []models.Section, candidate models.Section) bool {
	for _, earlier := range prefix {
		if e.detector.Conflict(earlier, candidate) {
			return true
		}
	}
	return false
}

// HasConflict reports whether any pair of sections conflicts.
func (e *Engine) HasConflict(sections []models.Section) bool {
	for j := 1; j < len(sections); j++ {
		if e.clashesWith(sections[:j], sections[j]) {
			return true
		}
	}
	return false
}

// ComputeStats derives the day and credit statistics of a combination.
func ComputeStats(sections []models.Section) models.ScheduleStats {
	var used usedWeekdays
	credits := 0.0
	for _, s := range sections {
		used.add(s)
		credits += s.Credit
	}
	days := used.count()
	return models.ScheduleStats{
		FreeDays:        DaysInWeek - days,
		TotalCredits:    credits,
		DaysWithClasses: days,
		TotalCourses:    len(sections),
	}
}

// Score ranks a combination against the student's preferences.
func Score(sections []models.Section, stats models.ScheduleStats, prefs models.Preferences) int {
	score := 0
	if prefs.MaxFreeDays {
		score += stats.FreeDays * FreeDayBonus
	}
	if prefs.AvoidEarly {
		score -= CountEarly(sections) * EarlyPenalty
	}
	if prefs.AvoidLate {
		score -= CountLate(sections) * LatePenalty
	}
	score += (DaysInWeek - stats.DaysWithClasses) * QuietDayBonus
	return score
}

// CountEarly counts sections whose first meeting starts before 09:00.
func CountEarly(sections []models.Section) int {
	count := 0
	for _, s := range sections {
		start := ParseRange(s.Time1).Start
		if start > 0 && start < EarlyCutoff {
			count++
		}
	}
	return count
}

// CountLate counts sections whose first meeting ends after 17:00.
func CountLate(sections []models.Section) int {
	count := 0
	for _, s := range sections {
		if ParseRange(s.Time1).End > LateCutoff {
			count++
		}
	}
	return count
}

// CombinationCount returns the cartesian product size; ok is false on overflow.
func CombinationCount(courses []models.Course) (total int64, ok bool) {
	if len(courses) == 0 {
		return 0, true
	}
	total = 1
	for _, course := range courses {
		n := int64(len(course.Sections))
		if n == 0 {
			return 0, true
		}
		if total > math.MaxInt64/n {
			return math.MaxInt64, false
		}
		total *= n
	}
	return total, true
}

func describeCount(total int64, ok bool) string {
	if !ok {
		return "combination count overflows int64"
	}
	return fmt.Sprintf("%d combinations", total)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
