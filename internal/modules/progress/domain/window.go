package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "agencycheck/internal/platform/errors"
)

type WindowMode string

const (
	ModeLast7Days    WindowMode = "last7days"
	ModeLast30Days   WindowMode = "last30days"
	ModeLastYear     WindowMode = "lastYear"
	ModeTrainingYear WindowMode = "trainingYear"
	ModeAll          WindowMode = "all"
	ModeCustom       WindowMode = "custom"
)

var rollingDays = map[WindowMode]int{
	ModeLast7Days:  7,
	ModeLast30Days: 30,
	ModeLastYear:   365,
}

func WindowModes() []WindowMode {
	return []WindowMode{ModeLast7Days, ModeLast30Days, ModeLastYear, ModeTrainingYear, ModeAll, ModeCustom}
}

// ParseWindowMode is used at the edges; the resolver itself never rejects a mode.
func ParseWindowMode(raw string) (WindowMode, error) {
	for _, mode := range WindowModes() {
		if strings.EqualFold(strings.TrimSpace(raw), string(mode)) {
			return mode, nil
		}
	}
	return "", fmt.Errorf("%w: %w: unknown window %q", apperrors.ErrInvalidInput, apperrors.ErrInvalidWindow, raw)
}

// WindowSpec is what a caller asks for. Start and End are only read for custom.
type WindowSpec struct {
	Mode  WindowMode
	Start *time.Time
	End   *time.Time
}

// ResolvedWindow holds inclusive bounds. Nil bounds mean no filtering.
type ResolvedWindow struct {
	Mode     WindowMode
	Label    string
	Start    *time.Time
	End      *time.Time
	Fallback bool
}

func (w ResolvedWindow) Bounded() bool {
	return w.Start != nil && w.End != nil
}

func (w ResolvedWindow) Contains(t time.Time) bool {
	if !w.Bounded() {
		return true
	}
	return !t.Before(*w.Start) && !t.After(*w.End)
}

// ResolveWindow turns a mode into concrete bounds relative to now. Rolling
// windows end with the current day; the training year runs August 1 through
// July 31. A custom window with missing or inverted bounds is unbounded and
// flagged as a fallback.
func ResolveWindow(spec WindowSpec, now time.Time) ResolvedWindow {
	switch spec.Mode {
	case ModeLast7Days, ModeLast30Days, ModeLastYear:
		start := now.AddDate(0, 0, -rollingDays[spec.Mode])
		end := endOfDay(now)
		return ResolvedWindow{Mode: spec.Mode, Label: rollingLabel(spec.Mode), Start: &start, End: &end}
	case ModeTrainingYear:
		startYear := now.Year()
		if now.Month() < time.August {
			startYear--
		}
		start := time.Date(startYear, time.August, 1, 0, 0, 0, 0, now.Location())
		end := endOfDay(time.Date(startYear+1, time.July, 31, 0, 0, 0, 0, now.Location()))
		return ResolvedWindow{Mode: spec.Mode, Label: fmt.Sprintf("%d/%d", startYear, startYear+1), Start: &start, End: &end}
	case ModeCustom:
		if spec.Start == nil || spec.End == nil || spec.Start.After(*spec.End) {
			return ResolvedWindow{Mode: ModeCustom, Label: "all", Fallback: true}
		}
		start, end := *spec.Start, *spec.End
		return ResolvedWindow{
			Mode:  ModeCustom,
			Label: start.Format(time.DateOnly) + ".." + end.Format(time.DateOnly),
			Start: &start,
			End:   &end,
		}
	default:
		return ResolvedWindow{Mode: ModeAll, Label: "all"}
	}
}

func rollingLabel(mode WindowMode) string {
	switch mode {
	case ModeLast7Days:
		return "last 7 days"
	case ModeLast30Days:
		return "last 30 days"
	default:
		return "last 365 days"
	}
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
