package calendar

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"marketforge-be/internal/entity"
	"marketforge-be/internal/pkg/logger"
)

const (
	// LeadDays is the gap between "today" and Day 1.
	LeadDays       = 2
	EventDuration  = time.Hour
	summaryIdeaLen = 30
)

var (
	ErrBadDayLabel = errors.New("day label is not of the form \"Day N\"")
	ErrBadClock    = errors.New("unrecognised clock time")
)

var dayLabel = regexp.MustCompile(`(?i)^day\s*(\d+)$`)

var clockLayouts = []string{"3:04 PM", "3:04PM", "3 PM", "3PM", "15:04"}

// Event is a calendar entry ready to be created.
type Event struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// EventInserter creates events in an external calendar and returns the new event id.
type EventInserter interface {
	Insert(ctx context.Context, ev Event) (string, error)
}

type CreatedEvent struct {
	Day     string    `json:"day"`
	EventID string    `json:"event_id"`
	Start   time.Time `json:"start"`
}

type SkippedEntry struct {
	Day    string `json:"day"`
	Reason string `json:"reason"`
}

type Result struct {
	Created []CreatedEvent `json:"created"`
	Skipped []SkippedEntry `json:"skipped"`
}

type Scheduler struct {
	location *time.Location
	logger   logger.ILogger
}

// NewScheduler interprets clock times in loc (UTC when nil).
func NewScheduler(loc *time.Location, log logger.ILogger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Scheduler{location: loc, logger: log}
}

// Schedule creates one event per valid entry. Entries without time or
// content, or with labels that cannot be placed, are skipped. Duplicate
// day labels each get their own event. An inserter failure stops the run
// and returns what was created so far.
func (s *Scheduler) Schedule(ctx context.Context, inserter EventInserter, productIdea string, entries []entity.ScheduleEntry, today time.Time) (*Result, error) {
	result := &Result{Created: []CreatedEvent{}, Skipped: []SkippedEntry{}}
	summary := Summary(productIdea)

	for _, e := range entries {
		if strings.TrimSpace(e.Time) == "" || strings.TrimSpace(e.Content) == "" {
			s.skip(result, e.Day, "missing time or content")
			continue
		}

		start, err := StartTime(today, e.Day, e.Time, s.location)
		if err != nil {
			s.skip(result, e.Day, err.Error())
			continue
		}

		if err := ctx.Err(); err != nil {
			return result, err
		}
		id, err := inserter.Insert(ctx, Event{
			Summary:     summary,
			Description: e.Content,
			Start:       start,
			End:         start.Add(EventDuration),
		})
		if err != nil {
			s.logger.Error("CALENDAR", "Event creation failed", map[string]interface{}{
				"day":   e.Day,
				"error": err.Error(),
			})
			return result, fmt.Errorf("create event for %s: %w", e.Day, err)
		}
		result.Created = append(result.Created, CreatedEvent{Day: e.Day, EventID: id, Start: start})
	}

	s.logger.Info("CALENDAR", "Schedule pushed", map[string]interface{}{
		"created": len(result.Created),
		"skipped": len(result.Skipped),
	})
	return result, nil
}

func (s *Scheduler) skip(result *Result, day, reason string) {
	s.logger.Warn("CALENDAR", "Skipping schedule entry", map[string]interface{}{
		"day":    day,
		"reason": reason,
	})
	result.Skipped = append(result.Skipped, SkippedEntry{Day: day, Reason: reason})
}

// StartTime places "Day N" at today + LeadDays + (N-1) days, at the given clock time.
func StartTime(today time.Time, day, clock string, loc *time.Location) (time.Time, error) {
	n, err := DayNumber(day)
	if err != nil {
		return time.Time{}, err
	}
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}

	t := today.In(loc)
	base := time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, loc)
	return base.AddDate(0, 0, LeadDays+n-1), nil
}

func DayNumber(label string) (int, error) {
	m := dayLabel.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrBadDayLabel, label)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", ErrBadDayLabel, label)
	}
	return n, nil
}

// ParseClock accepts "9:00 AM", "9:00am", "9 PM" and "21:00".
func ParseClock(s string) (hour, minute int, err error) {
	v := strings.ToUpper(strings.Join(strings.Fields(s), " "))
	v = strings.ReplaceAll(v, ".", "")
	for _, layout := range clockLayouts {
		if t, perr := time.Parse(layout, v); perr == nil {
			return t.Hour(), t.Minute(), nil
		}
	}
	return 0, 0, fmt.Errorf("%w: %q", ErrBadClock, s)
}

// Summary is the event title: "Social Post: <first 30 chars of idea>...".
func Summary(idea string) string {
	r := []rune(strings.TrimSpace(idea))
	if len(r) > summaryIdeaLen {
		r = r[:summaryIdeaLen]
	}
	return fmt.Sprintf("Social Post: %s...", string(r))
}
