package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	DefaultCalendarID = "primary"
	// EventsScope is the OAuth scope needed to create events.
	EventsScope = gcal.CalendarEventsScope
)

var (
	ErrUnauthorized = errors.New("google calendar: unauthorised (invalid or expired token)")
	ErrRateLimited  = errors.New("google calendar: rate limit exceeded")
)

// GoogleInserter creates events through the Calendar v3 API.
type GoogleInserter struct {
	service    *gcal.Service
	calendarID string
	timeZone   string
	limiter    *rate.Limiter
}

type GoogleOption func(*GoogleInserter)

func WithCalendarID(id string) GoogleOption {
	return func(g *GoogleInserter) {
		if id != "" {
			g.calendarID = id
		}
	}
}

func WithTimeZone(tz string) GoogleOption {
	return func(g *GoogleInserter) {
		if tz != "" {
			g.timeZone = tz
		}
	}
}

func WithRequestsPerSecond(rps float64) GoogleOption {
	return func(g *GoogleInserter) {
		if rps > 0 {
			g.limiter = rate.NewLimiter(rate.Limit(rps), 10)
		}
	}
}

// NewGoogleInserter builds an inserter authorised by ts.
func NewGoogleInserter(ctx context.Context, ts oauth2.TokenSource, opts ...GoogleOption) (*GoogleInserter, error) {
	svc, err := gcal.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return NewGoogleInserterWithService(svc, opts...), nil
}

func NewGoogleInserterWithService(svc *gcal.Service, opts ...GoogleOption) *GoogleInserter {
	g := &GoogleInserter{
		service:    svc,
		calendarID: DefaultCalendarID,
		timeZone:   "UTC",
		limiter:    rate.NewLimiter(rate.Limit(5), 10),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AccessTokenSource wraps a caller-supplied bearer token.
func AccessTokenSource(accessToken string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
}

func (g *GoogleInserter) Insert(ctx context.Context, ev Event) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	created, err := g.service.Events.Insert(g.calendarID, &gcal.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start: &gcal.EventDateTime{
			DateTime: ev.Start.Format(time.RFC3339),
			TimeZone: g.timeZone,
		},
		End: &gcal.EventDateTime{
			DateTime: ev.End.Format(time.RFC3339),
			TimeZone: g.timeZone,
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", wrapError(err)
	}
	return created.Id, nil
}

func wrapError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}
	switch gerr.Code {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	default:
		return err
	}
}
