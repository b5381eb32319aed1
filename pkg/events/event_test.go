package events

import (
	"context"
	"testing"
	"time"

	"marketforge-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewLaunchKitGenerated(t *testing.T) {
	at := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	kit := &entity.LaunchKit{
		ID:          uuid.MustParse("6f1c2a4e-9c1b-4f7e-8d2a-3b5c7e9f1a2b"),
		ProductIdea: "Barky",
		SocialPosts: []string{"a", "b"},
		Schedule:    []entity.ScheduleEntry{{Day: "Day 1", Time: "9:00 AM", Content: "a"}},
		GeneratedAt: at,
	}

	ev := NewLaunchKitGenerated(kit, true)
	assert.Equal(t, TypeLaunchKitGenerated, ev.EventType())
	assert.Equal(t, at, ev.Timestamp())
	assert.Equal(t, "6f1c2a4e-9c1b-4f7e-8d2a-3b5c7e9f1a2b", ev.Payload()["kit_id"])
	assert.Equal(t, 2, ev.Payload()["social_posts"])
	assert.Equal(t, true, ev.Payload()["used_document"])
}

func TestNewLaunchKitScheduled(t *testing.T) {
	ev := NewLaunchKitScheduled("kit-1", 4, 1, time.Unix(0, 0))
	assert.Equal(t, TypeLaunchKitScheduled, ev.EventType())
	assert.Equal(t, map[string]interface{}{"kit_id": "kit-1", "created": 4, "skipped": 1}, ev.Payload())
}

func TestNopPublisherAcceptsAnyEvent(t *testing.T) {
	var pub Publisher = NopPublisher{}
	assert.NoError(t, pub.Publish(context.Background(), NewLaunchKitScheduled("kit-1", 0, 0, time.Now())))
}
