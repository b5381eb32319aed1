package nats

import (
	"testing"

	"marketforge-be/pkg/events"

	"github.com/stretchr/testify/assert"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "launchkit.LAUNCH_KIT_GENERATED", Subject(events.TypeLaunchKitGenerated))
	assert.Equal(t, "launchkit.LAUNCH_KIT_SCHEDULED", Subject(events.TypeLaunchKitScheduled))
}
