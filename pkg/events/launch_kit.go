package events

import (
	"time"

	"marketforge-be/internal/entity"
)

const (
	TypeLaunchKitGenerated = "LAUNCH_KIT_GENERATED"
	TypeLaunchKitScheduled = "LAUNCH_KIT_SCHEDULED"
)

func NewLaunchKitGenerated(kit *entity.LaunchKit, usedDocument bool) KitNotice {
	return KitNotice{
		Kind: TypeLaunchKitGenerated,
		Body: map[string]interface{}{
			"kit_id":         kit.ID.String(),
			"product_idea":   kit.ProductIdea,
			"social_posts":   len(kit.SocialPosts),
			"schedule_slots": len(kit.Schedule),
			"used_document":  usedDocument,
		},
		At: kit.GeneratedAt,
	}
}

func NewLaunchKitScheduled(kitID string, created, skipped int, at time.Time) KitNotice {
	return KitNotice{
		Kind: TypeLaunchKitScheduled,
		Body: map[string]interface{}{
			"kit_id":  kitID,
			"created": created,
			"skipped": skipped,
		},
		At: at,
	}
}
