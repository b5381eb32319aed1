package dto

import (
	"time"

	"marketforge-be/internal/entity"

	"github.com/google/uuid"
)

// UploadedDocument is the optional grounding file sent with a generate request.
type UploadedDocument struct {
	Filename    string
	ContentType string
	Data        []byte
}

type GenerateLaunchKitRequest struct {
	ProductIdea string            `json:"product_idea" form:"product_idea" validate:"required,notblank,max=2000"`
	Document    *UploadedDocument `json:"-" form:"-"`
}

type GenerateLaunchKitResponse struct {
	Id             uuid.UUID              `json:"id"`
	MarketAnalysis string                 `json:"market_analysis"`
	ProductCopy    string                 `json:"product_copy"`
	AdCopy         string                 `json:"ad_copy"`
	SocialPosts    []string               `json:"social_posts"`
	Schedule       []entity.ScheduleEntry `json:"schedule"`
	UsedDocument   bool                   `json:"used_document"`
	GeneratedAt    time.Time              `json:"generated_at"`
}

type ScheduleEntryRequest struct {
	Day     string `json:"day" validate:"required"`
	Time    string `json:"time"`
	Content string `json:"content"`
}

// ScheduleLaunchKitRequest schedules either the entries it carries or, when
// they are omitted, the stored kit named by KitId.
type ScheduleLaunchKitRequest struct {
	KitId       string                 `json:"kit_id" validate:"omitempty,uuid"`
	ProductIdea string                 `json:"product_idea" validate:"max=2000"`
	Schedule    []ScheduleEntryRequest `json:"schedule" validate:"omitempty,dive"`
	AccessToken string                 `json:"access_token" validate:"required"`
}

type ScheduledEventResponse struct {
	Day     string    `json:"day"`
	EventId string    `json:"event_id"`
	Start   time.Time `json:"start"`
}

type SkippedEntryResponse struct {
	Day    string `json:"day"`
	Reason string `json:"reason"`
}

type ScheduleLaunchKitResponse struct {
	Created []ScheduledEventResponse `json:"created"`
	Skipped []SkippedEntryResponse   `json:"skipped"`
}
