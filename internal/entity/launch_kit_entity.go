package entity

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleEntry is one delivered calendar slot. All fields are non-empty.
type ScheduleEntry struct {
	Day     string `json:"day"`
	Time    string `json:"time"`
	Content string `json:"content"`
}

type LaunchKit struct {
	ID             uuid.UUID       `json:"id"`
	ProductIdea    string          `json:"product_idea"`
	MarketAnalysis string          `json:"market_analysis"`
	ProductCopy    string          `json:"product_copy"`
	AdCopy         string          `json:"ad_copy"`
	SocialPosts    []string        `json:"social_posts"`
	Schedule       []ScheduleEntry `json:"schedule"`
	GeneratedAt    time.Time       `json:"generated_at"`
}
