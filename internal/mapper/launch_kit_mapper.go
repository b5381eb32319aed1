package mapper

import (
	"strings"

	"marketforge-be/internal/dto"
	"marketforge-be/internal/entity"
	"marketforge-be/pkg/calendar"
)

type LaunchKitMapper struct{}

func NewLaunchKitMapper() *LaunchKitMapper {
	return &LaunchKitMapper{}
}

func (m *LaunchKitMapper) ToGenerateResponse(kit *entity.LaunchKit, usedDocument bool) *dto.GenerateLaunchKitResponse {
	if kit == nil {
		return nil
	}
	posts := kit.SocialPosts
	if posts == nil {
		posts = []string{}
	}
	schedule := kit.Schedule
	if schedule == nil {
		schedule = []entity.ScheduleEntry{}
	}
	return &dto.GenerateLaunchKitResponse{
		Id:             kit.ID,
		MarketAnalysis: kit.MarketAnalysis,
		ProductCopy:    kit.ProductCopy,
		AdCopy:         kit.AdCopy,
		SocialPosts:    posts,
		Schedule:       schedule,
		UsedDocument:   usedDocument,
		GeneratedAt:    kit.GeneratedAt,
	}
}

// ToScheduleEntries trims incoming entries; blanks are left for the
// calendar scheduler to skip.
func (m *LaunchKitMapper) ToScheduleEntries(in []dto.ScheduleEntryRequest) []entity.ScheduleEntry {
	out := make([]entity.ScheduleEntry, 0, len(in))
	for _, e := range in {
		out = append(out, entity.ScheduleEntry{
			Day:     strings.TrimSpace(e.Day),
			Time:    strings.TrimSpace(e.Time),
			Content: strings.TrimSpace(e.Content),
		})
	}
	return out
}

func (m *LaunchKitMapper) ToScheduleResponse(res *calendar.Result) *dto.ScheduleLaunchKitResponse {
	out := &dto.ScheduleLaunchKitResponse{
		Created: make([]dto.ScheduledEventResponse, 0),
		Skipped: make([]dto.SkippedEntryResponse, 0),
	}
	if res == nil {
		return out
	}
	for _, c := range res.Created {
		out.Created = append(out.Created, dto.ScheduledEventResponse{Day: c.Day, EventId: c.EventID, Start: c.Start})
	}
	for _, s := range res.Skipped {
		out.Skipped = append(out.Skipped, dto.SkippedEntryResponse{Day: s.Day, Reason: s.Reason})
	}
	return out
}
