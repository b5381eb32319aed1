package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"marketforge-be/internal/dto"
	"marketforge-be/internal/entity"
	"marketforge-be/internal/mapper"
	"marketforge-be/internal/pkg/logger"
	"marketforge-be/internal/repository/memory"
	"marketforge-be/pkg/calendar"
	"marketforge-be/pkg/document"
	"marketforge-be/pkg/embedding"
	"marketforge-be/pkg/events"
	"marketforge-be/pkg/rag/index"

	"github.com/google/uuid"
)

// DefaultRecentLimit bounds Recent when the caller passes no limit.
const DefaultRecentLimit = 20

var (
	ErrLaunchKitNotFound  = errors.New("launch kit not found or expired")
	ErrNothingToSchedule  = errors.New("request has no schedule and names no stored kit")
	ErrMissingProductIdea = errors.New("product idea is required to title calendar events")
)

type ILaunchKitService interface {
	Generate(ctx context.Context, req *dto.GenerateLaunchKitRequest) (*dto.GenerateLaunchKitResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.GenerateLaunchKitResponse, error)
	Recent(ctx context.Context, limit int) ([]*dto.GenerateLaunchKitResponse, error)
	Schedule(ctx context.Context, req *dto.ScheduleLaunchKitRequest) (*dto.ScheduleLaunchKitResponse, error)
}

// KitGenerator is implemented by *pipeline.LaunchKitPipeline.
type KitGenerator interface {
	Generate(ctx context.Context, productIdea string, idx *index.Index) (*entity.LaunchKit, error)
}

// InserterFactory builds a calendar client for one caller's access token.
type InserterFactory func(ctx context.Context, accessToken string) (calendar.EventInserter, error)

type launchKitService struct {
	generator   KitGenerator
	loader      document.Loader
	embedder    embedding.EmbeddingProvider
	scheduler   *calendar.Scheduler
	newInserter InserterFactory
	publisher   events.Publisher
	kits        *memory.LaunchKitRepository
	mapper      *mapper.LaunchKitMapper
	logger      logger.ILogger
	now         func() time.Time
}

func NewLaunchKitService(
	generator KitGenerator,
	loader document.Loader,
	embedder embedding.EmbeddingProvider,
	scheduler *calendar.Scheduler,
	newInserter InserterFactory,
	publisher events.Publisher,
	kits *memory.LaunchKitRepository,
	logger logger.ILogger,
) ILaunchKitService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &launchKitService{
		generator:   generator,
		loader:      loader,
		embedder:    embedder,
		scheduler:   scheduler,
		newInserter: newInserter,
		publisher:   publisher,
		kits:        kits,
		mapper:      mapper.NewLaunchKitMapper(),
		logger:      logger,
		now:         time.Now,
	}
}

func (s *launchKitService) Generate(ctx context.Context, req *dto.GenerateLaunchKitRequest) (*dto.GenerateLaunchKitResponse, error) {
	var idx *index.Index
	if req.Document != nil {
		idx = s.buildIndex(ctx, req.Document)
	}

	kit, err := s.generator.Generate(ctx, req.ProductIdea, idx)
	if err != nil {
		return nil, err
	}

	if s.kits != nil {
		s.kits.Save(kit, idx != nil)
	}

	if err := s.publisher.Publish(ctx, events.NewLaunchKitGenerated(kit, idx != nil)); err != nil {
		s.logger.Warn("LAUNCH_KIT", "Failed to publish event", map[string]interface{}{
			"kit_id": kit.ID.String(),
			"error":  err.Error(),
		})
	}

	return s.mapper.ToGenerateResponse(kit, idx != nil), nil
}

// buildIndex never fails the request: without an index the research
// agent simply gets no document tool.
func (s *launchKitService) buildIndex(ctx context.Context, doc *dto.UploadedDocument) *index.Index {
	mediaType := document.ResolveMediaType(doc.Filename, doc.ContentType)
	segments, err := s.loader.Load(ctx, doc.Filename, mediaType, doc.Data)
	if err != nil {
		s.logger.Warn("INDEX", "Document could not be read, continuing without retrieval", map[string]interface{}{
			"filename": doc.Filename,
			"error":    err.Error(),
		})
		return nil
	}

	passages := document.SplitPassages(segments, document.DefaultChunkSize, document.DefaultChunkOverlap)
	idx, err := index.Build(ctx, s.embedder, passages)
	if err != nil {
		s.logger.Warn("INDEX", "Document index unavailable, continuing without retrieval", map[string]interface{}{
			"filename":   doc.Filename,
			"media_type": string(mediaType),
			"error":      err.Error(),
		})
		return nil
	}

	s.logger.Info("INDEX", "Document indexed", map[string]interface{}{
		"filename": doc.Filename,
		"passages": idx.Len(),
	})
	return idx
}

func (s *launchKitService) Show(ctx context.Context, id uuid.UUID) (*dto.GenerateLaunchKitResponse, error) {
	stored, err := s.stored(id)
	if err != nil {
		return nil, err
	}
	return s.mapper.ToGenerateResponse(stored.Kit, stored.UsedDocument), nil
}

func (s *launchKitService) Recent(ctx context.Context, limit int) ([]*dto.GenerateLaunchKitResponse, error) {
	out := make([]*dto.GenerateLaunchKitResponse, 0)
	if s.kits == nil {
		return out, nil
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	for _, stored := range s.kits.Recent(limit) {
		out = append(out, s.mapper.ToGenerateResponse(stored.Kit, stored.UsedDocument))
	}
	return out, nil
}

func (s *launchKitService) Schedule(ctx context.Context, req *dto.ScheduleLaunchKitRequest) (*dto.ScheduleLaunchKitResponse, error) {
	productIdea, entries, err := s.scheduleInput(req)
	if err != nil {
		return nil, err
	}

	inserter, err := s.newInserter(ctx, req.AccessToken)
	if err != nil {
		return nil, err
	}

	res, err := s.scheduler.Schedule(ctx, inserter, productIdea, entries, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events.NewLaunchKitScheduled(req.KitId, len(res.Created), len(res.Skipped), s.now())); err != nil {
		s.logger.Warn("LAUNCH_KIT", "Failed to publish event", map[string]interface{}{
			"kit_id": req.KitId,
			"error":  err.Error(),
		})
	}

	return s.mapper.ToScheduleResponse(res), nil
}

// scheduleInput fills a missing schedule or product idea from the stored
// kit named by req.KitId. Values sent in the request take precedence.
func (s *launchKitService) scheduleInput(req *dto.ScheduleLaunchKitRequest) (string, []entity.ScheduleEntry, error) {
	productIdea := strings.TrimSpace(req.ProductIdea)
	entries := s.mapper.ToScheduleEntries(req.Schedule)

	if req.KitId != "" && (productIdea == "" || len(entries) == 0) {
		id, err := uuid.Parse(req.KitId)
		if err != nil {
			return "", nil, ErrLaunchKitNotFound
		}
		stored, err := s.stored(id)
		if err != nil {
			return "", nil, err
		}
		if productIdea == "" {
			productIdea = stored.Kit.ProductIdea
		}
		if len(entries) == 0 {
			entries = stored.Kit.Schedule
		}
	}

	if len(entries) == 0 {
		return "", nil, ErrNothingToSchedule
	}
	if productIdea == "" {
		return "", nil, ErrMissingProductIdea
	}
	return productIdea, entries, nil
}

func (s *launchKitService) stored(id uuid.UUID) (*memory.StoredKit, error) {
	if s.kits == nil {
		return nil, ErrLaunchKitNotFound
	}
	stored, ok := s.kits.Get(id)
	if !ok {
		return nil, ErrLaunchKitNotFound
	}
	return stored, nil
}
