package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketforge-be/internal/dto"
	"marketforge-be/internal/entity"
	"marketforge-be/internal/pkg/logger"
	"marketforge-be/internal/repository/memory"
	"marketforge-be/pkg/calendar"
	"marketforge-be/pkg/document"
	"marketforge-be/pkg/embedding"
	"marketforge-be/pkg/events"
	"marketforge-be/pkg/rag/index"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	gotIdea  string
	gotIndex *index.Index
	err      error
}

func (f *fakeGenerator) Generate(_ context.Context, idea string, idx *index.Index) (*entity.LaunchKit, error) {
	f.gotIdea, f.gotIndex = idea, idx
	if f.err != nil {
		return nil, f.err
	}
	return &entity.LaunchKit{
		ID:             uuid.New(),
		ProductIdea:    idea,
		MarketAnalysis: "Target Audience: dog owners",
		ProductCopy:    "copy",
		AdCopy:         "ad",
		SocialPosts:    []string{"p1"},
		Schedule:       []entity.ScheduleEntry{{Day: "Day 1", Time: "9:00 AM", Content: "p1"}},
		GeneratedAt:    time.Now().UTC(),
	}, nil
}

type flatEmbedder struct{}

func (flatEmbedder) Generate(context.Context, string, string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{1, 0}}}, nil
}

type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.events = append(p.events, ev)
	return p.err
}

type recordingInserter struct{ events []calendar.Event }

func (r *recordingInserter) Insert(_ context.Context, ev calendar.Event) (string, error) {
	r.events = append(r.events, ev)
	return "evt", nil
}

func newService(gen KitGenerator, pub events.Publisher, ins calendar.EventInserter) *launchKitService {
	s := NewLaunchKitService(
		gen,
		document.NewFileLoader(),
		flatEmbedder{},
		calendar.NewScheduler(time.UTC, nil),
		func(context.Context, string) (calendar.EventInserter, error) { return ins, nil },
		pub,
		memory.NewLaunchKitRepository(time.Minute),
		logger.NewNopLogger(),
	).(*launchKitService)
	s.now = func() time.Time { return time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC) }
	return s
}

func TestGenerateWithoutDocument(t *testing.T) {
	gen := &fakeGenerator{}
	pub := &recordingPublisher{}

	res, err := newService(gen, pub, nil).Generate(context.Background(), &dto.GenerateLaunchKitRequest{ProductIdea: "Barky"})
	require.NoError(t, err)
	assert.Nil(t, gen.gotIndex)
	assert.False(t, res.UsedDocument)
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TypeLaunchKitGenerated, pub.events[0].EventType())
}

func TestGenerateIndexesTextDocument(t *testing.T) {
	gen := &fakeGenerator{}

	res, err := newService(gen, nil, nil).Generate(context.Background(), &dto.GenerateLaunchKitRequest{
		ProductIdea: "Barky",
		Document:    &dto.UploadedDocument{Filename: "brief.txt", ContentType: "text/plain", Data: []byte("Battery lasts 7 days.")},
	})
	require.NoError(t, err)
	require.NotNil(t, gen.gotIndex)
	assert.Equal(t, 1, gen.gotIndex.Len())
	assert.True(t, res.UsedDocument)
}

func TestGenerateUnusableDocumentIsNotFatal(t *testing.T) {
	tests := []struct {
		name string
		doc  *dto.UploadedDocument
	}{
		{name: "unsupported type", doc: &dto.UploadedDocument{Filename: "pic.png", ContentType: "image/png", Data: []byte{1, 2}}},
		{name: "empty text", doc: &dto.UploadedDocument{Filename: "empty.txt", ContentType: "text/plain", Data: []byte("  ")}},
		{name: "broken docx", doc: &dto.UploadedDocument{Filename: "x.docx", Data: []byte("nope")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{}
			res, err := newService(gen, nil, nil).Generate(context.Background(), &dto.GenerateLaunchKitRequest{ProductIdea: "Barky", Document: tt.doc})
			require.NoError(t, err)
			assert.Nil(t, gen.gotIndex)
			assert.False(t, res.UsedDocument)
		})
	}
}

func TestGeneratePropagatesPipelineError(t *testing.T) {
	boom := errors.New("research failed")
	pub := &recordingPublisher{}

	_, err := newService(&fakeGenerator{err: boom}, pub, nil).Generate(context.Background(), &dto.GenerateLaunchKitRequest{ProductIdea: "Barky"})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, pub.events)
}

func TestGeneratePublishFailureIsIgnored(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("nats down")}

	_, err := newService(&fakeGenerator{}, pub, nil).Generate(context.Background(), &dto.GenerateLaunchKitRequest{ProductIdea: "Barky"})
	assert.NoError(t, err)
}

func TestSchedule(t *testing.T) {
	ins := &recordingInserter{}
	pub := &recordingPublisher{}

	res, err := newService(&fakeGenerator{}, pub, ins).Schedule(context.Background(), &dto.ScheduleLaunchKitRequest{
		KitId:       "kit-1",
		ProductIdea: "Barky",
		AccessToken: "ya29.token",
		Schedule: []dto.ScheduleEntryRequest{
			{Day: "Day 1", Time: "9:00 AM", Content: "Meet Barky"},
			{Day: "Day 2", Time: "", Content: "no time"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, res.Created, 1)
	assert.Len(t, res.Skipped, 1)
	require.Len(t, ins.events, 1)
	assert.Equal(t, time.Date(2026, time.March, 12, 9, 0, 0, 0, time.UTC), ins.events[0].Start)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TypeLaunchKitScheduled, pub.events[0].EventType())
	assert.Equal(t, "kit-1", pub.events[0].Payload()["kit_id"])
}

func TestShowReturnsStoredKit(t *testing.T) {
	svc := newService(&fakeGenerator{}, nil, nil)

	generated, err := svc.Generate(context.Background(), &dto.GenerateLaunchKitRequest{ProductIdea: "Barky"})
	require.NoError(t, err)

	shown, err := svc.Show(context.Background(), generated.Id)
	require.NoError(t, err)
	assert.Equal(t, generated, shown)

	_, err = svc.Show(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrLaunchKitNotFound)
}

func TestScheduleInserterFactoryError(t *testing.T) {
	svc := newService(&fakeGenerator{}, nil, nil)
	boom := errors.New("bad token")
	svc.newInserter = func(context.Context, string) (calendar.EventInserter, error) { return nil, boom }

	_, err := svc.Schedule(context.Background(), &dto.ScheduleLaunchKitRequest{
		ProductIdea: "Barky",
		AccessToken: "x",
		Schedule:    []dto.ScheduleEntryRequest{{Day: "Day 1", Time: "9:00 AM", Content: "hi"}},
	})
	assert.ErrorIs(t, err, boom)
}

func TestScheduleStoredKitById(t *testing.T) {
	ins := &recordingInserter{}
	svc := newService(&fakeGenerator{}, nil, ins)

	generated, err := svc.Generate(context.Background(), &dto.GenerateLaunchKitRequest{ProductIdea: "Barky"})
	require.NoError(t, err)

	res, err := svc.Schedule(context.Background(), &dto.ScheduleLaunchKitRequest{
		KitId:       generated.Id.String(),
		AccessToken: "ya29.token",
	})
	require.NoError(t, err)
	require.Len(t, res.Created, 1)
	assert.Equal(t, "Day 1", res.Created[0].Day)
	require.Len(t, ins.events, 1)
	assert.Equal(t, "p1", ins.events[0].Description)
	assert.Equal(t, "Social Post: Barky...", ins.events[0].Summary)
}

func TestScheduleInputErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     *dto.ScheduleLaunchKitRequest
		wantErr error
	}{
		{
			name:    "unknown kit",
			req:     &dto.ScheduleLaunchKitRequest{KitId: uuid.NewString(), AccessToken: "x"},
			wantErr: ErrLaunchKitNotFound,
		},
		{
			name:    "nothing to schedule",
			req:     &dto.ScheduleLaunchKitRequest{ProductIdea: "Barky", AccessToken: "x"},
			wantErr: ErrNothingToSchedule,
		},
		{
			name: "entries without idea or kit",
			req: &dto.ScheduleLaunchKitRequest{
				AccessToken: "x",
				Schedule:    []dto.ScheduleEntryRequest{{Day: "Day 1", Time: "9:00 AM", Content: "hi"}},
			},
			wantErr: ErrMissingProductIdea,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins := &recordingInserter{}
			_, err := newService(&fakeGenerator{}, nil, ins).Schedule(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, ins.events)
		})
	}
}

func TestRecentListsGeneratedKits(t *testing.T) {
	svc := newService(&fakeGenerator{}, nil, nil)

	for _, idea := range []string{"Barky", "Meowy"} {
		_, err := svc.Generate(context.Background(), &dto.GenerateLaunchKitRequest{ProductIdea: idea})
		require.NoError(t, err)
	}

	all, err := svc.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := svc.Recent(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}
