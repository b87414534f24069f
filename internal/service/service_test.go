package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"krishiconnect/internal/model"
	"krishiconnect/internal/queue"
	"krishiconnect/internal/repository"
)

// recordingPublisher captures published events in order.
type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.ContentEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, stream string, event queue.ContentEvent) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	p.events = append(p.events, event)
	return "1-0", nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	store      *repository.MemoryContentStore
	registry   *repository.MemoryReportRegistry
	publisher  *recordingPublisher
	posts      *PostService
	comments   *CommentService
	engagement *EngagementService
	reports    *ReportService
	moderation *ModerationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := func() func() time.Time {
		var mu sync.Mutex
		now := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
		return func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			now = now.Add(time.Minute)
			return now
		}
	}()

	store := repository.NewContentStore(clock)
	registry := repository.NewReportRegistry(clock)
	pub := &recordingPublisher{}

	return &fixture{
		store:      store,
		registry:   registry,
		publisher:  pub,
		posts:      NewPostService(store, pub),
		comments:   NewCommentService(store),
		engagement: NewEngagementService(store),
		reports:    NewReportService(registry, store, pub),
		moderation: NewModerationService(registry, store, pub),
	}
}

var (
	farmer   = model.AuthorInfo{ID: "u-farmer", Name: "Ravi", Role: model.RoleFarmer}
	expert   = model.AuthorInfo{ID: "u-expert", Name: "Dr. Mehta", Role: model.RoleExpert, Verified: true}
	customer = model.Actor{ID: "u-customer", Name: "Asha", Role: model.RoleCustomer}
	admin    = model.Actor{ID: "u-admin", Name: "Mod", Role: model.RoleAdmin}
)

func actorOf(a model.AuthorInfo) model.Actor {
	return model.Actor{ID: a.ID, Name: a.Name, Role: a.Role}
}

func (f *fixture) createPost(t *testing.T, author model.AuthorInfo, content string) *model.Post {
	t.Helper()
	post, err := f.posts.Create(context.Background(), author, model.CreatePostRequest{Content: content})
	require.NoError(t, err)
	return post
}

func (f *fixture) createComment(t *testing.T, postID int64, author model.AuthorInfo, content string) *model.Comment {
	t.Helper()
	c, err := f.comments.Create(context.Background(), postID, author, model.CreateCommentRequest{Content: content})
	require.NoError(t, err)
	return c
}

func (f *fixture) fileReport(t *testing.T, req model.CreateReportRequest) *model.Report {
	t.Helper()
	r, err := f.reports.Create(context.Background(), req, customer)
	require.NoError(t, err)
	return r
}

func postReport(postID int64) model.CreateReportRequest {
	return model.CreateReportRequest{Kind: model.ReportKindPost, ContentID: postID, Reason: model.ReasonSpam}
}

func commentReport(postID, commentID int64) model.CreateReportRequest {
	return model.CreateReportRequest{
		Kind:      model.ReportKindComment,
		ContentID: commentID,
		PostID:    &postID,
		Reason:    model.ReasonHarassment,
	}
}

var errPublish = errors.New("stream down")
