package repository

import (
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"

	"krishiconnect/internal/model"
)

type postRecord struct {
	post          model.Post // Liked and IsOwnPost are computed per viewer
	likedBy       map[string]struct{}
	comments      []*commentRecord
	nextCommentID int64
}

type commentRecord struct {
	comment model.Comment // Replies is rebuilt from replies on read
	likedBy map[string]struct{}
	replies []*commentRecord
}

// MemoryContentStore is the in-process ContentStore.
// A single mutex guards posts and comments together so a comment write and
// its parent counter update are one step.
type MemoryContentStore struct {
	mu         sync.RWMutex
	posts      []*postRecord // newest first
	byID       map[int64]*postRecord
	lastPostID int64
	now        func() time.Time
}

// NewContentStore creates an empty store. now may be nil.
func NewContentStore(now func() time.Time) *MemoryContentStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryContentStore{
		byID: make(map[int64]*postRecord),
		now:  now,
	}
}

var _ ContentStore = (*MemoryContentStore)(nil)

// ListPosts returns posts matching filter, newest first.
// The prepend order is only a hint; the stable sort decides.
func (s *MemoryContentStore) ListPosts(filter model.PostKind, viewer *model.Actor) []model.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := lo.Filter(s.posts, func(rec *postRecord, _ int) bool {
		return rec.post.Kind.Matches(filter)
	})
	posts := lo.Map(matched, func(rec *postRecord, _ int) model.Post {
		return rec.view(viewer)
	})
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts
}

// GetPost returns a single post, or false if it does not exist.
func (s *MemoryContentStore) GetPost(postID int64, viewer *model.Actor) (*model.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[postID]
	if !ok {
		return nil, false
	}
	post := rec.view(viewer)
	return &post, true
}

// CreatePost stores a new post. Input is expected to be validated already.
func (s *MemoryContentStore) CreatePost(author model.AuthorInfo, req model.CreatePostRequest) model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	kind := req.Kind
	if kind == "" {
		kind = model.PostKindGeneral
	}

	s.lastPostID++
	rec := &postRecord{
		post: model.Post{
			ID:        s.lastPostID,
			Author:    author,
			Content:   req.Content,
			Images:    append([]string{}, req.Images...),
			Tags:      normalizeTags(req.Tags),
			Kind:      kind,
			CreatedAt: s.now(),
		},
		likedBy: make(map[string]struct{}),
	}
	if kind == model.PostKindMarketplace && req.Marketplace != nil {
		m := *req.Marketplace
		rec.post.Marketplace = &m
	}

	s.posts = append([]*postRecord{rec}, s.posts...)
	s.byID[rec.post.ID] = rec

	return rec.view(&model.Actor{ID: author.ID})
}

// UpdatePost merges patch into the post if requesterID is its author.
// The patch is validated in full before anything is written.
func (s *MemoryContentStore) UpdatePost(postID int64, patch model.PostPatch, requesterID string) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[postID]
	if !ok {
		return nil, model.ErrPostNotFound
	}
	if rec.post.Author.ID != requesterID {
		return nil, model.ErrNotPostOwner
	}

	if patch.Content != nil {
		if strings.TrimSpace(*patch.Content) == "" {
			return nil, model.ErrContentRequired
		}
		if utf8.RuneCountInString(*patch.Content) > model.MaxPostContentLength {
			return nil, model.ErrContentTooLong
		}
	}
	if patch.Kind != nil && !patch.Kind.Valid() {
		return nil, model.ErrInvalidPostKind
	}
	if patch.Images != nil && len(*patch.Images) > model.MaxPostImageCount {
		return nil, model.ErrTooManyImages
	}

	p := &rec.post
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.Images != nil {
		p.Images = append([]string{}, (*patch.Images)...)
	}
	if patch.Tags != nil {
		p.Tags = normalizeTags(*patch.Tags)
	}
	if patch.Kind != nil {
		p.Kind = *patch.Kind
	}
	if patch.Marketplace != nil {
		m := *patch.Marketplace
		p.Marketplace = &m
	}
	if p.Kind != model.PostKindMarketplace {
		p.Marketplace = nil
	}

	post := rec.view(&model.Actor{ID: requesterID})
	return &post, nil
}

// DeletePost removes the post and all of its comments if requesterID is its author.
func (s *MemoryContentStore) DeletePost(postID int64, requesterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[postID]
	if !ok {
		return model.ErrPostNotFound
	}
	if rec.post.Author.ID != requesterID {
		return model.ErrNotPostOwner
	}
	s.removePostLocked(postID)
	return nil
}

// RemovePost removes a post regardless of author. Returns false if it was already gone.
func (s *MemoryContentStore) RemovePost(postID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[postID]; !ok {
		return false
	}
	s.removePostLocked(postID)
	return true
}

func (s *MemoryContentStore) removePostLocked(postID int64) {
	delete(s.byID, postID)
	for i, rec := range s.posts {
		if rec.post.ID == postID {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			return
		}
	}
}

// GetComments returns a post's comments in insertion order.
// A missing post yields an empty slice.
func (s *MemoryContentStore) GetComments(postID int64, viewer *model.Actor) []model.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[postID]
	if !ok {
		return []model.Comment{}
	}
	return lo.Map(rec.comments, func(c *commentRecord, _ int) model.Comment {
		return c.view(viewer)
	})
}

// AddComment appends a comment and bumps the parent counter.
// Commenting on a missing post is rejected and creates nothing.
func (s *MemoryContentStore) AddComment(postID int64, author model.AuthorInfo, content string) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[postID]
	if !ok {
		return nil, model.ErrPostNotFound
	}

	c := rec.newComment(author, content, s.now())
	rec.comments = append(rec.comments, c)
	rec.post.Comments++

	comment := c.view(&model.Actor{ID: author.ID})
	return &comment, nil
}

// AddReply nests a reply under a top-level comment. Replies do not count
// toward the post's comment counter.
func (s *MemoryContentStore) AddReply(postID, commentID int64, author model.AuthorInfo, content string) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[postID]
	if !ok {
		return nil, model.ErrPostNotFound
	}
	parent, ok := lo.Find(rec.comments, func(c *commentRecord) bool {
		return c.comment.ID == commentID
	})
	if !ok {
		return nil, model.ErrCommentNotFound
	}

	c := rec.newComment(author, content, s.now())
	parent.replies = append(parent.replies, c)

	reply := c.view(&model.Actor{ID: author.ID})
	return &reply, nil
}

// DeleteComment removes a comment or reply if requesterID wrote it.
func (s *MemoryContentStore) DeleteComment(postID, commentID int64, requesterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[postID]
	if !ok {
		return model.ErrPostNotFound
	}
	c, _ := rec.findComment(commentID)
	if c == nil {
		return model.ErrCommentNotFound
	}
	if c.comment.Author.ID != requesterID {
		return model.ErrNotCommentOwner
	}
	rec.removeComment(commentID)
	return nil
}

// RemoveComment removes a comment or reply regardless of author.
func (s *MemoryContentStore) RemoveComment(postID, commentID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[postID]
	if !ok {
		return false
	}
	return rec.removeComment(commentID)
}

// SnapshotPost captures the reportable fields of a post.
func (s *MemoryContentStore) SnapshotPost(postID int64) (model.ContentSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[postID]
	if !ok {
		return model.ContentSnapshot{}, false
	}
	return model.ContentSnapshot{
		Text:      rec.post.Content,
		Author:    rec.post.Author,
		CreatedAt: rec.post.CreatedAt,
		Images:    append([]string{}, rec.post.Images...),
	}, true
}

// SnapshotComment captures the reportable fields of a comment or reply.
func (s *MemoryContentStore) SnapshotComment(postID, commentID int64) (model.ContentSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[postID]
	if !ok {
		return model.ContentSnapshot{}, false
	}
	c, _ := rec.findComment(commentID)
	if c == nil {
		return model.ContentSnapshot{}, false
	}
	return model.ContentSnapshot{
		Text:      c.comment.Content,
		Author:    c.comment.Author,
		CreatedAt: c.comment.CreatedAt,
		Images:    []string{},
	}, true
}

func (r *postRecord) view(viewer *model.Actor) model.Post {
	p := r.post.Clone()
	if viewer != nil {
		_, p.Liked = r.likedBy[viewer.ID]
		p.IsOwnPost = p.Author.ID == viewer.ID
	}
	return p
}

// newComment allocates the next comment ID in this post's ID space.
// Replies share the space so IDs stay unique within the post.
func (r *postRecord) newComment(author model.AuthorInfo, content string, at time.Time) *commentRecord {
	r.nextCommentID++
	return &commentRecord{
		comment: model.Comment{
			ID:        r.nextCommentID,
			PostID:    r.post.ID,
			Author:    author,
			Content:   content,
			CreatedAt: at,
		},
		likedBy: make(map[string]struct{}),
	}
}

// findComment looks through top-level comments and their replies.
// parent is nil for a top-level match.
func (r *postRecord) findComment(commentID int64) (c *commentRecord, parent *commentRecord) {
	for _, top := range r.comments {
		if top.comment.ID == commentID {
			return top, nil
		}
		for _, reply := range top.replies {
			if reply.comment.ID == commentID {
				return reply, top
			}
		}
	}
	return nil, nil
}

// removeComment drops a comment (with its replies) or a single reply.
// Only top-level removals move the post's comment counter.
func (r *postRecord) removeComment(commentID int64) bool {
	c, parent := r.findComment(commentID)
	if c == nil {
		return false
	}
	if parent == nil {
		r.comments = lo.Without(r.comments, c)
		r.post.Comments--
		return true
	}
	parent.replies = lo.Without(parent.replies, c)
	return true
}

func (c *commentRecord) view(viewer *model.Actor) model.Comment {
	out := c.comment
	if viewer != nil {
		_, out.Liked = c.likedBy[viewer.ID]
	}
	out.Replies = lo.Map(c.replies, func(r *commentRecord, _ int) model.Comment {
		return r.view(viewer)
	})
	return out
}

func normalizeTags(tags []string) []string {
	trimmed := lo.FilterMap(tags, func(t string, _ int) (string, bool) {
		t = strings.TrimSpace(t)
		return t, t != ""
	})
	return lo.Uniq(trimmed)
}
