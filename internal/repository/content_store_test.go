package repository

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krishiconnect/internal/model"
)

// stepClock returns a clock that advances one second per call.
func stepClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

var (
	farmer = model.AuthorInfo{ID: "u-farmer", Name: "Ravi", Role: model.RoleFarmer, Location: "Nashik"}
	expert = model.AuthorInfo{ID: "u-expert", Name: "Dr. Mehta", Role: model.RoleExpert, Verified: true}
)

func actorOf(a model.AuthorInfo) *model.Actor {
	return &model.Actor{ID: a.ID, Name: a.Name, Role: a.Role}
}

func newPost(t *testing.T, s *MemoryContentStore, author model.AuthorInfo, kind model.PostKind) model.Post {
	t.Helper()
	return s.CreatePost(author, model.CreatePostRequest{
		Content: fmt.Sprintf("%s post by %s", kind, author.Name),
		Kind:    kind,
	})
}

func TestCreatePost(t *testing.T) {
	s := NewContentStore(stepClock())

	post := s.CreatePost(farmer, model.CreatePostRequest{
		Content: "Tomato prices are up this week",
		Images:  []string{"https://cdn.example.com/a.jpg"},
		Tags:    []string{"tomato", " market ", "tomato", ""},
	})

	assert.Equal(t, int64(1), post.ID)
	assert.Equal(t, model.PostKindGeneral, post.Kind)
	assert.True(t, post.IsOwnPost)
	assert.False(t, post.Liked)
	assert.Zero(t, post.Likes)
	assert.Zero(t, post.Comments)
	assert.Zero(t, post.Shares)
	assert.Equal(t, []string{"tomato", "market"}, post.Tags)
	assert.Nil(t, post.Marketplace)

	second := newPost(t, s, expert, model.PostKindAdvice)
	assert.Greater(t, second.ID, post.ID)
}

func TestCreatePostMarketplaceInfoOnlyForMarketplace(t *testing.T) {
	s := NewContentStore(stepClock())
	info := &model.MarketplaceInfo{Title: "Onions", Price: 25, Category: "vegetables"}

	general := s.CreatePost(farmer, model.CreatePostRequest{Content: "x", Marketplace: info})
	assert.Nil(t, general.Marketplace)

	listing := s.CreatePost(farmer, model.CreatePostRequest{Content: "x", Kind: model.PostKindMarketplace, Marketplace: info})
	require.NotNil(t, listing.Marketplace)
	assert.Equal(t, "Onions", listing.Marketplace.Title)

	info.Title = "changed"
	got, _ := s.GetPost(listing.ID, nil)
	assert.Equal(t, "Onions", got.Marketplace.Title)
}

func TestListPostsNewestFirstAndFiltered(t *testing.T) {
	s := NewContentStore(stepClock())
	p1 := newPost(t, s, farmer, model.PostKindQuestion)
	p2 := newPost(t, s, expert, model.PostKindExpertAdvice)
	p3 := newPost(t, s, farmer, model.PostKindQuestion)

	all := s.ListPosts(model.PostKindAll, nil)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{p3.ID, p2.ID, p1.ID}, []int64{all[0].ID, all[1].ID, all[2].ID})

	questions := s.ListPosts(model.PostKindQuestion, nil)
	require.Len(t, questions, 2)
	for _, p := range questions {
		assert.Equal(t, model.PostKindQuestion, p.Kind)
	}

	assert.Empty(t, s.ListPosts(model.PostKindMarketplace, nil))
	assert.Len(t, s.ListPosts("", nil), 3)
}

func TestListPostsTiesKeepInsertionOrder(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	s := NewContentStore(func() time.Time { return fixed })

	p1 := newPost(t, s, farmer, model.PostKindGeneral)
	p2 := newPost(t, s, farmer, model.PostKindGeneral)

	posts := s.ListPosts(model.PostKindAll, nil)
	require.Len(t, posts, 2)
	assert.Equal(t, p2.ID, posts[0].ID)
	assert.Equal(t, p1.ID, posts[1].ID)
}

func TestViewerFlags(t *testing.T) {
	s := NewContentStore(stepClock())
	post := newPost(t, s, farmer, model.PostKindGeneral)

	_, err := s.ToggleLike(post.ID, expert.ID)
	require.NoError(t, err)

	asFarmer, _ := s.GetPost(post.ID, actorOf(farmer))
	assert.True(t, asFarmer.IsOwnPost)
	assert.False(t, asFarmer.Liked)

	asExpert, _ := s.GetPost(post.ID, actorOf(expert))
	assert.False(t, asExpert.IsOwnPost)
	assert.True(t, asExpert.Liked)

	anon, _ := s.GetPost(post.ID, nil)
	assert.False(t, anon.IsOwnPost)
	assert.False(t, anon.Liked)
	assert.Equal(t, 1, anon.Likes)
}

func TestReturnedPostsAreCopies(t *testing.T) {
	s := NewContentStore(stepClock())
	post := s.CreatePost(farmer, model.CreatePostRequest{Content: "x", Images: []string{"https://a/1.jpg"}})

	post.Images[0] = "tampered"
	post.Likes = 99

	got, ok := s.GetPost(post.ID, nil)
	require.True(t, ok)
	assert.Equal(t, "https://a/1.jpg", got.Images[0])
	assert.Zero(t, got.Likes)
}

func TestDeletePost(t *testing.T) {
	s := NewContentStore(stepClock())
	post := newPost(t, s, farmer, model.PostKindGeneral)
	_, err := s.AddComment(post.ID, expert, "nice")
	require.NoError(t, err)

	other := newPost(t, s, expert, model.PostKindAdvice)

	postsBefore := s.ListPosts(model.PostKindAll, nil)
	commentsBefore := s.GetComments(post.ID, nil)

	err = s.DeletePost(post.ID, expert.ID)
	assert.ErrorIs(t, err, model.ErrNotPostOwner)
	assert.ErrorIs(t, s.DeletePost(999, farmer.ID), model.ErrPostNotFound)

	assert.Equal(t, postsBefore, s.ListPosts(model.PostKindAll, nil), "failed deletes leave the collection unchanged")
	assert.Equal(t, commentsBefore, s.GetComments(post.ID, nil))

	require.NoError(t, s.DeletePost(post.ID, farmer.ID))
	_, ok := s.GetPost(post.ID, nil)
	assert.False(t, ok)
	assert.Empty(t, s.GetComments(post.ID, nil))

	remaining := s.ListPosts(model.PostKindAll, nil)
	require.Len(t, remaining, 1)
	assert.Equal(t, other.ID, remaining[0].ID)
}

func TestUpdatePost(t *testing.T) {
	s := NewContentStore(stepClock())
	post := newPost(t, s, farmer, model.PostKindMarketplace)
	_, err := s.ToggleLike(post.ID, expert.ID)
	require.NoError(t, err)

	content := "Updated text"
	kind := model.PostKindQuestion
	tags := []string{"soil", "soil"}
	updated, err := s.UpdatePost(post.ID, model.PostPatch{Content: &content, Kind: &kind, Tags: &tags}, farmer.ID)
	require.NoError(t, err)

	assert.Equal(t, content, updated.Content)
	assert.Equal(t, kind, updated.Kind)
	assert.Equal(t, []string{"soil"}, updated.Tags)
	assert.Equal(t, 1, updated.Likes, "counters are never patched")
	assert.Equal(t, post.ID, updated.ID)
	assert.Equal(t, post.CreatedAt, updated.CreatedAt)
	assert.Nil(t, updated.Marketplace)
}

func TestUpdatePostRejectsWithoutPartialWrite(t *testing.T) {
	s := NewContentStore(stepClock())
	post := newPost(t, s, farmer, model.PostKindGeneral)

	content := "should not land"
	bad := model.PostKind("rumour")
	_, err := s.UpdatePost(post.ID, model.PostPatch{Content: &content, Kind: &bad}, farmer.ID)
	assert.ErrorIs(t, err, model.ErrInvalidPostKind)

	got, _ := s.GetPost(post.ID, nil)
	assert.Equal(t, post.Content, got.Content)

	_, err = s.UpdatePost(post.ID, model.PostPatch{Content: &content}, expert.ID)
	assert.ErrorIs(t, err, model.ErrNotPostOwner)

	_, err = s.UpdatePost(404, model.PostPatch{Content: &content}, farmer.ID)
	assert.ErrorIs(t, err, model.ErrPostNotFound)

	blank := "   "
	_, err = s.UpdatePost(post.ID, model.PostPatch{Content: &blank}, farmer.ID)
	assert.ErrorIs(t, err, model.ErrContentRequired)
}

func TestUpdatePostCountsCharactersNotBytes(t *testing.T) {
	s := NewContentStore(stepClock())
	post := newPost(t, s, farmer, model.PostKindGeneral)

	// Bengali letters are three bytes each in UTF-8.
	atLimit := strings.Repeat("ধ", model.MaxPostContentLength)
	updated, err := s.UpdatePost(post.ID, model.PostPatch{Content: &atLimit}, farmer.ID)
	require.NoError(t, err)
	assert.Equal(t, atLimit, updated.Content)

	overLimit := atLimit + "ধ"
	_, err = s.UpdatePost(post.ID, model.PostPatch{Content: &overLimit}, farmer.ID)
	assert.ErrorIs(t, err, model.ErrContentTooLong)
}

func TestComments(t *testing.T) {
	s := NewContentStore(stepClock())
	post := newPost(t, s, farmer, model.PostKindQuestion)

	c1, err := s.AddComment(post.ID, expert, "Use neem oil")
	require.NoError(t, err)
	c2, err := s.AddComment(post.ID, farmer, "Thanks")
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
	assert.Equal(t, post.ID, c1.PostID)

	comments := s.GetComments(post.ID, nil)
	require.Len(t, comments, 2)
	assert.Equal(t, c1.ID, comments[0].ID, "insertion order")
	assert.Equal(t, c2.ID, comments[1].ID)

	got, _ := s.GetPost(post.ID, nil)
	assert.Equal(t, 2, got.Comments)
}

func TestAddCommentOnMissingPostIsRejected(t *testing.T) {
	s := NewContentStore(stepClock())

	_, err := s.AddComment(42, farmer, "hello?")
	assert.ErrorIs(t, err, model.ErrPostNotFound)
	assert.Empty(t, s.GetComments(42, nil))

	post := newPost(t, s, farmer, model.PostKindGeneral)
	assert.NotEqual(t, int64(42), post.ID)
	assert.Empty(t, s.GetComments(post.ID, nil))
}

func TestRepliesAndCommentDelete(t *testing.T) {
	s := NewContentStore(stepClock())
	post := newPost(t, s, farmer, model.PostKindQuestion)
	top, err := s.AddComment(post.ID, expert, "Check drainage")
	require.NoError(t, err)

	reply, err := s.AddReply(post.ID, top.ID, farmer, "Will do")
	require.NoError(t, err)
	assert.NotEqual(t, top.ID, reply.ID)

	_, err = s.AddReply(post.ID, reply.ID, expert, "nested too deep")
	assert.ErrorIs(t, err, model.ErrCommentNotFound)

	comments := s.GetComments(post.ID, nil)
	require.Len(t, comments, 1)
	require.Len(t, comments[0].Replies, 1)
	got, _ := s.GetPost(post.ID, nil)
	assert.Equal(t, 1, got.Comments, "replies do not count")

	assert.ErrorIs(t, s.DeleteComment(post.ID, reply.ID, expert.ID), model.ErrNotCommentOwner)
	require.NoError(t, s.DeleteComment(post.ID, reply.ID, farmer.ID))
	assert.Empty(t, s.GetComments(post.ID, nil)[0].Replies)

	require.NoError(t, s.DeleteComment(post.ID, top.ID, expert.ID))
	got, _ = s.GetPost(post.ID, nil)
	assert.Equal(t, 0, got.Comments)
	assert.Equal(t, got.Comments, len(s.GetComments(post.ID, nil)))

	assert.ErrorIs(t, s.DeleteComment(post.ID, top.ID, expert.ID), model.ErrCommentNotFound)
}

func TestRemoveIgnoresOwnership(t *testing.T) {
	s := NewContentStore(stepClock())
	post := newPost(t, s, farmer, model.PostKindGeneral)
	c, err := s.AddComment(post.ID, expert, "spam link")
	require.NoError(t, err)

	assert.True(t, s.RemoveComment(post.ID, c.ID))
	assert.False(t, s.RemoveComment(post.ID, c.ID))
	got, _ := s.GetPost(post.ID, nil)
	assert.Zero(t, got.Comments)

	assert.True(t, s.RemovePost(post.ID))
	assert.False(t, s.RemovePost(post.ID))
	assert.False(t, s.RemoveComment(post.ID, c.ID))
}

func TestSnapshots(t *testing.T) {
	s := NewContentStore(stepClock())
	post := s.CreatePost(farmer, model.CreatePostRequest{Content: "Buy cheap seeds", Images: []string{"https://a/1.jpg"}})
	c, err := s.AddComment(post.ID, expert, "rude words")
	require.NoError(t, err)

	snap, ok := s.SnapshotPost(post.ID)
	require.True(t, ok)
	assert.Equal(t, "Buy cheap seeds", snap.Text)
	assert.Equal(t, farmer, snap.Author)
	assert.Equal(t, post.CreatedAt, snap.CreatedAt)
	assert.Equal(t, []string{"https://a/1.jpg"}, snap.Images)

	csnap, ok := s.SnapshotComment(post.ID, c.ID)
	require.True(t, ok)
	assert.Equal(t, "rude words", csnap.Text)
	assert.Equal(t, expert, csnap.Author)
	assert.Empty(t, csnap.Images)

	_, ok = s.SnapshotPost(999)
	assert.False(t, ok)
	_, ok = s.SnapshotComment(post.ID, 999)
	assert.False(t, ok)
}
