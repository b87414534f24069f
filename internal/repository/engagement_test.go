package repository

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krishiconnect/internal/model"
)

func TestToggleLikeIsAnInvolution(t *testing.T) {
	s := NewContentStore(stepClock())
	post := newPost(t, s, farmer, model.PostKindGeneral)

	liked, err := s.ToggleLike(post.ID, expert.ID)
	require.NoError(t, err)
	assert.True(t, liked.Liked)
	assert.Equal(t, 1, liked.Likes)

	unliked, err := s.ToggleLike(post.ID, expert.ID)
	require.NoError(t, err)
	assert.False(t, unliked.Liked)
	assert.Equal(t, 0, unliked.Likes)

	_, err = s.ToggleLike(404, expert.ID)
	assert.ErrorIs(t, err, model.ErrPostNotFound)
}

func TestToggleCommentLike(t *testing.T) {
	s := NewContentStore(stepClock())
	post := newPost(t, s, farmer, model.PostKindGeneral)
	top, _ := s.AddComment(post.ID, expert, "a")
	reply, _ := s.AddReply(post.ID, top.ID, farmer, "b")

	c, err := s.ToggleCommentLike(post.ID, reply.ID, expert.ID)
	require.NoError(t, err)
	assert.True(t, c.Liked)
	assert.Equal(t, 1, c.Likes)

	comments := s.GetComments(post.ID, actorOf(expert))
	assert.True(t, comments[0].Replies[0].Liked)
	assert.False(t, comments[0].Liked)

	got, _ := s.GetPost(post.ID, nil)
	assert.Zero(t, got.Likes, "comment likes leave the post counter alone")

	_, err = s.ToggleCommentLike(post.ID, 999, expert.ID)
	assert.ErrorIs(t, err, model.ErrCommentNotFound)
	_, err = s.ToggleCommentLike(999, top.ID, expert.ID)
	assert.ErrorIs(t, err, model.ErrPostNotFound)
}

func TestSharePostCountsEveryCall(t *testing.T) {
	s := NewContentStore(stepClock())
	post := newPost(t, s, farmer, model.PostKindGeneral)

	for i := 0; i < 3; i++ {
		_, err := s.SharePost(post.ID, expert.ID)
		require.NoError(t, err)
	}
	got, _ := s.GetPost(post.ID, nil)
	assert.Equal(t, 3, got.Shares)
	assert.Zero(t, got.Likes)
	assert.Zero(t, got.Comments)

	_, err := s.SharePost(404, expert.ID)
	assert.ErrorIs(t, err, model.ErrPostNotFound)
}

func TestConcurrentLikesKeepCounterInSync(t *testing.T) {
	s := NewContentStore(stepClock())
	post := newPost(t, s, farmer, model.PostKindGeneral)

	const viewers = 50
	var wg sync.WaitGroup
	for i := 0; i < viewers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			viewer := fmt.Sprintf("viewer-%d", i)
			_, _ = s.ToggleLike(post.ID, viewer)
			// Odd viewers unlike again.
			if i%2 == 1 {
				_, _ = s.ToggleLike(post.ID, viewer)
			}
		}(i)
	}
	wg.Wait()

	got, _ := s.GetPost(post.ID, nil)
	assert.Equal(t, viewers/2, got.Likes)

	likers := 0
	for i := 0; i < viewers; i++ {
		p, _ := s.GetPost(post.ID, &model.Actor{ID: fmt.Sprintf("viewer-%d", i)})
		if p.Liked {
			likers++
		}
	}
	assert.Equal(t, got.Likes, likers)
}
