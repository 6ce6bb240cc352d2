package models

import (
	"forum-core/apperror"
	"forum-core/helpers"
	"forum-core/lookups"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeConcurrentExactlyOnce(t *testing.T) {

	store := newMemoryContentStore()
	store.add(lookups.TargetTopic, "6036f1e362ea59bc07dea3ab")
	model := EngagementModel{Store: store}

	const calls = 100
	var wg sync.WaitGroup
	var mutex sync.Mutex
	succeeded := 0
	duplicates := 0

	wg.Add(calls)
	for i := 0; i < calls; i++ {
		go func() {
			defer wg.Done()
			err := model.Like("6036f1e362ea59bc07dea3ab", "6036f1e362ea59bc07dea3ac")
			mutex.Lock()
			defer mutex.Unlock()
			switch err {
			case nil:
				succeeded++
			case ErrAlreadyLiked:
				duplicates++
			}
		}()
	}
	wg.Wait()

	// exactly one request wins the race, all others see the duplicate error
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, calls-1, duplicates)
	assert.Equal(t, 1, store.members(lookups.TargetTopic, "6036f1e362ea59bc07dea3ab", "likes"))
}

func TestLikeUnlikeLike(t *testing.T) {

	store := newMemoryContentStore()
	store.add(lookups.TargetTopic, "6036f1e362ea59bc07dea3ab")
	model := EngagementModel{Store: store}

	require.NoError(t, model.Like("6036f1e362ea59bc07dea3ab", "6036f1e362ea59bc07dea3ac"))
	require.NoError(t, model.Unlike("6036f1e362ea59bc07dea3ab", "6036f1e362ea59bc07dea3ac"))
	require.NoError(t, model.Like("6036f1e362ea59bc07dea3ab", "6036f1e362ea59bc07dea3ac"))

	assert.Equal(t, 1, store.members(lookups.TargetTopic, "6036f1e362ea59bc07dea3ab", "likes"))
}

func TestLikePreconditions(t *testing.T) {

	store := newMemoryContentStore()
	store.add(lookups.TargetTopic, "6036f1e362ea59bc07dea3ab")
	model := EngagementModel{Store: store}

	// unlike before any like
	err := model.Unlike("6036f1e362ea59bc07dea3ab", "6036f1e362ea59bc07dea3ac")
	assert.Equal(t, ErrNotLiked, err)

	require.NoError(t, model.Like("6036f1e362ea59bc07dea3ab", "6036f1e362ea59bc07dea3ac"))
	err = model.Like("6036f1e362ea59bc07dea3ab", "6036f1e362ea59bc07dea3ac")
	assert.Equal(t, ErrAlreadyLiked, err)
}

func TestBookmarkPreconditions(t *testing.T) {

	store := newMemoryContentStore()
	store.add(lookups.TargetTopic, "6036f1e362ea59bc07dea3ab")
	model := EngagementModel{Store: store}

	err := model.Unbookmark("6036f1e362ea59bc07dea3ab", "6036f1e362ea59bc07dea3ac")
	assert.Equal(t, ErrNotBookmarked, err)

	require.NoError(t, model.Bookmark("6036f1e362ea59bc07dea3ab", "6036f1e362ea59bc07dea3ac"))
	err = model.Bookmark("6036f1e362ea59bc07dea3ab", "6036f1e362ea59bc07dea3ac")
	assert.Equal(t, ErrAlreadyBookmarked, err)

	// the bookmarks set is independent of likes
	assert.Equal(t, 0, store.members(lookups.TargetTopic, "6036f1e362ea59bc07dea3ab", "likes"))
}

func TestRecordViewEveryCallCounts(t *testing.T) {

	store := newMemoryContentStore()
	store.add(lookups.TargetTopic, "6036f1e362ea59bc07dea3ab")
	model := EngagementModel{Store: store}

	for i := 0; i < 3; i++ {
		require.NoError(t, model.RecordView("6036f1e362ea59bc07dea3ab"))
	}

	assert.Equal(t, int64(3), store.counter(lookups.TargetTopic, "6036f1e362ea59bc07dea3ab", "views"))
}

func TestVotesCountPerTargetType(t *testing.T) {

	store := newMemoryContentStore()
	store.add(lookups.TargetTopic, "6036f1e362ea59bc07dea3ab")
	store.add(lookups.TargetComment, "6036f1e362ea59bc07dea3ad")
	model := EngagementModel{Store: store}

	require.NoError(t, model.Upvote(lookups.TargetTopic, "6036f1e362ea59bc07dea3ab"))
	require.NoError(t, model.Upvote(lookups.TargetTopic, "6036f1e362ea59bc07dea3ab"))
	require.NoError(t, model.Downvote(lookups.TargetComment, "6036f1e362ea59bc07dea3ad"))

	assert.Equal(t, int64(2), store.counter(lookups.TargetTopic, "6036f1e362ea59bc07dea3ab", "upVotes"))
	assert.Equal(t, int64(1), store.counter(lookups.TargetComment, "6036f1e362ea59bc07dea3ad", "downVotes"))
}

func TestMarkUpdatedStampsEditor(t *testing.T) {

	now := time.Date(2021, 3, 14, 12, 0, 0, 0, time.UTC)

	store := newMemoryContentStore()
	store.add(lookups.TargetTopic, "6036f1e362ea59bc07dea3ab")
	model := EngagementModel{Store: store, Now: func() time.Time { return now }}

	require.NoError(t, model.MarkUpdated(lookups.TargetTopic, "6036f1e362ea59bc07dea3ab", "6036f1e362ea59bc07dea3ac"))

	doc := store.docs[lookups.TargetTopic+"/6036f1e362ea59bc07dea3ab"]
	require.NotNil(t, doc.updated)
	assert.Equal(t, helpers.ObjectID("6036f1e362ea59bc07dea3ac"), doc.updated.By)
	assert.Equal(t, now, doc.updated.Date)
}

func TestEngagementMissingDocument(t *testing.T) {

	model := EngagementModel{Store: newMemoryContentStore()}

	assert.Equal(t, apperror.ErrNoData, model.RecordView("6036f1e362ea59bc07dea3ab"))
	assert.Equal(t, apperror.ErrNoData, model.Like("6036f1e362ea59bc07dea3ab", "6036f1e362ea59bc07dea3ac"))
	assert.Equal(t, apperror.ErrNoData, model.Unlike("6036f1e362ea59bc07dea3ab", "6036f1e362ea59bc07dea3ac"))
}

func TestEngagementUnknownTargetType(t *testing.T) {

	// the type check fires before the store is touched
	model := EngagementModel{}

	err := model.Upvote("article", "6036f1e362ea59bc07dea3ab")
	assert.Equal(t, ErrInvalidTarget, err)

	err = model.Downvote("", "6036f1e362ea59bc07dea3ab")
	assert.Equal(t, ErrInvalidTarget, err)

	err = model.MarkUpdated("article", "6036f1e362ea59bc07dea3ab", "6036f1e362ea59bc07dea3ac")
	assert.Equal(t, ErrInvalidTarget, err)
}

func TestEngagementStoreFailure(t *testing.T) {

	model := EngagementModel{Store: failingContentStore{}}

	err := model.RecordView("6036f1e362ea59bc07dea3ab")
	require.Error(t, err)
	assert.True(t, helpers.IsSystemError(err))

	err = model.Like("6036f1e362ea59bc07dea3ab", "6036f1e362ea59bc07dea3ac")
	require.Error(t, err)
	assert.True(t, helpers.IsSystemError(err))
}
