package cleanup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zfogg/picfeed/internal/storage"
	"github.com/zfogg/picfeed/internal/testutil"
)

func TestSweepDeletesOnlyOldUnreferencedImages(t *testing.T) {
	db := testutil.NewDB(t)
	store := storage.NewMockImageStore()
	user := testutil.CreateUser(t, db, "alice")
	post := testutil.CreatePost(t, db, user.ID, time.Now())

	old := time.Now().Add(-2 * time.Hour)
	store.Put(post.ImageKey, []byte("kept"), old)
	store.Put("posts/"+user.ID+"/orphan.png", []byte("orphan"), old)
	store.Put("posts/"+user.ID+"/fresh.png", []byte("maybe mid-insert"), time.Now())
	store.Put("avatars/x.png", []byte("not ours"), old)

	s := NewOrphanSweeper(db, store, time.Minute, time.Hour)
	res, err := s.Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Result{Scanned: 3, Orphans: 1, Deleted: 1}, res)
	assert.True(t, store.Has(post.ImageKey))
	assert.False(t, store.Has("posts/"+user.ID+"/orphan.png"))
	assert.True(t, store.Has("posts/"+user.ID+"/fresh.png"))
	assert.True(t, store.Has("avatars/x.png"))
}

func TestSweepCountsDeleteFailures(t *testing.T) {
	db := testutil.NewDB(t)
	store := storage.NewMockImageStore()
	store.Put("posts/u/a.png", []byte("a"), time.Now().Add(-2*time.Hour))
	store.DeleteErr = errors.New("access denied")

	res, err := NewOrphanSweeper(db, store, time.Minute, 0).Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Orphans)
	assert.Equal(t, 1, res.Failed)
	assert.Zero(t, res.Deleted)
}

func TestStartStop(t *testing.T) {
	db := testutil.NewDB(t)
	store := storage.NewMockImageStore()
	store.Put("posts/u/a.png", []byte("a"), time.Now().Add(-2*time.Hour))

	s := NewOrphanSweeper(db, store, 10*time.Millisecond, time.Hour)
	s.Start(context.Background())
	s.Start(context.Background())

	assert.Eventually(t, func() bool { return !store.Has("posts/u/a.png") }, 2*time.Second, 10*time.Millisecond)
	s.Stop()
	s.Stop()
}
