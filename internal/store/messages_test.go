package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMessage(t *testing.T, repo *MessageRepository, room, username, content string, at time.Time) {
	t.Helper()
	require.NoError(t, repo.Save(room, username, content))
	// Save stamps time.Now; pin the row for deterministic ordering.
	require.NoError(t, repo.db.Model(&Message{}).
		Where("room = ? AND content = ?", room, content).
		Update("created_at", at).Error)
}

func TestMessageRepositoryRecentByRoom(t *testing.T) {
	repo := NewMessageRepository(setupTestDB(t))
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	seedMessage(t, repo, "general", "alice", "first", base)
	seedMessage(t, repo, "general", "bob", "second", base.Add(time.Minute))
	seedMessage(t, repo, "general", "alice", "third", base.Add(2*time.Minute))
	seedMessage(t, repo, "random", "carol", "elsewhere", base)

	msgs, err := repo.RecentByRoom("general", 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2, "limit applies to the newest messages")
	assert.Equal(t, "second", msgs[0].Content, "oldest first within the window")
	assert.Equal(t, "third", msgs[1].Content)

	msgs, err = repo.RecentByRoom("empty", 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestPersisterWritesInBackground(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	p := NewPersister(repo)

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	p.SaveMessage("general", "alice", "hi")
	p.SaveMessage("general", "bob", "hello")

	deadline := time.Now().Add(2 * time.Second)
	var count int64
	for time.Now().Before(deadline) {
		require.NoError(t, db.Model(&Message{}).Count(&count).Error)
		if count == 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.EqualValues(t, 2, count)

	cancel()
	p.Wait()
}

func TestPersisterDropsWhenQueueFull(t *testing.T) {
	// Not started: the queue never drains, so the overflow path must drop
	// instead of blocking the caller.
	p := NewPersister(NewMessageRepository(setupTestDB(t)))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < persistQueueSize+10; i++ {
			p.SaveMessage("general", "alice", "spam")
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("SaveMessage blocked on a full queue")
	}
}
