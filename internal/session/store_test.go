package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocabquiz/internal/stats"
)

var sampleStats = stats.Stats{TotalQuestions: 4, CorrectAnswers: 3, CurrentStreak: 2}

func TestValidID(t *testing.T) {
	valid := uuid.NewString()
	if !ValidID(valid) {
		t.Errorf("ValidID(%q) = false, want true", valid)
	}
	if !ValidID("12345678-1234-5678-9ABC-123456789DEF") {
		t.Error("ValidID should accept uppercase hex")
	}
	for _, bad := range []string{
		"", "short",
		"zzzzzzzz-zzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz",
		"12345678-1234-1234-1234-12345678901G",
		"../../../etc/passwd",
		"12345678/1234/5678/9ABC/123456789DEF",
		"session\x00.txt",
	} {
		if ValidID(bad) {
			t.Errorf("ValidID(%q) = true, want false", bad)
		}
	}
}

// storeContract runs the behavior every backend shares.
func storeContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	id := uuid.NewString()

	_, err := s.Load(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, id, sampleStats))
	got, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, sampleStats, got)

	require.NoError(t, s.Save(ctx, id, stats.Reset()))
	got, err = s.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, stats.Stats{}, got)

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Load(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	for _, bad := range []string{"", "../../../etc/passwd", "/etc/passwd", "short"} {
		_, err := s.Load(ctx, bad)
		assert.ErrorIs(t, err, ErrInvalidID, "load %q", bad)
		assert.ErrorIs(t, s.Save(ctx, bad, sampleStats), ErrInvalidID, "save %q", bad)
	}
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestMemoryStoreCleanup(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now()
	active, expired := uuid.NewString(), uuid.NewString()

	s.now = func() time.Time { return now.Add(-3 * time.Hour) }
	require.NoError(t, s.Save(context.Background(), expired, sampleStats))
	s.now = func() time.Time { return now.Add(-30 * time.Minute) }
	require.NoError(t, s.Save(context.Background(), active, sampleStats))
	s.now = func() time.Time { return now }

	removed, err := s.Cleanup(2 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, s.Len())

	_, err = s.Load(context.Background(), expired)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Load(context.Background(), active)
	assert.NoError(t, err)
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "sessions"), time.Hour)
	require.NoError(t, err)
	storeContract(t, s)
}

func TestFileStoreLoadRemovesBadFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, time.Hour)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	write := func(id string, data []byte, modTime *time.Time) string {
		p := filepath.Join(dir, id+".json")
		if err := os.WriteFile(p, data, 0644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
		if modTime != nil {
			_ = os.Chtimes(p, *modTime, *modTime)
		}
		return p
	}
	valid, _ := json.Marshal(sampleStats)

	// Expired file
	old := time.Now().Add(-2 * time.Hour)
	oldID := uuid.NewString()
	oldPath := write(oldID, valid, &old)
	if _, err := s.Load(ctx, oldID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load of expired file returned %v, want ErrNotFound", err)
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Errorf("expired session file was not removed: %s", oldPath)
	}

	// Corrupted file
	corruptID := uuid.NewString()
	corruptPath := write(corruptID, []byte("this is not json"), nil)
	if _, err := s.Load(ctx, corruptID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load of corrupt file returned %v, want ErrNotFound", err)
	}
	if _, err := os.Stat(corruptPath); !os.IsNotExist(err) {
		t.Errorf("corrupt session file was not removed: %s", corruptPath)
	}

	// Inconsistent counters
	badID := uuid.NewString()
	bad, _ := json.Marshal(stats.Stats{TotalQuestions: 1, CorrectAnswers: 5})
	badPath := write(badID, bad, nil)
	if _, err := s.Load(ctx, badID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load of inconsistent stats returned %v, want ErrNotFound", err)
	}
	if _, err := os.Stat(badPath); !os.IsNotExist(err) {
		t.Errorf("inconsistent session file was not removed: %s", badPath)
	}
}

func TestFileStorePathStaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, 0)
	require.NoError(t, err)

	id := uuid.NewString()
	p, err := s.path(id)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, id+".json"), p)

	for _, bad := range []string{"../session", "..\\session", "/tmp/session", "./session", "12345678-1234-5678-9ABC-123456789../"} {
		_, err := s.path(bad)
		assert.ErrorIs(t, err, ErrInvalidID, bad)
	}
}

func TestFileStoreCleanup(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, 0)
	require.NoError(t, err)
	ctx := context.Background()

	fresh, stale := uuid.NewString(), uuid.NewString()
	require.NoError(t, s.Save(ctx, fresh, sampleStats))
	require.NoError(t, s.Save(ctx, stale, sampleStats))
	old := time.Now().Add(-5 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, stale+".json"), old, old))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	removed, err := s.Cleanup(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	names, err := os.ReadDir(dir)
	require.NoError(t, err)
	var kept []string
	for _, n := range names {
		kept = append(kept, n.Name())
	}
	assert.ElementsMatch(t, []string{fresh + ".json", "notes.txt"}, kept)
}

func TestFileStoreCleanupMissingDir(t *testing.T) {
	s := &FileStore{Dir: filepath.Join(t.TempDir(), "gone")}
	removed, err := s.Cleanup(time.Hour)
	assert.NoError(t, err)
	assert.Zero(t, removed)
}

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStore(t *testing.T) {
	s, _ := newRedisStore(t, time.Hour)
	storeContract(t, s)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestRedisStoreKeyAndExpiry(t *testing.T) {
	s, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()
	id := uuid.NewString()

	require.NoError(t, s.Save(ctx, id, sampleStats))
	key := "vocabquiz:session:" + id
	if !mr.Exists(key) {
		t.Fatalf("expected redis key %s to be set", key)
	}
	assert.Equal(t, time.Minute, mr.TTL(key))

	mr.FastForward(2 * time.Minute)
	_, err := s.Load(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreDropsGarbage(t *testing.T) {
	s, mr := newRedisStore(t, time.Minute)
	id := uuid.NewString()
	key := "vocabquiz:session:" + id
	require.NoError(t, mr.Set(key, "{not json"))

	_, err := s.Load(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, mr.Exists(key))
}

type countingCleaner struct{ calls atomic.Int32 }

func (c *countingCleaner) Cleanup(time.Duration) (int, error) {
	c.calls.Add(1)
	return 0, nil
}

func TestStartCleanupStopsWithContext(t *testing.T) {
	c := &countingCleaner{}
	ctx, cancel := context.WithCancel(context.Background())
	reports := make(chan int, 16)
	StartCleanup(ctx, c, 5*time.Millisecond, time.Hour, func(removed int, _ error) {
		select {
		case reports <- removed:
		default:
		}
	})

	select {
	case <-reports:
	case <-time.After(time.Second):
		t.Fatal("cleanup never ran")
	}
	cancel()
	assert.Positive(t, c.calls.Load())
}

func TestCleanerFunc(t *testing.T) {
	var got time.Duration
	c := CleanerFunc(func(maxAge time.Duration) (int, error) {
		got = maxAge
		return 3, nil
	})
	removed, err := c.Cleanup(time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)
	assert.Equal(t, time.Minute, got)
}

func TestStartCleanupDisabled(t *testing.T) {
	c := &countingCleaner{}
	StartCleanup(context.Background(), c, 0, time.Hour, nil)
	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, c.calls.Load())
}

func TestErrInvalidIDMessage(t *testing.T) {
	assert.True(t, strings.Contains(ErrInvalidID.Error(), "invalid session ID format"))
}
