package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noteapi/internal/apperr"
	"noteapi/internal/model"
	repoMemory "noteapi/internal/repository/memory"
	"noteapi/internal/storage"
	storeMemory "noteapi/internal/storage/memory"
)

// End-to-end behavior of the service over the in-memory backends.

func newMemoryService(t *testing.T, bucket string, now time.Time) (NoteService, *repoMemory.NoteMemory, *storeMemory.Storage) {
	t.Helper()
	log, _ := logtest.NewNullLogger()
	repo := repoMemory.NewNoteMemory()
	store := storeMemory.New(bucket)
	svc := NewNoteService(store, repo, log, WithClock(func() time.Time { return now }))
	return svc, repo, store
}

func TestMemory_SaveThenGet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2023, 12, 21, 23, 59, 0, 0, time.UTC)
	svc, _, store := newMemoryService(t, "notes-bucket", now)

	rec, err := svc.Save(ctx, model.NewSaveRequest("abc", "hello"))
	require.NoError(t, err)
	assert.Equal(t, "2023-12-21", rec.CreatedAt)
	assert.NotEmpty(t, rec.NoteID)

	rc, _, err := store.Get(ctx, "notes/abc.txt")
	require.NoError(t, err)
	defer rc.Close()
	buf := new(strings.Builder)
	_, _ = io.Copy(buf, rc)
	assert.Equal(t, "hello", buf.String())

	note, err := svc.Get(ctx, model.NoteKey{CreatedAt: "2023-12-21", Name: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "abc", note.Name)
	assert.Equal(t, "hello", note.Content)
	assert.Equal(t, rec.NoteID, note.NoteID)
}

func TestMemory_GetUnknownKeyIgnoresStrayBlob(t *testing.T) {
	ctx := context.Background()
	svc, _, store := newMemoryService(t, "notes-bucket", time.Now())

	_, err := store.Put(ctx, "notes/ghost.txt", strings.NewReader("boo"), storage.PutObjectOptions{Size: 3})
	require.NoError(t, err)

	_, err = svc.Get(ctx, model.NoteKey{CreatedAt: "2023-12-21", Name: "ghost"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, MsgNotFound, apperr.PublicMessage(err))
}

func TestMemory_DeleteUnknownKeyMutatesNothing(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2023, 12, 21, 8, 0, 0, 0, time.UTC)
	svc, repo, store := newMemoryService(t, "notes-bucket", now)

	_, err := svc.Save(ctx, model.NewSaveRequest("abc", "hello"))
	require.NoError(t, err)

	err = svc.Delete(ctx, model.NoteKey{CreatedAt: "2023-12-20", Name: "abc"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, 1, repo.Len())
	assert.Equal(t, 1, store.Len())
	assert.Zero(t, store.Deletes())
}

func TestMemory_DeleteRemovesBoth(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2023, 12, 21, 8, 0, 0, 0, time.UTC)
	svc, repo, store := newMemoryService(t, "notes-bucket", now)
	key := model.NoteKey{CreatedAt: "2023-12-21", Name: "abc"}

	_, err := svc.Save(ctx, model.NewSaveRequest("abc", "hello"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, key))
	assert.Zero(t, repo.Len())
	assert.Zero(t, store.Len())

	_, err = svc.Get(ctx, key)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestMemory_SaveEmptyContent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2023, 12, 21, 8, 0, 0, 0, time.UTC)
	svc, _, _ := newMemoryService(t, "notes-bucket", now)

	rec, err := svc.Save(ctx, model.NewSaveRequest("empty", ""))
	require.NoError(t, err)

	note, err := svc.Get(ctx, rec.Key())
	require.NoError(t, err)
	assert.Equal(t, "", note.Content)
}

func TestMemory_SaveSameNameTwice(t *testing.T) {
	ctx := context.Background()
	day1 := time.Date(2023, 12, 21, 8, 0, 0, 0, time.UTC)
	clock := day1
	log, _ := logtest.NewNullLogger()
	repo := repoMemory.NewNoteMemory()
	store := storeMemory.New("notes-bucket")
	svc := NewNoteService(store, repo, log, WithClock(func() time.Time { return clock }))

	first, err := svc.Save(ctx, model.NewSaveRequest("abc", "v1"))
	require.NoError(t, err)

	clock = day1.Add(48 * time.Hour)
	second, err := svc.Save(ctx, model.NewSaveRequest("abc", "v2"))
	require.NoError(t, err)

	// two records, one live blob holding the second content
	assert.Equal(t, 2, repo.Len())
	assert.Equal(t, 1, store.Len())
	assert.NotEqual(t, first.NoteID, second.NoteID)
	assert.Equal(t, "2023-12-21", first.CreatedAt)
	assert.Equal(t, "2023-12-23", second.CreatedAt)

	for _, key := range []model.NoteKey{first.Key(), second.Key()} {
		note, err := svc.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "v2", note.Content)
	}
}

func TestMemory_SaveSameNameSameDayReplacesRecord(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2023, 12, 21, 8, 0, 0, 0, time.UTC)
	svc, repo, _ := newMemoryService(t, "notes-bucket", now)

	first, err := svc.Save(ctx, model.NewSaveRequest("abc", "v1"))
	require.NoError(t, err)
	second, err := svc.Save(ctx, model.NewSaveRequest("abc", "v2"))
	require.NoError(t, err)

	assert.Equal(t, 1, repo.Len())
	assert.NotEqual(t, first.NoteID, second.NoteID)

	note, err := svc.Get(ctx, first.Key())
	require.NoError(t, err)
	assert.Equal(t, second.NoteID, note.NoteID)
	assert.Equal(t, "v2", note.Content)
}

func TestMemory_PurgeAll(t *testing.T) {
	ctx := context.Background()

	t.Run("empty container", func(t *testing.T) {
		svc, _, store := newMemoryService(t, "notes-bucket", time.Now())
		res, err := svc.PurgeAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, res.Deleted)
		assert.Zero(t, store.Deletes())
	})

	t.Run("n objects", func(t *testing.T) {
		svc, repo, store := newMemoryService(t, "notes-bucket", time.Now())
		for _, name := range []string{"a", "b", "c"} {
			_, err := svc.Save(ctx, model.NewSaveRequest(name, "x"))
			require.NoError(t, err)
		}
		_, err := store.Put(ctx, "other/file.bin", strings.NewReader("z"), storage.PutObjectOptions{Size: 1})
		require.NoError(t, err)

		res, err := svc.PurgeAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, &PurgeResult{Bucket: "notes-bucket", Deleted: 4}, res)
		assert.Equal(t, 4, store.Deletes())
		assert.Zero(t, store.Len())
		// metadata is left alone
		assert.Equal(t, 3, repo.Len())

		rep, err := svc.Orphans(ctx)
		require.NoError(t, err)
		assert.Empty(t, rep.Blobs)
		assert.Len(t, rep.Records, 3)

		notes, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, notes, 3)
		for _, n := range notes {
			assert.Empty(t, n.Content)
		}
	})

	t.Run("no bucket configured", func(t *testing.T) {
		svc, _, _ := newMemoryService(t, "", time.Now())
		_, err := svc.PurgeAll(ctx)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestMemory_SaveWithoutBucketIsStoreError(t *testing.T) {
	svc, repo, _ := newMemoryService(t, "", time.Now())

	_, err := svc.Save(context.Background(), model.NewSaveRequest("abc", "hello"))
	assert.Equal(t, apperr.KindStoreUnavailable, apperr.KindOf(err))
	assert.Contains(t, apperr.PublicMessage(err), "InvalidBucketName")
	assert.Zero(t, repo.Len())
}
