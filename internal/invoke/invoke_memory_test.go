package invoke

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repoMemory "noteapi/internal/repository/memory"
	"noteapi/internal/service"
	storeMemory "noteapi/internal/storage/memory"
)

type memoryHarness struct {
	h     *Handler
	repo  *repoMemory.NoteMemory
	store *storeMemory.Storage
	now   time.Time
}

func newMemoryHarness(now time.Time) *memoryHarness {
	log, _ := logtest.NewNullLogger()
	m := &memoryHarness{
		repo:  repoMemory.NewNoteMemory(),
		store: storeMemory.New("notes-bucket"),
		now:   now,
	}
	svc := service.NewNoteService(m.store, m.repo, log, service.WithClock(func() time.Time { return m.now }))
	m.h = NewHandler(svc, log)
	return m
}

func keyQuery(createdAt, name string) Event {
	return Event{QueryStringParameters: map[string]string{"CreatedAt": createdAt, "Name": name}}
}

func TestHandle_Scenario(t *testing.T) {
	ctx := context.Background()
	m := newMemoryHarness(time.Date(2023, 12, 21, 9, 30, 0, 0, time.UTC))

	resp := m.h.Handle(ctx, OpSave, Event{Name: "abc", Content: text("hello")})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Note saved successfully"}`, resp.Body)

	resp = m.h.Handle(ctx, OpRead, keyQuery("2023-12-21", "abc"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var found struct {
		Message string `json:"message"`
		Item    struct {
			NoteID    string
			Name      string
			CreatedAt string
			Content   string
		} `json:"item"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &found))
	assert.Equal(t, "Item found", found.Message)
	assert.Equal(t, "abc", found.Item.Name)
	assert.Equal(t, "2023-12-21", found.Item.CreatedAt)
	assert.Equal(t, "hello", found.Item.Content)
	assert.NotEmpty(t, found.Item.NoteID)

	resp = m.h.Handle(ctx, OpDelete, keyQuery("2023-12-21", "abc"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Item and associated content deleted successfully"}`, resp.Body)

	resp = m.h.Handle(ctx, OpRead, keyQuery("2023-12-21", "abc"))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Item not found"}`, resp.Body)
}

func TestHandle_SaveOnLaterDayAddsRecord(t *testing.T) {
	ctx := context.Background()
	m := newMemoryHarness(time.Date(2023, 12, 21, 9, 30, 0, 0, time.UTC))

	resp := m.h.Handle(ctx, OpSave, Event{Name: "abc", Content: text("v1")})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	m.now = time.Date(2023, 12, 23, 7, 0, 0, 0, time.UTC)
	resp = m.h.Handle(ctx, OpSave, Event{Name: "abc", Content: text("hello")})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 2, m.repo.Len())
	assert.Equal(t, 1, m.store.Len())

	for _, day := range []string{"2023-12-21", "2023-12-23"} {
		resp = m.h.Handle(ctx, OpRead, keyQuery(day, "abc"))
		require.Equal(t, http.StatusOK, resp.StatusCode, day)
		var body struct {
			Item struct{ CreatedAt, Content string } `json:"item"`
		}
		require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
		assert.Equal(t, day, body.Item.CreatedAt)
		assert.Equal(t, "hello", body.Item.Content)
	}
}

func TestHandle_SaveEmptyContent(t *testing.T) {
	ctx := context.Background()
	m := newMemoryHarness(time.Date(2023, 12, 21, 9, 30, 0, 0, time.UTC))

	resp := m.h.Handle(ctx, OpSave, Event{Name: "empty", Content: text("")})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = m.h.Handle(ctx, OpRead, keyQuery("2023-12-21", "empty"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Item map[string]any `json:"item"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Equal(t, "", body.Item["Content"])

	resp = m.h.Handle(ctx, OpSave, Event{Name: "nobody"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Content is required"}`, resp.Body)
}
