package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"noteapi/internal/apperr"
	"noteapi/internal/http/middleware"
	"noteapi/internal/model"
	"noteapi/internal/service"
	serviceMocks "noteapi/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, CodeUnavailable, body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSaveNote(t *testing.T) {
	mockSvc := new(serviceMocks.MockNoteService)
	log, hook := logtest.NewNullLogger()
	app := fiber.New()
	app.Use(middleware.RequestID())
	app.Post("/notes", SaveNote(mockSvc, log))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Save", mock.Anything, model.NewSaveRequest("abc", "hello")).
			Return(&model.NoteRecord{NoteID: "id"}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/notes", `{"Name":"abc","Content":"hello"}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body messageResponse
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "Note saved successfully", body.Message)
		mockSvc.AssertExpectations(t)
	})

	t.Run("empty content is passed through", func(t *testing.T) {
		mockSvc.On("Save", mock.Anything, model.NewSaveRequest("empty", "")).
			Return(&model.NoteRecord{NoteID: "id"}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/notes", `{"Name":"empty","Content":""}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid json", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/notes", `{"Name":`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, CodeBadRequest, res.Error.Code)
		assert.NotEmpty(t, res.RequestID)
	})

	t.Run("validation error", func(t *testing.T) {
		mockSvc.On("Save", mock.Anything, model.SaveRequest{Name: "abc"}).
			Return(nil, apperr.Validation("save note", "Content is required")).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/notes", `{"Name":"abc"}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, CodeValidation, res.Error.Code)
		assert.Equal(t, "Content is required", res.Error.Message)
		mockSvc.AssertExpectations(t)
	})

	t.Run("unknown error is logged and hidden", func(t *testing.T) {
		hook.Reset()
		mockSvc.On("Save", mock.Anything, mock.Anything).
			Return(nil, errors.New("tls: handshake failure")).Once()

		req := jsonRequest(http.MethodPost, "/notes", `{"Name":"abc","Content":"x"}`)
		req.Header.Set(middleware.RequestIDHeader, "rid-7")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, CodeInternal, res.Error.Code)
		assert.Equal(t, "Internal Server Error", res.Error.Message)
		assert.Equal(t, "rid-7", res.RequestID)

		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, "rid-7", hook.LastEntry().Data["request_id"])
		mockSvc.AssertExpectations(t)
	})
}

func TestGetNotes(t *testing.T) {
	mockSvc := new(serviceMocks.MockNoteService)
	log, _ := logtest.NewNullLogger()
	app := fiber.New()
	app.Get("/notes", GetNotes(mockSvc, log))
	key := model.NoteKey{CreatedAt: "2023-12-21", Name: "abc"}

	t.Run("read", func(t *testing.T) {
		note := &model.Note{
			NoteRecord: model.NoteRecord{NoteID: "id", Name: "abc", CreatedAt: "2023-12-21", UpdatedAt: time.Now().UTC()},
			Content:    "hello",
		}
		mockSvc.On("Get", mock.Anything, key).Return(note, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/notes?CreatedAt=2023-12-21&Name=abc", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body struct {
			Message string         `json:"message"`
			Item    map[string]any `json:"item"`
		}
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "Item found", body.Message)
		assert.Equal(t, "hello", body.Item["Content"])
		assert.Equal(t, "abc", body.Item["Name"])
		assert.Equal(t, "id", body.Item["NoteID"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, key).Return(nil, apperr.NotFound("read note", service.MsgNotFound)).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/notes?CreatedAt=2023-12-21&Name=abc", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, CodeNotFound, res.Error.Code)
		assert.Equal(t, "Item not found", res.Error.Message)
		mockSvc.AssertExpectations(t)
	})

	t.Run("partial key goes to read", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, model.NoteKey{Name: "abc"}).
			Return(nil, apperr.Validation("read note", "CreatedAt is required")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/notes?Name=abc", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("list", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return([]model.Note{
			{NoteRecord: model.NoteRecord{Name: "a"}, Content: "alpha"},
			{NoteRecord: model.NoteRecord{Name: "b"}, Content: "beta"},
		}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/notes", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var notes []model.Note
		json.NewDecoder(resp.Body).Decode(&notes)
		require.Len(t, notes, 2)
		assert.Equal(t, "beta", notes[1].Content)
		mockSvc.AssertExpectations(t)
	})

	t.Run("store error shows store text", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).
			Return(nil, apperr.Store("scan", errors.New("ResourceNotFoundException: table missing"))).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/notes", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, CodeStore, res.Error.Code)
		assert.Equal(t, "ResourceNotFoundException: table missing", res.Error.Message)
		mockSvc.AssertExpectations(t)
	})
}

func TestDeleteNote(t *testing.T) {
	mockSvc := new(serviceMocks.MockNoteService)
	log, _ := logtest.NewNullLogger()
	app := fiber.New()
	app.Delete("/notes", DeleteNote(mockSvc, log))
	key := model.NoteKey{CreatedAt: "2023-12-21", Name: "abc"}

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, key).Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/notes?CreatedAt=2023-12-21&Name=abc", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body messageResponse
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "Item and associated content deleted successfully", body.Message)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, key).Return(apperr.NotFound("delete note", service.MsgNotFound)).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/notes?CreatedAt=2023-12-21&Name=abc", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, CodeNotFound, res.Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestPurgeBlobs(t *testing.T) {
	mockSvc := new(serviceMocks.MockNoteService)
	log, _ := logtest.NewNullLogger()
	app := fiber.New()
	app.Post("/admin/purge", PurgeBlobs(mockSvc, log))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("PurgeAll", mock.Anything).Return(&service.PurgeResult{Bucket: "notes-bucket", Deleted: 2}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/admin/purge", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body purgeResponse
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, purgeResponse{Message: "All objects deleted from bucket", Bucket: "notes-bucket", Deleted: 2}, body)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no bucket", func(t *testing.T) {
		mockSvc.On("PurgeAll", mock.Anything).Return(nil, apperr.Validation("purge", service.MsgNoBucket)).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/admin/purge", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, CodeValidation, res.Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestListOrphans(t *testing.T) {
	mockSvc := new(serviceMocks.MockNoteService)
	log, _ := logtest.NewNullLogger()
	app := fiber.New()
	app.Get("/admin/orphans", ListOrphans(mockSvc, log))

	mockSvc.On("Orphans", mock.Anything).Return(&service.OrphanReport{
		Blobs:   []string{"notes/stray.txt"},
		Records: []model.NoteKey{},
	}, nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/admin/orphans", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var rep service.OrphanReport
	json.NewDecoder(resp.Body).Decode(&rep)
	assert.Equal(t, []string{"notes/stray.txt"}, rep.Blobs)
	mockSvc.AssertExpectations(t)
}

func TestInvoke(t *testing.T) {
	mockSvc := new(serviceMocks.MockNoteService)
	log, _ := logtest.NewNullLogger()
	app := fiber.New()
	RegisterRoutes(app, nil, mockSvc, log)

	t.Run("save with top-level fields", func(t *testing.T) {
		mockSvc.On("Save", mock.Anything, model.NewSaveRequest("abc", "hello")).
			Return(&model.NoteRecord{}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/invoke/save", `{"Name":"abc","Content":"hello"}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		b, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"message":"Note saved successfully"}`, string(b))
		mockSvc.AssertExpectations(t)
	})

	t.Run("read with request query parameters", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, model.NoteKey{CreatedAt: "2023-12-21", Name: "abc"}).
			Return(nil, apperr.NotFound("read note", service.MsgNotFound)).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/invoke/read?CreatedAt=2023-12-21&Name=abc", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		b, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"error":"Item not found"}`, string(b))
		mockSvc.AssertExpectations(t)
	})

	t.Run("delete with queryStringParameters event", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, model.NoteKey{CreatedAt: "2023-12-21", Name: "abc"}).Return(nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/invoke/DELETE",
			`{"queryStringParameters":{"CreatedAt":"2023-12-21","Name":"abc"}}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("unsupported operation", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/invoke/rename", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	mockSvc := new(serviceMocks.MockNoteService)
	log, _ := logtest.NewNullLogger()
	RegisterRoutes(app, nil, mockSvc, log)

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, CodeNotFound, res.Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Health endpoint only allows GET
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, CodeMethodNotAllowed, res.Error.Code)
	})
}
