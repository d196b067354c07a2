package invoke

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"noteapi/internal/apperr"
	"noteapi/internal/logging"
	"noteapi/internal/service"
)

// Response mirrors the proxy-integration result: a status code and a JSON-encoded body.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

type messageBody struct {
	Message string `json:"message"`
}

type itemBody struct {
	Message string      `json:"message"`
	Item    interface{} `json:"item"`
}

type purgeBody struct {
	Message string `json:"message"`
	Bucket  string `json:"bucket"`
	Deleted int    `json:"deleted"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Handler dispatches events to a NoteService.
type Handler struct {
	svc service.NoteService
	log logrus.FieldLogger
}

// NewHandler returns a Handler.
func NewHandler(svc service.NoteService, log logrus.FieldLogger) *Handler {
	return &Handler{svc: svc, log: log.WithField("component", "invoke")}
}

// Handle runs op with the parameters carried by ev and never returns a Go error:
// every failure is encoded in the Response.
func (h *Handler) Handle(ctx context.Context, op Operation, ev Event) Response {
	req, err := ev.Normalize()
	if err != nil {
		return h.fail(ctx, op, err)
	}

	switch op {
	case OpSave:
		if _, err := h.svc.Save(ctx, req.SaveRequest()); err != nil {
			return h.fail(ctx, op, err)
		}
		return respond(http.StatusOK, messageBody{Message: service.MsgSaved})

	case OpRead:
		note, err := h.svc.Get(ctx, req.Key())
		if err != nil {
			return h.fail(ctx, op, err)
		}
		return respond(http.StatusOK, itemBody{Message: service.MsgFound, Item: note})

	case OpDelete:
		if err := h.svc.Delete(ctx, req.Key()); err != nil {
			return h.fail(ctx, op, err)
		}
		return respond(http.StatusOK, messageBody{Message: service.MsgDeleted})

	case OpPurge:
		res, err := h.svc.PurgeAll(ctx)
		if err != nil {
			return h.fail(ctx, op, err)
		}
		return respond(http.StatusOK, purgeBody{Message: service.MsgPurged, Bucket: res.Bucket, Deleted: res.Deleted})

	case OpList:
		notes, err := h.svc.List(ctx)
		if err != nil {
			return h.fail(ctx, op, err)
		}
		return respond(http.StatusOK, notes)
	}

	return respond(http.StatusBadRequest, errorBody{Error: fmt.Sprintf("unsupported operation: %q", op)})
}

func (h *Handler) fail(ctx context.Context, op Operation, err error) Response {
	kind := apperr.KindOf(err)
	entry := logging.FromContext(ctx, h.log).WithFields(logrus.Fields{"operation": string(op), "kind": kind.String()})
	switch kind {
	case apperr.KindUnknown:
		entry.WithError(err).Error("operation failed")
	case apperr.KindStoreUnavailable:
		entry.WithError(err).Warn("store error")
	}
	return respond(apperr.HTTPStatus(kind), errorBody{Error: apperr.PublicMessage(err)})
}

func respond(status int, v interface{}) Response {
	b, err := json.Marshal(v)
	if err != nil {
		return Response{StatusCode: http.StatusInternalServerError, Body: `{"error":"Internal Server Error"}`}
	}
	return Response{StatusCode: status, Body: string(b)}
}
