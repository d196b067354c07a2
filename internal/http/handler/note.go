package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"noteapi/internal/invoke"
	"noteapi/internal/model"
	"noteapi/internal/service"
)

type messageResponse struct {
	Message string `json:"message"`
}

type itemResponse struct {
	Message string     `json:"message"`
	Item    model.Note `json:"item"`
}

type purgeResponse struct {
	Message string `json:"message"`
	Bucket  string `json:"bucket"`
	Deleted int    `json:"deleted"`
}

func keyFromQuery(c *fiber.Ctx) model.NoteKey {
	return model.NoteKey{CreatedAt: c.Query("CreatedAt"), Name: c.Query("Name")}
}

// SaveNote godoc
// @Summary Create or update a note
// @Description Writes the content to notes/{Name}.txt and stores a new metadata record dated today.
// @Tags notes
// @Accept json
// @Produce json
// @Param note body model.SaveRequest true "Note"
// @Success 200 {object} messageResponse
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /notes [post]
// @Router /notes [put]
func SaveNote(svc service.NoteService, log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.SaveRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, CodeBadRequest, "invalid JSON body")
		}
		if _, err := svc.Save(c.UserContext(), req); err != nil {
			return writeServiceError(c, log, "save", err)
		}
		return c.JSON(messageResponse{Message: service.MsgSaved})
	}
}

// GetNotes godoc
// @Summary Read one note or list all notes
// @Description With CreatedAt or Name set, returns that note merged with its content. Without either, lists every note.
// @Tags notes
// @Produce json
// @Param CreatedAt query string false "Creation date (YYYY-MM-DD)"
// @Param Name query string false "Note name"
// @Success 200 {object} itemResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /notes [get]
func GetNotes(svc service.NoteService, log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := keyFromQuery(c)
		if key.CreatedAt == "" && key.Name == "" {
			notes, err := svc.List(c.UserContext())
			if err != nil {
				return writeServiceError(c, log, "list", err)
			}
			return c.JSON(notes)
		}

		note, err := svc.Get(c.UserContext(), key)
		if err != nil {
			return writeServiceError(c, log, "read", err)
		}
		return c.JSON(itemResponse{Message: service.MsgFound, Item: *note})
	}
}

// DeleteNote godoc
// @Summary Delete a note
// @Description Removes the content blob, then the metadata record.
// @Tags notes
// @Produce json
// @Param CreatedAt query string true "Creation date (YYYY-MM-DD)"
// @Param Name query string true "Note name"
// @Success 200 {object} messageResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /notes [delete]
func DeleteNote(svc service.NoteService, log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), keyFromQuery(c)); err != nil {
			return writeServiceError(c, log, "delete", err)
		}
		return c.JSON(messageResponse{Message: service.MsgDeleted})
	}
}

// PurgeBlobs godoc
// @Summary Delete every object in the blob container
// @Description Metadata records are left untouched.
// @Tags admin
// @Produce json
// @Success 200 {object} purgeResponse
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /admin/purge [post]
func PurgeBlobs(svc service.NoteService, log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.PurgeAll(c.UserContext())
		if err != nil {
			return writeServiceError(c, log, "purge", err)
		}
		return c.JSON(purgeResponse{Message: service.MsgPurged, Bucket: res.Bucket, Deleted: res.Deleted})
	}
}

// ListOrphans godoc
// @Summary Report entries present in only one store
// @Tags admin
// @Produce json
// @Success 200 {object} service.OrphanReport
// @Failure 500 {object} errorPayload
// @Router /admin/orphans [get]
func ListOrphans(svc service.NoteService, log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rep, err := svc.Orphans(c.UserContext())
		if err != nil {
			return writeServiceError(c, log, "orphans", err)
		}
		return c.JSON(rep)
	}
}

// Invoke godoc
// @Summary Run one operation with the event/response contract
// @Description Accepts an event with top-level fields, queryStringParameters or a JSON body string. Query parameters of this request are merged into queryStringParameters.
// @Tags invoke
// @Accept json
// @Produce json
// @Param operation path string true "save, read, delete, purge or list"
// @Param event body invoke.Event false "Event"
// @Success 200 {string} string "operation-specific JSON"
// @Failure 400 {string} string "{\"error\": ...}"
// @Failure 404 {string} string "{\"error\": \"Item not found\"}"
// @Failure 500 {string} string "{\"error\": ...}"
// @Router /invoke/{operation} [post]
func Invoke(h *invoke.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var ev invoke.Event
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&ev); err != nil {
				return writeError(c, fiber.StatusBadRequest, CodeBadRequest, "invalid JSON event")
			}
		}
		if q := c.Queries(); len(q) > 0 {
			if ev.QueryStringParameters == nil {
				ev.QueryStringParameters = map[string]string{}
			}
			for k, v := range q {
				if _, ok := ev.QueryStringParameters[k]; !ok {
					ev.QueryStringParameters[k] = v
				}
			}
		}

		raw := c.Params("operation")
		op, ok := invoke.ParseOperation(raw)
		if !ok {
			op = invoke.Operation(raw)
		}
		resp := h.Handle(c.UserContext(), op, ev)

		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Status(resp.StatusCode).SendString(resp.Body)
	}
}
