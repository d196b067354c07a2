// Package invoke runs one note operation per call against the event/response
// contract used by function-style callers and the notesctl CLI.
package invoke

import (
	"encoding/json"
	"strings"

	"noteapi/internal/apperr"
	"noteapi/internal/model"
)

// Operation names accepted by Handle.
type Operation string

const (
	OpSave   Operation = "save"
	OpRead   Operation = "read"
	OpDelete Operation = "delete"
	OpPurge  Operation = "purge"
	OpList   Operation = "list"
)

// ParseOperation maps a case-insensitive name onto an Operation.
func ParseOperation(s string) (Operation, bool) {
	op := Operation(strings.ToLower(strings.TrimSpace(s)))
	switch op {
	case OpSave, OpRead, OpDelete, OpPurge, OpList:
		return op, true
	}
	return "", false
}

// Event is the raw invocation payload. Parameters may appear at the top level,
// under queryStringParameters, or inside a JSON body string.
type Event struct {
	Name                  string            `json:"Name,omitempty"`
	Content               *string           `json:"Content,omitempty"`
	CreatedAt             string            `json:"CreatedAt,omitempty"`
	QueryStringParameters map[string]string `json:"queryStringParameters,omitempty"`
	Body                  string            `json:"body,omitempty"`
}

// Request is the normalized form of an Event. Content is nil when no source carried it.
type Request struct {
	Name      string
	Content   *string
	CreatedAt string
}

// SaveRequest returns the Create/Update input.
func (r Request) SaveRequest() model.SaveRequest {
	return model.SaveRequest{Name: r.Name, Content: r.Content}
}

// Key returns the Read/Delete input.
func (r Request) Key() model.NoteKey {
	return model.NoteKey{CreatedAt: r.CreatedAt, Name: r.Name}
}

type bodyParams struct {
	Name      string  `json:"Name"`
	Content   *string `json:"Content"`
	CreatedAt string  `json:"CreatedAt"`
}

// Normalize merges the three parameter sources in order: top level, query
// string, body. Name and CreatedAt take the first non-empty value; Content
// takes the first source that carries the key, so an empty note survives.
func (e Event) Normalize() (Request, error) {
	var body bodyParams
	if strings.TrimSpace(e.Body) != "" {
		if err := json.Unmarshal([]byte(e.Body), &body); err != nil {
			return Request{}, apperr.Validation("parse event", "body must be a JSON object")
		}
	}
	q := e.QueryStringParameters
	return Request{
		Name:      firstNonEmpty(e.Name, q["Name"], body.Name),
		Content:   firstPresent(e.Content, queryValue(q, "Content"), body.Content),
		CreatedAt: firstNonEmpty(e.CreatedAt, q["CreatedAt"], body.CreatedAt),
	}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPresent(vals ...*string) *string {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func queryValue(q map[string]string, key string) *string {
	if v, ok := q[key]; ok {
		return &v
	}
	return nil
}
