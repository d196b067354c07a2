package model

import (
	"strings"
	"time"
)

// DateLayout is the format of NoteRecord.CreatedAt.
const DateLayout = "2006-01-02"

// ContentPrefix is the blob key prefix under which note bodies live.
const ContentPrefix = "notes/"

// NoteRecord is the metadata kept for a note. The body lives in the blob store only.
// JSON names match the wire format clients already depend on.
type NoteRecord struct {
	NoteID    string    `json:"NoteID"`
	Name      string    `json:"Name"`
	CreatedAt string    `json:"CreatedAt"`
	UpdatedAt time.Time `json:"UpdatedAt"`
}

// Key returns the composite lookup key of the record.
func (r NoteRecord) Key() NoteKey {
	return NoteKey{CreatedAt: r.CreatedAt, Name: r.Name}
}

// Note is a record merged with its content.
type Note struct {
	NoteRecord
	Content string `json:"Content"`
}

// NoteKey addresses a record for Read and Delete.
type NoteKey struct {
	CreatedAt string `json:"CreatedAt"`
	Name      string `json:"Name"`
}

// ContentKey returns the blob key for a note name: notes/{Name}.txt.
func ContentKey(name string) string {
	return ContentPrefix + name + ".txt"
}

// NameFromContentKey reverses ContentKey. ok is false for keys outside the notes layout.
func NameFromContentKey(key string) (name string, ok bool) {
	if !strings.HasPrefix(key, ContentPrefix) || !strings.HasSuffix(key, ".txt") {
		return "", false
	}
	name = strings.TrimSuffix(strings.TrimPrefix(key, ContentPrefix), ".txt")
	return name, name != ""
}

// Today returns t's UTC date in DateLayout.
func Today(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
