package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"noteapi/internal/apperr"
	"noteapi/internal/model"
	"noteapi/internal/repository"
	"noteapi/internal/storage"
)

// Caller-facing messages.
const (
	MsgSaved         = "Note saved successfully"
	MsgFound         = "Item found"
	MsgNotFound      = "Item not found"
	MsgDeleted       = "Item and associated content deleted successfully"
	MsgPurged        = "All objects deleted from bucket"
	MsgNoBucket      = "blob container is not configured"
	contentMediaType = "text/plain; charset=utf-8"
)

// PurgeResult reports what PurgeAll removed.
type PurgeResult struct {
	Bucket  string `json:"bucket"`
	Deleted int    `json:"deleted"`
}

// OrphanReport lists entries present in one store but not the other.
type OrphanReport struct {
	// Blobs are content keys under notes/ with no metadata record.
	Blobs []string `json:"blobs"`
	// Records are metadata keys whose content blob is missing.
	Records []model.NoteKey `json:"records"`
}

// NoteService defines the use cases for handling notes.
// Every returned error can be classified with apperr.KindOf.
type NoteService interface {
	// Save writes the content blob (overwriting) and stores a new metadata record
	// with a fresh NoteID under today's date. A second save of the same name on the
	// same day replaces that day's record; saves on other days add records.
	Save(ctx context.Context, req model.SaveRequest) (*model.NoteRecord, error)

	// Get returns the record stored under key merged with its content.
	Get(ctx context.Context, key model.NoteKey) (*model.Note, error)

	// Delete removes the content blob, then the record.
	Delete(ctx context.Context, key model.NoteKey) error

	// List returns every record merged with its content.
	List(ctx context.Context) ([]model.Note, error)

	// PurgeAll deletes every object in the blob container. Metadata is not touched.
	PurgeAll(ctx context.Context) (*PurgeResult, error)

	// Orphans reports entries that exist in only one of the two stores.
	Orphans(ctx context.Context) (*OrphanReport, error)
}

// Option customizes a noteService.
type Option func(*noteService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *noteService) { s.now = now }
}

// WithIDGenerator replaces uuid.NewString for NoteIDs.
func WithIDGenerator(gen func() string) Option {
	return func(s *noteService) { s.newID = gen }
}

// noteService is a concrete implementation of NoteService.
type noteService struct {
	store  storage.Storage
	repo   repository.NoteRepository
	log    logrus.FieldLogger
	tracer trace.Tracer
	now    func() time.Time
	newID  func() string
}

// NewNoteService constructs a new NoteService.
func NewNoteService(store storage.Storage, repo repository.NoteRepository, log logrus.FieldLogger, opts ...Option) NoteService {
	s := &noteService{
		store:  store,
		repo:   repo,
		log:    log.WithField("component", "note_service"),
		tracer: otel.Tracer("noteapi/internal/service"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *noteService) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "NoteService."+op, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, apperr.KindOf(err).String())
	}
	span.End()
}

func (s *noteService) Save(ctx context.Context, req model.SaveRequest) (rec *model.NoteRecord, err error) {
	ctx, span := s.start(ctx, "Save", attribute.String("note.name", req.Name))
	defer func() { endSpan(span, err) }()

	if err := req.Validate(); err != nil {
		return nil, apperr.Validation("save note", err.Error())
	}

	key := model.ContentKey(req.Name)
	content := *req.Content
	if _, err := s.store.Put(ctx, key, strings.NewReader(content), storage.PutObjectOptions{
		Size:        int64(len(content)),
		ContentType: contentMediaType,
	}); err != nil {
		return nil, fmt.Errorf("upload content: %w", err)
	}

	now := s.now().UTC()
	rec = &model.NoteRecord{
		NoteID:    s.newID(),
		Name:      req.Name,
		CreatedAt: model.Today(now),
		UpdatedAt: now,
	}
	if err := s.repo.Put(ctx, rec); err != nil {
		// No compensation: the blob stays behind without a record.
		s.log.WithFields(logrus.Fields{
			"event":    "orphan_blob",
			"blob_key": key,
			"error":    err.Error(),
		}).Warn("metadata write failed after content upload")
		return nil, fmt.Errorf("save metadata: %w", err)
	}
	return rec, nil
}

func (s *noteService) Get(ctx context.Context, key model.NoteKey) (note *model.Note, err error) {
	ctx, span := s.start(ctx, "Get", attribute.String("note.name", key.Name), attribute.String("note.created_at", key.CreatedAt))
	defer func() { endSpan(span, err) }()

	rec, err := s.find(ctx, "read note", key)
	if err != nil {
		return nil, err
	}
	content, err := s.readContent(ctx, rec.Name)
	if err != nil {
		return nil, err
	}
	return &model.Note{NoteRecord: *rec, Content: content}, nil
}

func (s *noteService) Delete(ctx context.Context, key model.NoteKey) (err error) {
	ctx, span := s.start(ctx, "Delete", attribute.String("note.name", key.Name), attribute.String("note.created_at", key.CreatedAt))
	defer func() { endSpan(span, err) }()

	rec, err := s.find(ctx, "delete note", key)
	if err != nil {
		return err
	}
	// Delete from storage first; a failure here leaves both stores untouched.
	if err := s.store.Delete(ctx, model.ContentKey(rec.Name)); err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	if err := s.repo.Delete(ctx, key); err != nil {
		s.log.WithFields(logrus.Fields{
			"event":      "orphan_record",
			"name":       key.Name,
			"created_at": key.CreatedAt,
			"error":      err.Error(),
		}).Warn("metadata delete failed after content delete")
		return fmt.Errorf("delete metadata: %w", err)
	}
	return nil
}

func (s *noteService) List(ctx context.Context) (notes []model.Note, err error) {
	ctx, span := s.start(ctx, "List")
	defer func() { endSpan(span, err) }()

	recs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list metadata: %w", err)
	}
	notes = make([]model.Note, 0, len(recs))
	for _, rec := range recs {
		content, err := s.readContent(ctx, rec.Name)
		if err != nil {
			if apperr.KindOf(err) != apperr.KindStoreUnavailable {
				return nil, err
			}
			s.log.WithFields(logrus.Fields{
				"event": "content_unavailable",
				"name":  rec.Name,
				"error": err.Error(),
			}).Warn("listing note without content")
		}
		notes = append(notes, model.Note{NoteRecord: rec, Content: content})
	}
	span.SetAttributes(attribute.Int("notes.count", len(notes)))
	return notes, nil
}

func (s *noteService) PurgeAll(ctx context.Context) (res *PurgeResult, err error) {
	ctx, span := s.start(ctx, "PurgeAll")
	defer func() { endSpan(span, err) }()

	bucket := s.store.Bucket()
	if bucket == "" {
		return nil, apperr.Validation("purge", MsgNoBucket)
	}
	span.SetAttributes(attribute.String("storage.bucket", bucket))

	objs, err := s.store.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	res = &PurgeResult{Bucket: bucket}
	for _, obj := range objs {
		if err := s.store.Delete(ctx, obj.Key); err != nil {
			return nil, fmt.Errorf("delete %s after %d deletions: %w", obj.Key, res.Deleted, err)
		}
		res.Deleted++
	}
	s.log.WithFields(logrus.Fields{
		"event":   "purge",
		"bucket":  bucket,
		"deleted": res.Deleted,
	}).Info("blob container purged")
	return res, nil
}

func (s *noteService) Orphans(ctx context.Context) (rep *OrphanReport, err error) {
	ctx, span := s.start(ctx, "Orphans")
	defer func() { endSpan(span, err) }()

	recs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list metadata: %w", err)
	}
	objs, err := s.store.List(ctx, model.ContentPrefix)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}

	blobs := make(map[string]bool, len(objs))
	for _, o := range objs {
		blobs[o.Key] = true
	}
	named := make(map[string]bool, len(recs))
	rep = &OrphanReport{Blobs: []string{}, Records: []model.NoteKey{}}
	for _, rec := range recs {
		named[rec.Name] = true
		if !blobs[model.ContentKey(rec.Name)] {
			rep.Records = append(rep.Records, rec.Key())
		}
	}
	for _, o := range objs {
		if name, ok := model.NameFromContentKey(o.Key); !ok || !named[name] {
			rep.Blobs = append(rep.Blobs, o.Key)
		}
	}
	return rep, nil
}

func (s *noteService) find(ctx context.Context, op string, key model.NoteKey) (*model.NoteRecord, error) {
	if err := key.Validate(); err != nil {
		return nil, apperr.Validation(op, err.Error())
	}
	rec, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound(op, MsgNotFound)
		}
		return nil, fmt.Errorf("find metadata: %w", err)
	}
	return rec, nil
}

func (s *noteService) readContent(ctx context.Context, name string) (string, error) {
	rc, _, err := s.store.Get(ctx, model.ContentKey(name))
	if err != nil {
		return "", fmt.Errorf("fetch content: %w", err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("content of %q is not valid UTF-8", name)
	}
	return string(b), nil
}
