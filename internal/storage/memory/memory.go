// Package memory is an in-process Storage used for local runs (BLOB_BACKEND=memory) and tests.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"noteapi/internal/apperr"
	"noteapi/internal/storage"
)

type object struct {
	data        []byte
	contentType string
	metadata    map[string]string
	modified    time.Time
}

// Storage keeps objects in a map. It is safe for concurrent use.
type Storage struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string]object
	deletes int
}

// New returns an empty store named bucket.
func New(bucket string) *Storage {
	return &Storage{bucket: bucket, objects: map[string]object{}}
}

var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Bucket() string { return s.bucket }

func (s *Storage) checkBucket(op string) error {
	if s.bucket == "" {
		return apperr.Store(op, fmt.Errorf("InvalidBucketName: bucket name cannot be empty"))
	}
	return nil
}

func (s *Storage) Put(_ context.Context, key string, r io.Reader, opt storage.PutObjectOptions) (storage.ObjectInfo, error) {
	if err := s.checkBucket("put object"); err != nil {
		return storage.ObjectInfo{}, err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return storage.ObjectInfo{}, fmt.Errorf("read object body: %w", err)
	}
	obj := object{data: b, contentType: opt.ContentType, metadata: opt.Metadata, modified: time.Now()}

	s.mu.Lock()
	s.objects[key] = obj
	s.mu.Unlock()

	return s.info(key, obj), nil
}

func (s *Storage) Get(_ context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	if err := s.checkBucket("get object"); err != nil {
		return nil, storage.ObjectInfo{}, err
	}
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, storage.ObjectInfo{}, apperr.Store("get object", fmt.Errorf("NoSuchKey: The specified key does not exist: %s", key))
	}
	return io.NopCloser(bytes.NewReader(obj.data)), s.info(key, obj), nil
}

// Delete removes key. Removing a missing key succeeds, as on S3.
func (s *Storage) Delete(_ context.Context, key string) error {
	if err := s.checkBucket("delete object"); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.objects, key)
	s.deletes++
	s.mu.Unlock()
	return nil
}

func (s *Storage) List(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	if err := s.checkBucket("list objects"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]storage.ObjectInfo, 0, len(s.objects))
	for key, obj := range s.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, s.info(key, obj))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Deletes reports how many Delete calls have been made.
func (s *Storage) Deletes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deletes
}

// Len reports how many objects are stored.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func (s *Storage) info(key string, obj object) storage.ObjectInfo {
	return storage.ObjectInfo{
		Key:          key,
		Size:         int64(len(obj.data)),
		ContentType:  obj.contentType,
		LastModified: obj.modified,
		Metadata:     obj.metadata,
	}
}
