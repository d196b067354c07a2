package storage

import (
	"bytes"
	"context"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"

	"noteapi/internal/apperr"
)

// s3Storage implements Storage on AWS S3 through aws-sdk-go.
type s3Storage struct {
	client s3iface.S3API
	bucket string
}

// NewS3 wraps an S3 client bound to bucket. No request is made here.
func NewS3(client s3iface.S3API, bucket string) Storage {
	return &s3Storage{client: client, bucket: bucket}
}

func (s *s3Storage) Bucket() string { return s.bucket }

// Put uploads the object in a single request.
func (s *s3Storage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	body, ok := r.(io.ReadSeeker)
	if !ok {
		b, err := io.ReadAll(r)
		if err != nil {
			return ObjectInfo{}, errors.Wrap(err, "read object body")
		}
		body = bytes.NewReader(b)
	}

	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if opt.ContentType != "" {
		in.ContentType = aws.String(opt.ContentType)
	}
	if opt.Size >= 0 {
		in.ContentLength = aws.Int64(opt.Size)
	}
	if len(opt.Metadata) > 0 {
		in.Metadata = aws.StringMap(opt.Metadata)
	}

	out, err := s.client.PutObjectWithContext(ctx, in)
	if err != nil {
		return ObjectInfo{}, classifyAWS("put object", err)
	}
	return ObjectInfo{
		Key:         key,
		Size:        opt.Size,
		ETag:        aws.StringValue(out.ETag),
		ContentType: opt.ContentType,
		Metadata:    opt.Metadata,
	}, nil
}

// Get returns the object body; the caller closes it.
func (s *s3Storage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, ObjectInfo{}, classifyAWS("get object", err)
	}
	return out.Body, ObjectInfo{
		Key:          key,
		Size:         aws.Int64Value(out.ContentLength),
		ETag:         aws.StringValue(out.ETag),
		ContentType:  aws.StringValue(out.ContentType),
		LastModified: aws.TimeValue(out.LastModified),
		Metadata:     aws.StringValueMap(out.Metadata),
	}, nil
}

// Delete removes an object by key.
func (s *s3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return classifyAWS("delete object", err)
	}
	return nil
}

// List follows continuation tokens until the listing is exhausted.
func (s *s3Storage) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	in := &s3.ListObjectsV2Input{Bucket: aws.String(s.bucket)}
	if prefix != "" {
		in.Prefix = aws.String(prefix)
	}

	out := make([]ObjectInfo, 0)
	err := s.client.ListObjectsV2PagesWithContext(ctx, in, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			out = append(out, ObjectInfo{
				Key:          aws.StringValue(obj.Key),
				Size:         aws.Int64Value(obj.Size),
				ETag:         aws.StringValue(obj.ETag),
				LastModified: aws.TimeValue(obj.LastModified),
			})
		}
		return true
	})
	if err != nil {
		return nil, classifyAWS("list objects", err)
	}
	return out, nil
}

// classifyAWS marks responses from the S3 service as store errors.
func classifyAWS(op string, err error) error {
	if _, ok := err.(awserr.RequestFailure); ok {
		return apperr.Store(op, err)
	}
	return errors.Wrap(err, op)
}
