// Package app assembles the note service from configuration: it picks the
// metadata and blob backends, opens their clients and owns their shutdown.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"noteapi/internal/config"
	"noteapi/internal/database"
	"noteapi/internal/database/migration"
	"noteapi/internal/repository"
	"noteapi/internal/repository/dynamo"
	repoMemory "noteapi/internal/repository/memory"
	"noteapi/internal/repository/postgres"
	"noteapi/internal/service"
	"noteapi/internal/storage"
	storeMemory "noteapi/internal/storage/memory"
)

// Container holds the wired dependencies of one process.
type Container struct {
	Config  *config.AppConfig
	Log     logrus.FieldLogger
	DB      *sql.DB // nil unless METADATA_BACKEND=postgres
	Repo    repository.NoteRepository
	Store   storage.Storage
	Service service.NoteService

	closers []func() error
}

// New builds a Container. Store identifiers are not validated; an empty table
// or bucket surfaces as a store error when an operation touches it.
func New(ctx context.Context, cfg *config.AppConfig, log logrus.FieldLogger) (*Container, error) {
	c := &Container{Config: cfg, Log: log}

	var sess *session.Session
	awsSession := func() (*session.Session, error) {
		if sess != nil {
			return sess, nil
		}
		s, err := NewAWSSession(cfg.AWS)
		if err != nil {
			return nil, err
		}
		sess = s
		return sess, nil
	}

	switch cfg.MetadataBackend {
	case config.BackendPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		c.DB = db
		c.closers = append(c.closers, db.Close)
		if cfg.Database.AutoMigrate {
			if err := migration.EnsureMigrated(ctx, db, cfg.Table, log); err != nil {
				_ = c.Close()
				return nil, err
			}
		}
		c.Repo = postgres.NewNotePostgres(db, cfg.Table)
	case config.BackendDynamoDB:
		s, err := awsSession()
		if err != nil {
			return nil, err
		}
		c.Repo = dynamo.NewNoteDynamo(dynamodb.New(s), cfg.Table)
	case config.BackendMemory:
		c.Repo = repoMemory.NewNoteMemory()
	default:
		return nil, fmt.Errorf("unsupported metadata backend %q", cfg.MetadataBackend)
	}

	switch cfg.BlobBackend {
	case config.BackendMinIO:
		st, err := storage.NewMinIO(cfg.MinIO, cfg.Bucket)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("init minio: %w", err)
		}
		c.Store = st
	case config.BackendS3:
		s, err := awsSession()
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.Store = storage.NewS3(s3.New(s), cfg.Bucket)
	case config.BackendMemory:
		c.Store = storeMemory.New(cfg.Bucket)
	default:
		_ = c.Close()
		return nil, fmt.Errorf("unsupported blob backend %q", cfg.BlobBackend)
	}

	c.Service = service.NewNoteService(c.Store, c.Repo, log)

	log.WithFields(logrus.Fields{
		"metadata_backend": cfg.MetadataBackend,
		"blob_backend":     cfg.BlobBackend,
		"table":            cfg.Table,
		"bucket":           cfg.Bucket,
	}).Info("note service ready")

	return c, nil
}

// NewAWSSession builds the session shared by the DynamoDB and S3 clients.
// Credentials come from the default provider chain. Requests go through a
// traced transport, so each store call shows up as a client span.
func NewAWSSession(c config.AWSConfig) (*session.Session, error) {
	awsCfg := aws.NewConfig().
		WithRegion(c.Region).
		WithS3ForcePathStyle(c.ForcePathStyle).
		WithHTTPClient(&http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)})
	if c.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(c.Endpoint)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return sess, nil
}

// Close releases every client opened by New, last opened first.
func (c *Container) Close() error {
	var first error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}
