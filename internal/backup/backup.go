package backup

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalog-api/internal/storage"
)

// Service produces consistent snapshots of the sqlite database and ships
// them to object storage.
type Service interface {
	Snapshot(ctx context.Context) (string, error)
	List(ctx context.Context) ([]storage.ObjectInfo, error)
}

type service struct {
	db        *sql.DB
	store     storage.Service
	bucket    string
	keyPrefix string
	logger    *logrus.Logger
}

func NewService(db *sql.DB, store storage.Service, bucket, keyPrefix string, logger *logrus.Logger) Service {
	return &service{
		db:        db,
		store:     store,
		bucket:    bucket,
		keyPrefix: strings.Trim(keyPrefix, "/"),
		logger:    logger,
	}
}

// Snapshot copies the live database with VACUUM INTO and uploads the copy,
// returning the s3:// location.
func (s *service) Snapshot(ctx context.Context) (string, error) {
	dir, err := os.MkdirTemp("", "catalog-backup-")
	if err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}
	defer os.RemoveAll(dir)

	name := fmt.Sprintf("catalog-%s.db", uuid.NewString())
	local := filepath.Join(dir, name)

	// VACUUM INTO does not accept bound parameters; the filename is ours.
	quoted := strings.ReplaceAll(local, "'", "''")
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("VACUUM INTO '%s'", quoted)); err != nil {
		return "", fmt.Errorf("snapshot database: %w", err)
	}

	key := name
	if s.keyPrefix != "" {
		key = path.Join(s.keyPrefix, name)
	}

	location, err := s.store.UploadFile(ctx, local, s.bucket, key)
	if err != nil {
		return "", err
	}

	s.logger.Infof("database backup uploaded to %s", location)
	return location, nil
}

func (s *service) List(ctx context.Context) ([]storage.ObjectInfo, error) {
	return s.store.ListObjects(ctx, s.bucket, s.keyPrefix)
}
