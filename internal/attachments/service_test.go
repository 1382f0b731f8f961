package attachments

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/evjoints/admin-backend/pkg/db/models"
	apperrors "github.com/evjoints/admin-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAttachmentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.Exec(`
CREATE TABLE IF NOT EXISTS attachment (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  station_id INTEGER NOT NULL,
  path TEXT NOT NULL,
  name TEXT,
  created_at DATETIME
);`).Error)
	return conn
}

func newAttachmentService(t *testing.T, conn *gorm.DB, baseDir string) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: NewRepository(conn), BaseDir: baseDir})
	require.NoError(t, err)
	return svc
}

func TestResolveDirectoryAndNameRow(t *testing.T) {
	conn := setupAttachmentsTestDB(t)
	baseDir := t.TempDir()
	svc := newAttachmentService(t, conn, baseDir)

	require.NoError(t, os.MkdirAll(filepath.Join(baseDir, "stations", "42"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(baseDir, "stations", "42", "front.jpg"), []byte("jpeg"), 0o644))

	name := "front.jpg"
	row := models.Attachment{StationID: 42, Path: filepath.Join("stations", "42"), Name: &name}
	require.NoError(t, conn.Create(&row).Error)

	info, err := svc.Resolve(context.Background(), row.ID)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(baseDir, "stations", "42", "front.jpg"), info.Path)
	assert.Equal(t, "front.jpg", info.Name)
	assert.Equal(t, "image/jpeg", info.ContentType)
	assert.Equal(t, int64(4), info.Size)
}

func TestResolveLegacyFullPathRow(t *testing.T) {
	conn := setupAttachmentsTestDB(t)
	baseDir := t.TempDir()
	svc := newAttachmentService(t, conn, baseDir)

	full := filepath.Join(baseDir, "legacy.png")
	require.NoError(t, os.WriteFile(full, []byte("png"), 0o644))

	row := models.Attachment{StationID: 7, Path: full}
	require.NoError(t, conn.Create(&row).Error)

	info, err := svc.Resolve(context.Background(), row.ID)
	require.NoError(t, err)
	assert.Equal(t, full, info.Path)
	assert.Equal(t, "legacy.png", info.Name)
	assert.Equal(t, "image/png", info.ContentType)
}

func TestResolveUnknownRow(t *testing.T) {
	conn := setupAttachmentsTestDB(t)
	svc := newAttachmentService(t, conn, t.TempDir())

	_, err := svc.Resolve(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.As(err).Code())
}

func TestResolveMissingFile(t *testing.T) {
	conn := setupAttachmentsTestDB(t)
	svc := newAttachmentService(t, conn, t.TempDir())

	row := models.Attachment{StationID: 1, Path: "stations/1/gone.jpg"}
	require.NoError(t, conn.Create(&row).Error)

	_, err := svc.Resolve(context.Background(), row.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.As(err).Code())
}
