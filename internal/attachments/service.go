package attachments

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/evjoints/admin-backend/pkg/errors"
)

// FileInfo describes a resolved attachment ready to stream.
type FileInfo struct {
	Path        string
	Name        string
	ContentType string
	Size        int64
}

// ServiceParams groups dependencies for the attachment service.
type ServiceParams struct {
	Repo    Repository
	BaseDir string
}

// Service resolves attachment records to files on disk.
type Service struct {
	repo    Repository
	baseDir string
}

// NewService builds an attachment service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	baseDir := params.BaseDir
	if baseDir == "" {
		baseDir = "."
	}
	return &Service{repo: params.Repo, baseDir: baseDir}, nil
}

// Resolve maps an attachment id to the file behind it. Older rows store the
// full path in Path; newer rows store a directory in Path and the file name
// separately. Relative paths are anchored at the uploads base directory.
func (s *Service) Resolve(ctx context.Context, id int64) (*FileInfo, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading attachment %d: %w", id, err)
	}
	if row == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("attachment %d not found", id))
	}

	full := row.Path
	name := filepath.Base(row.Path)
	if row.Name != nil && *row.Name != "" {
		full = filepath.Join(row.Path, *row.Name)
		name = *row.Name
	}
	if !filepath.IsAbs(full) {
		full = filepath.Join(s.baseDir, full)
	}
	full = filepath.Clean(full)

	stat, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("attachment %d file is missing", id))
		}
		return nil, fmt.Errorf("checking attachment file: %w", err)
	}
	if stat.IsDir() {
		return nil, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("attachment %d file is missing", id))
	}

	return &FileInfo{
		Path:        full,
		Name:        name,
		ContentType: contentTypeFor(name),
		Size:        stat.Size(),
	}, nil
}

func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
