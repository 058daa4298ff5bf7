package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/andrsolo/contactbook/internal/domain/entity"
	repo "github.com/andrsolo/contactbook/internal/domain/repository"
	"github.com/andrsolo/contactbook/pkg/helpers"
)

// UserService covers the profile surface: current-user lookup for the auth
// middleware and avatar uploads to the external image host.
type UserService struct {
	Users     repo.UserRepository
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger
}

func NewUserService(users repo.UserRepository, gcs *storage.Client, bucket string, logger *logrus.Logger) *UserService {
	return &UserService{Users: users, GCS: gcs, GCSBucket: bucket, Logger: logger}
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpdateAvatar uploads the image to GCS and persists the public URL.
func (s *UserService) UpdateAvatar(ctx context.Context, user *entity.User, r io.Reader, filename, contentType string) (*entity.User, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, errors.New("gcs not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", user.Username, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return nil, err
	}
	updated, err := s.Users.UpdateAvatar(ctx, user.Email, url)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}
	return updated, nil
}
