// Package upload validates user-submitted images and stores them in object storage.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/imagedrop/service/internal/config"
	"github.com/imagedrop/service/internal/storage"
)

// MaxSizeBytes is the largest accepted upload. The limit is inclusive:
// a file of exactly this size passes.
const MaxSizeBytes = 5 << 20

// allowedContentTypes is the fixed allow-set of accepted image types.
var allowedContentTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// ErrEmptyFile is returned when no file was submitted or it has zero bytes.
var ErrEmptyFile = errors.New("no file provided or file is empty")

// ErrUnsupportedType is returned when the declared content type is not an accepted image type.
var ErrUnsupportedType = errors.New("unsupported content type: only jpeg, png, gif and webp images are accepted")

// ErrTooLarge is returned when the upload exceeds MaxSizeBytes.
var ErrTooLarge = errors.New("file exceeds the 5 MiB size limit")

// IsClientError reports whether err is an expected input rejection rather
// than a storage-side fault. Callers map these to 400 responses.
func IsClientError(err error) bool {
	return errors.Is(err, ErrEmptyFile) || errors.Is(err, ErrUnsupportedType) || errors.Is(err, ErrTooLarge)
}

// Request carries one multipart file as received from the client.
type Request struct {
	File        io.Reader
	FileName    string
	ContentType string
	Size        int64
}

// StoredObject describes a successfully stored upload.
type StoredObject struct {
	Key         string
	URL         string
	Size        int64
	ContentType string
	ExpiresAt   *time.Time // set only under the signed URL policy
}

// Service contains the validate-then-store logic for image uploads.
type Service struct {
	store     storage.ObjectStore
	urlPolicy config.URLPolicy
	signedTTL time.Duration
	log       zerolog.Logger
}

// NewService creates a new upload Service.
func NewService(store storage.ObjectStore, cfg *config.Config, log zerolog.Logger) *Service {
	return &Service{
		store:     store,
		urlPolicy: cfg.URLPolicy,
		signedTTL: cfg.SignedURLTTL,
		log:       log,
	}
}

// Store validates req and, if it passes, writes the file to object storage
// under a freshly generated key. Validation fails fast — the first violated
// rule wins and no storage call is made. There is no partial success: either
// the object is fully stored and a StoredObject is returned, or an error is.
func (s *Service) Store(ctx context.Context, req Request) (*StoredObject, error) {
	if req.File == nil || req.Size == 0 {
		return nil, ErrEmptyFile
	}
	contentType := normalizeContentType(req.ContentType)
	if _, ok := allowedContentTypes[contentType]; !ok {
		return nil, ErrUnsupportedType
	}
	if req.Size > MaxSizeBytes {
		return nil, ErrTooLarge
	}

	// A fresh UUID per request guarantees concurrent uploads never collide,
	// whatever file name the clients declared. The original extension is
	// kept verbatim, casing included.
	key := uuid.NewString() + extension(req.FileName)

	if err := s.store.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}
	if err := s.store.Upload(ctx, key, req.File, req.Size, req.ContentType); err != nil {
		return nil, fmt.Errorf("upload %q: %w", key, err)
	}

	obj := &StoredObject{
		Key:         key,
		Size:        req.Size,
		ContentType: contentType,
	}

	switch s.urlPolicy {
	case config.URLPolicyPublic:
		obj.URL = s.store.PublicURL(key)
	default:
		u, err := s.store.SignedURL(ctx, key, s.signedTTL)
		if err != nil {
			return nil, fmt.Errorf("sign url for %q: %w", key, err)
		}
		expires := time.Now().Add(s.signedTTL)
		obj.URL = u
		obj.ExpiresAt = &expires
	}

	s.log.Info().
		Str("key", key).
		Str("contentType", contentType).
		Int64("size", obj.Size).
		Msg("image stored")

	return obj, nil
}

// normalizeContentType lowercases the declared type and strips any media
// parameters, so "IMAGE/PNG" and "image/png; charset=binary" both match the
// allow-set entry.
func normalizeContentType(ct string) string {
	media, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(ct))
	}
	return media
}

// extension returns the file name's extension including the dot, preserving
// the caller's casing, or "" when the name has none.
func extension(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}
