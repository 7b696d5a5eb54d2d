package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/newsroomhq/newsroom-backend/internal/domain"
	pkglogger "github.com/newsroomhq/newsroom-backend/pkg/logger"
	"github.com/newsroomhq/newsroom-backend/pkg/storage"
)

// MediaService ingests raw uploads into storage and yields the payload
// tuple the news service persists
type MediaService struct {
	s3      *storage.S3Client
	maxSize int64
}

// NewMediaService creates a new MediaService
func NewMediaService(s3Client *storage.S3Client) *MediaService {
	return &MediaService{
		s3:      s3Client,
		maxSize: 50 * 1024 * 1024, // 50MB
	}
}

// Ingest uploads one image attachment and returns its payload tuple.
// Dimensions are probed from the image header; non-raster formats get zero
// dimensions rather than an error.
func (s *MediaService) Ingest(ctx context.Context, file *multipart.FileHeader) (*domain.MediaPayload, error) {
	if s.s3 == nil {
		return nil, fmt.Errorf("media storage not configured")
	}
	if file.Size > s.maxSize {
		return nil, fmt.Errorf("file too large (max %dMB)", s.maxSize/(1024*1024))
	}

	ext := strings.ToLower(path.Ext(file.Filename))
	if !isImageExt(ext) {
		return nil, fmt.Errorf("unsupported image format: %s", ext)
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}

	contentType := http.DetectContentType(data)

	var width, height int
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		width = cfg.Width
		height = cfg.Height
	}

	key := storage.GenerateKey("news", sanitizeFilename(file.Filename, ext))

	result, err := s.s3.Upload(ctx, key, bytes.NewReader(data), contentType, int64(len(data)))
	if err != nil {
		return nil, err
	}

	pkglogger.GetLogger().Info().
		Str("key", result.Key).
		Int64("size", int64(len(data))).
		Msg("news image uploaded")

	url := result.URL
	if result.CDNURL != "" {
		url = result.CDNURL
	}

	return &domain.MediaPayload{
		URL:          url,
		Width:        width,
		Height:       height,
		Size:         int64(len(data)),
		MimeType:     contentType,
		Provider:     s.s3.Provider(),
		ProviderID:   result.Key,
		OriginalName: file.Filename,
	}, nil
}

// Remove deletes an uploaded object by its storage key
func (s *MediaService) Remove(ctx context.Context, key string) error {
	if s.s3 == nil {
		return nil
	}
	return s.s3.Delete(ctx, key)
}

func isImageExt(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}

func sanitizeFilename(original, ext string) string {
	base := strings.TrimSuffix(path.Base(original), path.Ext(original))
	var result strings.Builder
	for _, r := range base {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
			r == '-' || r == '_' {
			result.WriteRune(r)
		}
	}
	s := result.String()
	if s == "" {
		s = "image"
	}
	return s + ext
}
