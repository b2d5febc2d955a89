package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/metrics"
	inOtel "github.com/Alturino/storefront/internal/otel"
	inErrors "github.com/Alturino/storefront/upload/internal/errors"
	"github.com/Alturino/storefront/upload/internal/otel"
	"github.com/Alturino/storefront/upload/internal/storage"
	"github.com/Alturino/storefront/upload/pkg/request"
	"github.com/Alturino/storefront/upload/pkg/response"
)

const (
	maxSlugLength   = 70
	defaultSlug     = "image"
	defaultExt      = ".jpg"
	sniffBytes      = 3072
	imageMimePrefix = "image/"
	svgMime         = "image/svg+xml"
)

var (
	folderStripExp = regexp.MustCompile(`[^a-z0-9/-]+`)
	slashRunExp    = regexp.MustCompile(`/+`)
	quoteExp       = regexp.MustCompile(`['"]`)
	slugSepExp     = regexp.MustCompile(`[^a-z0-9]+`)
)

// SanitizeFolder keeps lower-case letters, digits, dashes and single
// slashes. Anything that still looks like traversal becomes the root.
func SanitizeFolder(raw string) string {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	cleaned = folderStripExp.ReplaceAllString(cleaned, "")
	cleaned = slashRunExp.ReplaceAllString(cleaned, "/")
	cleaned = strings.TrimPrefix(cleaned, "/")
	cleaned = strings.TrimSuffix(cleaned, "/")
	if strings.Contains(cleaned, "..") {
		return ""
	}
	return cleaned
}

// Slugify lower-cases s, drops quotes, joins everything else with dashes and
// caps the result at 70 characters.
func Slugify(s string) string {
	slug := strings.ToLower(strings.TrimSpace(s))
	slug = quoteExp.ReplaceAllString(slug, "")
	slug = slugSepExp.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLength {
		slug = slug[:maxSlugLength]
	}
	return slug
}

// FileName is <unix ms>-<slug><ext>, with .jpg for names without extension.
func FileName(original string, now time.Time) (string, string) {
	base := path.Base(strings.ReplaceAll(original, "\\", "/"))
	if original == "" || base == "." || base == "/" {
		base = ""
	}
	ext := strings.ToLower(path.Ext(base))
	slug := Slugify(strings.TrimSuffix(base, path.Ext(base)))
	if slug == "" {
		slug = defaultSlug
	}
	if ext == "" {
		ext = defaultExt
	}
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + slug + ext, ext
}

type UploadService struct {
	storage storage.Storage
	cfg     config.Upload
	now     func() time.Time
}

func NewUploadService(storage storage.Storage, cfg config.Upload) *UploadService {
	return &UploadService{storage: storage, cfg: cfg, now: time.Now}
}

func (svc *UploadService) folderAllowed(folder string) bool {
	if folder == "" {
		return true
	}
	top, _, _ := strings.Cut(folder, "/")
	return slices.Contains(svc.cfg.AllowedFolders, top)
}

func (svc *UploadService) Upload(c context.Context, req request.Upload) (response.Upload, error) {
	c, span := otel.Tracer.Start(c, "UploadService Upload")
	defer span.End()

	backend := svc.storage.Backend()
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UploadService Upload").
		Str(log.KeyUploadFilename, req.Filename).
		Int64("size", req.Size).
		Str("backend", backend).
		Logger()

	res, err := svc.upload(c, logger, req)
	if err != nil {
		metrics.UploadTotal.WithLabelValues(backend, metrics.ResultFailed).Inc()
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Upload{}, err
	}
	metrics.UploadTotal.WithLabelValues(backend, metrics.ResultSuccess).Inc()
	metrics.UploadBytes.Add(float64(req.Size))
	logger.Info().Str(log.KeyUploadPath, res.Path).Msg("stored upload")

	return res, nil
}

func (svc *UploadService) upload(
	c context.Context,
	logger zerolog.Logger,
	req request.Upload,
) (response.Upload, error) {
	logger = logger.With().Str(log.KeyProcess, "checking folder").Logger()
	folder := SanitizeFolder(req.Folder)
	logger = logger.With().Str(log.KeyUploadFolder, folder).Logger()
	if !svc.folderAllowed(folder) {
		return response.Upload{}, fmt.Errorf("failed checking folder=%s with error=%w", folder, inErrors.ErrFolderNotAllowed)
	}
	logger.Trace().Msg("checked folder")

	if svc.cfg.MaxSize > 0 && req.Size > svc.cfg.MaxSize {
		return response.Upload{}, fmt.Errorf("failed checking size with error=%w", inErrors.ErrFileTooLarge)
	}

	logger = logger.With().Str(log.KeyProcess, "checking extension").Logger()
	name, ext := FileName(req.Filename, svc.now())
	if !slices.Contains(svc.cfg.AllowedExtensions, ext) {
		return response.Upload{}, fmt.Errorf("failed checking extension=%s with error=%w", ext, inErrors.ErrUnsupportedType)
	}
	logger.Trace().Msg("checked extension")

	logger = logger.With().Str(log.KeyProcess, "detecting content type").Logger()
	head := make([]byte, sniffBytes)
	n, err := io.ReadFull(req.File, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return response.Upload{}, fmt.Errorf("failed reading upload with error=%w", err)
	}
	if n == 0 {
		return response.Upload{}, fmt.Errorf("failed reading upload with error=%w", inErrors.ErrNoFile)
	}
	head = head[:n]
	mime := mimetype.Detect(head)
	contentType := mime.String()
	logger = logger.With().Str(log.KeyUploadContentType, contentType).Logger()
	if !strings.HasPrefix(contentType, imageMimePrefix) || mime.Is(svgMime) {
		return response.Upload{}, fmt.Errorf("failed detecting image type=%s with error=%w", contentType, inErrors.ErrUnsupportedType)
	}
	logger.Trace().Msg("detected content type")

	key := name
	if folder != "" {
		key = folder + "/" + name
	}
	logger = logger.With().Str(log.KeyProcess, "storing upload").Logger()
	logger.Trace().Msg("storing upload")
	stored, err := svc.storage.Put(c, key, contentType, io.MultiReader(bytes.NewReader(head), req.File), req.Size)
	if err != nil {
		return response.Upload{}, fmt.Errorf("failed storing upload with error=%w", err)
	}

	return response.Upload{Path: stored}, nil
}
