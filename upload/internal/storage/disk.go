package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
	inErrors "github.com/Alturino/storefront/upload/internal/errors"
	"github.com/Alturino/storefront/upload/internal/otel"
)

// maxNameAttempts bounds how many numbered variants of a taken name are tried.
const maxNameAttempts = 10

// DiskStorage writes uploads below the public root so the static handler
// serves them. Returned paths are relative to that root.
type DiskStorage struct {
	root string
	dir  string
}

func NewDiskStorage(root, dir string) *DiskStorage {
	return &DiskStorage{root: root, dir: path.Clean(filepath.ToSlash(dir))}
}

func (s *DiskStorage) Backend() string {
	return BackendDisk
}

func (s *DiskStorage) Put(
	c context.Context,
	key string,
	contentType string,
	r io.Reader,
	size int64,
) (string, error) {
	c, span := otel.Tracer.Start(c, "DiskStorage Put")
	defer span.End()

	relative := path.Join(s.dir, key)
	target := filepath.Join(s.root, filepath.FromSlash(relative))
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "DiskStorage Put").
		Str(log.KeyUploadPath, target).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "creating upload dir").Logger()
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		err = fmt.Errorf("failed creating upload dir with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}

	logger = logger.With().Str(log.KeyProcess, "creating upload file").Logger()
	logger.Trace().Msg("creating upload file")
	var f *os.File
	var err error
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		relative = path.Join(s.dir, numbered(key, attempt))
		target = filepath.Join(s.root, filepath.FromSlash(relative))
		f, err = os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if !errors.Is(err, fs.ErrExist) {
			break
		}
		logger.Debug().Str(log.KeyUploadPath, target).Msg("upload name taken")
	}
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			err = errors.Join(err, inErrors.ErrObjectAlreadyExist)
		}
		err = fmt.Errorf("failed creating upload file with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}

	logger = logger.With().Str(log.KeyProcess, "writing upload").Str(log.KeyUploadPath, target).Logger()
	logger.Trace().Msg("writing upload")
	written, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(target)
		err = fmt.Errorf("failed writing upload file with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}
	logger.Info().Int64("bytes", written).Msg("wrote upload")

	return relative, nil
}

// numbered returns key for attempt 0 and key with "-<attempt>" before its
// extension otherwise.
func numbered(key string, attempt int) string {
	if attempt == 0 {
		return key
	}
	ext := path.Ext(key)
	return strings.TrimSuffix(key, ext) + "-" + strconv.Itoa(attempt) + ext
}
