package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/catalog/internal/otel"
	"github.com/Alturino/storefront/catalog/pkg/model"
	"github.com/Alturino/storefront/internal/jsonfile"
	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
)

// FileRepository keeps the catalog as one JSON document on disk. Writes
// replace the whole file; the last writer wins.
type FileRepository struct {
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) Path() string {
	return r.path
}

func (r *FileRepository) Read(c context.Context) ([]byte, error) {
	c, span := otel.Tracer.Start(c, "FileRepository Read")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "FileRepository Read").
		Str(log.KeyCatalogPath, r.path).
		Logger()

	data, err := jsonfile.ReadRaw(r.path)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Int(log.KeyCatalogSize, len(data)).Msg("read catalog file")

	return data, nil
}

func (r *FileRepository) Write(c context.Context, data []byte) error {
	c, span := otel.Tracer.Start(c, "FileRepository Write")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "FileRepository Write").
		Str(log.KeyCatalogPath, r.path).
		Int(log.KeyCatalogSize, len(data)).
		Logger()

	if err := jsonfile.WriteRaw(r.path, data); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("wrote catalog file")

	return nil
}

// EnsureDefault writes the default catalog when the file does not exist.
func (r *FileRepository) EnsureDefault(c context.Context) error {
	c, span := otel.Tracer.Start(c, "FileRepository EnsureDefault")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "FileRepository EnsureDefault").
		Str(log.KeyCatalogPath, r.path).
		Logger()

	created, err := jsonfile.EnsureFile(r.path, defaultDocument{})
	if err != nil {
		err = fmt.Errorf("failed creating default catalog with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if created {
		logger.Info().Msg("created default catalog")
	}
	return nil
}

type defaultDocument struct{}

func (defaultDocument) MarshalJSON() ([]byte, error) {
	return model.DefaultDocument(), nil
}
