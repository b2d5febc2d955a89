package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/catalog/internal/cache"
	"github.com/Alturino/storefront/catalog/internal/otel"
	"github.com/Alturino/storefront/catalog/pkg/model"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/metrics"
	inOtel "github.com/Alturino/storefront/internal/otel"
)

type Repository interface {
	Read(c context.Context) ([]byte, error)
	Write(c context.Context, data []byte) error
}

// CatalogService serves the catalog document, optionally through a redis
// read-through cache. The cache is best effort: any redis failure falls
// back to the file.
//
// Reads only fill an empty cache key while Replace overwrites it, so a read
// that raced a replace cannot put the old document back.
type CatalogService struct {
	repository Repository
	cache      *redis.Client
	ttl        time.Duration
	mu         sync.Mutex
}

func NewCatalogService(repository Repository, cache *redis.Client, ttl time.Duration) *CatalogService {
	return &CatalogService{repository: repository, cache: cache, ttl: ttl}
}

// Document returns the stored catalog exactly as written.
func (svc *CatalogService) Document(c context.Context) ([]byte, error) {
	c, span := otel.Tracer.Start(c, "CatalogService Document")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogService Document").
		Str(log.KeyCacheKey, cache.KeyCatalogDocument).
		Logger()

	if svc.cache != nil {
		logger = logger.With().Str(log.KeyProcess, "finding catalog in cache").Logger()
		logger.Trace().Msg("finding catalog in cache")
		cached, err := svc.cache.Get(c, cache.KeyCatalogDocument).Bytes()
		switch {
		case err == nil:
			metrics.CatalogCacheTotal.WithLabelValues("hit").Inc()
			logger.Trace().Msg("found catalog in cache")
			return cached, nil
		case errors.Is(err, redis.Nil):
			metrics.CatalogCacheTotal.WithLabelValues("miss").Inc()
			logger.Trace().Msg("catalog not in cache")
		default:
			metrics.CatalogCacheTotal.WithLabelValues("error").Inc()
			err = fmt.Errorf("failed getting catalog from cache with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Warn().Err(err).Msg(err.Error())
		}
	}

	logger = logger.With().Str(log.KeyProcess, "reading catalog file").Logger()
	logger.Trace().Msg("reading catalog file")
	data, err := svc.repository.Read(c)
	if err != nil {
		err = fmt.Errorf("failed reading catalog with error=%w", errors.Join(err, model.ErrCatalogUnavailable))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	if !json.Valid(data) {
		err = fmt.Errorf("failed validating catalog json with error=%w", model.ErrCatalogUnavailable)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Msg("read catalog file")

	if svc.cache != nil {
		logger = logger.With().Str(log.KeyProcess, "inserting catalog to cache").Logger()
		inserted, err := svc.cache.SetNX(c, cache.KeyCatalogDocument, data, svc.ttl).Result()
		switch {
		case err != nil:
			err = fmt.Errorf("failed inserting catalog to cache with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Warn().Err(err).Msg(err.Error())
		case !inserted:
			logger.Trace().Msg("catalog already cached by a newer write")
		default:
			logger.Trace().Msg("inserted catalog to cache")
		}
	}

	return data, nil
}

// Catalog returns the typed view used for pricing.
func (svc *CatalogService) Catalog(c context.Context) (*model.Catalog, error) {
	c, span := otel.Tracer.Start(c, "CatalogService Catalog")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "CatalogService Catalog").Logger()

	data, err := svc.Document(c)
	if err != nil {
		return nil, err
	}

	catalog, err := model.Parse(data)
	if err != nil {
		err = fmt.Errorf("failed parsing catalog with error=%w", errors.Join(err, model.ErrCatalogUnavailable))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	for _, warning := range catalog.Warnings {
		logger.Warn().Msg(warning)
	}
	return catalog, nil
}

// Replace validates data and overwrites the stored catalog with it.
// Validation errors are returned unwrapped so they can be shown as is.
func (svc *CatalogService) Replace(c context.Context, data []byte) error {
	c, span := otel.Tracer.Start(c, "CatalogService Replace")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogService Replace").
		Int(log.KeyCatalogSize, len(data)).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating catalog").Logger()
	logger.Trace().Msg("validating catalog")
	if err := model.Validate(data); err != nil {
		metrics.CatalogWriteTotal.WithLabelValues(metrics.ResultFailed).Inc()
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if catalog, err := model.Parse(data); err == nil {
		for _, warning := range catalog.Warnings {
			logger.Warn().Msg(warning)
		}
	}
	logger.Trace().Msg("validated catalog")

	svc.mu.Lock()
	defer svc.mu.Unlock()

	logger = logger.With().Str(log.KeyProcess, "writing catalog").Logger()
	logger.Trace().Msg("writing catalog")
	if err := svc.repository.Write(c, data); err != nil {
		metrics.CatalogWriteTotal.WithLabelValues(metrics.ResultFailed).Inc()
		err = fmt.Errorf("failed writing catalog with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("wrote catalog")

	if svc.cache != nil {
		logger = logger.With().Str(log.KeyProcess, "updating catalog cache").Logger()
		if err := svc.cache.Set(c, cache.KeyCatalogDocument, data, svc.ttl).Err(); err != nil {
			err = fmt.Errorf("failed updating catalog cache with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Warn().Err(err).Msg(err.Error())
			if err := svc.cache.Del(c, cache.KeyCatalogDocument).Err(); err != nil {
				err = fmt.Errorf("failed invalidating catalog cache with error=%w", err)
				inOtel.RecordError(err, span)
				logger.Warn().Err(err).Msg(err.Error())
			}
		}
	}

	metrics.CatalogWriteTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return nil
}
