package infra

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
)

// NewObjectStoreClient connects to MinIO/S3 and creates the upload bucket
// when it does not exist yet.
func NewObjectStoreClient(c context.Context, cfg config.Minio) (*minio.Client, error) {
	c, span := otel.Tracer.Start(c, "infra NewObjectStoreClient")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "infra NewObjectStoreClient").
		Str("endpoint", cfg.Endpoint).
		Str("bucket", cfg.Bucket).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing minio client").Logger()
	logger.Info().Msg("initializing minio client")
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		err = fmt.Errorf("failed initializing minio client with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("initialized minio client")

	logger = logger.With().Str(log.KeyProcess, "ensuring bucket").Logger()
	logger.Info().Msg("checking bucket")
	exists, err := client.BucketExists(c, cfg.Bucket)
	if err != nil {
		err = fmt.Errorf("failed checking bucket=%s with error=%w", cfg.Bucket, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	if !exists {
		logger.Info().Msg("creating bucket")
		if err := client.MakeBucket(c, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			err = fmt.Errorf("failed creating bucket=%s with error=%w", cfg.Bucket, err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		logger.Info().Msg("created bucket")
	}
	logger.Info().Msg("ensured bucket")

	return client, nil
}
