package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/upload/internal/otel"
)

// MinioStorage keeps uploads in a bucket and returns their public URL.
type MinioStorage struct {
	client    *minio.Client
	bucket    string
	prefix    string
	publicURL string
}

// NewMinioStorage stores objects under prefix in bucket. When publicURL is
// empty the URL is built from the client endpoint and bucket.
func NewMinioStorage(client *minio.Client, bucket, prefix, publicURL string) *MinioStorage {
	if publicURL == "" {
		publicURL = client.EndpointURL().String() + "/" + bucket
	}
	return &MinioStorage{
		client:    client,
		bucket:    bucket,
		prefix:    strings.Trim(prefix, "/"),
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (s *MinioStorage) Backend() string {
	return BackendMinio
}

func (s *MinioStorage) Put(
	c context.Context,
	key string,
	contentType string,
	r io.Reader,
	size int64,
) (string, error) {
	c, span := otel.Tracer.Start(c, "MinioStorage Put")
	defer span.End()

	objectName := path.Join(s.prefix, key)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MinioStorage Put").
		Str("bucket", s.bucket).
		Str(log.KeyUploadPath, objectName).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "putting object").Logger()
	logger.Trace().Msg("putting object")
	info, err := s.client.PutObject(c, s.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
	})
	if err != nil {
		err = fmt.Errorf("failed putting object=%s with error=%w", objectName, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}
	logger.Info().Int64("bytes", info.Size).Str("etag", info.ETag).Msg("put object")

	return s.publicURL + "/" + objectName, nil
}
