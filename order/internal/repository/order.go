package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/jsonfile"
	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/order/internal/otel"
	"github.com/Alturino/storefront/order/pkg/response"
)

// BuildFunc creates the order to store given how many orders exist already.
type BuildFunc func(count int) (response.Order, error)

// FileRepository keeps every order in one JSON array, newest first. Records
// are kept as raw JSON so older shapes survive a rewrite.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) Path() string {
	return r.path
}

// EnsureFile creates an empty order list when the file does not exist.
func (r *FileRepository) EnsureFile(c context.Context) error {
	c, span := otel.Tracer.Start(c, "FileRepository EnsureFile")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "FileRepository EnsureFile").
		Str(log.KeyOrdersPath, r.path).
		Logger()

	r.mu.Lock()
	defer r.mu.Unlock()

	created, err := jsonfile.EnsureFile(r.path, []json.RawMessage{})
	if err != nil {
		err = fmt.Errorf("failed creating orders file with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if created {
		logger.Info().Msg("created orders file")
	}
	return nil
}

func (r *FileRepository) List(c context.Context) ([]json.RawMessage, error) {
	c, span := otel.Tracer.Start(c, "FileRepository List")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "FileRepository List").
		Str(log.KeyOrdersPath, r.path).
		Logger()

	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.read()
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Int(log.KeyOrdersCount, len(orders)).Msg("read orders")

	return orders, nil
}

// Insert reads the stored orders, builds the new one from their count and
// writes it at the front of the list. The whole sequence holds the lock so
// two orders never see the same count.
func (r *FileRepository) Insert(c context.Context, build BuildFunc) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "FileRepository Insert")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "FileRepository Insert").
		Str(log.KeyOrdersPath, r.path).
		Logger()

	r.mu.Lock()
	defer r.mu.Unlock()

	logger = logger.With().Str(log.KeyProcess, "reading orders").Logger()
	logger.Trace().Msg("reading orders")
	orders, err := r.read()
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Trace().Int(log.KeyOrdersCount, len(orders)).Msg("read orders")

	order, err := build(len(orders))
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger = logger.With().Str(log.KeyOrderNumber, order.OrderNumber).Logger()

	logger = logger.With().Str(log.KeyProcess, "writing orders").Logger()
	logger.Trace().Msg("writing orders")
	encoded, err := json.Marshal(order)
	if err != nil {
		err = fmt.Errorf("failed encoding order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	orders = append([]json.RawMessage{encoded}, orders...)
	if err := jsonfile.Write(r.path, orders); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Int(log.KeyOrdersCount, len(orders)).Msg("wrote orders")

	return order, nil
}

// read treats a missing file as no orders. A file that exists but is not a
// JSON array is an error so it never gets overwritten.
func (r *FileRepository) read() ([]json.RawMessage, error) {
	orders := []json.RawMessage{}
	err := jsonfile.Read(r.path, &orders)
	switch {
	case err == nil:
		if orders == nil {
			orders = []json.RawMessage{}
		}
		return orders, nil
	case errors.Is(err, fs.ErrNotExist):
		return []json.RawMessage{}, nil
	default:
		return nil, fmt.Errorf("failed reading orders with error=%w", err)
	}
}
