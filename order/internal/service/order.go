package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/cart/pkg/cart"
	"github.com/Alturino/storefront/catalog/pkg/model"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/metrics"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/order/internal/otel"
	"github.com/Alturino/storefront/order/internal/repository"
	"github.com/Alturino/storefront/order/pkg/request"
	"github.com/Alturino/storefront/order/pkg/response"
)

const (
	PaymentEtransfer = "etransfer"
	orderNumberRand  = 4
	base36           = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

type CatalogReader interface {
	Catalog(c context.Context) (*model.Catalog, error)
}

type Repository interface {
	Insert(c context.Context, build repository.BuildFunc) (response.Order, error)
	List(c context.Context) ([]json.RawMessage, error)
}

type OrderService struct {
	repository Repository
	catalog    CatalogReader
	now        func() time.Time
	intN       func(n int) int
}

func NewOrderService(repository Repository, catalog CatalogReader) *OrderService {
	return &OrderService{
		repository: repository,
		catalog:    catalog,
		now:        time.Now,
		intN:       rand.IntN,
	}
}

// NewOrderNumber formats PS-<base36 unix ms>-<4 random base36 chars>.
func NewOrderNumber(now time.Time, intN func(n int) int) string {
	suffix := make([]byte, orderNumberRand)
	for i := range suffix {
		suffix[i] = base36[intN(len(base36))]
	}
	return fmt.Sprintf(
		"PS-%s-%s",
		strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36)),
		suffix,
	)
}

// PickQA rotates through the configured security questions by order count.
func PickQA(qa []model.QA, orderCount int) model.QA {
	if len(qa) == 0 || orderCount < 0 {
		return model.QA{}
	}
	return qa[orderCount%len(qa)]
}

// CreateOrder prices the request from the catalog, refuses carts that cannot
// check out and stores the order with status PENDING_PAYMENT.
func (svc *OrderService) CreateOrder(
	c context.Context,
	req request.CreateOrder,
) (response.CreatedOrder, error) {
	c, span := otel.Tracer.Start(c, "OrderService CreateOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService CreateOrder").
		Int(log.KeyCartLines, len(req.Items)).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "reading catalog").Logger()
	logger.Trace().Msg("reading catalog")
	catalog, err := svc.catalog.Catalog(c)
	if err != nil {
		metrics.OrderTotal.WithLabelValues(metrics.ResultFailed).Inc()
		err = fmt.Errorf("failed reading catalog with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CreatedOrder{}, err
	}
	logger.Trace().Msg("read catalog")

	if len(req.Items) == 0 {
		metrics.OrderTotal.WithLabelValues(metrics.ResultFailed).Inc()
		err := cart.ErrEmptyCart
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CreatedOrder{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "pricing cart").Logger()
	logger.Trace().Msg("pricing cart")
	quote, err := cart.NewQuote(catalog, req.Items)
	if err == nil {
		err = cart.CheckCheckout(quote)
	}
	if err != nil {
		metrics.OrderTotal.WithLabelValues(metrics.ResultFailed).Inc()
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CreatedOrder{}, err
	}
	logger.Trace().Str("subtotal", quote.Subtotal.String()).Msg("priced cart")

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = PaymentEtransfer
	}

	var qa model.QA
	logger = logger.With().Str(log.KeyProcess, "inserting order").Logger()
	logger.Trace().Msg("inserting order")
	order, err := svc.repository.Insert(c, func(count int) (response.Order, error) {
		qa = PickQA(catalog.Settings.Payments.Etransfer.QA, count)
		now := svc.now().UTC()
		return response.Order{
			OrderNumber:     NewOrderNumber(now, svc.intN),
			CreatedAt:       now,
			Status:          response.StatusPendingPayment,
			Customer:        req.Customer,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   paymentMethod,
			CryptoCurrency:  req.CryptoCurrency,
			Notes:           req.Notes,
			Items:           quote.Lines,
			Subtotal:        quote.Subtotal,
			Shipping:        quote.Shipping,
			Total:           quote.Total,
		}, nil
	})
	if err != nil {
		metrics.OrderTotal.WithLabelValues(metrics.ResultFailed).Inc()
		err = fmt.Errorf("failed inserting order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CreatedOrder{}, err
	}
	logger = logger.With().Str(log.KeyOrderNumber, order.OrderNumber).Logger()
	logger.Info().Msg("inserted order")

	metrics.OrderTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	etransfer := catalog.Settings.Payments.Etransfer
	return response.CreatedOrder{
		Ok:          true,
		OrderNumber: order.OrderNumber,
		Totals: response.Totals{
			Subtotal:      order.Subtotal,
			Shipping:      order.Shipping,
			Total:         order.Total,
			QualifiesFree: quote.QualifiesFreeShipping,
		},
		Etransfer: response.Etransfer{
			Email:     etransfer.Email,
			Recipient: etransfer.Recipient,
			Question:  qa.Q,
			Answer:    qa.A,
		},
		Crypto:     catalog.Crypto(),
		Disclaimer: catalog.Settings.Disclaimer,
	}, nil
}

func (svc *OrderService) ListOrders(c context.Context) ([]json.RawMessage, error) {
	c, span := otel.Tracer.Start(c, "OrderService ListOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService ListOrders").
		Str(log.KeyProcess, "finding orders").
		Logger()

	logger.Trace().Msg("finding orders")
	orders, err := svc.repository.List(c)
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Int(log.KeyOrdersCount, len(orders)).Msg("found orders")

	return orders, nil
}
