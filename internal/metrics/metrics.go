package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
)

var (
	LoginTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_total",
		Help:      "Admin login attempts by result.",
	}, []string{"result"})

	CatalogWriteTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_write_total",
		Help:      "Catalog replace requests by result.",
	}, []string{"result"})

	CatalogCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_cache_total",
		Help:      "Catalog cache lookups by outcome.",
	}, []string{"outcome"})

	UploadTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upload_total",
		Help:      "Image uploads by backend and result.",
	}, []string{"backend", "result"})

	UploadBytes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upload_bytes_total",
		Help:      "Bytes stored by successful uploads.",
	})

	OrderTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_total",
		Help:      "Order submissions by result.",
	}, []string{"result"})
)
