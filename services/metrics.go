package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lager",
			Name:      "scans_total",
			Help:      "Camera barcode scans by outcome",
		},
		[]string{"result"},
	)

	StockAdjustments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lager",
			Name:      "stock_adjustments_total",
			Help:      "Stock quantity changes by kind (add, set, scan)",
		},
		[]string{"kind"},
	)

	BarcodesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lager",
			Name:      "barcodes_total",
			Help:      "Barcode artifact resolutions by outcome",
		},
		[]string{"result"},
	)
)
