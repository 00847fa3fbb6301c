package httpinterface

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var operationsCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "barterd_trade_operations_total",
		Help: "Total number of trade protocol operations by outcome.",
	},
	[]string{"operation", "outcome"},
)

func countOperation(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	operationsCounter.WithLabelValues(operation, outcome).Inc()
}
