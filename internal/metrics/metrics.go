package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shop"

// Возможные значения метки outcome.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics реестр метрик приложения с собственным prometheus.Registry,
// чтобы не зависеть от глобального состояния библиотеки в тестах.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Количество операций магазина по типу и исходу.",
	}, []string{"operation", "outcome"})
	registry.MustRegister(operations)

	return &Metrics{
		registry:   registry,
		operations: operations,
	}
}

// IncOperation инкрементирует счетчик операции магазина.
func (m *Metrics) IncOperation(operation, outcome string) {
	m.operations.WithLabelValues(operation, outcome).Inc()
}

// Handler возвращает http.Handler для отдачи метрик.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
