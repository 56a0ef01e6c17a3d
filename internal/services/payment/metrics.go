package payment

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Счётчики платёжного цикла, отдаются через /metrics.
var (
	paymentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fitcoach_payments_created_total",
		Help: "Количество созданных в шлюзе платежей.",
	})
	gatewayPolls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fitcoach_gateway_polls_total",
		Help: "Количество успешных опросов статуса платежа в шлюзе.",
	})
	activationsSucceeded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fitcoach_activations_succeeded_total",
		Help: "Количество успешных активаций подписки по платежу.",
	})
	activationsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fitcoach_activations_failed_total",
		Help: "Количество неудачных активаций подписки по платежу.",
	})
)
