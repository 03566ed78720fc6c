// Package metrics содержит prometheus-метрики бота.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HandledEvents считает обработанные события по типу.
	HandledEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "earnbot_events_total",
		Help: "Processed inbound events by kind.",
	}, []string{"kind"})

	// ButtonCommands считает нажатия кнопок по тегу.
	ButtonCommands = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "earnbot_button_commands_total",
		Help: "Button presses by command tag.",
	}, []string{"command"})

	// NewUsers считает созданные записи пользователей.
	NewUsers = promauto.NewCounter(prometheus.CounterOpts{
		Name: "earnbot_new_users_total",
		Help: "Users added to the ledger.",
	})

	// Referrals считает засчитанные приглашения.
	Referrals = promauto.NewCounter(prometheus.CounterOpts{
		Name: "earnbot_referrals_total",
		Help: "Credited referrals.",
	})

	// SendFailures считает ошибки отправки сообщений.
	SendFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "earnbot_send_failures_total",
		Help: "Outbound messages that failed to send.",
	})

	// StoreFailures считает ошибки хранилища по операции.
	StoreFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "earnbot_store_failures_total",
		Help: "Ledger store failures by operation.",
	}, []string{"op"})

	// EventDuration измеряет длительность цикла загрузка-изменение-сохранение.
	EventDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "earnbot_event_duration_seconds",
		Help:    "Time spent processing one inbound event.",
		Buckets: prometheus.DefBuckets,
	})
)
