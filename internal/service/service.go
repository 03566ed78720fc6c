// Package service реализует бизнес-логику бота начисления баллов.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/earning-bot/internal/metrics"
	"github.com/mmeshcher/earning-bot/internal/model"
)

// Repository описывает контракт хранилища реестра, используемый сервисом.
type Repository interface {
	Close() error
	Load(ctx context.Context) (*model.Ledger, error)
	Save(ctx context.Context, l *model.Ledger) error
}

// Sender отправляет ответы пользователям.
type Sender interface {
	Send(ctx context.Context, reply model.Reply) error
}

// Locker предоставляет блокировку, общую для нескольких экземпляров бота.
type Locker interface {
	Lock(ctx context.Context) (func(), error)
}

// Service выполняет цикл загрузка-изменение-сохранение для каждого события.
type Service struct {
	repo       Repository
	sender     Sender
	dispatcher *Dispatcher
	locker     Locker
	logger     *zap.Logger
	now        func() time.Time

	mu sync.Mutex
}

// Option настраивает Service.
type Option func(*Service)

// WithLocker добавляет распределённую блокировку поверх локального мьютекса.
func WithLocker(l Locker) Option {
	return func(s *Service) {
		s.locker = l
	}
}

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService создаёт сервис с указанным хранилищем, отправителем и диспетчером.
func NewService(repo Repository, sender Sender, dispatcher *Dispatcher, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		sender:     sender,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// HandleEvent обрабатывает одно входящее событие. Ошибки хранилища и отправки
// логируются и не возвращаются; ошибка возвращается, только если не удалось
// получить блокировку реестра.
func (s *Service) HandleEvent(ctx context.Context, ev model.Event) error {
	start := time.Now()
	defer func() {
		metrics.EventDuration.Observe(time.Since(start).Seconds())
	}()

	metrics.HandledEvents.WithLabelValues(ev.Kind.String()).Inc()
	if ev.Kind == model.EventButton {
		metrics.ButtonCommands.WithLabelValues(commandLabel(ev.Command)).Inc()
	}

	replies, err := s.apply(ctx, ev)
	if err != nil {
		return err
	}

	// Ответы отправляются и после отмены запроса.
	ctx = context.WithoutCancel(ctx)

	for _, reply := range replies {
		if err := s.sender.Send(ctx, reply); err != nil {
			metrics.SendFailures.Inc()
			s.logger.Error("send message failed", zap.Int64("chat_id", reply.ChatID), zap.Error(err))
		}
	}

	return nil
}

// apply выполняет загрузку, изменение и сохранение реестра под блокировкой.
func (s *Service) apply(ctx context.Context, ev model.Event) ([]model.Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx)
		if err != nil {
			return nil, fmt.Errorf("lock ledger: %w", err)
		}
		defer unlock()
	}

	ledger, err := s.repo.Load(ctx)
	if err != nil {
		metrics.StoreFailures.WithLabelValues("load").Inc()
		s.logger.Error("load users failed", zap.Error(err))
	}
	if ledger == nil {
		ledger = model.NewLedger()
	}

	outcome := s.dispatcher.Dispatch(ledger, ev, s.now())

	if outcome.Persist {
		// Сохранение не зависит от отмены запроса.
		if err := s.repo.Save(context.WithoutCancel(ctx), ledger); err != nil {
			metrics.StoreFailures.WithLabelValues("save").Inc()
			s.logger.Error("save users failed", zap.Error(err))
		}
	}

	return outcome.Replies, nil
}

func commandLabel(c model.Command) string {
	switch c {
	case model.CommandEarn, model.CommandBalance, model.CommandLeaderboard,
		model.CommandReferrals, model.CommandWithdraw, model.CommandHelp:
		return string(c)
	default:
		return "unknown"
	}
}
