// Package handler содержит HTTP-обработчики вебхука бота.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/earning-bot/internal/model"
	"github.com/mmeshcher/earning-bot/internal/telegram"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	HandleEvent(ctx context.Context, ev model.Event) error
}

// Bot описывает операции Bot API, нужные обработчикам напрямую.
type Bot interface {
	AnswerCallback(ctx context.Context, callbackID string) error
	SetWebhook(ctx context.Context, url string) error
}

// Handler реализует HTTP-обработчики вебхука.
type Handler struct {
	service     Service
	bot         Bot
	webhookURL  string
	webhookPath string
	logger      *zap.Logger
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
// webhookURL регистрируется в Telegram, по пути webhookPath принимаются обновления.
func NewHandler(s Service, bot Bot, webhookURL, webhookPath string, logger *zap.Logger) *Handler {
	return &Handler{
		service:     s,
		bot:         bot,
		webhookURL:  webhookURL,
		webhookPath: webhookPath,
		logger:      logger,
	}
}

// Webhook принимает обновление Telegram и передаёт его в сервис.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	ev, callbackID, ok := telegram.EventFromUpdate(update)
	if !ok {
		h.logger.Debug("ignored update", zap.Int("update_id", update.UpdateID))
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.service.HandleEvent(r.Context(), ev); err != nil {
		h.logger.Error("process update error", zap.Error(err), zap.Int64("chat_id", ev.ChatID))
		http.Error(w, "Error processing update", http.StatusInternalServerError)
		return
	}

	if callbackID != "" {
		if err := h.bot.AnswerCallback(r.Context(), callbackID); err != nil {
			h.logger.Warn("answer callback error", zap.Error(err), zap.String("callback_id", callbackID))
		}
	}

	w.WriteHeader(http.StatusOK)
}

// RegisterWebhook регистрирует адрес вебхука в Telegram.
func (h *Handler) RegisterWebhook(w http.ResponseWriter, r *http.Request) {
	if h.webhookURL == "" {
		http.Error(w, "External URL is not configured", http.StatusInternalServerError)
		return
	}

	if err := h.bot.SetWebhook(r.Context(), h.webhookURL); err != nil {
		h.logger.Error("set webhook error", zap.Error(err), zap.String("url", h.webhookURL))
		http.Error(w, "Failed to set webhook", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Webhook set successfully!"))
}

// Health сообщает, что процесс жив.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
