package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mmeshcher/earning-bot/internal/model"
)

// EventFromUpdate превращает обновление Telegram в событие бота.
// Для нажатия кнопки также возвращается идентификатор callback-запроса.
// ok == false означает, что обновление не содержит поддерживаемых данных.
func EventFromUpdate(update tgbotapi.Update) (ev model.Event, callbackID string, ok bool) {
	switch {
	case update.Message != nil:
		if update.Message.Chat == nil {
			return model.Event{}, "", false
		}
		return model.Event{
			Kind:   model.EventText,
			ChatID: update.Message.Chat.ID,
			Text:   update.Message.Text,
		}, "", true

	case update.CallbackQuery != nil:
		cq := update.CallbackQuery
		if cq.Message == nil || cq.Message.Chat == nil {
			return model.Event{}, "", false
		}
		return model.Event{
			Kind:    model.EventButton,
			ChatID:  cq.Message.Chat.ID,
			Command: model.Command(cq.Data),
		}, cq.ID, true
	}

	return model.Event{}, "", false
}
