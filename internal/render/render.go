// Package render преобразует ответы бота в сообщения Telegram.
package render

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mmeshcher/earning-bot/internal/model"
)

// InlineMarkUp описывает inline-клавиатуру как набор строк.
type InlineMarkUp struct {
	Rows []InlineRow
}

// NewIlMarkUp создаёт inline-клавиатуру из строк.
func NewIlMarkUp(rows ...InlineRow) InlineMarkUp {
	return InlineMarkUp{
		Rows: rows,
	}
}

// InlineRow описывает одну строку кнопок.
type InlineRow struct {
	Buttons []InlineDataButton
}

// NewIlRow создаёт строку из кнопок.
func NewIlRow(buttons ...InlineDataButton) InlineRow {
	return InlineRow{
		Buttons: buttons,
	}
}

// InlineDataButton описывает кнопку, которая при нажатии присылает тег команды.
type InlineDataButton struct {
	text string
	data model.Command
}

// NewIlDataButton создаёт кнопку с текстом и тегом команды.
func NewIlDataButton(text string, data model.Command) InlineDataButton {
	return InlineDataButton{
		text: text,
		data: data,
	}
}

// Build собирает клавиатуру в формате Bot API.
func (m InlineMarkUp) Build() tgbotapi.InlineKeyboardMarkup {
	var markUp tgbotapi.InlineKeyboardMarkup

	for _, row := range m.Rows {
		markUp.InlineKeyboard = append(markUp.InlineKeyboard, row.build())
	}
	return markUp
}

func (r InlineRow) build() []tgbotapi.InlineKeyboardButton {
	var row []tgbotapi.InlineKeyboardButton

	for _, butt := range r.Buttons {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(butt.text, string(butt.data)))
	}
	return row
}

// MainKeyboard возвращает неизменную основную клавиатуру 3x2.
func MainKeyboard() tgbotapi.InlineKeyboardMarkup {
	return NewIlMarkUp(
		NewIlRow(
			NewIlDataButton("💰 Earn", model.CommandEarn),
			NewIlDataButton("💳 Balance", model.CommandBalance)),
		NewIlRow(
			NewIlDataButton("🏆 Leaderboard", model.CommandLeaderboard),
			NewIlDataButton("👥 Referrals", model.CommandReferrals)),
		NewIlRow(
			NewIlDataButton("🏧 Withdraw", model.CommandWithdraw),
			NewIlDataButton("❓ Help", model.CommandHelp)),
	).Build()
}

// Message превращает ответ в готовое к отправке сообщение с HTML-разметкой.
func Message(reply model.Reply) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(reply.ChatID, reply.Text)
	msg.ParseMode = tgbotapi.ModeHTML

	if reply.Keyboard {
		msg.ReplyMarkup = MainKeyboard()
	}

	return msg
}
