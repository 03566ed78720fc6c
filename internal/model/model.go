// Package model содержит доменные сущности бота начисления баллов.
package model

// User представляет запись пользователя в реестре баллов.
type User struct {
	Balance    int64  `json:"balance"`
	LastEarn   int64  `json:"last_earn"`
	Referrals  int64  `json:"referrals"`
	RefCode    string `json:"ref_code"`
	ReferredBy *int64 `json:"referred_by"`
}

// EventKind описывает тип входящего события.
type EventKind int

const (
	// EventText соответствует текстовому сообщению пользователя.
	EventText EventKind = iota + 1
	// EventButton соответствует нажатию inline-кнопки.
	EventButton
)

// String возвращает имя типа события для логов и метрик.
func (k EventKind) String() string {
	switch k {
	case EventText:
		return "text"
	case EventButton:
		return "button"
	default:
		return "unknown"
	}
}

// Command описывает тег inline-кнопки.
type Command string

const (
	CommandEarn        Command = "earn"
	CommandBalance     Command = "balance"
	CommandLeaderboard Command = "leaderboard"
	CommandReferrals   Command = "referrals"
	CommandWithdraw    Command = "withdraw"
	CommandHelp        Command = "help"
)

// Event описывает входящее событие, полученное от транспортного адаптера.
type Event struct {
	Kind    EventKind
	ChatID  int64
	Text    string
	Command Command
}

// Reply описывает исходящее сообщение. Keyboard означает, что к тексту
// прикладывается основная клавиатура.
type Reply struct {
	ChatID   int64
	Text     string
	Keyboard bool
}
