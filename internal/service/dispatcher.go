package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/earning-bot/internal/metrics"
	"github.com/mmeshcher/earning-bot/internal/model"
	"github.com/mmeshcher/earning-bot/internal/validation"
)

const (
	// EarnCooldown задаёт минимальный интервал между начислениями за кнопку earn.
	EarnCooldown = 60 * time.Second
	// EarnReward начисляется за одно нажатие earn.
	EarnReward = 10
	// ReferralBonus начисляется пригласившему за каждого нового пользователя.
	ReferralBonus = 50
	// MinWithdrawal задаёт минимальный баланс для вывода.
	MinWithdrawal = 100
	// LeaderboardSize задаёт количество строк в таблице лидеров.
	LeaderboardSize = 5

	startCommand = "/start"
)

// Outcome описывает результат обработки события: ответы для отправки
// и признак того, что реестр нужно сохранить.
type Outcome struct {
	Replies []model.Reply
	Persist bool
}

// Dispatcher применяет входящее событие к реестру.
type Dispatcher struct {
	botUsername string
	newCode     func() string
	logger      *zap.Logger
}

// NewDispatcher создаёт диспетчер команд. botUsername используется в пригласительной ссылке.
func NewDispatcher(botUsername string, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		botUsername: botUsername,
		newCode:     randomRefCode,
		logger:      logger,
	}
}

func randomRefCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:validation.RefCodeLength]
}

// Dispatch изменяет реестр l согласно событию ev в момент now.
func (d *Dispatcher) Dispatch(l *model.Ledger, ev model.Event, now time.Time) Outcome {
	switch ev.Kind {
	case model.EventText:
		return d.handleText(l, ev)
	case model.EventButton:
		return d.handleButton(l, ev, now)
	default:
		d.logger.Warn("unsupported event kind", zap.Int64("chat_id", ev.ChatID), zap.Stringer("kind", ev.Kind))
		return Outcome{}
	}
}

func (d *Dispatcher) handleText(l *model.Ledger, ev model.Event) Outcome {
	user := d.ensureUser(l, ev.ChatID)
	text := strings.TrimSpace(ev.Text)

	if !strings.HasPrefix(text, startCommand) {
		d.logger.Info("unhandled text message", zap.Int64("chat_id", ev.ChatID))
		return Outcome{Persist: true}
	}

	var replies []model.Reply

	args := strings.Fields(text)
	if len(args) > 1 && user.ReferredBy == nil {
		if notice, ok := d.resolveReferral(l, args[1], ev.ChatID); ok {
			replies = append(replies, notice)
		}
	}

	replies = append(replies, model.Reply{
		ChatID:   ev.ChatID,
		Text:     welcomeText(user.RefCode),
		Keyboard: true,
	})

	return Outcome{Replies: replies, Persist: true}
}

// ensureUser возвращает запись пользователя, создавая её при первом обращении.
func (d *Dispatcher) ensureUser(l *model.Ledger, id int64) *model.User {
	if u, ok := l.Get(id); ok {
		return u
	}

	u := &model.User{
		RefCode: d.generateRefCode(l),
	}
	l.Put(id, u)

	metrics.NewUsers.Inc()
	d.logger.Info("new user", zap.Int64("chat_id", id), zap.String("ref_code", u.RefCode))

	return u
}

// generateRefCode выдаёт код, которого ещё нет в реестре.
func (d *Dispatcher) generateRefCode(l *model.Ledger) string {
	code := d.newCode()
	for l.HasCode(code) {
		d.logger.Warn("referral code collision", zap.String("ref_code", code))
		code = d.newCode()
	}
	return code
}

// resolveReferral засчитывает приглашение владельцу кода и возвращает
// уведомление для него. Несуществующий код или собственный код игнорируются.
func (d *Dispatcher) resolveReferral(l *model.Ledger, code string, requesterID int64) (model.Reply, bool) {
	if !validation.IsValidRefCode(code) {
		return model.Reply{}, false
	}

	referrerID, ok := l.LookupCode(code, requesterID)
	if !ok {
		return model.Reply{}, false
	}

	requester, _ := l.Get(requesterID)
	referrer, _ := l.Get(referrerID)

	requester.ReferredBy = &referrerID
	referrer.Referrals++
	referrer.Balance += ReferralBonus

	metrics.Referrals.Inc()
	d.logger.Info("referral credited",
		zap.Int64("referrer_id", referrerID),
		zap.Int64("referred_id", requesterID),
	)

	return model.Reply{ChatID: referrerID, Text: textNewReferral}, true
}

func (d *Dispatcher) handleButton(l *model.Ledger, ev model.Event, now time.Time) Outcome {
	user, ok := l.Get(ev.ChatID)
	if !ok {
		return Outcome{
			Replies: []model.Reply{{ChatID: ev.ChatID, Text: textUserNotFound}},
		}
	}

	var text string

	switch ev.Command {
	case model.CommandEarn:
		text = d.earn(user, now)
	case model.CommandBalance:
		text = balanceText(user)
	case model.CommandLeaderboard:
		text = leaderboardText(l.Top(LeaderboardSize))
	case model.CommandReferrals:
		text = referralsText(user, d.botUsername)
	case model.CommandWithdraw:
		text = d.withdraw(user, ev.ChatID)
	case model.CommandHelp:
		text = helpText()
	default:
		d.logger.Info("unknown button command", zap.Int64("chat_id", ev.ChatID), zap.String("command", string(ev.Command)))
		text = textUnknownCommand
	}

	return Outcome{
		Replies: []model.Reply{{ChatID: ev.ChatID, Text: text, Keyboard: true}},
		Persist: true,
	}
}

func (d *Dispatcher) earn(user *model.User, now time.Time) string {
	elapsed := now.Unix() - user.LastEarn
	cooldown := int64(EarnCooldown / time.Second)

	if elapsed < cooldown {
		return earnWaitText(cooldown - elapsed)
	}

	user.Balance += EarnReward
	user.LastEarn = now.Unix()

	return earnDoneText(user.Balance)
}

func (d *Dispatcher) withdraw(user *model.User, chatID int64) string {
	if user.Balance < MinWithdrawal {
		return withdrawShortfallText(user.Balance)
	}

	amount := user.Balance
	user.Balance = 0

	d.logger.Info("withdrawal requested", zap.Int64("chat_id", chatID), zap.Int64("amount", amount))

	return withdrawDoneText(amount)
}
