package service

import (
	"fmt"
	"strings"

	"github.com/mmeshcher/earning-bot/internal/model"
)

const (
	textUserNotFound   = "❌ User not found. Please send /start again."
	textUnknownCommand = "❌ Unknown command"
	textNewReferral    = "🎉 New referral! +50 points bonus!"
)

func welcomeText(refCode string) string {
	return "Welcome to Earning Bot!\n" +
		"Earn points, invite friends, and withdraw your earnings!\n" +
		fmt.Sprintf("Your referral code: <b>%s</b>", refCode)
}

func earnWaitText(remaining int64) string {
	return fmt.Sprintf("⏳ Please wait %d seconds before earning again!", remaining)
}

func earnDoneText(balance int64) string {
	return fmt.Sprintf("✅ You earned %d points!\nNew balance: %d", EarnReward, balance)
}

func balanceText(u *model.User) string {
	return fmt.Sprintf("💳 Your Balance\nPoints: %d\nReferrals: %d", u.Balance, u.Referrals)
}

func leaderboardText(top []model.LeaderboardEntry) string {
	var b strings.Builder
	b.WriteString("🏆 Top Earners\n")
	for i, entry := range top {
		fmt.Fprintf(&b, "%d. User %d: %d points\n", i+1, entry.ID, entry.Balance)
	}
	return b.String()
}

func referralsText(u *model.User, botUsername string) string {
	return "👥 Referral System\n" +
		fmt.Sprintf("Your code: <b>%s</b>\n", u.RefCode) +
		fmt.Sprintf("Referrals: %d\n", u.Referrals) +
		fmt.Sprintf("Invite link: %s\n", inviteLink(botUsername, u.RefCode)) +
		fmt.Sprintf("%d points per referral!", ReferralBonus)
}

func inviteLink(botUsername, refCode string) string {
	return fmt.Sprintf("t.me/%s?start=%s", botUsername, refCode)
}

func withdrawShortfallText(balance int64) string {
	return "🏧 Withdrawal\n" +
		fmt.Sprintf("Minimum: %d points\n", MinWithdrawal) +
		fmt.Sprintf("Your balance: %d\n", balance) +
		fmt.Sprintf("Need %d more points!", MinWithdrawal-balance)
}

func withdrawDoneText(amount int64) string {
	return fmt.Sprintf("🏧 Withdrawal of %d points requested!\nOur team will process it soon.", amount)
}

func helpText() string {
	return "❓ Help\n" +
		fmt.Sprintf("💰 Earn: Get %d points/min\n", EarnReward) +
		fmt.Sprintf("👥 Refer: %d points/ref\n", ReferralBonus) +
		fmt.Sprintf("🏧 Withdraw: Min %d points\n", MinWithdrawal) +
		"Use buttons below to navigate!"
}
