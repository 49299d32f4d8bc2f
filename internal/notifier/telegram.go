package notifier

import (
	"fmt"
	"time"

	"github.com/CreativeDragon1/Earn2Die/internal/config"
	"github.com/CreativeDragon1/Earn2Die/pkg/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier posts server announcements to a Telegram channel. All methods
// are safe on a nil or unconfigured notifier and never return errors to
// the caller: a failed announcement is logged and dropped.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func New(cfg *config.Config) *Notifier {
	if cfg.TelegramBotToken == "" || cfg.AnnouncementChatID == 0 {
		logger.Info("Announcements disabled (no bot token or chat id configured)")
		return nil
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		logger.Warn("Failed to initialize announcement bot, announcements disabled", "error", err)
		return nil
	}

	logger.Info("Announcement bot authorized", "account", bot.Self.UserName)
	return &Notifier{bot: bot, chatID: cfg.AnnouncementChatID}
}

func (n *Notifier) send(text string) {
	if n == nil || n.bot == nil {
		return
	}
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		logger.Warn("Failed to send announcement", "error", err)
	}
}

func (n *Notifier) TownApproved(townName string, population int) {
	n.send(fmt.Sprintf("🏰 The settlement of %s has been approved with %d founding members!", townName, population))
}

func (n *Notifier) WarDeclared(attackingTown, defendingTown string, earliestCombat time.Time) {
	n.send(fmt.Sprintf("⚔️ %s has declared war on %s! Combat may not begin before %s.",
		attackingTown, defendingTown, earliestCombat.UTC().Format(time.RFC1123)))
}

func (n *Notifier) WarActivated(attackingTown, defendingTown string) {
	n.send(fmt.Sprintf("🔥 The war between %s and %s is now active!", attackingTown, defendingTown))
}

func (n *Notifier) VerdictIssued(caseNumber, decision string) {
	n.send(fmt.Sprintf("⚖️ Case %s has been decided: %s.", caseNumber, decision))
}
