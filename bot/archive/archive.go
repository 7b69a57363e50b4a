// Package archive relays uploaded files into the private archive
// channel that backs the issued Telegram links.
package archive

import (
	"fmt"

	"filebot/core/logger"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Relay forwards messages to the archive channel.
type Relay struct {
	bot    *tele.Bot
	chatID int64
}

// NewRelay binds a bot instance to the archive channel ID.
func NewRelay(bot *tele.Bot, chatID int64) *Relay {
	return &Relay{bot: bot, chatID: chatID}
}

// Forward copies the message into the archive channel and returns the
// archived message ID. The call is bounded by the bot's HTTP client
// timeout; failures are recoverable and reported to the user upstream.
func (r *Relay) Forward(msg tele.Editable) (int, error) {
	stored, err := r.bot.Forward(tele.ChatID(r.chatID), msg)
	if err != nil {
		logger.TG.Warn("archive forward failed",
			slog.String("event", "archive.forward"),
			slog.Int64("chat_id", r.chatID),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return 0, fmt.Errorf("archive: forward failed: %w", err)
	}
	return stored.ID, nil
}
