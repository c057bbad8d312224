package flow

import (
	"fmt"
	"strconv"
	"time"

	tghelpers "peredachka-bot/internal/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Messenger abstracts the outbound message operations the wizard needs, so
// handlers can be exercised without a live bot.
type Messenger interface {
	// Send delivers a message to the update's chat and returns its ID.
	Send(c tele.Context, text string, markup *tele.ReplyMarkup) (int, error)
	// Edit rewrites a previously sent message in place.
	Edit(c tele.Context, chatID int64, messageID int, text string, markup *tele.ReplyMarkup) error
	// Delete removes a message immediately.
	Delete(c tele.Context, chatID int64, messageID int) error
	// SendEphemeral delivers a transient notice removed after ttl.
	SendEphemeral(c tele.Context, text string, ttl time.Duration) error
}

// botMessenger implements Messenger on the live telebot connection.
type botMessenger struct{}

// NewBotMessenger returns the production Messenger.
func NewBotMessenger() Messenger {
	return botMessenger{}
}

func stored(chatID int64, messageID int) tele.Editable {
	return &tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}
}

// sendOpts renders wizard summaries and match cards in Markdown; user-typed
// values are escaped at render time.
func sendOpts(markup *tele.ReplyMarkup) *tele.SendOptions {
	return &tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: markup}
}

func (botMessenger) Send(c tele.Context, text string, markup *tele.ReplyMarkup) (int, error) {
	bot := c.Bot()
	if bot == nil {
		return 0, fmt.Errorf("messenger: no bot on context")
	}
	msg, err := bot.Send(c.Recipient(), text, sendOpts(markup))
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

func (botMessenger) Edit(c tele.Context, chatID int64, messageID int, text string, markup *tele.ReplyMarkup) error {
	bot := c.Bot()
	if bot == nil {
		return fmt.Errorf("messenger: no bot on context")
	}
	_, err := bot.Edit(stored(chatID, messageID), text, sendOpts(markup))
	return err
}

func (botMessenger) Delete(c tele.Context, chatID int64, messageID int) error {
	bot := c.Bot()
	if bot == nil {
		return fmt.Errorf("messenger: no bot on context")
	}
	return bot.Delete(stored(chatID, messageID))
}

func (botMessenger) SendEphemeral(c tele.Context, text string, ttl time.Duration) error {
	return tghelpers.SendEphemeral(c, text, ttl)
}
