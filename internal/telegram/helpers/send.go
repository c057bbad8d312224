package helpers

import (
	"sync/atomic"
	"time"

	"peredachka-bot/internal/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by helper functions.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

func currentDispatcher() *sender.Dispatcher {
	return globalDispatcher.Load()
}

// DeleteAfter schedules the message for deletion once ttl elapses. Falls back
// to a bare timer when the dispatcher is not wired (tests).
func DeleteAfter(c tele.Context, msg *tele.Message, ttl time.Duration) {
	bot := c.Bot()
	if bot == nil || msg == nil {
		return
	}
	disp := currentDispatcher()
	if disp == nil {
		time.AfterFunc(ttl, func() { _ = bot.Delete(msg) })
		return
	}
	ctx := BuildContext(c)
	disp.EnqueueAfter(ctx, "delete.delayed", "deleteMessage", ttl, func() error {
		return bot.Delete(msg)
	})
}

// SendEphemeral sends a plain notice and removes it after ttl, keeping the
// chat clean of transient hints.
func SendEphemeral(c tele.Context, text string, ttl time.Duration) error {
	bot := c.Bot()
	if bot == nil {
		return c.Send(text)
	}
	msg, err := bot.Send(c.Recipient(), text)
	if err != nil {
		return err
	}
	DeleteAfter(c, msg, ttl)
	return nil
}
