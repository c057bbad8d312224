package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// PayloadString returns the trimmed callback payload, reporting presence.
func PayloadString(c tele.Context) (string, bool) {
	p := strings.TrimSpace(CallbackPayload(c))
	return p, p != ""
}
