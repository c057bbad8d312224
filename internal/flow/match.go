package flow

import (
	"log/slog"

	"peredachka-bot/internal/logger"
	"peredachka-bot/internal/models"
	tghelpers "peredachka-bot/internal/telegram/helpers"
	"peredachka-bot/internal/telegram/state"

	tele "gopkg.in/telebot.v4"
)

// deliverMatches looks up counterpart requests for a just-saved one and sends
// each as its own message. Senders are matched against courier travel dates
// inside their window; couriers against sender windows covering their date.
func (f *Flow) deliverMatches(c tele.Context, form state.Form, req models.Request) error {
	ctx := tghelpers.BuildContext(c)

	var (
		matches []models.Match
		err     error
	)
	switch form.Role {
	case models.RoleSender:
		matches, err = f.store.MatchesForSender(ctx, req.OriginID, req.DestinationID, form.DateFrom, form.DateTo)
	case models.RoleCourier:
		matches, err = f.store.MatchesForCourier(ctx, req.OriginID, req.DestinationID, form.TravelDate)
	}
	if err != nil {
		return err
	}
	matches = keepOverlapping(form, matches)

	logger.LogEvent(ctx, logger.MATCH, slog.LevelInfo, "match.completed",
		slog.String("status", "ok"),
		slog.Int64("request_id", req.ID),
		slog.String("role", string(form.Role)),
		slog.String("counterpart_role", string(form.Role.Opposite())),
		slog.Int("matches", len(matches)),
	)

	if len(matches) == 0 {
		_, err := f.msg.Send(c, msgNoMatches, nil)
		return err
	}
	for _, m := range matches {
		if _, err := f.msg.Send(c, renderMatch(m), nil); err != nil {
			return err
		}
	}
	return nil
}

// keepOverlapping drops counterpart rows whose dates do not intersect the
// finalized request's window. The store queries filter on the same predicate;
// this guards rows whose date shape violates it.
func keepOverlapping(form state.Form, matches []models.Match) []models.Match {
	out := matches[:0]
	for _, m := range matches {
		switch form.Role {
		case models.RoleSender:
			if m.TravelDate.Valid && rangeContains(form.DateFrom, form.DateTo, m.TravelDate.Time) {
				out = append(out, m)
			}
		case models.RoleCourier:
			if m.DateFrom.Valid && m.DateTo.Valid && rangeContains(m.DateFrom.Time, m.DateTo.Time, form.TravelDate) {
				out = append(out, m)
			}
		}
	}
	return out
}
