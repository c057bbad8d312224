package flow

import (
	"fmt"
	"strings"

	"peredachka-bot/internal/models"
	"peredachka-bot/internal/storage"
	"peredachka-bot/internal/telegram/format"
	tghelpers "peredachka-bot/internal/telegram/helpers"
	"peredachka-bot/internal/telegram/state"
)

const (
	msgChooseRole     = "Кто вы?"
	msgPromptFrom     = "Отправить из:\n(введите название города ответом на это сообщение)"
	msgPromptTo       = "Отправить в:\n(введите название города ответом на это сообщение)"
	msgPromptDate     = "Дата поездки:\n(формат ДД.ММ.ГГГГ)"
	msgPromptRange    = "Период отправки:\n(формат ДД.ММ.ГГГГ - ДД.ММ.ГГГГ)"
	msgPromptBaggage  = "Выберите тип багажа:"
	msgPromptComment  = "Комментарий к заявке:\n(ответом на это сообщение)"
	msgSwipeHint      = "Сделайте свайп по сообщению выше ^^^"
	msgBadDate        = "Неверная дата. Формат: ДД.ММ.ГГГГ, не раньше сегодня и не позже чем через 60 дней."
	msgBadRange       = "Неверный период. Формат: ДД.ММ.ГГГГ - ДД.ММ.ГГГГ, начало не позже конца, в пределах 60 дней."
	msgSameCity       = "Город назначения должен отличаться от города отправления."
	msgBaggageDup     = "Уже выбрано"
	msgBaggageEmpty   = "Выберите хотя бы один тип багажа"
	msgCancelled      = "Заявка отменена. Отправьте /start, чтобы начать заново."
	msgNothingCancel  = "Нет активной заявки. Отправьте /start, чтобы начать."
	msgProfileMissing = "Не нашли ваш профиль. Отправьте /start, чтобы зарегистрироваться заново."
	msgSaved          = "Заявка сохранена. Ищем встречные заявки..."
	msgNoMatches      = "Пока нет встречных заявок по вашему маршруту. Мы сохранили заявку."
	msgIdleFallback   = "Отправьте /start, чтобы создать заявку."
)

const (
	cbRole        = "role"
	cbBaggage     = "baggage"
	cbBaggageDone = "baggage_done"
	cbConfirm     = "confirm"
	cbEdit        = "edit"
)

// md escapes free text so user input cannot break the Markdown rendering of
// summaries and match cards.
func md(s string) string {
	out, err := format.EscapeMarkdown(s, format.MarkdownV1)
	if err != nil {
		return s
	}
	return out
}

// renderSummary builds the running summary message edited in place as the
// wizard accumulates fields. Field labels are bold; user-typed values are
// escaped.
func renderSummary(f *state.Form) string {
	var b strings.Builder
	b.WriteString("*Заявка:* ")
	b.WriteString(f.Role.Label())
	if f.OriginName != "" {
		b.WriteString("\n*Из:* ")
		b.WriteString(md(f.OriginName))
	}
	if f.DestinationName != "" {
		b.WriteString("\n*В:* ")
		b.WriteString(md(f.DestinationName))
	}
	switch {
	case !f.TravelDate.IsZero():
		b.WriteString("\n*Дата:* ")
		b.WriteString(tghelpers.FormatWizardDate(f.TravelDate))
	case !f.DateFrom.IsZero() && !f.DateTo.IsZero():
		b.WriteString("\n*Период:* ")
		b.WriteString(tghelpers.FormatWizardDate(f.DateFrom))
		b.WriteString(" - ")
		b.WriteString(tghelpers.FormatWizardDate(f.DateTo))
	}
	if len(f.Baggage) > 0 {
		labels := make([]string, 0, len(f.Baggage))
		for _, k := range f.Baggage {
			labels = append(labels, k.Label())
		}
		b.WriteString("\n*Багаж:* ")
		b.WriteString(strings.Join(labels, ", "))
	}
	if f.Comment != "" {
		b.WriteString("\n*Комментарий:* ")
		b.WriteString(md(f.Comment))
	}
	return b.String()
}

// renderConfirmation appends the confirm question to the summary.
func renderConfirmation(f *state.Form) string {
	return renderSummary(f) + "\n\nВсё верно?"
}

// renderMatch builds one message per counterpart request.
func renderMatch(m models.Match) string {
	var b strings.Builder
	b.WriteString("*")
	b.WriteString(m.Role().Label())
	b.WriteString(":* ")
	b.WriteString(md(m.CounterpartName))
	b.WriteString("\n*Маршрут:* ")
	b.WriteString(md(m.OriginName))
	b.WriteString(" → ")
	b.WriteString(md(m.DestinationName))
	switch {
	case m.TravelDate.Valid:
		b.WriteString("\n*Дата:* ")
		b.WriteString(tghelpers.FormatWizardDate(m.TravelDate.Time))
	case m.DateFrom.Valid && m.DateTo.Valid:
		b.WriteString("\n*Период:* ")
		b.WriteString(tghelpers.FormatWizardDate(m.DateFrom.Time))
		b.WriteString(" - ")
		b.WriteString(tghelpers.FormatWizardDate(m.DateTo.Time))
	}
	if m.BaggageKinds != "" {
		b.WriteString("\n*Багаж:* ")
		b.WriteString(models.BaggageLabels(m.BaggageKinds))
	}
	if m.Comment != "" {
		b.WriteString("\n*Комментарий:* ")
		b.WriteString(md(m.Comment))
	}
	return b.String()
}

// renderStats formats the admin /stats reply.
func renderStats(st storage.Stats) string {
	return fmt.Sprintf(
		"Пользователи: %d\nОтправители: %d\nКурьеры: %d\nЗаявки отправителей: %d\nЗаявки курьеров: %d\nНовые: %d\nВыполненные: %d",
		st.Users, st.Senders, st.Couriers,
		st.SenderRequests, st.CourierRequests,
		st.NewRequests, st.FulfilledRequest,
	)
}
