package models

import (
	"fmt"
	"strings"
)

// Role is the registration role a user picks at the start of the wizard.
type Role string

const (
	RoleSender  Role = "sender"
	RoleCourier Role = "courier"
)

// ParseRole maps callback payload text to a Role.
func ParseRole(s string) (Role, error) {
	switch Role(strings.TrimSpace(strings.ToLower(s))) {
	case RoleSender:
		return RoleSender, nil
	case RoleCourier:
		return RoleCourier, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleSender || r == RoleCourier
}

// Opposite returns the counterpart role used by the matcher.
func (r Role) Opposite() Role {
	if r == RoleSender {
		return RoleCourier
	}
	return RoleSender
}

// Label is the user-facing Russian name of the role.
func (r Role) Label() string {
	switch r {
	case RoleSender:
		return "Отправитель"
	case RoleCourier:
		return "Курьер"
	}
	return string(r)
}

// Status is the lifecycle state of a stored request.
type Status string

const (
	StatusNew       Status = "new"
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusFulfilled Status = "fulfilled"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusPending, StatusAccepted, StatusRejected, StatusFulfilled:
		return true
	}
	return false
}

// BaggageKind is one selectable baggage category.
type BaggageKind string

const (
	BaggageUsual       BaggageKind = "usual"
	BaggageLiquid      BaggageKind = "liquid"
	BaggageExpensive   BaggageKind = "expensive"
	BaggageDocument    BaggageKind = "document"
	BaggageTroublesome BaggageKind = "troublesome"
	BaggageOther       BaggageKind = "other"
)

// BaggageKinds lists all selectable kinds in keyboard order.
func BaggageKinds() []BaggageKind {
	return []BaggageKind{
		BaggageUsual,
		BaggageLiquid,
		BaggageExpensive,
		BaggageDocument,
		BaggageTroublesome,
		BaggageOther,
	}
}

// ParseBaggageKind maps callback payload text to a BaggageKind.
func ParseBaggageKind(s string) (BaggageKind, error) {
	k := BaggageKind(strings.TrimSpace(strings.ToLower(s)))
	for _, known := range BaggageKinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown baggage kind %q", s)
}

// Label is the user-facing Russian name of the baggage kind.
func (k BaggageKind) Label() string {
	switch k {
	case BaggageUsual:
		return "Обычный"
	case BaggageLiquid:
		return "Жидкость"
	case BaggageExpensive:
		return "Ценный"
	case BaggageDocument:
		return "Документ"
	case BaggageTroublesome:
		return "Проблемный"
	case BaggageOther:
		return "Другое"
	}
	return string(k)
}

// JoinBaggage serializes selected kinds as a comma list for storage.
func JoinBaggage(kinds []BaggageKind) string {
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, string(k))
	}
	return strings.Join(parts, ",")
}

// SplitBaggage parses the stored comma list back into kinds, skipping
// anything unknown.
func SplitBaggage(s string) []BaggageKind {
	var out []BaggageKind
	for _, part := range strings.Split(s, ",") {
		k, err := ParseBaggageKind(part)
		if err != nil {
			continue
		}
		out = append(out, k)
	}
	return out
}

// BaggageLabels renders the stored comma list as user-facing labels.
func BaggageLabels(s string) string {
	kinds := SplitBaggage(s)
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, k.Label())
	}
	return strings.Join(parts, ", ")
}
