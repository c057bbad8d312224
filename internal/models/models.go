// Package models defines the stored entities and their enumerations.
package models

import (
	"database/sql"
	"time"
)

// User is one Telegram account known to the bot.
type User struct {
	ID        int64          `db:"id"`
	CreatedAt time.Time      `db:"created_at"`
	TgID      int64          `db:"tg_id"`
	Name      string         `db:"name"`
	Phone     sql.NullString `db:"phone"`
}

// Sender is the sender role profile, at most one per user.
type Sender struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UserID    int64     `db:"user_id"`
}

// Courier is the courier role profile, at most one per user.
type Courier struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UserID    int64     `db:"user_id"`
}

// Country is a canonical reference row, seeded at startup and created lazily
// on first mention.
type Country struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	Name      string    `db:"name"`
}

// City is a canonical city belonging to one country.
type City struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	Name      string    `db:"name"`
	CountryID int64     `db:"country_id"`
}

// UserCity is a free-text city label typed by a user. CityID links it to a
// canonical City once reconciled; until then it is null.
type UserCity struct {
	ID          int64         `db:"id"`
	CreatedAt   time.Time     `db:"created_at"`
	Name        string        `db:"name"`
	CreatedByID int64         `db:"created_by_id"`
	CityID      sql.NullInt64 `db:"city_id"`
}

// Request is a finalized delivery intent. Exactly one of SenderID/CourierID
// is set. Courier rows carry TravelDate, sender rows carry DateFrom/DateTo.
type Request struct {
	ID            int64         `db:"id"`
	CreatedAt     time.Time     `db:"created_at"`
	SenderID      sql.NullInt64 `db:"sender_id"`
	CourierID     sql.NullInt64 `db:"courier_id"`
	OriginID      int64         `db:"origin_id"`
	DestinationID int64         `db:"destination_id"`
	TravelDate    sql.NullTime  `db:"travel_date"`
	DateFrom      sql.NullTime  `db:"date_from"`
	DateTo        sql.NullTime  `db:"date_to"`
	BaggageKinds  string        `db:"baggage_kinds"`
	Comment       string        `db:"comment"`
	Status        Status        `db:"status"`
}

// Role derives the owning role from which foreign key is set.
func (r Request) Role() Role {
	if r.SenderID.Valid {
		return RoleSender
	}
	return RoleCourier
}

// Match is one counterpart request found for a finalized request, joined with
// the display fields needed to render it.
type Match struct {
	Request
	CounterpartName string `db:"counterpart_name"`
	OriginName      string `db:"origin_name"`
	DestinationName string `db:"destination_name"`
}
