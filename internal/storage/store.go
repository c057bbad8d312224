// Package storage provides persistence for users, role profiles, cities and
// requests on top of Postgres.
package storage

import (
	"context"
	"errors"
	"time"

	"peredachka-bot/internal/models"
)

// ErrNotFound is returned by lookups when no row matches.
var ErrNotFound = errors.New("storage: not found")

// Stats is the read-only aggregate served to the admin command.
type Stats struct {
	Users            int64 `db:"users"`
	Senders          int64 `db:"senders"`
	Couriers         int64 `db:"couriers"`
	SenderRequests   int64 `db:"sender_requests"`
	CourierRequests  int64 `db:"courier_requests"`
	NewRequests      int64 `db:"new_requests"`
	FulfilledRequest int64 `db:"fulfilled_requests"`
}

// Store is the persistence surface consumed by the conversation flow. All
// get-or-create operations report whether a row was created; a unique
// violation during insert is resolved internally by re-reading.
type Store interface {
	GetOrCreateUser(ctx context.Context, tgID int64, name string) (models.User, bool, error)
	GetOrCreateSender(ctx context.Context, userID int64) (models.Sender, bool, error)
	GetOrCreateCourier(ctx context.Context, userID int64) (models.Courier, bool, error)
	SenderByUserID(ctx context.Context, userID int64) (models.Sender, error)
	CourierByUserID(ctx context.Context, userID int64) (models.Courier, error)

	GetOrCreateUserCity(ctx context.Context, name string, createdByID int64) (models.UserCity, bool, error)
	GetOrCreateCountry(ctx context.Context, name string) (models.Country, bool, error)
	GetOrCreateCity(ctx context.Context, name string, countryID int64) (models.City, bool, error)

	CreateRequest(ctx context.Context, req *models.Request) error
	MatchesForSender(ctx context.Context, originID, destinationID int64, from, to time.Time) ([]models.Match, error)
	MatchesForCourier(ctx context.Context, originID, destinationID int64, travelDate time.Time) ([]models.Match, error)

	Stats(ctx context.Context) (Stats, error)
}
