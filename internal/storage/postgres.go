package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"peredachka-bot/internal/logger"
	"peredachka-bot/internal/models"

	"log/slog"
)

// Postgres implements Store on an sqlx connection pool.
type Postgres struct {
	db *sqlx.DB
}

var _ Store = (*Postgres)(nil)

// NewPostgres wraps an established connection pool.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// getOrCreate runs the lookup-insert-relookup sequence shared by all
// reference entities. The insert args are the lookup keys plus defaults that
// apply on creation only; a concurrent insert losing the race on the unique
// key falls back to the second lookup instead of surfacing the violation.
func getOrCreate[T any](ctx context.Context, db *sqlx.DB, dst *T, selectQ string, selectArgs []any, insertQ string, insertArgs []any) (bool, error) {
	err := db.GetContext(ctx, dst, selectQ, selectArgs...)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("select: %w", err)
	}

	err = db.GetContext(ctx, dst, insertQ, insertArgs...)
	if err == nil {
		return true, nil
	}
	if !isUniqueViolation(err) {
		return false, fmt.Errorf("insert: %w", err)
	}

	if err := db.GetContext(ctx, dst, selectQ, selectArgs...); err != nil {
		return false, fmt.Errorf("reselect after duplicate: %w", err)
	}
	return false, nil
}

func (p *Postgres) GetOrCreateUser(ctx context.Context, tgID int64, name string) (models.User, bool, error) {
	var u models.User
	created, err := getOrCreate(ctx, p.db, &u,
		`SELECT id, created_at, tg_id, name, phone FROM users WHERE tg_id = $1`,
		[]any{tgID},
		`INSERT INTO users (tg_id, name) VALUES ($1, $2)
		 RETURNING id, created_at, tg_id, name, phone`,
		[]any{tgID, name},
	)
	if err != nil {
		return models.User{}, false, fmt.Errorf("get or create user: %w", err)
	}
	if created {
		logger.DB.Debug("user created",
			slog.String("event", "store.user.create"),
			slog.Int64("user_id", u.ID),
			slog.Int64("tg_id", tgID),
		)
	}
	return u, created, nil
}

func profileQueries(table string) (string, string) {
	selectQ := fmt.Sprintf(`SELECT id, created_at, user_id FROM %s WHERE user_id = $1`, table)
	insertQ := fmt.Sprintf(`INSERT INTO %s (user_id) VALUES ($1) RETURNING id, created_at, user_id`, table)
	return selectQ, insertQ
}

func (p *Postgres) GetOrCreateSender(ctx context.Context, userID int64) (models.Sender, bool, error) {
	var s models.Sender
	selectQ, insertQ := profileQueries("senders")
	created, err := getOrCreate(ctx, p.db, &s, selectQ, []any{userID}, insertQ, []any{userID})
	if err != nil {
		return models.Sender{}, false, fmt.Errorf("get or create sender: %w", err)
	}
	if created {
		logger.DB.Debug("sender profile created",
			slog.String("event", "store.sender.create"),
			slog.Int64("user_id", userID),
		)
	}
	return s, created, nil
}

func (p *Postgres) GetOrCreateCourier(ctx context.Context, userID int64) (models.Courier, bool, error) {
	var c models.Courier
	selectQ, insertQ := profileQueries("couriers")
	created, err := getOrCreate(ctx, p.db, &c, selectQ, []any{userID}, insertQ, []any{userID})
	if err != nil {
		return models.Courier{}, false, fmt.Errorf("get or create courier: %w", err)
	}
	if created {
		logger.DB.Debug("courier profile created",
			slog.String("event", "store.courier.create"),
			slog.Int64("user_id", userID),
		)
	}
	return c, created, nil
}

func (p *Postgres) SenderByUserID(ctx context.Context, userID int64) (models.Sender, error) {
	var s models.Sender
	err := p.db.GetContext(ctx, &s,
		`SELECT id, created_at, user_id FROM senders WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Sender{}, ErrNotFound
	}
	if err != nil {
		return models.Sender{}, fmt.Errorf("sender by user id: %w", err)
	}
	return s, nil
}

func (p *Postgres) CourierByUserID(ctx context.Context, userID int64) (models.Courier, error) {
	var c models.Courier
	err := p.db.GetContext(ctx, &c,
		`SELECT id, created_at, user_id FROM couriers WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Courier{}, ErrNotFound
	}
	if err != nil {
		return models.Courier{}, fmt.Errorf("courier by user id: %w", err)
	}
	return c, nil
}

func (p *Postgres) GetOrCreateUserCity(ctx context.Context, name string, createdByID int64) (models.UserCity, bool, error) {
	var uc models.UserCity
	// created_by is a default applied on creation only: an existing label
	// keeps its original creator.
	created, err := getOrCreate(ctx, p.db, &uc,
		`SELECT id, created_at, name, created_by_id, city_id FROM user_cities WHERE name = $1`,
		[]any{name},
		`INSERT INTO user_cities (name, created_by_id) VALUES ($1, $2)
		 RETURNING id, created_at, name, created_by_id, city_id`,
		[]any{name, createdByID},
	)
	if err != nil {
		return models.UserCity{}, false, fmt.Errorf("get or create user city: %w", err)
	}
	if created {
		logger.DB.Debug("user city created",
			slog.String("event", "store.user_city.create"),
			slog.Int64("user_city_id", uc.ID),
			slog.String("name", logger.Sanitize(name)),
		)
	}
	return uc, created, nil
}

func (p *Postgres) GetOrCreateCountry(ctx context.Context, name string) (models.Country, bool, error) {
	var c models.Country
	created, err := getOrCreate(ctx, p.db, &c,
		`SELECT id, created_at, name FROM countries WHERE name = $1`,
		[]any{name},
		`INSERT INTO countries (name) VALUES ($1) RETURNING id, created_at, name`,
		[]any{name},
	)
	if err != nil {
		return models.Country{}, false, fmt.Errorf("get or create country: %w", err)
	}
	return c, created, nil
}

func (p *Postgres) GetOrCreateCity(ctx context.Context, name string, countryID int64) (models.City, bool, error) {
	var c models.City
	created, err := getOrCreate(ctx, p.db, &c,
		`SELECT id, created_at, name, country_id FROM cities WHERE name = $1`,
		[]any{name},
		`INSERT INTO cities (name, country_id) VALUES ($1, $2)
		 RETURNING id, created_at, name, country_id`,
		[]any{name, countryID},
	)
	if err != nil {
		return models.City{}, false, fmt.Errorf("get or create city: %w", err)
	}
	return c, created, nil
}

func (p *Postgres) CreateRequest(ctx context.Context, req *models.Request) error {
	if !req.Status.Valid() {
		return fmt.Errorf("create request: invalid status %q", req.Status)
	}
	start := time.Now()
	err := p.db.QueryRowxContext(ctx,
		`INSERT INTO requests
		 (sender_id, courier_id, origin_id, destination_id, travel_date, date_from, date_to, baggage_kinds, comment, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at`,
		req.SenderID, req.CourierID, req.OriginID, req.DestinationID,
		req.TravelDate, req.DateFrom, req.DateTo,
		req.BaggageKinds, req.Comment, req.Status,
	).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	logger.DB.Info("request stored",
		slog.String("event", "store.request.create"),
		slog.Int64("request_id", req.ID),
		slog.String("role", string(req.Role())),
		slog.Int64("origin", req.OriginID),
		slog.Int64("destination", req.DestinationID),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}

const matchColumns = `
	r.id, r.created_at, r.sender_id, r.courier_id,
	r.origin_id, r.destination_id,
	r.travel_date, r.date_from, r.date_to,
	r.baggage_kinds, r.comment, r.status,
	u.name AS counterpart_name,
	o.name AS origin_name,
	d.name AS destination_name`

// MatchesForSender finds courier requests on the exact route whose travel
// date falls inside the sender's acceptable window.
func (p *Postgres) MatchesForSender(ctx context.Context, originID, destinationID int64, from, to time.Time) ([]models.Match, error) {
	var out []models.Match
	err := p.db.SelectContext(ctx, &out, `
		SELECT `+matchColumns+`
		FROM requests r
		JOIN couriers c ON c.id = r.courier_id
		JOIN users u ON u.id = c.user_id
		JOIN user_cities o ON o.id = r.origin_id
		JOIN user_cities d ON d.id = r.destination_id
		WHERE r.courier_id IS NOT NULL
		  AND r.origin_id = $1
		  AND r.destination_id = $2
		  AND r.travel_date BETWEEN $3 AND $4
		ORDER BY r.travel_date, r.id`,
		originID, destinationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("matches for sender: %w", err)
	}
	return out, nil
}

// MatchesForCourier finds sender requests on the exact route whose acceptable
// window contains the courier's travel date.
func (p *Postgres) MatchesForCourier(ctx context.Context, originID, destinationID int64, travelDate time.Time) ([]models.Match, error) {
	var out []models.Match
	err := p.db.SelectContext(ctx, &out, `
		SELECT `+matchColumns+`
		FROM requests r
		JOIN senders s ON s.id = r.sender_id
		JOIN users u ON u.id = s.user_id
		JOIN user_cities o ON o.id = r.origin_id
		JOIN user_cities d ON d.id = r.destination_id
		WHERE r.sender_id IS NOT NULL
		  AND r.origin_id = $1
		  AND r.destination_id = $2
		  AND r.date_from <= $3
		  AND r.date_to >= $3
		ORDER BY r.date_from, r.id`,
		originID, destinationID, travelDate)
	if err != nil {
		return nil, fmt.Errorf("matches for courier: %w", err)
	}
	return out, nil
}

func (p *Postgres) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := p.db.GetContext(ctx, &st, `
		SELECT
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM senders) AS senders,
			(SELECT COUNT(*) FROM couriers) AS couriers,
			(SELECT COUNT(*) FROM requests WHERE sender_id IS NOT NULL) AS sender_requests,
			(SELECT COUNT(*) FROM requests WHERE courier_id IS NOT NULL) AS courier_requests,
			(SELECT COUNT(*) FROM requests WHERE status = 'new') AS new_requests,
			(SELECT COUNT(*) FROM requests WHERE status = 'fulfilled') AS fulfilled_requests`)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	return st, nil
}
