// Package seed loads country and city reference rows at startup. Runs are
// idempotent: existing rows are reused through the storage get-or-create
// primitives.
package seed

import (
	"context"
	"fmt"
	"time"

	"peredachka-bot/internal/logger"
	"peredachka-bot/internal/models"

	"log/slog"
)

// ReferenceStore is the slice of persistence the seeder needs.
type ReferenceStore interface {
	GetOrCreateCountry(ctx context.Context, name string) (models.Country, bool, error)
	GetOrCreateCity(ctx context.Context, name string, countryID int64) (models.City, bool, error)
}

// defaults is the reference set shipped with the bot. User-typed city labels
// are reconciled against these rows later; missing entries are created lazily
// on first mention.
var defaults = map[string][]string{
	"Россия":  {"Москва", "Санкт-Петербург", "Казань", "Екатеринбург"},
	"Армения": {"Ереван", "Гюмри"},
	"Грузия":  {"Тбилиси", "Батуми"},
	"Турция":  {"Стамбул", "Анталья"},
	"Сербия":  {"Белград", "Нови-Сад"},
}

// Run inserts the default reference set, skipping rows that already exist.
func Run(ctx context.Context, store ReferenceStore) error {
	start := time.Now()
	var countries, cities int

	for country, cityNames := range defaults {
		row, created, err := store.GetOrCreateCountry(ctx, country)
		if err != nil {
			return fmt.Errorf("seed country %q: %w", country, err)
		}
		if created {
			countries++
		}
		for _, name := range cityNames {
			_, created, err := store.GetOrCreateCity(ctx, name, row.ID)
			if err != nil {
				return fmt.Errorf("seed city %q: %w", name, err)
			}
			if created {
				cities++
			}
		}
	}

	logger.LogEvent(ctx, logger.SEED, slog.LevelInfo, "seed.completed",
		slog.String("status", "ok"),
		slog.Int("countries_created", countries),
		slog.Int("cities_created", cities),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
