package seed

import (
	"context"
	"testing"

	"peredachka-bot/internal/models"
)

type memoryRefStore struct {
	nextID    int64
	countries map[string]models.Country
	cities    map[string]models.City
}

func newMemoryRefStore() *memoryRefStore {
	return &memoryRefStore{
		countries: make(map[string]models.Country),
		cities:    make(map[string]models.City),
	}
}

func (s *memoryRefStore) GetOrCreateCountry(_ context.Context, name string) (models.Country, bool, error) {
	if c, ok := s.countries[name]; ok {
		return c, false, nil
	}
	s.nextID++
	c := models.Country{ID: s.nextID, Name: name}
	s.countries[name] = c
	return c, true, nil
}

func (s *memoryRefStore) GetOrCreateCity(_ context.Context, name string, countryID int64) (models.City, bool, error) {
	if c, ok := s.cities[name]; ok {
		return c, false, nil
	}
	s.nextID++
	c := models.City{ID: s.nextID, Name: name, CountryID: countryID}
	s.cities[name] = c
	return c, true, nil
}

func TestRunCreatesReferenceRows(t *testing.T) {
	store := newMemoryRefStore()
	if err := Run(context.Background(), store); err != nil {
		t.Fatalf("seed run: %v", err)
	}

	if len(store.countries) != len(defaults) {
		t.Fatalf("countries = %d, want %d", len(store.countries), len(defaults))
	}
	wantCities := 0
	for _, names := range defaults {
		wantCities += len(names)
	}
	if len(store.cities) != wantCities {
		t.Fatalf("cities = %d, want %d", len(store.cities), wantCities)
	}

	city, ok := store.cities["Ереван"]
	if !ok {
		t.Fatal("expected city missing")
	}
	if city.CountryID != store.countries["Армения"].ID {
		t.Fatalf("city linked to country %d, want %d", city.CountryID, store.countries["Армения"].ID)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	store := newMemoryRefStore()
	for i := 0; i < 2; i++ {
		if err := Run(context.Background(), store); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}
	if len(store.countries) != len(defaults) {
		t.Fatalf("countries duplicated: %d", len(store.countries))
	}
}
