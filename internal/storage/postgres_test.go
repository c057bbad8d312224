package storage

import (
	"context"
	"testing"

	"peredachka-bot/internal/models"
)

func TestCreateRequestRejectsUnknownStatus(t *testing.T) {
	p := NewPostgres(nil)
	req := &models.Request{Status: models.Status("bogus")}
	if err := p.CreateRequest(context.Background(), req); err == nil {
		t.Fatal("invalid status accepted")
	}
}
