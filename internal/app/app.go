// Package app assembles the bot from its parts: config, logger, database,
// migrations, reference seeding, session store and the conversation flow.
package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"peredachka-bot/internal/config"
	"peredachka-bot/internal/database"
	"peredachka-bot/internal/flow"
	"peredachka-bot/internal/seed"
	"peredachka-bot/internal/storage"
	tg "peredachka-bot/internal/telegram"
	"peredachka-bot/internal/telegram/router"
	"peredachka-bot/internal/telegram/state"
)

// App holds the wired bot ready to produce Telegram run options.
type App struct {
	cfg   *config.Config
	db    *sqlx.DB
	store *storage.Postgres
	fsm   *state.Manager
	reg   *tg.Registry
}

// Bootstrap initializes infrastructure in dependency order. A failure at any
// stage tears down what was already opened.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config provided")
	}

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("app: database initialization failed: %w", err)
	}
	if err := database.RunMigrations(cfg.Database); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("app: migrations failed: %w", err)
	}

	store := storage.NewPostgres(db)
	if err := seed.Run(ctx, store); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("app: reference seeding failed: %w", err)
	}

	sessions, err := buildSessionStore(ctx, cfg.State)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("app: session store init failed: %w", err)
	}
	fsm := state.NewManager(sessions)

	reg := tg.NewRegistry()
	flow.New(store, fsm, flow.NewBotMessenger()).Register(reg)

	return &App{
		cfg:   cfg,
		db:    db,
		store: store,
		fsm:   fsm,
		reg:   reg,
	}, nil
}

func buildSessionStore(ctx context.Context, cfg config.StateConfig) (state.Store, error) {
	switch cfg.Store {
	case config.StateStoreRedis:
		return state.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.TTL)
	default:
		return state.NewMemoryStore(), nil
	}
}

// TelegramRunOptions builds the routing table and middleware chain.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	routes := router.CommandRoutes(a.reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.CallbackRoute(a.reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(a.fsm, a.reg, router.TextOptions{})...)

	return tg.RunOptions{
		Config:      a.cfg,
		Registry:    a.reg,
		Middlewares: tg.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
		OnStop: func(context.Context, tg.Runtime) error {
			return a.Close()
		},
	}, nil
}

// Close releases held infrastructure. Safe to call more than once.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}
