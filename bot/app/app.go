// Package app assembles the file relay bot: stores, conversation flow,
// command registry and the Telegram runtime options.
package app

import (
	"context"
	"fmt"

	"filebot/bot/archive"
	botconfig "filebot/bot/config"
	"filebot/bot/files"
	"filebot/bot/flow"
	"filebot/bot/links"
	"filebot/bot/session"
	"filebot/core/bootstrap"
	"filebot/core/logger"
	coretelegram "filebot/core/telegram"
	"filebot/core/telegram/commands"
	"filebot/core/telegram/router"

	"github.com/jmoiron/sqlx"
)

// App holds the assembled application components.
type App struct {
	cfg      *botconfig.Config
	db       *sqlx.DB
	store    files.Store
	svc      *flow.Service
	handlers *flow.Handlers
}

// Bootstrap initializes logging, the metadata store and the flow
// service. With the postgres backend it also connects the database and
// applies migrations.
func Bootstrap(cfg *botconfig.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}
	a := &App{cfg: cfg}

	switch cfg.Bot.Store {
	case botconfig.StorePostgres:
		res, err := bootstrap.Run(bootstrap.Options{
			Config:   &cfg.Core,
			Database: cfg.Database,
		})
		if err != nil {
			return nil, err
		}
		a.db = res.DB
		a.store = files.NewPostgresStore(res.DB)
	case botconfig.StoreMemory:
		if err := logger.InitLogger(&cfg.Core); err != nil {
			return nil, fmt.Errorf("app: logger init failed: %w", err)
		}
		a.store = files.NewMemoryStore()
	default:
		return nil, fmt.Errorf("app: unknown store backend %q", cfg.Bot.Store)
	}

	builder := links.NewBuilder(
		cfg.Links.StreamTemplate,
		cfg.Links.DownloadTemplate,
		cfg.Links.TelegramTemplate,
	)
	a.svc = flow.NewService(a.store, session.NewStore(), builder)
	a.handlers = flow.NewHandlers(a.svc, cfg.Bot.Name)
	return a, nil
}

// TelegramRunOptions builds the registry, routes and lifecycle hooks
// for the core Telegram runtime.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	cfg := a.cfg
	reg := coretelegram.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handlers.Start,
		Description: "Convert a file to stream, download and Telegram links",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     a.handlers.Stats,
		Description: "Store and session counters",
		AdminOnly:   true,
		Hidden:      true,
	})
	if err := reg.RegisterCallback(flow.CallbackNoPassword, a.handlers.ChoiceNo); err != nil {
		return coretelegram.RunOptions{}, err
	}
	if err := reg.RegisterCallback(flow.CallbackSetPassword, a.handlers.ChoiceYes); err != nil {
		return coretelegram.RunOptions{}, err
	}
	reg.SetTextFallback(a.handlers.Fallback)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: cfg.Core.Telegram.AdminID,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoute(a.handlers, reg, router.TextOptions{}))
	routes = append(routes, router.MediaRoutes(a.handlers.Upload)...)

	return coretelegram.RunOptions{
		Config:      &cfg.Core,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(&cfg.Core, nil),
		Routes:      routes,
		OnStart: func(_ context.Context, rt coretelegram.Runtime) error {
			a.handlers.Bind(
				archive.NewRelay(rt.Bot, cfg.Bot.ArchiveChatID),
				rt.Bot.Me.Username,
			)
			return nil
		},
		OnStop: func(_ context.Context, _ coretelegram.Runtime) error {
			if a.db != nil {
				return a.db.Close()
			}
			return nil
		},
	}, nil
}
