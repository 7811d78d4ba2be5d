package app

import (
	"log/slog"

	tg "toggl-track/internal/adapter/toggl"
	"toggl-track/internal/config"
	"toggl-track/internal/track"
)

// App wires the transport and session.
type App struct {
	log     *slog.Logger
	Session *track.Session
}

func New(log *slog.Logger, cfg config.Config) (*App, error) {
	transport, err := tg.NewClient(cfg.Toggl.BaseURL, tg.Credentials{
		APIToken: cfg.Toggl.APIToken,
		Username: cfg.Toggl.Username,
		Password: cfg.Toggl.Password,
	}, cfg.HTTP.Cooldown, log)
	if err != nil {
		return nil, err
	}

	return &App{
		log:     log,
		Session: track.NewSession(transport, log),
	}, nil
}
