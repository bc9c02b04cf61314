package main

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/hr/booking/pkg/logging"
	"github.com/artem13815/hr/booking/pkg/notify"
)

// App is the assembled service.
type App struct {
	http       *fiber.App
	dispatcher *notify.Dispatcher
	log        *logging.Logger
}

func newApp(http *fiber.App, dispatcher *notify.Dispatcher, log *logging.Logger) *App {
	return &App{http: http, dispatcher: dispatcher, log: log}
}

// Run blocks until the listener fails or Shutdown is called.
func (a *App) Run(addr string) error {
	return a.http.Listen(addr)
}

// Shutdown stops accepting requests first, then drains queued notifications.
func (a *App) Shutdown(ctx context.Context) error {
	httpErr := a.http.ShutdownWithContext(ctx)
	dispatchErr := a.dispatcher.Close(ctx)
	if dispatchErr != nil {
		a.log.Warn("notification queue not fully drained", "err", dispatchErr)
	}
	return errors.Join(httpErr, dispatchErr)
}
