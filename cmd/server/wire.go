//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	apihttp "github.com/artem13815/hr/booking/api/http"
	"github.com/artem13815/hr/booking/api/http/handlers"
	"github.com/artem13815/hr/booking/pkg/assignment"
	"github.com/artem13815/hr/booking/pkg/booking"
	"github.com/artem13815/hr/booking/pkg/booking/automation"
	"github.com/artem13815/hr/booking/pkg/config"
	"github.com/artem13815/hr/booking/pkg/lifecycle"
	"github.com/artem13815/hr/booking/pkg/logging"
	"github.com/artem13815/hr/booking/pkg/matching"
	"github.com/artem13815/hr/booking/pkg/notify"
)

// InitializeApp wires the service from config.
func InitializeApp(ctx context.Context, cfg config.Config, log *logging.Logger) (*App, func(), error) {
	wire.Build(
		// Infrastructure
		provideStores,
		provideAssignmentRepository,
		provideCandidateRegistry,
		provideDirectory,
		provideRedis,
		provideReadiness,

		// Notifications
		providePublishers,
		provideDispatcher,
		wire.Bind(new(booking.EventSink), new(*notify.Dispatcher)),

		// Domain services
		assignment.NewService,
		matching.NewEngine,
		booking.NewService,
		providePolicy,
		provideLifecycleOptions,
		lifecycle.NewService,
		wire.Bind(new(lifecycle.Booker), new(*booking.Service)),

		// HTTP
		handlers.NewHealthHandler,
		handlers.NewAssignmentHandler,
		handlers.NewBookingHandler,
		handlers.NewMatchingHandler,
		handlers.NewCandidateHandler,
		handlers.NewProjectHandler,
		wire.Bind(new(handlers.Booker), new(*booking.Service)),
		wire.Bind(new(handlers.ProjectLifecycle), new(*lifecycle.Service)),
		wire.Bind(new(handlers.Matcher), new(*matching.Engine)),
		wire.Bind(new(handlers.Reprocessor), new(*automation.Policy)),
		wire.Struct(new(apihttp.Handlers), "*"),
		provideAuth,
		provideLimiter,
		provideRateLimit,
		provideFiber,
		newApp,
	)
	return &App{}, nil, nil
}
