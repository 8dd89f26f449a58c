package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/formbase/formbase/pkg/fb/logger"
	"github.com/go-chi/chi/v5"
)

// Startable represents a component that can be started.
type Startable interface {
	Start(context.Context) error
}

// Stoppable represents a component that can be stopped.
type Stoppable interface {
	Stop(context.Context) error
}

// RouteRegistrar represents a component that registers HTTP routes.
type RouteRegistrar interface {
	RegisterRoutes(chi.Router)
}

// Setup inspects each component for RouteRegistrar, Startable and Stoppable
// and collects start functions, stop functions and registrars in order.
func Setup(comps ...any) (
	starts []func(context.Context) error,
	stops []func(context.Context) error,
	registrars []RouteRegistrar,
) {
	for _, c := range comps {
		if rr, ok := c.(RouteRegistrar); ok {
			registrars = append(registrars, rr)
		}
		if s, ok := c.(Startable); ok {
			starts = append(starts, s.Start)
		}
		if st, ok := c.(Stoppable); ok {
			stops = append(stops, st.Stop)
		}
	}
	return
}

// Start runs the start functions in order and then registers routes.
// If a start function fails, every stop function is run in reverse order and
// the error is returned; Stop must tolerate a component that never started.
func Start(ctx context.Context, log logger.Logger, starts []func(context.Context) error, stops []func(context.Context) error, registrars []RouteRegistrar, router chi.Router) error {
	for i, start := range starts {
		if err := start(ctx); err != nil {
			log.Errorf("error starting component #%d: %v", i, err)
			for j := len(stops) - 1; j >= 0; j-- {
				if rErr := stops[j](context.Background()); rErr != nil {
					log.Errorf("error stopping component #%d during rollback: %v", j, rErr)
				}
			}
			return err
		}
	}

	for _, rr := range registrars {
		rr.RegisterRoutes(router)
	}

	return nil
}

// NewServer builds the HTTP server for router.
func NewServer(router http.Handler, addr string, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       time.Minute,
	}
}

// Serve runs srv until it is shut down.
func Serve(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops all components in reverse order (LIFO).
func Stop(ctx context.Context, log logger.Logger, stops []func(context.Context) error) {
	for i := len(stops) - 1; i >= 0; i-- {
		if err := stops[i](ctx); err != nil {
			log.Errorf("error stopping component #%d: %v", i, err)
		}
	}
}

// Shutdown drains the HTTP server and then stops all components.
func Shutdown(srv *http.Server, log logger.Logger, timeout time.Duration, stops []func(context.Context) error) {
	log.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server shutdown failed: %v", err)
	}

	Stop(shutdownCtx, log, stops)
}
