package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"go.uber.org/fx"

	"kingjoe/internal/bootstrap/config"
	"kingjoe/internal/bootstrap/logging"
	"kingjoe/internal/errs"
	"kingjoe/internal/interfaces/httpapi"
	"kingjoe/internal/usecase/inspection"
)

// HTTPModule adds the inspection API server on top of Module. The listener
// is bound on fx start and drained on fx stop.
var HTTPModule = fx.Options(
	fx.Provide(provideHTTPServer),
	fx.Invoke(func(*http.Server) {}),
)

func provideHTTPServer(lc fx.Lifecycle, ctx context.Context, cfg config.Config, svc *inspection.Service) (*http.Server, error) {
	if err := cfg.RequireAuth(); err != nil {
		return nil, err
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.http"))
	server := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: httpapi.NewRouter(svc, httpapi.Options{
			Logger: logging.Logger(ctx),
			Auth: httpapi.AuthConfig{
				Secret:    cfg.Auth.JWTSecret,
				UserClaim: cfg.Auth.UserClaim,
			},
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return errs.Wrapf(err, "listen on %s", server.Addr)
			}
			logging.Info(logCtx, "http server started", slog.String("addr", ln.Addr().String()))

			go func() {
				if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logging.Error(logCtx, "http server failed", slog.Any("err", errs.Loggable(err)))
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			if cfg.HTTP.ShutdownTimeout > 0 {
				var cancel context.CancelFunc
				stopCtx, cancel = context.WithTimeout(stopCtx, cfg.HTTP.ShutdownTimeout)
				defer cancel()
			}
			logging.Info(logCtx, "http server shutting down")
			if err := server.Shutdown(stopCtx); err != nil {
				return errs.Wrap(err, "shutdown http server")
			}
			return nil
		},
	})

	return server, nil
}
