package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

type roomFinder interface {
	Find(code string) (*entity.Room, error)
}

type Server struct {
	logger *slog.Logger
	ping   PingHandler
	invite InviteHandler
}

func New(logger *slog.Logger, rooms roomFinder, publicURL string) *Server {
	return &Server{
		logger: logger.With("component", "rest"),
		ping:   NewPingHandler(),
		invite: NewInviteHandler(logger, rooms, publicURL),
	}
}

// Handler - builds the router with CORS and panic recovery applied.
func (that *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/ping", that.ping.PingHandler).Methods(http.MethodGet)
	router.HandleFunc("/rooms/{code}/qr", that.invite.QRHandler).Methods(http.MethodGet)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
	)

	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(cors(router))
}

// Start - serves the REST endpoints until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
