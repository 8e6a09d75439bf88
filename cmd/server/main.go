package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"

	"github.com/profilekeeper/backend/internal/config"
	"github.com/profilekeeper/backend/internal/handlers"
	appMiddleware "github.com/profilekeeper/backend/internal/middleware"
	"github.com/profilekeeper/backend/internal/services"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// run returns once the server stops; deferred cleanup completes before main exits.
func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var app *firebase.App
	if cfg.NeedsFirebase() {
		var err error
		app, err = services.NewFirebaseApp(ctx, services.FirebaseConfig{
			ProjectID:       cfg.FirebaseProjectID,
			CredentialsJSON: cfg.FirebaseCredentialsJSON,
		})
		if err != nil {
			return fmt.Errorf("initialize firebase: %w", err)
		}
	}

	authn, err := newAuthenticator(ctx, cfg, app)
	if err != nil {
		return fmt.Errorf("initialize %s auth: %w", cfg.AuthMode, err)
	}

	store, err := newProfileStore(ctx, cfg, app)
	if err != nil {
		return fmt.Errorf("initialize %s store: %w", cfg.StoreBackend, err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Printf("Warning: failed to close profile store: %v", err)
		}
	}()

	profileHandler := handlers.NewProfileHandler(services.NewProfileService(store), cfg.RequestTimeout)

	srv := &http.Server{
		Addr: cfg.ServerAddress,
		Handler: handlers.NewRouter(handlers.RouterConfig{
			Profiles:          profileHandler,
			Authenticator:     authn,
			SessionCookieName: cfg.SessionCookieName,
			AllowedOrigins:    cfg.AllowedOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Warning: graceful shutdown failed: %v", err)
		}
	}()

	log.Printf("Profile API starting on %s (auth=%s store=%s)", cfg.ServerAddress, cfg.AuthMode, cfg.StoreBackend)
	return serve(srv.ListenAndServe)
}

// serve treats a closed server as a clean stop and anything else as a failure.
func serve(listen func() error) error {
	if err := listen(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	log.Printf("Profile API stopped")
	return nil
}

func newAuthenticator(ctx context.Context, cfg *config.Config, app *firebase.App) (appMiddleware.Authenticator, error) {
	switch cfg.AuthMode {
	case config.AuthModeJWT:
		return appMiddleware.NewJWTAuthenticator(cfg.JWTSecret, cfg.JWTEmailClaim), nil
	case config.AuthModeDev:
		log.Printf("Warning: dev auth enabled; any dev:<email> token is trusted")
		return appMiddleware.DevAuthenticator{}, nil
	default:
		return appMiddleware.NewFirebaseAuthenticator(ctx, app)
	}
}

func newProfileStore(ctx context.Context, cfg *config.Config, app *firebase.App) (services.ProfileStore, error) {
	switch cfg.StoreBackend {
	case config.StoreMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		return services.NewMongoProfileStore(connectCtx, cfg.MongoURI, cfg.MongoDatabase, cfg.UsersCollection)
	case config.StoreFile:
		return services.NewFileProfileStore(cfg.DataDir, cfg.UsersCollection)
	default:
		return services.NewFirestoreProfileStore(ctx, app, cfg.UsersCollection)
	}
}
