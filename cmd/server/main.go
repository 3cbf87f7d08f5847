package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/checkpoint-chat/relay/internal/adapters"
	"github.com/checkpoint-chat/relay/internal/auth"
	"github.com/checkpoint-chat/relay/internal/config"
	"github.com/checkpoint-chat/relay/internal/domain"
	"github.com/checkpoint-chat/relay/internal/relay"
	"github.com/checkpoint-chat/relay/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Mode == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}

	users := store.NewUserRepository(db)
	rooms := store.NewRoomRepository(db)
	messages := store.NewMessageRepository(db)

	persister := store.NewPersister(messages)
	persister.Start(ctx)

	hub := relay.NewHub()
	broadcaster := &relay.Broadcaster{Hub: hub}
	router := &relay.Router{
		Hub:         hub,
		Broadcast:   broadcaster,
		Store:       persister,
		Directory:   rooms,
		DefaultRoom: domain.RoomName(cfg.DefaultRoom),
		StrictRooms: cfg.StrictRooms,
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret)
	api := &adapters.API{
		Users:    users,
		Rooms:    rooms,
		Messages: messages,
		Tokens:   tokens,
		Hub:      hub,
		Cfg:      cfg,
	}
	ws := &adapters.WSController{
		Router: router,
		Hub:    hub,
		Cfg:    cfg,
	}

	r := adapters.SetupRouter(ctx, cfg, api, ws)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("chat relay started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	persister.Wait()
	log.Info().Msg("Server exited gracefully")
}
