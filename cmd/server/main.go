package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"elevator-chat/internal/auth"
	"elevator-chat/internal/config"
	"elevator-chat/internal/db"
	"elevator-chat/internal/llmservice"
	"elevator-chat/internal/quota"
	"elevator-chat/internal/rag"
	"elevator-chat/internal/server"
	"elevator-chat/internal/session"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	dbClient, err := db.ConnectDB(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	store := db.NewStore(dbClient, cfg.Database.Debug)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := store.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("Error initializing database")
	}

	sessions := session.NewManager(cfg.SessionTTL())
	authClient := auth.NewClient(&cfg.Supabase)
	gate := quota.NewGate(store)
	generator := rag.NewGenerator(llmservice.NewClient(cfg))
	pipeline := rag.NewPipeline(gate, store, generator, cfg.RAG.TopK)

	srv := server.NewServer(cfg, sessions, authClient, store, pipeline)

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		<-c
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error during shutdown")
		}
		cancel()
	}()

	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
