package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/avolkov/url-shortener/internal/app"
	"github.com/avolkov/url-shortener/internal/config"
)

func main() {
	cfg := config.NewConfig()

	application, err := app.NewApp(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Info().Msg("Shutting down")
		application.Shutdown()
		os.Exit(0)
	}()

	if err := application.Run(); err != nil {
		application.Shutdown()
		log.Fatal().Err(err).Msg("Error running application")
	}
}
