// Command hanabi-bot logs one configured account into a Hanabi table and
// plays it out using the configured convention.
//
// Usage: hanabi-bot run <username> [bot_to_join]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/hanabi-bot/internal/agent"
	"github.com/freeeve/hanabi-bot/internal/config"
	"github.com/freeeve/hanabi-bot/internal/logger"
	"github.com/freeeve/hanabi-bot/pkg/hanabi"
)

// loadVariantCatalog hydrates the built-in variant catalog from an optional
// variants.json in the working directory. Its absence is not an error: the
// built-in seed already covers the common tournament rotation.
func loadVariantCatalog(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if err := hanabi.LoadCatalog(data); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("ignoring malformed variant data file")
	}
}

func main() {
	logger.Init()
	loadVariantCatalog("variants.json")

	if len(os.Args) < 3 || os.Args[1] != "run" {
		fmt.Fprintln(os.Stderr, "usage: hanabi-bot run <username> [bot_to_join]")
		os.Exit(1)
	}
	username := os.Args[2]
	botToJoin := ""
	if len(os.Args) > 3 {
		botToJoin = os.Args[3]
	}

	cfg, err := config.Load("")
	if err != nil {
		log.Error().Err(err).Msg("config load failed")
		os.Exit(1)
	}
	password, ok := cfg.Bots[username]
	if !ok {
		log.Error().Str("username", username).Msg("no password configured for this username")
		os.Exit(1)
	}

	client := agent.NewClient(username, password, cfg.ServerURL())
	if err := client.Login(); err != nil {
		log.Error().Err(err).Msg("login failed")
		os.Exit(1)
	}
	if err := client.ConnectWS(); err != nil {
		log.Error().Err(err).Msg("websocket connect failed")
		os.Exit(1)
	}
	if err := client.JoinTable(botToJoin); err != nil {
		log.Error().Err(err).Msg("join table failed")
		os.Exit(1)
	}
	defer client.CloseWS()

	driver, err := agent.NewDriver(client, botToJoin, cfg.Convention, cfg.DisconnectOnGameEnd)
	if err != nil {
		log.Error().Err(err).Msg("driver setup failed")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("received shutdown signal")
		cancel()
	}()

	if err := driver.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("driver exited with error")
		os.Exit(1)
	}
	log.Info().Msg("game finished")
}
