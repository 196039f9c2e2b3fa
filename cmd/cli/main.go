package main

import (
	"log"
	"os"

	"github.com/minaorangina/boss/cli"
	"github.com/minaorangina/boss/config"
	"github.com/minaorangina/boss/game"
	"github.com/minaorangina/boss/logging"
)

// Usage: cli <name> <name> <name> [<name>...]
func main() {
	names := os.Args[1:]
	if len(names) == 0 {
		names = []string{"Harry", "Sally", "Marie"}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.DevLogging)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	g, err := game.New(names, game.Opts{Rand: cfg.Rand(), Logger: logger})
	if err != nil {
		log.Fatalf("Could not initialise a new game: %s", err)
	}

	if err := cli.NewSession(g, os.Stdin, os.Stdout).Run(); err != nil {
		log.Fatal(err)
	}
}
