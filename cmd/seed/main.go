package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/nhiennh/supply-chain-analytics/pkg/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "seed",
		Usage: "offline tooling: generate sample order data and run the analytics batch without the HTTP server",
		Commands: []*cli.Command{
			sampleCommand(),
			runCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("seed command failed")
	}
}
