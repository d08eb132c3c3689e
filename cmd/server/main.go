package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	// 加载 .env 文件（如果存在）
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using environment variables")
	}

	app := &cli.App{
		Name:  "esecure",
		Usage: "terms of service / privacy policy safety analyzer",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file (default $CONFIG_FILE)"},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP server",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "port", Aliases: []string{"p"}, Usage: "listen port (overrides PORT)"},
					&cli.BoolFlag{Name: "disable-auth", Usage: "skip X-Access-Token checks"},
				},
				Action: serveAction,
			},
			{
				Name:      "extract",
				Usage:     "fetch a page and print the extracted terms text",
				ArgsUsage: "URL",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Usage: "page to extract from"},
					&cli.BoolFlag{Name: "full", Usage: "print the whole extracted text"},
				},
				Action: extractAction,
			},
			{
				Name:  "score",
				Usage: "parse a safety score from a model reply (file or stdin)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "reply file, stdin when empty"},
				},
				Action: scoreAction,
			},
			{
				Name:  "analyze",
				Usage: "run one analysis and print the result",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "text", Usage: "terms text"},
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "read terms text from file"},
					&cli.StringFlag{Name: "url", Usage: "terms page URL"},
				},
				Action: analyzeAction,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("esecure failed")
	}
}
