package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cloudgrab/cloudgrab"
	"github.com/cloudgrab/cloudgrab/async"
	"github.com/cloudgrab/cloudgrab/ytdlp"
	_ "github.com/cloudgrab/cloudgrab/provider/soundcloud"
)

func main() {
	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zapConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger, err := zapConfig.Build()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()
	zap.RedirectStdLog(logger)
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = cloudgrab.WithLogger(ctx, logger)

	app := &cli.App{
		Name:  "cloudgrab",
		Usage: "download audio from SoundCloud via yt-dlp",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "load configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				zapConfig.Level.SetLevel(zapcore.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			getCommand(ctx),
			inspectCommand(),
			historyCommand(),
		},
		HideHelpCommand: true,
	}

	result := async.Run(func() error { return app.Run(os.Args) })

	select {
	case err = <-result:
		if err != nil {
			logger.Fatal(err.Error())
		}
	case <-ctx.Done():
		stop()
		err = <-result
		if err != nil {
			logger.Fatal(err.Error())
		}
	}
}

// loadConfig layers CLI flags over the config file over the defaults.
func loadConfig(c *cli.Context) (cloudgrab.Config, error) {
	config, err := cloudgrab.LoadConfig(c.String("config"))
	if err != nil {
		return config, err
	}
	if c.IsSet("output-dir") {
		config.OutputDir = c.String("output-dir")
	}
	if c.IsSet("quality") {
		config.Quality = c.String("quality")
	}
	if c.IsSet("import") {
		config.AutoImport = c.Bool("import")
	}
	if c.IsSet("downloader") {
		config.DownloaderPath = c.String("downloader")
	}
	if c.IsSet("journal") {
		config.JournalPath = c.String("journal")
	}
	if c.IsSet("history-db") {
		config.HistoryPath = c.String("history-db")
	}
	if _, err := ytdlp.ParseQuality(config.Quality); err != nil {
		return config, err
	}
	return config, nil
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output-dir",
			Aliases: []string{"o"},
			Usage:   "save downloaded audio to `DIR`",
		},
		&cli.StringFlag{
			Name:    "quality",
			Aliases: []string{"q"},
			Usage:   "audio quality preset (low, standard, high, best)",
		},
		&cli.BoolFlag{
			Name:  "import",
			Usage: "hand finished files to the media library application",
		},
		&cli.StringFlag{
			Name:  "downloader",
			Usage: "use `PATH` as the yt-dlp executable",
		},
		&cli.StringFlag{
			Name:  "journal",
			Usage: "use `FILE` as the session journal",
		},
		&cli.StringFlag{
			Name:  "history-db",
			Usage: "use `FILE` as the download history database",
		},
	}
}
