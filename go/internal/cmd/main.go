package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mcdev12/lottery/go/internal/config"
	"github.com/mcdev12/lottery/go/internal/lottery"
	"github.com/mcdev12/lottery/go/internal/lottery/console"
)

func main() {
	setupLogging()

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("could not load .env file")
	}

	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

// run executes one lottery and returns the process exit code
func run(args []string, stdin io.Reader, stdout io.Writer) int {
	fs := flag.NewFlagSet("lottery", flag.ContinueOnError)
	configPath := fs.String("config", os.Getenv("LOTTERY_CONFIG"), "path to a YAML config file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error().Err(err).Msg("load config")
		return 1
	}
	setLogLevel(cfg.LogLevel)

	out := console.NewSyncWriter(stdout)
	services, err := setupServices(cfg, clockwork.NewRealClock(), stdin, out)
	if err != nil {
		log.Error().Err(err).Msg("setup services")
		return 1
	}
	defer services.Close()

	app := services.App
	console.PrintStart(out, app.Session().StartedAt())
	_, found, err := app.Start(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("start lottery")
		return 1
	}
	if found {
		console.PrintRestored(out)
	}
	console.PrintIntro(out, app.Remaining())

	// signal-aware context; an interrupt ends registration, not the program
	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	runCtx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error { return services.Orchestrator.Run(gctx) })

	outcome, regErr := services.Registration.Run(gctx)

	// join background tasks before drawing so no snapshot write races the exit
	cancel()
	bgErr := g.Wait()
	interrupted := sigCtx.Err() != nil
	stop()

	exitCode := 0
	reason := string(outcome)
	switch {
	case regErr != nil:
		log.Error().Err(regErr).Msg("registration failed")
		exitCode, reason = 1, "failed"
	case bgErr != nil:
		exitCode, reason = 1, "failed"
	case interrupted:
		console.PrintInterrupted(out)
		reason = string(console.OutcomeInterrupted)
	}

	finalCtx := context.Background()
	result, err := app.Draw(finalCtx)
	switch {
	case errors.Is(err, lottery.ErrNoParticipants):
		console.PrintNoDraw(out)
	case err != nil:
		log.Error().Err(err).Msg("draw winner")
		exitCode = 1
	default:
		console.PrintWinner(out, result)
	}

	if err := app.Finish(finalCtx, reason); err != nil {
		log.Error().Err(err).Msg("finish lottery")
		exitCode = 1
	}

	if cfg.MetricsPath != "" {
		if err := services.Metrics.WriteTextfile(cfg.MetricsPath); err != nil {
			log.Error().Err(err).Str("path", cfg.MetricsPath).Msg("write metrics")
		}
	}
	return exitCode
}
