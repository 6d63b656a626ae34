package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/lottery/go/internal/lottery"
)

// Outcome says how the registration phase ended
type Outcome string

const (
	OutcomeDeadline    Outcome = "deadline"
	OutcomeInterrupted Outcome = "interrupted"
	OutcomeInputClosed Outcome = "input_closed"
)

// LotteryApp defines what the registration loop needs from the lottery app
type LotteryApp interface {
	Register(ctx context.Context, raw string) (lottery.Registration, error)
	ExtendIfDue(ctx context.Context) (lottery.Extension, bool, error)
	Remaining() time.Duration
}

// Service runs the interactive registration loop
type Service struct {
	app   LotteryApp
	clock clockwork.Clock
	lines <-chan string
	out   io.Writer
}

// NewService creates a registration loop reading lines from the channel returned by ReadLines
func NewService(app LotteryApp, clock clockwork.Clock, lines <-chan string, out io.Writer) *Service {
	return &Service{
		app:   app,
		clock: clock,
		lines: lines,
		out:   out,
	}
}

// Run accepts usernames until the deadline, the end of input, or ctx cancellation.
// The caller prints the intro with PrintIntro first.
// Each read is bounded by the deadline, so the loop ends exactly when registration closes.
// The only errors returned are failures to record events; validation failures are reported
// to the operator and the loop continues.
func (s *Service) Run(ctx context.Context) (Outcome, error) {
	for {
		remaining := s.app.Remaining()
		if remaining <= 0 {
			ext, ok, err := s.app.ExtendIfDue(ctx)
			if err != nil {
				return "", err
			}
			if ok {
				printExtension(s.out, ext)
				continue
			}
			log.Info().Msg("registration deadline reached")
			return OutcomeDeadline, nil
		}

		fmt.Fprint(s.out, "Enter username: ")
		timer := s.clock.NewTimer(remaining)

		select {
		case <-ctx.Done():
			timer.Stop()
			return OutcomeInterrupted, nil

		case <-timer.Chan():
			fmt.Fprintln(s.out)

		case line, ok := <-s.lines:
			timer.Stop()
			if !ok {
				fmt.Fprintln(s.out)
				log.Info().Msg("console input closed")
				return OutcomeInputClosed, nil
			}
			if err := s.handle(ctx, line); err != nil {
				return "", err
			}
		}
	}
}

func (s *Service) handle(ctx context.Context, line string) error {
	// blank lines just re-prompt
	if strings.TrimSpace(line) == "" {
		return nil
	}

	reg, err := s.app.Register(ctx, line)
	switch {
	case errors.Is(err, lottery.ErrInvalidUsername):
		fmt.Fprintln(s.out, "Invalid username. Must be alphanumeric and non-empty.")
	case errors.Is(err, lottery.ErrDuplicateUsername):
		fmt.Fprintln(s.out, "Username already registered.")
	case err != nil:
		return err
	default:
		fmt.Fprintf(s.out, "[REGISTERED] Current count: %d\n", reg.Count)
		if reg.Extension != nil {
			printExtension(s.out, *reg.Extension)
		}
	}
	return nil
}
