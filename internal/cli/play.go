package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"mahjong-quiz-service/internal/app"
	"mahjong-quiz-service/internal/config"
	"mahjong-quiz-service/internal/domain"
	"mahjong-quiz-service/internal/logger"
	"mahjong-quiz-service/internal/scoring"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const playSessionID = "terminal"

// NewPlayCmd runs a quiz session on the terminal. Lines starting with '#'
// pick an option by index, anything else is treated as a spoken answer.
func NewPlayCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Answer quizzes from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Logger.Level, cfg.Logger.Env)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			service, err := newQuizService(cfg, backends{}, log)
			if err != nil {
				return err
			}
			defer service.Wait()
			return runPlay(cmd.Context(), service, cmd.InOrStdin(), cmd.OutOrStdout(), log)
		},
	}
}

type printer struct {
	mu  sync.Mutex
	out io.Writer
}

func (p *printer) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}

func runPlay(ctx context.Context, service *app.QuizService, in io.Reader, out io.Writer, log *zap.Logger) error {
	p := &printer{out: out}

	if _, err := service.Join(ctx, playSessionID); err != nil {
		return err
	}
	defer service.Leave(context.Background(), playSessionID)

	updates, cancel, err := service.Subscribe(ctx, playSessionID)
	if err != nil {
		return err
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		var shown uint64
		for view := range updates {
			switch view.Phase {
			case domain.PhasePresenting:
				if view.Round != shown {
					shown = view.Round
					printQuiz(p, view)
				}
			case domain.PhaseShowingResult:
				printResult(ctx, p, service, view)
			}
		}
	}()
	defer func() {
		// Let a pending verdict reach the printer before the session closes.
		service.Wait()
		cancel()
		<-done
	}()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "quit" || line == "q":
			return nil
		case line == "next":
			_, err = service.NextQuiz(ctx, playSessionID)
		case strings.HasPrefix(line, "#"):
			index, convErr := strconv.Atoi(strings.TrimPrefix(line, "#"))
			if convErr != nil {
				p.printf("not an option number: %s\n", line)
				continue
			}
			_, err = service.SubmitOption(ctx, playSessionID, index)
		default:
			_, err = service.SubmitSpeech(ctx, playSessionID, line)
		}

		switch {
		case err == nil:
		case errors.Is(err, domain.ErrUnparseableAnswer):
			p.printf("could not understand %q, try again\n", line)
		default:
			log.Debug("play command rejected", zap.String("input", line), zap.Error(err))
			p.printf("%v\n", err)
		}
	}
	return scanner.Err()
}

func printQuiz(p *printer, view domain.SessionView) {
	var b strings.Builder
	fmt.Fprintf(&b, "\nQ%d: %s\n", view.Round, view.Prompt)
	for i, opt := range view.Options {
		fmt.Fprintf(&b, "  #%-2d %s\n", i, opt.Label)
	}
	p.printf("%s", b.String())
}

func printResult(ctx context.Context, p *printer, service *app.QuizService, view domain.SessionView) {
	expected := "?"
	if opt, err := scoring.ExpectedOption(view.Quiz); err == nil {
		expected = opt.Label
	}
	stats, _ := service.Stats(ctx, view.SessionID)
	p.printf("%s (answer %s) %d/%d correct\n", view.Verdict, expected, stats.Correct, stats.Total)
}
