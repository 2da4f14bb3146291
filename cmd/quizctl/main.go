// Command quizctl takes a protocol quiz in the terminal against a running API.
// Interrupting or suspending the process while a question is open counts as
// losing focus and locks the quiz.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/facebookgo/flagenv"

	"defiquiz/internal/config"
	"defiquiz/internal/http/middleware"
	"defiquiz/internal/quiz"
	"defiquiz/internal/service"
	"defiquiz/internal/store"
	_ "defiquiz/internal/store/all"
)

var (
	apiURL          = flag.String("api-url", "http://localhost:8080", "base URL of the quiz API")
	protocolID      = flag.String("protocol", "", "protocol to take the quiz for")
	timePerQuestion = flag.Duration("time-per-question", quiz.DefaultTimePerQuestion, "countdown for each question")
	storeBackend    = flag.String("store-backend", "memory", "store for completed quizzes: memory, bbolt or valkey")
	bboltPath       = flag.String("bbolt-path", "quizctl.db", "bbolt file when -store-backend=bbolt")
	valkeyURL       = flag.String("valkey-url", "", "valkey URL when -store-backend=valkey")
	resubmit        = flag.Bool("resubmit", false, "submit the last completed quiz for -protocol again instead of playing")
	httpTimeout     = flag.Duration("http-timeout", 15*time.Second, "timeout for API requests")
	slogLevel       = flag.String("slog-level", "INFO", "log level")
)

func main() {
	flagenv.Parse()
	flag.Parse()

	var level slog.Level
	if err := (&level).UnmarshalText([]byte(*slogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %s: %v, using info\n", *slogLevel, err)
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(middleware.NewJSONHandler(os.Stderr, level, time.Local)))

	if *protocolID == "" {
		fmt.Fprintln(os.Stderr, "quizctl: -protocol is required")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Stdin, os.Stdout, watchFocus)
	switch {
	case err == nil:
	case errors.Is(err, quiz.ErrIntegrityViolation):
		fmt.Fprintln(os.Stdout, "\nintegrity violation: focus was lost, the quiz is locked")
		os.Exit(3)
	case errors.Is(err, errQuit):
		os.Exit(1)
	default:
		slog.Error("quizctl failed", "err", err)
		os.Exit(1)
	}
}

// focusWatch starts delivering focus-loss events and returns a func that stops it.
type focusWatch func() (<-chan struct{}, func())

// watchFocus turns interrupt and suspend signals into focus-loss events. Once
// stopped, both signals get their default behaviour back.
func watchFocus() (<-chan struct{}, func()) {
	focus := make(chan struct{}, 1)
	sigs := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigs, os.Interrupt, syscall.SIGTSTP)

	go func() {
		for {
			select {
			case <-done:
				return
			case <-sigs:
				select {
				case focus <- struct{}{}:
				default:
				}
			}
		}
	}()

	var once sync.Once
	return focus, func() {
		once.Do(func() {
			signal.Stop(sigs)
			close(done)
		})
	}
}

func run(ctx context.Context, in io.Reader, out io.Writer, watch focusWatch) error {
	sc := config.StoreConfig{Backend: *storeBackend, ValkeyURL: *valkeyURL, BboltPath: *bboltPath}
	kv, err := store.Build(ctx, sc.Backend, sc.BackendConfig())
	if err != nil {
		return fmt.Errorf("build store: %w", err)
	}
	persister := quiz.NewStorePersister(kv, quiz.DefaultRetention)
	api := newAPIClient(*apiURL, *httpTimeout)

	if *resubmit {
		sub, err := persister.Load(ctx, *protocolID)
		if err != nil {
			return fmt.Errorf("load completed quiz: %w", err)
		}
		return submitAndReport(ctx, api, out, sub)
	}

	qs, err := api.Questions(ctx, *protocolID)
	if err != nil {
		return fmt.Errorf("fetch questions: %w", err)
	}
	slog.Debug("questions loaded", "protocol", qs.Protocol.ID, "total", qs.Total)
	fmt.Fprintf(out, "%s: %d questions, %s each\n", qs.Protocol.Name, qs.Total, *timePerQuestion)

	sess, err := quiz.New(qs.Protocol.ID, qs.Questions,
		quiz.WithTimePerQuestion(*timePerQuestion),
		quiz.WithPersister(persister),
	)
	if err != nil {
		return err
	}

	focus, stopWatch := watch()
	err = play(ctx, sess, in, out, focus, time.Second)
	stopWatch()
	if err != nil {
		return err
	}
	return submitAndReport(ctx, api, out, sess.Submission())
}

func submitAndReport(ctx context.Context, api *apiClient, out io.Writer, sub quiz.Submission) error {
	res, err := api.Submit(ctx, sub)
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}

	results, err := api.Results(ctx, res.Token)
	if err != nil {
		return fmt.Errorf("results: %w", err)
	}

	fmt.Fprintf(out, "\nscore %d/%d\n", results.Score, results.Total)
	if results.Passed && results.SecretWord != nil {
		fmt.Fprintf(out, "passed %s, secret word: %s\n", results.ProtocolName, *results.SecretWord)
	} else {
		fmt.Fprintf(out, "not passed, %s needs at least %d correct answers\n", results.ProtocolName, service.PassingScore)
	}
	return nil
}
