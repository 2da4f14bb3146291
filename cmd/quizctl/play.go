package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"defiquiz/internal/quiz"
)

var errQuit = errors.New("quit")

// syncWriter serializes writes from the input loop and the runner goroutine.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, format, args...)
}

// play runs sess to completion against line input. A number locks that
// answer, "s N" only selects it, an empty line or "n" moves on and "q" quits.
func play(ctx context.Context, sess *quiz.Session, in io.Reader, w io.Writer, focus <-chan struct{}, interval time.Duration) error {
	out := &syncWriter{w: w}

	if err := sess.Start(); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	expired := -1
	r := &quiz.Runner{
		Session:   sess,
		FocusLost: focus,
		Interval:  interval,
		OnTick: func(st quiz.State) {
			if st.AnswerLocked && st.TimeRemaining == 0 && expired != st.Index {
				expired = st.Index
				out.printf("time is up, press enter to continue\n")
			}
		},
	}
	runDone := make(chan error, 1)
	go func() { runDone <- r.Run(runCtx) }()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- strings.TrimSpace(sc.Text()):
			case <-runCtx.Done():
				return
			}
		}
	}()

	show(out, sess.Snapshot())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-runDone:
			if err != nil {
				return err
			}
			if sess.Snapshot().Status == quiz.StatusCompleted {
				return nil
			}
			return quiz.ErrNotInProgress
		case line, ok := <-lines:
			if !ok {
				return io.ErrUnexpectedEOF
			}
			done, err := handleLine(ctx, sess, out, line)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

func handleLine(ctx context.Context, sess *quiz.Session, out *syncWriter, line string) (bool, error) {
	switch {
	case line == "q":
		return false, errQuit
	case line == "" || line == "n":
		err := sess.Next(ctx)
		switch {
		case errors.Is(err, quiz.ErrAnswerNotLocked):
			out.printf("lock an answer first\n")
			return false, nil
		case err != nil:
			return false, err
		}
		st := sess.Snapshot()
		if st.Status == quiz.StatusCompleted {
			return true, nil
		}
		show(out, st)
		return false, nil
	case strings.HasPrefix(line, "s "):
		id, ok := answerAt(sess.Snapshot(), strings.TrimSpace(line[2:]))
		if !ok {
			out.printf("no such answer\n")
			return false, nil
		}
		return false, report(out, sess.Select(id), "selected")
	default:
		id, ok := answerAt(sess.Snapshot(), line)
		if !ok {
			out.printf("no such answer\n")
			return false, nil
		}
		return false, report(out, sess.Lock(id), "locked")
	}
}

// report prints recoverable session errors and passes fatal ones through.
func report(out *syncWriter, err error, ok string) error {
	switch {
	case err == nil:
		out.printf("%s\n", ok)
	case errors.Is(err, quiz.ErrAnswerLocked):
		out.printf("answer already locked\n")
	default:
		return err
	}
	return nil
}

func answerAt(st quiz.State, s string) (string, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > len(st.Question.Answers) {
		return "", false
	}
	return st.Question.Answers[n-1].ID, true
}

func show(out *syncWriter, st quiz.State) {
	out.printf("\n[%d/%d] %s (%ds)\n", st.Index+1, st.Total, st.Question.Text, st.TimeRemaining)
	for i, a := range st.Question.Answers {
		out.printf("  %d) %s\n", i+1, a.Text)
	}
}
