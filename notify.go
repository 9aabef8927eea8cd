package main

import (
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/fatih/color"
)

// notifier prints the one-shot banners the dashboards use for feedback.
// Failures are logged for diagnostics and shown exactly once; nothing is
// retried behind the user's back. The mutex keeps concurrent loaders from
// interleaving banner lines.
type notifier struct {
	mu     sync.Mutex
	out    io.Writer
	logger *log.Logger

	success *color.Color
	failure *color.Color
}

func newNotifier(out io.Writer, logger *log.Logger) *notifier {
	return &notifier{
		out:     out,
		logger:  logger,
		success: color.New(color.FgGreen, color.Bold),
		failure: color.New(color.FgRed, color.Bold),
	}
}

// Success shows a green confirmation banner.
func (n *notifier) Success(format string, args ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	if n.logger != nil {
		n.logger.Printf("ok: %s", msg)
	}
	n.success.Fprintf(n.out, "✔ %s\n", msg)
}

// Failf shows a red banner for a failed action, prefixed with what the user
// was trying to do. Backend-supplied messages surface verbatim.
func (n *notifier) Failf(context string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.logger != nil {
		n.logger.Printf("unable to %s: %v", context, err)
	}
	n.failure.Fprintf(n.out, "✘ Unable to %s. %v\n", context, err)
}

// Errorf shows a red banner for a plain message (local guards, bad input).
func (n *notifier) Errorf(format string, args ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	if n.logger != nil {
		n.logger.Printf("error: %s", msg)
	}
	n.failure.Fprintf(n.out, "✘ %s\n", msg)
}
