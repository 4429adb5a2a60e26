// Package widget implements the two button actions of the converter page,
// independent of the surface that renders them.
package widget

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/earlysvahn/unitsense/internal/convert"
	"github.com/earlysvahn/unitsense/internal/relay"
	"github.com/earlysvahn/unitsense/internal/session"
	"github.com/earlysvahn/unitsense/internal/store"
)

// EmptyPromptWarning is shown instead of asking when the question is empty.
const EmptyPromptWarning = "Please enter a question."

var ErrEmptyPrompt = errors.New(EmptyPromptWarning)

// Asker is satisfied by *relay.Client.
type Asker interface {
	Ask(ctx context.Context, prompt string) relay.Reply
}

type Actions struct {
	Relay Asker
	Audit store.AuditStore
	Log   func(string)
}

// ConversionResult is what the Convert button produces.
type ConversionResult struct {
	Request convert.Request
	Value   float64
	Message string
}

// Convert validates and runs req and formats the success message, e.g.
// "1.0 kilometer = 1000.00 meter".
func (a *Actions) Convert(req convert.Request) (ConversionResult, error) {
	if err := req.Validate(); err != nil {
		return ConversionResult{}, err
	}
	v, err := req.Convert()
	if err != nil {
		return ConversionResult{}, err
	}
	return ConversionResult{
		Request: req,
		Value:   v,
		Message: fmt.Sprintf("%s %s = %.2f %s", FormatInput(req.Value), req.From, v, req.To),
	}, nil
}

// Ask relays prompt and appends the exchange to hist. Error text returned by
// the relay is recorded like any other answer. sessionID is only used to tag
// the audit record.
func (a *Actions) Ask(ctx context.Context, hist *session.History, sessionID, prompt string) (relay.Reply, error) {
	if prompt == "" {
		return relay.Reply{}, ErrEmptyPrompt
	}

	start := time.Now()
	reply := a.Relay.Ask(ctx, prompt)
	hist.Append(prompt, reply.Text)

	if a.Audit != nil {
		// Recorded even when the caller has gone away, like the history entry.
		err := a.Audit.Record(context.WithoutCancel(ctx), store.AuditRecord{
			SessionID: sessionID,
			Prompt:    prompt,
			Reply:     reply.Text,
			Outcome:   string(reply.Outcome),
			Status:    reply.Status,
			Latency:   time.Since(start),
		})
		if err != nil && a.Log != nil {
			a.Log(fmt.Sprintf("audit record failed: %v", err))
		}
	}
	return reply, nil
}

// FormatInput prints a float the way the entry field echoes it: always with
// a fractional part ("1.0", "2.5"), switching to exponent form below 1e-4
// and from 1e16 up ("1e-05", "1e+16").
func FormatInput(v float64) string {
	if abs := math.Abs(v); abs != 0 && !math.IsInf(v, 0) && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") && !strings.Contains(s, "Inf") && !strings.Contains(s, "NaN") {
		s += ".0"
	}
	return s
}
