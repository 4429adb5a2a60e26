package widget

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earlysvahn/unitsense/internal/convert"
	"github.com/earlysvahn/unitsense/internal/relay"
	"github.com/earlysvahn/unitsense/internal/session"
	"github.com/earlysvahn/unitsense/internal/store"
)

type stubAsker struct {
	prompts []string
	reply   func(prompt string) relay.Reply
}

func (s *stubAsker) Ask(_ context.Context, prompt string) relay.Reply {
	s.prompts = append(s.prompts, prompt)
	return s.reply(prompt)
}

type memAudit struct {
	store.NopStore
	records []store.AuditRecord
	err     error
}

func (m *memAudit) Record(_ context.Context, rec store.AuditRecord) error {
	m.records = append(m.records, rec)
	return m.err
}

func echo(prompt string) relay.Reply {
	return relay.Reply{Text: "answer to " + prompt, Outcome: relay.OutcomeAnswer, Status: 200}
}

func TestConvert_Message(t *testing.T) {
	a := &Actions{}
	res, err := a.Convert(convert.Request{Value: 1, From: "kilometer", To: "meter", Category: convert.Length})
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, res.Value, 1e-9)
	assert.Equal(t, "1.0 kilometer = 1000.00 meter", res.Message)

	res, err = a.Convert(convert.Request{Value: 0, From: "Celsius", To: "Fahrenheit", Category: convert.Temperature})
	require.NoError(t, err)
	assert.Equal(t, "0.0 Celsius = 32.00 Fahrenheit", res.Message)
}

func TestConvert_RejectsInvalidInput(t *testing.T) {
	a := &Actions{}
	_, err := a.Convert(convert.Request{Value: -1, From: "gram", To: "pound", Category: convert.Weight})
	assert.Error(t, err)

	_, err = a.Convert(convert.Request{Value: 1, From: "gram", To: "meter", Category: convert.Weight})
	assert.ErrorIs(t, err, convert.ErrUnknownUnit)
}

func TestAsk_EmptyPromptNeverCallsRelay(t *testing.T) {
	asker := &stubAsker{reply: echo}
	a := &Actions{Relay: asker}
	hist := session.NewHistory()

	_, err := a.Ask(context.Background(), hist, "", "")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
	assert.Equal(t, "Please enter a question.", err.Error())
	assert.Empty(t, asker.prompts)
	assert.Equal(t, 0, hist.Len())
}

func TestAsk_AppendsEveryReplyInOrder(t *testing.T) {
	asker := &stubAsker{reply: echo}
	a := &Actions{Relay: asker}
	hist := session.NewHistory()

	const n = 4
	for i := 1; i <= n; i++ {
		reply, err := a.Ask(context.Background(), hist, "s", fmt.Sprintf("q%d", i))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("answer to q%d", i), reply.Text)
	}

	require.Equal(t, n, hist.Len())
	items := hist.Display()
	for i, item := range items {
		assert.Equal(t, fmt.Sprintf("Question %d", i+1), item.Label)
		assert.Equal(t, fmt.Sprintf("q%d", n-i), item.Question)
	}
}

func TestAsk_ErrorTextIsRecordedAsAnswer(t *testing.T) {
	asker := &stubAsker{reply: func(string) relay.Reply {
		return relay.Reply{Text: "Error: rate limited", Outcome: relay.OutcomeFailed, Status: 429}
	}}
	audit := &memAudit{}
	a := &Actions{Relay: asker, Audit: audit}
	hist := session.NewHistory()

	reply, err := a.Ask(context.Background(), hist, "sess-1", "hello?")
	require.NoError(t, err)
	assert.False(t, reply.OK())
	assert.Equal(t, "Error: rate limited", hist.Entries()[0].Answer)

	require.Len(t, audit.records, 1)
	rec := audit.records[0]
	assert.Equal(t, "sess-1", rec.SessionID)
	assert.Equal(t, "hello?", rec.Prompt)
	assert.Equal(t, "failed", rec.Outcome)
	assert.Equal(t, 429, rec.Status)
}

func TestAsk_AuditFailureIsOnlyLogged(t *testing.T) {
	var logged []string
	a := &Actions{
		Relay: &stubAsker{reply: echo},
		Audit: &memAudit{err: errors.New("disk full")},
		Log:   func(s string) { logged = append(logged, s) },
	}
	hist := session.NewHistory()

	reply, err := a.Ask(context.Background(), hist, "", "q")
	require.NoError(t, err)
	assert.Equal(t, "answer to q", reply.Text)
	require.Len(t, logged, 1)
	assert.Contains(t, logged[0], "disk full")
}

func TestFormatInput(t *testing.T) {
	assert.Equal(t, "1.0", FormatInput(1))
	assert.Equal(t, "0.0", FormatInput(0))
	assert.Equal(t, "2.5", FormatInput(2.5))
	assert.Equal(t, "1234.5678", FormatInput(1234.5678))
	assert.Equal(t, "0.0001", FormatInput(0.0001))
	assert.Equal(t, "1e-05", FormatInput(0.00001))
	assert.Equal(t, "1.5e-07", FormatInput(1.5e-7))
	assert.Equal(t, "1000000000000000.0", FormatInput(1e15))
	assert.Equal(t, "1e+16", FormatInput(1e16))
	assert.Equal(t, "2.5e+20", FormatInput(2.5e20))
}

// ctxAudit fails the way a database driver does when its context is done.
type ctxAudit struct {
	memAudit
}

func (c *ctxAudit) Record(ctx context.Context, rec store.AuditRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.memAudit.Record(ctx, rec)
}

func TestAsk_AuditSurvivesCancelledRequest(t *testing.T) {
	audit := &ctxAudit{}
	var logged []string
	a := &Actions{
		Relay: &stubAsker{reply: echo},
		Audit: audit,
		Log:   func(s string) { logged = append(logged, s) },
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	hist := session.NewHistory()
	_, err := a.Ask(ctx, hist, "sid", "still recorded?")
	require.NoError(t, err)
	assert.Equal(t, 1, hist.Len())
	require.Len(t, audit.records, 1)
	assert.Equal(t, "still recorded?", audit.records[0].Prompt)
	assert.Empty(t, logged)
}
