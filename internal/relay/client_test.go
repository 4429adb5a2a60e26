package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	method string
	header http.Header
	inputs string
}

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	got := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		got.method = r.Method
		got.header = r.Header.Clone()
		got.inputs = payload["inputs"]
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestAsk_Answer(t *testing.T) {
	srv, captured := newTestServer(t, http.StatusOK, `[{"generated_text": "hello"}]`)
	c := NewClient(srv.URL, "hf_secret", 5*time.Second, nil)

	reply := c.Ask(context.Background(), "say hello")

	assert.Equal(t, "hello", reply.Text)
	assert.Equal(t, OutcomeAnswer, reply.Outcome)
	assert.Equal(t, http.StatusOK, reply.Status)
	assert.True(t, reply.OK())

	assert.Equal(t, http.MethodPost, captured.method)
	assert.Equal(t, "Bearer hf_secret", captured.header.Get("Authorization"))
	assert.Equal(t, "application/json", captured.header.Get("Content-Type"))
	assert.Equal(t, "say hello", captured.inputs)
}

func TestAsk_EmptyKeyStillSendsBearer(t *testing.T) {
	srv, captured := newTestServer(t, http.StatusUnauthorized, `{"error":"Invalid credentials in Authorization header"}`)
	c := NewClient(srv.URL, "", 0, nil)

	reply := c.Ask(context.Background(), "hi")

	// Trailing space of "Bearer " is trimmed when the server parses the header.
	assert.Equal(t, "Bearer", captured.header.Get("Authorization"))
	assert.Equal(t, `Error: {"error":"Invalid credentials in Authorization header"}`, reply.Text)
	assert.Equal(t, OutcomeFailed, reply.Outcome)
	assert.Equal(t, http.StatusUnauthorized, reply.Status)
}

func TestAsk_MissingFieldIsMalformed(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `[{}]`)
	reply := NewClient(srv.URL, "k", 0, nil).Ask(context.Background(), "q")

	assert.Equal(t, "Error: Unexpected response format.", reply.Text)
	assert.Equal(t, OutcomeMalformed, reply.Outcome)
	assert.False(t, reply.OK())
}

func TestAsk_OtherUnexpectedShapes(t *testing.T) {
	for _, body := range []string{
		`[]`,
		`{"generated_text": "not in a list"}`,
		`["just a string"]`,
		`[{"generated_text": null}]`,
		`not json at all`,
		``,
	} {
		t.Run(body, func(t *testing.T) {
			srv, _ := newTestServer(t, http.StatusOK, body)
			reply := NewClient(srv.URL, "k", 0, nil).Ask(context.Background(), "q")
			assert.Equal(t, MalformedText, reply.Text)
		})
	}
}

func TestAsk_NonSuccessEmbedsBody(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusTooManyRequests, "rate limited")
	reply := NewClient(srv.URL, "k", 0, nil).Ask(context.Background(), "q")

	assert.Equal(t, "Error: rate limited", reply.Text)
	assert.Equal(t, OutcomeFailed, reply.Outcome)
	assert.Equal(t, http.StatusTooManyRequests, reply.Status)
}

func TestAsk_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	reply := NewClient(url, "k", time.Second, nil).Ask(context.Background(), "q")

	assert.Equal(t, OutcomeFailed, reply.Outcome)
	assert.Equal(t, 0, reply.Status)
	assert.Contains(t, reply.Text, "Error: ")
}

func TestAsk_LogsDiagnostics(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `[{"generated_text": "42"}]`)
	var lines []string
	c := NewClient(srv.URL, "k", 0, func(s string) { lines = append(lines, s) })

	c.Ask(context.Background(), "meaning of life")

	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "meaning of life")
	assert.Contains(t, lines[1], "200")
	assert.Contains(t, lines[2], "42")
}

func TestNewClient_DefaultEndpoint(t *testing.T) {
	assert.Equal(t, DefaultEndpoint, NewClient("", "", 0, nil).Endpoint)
}

func TestNewClient_Timeout(t *testing.T) {
	assert.Equal(t, 90*time.Second, NewClient("", "", 90*time.Second, nil).HTTP.Timeout)
}
