package relay

// Outcome tags how a relay call ended. The user only ever sees Reply.Text.
type Outcome string

const (
	OutcomeAnswer    Outcome = "answer"
	OutcomeMalformed Outcome = "malformed"
	OutcomeFailed    Outcome = "failed"
)

// MalformedText is shown when the service answers successfully but not in
// the expected [{"generated_text": ...}] shape.
const MalformedText = "Error: Unexpected response format."

// Reply is the result of one relay call.
type Reply struct {
	Text    string
	Outcome Outcome
	// Status is the HTTP status code, or 0 when no response arrived.
	Status int
}

func (r Reply) String() string { return r.Text }

// OK reports whether Text is a generated answer rather than error text.
func (r Reply) OK() bool { return r.Outcome == OutcomeAnswer }

func failed(status int, text string) Reply {
	return Reply{Text: "Error: " + text, Outcome: OutcomeFailed, Status: status}
}
