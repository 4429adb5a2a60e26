// Package relay forwards a prompt to a hosted text-generation endpoint and
// extracts the generated text.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

const DefaultEndpoint = "https://api-inference.huggingface.co/models/tiiuae/falcon-7b-instruct"

// Client relays prompts to Endpoint. Unlike http.DefaultClient it is built
// with a timeout (config relay.timeout, two minutes by default) so a stalled
// endpoint cannot hold a request open forever.
type Client struct {
	Endpoint string
	APIKey   string
	HTTP     *http.Client
	Log      func(string)
}

// NewClient builds a client for endpoint. A zero timeout leaves the call
// bounded only by the caller's context.
func NewClient(endpoint, apiKey string, timeout time.Duration, log func(string)) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		Endpoint: endpoint,
		APIKey:   apiKey,
		HTTP:     &http.Client{Timeout: timeout},
		Log:      log,
	}
}

// Ask sends prompt in a single POST and never returns an error: transport
// failures, non-2xx statuses and unexpected bodies all come back as Reply
// text prefixed with "Error: ".
func (c *Client) Ask(ctx context.Context, prompt string) Reply {
	c.logf("prompt received: %q", prompt)

	b, err := json.Marshal(map[string]string{"inputs": prompt})
	if err != nil {
		return failed(0, err.Error())
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(b))
	if err != nil {
		return failed(0, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		c.logf("api request failed: %v", err)
		return failed(0, err.Error())
	}
	defer resp.Body.Close()
	c.logf("api response status: %d", resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failed(resp.StatusCode, err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failed(resp.StatusCode, string(body))
	}

	text, ok := generatedText(body)
	if !ok {
		c.logf("unexpected response body: %s", body)
		return Reply{Text: MalformedText, Outcome: OutcomeMalformed, Status: resp.StatusCode}
	}
	c.logf("ai response: %q", text)
	return Reply{Text: text, Outcome: OutcomeAnswer, Status: resp.StatusCode}
}

// generatedText pulls [0].generated_text out of body.
func generatedText(body []byte) (string, bool) {
	if !gjson.ValidBytes(body) {
		return "", false
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return "", false
	}
	first := root.Get("0")
	if !first.IsObject() {
		return "", false
	}
	field := first.Get("generated_text")
	if !field.Exists() || field.Type == gjson.Null {
		return "", false
	}
	return field.String(), true
}

func (c *Client) logf(format string, args ...any) {
	if c.Log != nil {
		c.Log(fmt.Sprintf(format, args...))
	}
}
