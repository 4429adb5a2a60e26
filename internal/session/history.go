// Package session holds the per-session question/answer history.
package session

import (
	"fmt"
	"sync"
	"time"
)

// Entry is one asked question and the answer shown for it.
type Entry struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	Time     time.Time `json:"time"`
}

// Item is an Entry as displayed: newest first, labeled by display position.
type Item struct {
	Entry
	Label string `json:"label"`
}

// Title is the collapsed header of the item.
func (i Item) Title() string {
	return fmt.Sprintf("%s: %s", i.Label, i.Question)
}

// History is an append-only list of entries. Entries are never modified or
// removed; the list lives as long as its session.
type History struct {
	mu      sync.Mutex
	entries []Entry
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Append(question, answer string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, Entry{Question: question, Answer: answer, Time: time.Now().UTC()})
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Entries returns a copy in submission order.
func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Display returns the entries newest first. The newest entry is always
// labeled "Question 1".
func (h *History) Display() []Item {
	entries := h.Entries()
	items := make([]Item, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		items = append(items, Item{
			Entry: entries[i],
			Label: fmt.Sprintf("Question %d", len(items)+1),
		})
	}
	return items
}
