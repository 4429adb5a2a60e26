package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/earlysvahn/unitsense/internal/convert"
	"github.com/earlysvahn/unitsense/internal/session"
	"github.com/earlysvahn/unitsense/internal/widget"
)

const tooManyAsks = "Too many questions. Please wait a moment and try again."

type pageData struct {
	Categories     []convert.Category
	Category       convert.Category
	Units          []string
	From           string
	To             string
	Value          string
	Result         string
	ConvertWarning string
	Prompt         string
	Answer         string
	AskWarning     string
	History        []session.Item
}

// newPage prepares the widgets for the category named in the request,
// defaulting to the first category like an untouched selector.
func newPage(r *http.Request, hist *session.History) pageData {
	category, err := convert.ParseCategory(r.FormValue("category"))
	if err != nil {
		category = convert.Categories()[0]
	}
	units := convert.Units(category)
	return pageData{
		Categories: convert.Categories(),
		Category:   category,
		Units:      units,
		From:       units[0],
		To:         units[0],
		Value:      "0.00",
		History:    hist.Display(),
	}
}

func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		s.log.Error("render page", zap.Error(err))
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, newPage(r, s.history(r)))
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	page := newPage(r, s.history(r))
	page.From = r.FormValue("from")
	page.To = r.FormValue("to")
	page.Value = r.FormValue("value")

	value, err := strconv.ParseFloat(page.Value, 64)
	if err != nil {
		page.ConvertWarning = "Please enter a number."
		s.render(w, http.StatusBadRequest, page)
		return
	}
	res, err := s.actions.Convert(convert.Request{Value: value, From: page.From, To: page.To, Category: page.Category})
	if err != nil {
		page.ConvertWarning = err.Error()
		s.render(w, http.StatusBadRequest, page)
		return
	}
	page.Result = res.Message
	s.render(w, http.StatusOK, page)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	page := newPage(r, s.history(r))
	page.Prompt = r.FormValue("prompt")

	if page.Prompt == "" {
		page.AskWarning = widget.EmptyPromptWarning
		s.render(w, http.StatusOK, page)
		return
	}
	if !s.limiter.Allow(clientIP(r, s.trusted)) {
		page.AskWarning = tooManyAsks
		s.render(w, http.StatusTooManyRequests, page)
		return
	}
	id, hist := s.session(w, r)
	reply, err := s.actions.Ask(r.Context(), hist, id, page.Prompt)
	if err != nil {
		page.AskWarning = err.Error()
		s.render(w, http.StatusOK, page)
		return
	}
	page.Answer = reply.Text
	page.History = hist.Display()
	s.render(w, http.StatusOK, page)
}

type convertRequest struct {
	Value    float64 `json:"value"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	Category string  `json:"category"`
}

type convertResponse struct {
	Result  float64 `json:"result"`
	Message string  `json:"message"`
}

type askRequest struct {
	Prompt string `json:"prompt"`
}

type askResponse struct {
	Answer  string `json:"answer"`
	Outcome string `json:"outcome"`
	Status  int    `json:"status,omitempty"`
}

type historyResponse struct {
	Items []session.Item `json:"items"`
}

func (s *Server) handleAPIConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	category, err := convert.ParseCategory(req.Category)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := s.actions.Convert(convert.Request{Value: req.Value, From: req.From, To: req.To, Category: category})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, convertResponse{Result: res.Value, Message: res.Message})
}

func (s *Server) handleAPIAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, widget.EmptyPromptWarning)
		return
	}
	if !s.limiter.Allow(clientIP(r, s.trusted)) {
		writeError(w, http.StatusTooManyRequests, tooManyAsks)
		return
	}
	id, hist := s.session(w, r)
	reply, err := s.actions.Ask(r.Context(), hist, id, req.Prompt)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, askResponse{Answer: reply.Text, Outcome: string(reply.Outcome), Status: reply.Status})
}

func (s *Server) handleAPIHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, historyResponse{Items: s.history(r).Display()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
