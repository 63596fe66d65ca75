// Package server implements the daily crossword HTTP API: puzzle of
// the day, one-time-code auth, friends, leaderboard, and the admin
// upload feed the generation pipeline posts to.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// Puzzle dates roll over on US Pacific time, matching the generation
// pipeline.
const rolloverTZ = "America/Los_Angeles"

// Server is the main HTTP server.
type Server struct {
	mux         *http.ServeMux
	store       *Store
	sender      CodeSender
	sse         *Broadcaster
	otpRL       *rateLimiter
	submitRL    *rateLimiter
	adminSecret string
	loc         *time.Location
	now         func() time.Time
}

// NewServer creates a configured HTTP server. An empty adminSecret
// disables the admin endpoints.
func NewServer(store *Store, sender CodeSender, adminSecret string) *Server {
	loc, err := time.LoadLocation(rolloverTZ)
	if err != nil {
		log.Printf("load %s: %v, falling back to UTC", rolloverTZ, err)
		loc = time.UTC
	}
	s := &Server{
		mux:         http.NewServeMux(),
		store:       store,
		sender:      sender,
		sse:         NewBroadcaster(),
		otpRL:       newRateLimiter(5, time.Minute),    // 5 code requests/min per IP
		submitRL:    newRateLimiter(10, time.Minute),   // 10 submissions/min per IP
		adminSecret: adminSecret,
		loc:         loc,
		now:         time.Now,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	// Puzzle API
	s.mux.HandleFunc("GET /api/puzzles/today", s.handlePuzzleToday)

	// Auth API
	s.mux.HandleFunc("POST /api/auth/request_code", s.handleRequestCode)
	s.mux.HandleFunc("POST /api/auth/verify_code", s.handleVerifyCode)

	// Social API
	s.mux.HandleFunc("POST /api/completions", s.handleSubmitCompletion)
	s.mux.HandleFunc("GET /api/friends", s.handleListFriends)
	s.mux.HandleFunc("POST /api/friends", s.handleAddFriend)
	s.mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)
	s.mux.HandleFunc("GET /api/leaderboard/events", s.handleLeaderboardEvents)

	// Admin API (x-admin-secret)
	s.mux.HandleFunc("POST /api/admin/puzzles/bulk_upload", s.handleBulkUpload)
	s.mux.HandleFunc("GET /api/admin/puzzles/get_by_date", s.handleAdminGetByDate)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	s.mux.ServeHTTP(w, r)
}

// today returns the current puzzle date in the rollover timezone.
func (s *Server) today() string {
	return s.now().In(s.loc).Format("2006-01-02")
}

// --- Puzzle handlers ---

// GET /api/puzzles/today - the puzzle of the day, or any date via
// ?date=YYYY-MM-DD.
func (s *Server) handlePuzzleToday(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = s.today()
	}
	if !validISODate(date) {
		jsonError(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	doc, err := s.store.PuzzleByDate(date)
	if err == ErrNotFound {
		jsonError(w, "no puzzle for "+date, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("load puzzle %s: %v", date, err)
		jsonError(w, "could not load puzzle", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// --- Completion handlers ---

// POST /api/completions - record today's solve time. A repeat
// submission answers with already_recorded, never an error; the
// results table keeps at most one row per user per day.
func (s *Server) handleSubmitCompletion(w http.ResponseWriter, r *http.Request) {
	if !s.submitRL.allow(remoteIP(r)) {
		jsonError(w, "too many requests, try again later", http.StatusTooManyRequests)
		return
	}
	user := s.authed(w, r)
	if user == nil {
		return
	}
	var req struct {
		TimeMs int64 `json:"timeMs"`
	}
	if err := decodeJSON(r, &req); err != nil || req.TimeMs <= 0 {
		jsonError(w, "field 'timeMs' must be a positive integer", http.StatusBadRequest)
		return
	}

	date := s.today()
	already, err := s.store.SaveResult(user.ID, date, req.TimeMs)
	if err != nil {
		log.Printf("save result for %s: %v", user.Email, err)
		jsonError(w, "could not record completion", http.StatusInternalServerError)
		return
	}
	if already {
		writeJSON(w, http.StatusOK, map[string]string{"status": "already_recorded"})
		return
	}

	evt, _ := json.Marshal(map[string]any{
		"type":   "completion",
		"email":  user.Email,
		"timeMs": req.TimeMs,
	})
	s.sse.Broadcast(date, string(evt))

	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

// --- Friend handlers ---

// GET /api/friends - list the caller's friends.
func (s *Server) handleListFriends(w http.ResponseWriter, r *http.Request) {
	user := s.authed(w, r)
	if user == nil {
		return
	}
	friends, err := s.store.Friends(user.ID)
	if err != nil {
		log.Printf("list friends for %s: %v", user.Email, err)
		jsonError(w, "could not list friends", http.StatusInternalServerError)
		return
	}
	if friends == nil {
		friends = []User{}
	}
	writeJSON(w, http.StatusOK, friends)
}

// POST /api/friends - add a friend by friend code. Links both ways.
func (s *Server) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	user := s.authed(w, r)
	if user == nil {
		return
	}
	var req struct {
		FriendCode string `json:"friendCode"`
	}
	if err := decodeJSON(r, &req); err != nil || req.FriendCode == "" {
		jsonError(w, "field 'friendCode' required", http.StatusBadRequest)
		return
	}
	friend, err := s.store.AddFriend(user.ID, req.FriendCode)
	if err == ErrNotFound {
		jsonError(w, "unknown friend code", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "could not add friend", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, friend)
}

// --- Leaderboard handlers ---

// GET /api/leaderboard - the caller and their friends, ranked by time.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	user := s.authed(w, r)
	if user == nil {
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = s.today()
	}
	if !validISODate(date) {
		jsonError(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	entries, err := s.store.Leaderboard(user.ID, date)
	if err != nil {
		log.Printf("leaderboard for %s: %v", user.Email, err)
		jsonError(w, "could not load leaderboard", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": date, "entries": entries})
}

// GET /api/leaderboard/events - SSE stream of completions for a date.
// SSE clients cannot set headers, so the token rides in the query.
func (s *Server) handleLeaderboardEvents(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	user, err := s.store.UserByToken(token)
	if token == "" || err != nil {
		jsonError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = s.today()
	}
	s.sse.ServeSSE(w, r, date, func(c *client) {
		// Send the current standings on connect.
		entries, err := s.store.Leaderboard(user.ID, date)
		if err != nil {
			return
		}
		evt, _ := json.Marshal(map[string]any{
			"type":    "leaderboard",
			"date":    date,
			"entries": entries,
		})
		c.ch <- string(evt)
	})
}

// --- Helpers ---

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func validISODate(s string) bool {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return false
	}
	return t.Format("2006-01-02") == s
}
