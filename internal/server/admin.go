package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/minicross/minicross/internal/puzzle"
)

const maxUploadSize = 10 << 20 // 10 MB

// requireAdmin checks the x-admin-secret header. Admin endpoints are
// dead when no secret is configured.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if s.adminSecret == "" || r.Header.Get("x-admin-secret") != s.adminSecret {
		jsonError(w, "forbidden", http.StatusForbidden)
		return false
	}
	return true
}

// POST /api/admin/puzzles/bulk_upload - ingest the generator's JSONL
// feed, one {puzzle_date, data:{grid, clues}} record per line. Every
// record is validated (grid shape, orphan cells, clue bounds) before
// anything is stored; a bad line rejects the whole upload.
func (s *Server) handleBulkUpload(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	defer r.Body.Close()

	var records []puzzle.Record
	scanner := bufio.NewScanner(r.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec puzzle.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			jsonError(w, fmt.Sprintf("line %d: %v", lineNo, err), http.StatusBadRequest)
			return
		}
		doc := rec.Document()
		if !validISODate(doc.Date) {
			jsonError(w, fmt.Sprintf("line %d: invalid puzzle_date %q", lineNo, rec.Date), http.StatusBadRequest)
			return
		}
		if _, _, err := doc.Build(); err != nil {
			jsonError(w, fmt.Sprintf("line %d: %v", lineNo, err), http.StatusBadRequest)
			return
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		jsonError(w, "could not read upload", http.StatusBadRequest)
		return
	}
	if len(records) == 0 {
		jsonError(w, "no records in upload", http.StatusBadRequest)
		return
	}

	for _, rec := range records {
		if err := s.store.SavePuzzle(rec.Document()); err != nil {
			log.Printf("save puzzle %s: %v", rec.Date, err)
			jsonError(w, "could not store puzzles", http.StatusInternalServerError)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]int{"uploaded": len(records)})
}

// GET /api/admin/puzzles/get_by_date?date=MM-DD-YYYY - fetch a stored
// puzzle. The tooling passes US-style dates; ISO is accepted too.
func (s *Server) handleAdminGetByDate(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	raw := r.URL.Query().Get("date")
	date := raw
	if t, err := time.Parse("01-02-2006", raw); err == nil {
		date = t.Format("2006-01-02")
	}
	if !validISODate(date) {
		jsonError(w, "invalid date, want MM-DD-YYYY", http.StatusBadRequest)
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
