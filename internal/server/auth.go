package server

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"strings"
	"time"
)

const otpTTL = 10 * time.Minute

// CodeSender delivers a one-time login code to an address. How codes
// reach users (email, SMS) is a deployment concern.
type CodeSender interface {
	SendCode(email, code string) error
}

// LogSender prints codes to the server log. Dev use only.
type LogSender struct{}

// SendCode logs the code instead of delivering it.
func (LogSender) SendCode(email, code string) error {
	log.Printf("login code for %s: %s", email, code)
	return nil
}

// generateOTP returns a 6-digit numeric code.
func generateOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64())
}

// POST /api/auth/request_code - issue a login code for an email.
func (s *Server) handleRequestCode(w http.ResponseWriter, r *http.Request) {
	if !s.otpRL.allow(remoteIP(r)) {
		jsonError(w, "too many requests, try again later", http.StatusTooManyRequests)
		return
	}
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil || !validEmail(req.Email) {
		jsonError(w, "field 'email' required", http.StatusBadRequest)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	code := generateOTP()
	if err := s.store.PutOTP(email, code, s.now().Add(otpTTL)); err != nil {
		log.Printf("store otp: %v", err)
		jsonError(w, "could not issue code", http.StatusInternalServerError)
		return
	}
	if err := s.sender.SendCode(email, code); err != nil {
		log.Printf("send otp to %s: %v", email, err)
		jsonError(w, "could not send code", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

// POST /api/auth/verify_code - trade a valid code for a bearer token.
func (s *Server) handleVerifyCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Email == "" || req.Code == "" {
		jsonError(w, "fields 'email' and 'code' required", http.StatusBadRequest)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	ok, err := s.store.ConsumeOTP(email, strings.TrimSpace(req.Code), s.now())
	if err != nil {
		log.Printf("consume otp: %v", err)
		jsonError(w, "verification failed", http.StatusInternalServerError)
		return
	}
	if !ok {
		jsonError(w, "invalid or expired code", http.StatusUnauthorized)
		return
	}
	user, err := s.store.EnsureUser(email)
	if err != nil {
		log.Printf("ensure user %s: %v", email, err)
		jsonError(w, "verification failed", http.StatusInternalServerError)
		return
	}
	token, err := s.store.CreateToken(user.ID)
	if err != nil {
		log.Printf("create token: %v", err)
		jsonError(w, "verification failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"token":      token,
		"friendCode": user.FriendCode,
	})
}

// authed resolves the request's bearer token, writing a 401 and
// returning nil when it is missing or unknown.
func (s *Server) authed(w http.ResponseWriter, r *http.Request) *User {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		jsonError(w, "authentication required", http.StatusUnauthorized)
		return nil
	}
	user, err := s.store.UserByToken(token)
	if err != nil {
		jsonError(w, "authentication required", http.StatusUnauthorized)
		return nil
	}
	return user
}

func validEmail(s string) bool {
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1 && len(s) <= 254
}
