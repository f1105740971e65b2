package httpapi

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"nosticpos/backend/internal/cart"
	"nosticpos/backend/internal/domain"
	"nosticpos/backend/internal/service"
	"nosticpos/backend/internal/store"
)

type API struct {
	service       *service.Service
	auth          *AuthManager
	allowedOrigin string
	loginLimiter  *ipLimiter
	csrfSecret    []byte
}

func New(svc *service.Service, auth *AuthManager, allowedOrigin string, loginRatePerMinute int) *API {
	csrfSecret := make([]byte, 32)
	if _, err := rand.Read(csrfSecret); err != nil {
		// Fall back to a deterministic secret if crypto/rand fails (should not happen in practice).
		csrfSecret = []byte("csrf-fallback-secret-change-me!!")
	}
	return &API{
		service:       svc,
		auth:          auth,
		allowedOrigin: allowedOrigin,
		loginLimiter:  newIPLimiter(loginRatePerMinute),
		csrfSecret:    csrfSecret,
	}
}

// csrfTokenForHour computes an HMAC-SHA256 token for the given hour bucket
// (expressed as Unix time truncated to the hour). The token is hex-encoded.
func (a *API) csrfTokenForHour(hourBucket int64) string {
	h := hmac.New(sha256.New, a.csrfSecret)
	fmt.Fprintf(h, "%d", hourBucket)
	return hex.EncodeToString(h.Sum(nil))
}

func (a *API) generateCSRFToken() string {
	now := time.Now().UTC()
	bucket := now.Truncate(time.Hour).Unix()
	return a.csrfTokenForHour(bucket)
}

// validateCSRFToken checks whether the provided token matches the current or
// previous hour bucket, giving a 2-hour validity window.
func (a *API) validateCSRFToken(token string) bool {
	if token == "" {
		return false
	}
	now := time.Now().UTC()
	currentBucket := now.Truncate(time.Hour).Unix()
	prevBucket := currentBucket - 3600

	expected1 := a.csrfTokenForHour(currentBucket)
	expected2 := a.csrfTokenForHour(prevBucket)

	return hmac.Equal([]byte(token), []byte(expected1)) ||
		hmac.Equal([]byte(token), []byte(expected2))
}

// ipLimiter keeps one token bucket per client address. Buckets refill at
// perMinute events per minute with a burst of the same size.
type ipLimiter struct {
	mu        sync.Mutex
	perMinute int
	limiters  map[string]*rate.Limiter
}

func newIPLimiter(perMinute int) *ipLimiter {
	if perMinute < 1 {
		perMinute = 10
	}
	return &ipLimiter{perMinute: perMinute, limiters: make(map[string]*rate.Limiter)}
}

func (l *ipLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	limiter, exists := l.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.perMinute)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow()
}

func clientKey(r *http.Request) string {
	host := strings.TrimSpace(r.RemoteAddr)
	if host == "" {
		return "unknown"
	}
	if addr, err := netip.ParseAddrPort(host); err == nil {
		return addr.Addr().String()
	}
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		return host[:idx]
	}
	return host
}

func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", a.handleHealth)
	mux.HandleFunc("/api/v1/auth/login", a.handleLogin)
	mux.HandleFunc("/api/v1/auth/logout", a.requireAuth(a.handleLogout))
	mux.HandleFunc("/api/v1/auth/session", a.requireAuth(a.handleSession))
	mux.HandleFunc("/api/v1/auth/csrf-token", a.handleCSRFToken)

	mux.HandleFunc("/api/v1/inventory", a.requireAuth(a.handleInventory, "cashier", "manager", "admin"))
	mux.HandleFunc("/api/v1/inventory/", a.requireAuth(a.handleInventoryActions, "admin"))

	mux.HandleFunc("/api/v1/stats", a.requireAuth(a.handleStats, "manager", "admin"))
	mux.HandleFunc("/api/v1/stats/top-items", a.requireAuth(a.handleTopItems, "manager", "admin"))
	mux.HandleFunc("/api/v1/stats/today", a.requireAuth(a.handleTodaySummary, "manager", "admin"))
	mux.HandleFunc("/api/v1/restock-suggestions", a.requireAuth(a.handleRestockSuggestions, "manager", "admin"))
	mux.HandleFunc("/api/v1/stock-history", a.requireAuth(a.handleStockHistory, "manager", "admin"))

	mux.HandleFunc("/api/v1/cart", a.requireAuth(a.handleCart, "cashier", "admin"))
	mux.HandleFunc("/api/v1/cart/items", a.requireAuth(a.handleCartItems, "cashier", "admin"))
	mux.HandleFunc("/api/v1/cart/items/", a.requireAuth(a.handleCartItemActions, "cashier", "admin"))
	mux.HandleFunc("/api/v1/checkout", a.requireAuth(a.handleCheckout, "cashier", "admin"))

	return a.withMiddleware(mux)
}

func (a *API) requireAuth(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorization := strings.TrimSpace(r.Header.Get("Authorization"))
		if !strings.HasPrefix(strings.ToLower(authorization), "bearer ") {
			writeError(w, http.StatusUnauthorized, errors.New("missing bearer token"))
			return
		}

		token := strings.TrimSpace(authorization[len("Bearer "):])
		actor, err := a.auth.ParseToken(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err)
			return
		}

		if len(roles) > 0 && !isRoleAllowed(actor.Role, roles) {
			writeError(w, http.StatusForbidden, errors.New("forbidden role"))
			return
		}

		next(w, r.WithContext(service.WithActor(r.Context(), actor)))
	}
}

func isRoleAllowed(role string, allowed []string) bool {
	for _, allow := range allowed {
		if role == allow {
			return true
		}
	}
	return false
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	if !a.loginLimiter.Allow(clientKey(r)) {
		writeError(w, http.StatusTooManyRequests, errors.New("too many login attempts"))
		return
	}

	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := a.auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	authorization := strings.TrimSpace(r.Header.Get("Authorization"))
	token := strings.TrimSpace(authorization[len("Bearer "):])
	if err := a.auth.Logout(r.Context(), token); err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *API) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	actor, ok := service.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, errors.New("missing session"))
		return
	}
	writeJSON(w, http.StatusOK, domain.SessionResponse{Email: actor.Email, Role: actor.Role})
}

// handleCSRFToken returns a stateless CSRF token valid for the current hour
// bucket. Clients must include this token in the X-CSRF-Token header for all
// mutating requests.
func (a *API) handleCSRFToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"csrf_token": a.generateCSRFToken(),
	})
}

// csrfExemptPaths lists paths that are exempt from CSRF validation. Login is
// excluded because it is called without a prior CSRF token fetch.
var csrfExemptPaths = []string{
	"/api/v1/auth/login",
}

// checkCSRF enforces CSRF token validation for state-changing methods.
// Returns false and writes an error response if validation fails.
func (a *API) checkCSRF(w http.ResponseWriter, r *http.Request) bool {
	method := r.Method
	if method != http.MethodPost && method != http.MethodPut && method != http.MethodPatch && method != http.MethodDelete {
		return true
	}
	for _, exempt := range csrfExemptPaths {
		if r.URL.Path == exempt {
			return true
		}
	}
	token := strings.TrimSpace(r.Header.Get("X-CSRF-Token"))
	if !a.validateCSRFToken(token) {
		writeError(w, http.StatusForbidden, errors.New("missing or invalid CSRF token"))
		return false
	}
	return true
}

func (a *API) handleInventory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items, err := a.service.ListInventory(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	case http.MethodPost:
		actor, ok := service.ActorFromContext(r.Context())
		if !ok || actor.Role != "admin" {
			writeError(w, http.StatusForbidden, errors.New("forbidden role"))
			return
		}

		var req domain.InventoryCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		item, err := a.service.CreateItem(r.Context(), req)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"item": item})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleInventoryActions(w http.ResponseWriter, r *http.Request) {
	prefix := "/api/v1/inventory/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		writeError(w, http.StatusBadRequest, errors.New("invalid inventory action path"))
		return
	}

	tail := strings.TrimSpace(strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/"))
	if tail == "" {
		writeError(w, http.StatusBadRequest, errors.New("item id required"))
		return
	}

	if strings.HasSuffix(tail, "/price") {
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w)
			return
		}
		id, err := parseItemID(strings.TrimSuffix(tail, "/price"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		var req domain.PriceUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		item, err := a.service.UpdatePrice(r.Context(), id, req)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"item": item})
		return
	}

	if r.Method != http.MethodPatch {
		writeMethodNotAllowed(w)
		return
	}

	id, err := parseItemID(tail)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var req domain.InventoryUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	item, err := a.service.UpdateItem(r.Context(), id, req)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": item})
}

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	kind := strings.TrimSpace(r.URL.Query().Get("range"))
	customStart, customEnd := parseCustomBounds(r)

	resp, err := a.service.StatsForRange(r.Context(), kind, customStart, customEnd)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleTopItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	kind := strings.TrimSpace(r.URL.Query().Get("range"))
	customStart, customEnd := parseCustomBounds(r)
	limit := parsePositiveLimit(r.URL.Query().Get("limit"), 5, 50)

	resp, err := a.service.TopItems(r.Context(), kind, customStart, customEnd, limit)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleTodaySummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	summary, err := a.service.TodaySummary(r.Context())
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (a *API) handleRestockSuggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	resp, err := a.service.RestockSuggestions(r.Context())
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleStockHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	var itemID int64
	if raw := strings.TrimSpace(r.URL.Query().Get("item_id")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, errors.New("invalid item_id"))
			return
		}
		itemID = parsed
	}
	limit := parsePositiveLimit(r.URL.Query().Get("limit"), 50, 200)

	history, err := a.service.StockHistory(r.Context(), itemID, limit)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": history})
}

func (a *API) handleCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	view, err := a.service.ViewCart(r.Context(), r.URL.Query().Get("terminal_id"))
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) handleCartItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req domain.AddToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	view, err := a.service.AddToCart(r.Context(), req)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) handleCartItemActions(w http.ResponseWriter, r *http.Request) {
	prefix := "/api/v1/cart/items/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		writeError(w, http.StatusBadRequest, errors.New("invalid cart action path"))
		return
	}

	id, err := parseItemID(strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var req domain.UpdateCartQuantityRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		view, err := a.service.SetCartQuantity(r.Context(), req.TerminalID, id, req.Quantity)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	case http.MethodDelete:
		view, err := a.service.RemoveFromCart(r.Context(), r.URL.Query().Get("terminal_id"), id)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req domain.CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	receipt, err := a.service.Checkout(r.Context(), req)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (a *API) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Access-Control-Allow-Origin", a.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-CSRF-Token")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
		w.Header().Set("Vary", "Origin")

		if (r.Method == http.MethodPost || r.Method == http.MethodPatch || r.Method == http.MethodPut) && strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
			r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if !a.checkCSRF(w, r) {
			return
		}

		startedAt := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(startedAt))
	})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, cart.ErrLineMissing):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalidInput), errors.Is(err, cart.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrInsufficientStock), errors.Is(err, cart.ErrStockLimit):
		return http.StatusConflict
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "role required") || strings.Contains(msg, "authentication required") {
		return http.StatusForbidden
	}
	// Anything unclassified is a store or transport failure; writeError
	// replaces the message with a generic one at this status.
	return http.StatusInternalServerError
}

func parseItemID(raw string) (int64, error) {
	raw = strings.TrimSpace(strings.Trim(raw, "/"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid item id")
	}
	return id, nil
}

// parseCustomBounds reads start/end query params as YYYY-MM-DD dates for
// custom reporting windows. Missing or malformed values come back zero and
// the window resolver falls back to today.
func parseCustomBounds(r *http.Request) (time.Time, time.Time) {
	var start, end time.Time
	if raw := strings.TrimSpace(r.URL.Query().Get("start")); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			start = parsed
		}
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("end")); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			end = parsed
		}
	}
	return start, end
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	return nil
}

func parsePositiveLimit(raw string, fallback int, max int) int {
	limit := fallback
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" {
		if parsed, err := strconv.Atoi(trimmed); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if max > 0 && limit > max {
		return max
	}
	return limit
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

func writeError(w http.ResponseWriter, status int, err error) {
	// For 5xx responses, return a generic message to avoid leaking internal
	// implementation details. 4xx responses are user-facing so the original
	// error message is returned.
	msg := err.Error()
	if status >= 500 {
		log.Printf("internal error (status %d): %v", status, err)
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
