package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/guestify/mediakit-ai/internal/aistore"
	"github.com/guestify/mediakit-ai/internal/auth"
	"github.com/guestify/mediakit-ai/internal/backend"
	"github.com/guestify/mediakit-ai/internal/core"
)

type contextKey string

const subjectKey contextKey = "subject"

type APIHandler struct {
	service *backend.Service
	nonces  *auth.NonceManager
	log     *zap.Logger
	now     func() time.Time
}

func NewAPIHandler(service *backend.Service, nonces *auth.NonceManager, log *zap.Logger) *APIHandler {
	return &APIHandler{service: service, nonces: nonces, log: log, now: time.Now}
}

type errorResponse struct {
	Success bool               `json:"success"`
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Usage   *aistore.UsageInfo `json:"usage,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Code: code, Message: message})
}

// builderSubject checks the X-WP-Nonce header and returns the user it was issued to.
func (h *APIHandler) builderSubject(w http.ResponseWriter, r *http.Request) (string, bool) {
	nonce := r.Header.Get("X-WP-Nonce")
	if nonce == "" {
		respondError(w, http.StatusUnauthorized, "not_logged_in", "You must be logged in to use this feature.")
		return "", false
	}
	subject, err := h.nonces.Verify(nonce, auth.ActionREST)
	if err != nil {
		h.log.Debug("builder nonce rejected", zap.Error(err))
		respondError(w, http.StatusForbidden, "invalid_nonce", "Invalid or expired security token.")
		return "", false
	}
	return subject, true
}

// BuilderNonceMiddleware admits requests carrying a valid builder nonce.
func (h *APIHandler) BuilderNonceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, ok := h.builderSubject(w, r)
		if !ok {
			return
		}
		ctx := context.WithValue(r.Context(), subjectKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP prefers the Cloudflare header; other proxy headers are already folded into
// RemoteAddr by middleware.RealIP.
func clientIP(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func parseContext(raw string) (core.AuthContext, bool) {
	switch core.AuthContext(raw) {
	case "", core.ContextBuilder:
		return core.ContextBuilder, true
	case core.ContextPublic:
		return core.ContextPublic, true
	}
	return "", false
}

type GenerateRequest struct {
	Type    string         `json:"type"`
	Params  map[string]any `json:"params"`
	Context string         `json:"context"`
	Nonce   string         `json:"nonce"`
}

type generateData struct {
	Content  any              `json:"content"`
	Type     string           `json:"type"`
	Metadata backend.Metadata `json:"metadata"`
}

type generateResponse struct {
	Success bool              `json:"success"`
	Data    generateData      `json:"data"`
	Usage   aistore.UsageInfo `json:"usage"`
}

func (h *APIHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Type) == "" {
		respondError(w, http.StatusBadRequest, "missing_type", "Content type is required.")
		return
	}
	authCtx, ok := parseContext(req.Context)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_context", "Context must be builder or public.")
		return
	}

	var subject string
	if authCtx == core.ContextBuilder {
		if subject, ok = h.builderSubject(w, r); !ok {
			return
		}
	} else {
		if _, err := h.nonces.Verify(req.Nonce, auth.ActionPublicAI); err != nil {
			h.log.Debug("public nonce rejected", zap.Error(err))
			respondError(w, http.StatusForbidden, "invalid_nonce", "Invalid security token. Please refresh the page and try again.")
			return
		}
		subject = clientIP(r)
	}

	if req.Params == nil {
		req.Params = map[string]any{}
	}
	res, err := h.service.Generate(r.Context(), backend.Request{
		Type:    req.Type,
		Params:  req.Params,
		Context: authCtx,
		Subject: subject,
	})
	if err != nil {
		h.respondGenerateError(w, req.Type, err)
		return
	}

	h.setRateLimitHeaders(w, res.Usage)
	respondJSON(w, http.StatusOK, generateResponse{
		Success: true,
		Data:    generateData{Content: res.Content, Type: res.Type, Metadata: res.Metadata},
		Usage:   res.Usage,
	})
}

func (h *APIHandler) respondGenerateError(w http.ResponseWriter, contentType string, err error) {
	var verr *backend.ValidationError
	var rlErr *backend.RateLimitError
	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, "validation_failed", verr.Message)
	case errors.Is(err, backend.ErrUnknownType):
		respondError(w, http.StatusBadRequest, "unknown_type", "Unknown content type: "+contentType)
	case errors.As(err, &rlErr):
		h.setRateLimitHeaders(w, rlErr.Usage)
		usage := rlErr.Usage
		respondJSON(w, http.StatusTooManyRequests, errorResponse{
			Code:    "rate_limit_exceeded",
			Message: rlErr.Error(),
			Usage:   &usage,
		})
	default:
		h.log.Error("generation failed", zap.String("type", contentType), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "generation_failed", "Failed to generate content. Please try again.")
	}
}

func (h *APIHandler) setRateLimitHeaders(w http.ResponseWriter, usage aistore.UsageInfo) {
	if usage.Limit != nil {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(*usage.Limit))
	}
	if usage.Remaining != nil {
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(*usage.Remaining))
	}
	if usage.ResetTime != nil {
		reset := h.now().Add(time.Duration(*usage.ResetTime) * time.Second).Unix()
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))
	}
}

func (h *APIHandler) UsageHandler(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := parseContext(r.URL.Query().Get("context"))
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_context", "Context must be builder or public.")
		return
	}

	subject := clientIP(r)
	if authCtx == core.ContextBuilder {
		if subject, ok = h.builderSubject(w, r); !ok {
			return
		}
	}

	usage, err := h.service.Usage(authCtx, subject)
	if err != nil {
		h.log.Error("failed to read usage", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "usage_failed", "Failed to read usage.")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"context": authCtx,
		"usage":   usage,
	})
}

// NonceHandler mints a public-context nonce bound to the caller's address.
func (h *APIHandler) NonceHandler(w http.ResponseWriter, r *http.Request) {
	nonce, err := h.nonces.Issue(auth.ActionPublicAI, clientIP(r))
	if err != nil {
		h.log.Error("failed to issue nonce", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "nonce_failed", "Failed to issue a security token.")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "nonce": nonce})
}

func (h *APIHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	subject, _ := r.Context().Value(subjectKey).(string)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	gens, err := h.service.History(subject, limit)
	if err != nil {
		h.log.Error("failed to load history", zap.String("subject", subject), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "history_failed", "Failed to load generation history.")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "generations": gens})
}
