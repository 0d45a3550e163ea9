package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/xavierca1/jetleads/internal/featureflag"
)

const (
	visitorCookie = "visitor_id"
	visitorHeader = "X-Visitor-ID"
	visitorTTL    = 365 * 24 * time.Hour
)

type VariantHandler struct {
	assigner *featureflag.Assigner
}

func NewVariantHandler(assigner *featureflag.Assigner) *VariantHandler {
	return &VariantHandler{assigner: assigner}
}

type VariantsResponse struct {
	VisitorID string                          `json:"visitorId"`
	Variants  map[string]*featureflag.Variant `json:"variants"`
}

type VariantResponse struct {
	VisitorID string               `json:"visitorId"`
	FlagID    string               `json:"flagId"`
	Variant   *featureflag.Variant `json:"variant"`
}

// List handles GET /variants.
func (h *VariantHandler) List(w http.ResponseWriter, r *http.Request) {
	visitor := h.visitorID(w, r)
	writeJSON(w, http.StatusOK, VariantsResponse{
		VisitorID: visitor,
		Variants:  h.assigner.AssignAll(visitor),
	})
}

// Get handles GET /variants/{flagId}. A null variant means the visitor is
// outside the rollout or the flag is disabled.
func (h *VariantHandler) Get(w http.ResponseWriter, r *http.Request) {
	flagID := chi.URLParam(r, "flagId")
	if !h.assigner.Has(flagID) {
		writeErrorResponse(w, http.StatusNotFound, "FLAG_NOT_FOUND", "unknown feature flag")
		return
	}

	visitor := h.visitorID(w, r)
	writeJSON(w, http.StatusOK, VariantResponse{
		VisitorID: visitor,
		FlagID:    flagID,
		Variant:   h.assigner.GetVariant(flagID, visitor),
	})
}

// visitorID reads the cookie, then the header, then ?visitor=. A new id is
// issued as a cookie when none is present.
func (h *VariantHandler) visitorID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(visitorCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if v := r.Header.Get(visitorHeader); v != "" {
		return v
	}
	if v := r.URL.Query().Get("visitor"); v != "" {
		return v
	}

	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(visitorTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
