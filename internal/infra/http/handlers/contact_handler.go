package handlers

import (
	"context"
	"net/http"

	"github.com/xavierca1/jetleads/internal/usecase"
)

type ContactSubmitter interface {
	Execute(ctx context.Context, req usecase.ContactRequest, rc usecase.RequestContext) (*usecase.SubmitContactOutput, error)
}

type ContactHandler struct {
	uc ContactSubmitter
}

func NewContactHandler(uc ContactSubmitter) *ContactHandler {
	return &ContactHandler{uc: uc}
}

type SubmissionResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req usecase.ContactRequest
	rc := requestContext(r)
	rc.BodyErr = decodeJSON(w, r, &req)

	out, err := h.uc.Execute(r.Context(), req, rc)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SubmissionResponse{Success: true, ID: out.ID, Message: out.Message})
}
