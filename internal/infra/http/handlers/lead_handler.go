package handlers

import (
	"context"
	"net/http"

	"github.com/xavierca1/jetleads/internal/usecase"
)

type LeadSubmitter interface {
	Execute(ctx context.Context, req usecase.LeadRequest, rc usecase.RequestContext) (*usecase.SubmitLeadOutput, error)
}

type LeadHandler struct {
	uc LeadSubmitter
}

func NewLeadHandler(uc LeadSubmitter) *LeadHandler {
	return &LeadHandler{uc: uc}
}

type CaptureLeadResponse struct {
	Success bool   `json:"success"`
	LeadID  string `json:"leadId"`
	Message string `json:"message"`
}

// CaptureLead handles POST /lead. UTM parameters come from the query string.
func (h *LeadHandler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	var req usecase.LeadRequest
	rc := requestContext(r)
	rc.BodyErr = decodeJSON(w, r, &req)

	out, err := h.uc.Execute(r.Context(), req, rc)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CaptureLeadResponse{
		Success: true,
		LeadID:  out.LeadID,
		Message: out.Message,
	})
}
