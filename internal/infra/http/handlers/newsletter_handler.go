package handlers

import (
	"context"
	"net/http"

	"github.com/xavierca1/jetleads/internal/usecase"
)

type NewsletterSubscriber interface {
	Execute(ctx context.Context, req usecase.NewsletterRequest, rc usecase.RequestContext) (*usecase.SubscribeNewsletterOutput, error)
}

type NewsletterUnsubscriber interface {
	Execute(ctx context.Context, req usecase.NewsletterRequest, rc usecase.RequestContext) error
}

type NewsletterHandler struct {
	subscribe   NewsletterSubscriber
	unsubscribe NewsletterUnsubscriber
}

func NewNewsletterHandler(subscribe NewsletterSubscriber, unsubscribe NewsletterUnsubscriber) *NewsletterHandler {
	return &NewsletterHandler{subscribe: subscribe, unsubscribe: unsubscribe}
}

func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req usecase.NewsletterRequest
	rc := requestContext(r)
	rc.BodyErr = decodeJSON(w, r, &req)

	out, err := h.subscribe.Execute(r.Context(), req, rc)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SubmissionResponse{Success: true, ID: out.ID, Message: out.Message})
}

func (h *NewsletterHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req usecase.NewsletterRequest
	rc := requestContext(r)
	rc.BodyErr = decodeJSON(w, r, &req)

	if err := h.unsubscribe.Execute(r.Context(), req, rc); err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SubmissionResponse{Success: true, Message: "You have been unsubscribed."})
}
