package handlers

import (
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/autoshare/internal/models"
	"github.com/ternarybob/autoshare/internal/services/posting"
	"github.com/ternarybob/autoshare/internal/services/report"
	"github.com/ternarybob/autoshare/internal/services/session"
	"github.com/ternarybob/autoshare/internal/services/story"
)

// AutomationHandler serves the endpoints that drive a browser
type AutomationHandler struct {
	sessions *session.Service
	posting  *posting.Service
	stories  *story.Service
	logger   arbor.ILogger
}

// NewAutomationHandler creates a new AutomationHandler
func NewAutomationHandler(sessionService *session.Service, postingService *posting.Service, storyService *story.Service, logger arbor.ILogger) *AutomationHandler {
	return &AutomationHandler{
		sessions: sessionService,
		posting:  postingService,
		stories:  storyService,
		logger:   logger,
	}
}

// ValidateHandler handles POST /api/validate
func (h *AutomationHandler) ValidateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var body validateBody
	if err := decodeBody(w, r, &body); err != nil {
		WriteError(w, http.StatusBadRequest, ClientMessage(err))
		return
	}
	creds, err := parseAppstate(body.Appstate)
	if err != nil {
		WriteError(w, http.StatusBadRequest, ClientMessage(err))
		return
	}

	result, err := h.sessions.Validate(r.Context(), creds)
	if err != nil {
		h.writeServiceError(w, err, "Session validation failed")
		return
	}

	WriteJSON(w, http.StatusOK, report.Validation(result))
}

// ShareHandler handles POST /api/share. The response is written only after the
// whole run completes.
func (h *AutomationHandler) ShareHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var body shareBody
	if err := decodeBody(w, r, &body); err != nil {
		WriteError(w, http.StatusBadRequest, ClientMessage(err))
		return
	}
	if err := requireMessage(&body, &body.Message); err != nil {
		WriteError(w, http.StatusBadRequest, ClientMessage(err))
		return
	}
	creds, err := parseAppstate(body.Appstate)
	if err != nil {
		WriteError(w, http.StatusBadRequest, ClientMessage(err))
		return
	}

	req, err := models.NewPostRequest(
		body.Message,
		body.Link,
		coerceInt(body.Count, models.DefaultAttemptCount),
		coerceInt(body.Delay, models.DefaultAttemptDelay),
	)
	if err != nil {
		WriteError(w, http.StatusBadRequest, MsgMessageRequired)
		return
	}

	result, err := h.posting.Run(r.Context(), creds, req)
	if err != nil {
		h.writeServiceError(w, err, "Posting run failed")
		return
	}

	WriteJSON(w, http.StatusOK, report.Run(result))
}

// ShareStoryHandler handles POST /api/share-story
func (h *AutomationHandler) ShareStoryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var body storyBody
	if err := decodeBody(w, r, &body); err != nil {
		WriteError(w, http.StatusBadRequest, ClientMessage(err))
		return
	}
	if err := requireMessage(&body, &body.Message); err != nil {
		WriteError(w, http.StatusBadRequest, ClientMessage(err))
		return
	}
	creds, err := parseAppstate(body.Appstate)
	if err != nil {
		WriteError(w, http.StatusBadRequest, ClientMessage(err))
		return
	}

	if err := h.stories.Share(r.Context(), creds, body.Message); err != nil {
		h.writeServiceError(w, err, "Story share failed")
		return
	}

	WriteJSON(w, http.StatusOK, report.Message(story.SuccessMessage))
}

func (h *AutomationHandler) writeServiceError(w http.ResponseWriter, err error, logMsg string) {
	code := StatusFor(err)
	message := err.Error()
	if errors.Is(err, models.ErrSessionInvalid) {
		message = MsgSessionInvalid
	}

	event := h.logger.Warn()
	if code >= http.StatusInternalServerError {
		event = h.logger.Error()
	}
	event.Err(err).Int("status", code).Msg(logMsg)

	WriteError(w, code, message)
}
