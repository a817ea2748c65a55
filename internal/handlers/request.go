package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ternarybob/autoshare/internal/models"
)

var validate = validator.New()

// requestError carries the client-facing message for a rejected body
type requestError struct {
	message string
	cause   error
}

func (e *requestError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *requestError) Unwrap() error { return models.ErrInvalidInput }

func rejectRequest(message string, cause error) error {
	return &requestError{message: message, cause: cause}
}

// ClientMessage returns the message to show the caller for a rejected body
func ClientMessage(err error) string {
	var re *requestError
	if errors.As(err, &re) {
		return re.message
	}
	return err.Error()
}

type validateBody struct {
	Appstate json.RawMessage `json:"appstate"`
}

type shareBody struct {
	Appstate json.RawMessage `json:"appstate"`
	Message  string          `json:"message" validate:"required"`
	Link     string          `json:"link"`
	Count    json.RawMessage `json:"count"`
	Delay    json.RawMessage `json:"delay"`
}

type storyBody struct {
	Appstate json.RawMessage `json:"appstate"`
	Message  string          `json:"message" validate:"required"`
}

type appstate struct {
	Cookies []models.CookieEntry `validate:"required,min=1"`
}

// decodeBody reads a JSON object into dst
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return rejectRequest(MsgInvalidJSON, err)
	}
	return nil
}

// parseAppstate accepts a cookie array or a JSON string containing one
func parseAppstate(raw json.RawMessage) (*models.CredentialSet, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, rejectRequest(MsgAppstateRequired, nil)
	}

	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, rejectRequest(MsgAppstateRequired, err)
		}
		raw = bytes.TrimSpace([]byte(encoded))
	}

	state := appstate{}
	if err := json.Unmarshal(raw, &state.Cookies); err != nil {
		return nil, rejectRequest(MsgAppstateRequired, err)
	}
	if err := validate.Struct(state); err != nil {
		return nil, rejectRequest(MsgAppstateRequired, err)
	}

	creds, err := models.NewCredentialSet(state.Cookies)
	if err != nil {
		return nil, rejectRequest(MsgMissingCookies, err)
	}
	return creds, nil
}

// requireMessage trims and validates the message of a share or story body
func requireMessage(body interface{}, message *string) error {
	*message = strings.TrimSpace(*message)
	if err := validate.Struct(body); err != nil {
		return rejectRequest(MsgMessageRequired, err)
	}
	return nil
}

// coerceInt reads a number or numeric string, truncating fractions.
// Anything else yields fallback.
func coerceInt(raw json.RawMessage, fallback int) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return fallback
	}

	var text string
	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &text); err != nil {
			return fallback
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		text = string(raw)
	default:
		return fallback
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return fallback
	}
	value = math.Trunc(value)
	if value > math.MaxInt32 {
		return math.MaxInt32
	}
	if value < math.MinInt32 {
		return math.MinInt32
	}
	return int(value)
}
