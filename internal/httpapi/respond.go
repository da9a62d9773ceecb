package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/hlog"

	"github.com/you/storefront/internal/shop"
)

type messageBody struct {
	Message string `json:"message"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageBody{Message: msg})
}

// writeError maps service errors to status codes. Unknown errors are store
// failures: logged, then echoed to the client as a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *shop.ValidationError
		nf *shop.NotFoundError
		be *badRequest
		tl *http.MaxBytesError
	)
	switch {
	case errors.As(err, &ve):
		writeMessage(w, http.StatusBadRequest, ve.Message)
	case errors.As(err, &nf):
		writeMessage(w, http.StatusNotFound, nf.Error())
	case errors.As(err, &tl):
		writeMessage(w, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.As(err, &be):
		writeMessage(w, http.StatusBadRequest, be.msg)
	default:
		hlog.FromRequest(r).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Error:   "internal server error",
			Message: err.Error(),
		})
	}
}

type badRequest struct {
	msg   string
	cause error
}

func (e *badRequest) Error() string { return e.msg + ": " + e.cause.Error() }

func (e *badRequest) Unwrap() error { return e.cause }

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return &badRequest{msg: "invalid request body", cause: err}
}

// pathID reads the {id} route variable. Keys are 32-bit serials, so a larger
// id names nothing and is reported as resource not found.
func pathID(r *http.Request, resource string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 32)
	if errors.Is(err, strconv.ErrRange) {
		return 0, &shop.NotFoundError{Resource: resource}
	}
	if err != nil {
		return 0, &badRequest{msg: "invalid id", cause: err}
	}
	return id, nil
}
