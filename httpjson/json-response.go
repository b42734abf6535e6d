package httpjson

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/programme-lv/ojclient/apierror"
)

// DetailResponse is the error body shape of the judge backend. Detail is a
// string, or a list of FieldDetail for request validation failures.
type DetailResponse struct {
	Detail any `json:"detail"`
}

type FieldDetail struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

func WriteJson(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func WriteDetail(w http.ResponseWriter, statusCode int, detail string) {
	WriteJson(w, statusCode, DetailResponse{Detail: detail})
}

// WriteValidation writes a 422 with one entry per field, located in the body.
func WriteValidation(w http.ResponseWriter, fields []apierror.FieldError) {
	details := make([]FieldDetail, 0, len(fields))
	for _, f := range fields {
		details = append(details, FieldDetail{
			Loc:  []any{"body", f.Field},
			Msg:  f.Msg,
			Type: "value_error",
		})
	}
	WriteJson(w, http.StatusUnprocessableEntity, DetailResponse{Detail: details})
}

func writeInternalErrorJson(w http.ResponseWriter) {
	WriteDetail(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// HandleError writes err in the backend's error format. Errors that are not
// a validation or auth error become a bare 500.
func HandleError(logger *slog.Logger, w http.ResponseWriter, err error) {
	var valErr *apierror.ValidationError
	if errors.As(err, &valErr) {
		logger.Warn("validation error", "error", err)
		WriteValidation(w, valErr.Fields)
		return
	}

	var authErr *apierror.AuthError
	if errors.As(err, &authErr) {
		status := authErr.HttpStatusCode()
		if status == 0 {
			status = http.StatusUnauthorized
		}
		logger.Warn("request rejected", "status", status, "error", err)
		WriteDetail(w, status, authErr.Detail)
		return
	}

	logger.Error("internal server error", "error", err)
	writeInternalErrorJson(w)
}
