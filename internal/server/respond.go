package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	errs "github.com/matzehuels/ontoforge/pkg/errors"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// statusFor maps an engine error code to an HTTP status.
func statusFor(code errs.Code) int {
	switch code {
	case errs.ErrCodeNotFound, errs.ErrCodeOntologyNotFound:
		return http.StatusNotFound
	case errs.ErrCodeNoActiveOntology:
		return http.StatusConflict
	case errs.ErrCodeIntegrityViolation, errs.ErrCodeParse, errs.ErrCodeInvalidFormat:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeConcurrentOperation:
		return http.StatusLocked
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidToken, errs.ErrCodeInvalidName, errs.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	status := statusFor(code)
	if status >= 500 {
		s.logger.Error("request failed", "error", err)
	}
	respondJSON(w, status, errorBody{Code: string(code), Message: errs.UserMessage(err)})
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads a JSON body into dst and validates it when it is a struct.
func (s *Server) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid request body")
	}
	if reflect.Indirect(reflect.ValueOf(dst)).Kind() != reflect.Struct {
		return nil
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
			}
			return errs.New(errs.ErrCodeInvalidInput, "invalid request: %s", strings.Join(msgs, "; "))
		}
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid request")
	}
	return nil
}
