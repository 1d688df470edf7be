package rest

import (
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = &domain.ValidationError{Message: "Invalid request body"}

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

// decodeAndValidate reads a JSON body into dst and checks its validate tags.
// Failures come back as *domain.ValidationError carrying message.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any, message string) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) || r.ContentLength == 0 {
			return &domain.ValidationError{Message: message}
		}
		return errInvalidBody
	}

	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return &domain.ValidationError{Message: message}
		}
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return &domain.ValidationError{Fields: fields, Message: message}
	}
	return nil
}
