package service

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/school-records-api/internal/models"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
)

const isoDateLayout = "2006-01-02"

// NewValidator returns a validator with the domain tags registered:
// attendance_status, profile_role and iso_date.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseAttendanceStatus(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("profile_role", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseProfileRole(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("iso_date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(isoDateLayout, fl.Field().String())
		return err == nil
	})
	return v
}

// validationError turns validator output into a VALIDATION_ERROR naming the first offending field.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if ve, ok := err.(validator.ValidationErrors); ok {
		fieldErrs = ve
	}
	if len(fieldErrs) == 0 {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	fe := fieldErrs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fe.Namespace() + " is required"
	case "attendance_status":
		msg = fe.Namespace() + " must be one of presente, ausente_justificado, ausente_injustificado, tarde"
	case "profile_role":
		msg = fe.Namespace() + " must be one of directivo, preceptor, docente, estudiante"
	case "iso_date":
		msg = fe.Namespace() + " must be a date in YYYY-MM-DD format"
	default:
		msg = fe.Namespace() + " is invalid"
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, trimNamespace(msg))
}

// trimNamespace drops the top-level struct name so messages read "records[1].student_id is required".
func trimNamespace(msg string) string {
	if idx := strings.Index(msg, "."); idx >= 0 && idx < strings.Index(msg, " ") {
		return msg[idx+1:]
	}
	return msg
}

func parseISODate(raw string) (time.Time, error) {
	t, err := time.Parse(isoDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "date must be a date in YYYY-MM-DD format")
	}
	return t, nil
}
