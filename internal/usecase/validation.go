package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		return checkmail.ValidateFormat(fl.Field().String()) == nil
	})
	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.RegisterValidation("tripdate", func(fl validator.FieldLevel) bool {
		_, err := parseTripDate(fl.Field().String())
		return err == nil
	})
	return v
}

type leadSchema struct {
	Name               string `json:"name" validate:"required,notblank,min=2,max=100"`
	Email              string `json:"email" validate:"required,mailbox"`
	Phone              string `json:"phone" validate:"required,notblank,min=10"`
	FromCity           string `json:"from_city" validate:"required"`
	ToCity             string `json:"to_city" validate:"required"`
	Date               string `json:"date" validate:"required,tripdate"`
	Passengers         int    `json:"passengers" validate:"min=1,max=20"`
	AircraftPreference string `json:"aircraft_preference"`
	Message            string `json:"message" validate:"max=1000"`
	GDPRConsent        bool   `json:"gdpr_consent" validate:"required"`
}

type contactSchema struct {
	Name    string `json:"name" validate:"required,notblank,min=2,max=100"`
	Email   string `json:"email" validate:"required,mailbox"`
	Subject string `json:"subject" validate:"required,min=5,max=200"`
	Message string `json:"message" validate:"required,min=10,max=2000"`
}

type newsletterSchema struct {
	Email string `json:"email" validate:"required,mailbox"`
}

// ValidateLead checks the quote form and returns it typed, or every failing
// field. Name and phone lengths are measured on the raw input; the returned
// values are trimmed. Past departure dates are accepted.
func ValidateLead(req LeadRequest) (ValidLead, []FieldError) {
	s := leadSchema{
		Name:               req.Name,
		Email:              strings.TrimSpace(req.Email),
		Phone:              req.Phone,
		FromCity:           strings.TrimSpace(req.FromCity),
		ToCity:             strings.TrimSpace(req.ToCity),
		Date:               strings.TrimSpace(req.Date),
		AircraftPreference: strings.TrimSpace(req.AircraftPreference),
		Message:            strings.TrimSpace(req.Message),
		GDPRConsent:        req.GDPRConsent != nil && *req.GDPRConsent,
	}

	passengers, coerceErr := coercePassengers(req.Passengers)
	if coerceErr != "" {
		// placeholder keeps the range rule quiet; the coercion error is reported instead
		passengers = 1
	}
	s.Passengers = passengers

	fields := structErrors(s)
	if coerceErr != "" {
		fields = append(fields, FieldError{Field: "passengers", Message: coerceErr})
	}
	if len(fields) > 0 {
		return ValidLead{}, fields
	}

	date, _ := parseTripDate(s.Date)
	return ValidLead{
		Name:               strings.TrimSpace(s.Name),
		Email:              s.Email,
		Phone:              strings.TrimSpace(s.Phone),
		FromCity:           s.FromCity,
		ToCity:             s.ToCity,
		DepartureDate:      date,
		Passengers:         s.Passengers,
		AircraftPreference: s.AircraftPreference,
		Message:            s.Message,
		GDPRConsent:        true,
		MarketingConsent:   req.MarketingConsent != nil && *req.MarketingConsent,
	}, nil
}

func ValidateContact(req ContactRequest) (ValidContact, []FieldError) {
	s := contactSchema{
		Name:    req.Name,
		Email:   strings.TrimSpace(req.Email),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}
	if fields := structErrors(s); len(fields) > 0 {
		return ValidContact{}, fields
	}
	return ValidContact{
		Name:    strings.TrimSpace(s.Name),
		Email:   s.Email,
		Phone:   strings.TrimSpace(req.Phone),
		Subject: s.Subject,
		Message: s.Message,
	}, nil
}

// ValidateNewsletter normalises the address to lower case.
func ValidateNewsletter(req NewsletterRequest) (ValidNewsletter, []FieldError) {
	s := newsletterSchema{Email: strings.ToLower(strings.TrimSpace(req.Email))}
	if fields := structErrors(s); len(fields) > 0 {
		return ValidNewsletter{}, fields
	}
	return ValidNewsletter{Email: s.Email}, nil
}

func structErrors(s any) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required", "notblank":
		if fe.Kind() == reflect.Bool {
			return "must be accepted"
		}
		return "is required"
	case "min":
		if isString {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if isString {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "mailbox":
		return "must be a valid email address"
	case "tripdate":
		return "must be a valid date (YYYY-MM-DD)"
	default:
		return "is invalid"
	}
}

// coercePassengers accepts integral JSON numbers and numeric strings.
// A non-empty second return value is the field error message.
func coercePassengers(v any) (int, string) {
	switch n := v.(type) {
	case nil:
		return 0, "is required"
	case int:
		return n, ""
	case int64:
		return int(n), ""
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, "must be a whole number"
		}
		return int(n), ""
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), ""
		}
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, "must be a whole number"
		}
		return int(f), ""
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, "is required"
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return 0, "must be a whole number"
		}
		return i, ""
	default:
		return 0, "must be a number"
	}
}

// parseTripDate accepts YYYY-MM-DD or RFC3339 and returns midnight UTC of
// that calendar day.
func parseTripDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
