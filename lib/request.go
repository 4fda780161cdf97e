package lib

import (
	"errors"
	"lager_server/structs"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func init() {
	// Report fields by their form name.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// FieldError represents a clean validation error for APIs
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is a structured validation error
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// ProductFormInput is a decoded product form. RawTags is nil when the tags
// field was not part of the submission at all.
type ProductFormInput struct {
	Form    structs.ProductForm
	RawTags *string
}

// maxFormMemory bounds the multipart fields kept in memory; the body limit
// middleware caps the request as a whole.
const maxFormMemory = 1 << 20

// ParseRequestForm fills r.Form and r.PostForm from a url-encoded or
// multipart body.
func ParseRequestForm(r *http.Request) error {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}

// ParseProductForm reads the product fields from a url-encoded or multipart body.
// The EAN is reduced to its digits. Query parameters are ignored.
func ParseProductForm(r *http.Request) (*ProductFormInput, error) {
	if err := ParseRequestForm(r); err != nil {
		return nil, err
	}

	in := &ProductFormInput{
		Form: structs.ProductForm{
			EAN:         CleanDigits(strings.TrimSpace(r.PostForm.Get("product_ean"))),
			Name:        strings.TrimSpace(r.PostForm.Get("product_name")),
			Description: strings.TrimSpace(r.PostForm.Get("product_desc")),
			Image:       strings.TrimSpace(r.PostForm.Get("product_image")),
		},
	}

	if values, ok := r.PostForm["tags"]; ok {
		raw := ""
		if len(values) > 0 {
			raw = values[0]
		}
		in.RawTags = &raw
		in.Form.Tags = raw
	}

	return in, nil
}

// ValidateStruct runs the validator tags on v.
func ValidateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return mapValidationErrors(ve)
		}
		return err
	}
	return nil
}

func mapValidationErrors(errs validator.ValidationErrors) *ValidationError {
	out := &ValidationError{}

	for _, e := range errs {
		field := e.Field()

		var message string
		switch e.Tag() {
		case "required":
			message = "is required"
		case "numeric":
			message = "must contain digits only"
		case "min":
			message = "must be at least " + e.Param() + " characters"
		case "max":
			message = "must be at most " + e.Param() + " characters"
		default:
			message = "is invalid"
		}

		out.Errors = append(out.Errors, FieldError{
			Field:   field,
			Message: message,
		})
	}

	return out
}
