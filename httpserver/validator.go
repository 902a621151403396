package httpserver

import (
	"reflect"
	"strings"

	"moviefav/errs"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// messages overrides the generic "<field> failed on <tag>" text.
var messages = map[string]string{
	"q.required":      "Search query is required",
	"page.min":        "Page must be at least 1",
	"pageSize.min":    "Page size must be at least 1",
	"pageSize.max":    "Page size must not exceed 100",
	"title.required":  "Movie title is required",
	"title.notblank":  "Movie title is required",
	"imdbID.required": "Movie ID is required",
	"imdbID.notblank": "Movie ID is required",
	"year.required":   "Movie year is required",
	"year.notblank":   "Movie year is required",
}

type CustomValidator struct {
	validate *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return &CustomValidator{validate: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validate.Struct(i); err != nil {
		return errs.Errorf(errs.EINVALID, "%s", formatValidationError(err))
	}
	return nil
}

func formatValidationError(err error) string {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		parts := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			field := fe.Field()
			if field == "" {
				field = fe.StructField()
			}
			if msg, ok := messages[field+"."+fe.Tag()]; ok {
				parts = append(parts, msg)
				continue
			}
			parts = append(parts, "validation error: "+field+" failed on "+fe.Tag())
		}
		return strings.Join(parts, ", ")
	}
	return "validation error"
}
