package response

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestValidationErrorResponse(t *testing.T) {
	t.Run("non-validator error yields no details", func(t *testing.T) {
		got := ValidationErrorResponse(errors.New("unknown error"))

		assert.Equal(t, "Validation failed.", got.Message)
		assert.Nil(t, got.Details)
	})
}

func TestGetValidationErrors(t *testing.T) {
	type req struct {
		Name      string   `json:"name" validate:"required"`
		LiveURL   string   `json:"liveUrl" validate:"required,url"`
		TechStack []string `json:"techStack" validate:"required,min=1"`
	}

	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	tests := []struct {
		name string
		req  req
		want []validationError
	}{
		{
			name: "not validation error",
			req: req{
				Name:      "Portfolio",
				LiveURL:   "https://portfolio.dev",
				TechStack: []string{"React"},
			},
		},
		{
			name: "one error",
			req: req{
				Name:      "",
				LiveURL:   "https://portfolio.dev",
				TechStack: []string{"React"},
			},
			want: []validationError{
				{
					Field: "name",
					Value: "",
					Issue: "This field is required.",
				},
			},
		},
		{
			name: "invalid url",
			req: req{
				Name:      "Portfolio",
				LiveURL:   "invalid url",
				TechStack: []string{"React"},
			},
			want: []validationError{
				{
					Field: "liveUrl",
					Value: "invalid url",
					Issue: "Invalid liveUrl.",
				},
			},
		},
		{
			name: "empty list",
			req: req{
				Name:      "Portfolio",
				LiveURL:   "https://portfolio.dev",
				TechStack: []string{},
			},
			want: []validationError{
				{
					Field: "techStack",
					Value: "[]",
					Issue: "Must contain at least 1 items.",
				},
			},
		},
		{
			name: "multiple errors",
			req: req{
				Name:      "",
				LiveURL:   "invalid url",
				TechStack: []string{"React"},
			},
			want: []validationError{
				{
					Field: "name",
					Value: "",
					Issue: "This field is required.",
				},
				{
					Field: "liveUrl",
					Value: "invalid url",
					Issue: "Invalid liveUrl.",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.req)

			got := getValidationErrors(err)

			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
