package main

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Wire date layouts. Input is strictly DD-MM-YYYY; listings additionally carry
// an English weekday abbreviation.
const (
	wireDateLayout    = "02-01-2006"
	displayDateLayout = "02-01-2006 Mon"
)

// fieldError is the per-field validation error shape clients expect.
type fieldError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

func blankError(param string) fieldError {
	label := strings.ToUpper(param[:1]) + param[1:]
	return fieldError{Param: param, Msg: label + " can not be blank"}
}

// bindErrors converts a gin binding failure into the field-error list. Binding
// uses `binding:"required"` tags, so every validator failure here means a
// missing or blank field.
func bindErrors(err error) []fieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]fieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, blankError(strings.ToLower(fe.Field())))
		}
		return out
	}
	return []fieldError{{Param: "body", Msg: "Invalid request body"}}
}

// parseWireDate parses a DD-MM-YYYY date string, rejecting anything else.
func parseWireDate(s string) (time.Time, error) {
	return time.Parse(wireDateLayout, s)
}

func formatDisplayDate(t time.Time) string {
	return t.Format(displayDateLayout)
}
