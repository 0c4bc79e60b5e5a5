// Package validation holds the request schemas for job payloads. Each
// schema is a declarative rule set evaluated by a pure function: no I/O,
// same input, same result.
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeTooSmall      = "too_small"
	CodeInvalidEmail  = "invalid_email"
	CodeInvalidURL    = "invalid_url"
	CodeInvalidDate   = "invalid_datetime"
	CodeInvalidValue  = "invalid_literal"
	CodeUnrecognized  = "unrecognized_key"
	CodeInvalidFormat = "invalid_string"
)

// Violation is one field-level failure. Field is empty when the payload
// as a whole is malformed.
type Violation struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	if e == nil || len(e.Violations) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		if v.Field == "" {
			parts = append(parts, v.Message)
			continue
		}
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeObject splits a JSON object body into its raw members.
func decodeObject(body []byte) (map[string]json.RawMessage, *Error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &Error{Violations: []Violation{{
			Code:    CodeInvalidType,
			Message: "expected a JSON object",
		}}}
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &Error{Violations: []Violation{{
			Code:    CodeInvalidType,
			Message: "malformed JSON: " + err.Error(),
		}}}
	}
	return raw, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// ruleViolations turns validator output into violations, skipping fields
// that already failed their type check.
func ruleViolations(err error, skip map[string]bool) []Violation {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []Violation{{Code: CodeInvalidType, Message: err.Error()}}
	}

	out := make([]Violation, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if skip[field] {
			continue
		}
		out = append(out, violationFor(field, fe.Tag(), fe.Param()))
	}
	return out
}

func violationFor(field, tag, param string) Violation {
	switch tag {
	case "required":
		return Violation{Field: field, Code: CodeRequired, Message: field + " is required"}
	case "gte":
		return Violation{Field: field, Code: CodeTooSmall, Message: fmt.Sprintf("%s must be greater than or equal to %s", field, param)}
	case "email":
		return Violation{Field: field, Code: CodeInvalidEmail, Message: field + " must be a valid email address"}
	case "url":
		return Violation{Field: field, Code: CodeInvalidURL, Message: field + " must be a valid URL"}
	case "datetime":
		return Violation{Field: field, Code: CodeInvalidDate, Message: field + " must be an RFC 3339 timestamp"}
	case "eq":
		return Violation{Field: field, Code: CodeInvalidValue, Message: fmt.Sprintf("%s must be %s", field, param)}
	default:
		return Violation{Field: field, Code: CodeInvalidFormat, Message: fmt.Sprintf("%s failed %s", field, tag)}
	}
}

func sortViolations(vs []Violation) {
	sort.SliceStable(vs, func(i, j int) bool { return vs[i].Field < vs[j].Field })
}
