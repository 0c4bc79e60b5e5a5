package validation

import (
	"encoding/json"
	"time"

	"job-board/internal/domain/job"
)

type fieldKind string

const (
	kindString fieldKind = "string"
	kindNumber fieldKind = "number"
	kindBool   fieldKind = "boolean"
)

type fieldSpec struct {
	name string
	kind fieldKind
}

// createJobFields is the shape half of the creation schema. The rule
// half lives in the validate tags of CreateJobInput.
var createJobFields = []fieldSpec{
	{"slug", kindString},
	{"title", kindString},
	{"type", kindString},
	{"location_type", kindString},
	{"location", kindString},
	{"description", kindString},
	{"salary", kindNumber},
	{"company_name", kindString},
	{"application_email", kindString},
	{"application_url", kindString},
	{"company_logo_url", kindString},
	{"approved", kindBool},
	{"created_at", kindString},
	{"updated_at", kindString},
}

type CreateJobInput struct {
	Slug             string   `json:"slug" validate:"required"`
	Title            string   `json:"title" validate:"required"`
	Type             string   `json:"type" validate:"required"`
	LocationType     string   `json:"location_type" validate:"required"`
	Location         *string  `json:"location,omitempty"`
	Description      *string  `json:"description,omitempty"`
	Salary           *float64 `json:"salary" validate:"required,gte=0"`
	CompanyName      string   `json:"company_name" validate:"required"`
	ApplicationEmail *string  `json:"application_email,omitempty" validate:"omitempty,email"`
	ApplicationURL   *string  `json:"application_url,omitempty" validate:"omitempty,url"`
	CompanyLogoURL   *string  `json:"company_logo_url,omitempty" validate:"omitempty,url"`
	Approved         *bool    `json:"approved,omitempty"`
	CreatedAt        *string  `json:"created_at,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	UpdatedAt        *string  `json:"updated_at,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type ApprovalInput struct {
	Approved *bool `json:"approved" validate:"required,eq=true"`
}

// ValidateCreateJob checks a creation payload. Unknown members are
// dropped; id is never taken from the caller.
func ValidateCreateJob(body []byte) (CreateJobInput, error) {
	raw, verr := decodeObject(body)
	if verr != nil {
		return CreateJobInput{}, verr
	}

	known := make(map[string]json.RawMessage, len(createJobFields))
	typeFailed := map[string]bool{}
	var violations []Violation

	for _, f := range createJobFields {
		v, ok := raw[f.name]
		if !ok || isNull(v) {
			continue
		}
		if !hasKind(v, f.kind) {
			typeFailed[f.name] = true
			violations = append(violations, Violation{
				Field:   f.name,
				Code:    CodeInvalidType,
				Message: f.name + " must be a " + string(f.kind),
			})
			continue
		}
		known[f.name] = v
	}

	var in CreateJobInput
	b, err := json.Marshal(known)
	if err == nil {
		err = json.Unmarshal(b, &in)
	}
	if err != nil {
		return CreateJobInput{}, &Error{Violations: []Violation{{Code: CodeInvalidType, Message: err.Error()}}}
	}

	violations = append(violations, ruleViolations(validate.Struct(in), typeFailed)...)
	if len(violations) > 0 {
		sortViolations(violations)
		return CreateJobInput{}, &Error{Violations: violations}
	}
	return in, nil
}

// ValidateApproval accepts exactly {"approved": true}.
func ValidateApproval(body []byte) (ApprovalInput, error) {
	raw, verr := decodeObject(body)
	if verr != nil {
		return ApprovalInput{}, verr
	}

	var violations []Violation
	for k := range raw {
		if k != "approved" {
			violations = append(violations, Violation{Field: k, Code: CodeUnrecognized, Message: "unrecognized field " + k})
		}
	}

	var in ApprovalInput
	typeFailed := map[string]bool{}
	if v, ok := raw["approved"]; ok && !isNull(v) {
		var approved bool
		if err := json.Unmarshal(v, &approved); err != nil {
			typeFailed["approved"] = true
			violations = append(violations, Violation{Field: "approved", Code: CodeInvalidType, Message: "approved must be a boolean"})
		} else {
			in.Approved = &approved
		}
	}

	violations = append(violations, ruleViolations(validate.Struct(in), typeFailed)...)
	if len(violations) > 0 {
		sortViolations(violations)
		return ApprovalInput{}, &Error{Violations: violations}
	}
	return in, nil
}

// ToNewJob converts a validated payload into the insert model.
func (in CreateJobInput) ToNewJob() job.NewJob {
	out := job.NewJob{
		Slug:             in.Slug,
		Title:            in.Title,
		Type:             in.Type,
		LocationType:     in.LocationType,
		Location:         in.Location,
		Description:      in.Description,
		CompanyName:      in.CompanyName,
		ApplicationEmail: in.ApplicationEmail,
		ApplicationURL:   in.ApplicationURL,
		CompanyLogoURL:   in.CompanyLogoURL,
		Approved:         in.Approved,
		CreatedAt:        parseTimestamp(in.CreatedAt),
		UpdatedAt:        parseTimestamp(in.UpdatedAt),
	}
	if in.Salary != nil {
		out.Salary = *in.Salary
	}
	return out
}

func parseTimestamp(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

func hasKind(raw json.RawMessage, kind fieldKind) bool {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch v.(type) {
	case string:
		return kind == kindString
	case float64:
		return kind == kindNumber
	case bool:
		return kind == kindBool
	default:
		return false
	}
}
