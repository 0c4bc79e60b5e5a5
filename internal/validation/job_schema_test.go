package validation

import (
	"errors"
	"testing"
	"time"
)

const validJobJSON = `{
	"slug": "eng-1",
	"title": "Engineer",
	"type": "full-time",
	"location_type": "remote",
	"salary": 90000,
	"company_name": "Acme",
	"approved": false,
	"created_at": "2024-01-01T00:00:00Z",
	"updated_at": "2024-01-01T00:00:00Z"
}`

func violationFields(t *testing.T, err error) map[string]string {
	t.Helper()

	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *validation.Error, got %v", err)
	}
	if len(verr.Violations) == 0 {
		t.Fatalf("expected non-empty violations")
	}
	out := map[string]string{}
	for _, v := range verr.Violations {
		out[v.Field] = v.Code
	}
	return out
}

func TestValidateCreateJob_Valid(t *testing.T) {
	in, err := ValidateCreateJob([]byte(validJobJSON))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if in.Slug != "eng-1" || in.CompanyName != "Acme" {
		t.Fatalf("unexpected input %+v", in)
	}
	if in.Salary == nil || *in.Salary != 90000 {
		t.Fatalf("expected salary 90000")
	}
	if in.Approved == nil || *in.Approved {
		t.Fatalf("expected approved=false to be kept")
	}

	nj := in.ToNewJob()
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if nj.CreatedAt == nil || !nj.CreatedAt.Equal(want) {
		t.Fatalf("expected created_at %s, got %v", want, nj.CreatedAt)
	}
	if nj.Salary != 90000 {
		t.Fatalf("expected salary carried over, got %v", nj.Salary)
	}
}

func TestValidateCreateJob_OptionalFormats(t *testing.T) {
	body := `{"slug":"s","title":"t","type":"contract","location_type":"onsite","salary":0,"company_name":"c",
		"location":"Berlin","description":"d",
		"application_email":"jobs@acme.test","application_url":"https://acme.test/apply","company_logo_url":"https://acme.test/logo.png"}`
	in, err := ValidateCreateJob([]byte(body))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if in.Salary == nil || *in.Salary != 0 {
		t.Fatalf("expected zero salary to be accepted")
	}
	if in.Location == nil || *in.Location != "Berlin" {
		t.Fatalf("expected location kept")
	}
	if in.ToNewJob().CreatedAt != nil {
		t.Fatalf("expected absent created_at to stay nil")
	}
}

func TestValidateCreateJob_MissingRequired(t *testing.T) {
	fields := violationFields(t, func() error {
		_, err := ValidateCreateJob([]byte(`{"slug":"eng-1","salary":10}`))
		return err
	}())

	for _, f := range []string{"title", "type", "location_type", "company_name"} {
		if fields[f] != CodeRequired {
			t.Fatalf("expected %s required, got %q (all=%v)", f, fields[f], fields)
		}
	}
	if _, ok := fields["slug"]; ok {
		t.Fatalf("slug was supplied, should not be reported")
	}
}

func TestValidateCreateJob_EmptyStringIsMissing(t *testing.T) {
	body := `{"slug":"","title":"t","type":"x","location_type":"remote","salary":1,"company_name":"c"}`
	_, err := ValidateCreateJob([]byte(body))
	if got := violationFields(t, err)["slug"]; got != CodeRequired {
		t.Fatalf("expected slug required, got %q", got)
	}
}

func TestValidateCreateJob_NegativeSalary(t *testing.T) {
	body := `{"slug":"s","title":"t","type":"x","location_type":"remote","salary":-1,"company_name":"c"}`
	_, err := ValidateCreateJob([]byte(body))
	if got := violationFields(t, err)["salary"]; got != CodeTooSmall {
		t.Fatalf("expected salary too_small, got %q", got)
	}
}

func TestValidateCreateJob_MissingSalary(t *testing.T) {
	body := `{"slug":"s","title":"t","type":"x","location_type":"remote","company_name":"c"}`
	_, err := ValidateCreateJob([]byte(body))
	if got := violationFields(t, err)["salary"]; got != CodeRequired {
		t.Fatalf("expected salary required, got %q", got)
	}
}

func TestValidateCreateJob_Mistyped(t *testing.T) {
	body := `{"slug":"s","title":42,"type":"x","location_type":"remote","salary":"lots","company_name":"c","approved":"yes"}`
	_, err := ValidateCreateJob([]byte(body))
	fields := violationFields(t, err)
	for _, f := range []string{"title", "salary", "approved"} {
		if fields[f] != CodeInvalidType {
			t.Fatalf("expected %s invalid_type, got %q", f, fields[f])
		}
	}

	var verr *Error
	errors.As(err, &verr)
	count := 0
	for _, v := range verr.Violations {
		if v.Field == "title" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected a single violation for mistyped title, got %d", count)
	}
}

func TestValidateCreateJob_BadFormats(t *testing.T) {
	body := `{"slug":"s","title":"t","type":"x","location_type":"remote","salary":1,"company_name":"c",
		"application_email":"not-an-email","application_url":"nope","company_logo_url":"::","created_at":"yesterday"}`
	_, err := ValidateCreateJob([]byte(body))
	fields := violationFields(t, err)

	if fields["application_email"] != CodeInvalidEmail {
		t.Fatalf("expected invalid email, got %q", fields["application_email"])
	}
	if fields["application_url"] != CodeInvalidURL {
		t.Fatalf("expected invalid url, got %q", fields["application_url"])
	}
	if fields["company_logo_url"] != CodeInvalidURL {
		t.Fatalf("expected invalid logo url, got %q", fields["company_logo_url"])
	}
	if fields["created_at"] != CodeInvalidDate {
		t.Fatalf("expected invalid datetime, got %q", fields["created_at"])
	}
}

func TestValidateCreateJob_IgnoresClientID(t *testing.T) {
	body := `{"id":999,"slug":"s","title":"t","type":"x","location_type":"remote","salary":1,"company_name":"c"}`
	if _, err := ValidateCreateJob([]byte(body)); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestValidateCreateJob_NotAnObject(t *testing.T) {
	for _, body := range []string{``, `[]`, `"job"`, `{"slug":`} {
		_, err := ValidateCreateJob([]byte(body))
		var verr *Error
		if !errors.As(err, &verr) || len(verr.Violations) == 0 {
			t.Fatalf("body %q: expected violation, got %v", body, err)
		}
	}
}

func TestValidateApproval(t *testing.T) {
	in, err := ValidateApproval([]byte(`{"approved":true}`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if in.Approved == nil || !*in.Approved {
		t.Fatalf("expected approved=true")
	}

	cases := map[string]string{
		`{"approved":false}`:                   CodeInvalidValue,
		`{}`:                                   CodeRequired,
		`{"approved":null}`:                    CodeRequired,
		`{"approved":"true"}`:                  CodeInvalidType,
		`{"approved":true,"title":"hijacked"}`: CodeUnrecognized,
	}
	for body, code := range cases {
		_, err := ValidateApproval([]byte(body))
		var verr *Error
		if !errors.As(err, &verr) {
			t.Fatalf("body %s: expected validation error, got %v", body, err)
		}
		found := false
		for _, v := range verr.Violations {
			if v.Code == code {
				found = true
			}
		}
		if !found {
			t.Fatalf("body %s: expected code %s, got %+v", body, code, verr.Violations)
		}
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{Violations: []Violation{{Field: "salary", Code: CodeTooSmall, Message: "salary must be greater than or equal to 0"}}}
	if err.Error() != "validation failed: salary: salary must be greater than or equal to 0" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
