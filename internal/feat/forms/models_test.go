package forms

import (
	"testing"
	"time"

	"github.com/formbase/formbase/pkg/fb/apperr"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
func boolPtr(b bool) *bool    { return &b }

func TestFormInputValidate(t *testing.T) {
	longTitle := make([]byte, 201)
	for i := range longTitle {
		longTitle[i] = 'a'
	}

	tests := []struct {
		name         string
		in           FormInput
		requireTitle bool
		wantErr      bool
	}{
		{name: "valid", in: FormInput{Title: strPtr("Survey")}, requireTitle: true},
		{name: "missing title on create", in: FormInput{}, requireTitle: true, wantErr: true},
		{name: "missing title on update", in: FormInput{}, requireTitle: false},
		{name: "blank title", in: FormInput{Title: strPtr("")}, requireTitle: false, wantErr: true},
		{name: "title too long", in: FormInput{Title: strPtr(string(longTitle))}, requireTitle: true, wantErr: true},
		{name: "negative limit", in: FormInput{Title: strPtr("Survey"), SubmissionLimit: intPtr(-1)}, requireTitle: true, wantErr: true},
		{name: "zero limit", in: FormInput{Title: strPtr("Survey"), SubmissionLimit: intPtr(0)}, requireTitle: true},
		{
			name:         "unknown field type",
			in:           FormInput{Title: strPtr("Survey"), Fields: &[]FieldInput{{Label: "Name", FieldType: "SLIDER"}}},
			requireTitle: true,
			wantErr:      true,
		},
		{
			name:         "missing field label",
			in:           FormInput{Title: strPtr("Survey"), Fields: &[]FieldInput{{FieldType: "TEXT"}}},
			requireTitle: true,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate(tt.requireTitle)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !apperr.Is(err, apperr.Validation) {
				t.Errorf("Validate() error kind = %v, want Validation", err)
			}
		})
	}
}

func TestFormInputNormalize(t *testing.T) {
	in := FormInput{
		Title:  strPtr("  Survey "),
		Fields: &[]FieldInput{{Label: " Name ", FieldType: " text "}},
	}
	in.Normalize()

	if *in.Title != "Survey" {
		t.Errorf("Title = %q, want %q", *in.Title, "Survey")
	}
	f := (*in.Fields)[0]
	if f.Label != "Name" || f.FieldType != "TEXT" {
		t.Errorf("Field = %+v, want Name/TEXT", f)
	}
}

func TestFormIsExpired(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name      string
		expiresAt *time.Time
		want      bool
	}{
		{"no expiry", nil, false},
		{"past", &past, true},
		{"exactly now", &now, true},
		{"future", &future, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Form{ExpiresAt: tt.expiresAt}
			if got := f.IsExpired(now); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormRequiresAuth(t *testing.T) {
	tests := []struct {
		isPublic, requireLogin, honor, want bool
	}{
		{true, false, false, false},
		{false, false, false, true},
		{true, true, false, false},
		{false, true, false, true},
		{true, false, true, false},
		{true, true, true, true},
		{false, true, true, true},
	}

	for _, tt := range tests {
		f := &Form{IsPublic: tt.isPublic, RequireLogin: tt.requireLogin}
		if got := f.RequiresAuth(tt.honor); got != tt.want {
			t.Errorf("RequiresAuth(public=%v, login=%v, honor=%v) = %v, want %v",
				tt.isPublic, tt.requireLogin, tt.honor, got, tt.want)
		}
	}
}
