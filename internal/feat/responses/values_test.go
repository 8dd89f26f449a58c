package responses

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeValues(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    []FieldValue
		wantErr bool
	}{
		{
			name: "keeps document order",
			body: `{"3":"c","1":"a","2":"b"}`,
			want: []FieldValue{{"3", "c"}, {"1", "a"}, {"2", "b"}},
		},
		{
			name: "coerces scalars",
			body: `{"1":null,"2":42,"3":-1.50,"4":true,"5":false,"6":"text"}`,
			want: []FieldValue{{"1", ""}, {"2", "42"}, {"3", "-1.50"}, {"4", "true"}, {"5", "false"}, {"6", "text"}},
		},
		{
			name: "compacts composites",
			body: `{"1":[ "a", "b" ],"2":{ "k" : 1 }}`,
			want: []FieldValue{{"1", `["a","b"]`}, {"2", `{"k":1}`}},
		},
		{
			name: "keeps non-numeric keys for the caller to skip",
			body: `{"name":"x","7":"y"}`,
			want: []FieldValue{{"name", "x"}, {"7", "y"}},
		},
		{
			name: "repeated key keeps first position and last value",
			body: `{"1":"a","2":"b","1":"c"}`,
			want: []FieldValue{{"1", "c"}, {"2", "b"}},
		},
		{
			name: "unescapes strings",
			body: `{"1":"line\nbreak é"}`,
			want: []FieldValue{{"1", "line\nbreak é"}},
		},
		{name: "empty object", body: `{}`, want: nil},
		{name: "array body", body: `["a"]`, wantErr: true},
		{name: "empty body", body: ``, wantErr: true},
		{name: "truncated", body: `{"1":"a"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeValues(strings.NewReader(tt.body))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidValues) {
					t.Errorf("DecodeValues() error = %v, want %v", err, ErrInvalidValues)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeValues() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("DecodeValues() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("DecodeValues()[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
