package jsonfix

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRepairMessages(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trailing_comma",
			input: "[1,]",
			want:  "Removed trailing comma",
		},
		{
			name:  "line_comment",
			input: "1 // note",
			want:  "Removed single-line comment '// note'",
		},
		{
			name:  "block_comment",
			input: "1 /* note */",
			want:  "Removed multi-line comment '/* note */'",
		},
		{
			name:  "hash_comment",
			input: "1 # note",
			want:  "Removed hash comment '# note'",
		},
		{
			name:  "smart_quote",
			input: "{“a\": 1}",
			want:  "Replaced smart quote '“' with '\"'",
		},
		{
			name:  "single_quote_string",
			input: "{'a': 1}",
			want:  "Converted single-quoted string ''a'' to double quotes",
		},
		{
			name:  "unquoted_key",
			input: "{key: 1}",
			want:  "Added quotes around unquoted key 'key'",
		},
		{
			name:  "python_literal",
			input: "[None]",
			want:  "Converted Python literal 'None' to JSON 'null'",
		},
		{
			name:  "unescaped_newline",
			input: "{\"a\": \"x\ny\"}",
			want:  "Escaped literal newline in string",
		},
		{
			name:  "missing_bracket",
			input: "[1",
			want:  "Added missing closing bracket ']'",
		},
		{
			name:  "truncation_marker",
			input: "[...]",
			want:  "Removed truncation marker '...'",
		},
		{
			name:  "truncation_marker_with_comma",
			input: "[1, ...]",
			want:  "Removed truncation marker ', ...'",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Repair(tc.input)
			if err != nil {
				t.Fatalf("Repair() error = %v", err)
			}
			if len(res.Repairs) == 0 {
				t.Fatalf("no repairs logged for %q", tc.input)
			}
			if got := res.Repairs[0].Message; got != tc.want {
				t.Fatalf("message = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRepairMessagePreviewTruncated(t *testing.T) {
	input := "{\"a\": 1} // " + strings.Repeat("x", 40)
	res, err := Repair(input)
	if err != nil {
		t.Fatalf("Repair() error = %v", err)
	}
	if len(res.Repairs) != 1 {
		t.Fatalf("got %d repairs, want 1", len(res.Repairs))
	}

	want := "Removed single-line comment '// " + strings.Repeat("x", 27) + "...'"
	if got := res.Repairs[0].Message; got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
	// The full text is still in the record.
	if got := res.Repairs[0].Original; got != "// "+strings.Repeat("x", 40) {
		t.Fatalf("original = %q, want the complete comment", got)
	}
}

func TestRepairStringFormat(t *testing.T) {
	r := newRecord(KindTrailingComma, 12, 3, 7, ",", "")
	want := "line 3, column 7: Removed trailing comma"
	if got := r.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestRepairJSONEncoding(t *testing.T) {
	r := newRecord(KindPythonLiteral, 5, 1, 6, "True", "true")
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if m["kind"] != "python-literal" {
		t.Fatalf("kind = %v, want python-literal", m["kind"])
	}
	if m["position"] != 5.0 {
		t.Fatalf("position = %v, want 5", m["position"])
	}
	if m["message"] != "Converted Python literal 'True' to JSON 'true'" {
		t.Fatalf("message = %v", m["message"])
	}
}
