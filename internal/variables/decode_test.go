package variables

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestDecodeJSON(t *testing.T) {
	data := []byte(`{
		"region": ["north", "south"],
		"empty": [],
		"city": "Paris",
		"team": null,
		"year": 2024,
		"ids": [1, 2]
	}`)

	got, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}

	want := Params{
		{Name: "region", Values: []string{"north", "south"}, Kind: KindList},
		{Name: "empty", Values: []string{}, Kind: KindList},
		{Name: "city", Values: []string{"Paris"}, Kind: KindScalar},
		{Name: "team", Kind: KindNull},
		{Name: "year", Values: []string{"2024"}, Kind: KindScalar},
		{Name: "ids", Values: []string{"1", "2"}, Kind: KindList},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeJSON() = %+v, want %+v", got, want)
	}
}

func TestDecodeJSONPath(t *testing.T) {
	data := []byte(`{"viewId":"v1","filters":[],"params":{"b":["2"],"a":["1"]}}`)

	for _, path := range []string{"params", "$.params"} {
		got, err := DecodeJSONPath(data, path)
		if err != nil {
			t.Fatalf("DecodeJSONPath(%q) error = %v", path, err)
		}
		want := Params{
			{Name: "b", Values: []string{"2"}, Kind: KindList},
			{Name: "a", Values: []string{"1"}, Kind: KindList},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("DecodeJSONPath(%q) = %+v, want %+v", path, got, want)
		}
	}
}

func TestDecodeJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		path string
		want string
	}{
		{name: "invalid", data: `{"a":`, want: "invalid JSON"},
		{name: "array root", data: `["a"]`, want: "expected JSON object"},
		{name: "missing path", data: `{"a":["1"]}`, path: "params", want: "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSONPath([]byte(tt.data), tt.path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("DecodeJSONPath() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestDecodeYAML(t *testing.T) {
	data := []byte(`
zone: [b, a]
empty: []
city: Paris
team: ~
alias: &list
  - x
copy: *list
`)

	got, err := DecodeYAML(data)
	if err != nil {
		t.Fatalf("DecodeYAML() error = %v", err)
	}

	want := Params{
		{Name: "zone", Values: []string{"b", "a"}, Kind: KindList},
		{Name: "empty", Values: []string{}, Kind: KindList},
		{Name: "city", Values: []string{"Paris"}, Kind: KindScalar},
		{Name: "team", Kind: KindNull},
		{Name: "alias", Values: []string{"x"}, Kind: KindList},
		{Name: "copy", Values: []string{"x"}, Kind: KindList},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeYAML() = %+v, want %+v", got, want)
	}
}

func TestDecodeYAMLEmptyDocument(t *testing.T) {
	got, err := DecodeYAML(nil)
	if err != nil {
		t.Fatalf("DecodeYAML(nil) error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("DecodeYAML(nil) = %+v, want empty", got)
	}
}

func TestDecodeYAMLRejectsSequenceRoot(t *testing.T) {
	_, err := DecodeYAML([]byte("- a\n- b\n"))
	if err == nil || !strings.Contains(err.Error(), "sequence") {
		t.Errorf("DecodeYAML() error = %v, want sequence error", err)
	}
}

func TestFromMap(t *testing.T) {
	got := FromMap(map[string]interface{}{
		"region": []interface{}{"north", 7},
		"city":   "Paris",
		"team":   nil,
	})

	want := Params{
		{Name: "city", Values: []string{"Paris"}, Kind: KindScalar},
		{Name: "region", Values: []string{"north", "7"}, Kind: KindList},
		{Name: "team", Kind: KindNull},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FromMap() = %+v, want %+v", got, want)
	}
}

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		input   string
		want    Param
		wantErr bool
	}{
		{input: "region=north,south", want: Param{Name: "region", Values: []string{"north", "south"}, Kind: KindList}},
		{input: " region = north , south ", want: Param{Name: "region", Values: []string{"north", "south"}, Kind: KindList}},
		{input: "region=", want: Param{Name: "region", Values: []string{}, Kind: KindList}},
		{input: "expr=a=b", want: Param{Name: "expr", Values: []string{"a=b"}, Kind: KindList}},
		{input: "region", wantErr: true},
		{input: "=north", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseAssignment(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAssignment(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAssignment(%q) error = %v", tt.input, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseAssignment(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestDecodeJSONKeepsCaseVariants(t *testing.T) {
	got, err := DecodeJSON([]byte(`{"x":["a"],"X":["b"]}`))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}

	want := Params{
		{Name: "x", Values: []string{"a"}, Kind: KindList},
		{Name: "X", Values: []string{"b"}, Kind: KindList},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeJSON() = %+v, want %+v", got, want)
	}
}

func TestDecodeYAMLKeepsCaseVariants(t *testing.T) {
	got, err := DecodeYAML([]byte("x: [a]\nX: [b]\n"))
	if err != nil {
		t.Fatalf("DecodeYAML() error = %v", err)
	}

	want := Params{
		{Name: "x", Values: []string{"a"}, Kind: KindList},
		{Name: "X", Values: []string{"b"}, Kind: KindList},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeYAML() = %+v, want %+v", got, want)
	}
}

func TestDecodeListItemRendering(t *testing.T) {
	want := Params{{Name: "v", Values: []string{"null", "a", "1,2", "x,null"}, Kind: KindList}}

	gotJSON, err := DecodeJSON([]byte(`{"v":[null,"a",[1,2],["x",null]]}`))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if !reflect.DeepEqual(gotJSON, want) {
		t.Errorf("DecodeJSON() = %+v, want %+v", gotJSON, want)
	}

	gotYAML, err := DecodeYAML([]byte("v: [~, a, [1, 2], [x, null]]\n"))
	if err != nil {
		t.Fatalf("DecodeYAML() error = %v", err)
	}
	if !reflect.DeepEqual(gotYAML, want) {
		t.Errorf("DecodeYAML() = %+v, want %+v", gotYAML, want)
	}
}

func TestDecodeYAMLKey(t *testing.T) {
	data := []byte("sql: SELECT 1\nparams:\n  UserId: [7]\n  a.b: [2]\n")

	got, err := DecodeYAMLKey(data, "params")
	if err != nil {
		t.Fatalf("DecodeYAMLKey() error = %v", err)
	}
	want := Params{
		{Name: "UserId", Values: []string{"7"}, Kind: KindList},
		{Name: "a.b", Values: []string{"2"}, Kind: KindList},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeYAMLKey() = %+v, want %+v", got, want)
	}

	if _, err := DecodeYAMLKey([]byte("sql: SELECT 1\n"), "params"); !errors.Is(err, ErrPathNotFound) {
		t.Errorf("DecodeYAMLKey() missing key error = %v, want ErrPathNotFound", err)
	}
}

func TestDecodeNullSelection(t *testing.T) {
	got, err := DecodeJSONPath([]byte(`{"params":null}`), "params")
	if err != nil || len(got) != 0 {
		t.Errorf("DecodeJSONPath(null) = %+v, %v, want empty", got, err)
	}
	got, err = DecodeYAMLKey([]byte("params:\n"), "params")
	if err != nil || len(got) != 0 {
		t.Errorf("DecodeYAMLKey(null) = %+v, %v, want empty", got, err)
	}
}
