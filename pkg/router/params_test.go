package router

import (
	"reflect"
	"testing"
)

func TestBindParams(t *testing.T) {
	var p struct {
		ID      int      `param:"id"`
		Page    uint8    `param:"page"`
		Score   float64  `param:"score"`
		Draft   bool     `param:"draft"`
		Slug    string   `param:"slug"`
		Path    []string `param:"path"`
		Ignored string
		hidden  string `param:"hidden"`
	}
	err := BindParams(map[string]string{
		"id":     "42",
		"page":   "3",
		"score":  "1.5",
		"draft":  "true",
		"slug":   "hello",
		"path":   "a/b/c",
		"hidden": "x",
		"extra":  "unused",
	}, &p)
	if err != nil {
		t.Fatalf("BindParams() error = %v", err)
	}
	if p.ID != 42 || p.Page != 3 || p.Score != 1.5 || !p.Draft || p.Slug != "hello" {
		t.Errorf("scalars = %+v", p)
	}
	if !reflect.DeepEqual(p.Path, []string{"a", "b", "c"}) {
		t.Errorf("Path = %v", p.Path)
	}
	if p.hidden != "" {
		t.Error("unexported field was set")
	}
}

func TestBindParamsEmptyCatchAll(t *testing.T) {
	var p struct {
		Rest []string `param:"rest"`
	}
	if err := BindParams(map[string]string{"rest": ""}, &p); err != nil {
		t.Fatalf("BindParams() error = %v", err)
	}
	if p.Rest != nil {
		t.Errorf("Rest = %v, want nil", p.Rest)
	}
}

func TestBindParamsErrors(t *testing.T) {
	var ints struct {
		ID int8 `param:"id"`
	}
	var unsupported struct {
		M map[string]string `param:"m"`
	}
	var intSlice struct {
		N []int `param:"n"`
	}

	tests := []struct {
		name   string
		params map[string]string
		target any
	}{
		{"not a pointer", nil, ints},
		{"nil pointer", nil, (*struct{})(nil)},
		{"pointer to non-struct", nil, new(int)},
		{"bad integer", map[string]string{"id": "abc"}, &ints},
		{"overflow", map[string]string{"id": "300"}, &ints},
		{"unsupported kind", map[string]string{"m": "x"}, &unsupported},
		{"unsupported slice", map[string]string{"n": "1/2"}, &intSlice},
	}
	for _, tt := range tests {
		if err := BindParams(tt.params, tt.target); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}
