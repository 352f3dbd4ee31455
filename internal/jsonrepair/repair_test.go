package jsonrepair

import (
	"encoding/json"
	"reflect"
	"testing"
)

func mustParse(t *testing.T, text string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		t.Fatalf("result does not parse: %v\ntext: %s", err, text)
	}
	return v
}

func TestRepairLeavesValidJSONUntouched(t *testing.T) {
	inputs := []string{
		`{"name": "O'Brien", "skills": ["Go", "SQL"]}`,
		`{"empty": {}, "list": []}`,
		"{\n  \"nested\": {\"a\": 1}\n}",
	}
	for _, in := range inputs {
		got, ok := Repair(in, LevelExtract)
		if !ok {
			t.Fatalf("expected success for valid input %q", in)
		}
		if got != in {
			t.Fatalf("valid input was modified:\n in: %s\nout: %s", in, got)
		}
	}
}

func TestRepairStripsCodeFences(t *testing.T) {
	cases := []string{
		"```json\n{\"a\": 1}\n```",
		"```\n{\"a\": 1}\n```",
		"  ```json\n{\"a\": 1}\n```  ",
	}
	want := map[string]any{"a": float64(1)}
	for _, in := range cases {
		got, ok := Repair(in, LevelBasic)
		if !ok {
			t.Fatalf("repair failed for %q", in)
		}
		if v := mustParse(t, got); !reflect.DeepEqual(v, want) {
			t.Fatalf("unexpected value %v for input %q", v, in)
		}
	}
}

func TestRepairClosesTruncatedObject(t *testing.T) {
	got, ok := Repair(`{"a": 1, "b": 2`, LevelBasic)
	if !ok {
		t.Fatalf("repair failed")
	}
	want := map[string]any{"a": float64(1), "b": float64(2)}
	if v := mustParse(t, got); !reflect.DeepEqual(v, want) {
		t.Fatalf("unexpected value %v", v)
	}
}

func TestRepairQuotesBareKeys(t *testing.T) {
	got, ok := Repair(`{a: 1, b_2: "x"}`, LevelBasic)
	if !ok {
		t.Fatalf("repair failed")
	}
	want := map[string]any{"a": float64(1), "b_2": "x"}
	if v := mustParse(t, got); !reflect.DeepEqual(v, want) {
		t.Fatalf("unexpected value %v", v)
	}
}

func TestRepairNormalizesSingleQuotes(t *testing.T) {
	got, ok := Repair(`{'a': 'x'}`, LevelBasic)
	if !ok {
		t.Fatalf("repair failed")
	}
	want := map[string]any{"a": "x"}
	if v := mustParse(t, got); !reflect.DeepEqual(v, want) {
		t.Fatalf("unexpected value %v", v)
	}
}

func TestRepairFixesDelimiters(t *testing.T) {
	cases := map[string]any{
		`{"a": 1,}`:               map[string]any{"a": float64(1)},
		`{"xs": ["a", "b",]}`:     map[string]any{"xs": []any{"a", "b"}},
		"{\"xs\": [\"a\"\n\"b\"]}": map[string]any{"xs": []any{"a", "b"}},
	}
	for in, want := range cases {
		got, ok := Repair(in, LevelBasic)
		if !ok {
			t.Fatalf("repair failed for %q", in)
		}
		if v := mustParse(t, got); !reflect.DeepEqual(v, want) {
			t.Fatalf("unexpected value %v for input %q", v, in)
		}
	}
}

func TestRepairExtractsObjectFromProse(t *testing.T) {
	in := "Sure! Here is the requested analysis:\n\n{\"score\": 42}\n\nLet me know if you need anything else."
	got, ok := Repair(in, LevelExtract)
	if !ok {
		t.Fatalf("repair failed")
	}
	want := map[string]any{"score": float64(42)}
	if v := mustParse(t, got); !reflect.DeepEqual(v, want) {
		t.Fatalf("unexpected value %v", v)
	}
}

func TestRepairEscapesInteriorQuotes(t *testing.T) {
	in := `{"note": "he said "hello" there"}`
	got, ok := Repair(in, LevelExtract)
	if !ok {
		t.Fatalf("repair failed")
	}
	v := mustParse(t, got).(map[string]any)
	if v["note"] != `he said "hello" there` {
		t.Fatalf("unexpected note: %q", v["note"])
	}
}

func TestRepairFailsBelowRequiredLevel(t *testing.T) {
	// Needs extraction, so the basic level must report failure.
	in := "Here you go: {\"a\": 1} done."
	if _, ok := Repair(in, LevelBasic); ok {
		t.Fatalf("expected basic-level failure for prose-wrapped object")
	}
	if _, ok := Repair(in, LevelExtract); !ok {
		t.Fatalf("expected extract-level success")
	}
}

func TestRepairIsIdempotent(t *testing.T) {
	inputs := []string{
		"```json\n{\"a\": 1}\n```",
		`{"a": 1, "b": 2`,
		`{a: 1}`,
		"noise before {\"a\": 1} noise after",
	}
	for _, in := range inputs {
		first, ok := Repair(in, LevelExtract)
		if !ok {
			t.Fatalf("repair failed for %q", in)
		}
		second, ok := Repair(first, LevelExtract)
		if !ok {
			t.Fatalf("second repair failed for %q", first)
		}
		if second != first {
			t.Fatalf("repair not idempotent:\nfirst:  %s\nsecond: %s", first, second)
		}
	}
}

func TestRepairOrDefaultIsTotal(t *testing.T) {
	fallback := `{"status": "failed"}`
	inputs := []string{
		"",
		"   ",
		"complete garbage with no braces at all",
		"}{ inverted",
	}
	for _, in := range inputs {
		got := RepairOrDefault(in, fallback)
		mustParse(t, got)
	}

	if got := RepairOrDefault("not json at all", fallback); got != fallback {
		t.Fatalf("expected fallback, got %s", got)
	}
}

func TestRepairOrDefaultPrefersRepairedText(t *testing.T) {
	got := RepairOrDefault("```json\n{\"a\": 1}\n```", `{"status": "failed"}`)
	v := mustParse(t, got).(map[string]any)
	if v["a"] != float64(1) {
		t.Fatalf("expected repaired object, got %s", got)
	}
}
