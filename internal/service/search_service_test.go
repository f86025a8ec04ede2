package service

import (
	"testing"
)

func TestBuildSearchQueryShape(t *testing.T) {
	q := BuildSearchQuery("golang tutorial", 2, 20)

	if q["from"] != 20 {
		t.Fatalf("expected from 20 got %v", q["from"])
	}
	if q["size"] != 20 {
		t.Fatalf("expected size 20 got %v", q["size"])
	}

	sort, ok := q["sort"].([]interface{})
	if !ok || len(sort) != 2 {
		t.Fatalf("expected two sort clauses, got %v", q["sort"])
	}
	first, ok := sort[0].(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected sort clause type: %T", sort[0])
	}
	if _, ok := first["_score"]; !ok {
		t.Fatalf("expected primary sort by _score, got %v", first)
	}
	second, ok := sort[1].(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected sort clause type: %T", sort[1])
	}
	if _, ok := second["views"]; !ok {
		t.Fatalf("expected secondary sort by views, got %v", second)
	}
}

func TestBuildSearchQueryFiltersPublished(t *testing.T) {
	q := BuildSearchQuery("cats", 1, 10)

	boolQ := q["query"].(map[string]interface{})["bool"].(map[string]interface{})
	filters, ok := boolQ["filter"].([]interface{})
	if !ok || len(filters) == 0 {
		t.Fatalf("expected filter clause, got %v", boolQ["filter"])
	}

	term := filters[0].(map[string]interface{})["term"].(map[string]interface{})
	if published, ok := term["is_published"]; !ok || published != true {
		t.Fatalf("expected is_published filter, got %v", term)
	}
}

func TestBuildSearchQueryTrimsInput(t *testing.T) {
	q := BuildSearchQuery("  spaced out  ", 1, 10)

	boolQ := q["query"].(map[string]interface{})["bool"].(map[string]interface{})
	must := boolQ["must"].([]interface{})
	match := must[0].(map[string]interface{})["multi_match"].(map[string]interface{})
	if match["query"] != "spaced out" {
		t.Fatalf("expected trimmed query, got %q", match["query"])
	}
}
