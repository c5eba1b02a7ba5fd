package ner

import (
	"context"
	"testing"
)

func TestProseFindsPerson(t *testing.T) {
	t.Parallel()

	p := NewProse()
	entities, err := p.Recognize(context.Background(), "John Smith works at Google in London.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	name, ok := FirstPerson(entities)
	if !ok || name != "John Smith" {
		t.Fatalf("expected John Smith as first person, got (%q, %v) from %+v", name, ok, entities)
	}
}

func TestProseReusesModel(t *testing.T) {
	t.Parallel()

	p := NewProse()
	if _, err := p.Recognize(context.Background(), "Jane Doe lives in Paris."); err != nil {
		t.Fatalf("first call: %v", err)
	}
	model := p.model
	if model == nil {
		t.Fatal("expected model to be kept after first call")
	}

	if _, err := p.Recognize(context.Background(), ""); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if p.model != model {
		t.Fatal("expected second call to reuse the loaded model")
	}
}
