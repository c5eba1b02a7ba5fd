package ner

import (
	"context"
	"fmt"
	"sync"

	"github.com/jdkato/prose/v2"
)

// ProviderProse is the name of the local statistical recognizer.
const ProviderProse = "prose"

// Prose recognizes entities locally with the prose averaged-perceptron model.
// The model is decoded on the first call and shared by every later one.
type Prose struct {
	once  sync.Once
	model *prose.Model
	err   error
}

func NewProse() *Prose {
	return &Prose{}
}

func (p *Prose) Recognize(_ context.Context, text string) ([]Entity, error) {
	doc, err := p.document(text)
	if err != nil {
		return nil, err
	}

	found := doc.Entities()
	entities := make([]Entity, 0, len(found))
	for _, ent := range found {
		entities = append(entities, Entity{Text: ent.Text, Label: ent.Label})
	}

	return entities, nil
}

func (p *Prose) document(text string) (*prose.Document, error) {
	var first *prose.Document
	p.once.Do(func() {
		first, p.err = parseDocument(text)
		if p.err == nil {
			p.model = first.Model
		}
	})
	if p.err != nil {
		return nil, p.err
	}
	if first != nil {
		return first, nil
	}

	return parseDocument(text, prose.UsingModel(p.model))
}

func parseDocument(text string, opts ...prose.DocOpt) (doc *prose.Document, err error) {
	defer func() {
		// prose panics when the bundled model data is broken
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w: prose: %v", ErrModelUnavailable, r)
		}
	}()

	doc, err = prose.NewDocument(text, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: prose: %w", ErrModelUnavailable, err)
	}

	return doc, nil
}
