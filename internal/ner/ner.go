// Package ner defines the named-entity recognition capability used to find
// the candidate name in resume text.
package ner

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// LabelPerson is the label of entities that name a person.
const LabelPerson = "PERSON"

// ErrModelUnavailable is returned when the recognition backend cannot be
// loaded or invoked.
var ErrModelUnavailable = errors.New("entity recognition model is unavailable")

// Entity is a tagged span detected in text.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Recognizer produces entities in the order the backend reports them.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]Entity, error)
}

// FirstPerson returns the text of the first PERSON entity.
func FirstPerson(entities []Entity) (string, bool) {
	for _, entity := range entities {
		if entity.Label == LabelPerson {
			return entity.Text, true
		}
	}

	return "", false
}

// Handle lazily builds a Recognizer on first use and shares it afterwards.
// It is safe for concurrent use.
type Handle struct {
	build func() (Recognizer, error)

	once       sync.Once
	recognizer Recognizer
	err        error
}

func NewHandle(build func() (Recognizer, error)) *Handle {
	return &Handle{build: build}
}

// Load initializes the underlying recognizer if needed. A failed
// initialization is remembered and never retried.
func (h *Handle) Load() (Recognizer, error) {
	h.once.Do(func() {
		if h.build == nil {
			h.err = fmt.Errorf("%w: no recognizer configured", ErrModelUnavailable)
			return
		}

		rec, err := h.build()
		if err != nil {
			if !errors.Is(err, ErrModelUnavailable) {
				err = fmt.Errorf("%w: %w", ErrModelUnavailable, err)
			}
			h.err = err
			return
		}
		if rec == nil {
			h.err = fmt.Errorf("%w: builder returned nil recognizer", ErrModelUnavailable)
			return
		}
		h.recognizer = rec
	})

	return h.recognizer, h.err
}

func (h *Handle) Recognize(ctx context.Context, text string) ([]Entity, error) {
	rec, err := h.Load()
	if err != nil {
		return nil, err
	}

	return rec.Recognize(ctx, text)
}
