// Package gemini implements entity recognition on top of the Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/resume-matcher/internal/ner"
	"github.com/spigell/resume-matcher/internal/utils"
	"go.uber.org/zap"
)

// Provider is the configuration name of this backend.
const Provider = "gemini"

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

type Recognizer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewRecognizer(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Recognizer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Recognizer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (r *Recognizer) Recognize(ctx context.Context, text string) ([]ner.Entity, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	prompt := buildPrompt(text)

	r.logger.Debug("gemini entity request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, r.maxLogLen)),
	)

	raw, err := r.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ner.ErrModelUnavailable, err)
	}

	r.logger.Debug("gemini entity response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, r.maxLogLen)),
	)

	entities, err := parseResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ner.ErrModelUnavailable, err)
	}

	return entities, nil
}

func buildPrompt(text string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Text:\n{{TEXT}}\n\nJSON Response:"
	}
	return strings.ReplaceAll(template, "{{TEXT}}", text)
}

type entityResponse struct {
	Entities []ner.Entity `json:"entities"`
}

// parseResponse accepts either {"entities": [...]} or a bare array.
func parseResponse(raw string) ([]ner.Entity, error) {
	cleaned := extractJSON(raw)

	var entities []ner.Entity
	if strings.HasPrefix(cleaned, "[") {
		if err := json.Unmarshal([]byte(cleaned), &entities); err != nil {
			return nil, fmt.Errorf("parse gemini response: %w", err)
		}
	} else {
		var resp entityResponse
		if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
			return nil, fmt.Errorf("parse gemini response: %w", err)
		}
		entities = resp.Entities
	}

	result := make([]ner.Entity, 0, len(entities))
	for _, entity := range entities {
		text := strings.TrimSpace(entity.Text)
		if text == "" {
			continue
		}
		result = append(result, ner.Entity{
			Text:  text,
			Label: strings.ToUpper(strings.TrimSpace(entity.Label)),
		})
	}

	return result, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
