// Package screening runs a single resume through extraction, profiling and
// scoring.
package screening

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/catalog"
	"github.com/spigell/resume-matcher/internal/document"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/profile"
)

// DefaultSuggestBelow is the score under which alternative roles are looked up.
const DefaultSuggestBelow = 50.0

type Config struct {
	// SuggestBelow enables the suggestion pass for scores strictly below it.
	// Zero turns the pass off. Negative values fall back to DefaultSuggestBelow.
	SuggestBelow float64
}

type Deps struct {
	Catalog   *catalog.Catalog
	Extractor *profile.Extractor
	Logger    *zap.Logger
}

type Result struct {
	RequestID   string                `json:"request_id" yaml:"request_id"`
	Filename    string                `json:"filename" yaml:"filename"`
	Profile     *profile.Profile      `json:"profile" yaml:"profile"`
	Role        string                `json:"role" yaml:"role"`
	Match       matching.Result       `json:"match" yaml:"match"`
	Band        matching.Band         `json:"band" yaml:"band"`
	Suggested   bool                  `json:"suggestion_pass" yaml:"suggestion_pass"`
	Suggestions []matching.Suggestion `json:"suggestions" yaml:"suggestions"`
}

type Screener struct {
	catalog      *catalog.Catalog
	extractor    *profile.Extractor
	logger       *zap.Logger
	suggestBelow float64
}

func New(cfg *Config, deps Deps) *Screener {
	suggestBelow := DefaultSuggestBelow
	if cfg != nil && cfg.SuggestBelow >= 0 {
		suggestBelow = cfg.SuggestBelow
	}

	return &Screener{
		catalog:      deps.Catalog,
		extractor:    deps.Extractor,
		logger:       logger.WithFields(deps.Logger),
		suggestBelow: suggestBelow,
	}
}

// Run screens the upload against role. Errors are returned unchanged in
// kind: document.ErrUnsupportedFormat, document.ErrDecode,
// ner.ErrModelUnavailable and catalog.ErrUnknownRole.
func (s *Screener) Run(ctx context.Context, upload document.Upload, role string) (*Result, error) {
	if s.catalog == nil || s.extractor == nil {
		return nil, fmt.Errorf("screener is not fully configured")
	}

	requestID := uuid.NewString()
	log := logger.WithRequest(s.logger, requestID).With(
		zap.String("filename", upload.Filename),
		zap.String("role", role),
	)

	format, err := document.FormatFromFilename(upload.Filename)
	if err != nil {
		return nil, err
	}

	required, err := s.catalog.Skills(role)
	if err != nil {
		return nil, err
	}

	text, err := document.Extract(format, upload.Data)
	if err != nil {
		return nil, fmt.Errorf("extract text from %s: %w", upload.Filename, err)
	}
	log.Debug("extracted text", zap.String("format", string(format)), zap.Int("length", len(text)))

	candidate, err := s.extractor.Extract(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("extract profile: %w", err)
	}
	log.Debug("extracted profile",
		zap.String("name", candidate.Name),
		zap.Int("emails", len(candidate.Emails)),
		zap.Int("phones", len(candidate.Phones)),
		zap.Strings("skills", candidate.Skills),
	)

	match := matching.Match(candidate.Skills, required)
	result := &Result{
		RequestID:   requestID,
		Filename:    upload.Filename,
		Profile:     candidate,
		Role:        role,
		Match:       match,
		Band:        matching.BandFor(match.Score),
		Suggestions: []matching.Suggestion{},
	}

	if match.Score < s.suggestBelow {
		result.Suggested = true
		result.Suggestions = matching.Suggest(s.catalog, candidate.Skills, role)
	}

	log.Info("resume screened",
		zap.Float64("score", match.Score),
		zap.String("band", string(result.Band)),
		zap.Int("suggestions", len(result.Suggestions)),
	)

	return result, nil
}
