package screening

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-matcher/internal/catalog"
	"github.com/spigell/resume-matcher/internal/document"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/ner"
	"github.com/spigell/resume-matcher/internal/profile"
)

type stubRecognizer struct {
	entities []ner.Entity
	err      error
}

func (s stubRecognizer) Recognize(context.Context, string) ([]ner.Entity, error) {
	return s.entities, s.err
}

func newScreener(t *testing.T, rec ner.Recognizer, log *zap.Logger) *Screener {
	t.Helper()
	return New(nil, Deps{
		Catalog:   catalog.Default(),
		Extractor: profile.NewExtractor(rec, nil),
		Logger:    log,
	})
}

func TestRunScenario(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	rec := stubRecognizer{entities: []ner.Entity{{Text: "Jane", Label: ner.LabelPerson}}}
	s := newScreener(t, rec, zap.New(core))

	upload := document.Upload{
		Filename: "jane.docx",
		Data:     docxWithParagraphs(t, "Contact: jane@x.com or 123-456-7890.", "Skills: Python, SQL, React."),
	}

	result, err := s.Run(context.Background(), upload, "python developer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Profile.Name != "Jane" {
		t.Fatalf("unexpected name: %q", result.Profile.Name)
	}
	if result.Match.Score != 50 {
		t.Fatalf("expected score 50, got %v", result.Match.Score)
	}
	if !reflect.DeepEqual(result.Match.Matched, []string{"python", "sql"}) {
		t.Fatalf("unexpected matched: %v", result.Match.Matched)
	}
	if !reflect.DeepEqual(result.Match.Missing, []string{"django", "flask"}) {
		t.Fatalf("unexpected missing: %v", result.Match.Missing)
	}
	if result.Band != matching.BandGood {
		t.Fatalf("expected good band, got %s", result.Band)
	}
	if result.Suggested || len(result.Suggestions) != 0 {
		t.Fatalf("suggestion pass must not run for score 50: %+v", result)
	}
	if result.RequestID == "" {
		t.Fatalf("expected request id")
	}

	entries := observed.FilterMessage("resume screened").All()
	if len(entries) != 1 {
		t.Fatalf("expected one summary log entry, got %d", len(entries))
	}
	if entries[0].ContextMap()[logger.FieldRequestID] != result.RequestID {
		t.Fatalf("summary log must carry the request id")
	}
}

func TestRunLowScoreRunsSuggestionPass(t *testing.T) {
	s := newScreener(t, stubRecognizer{}, nil)

	upload := document.Upload{
		Filename: "cv.docx",
		Data:     docxWithParagraphs(t, "Python and SQL, some Data Science and Machine Learning"),
	}

	result, err := s.Run(context.Background(), upload, "cloud engineer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Match.Score != 0 || result.Band != matching.BandLow {
		t.Fatalf("unexpected match: %+v", result.Match)
	}
	if !result.Suggested {
		t.Fatalf("expected suggestion pass to run")
	}

	expected := []matching.Suggestion{
		{Role: "python developer", Score: 50},
		{Role: "data analyst", Score: 100},
		{Role: "machine learning engineer", Score: 100},
	}
	if !reflect.DeepEqual(result.Suggestions, expected) {
		t.Fatalf("expected %v, got %v", expected, result.Suggestions)
	}
}

func TestRunEmptyDocument(t *testing.T) {
	s := newScreener(t, stubRecognizer{}, zap.NewNop())

	result, err := s.Run(context.Background(), document.Upload{Filename: "empty.docx", Data: docxWithParagraphs(t)}, "data analyst")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := result.Profile
	if p.Name != profile.NotFound || len(p.Emails) != 0 || len(p.Phones) != 0 || len(p.Skills) != 0 {
		t.Fatalf("expected empty profile, got %+v", p)
	}
	if result.Match.Score != 0 || len(result.Match.Matched) != 0 {
		t.Fatalf("unexpected match: %+v", result.Match)
	}
	if !reflect.DeepEqual(result.Match.Missing, []string{"data science", "machine learning", "python", "sql"}) {
		t.Fatalf("expected full requirement missing, got %v", result.Match.Missing)
	}
}

func TestRunAllSkills(t *testing.T) {
	s := newScreener(t, stubRecognizer{}, nil)

	upload := document.Upload{
		Filename: "cv.docx",
		Data:     docxWithParagraphs(t, "Python, Machine Learning, Data Science", "Also Excel and Git"),
	}

	result, err := s.Run(context.Background(), upload, "machine learning engineer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Match.Score != 100 || result.Band != matching.BandExcellent {
		t.Fatalf("expected perfect match, got %+v", result.Match)
	}
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	valid := docxWithParagraphs(t, "Jane")

	tests := []struct {
		name   string
		rec    ner.Recognizer
		upload document.Upload
		role   string
		target error
	}{
		{name: "unsupported format", rec: stubRecognizer{}, upload: document.Upload{Filename: "cv.txt", Data: []byte("x")}, role: "data analyst", target: document.ErrUnsupportedFormat},
		{name: "corrupt document", rec: stubRecognizer{}, upload: document.Upload{Filename: "cv.docx", Data: []byte("garbage")}, role: "data analyst", target: document.ErrDecode},
		{name: "unknown role", rec: stubRecognizer{}, upload: document.Upload{Filename: "cv.docx", Data: valid}, role: "astronaut", target: catalog.ErrUnknownRole},
		{name: "model unavailable", rec: stubRecognizer{err: ner.ErrModelUnavailable}, upload: document.Upload{Filename: "cv.docx", Data: valid}, role: "data analyst", target: ner.ErrModelUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newScreener(t, tt.rec, nil)
			_, err := s.Run(context.Background(), tt.upload, tt.role)
			if !errors.Is(err, tt.target) {
				t.Fatalf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestNewSuggestBelow(t *testing.T) {
	s := New(&Config{SuggestBelow: 101}, Deps{
		Catalog:   catalog.Default(),
		Extractor: profile.NewExtractor(stubRecognizer{}, nil),
	})

	result, err := s.Run(context.Background(), document.Upload{
		Filename: "cv.docx",
		Data:     docxWithParagraphs(t, "python django flask sql"),
	}, "python developer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Suggested {
		t.Fatalf("expected suggestion pass with raised threshold")
	}
}

func TestZeroSuggestBelowDisablesSuggestions(t *testing.T) {
	s := New(&Config{SuggestBelow: 0}, Deps{
		Catalog:   catalog.Default(),
		Extractor: profile.NewExtractor(stubRecognizer{}, nil),
	})

	result, err := s.Run(context.Background(), document.Upload{
		Filename: "cv.docx",
		Data:     docxWithParagraphs(t, "python sql"),
	}, "cloud engineer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Match.Score != 0 {
		t.Fatalf("expected zero score, got %v", result.Match.Score)
	}
	if result.Suggested || len(result.Suggestions) != 0 {
		t.Fatalf("expected no suggestion pass, got %+v", result.Suggestions)
	}
}

func TestNegativeSuggestBelowUsesDefault(t *testing.T) {
	s := New(&Config{SuggestBelow: -1}, Deps{
		Catalog:   catalog.Default(),
		Extractor: profile.NewExtractor(stubRecognizer{}, nil),
	})
	if s.suggestBelow != DefaultSuggestBelow {
		t.Fatalf("expected default threshold, got %v", s.suggestBelow)
	}
}

func docxWithParagraphs(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString("<w:p><w:r><w:t>" + p + "</w:t></w:r></w:p>")
	}

	files := map[string]string{
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body.String() + `</w:body></w:document>`,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	return buf.Bytes()
}
