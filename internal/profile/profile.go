// Package profile derives candidate details from plain resume text.
package profile

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/spigell/resume-matcher/internal/ner"
	"github.com/spigell/resume-matcher/internal/utils"
)

// NotFound is used for the name when no person entity was detected.
const NotFound = "Not Found"

// Go's \S and \d are ASCII only, so the classes spell out Unicode
// whitespace and decimal digits.
const nonSpace = `[^\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`

var (
	emailPattern = regexp.MustCompile(nonSpace + `+@` + nonSpace + `+`)
	phonePattern = regexp.MustCompile(`\+?\p{Nd}[\p{Nd} -]{8,12}\p{Nd}`)
)

var defaultVocabulary = []string{
	"python", "java", "c", "c++", "javascript", "html", "css", "sql",
	"machine learning", "data science", "django", "flask",
	"react", "node", "mongodb", "aws", "cloud", "git", "excel",
}

// DefaultVocabulary returns a copy of the built-in skill terms.
func DefaultVocabulary() []string {
	return slices.Clone(defaultVocabulary)
}

// Profile holds the candidate details found in a resume.
type Profile struct {
	Name   string   `json:"name" yaml:"name"`
	Emails []string `json:"emails" yaml:"emails"`
	Phones []string `json:"phones" yaml:"phones"`
	Skills []string `json:"skills" yaml:"skills"`
}

// FirstEmail returns the first detected email or NotFound.
func (p *Profile) FirstEmail() string {
	return firstOr(p.Emails, NotFound)
}

// FirstPhone returns the first detected phone or NotFound.
func (p *Profile) FirstPhone() string {
	return firstOr(p.Phones, NotFound)
}

func firstOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return items[0]
}

type Extractor struct {
	recognizer ner.Recognizer
	vocabulary []string
}

// NewExtractor builds an extractor using the shared recognizer. An empty
// vocabulary selects the built-in one.
func NewExtractor(recognizer ner.Recognizer, vocabulary []string) *Extractor {
	if len(vocabulary) == 0 {
		vocabulary = defaultVocabulary
	}

	return &Extractor{
		recognizer: recognizer,
		vocabulary: utils.SortedUnique(vocabulary),
	}
}

// Extract returns the profile for text. Missing fields are not errors;
// only a failing recognizer is.
func (e *Extractor) Extract(ctx context.Context, text string) (*Profile, error) {
	name, err := e.name(ctx, text)
	if err != nil {
		return nil, err
	}

	return &Profile{
		Name:   name,
		Emails: Emails(text),
		Phones: Phones(text),
		Skills: Skills(text, e.vocabulary),
	}, nil
}

func (e *Extractor) name(ctx context.Context, text string) (string, error) {
	if e.recognizer == nil {
		return "", fmt.Errorf("%w: recognizer is not configured", ner.ErrModelUnavailable)
	}

	entities, err := e.recognizer.Recognize(ctx, text)
	if err != nil {
		return "", fmt.Errorf("recognize entities: %w", err)
	}

	if name, ok := ner.FirstPerson(entities); ok {
		return name, nil
	}

	return NotFound, nil
}

// Emails returns every whitespace-delimited token containing "@", in order.
func Emails(text string) []string {
	return nonNil(emailPattern.FindAllString(text, -1))
}

// Phones returns every phone-like run of digits, spaces and hyphens, in order.
func Phones(text string) []string {
	return nonNil(phonePattern.FindAllString(text, -1))
}

// Skills returns the vocabulary terms occurring anywhere in text, ignoring
// case. Terms match inside longer words too.
func Skills(text string, vocabulary []string) []string {
	lower := strings.ToLower(text)

	found := make([]string, 0)
	for _, term := range vocabulary {
		if strings.Contains(lower, term) {
			found = append(found, term)
		}
	}

	return utils.SortedUnique(found)
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
