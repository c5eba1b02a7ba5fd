// Package report renders screening results for the terminal or for machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/profile"
	"github.com/spigell/resume-matcher/internal/screening"
	"github.com/spigell/resume-matcher/internal/utils"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

const (
	none          = "None"
	progressWidth = 20
	noSuggestions = "No strong alternative roles found. Consider improving skills."
)

// ParseFormat accepts text, json or yaml; empty means text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format: %q", s)
	}
}

func Render(w io.Writer, format Format, result *screening.Result) error {
	if result == nil {
		return fmt.Errorf("result is required")
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		_, err := io.WriteString(w, Text(result))
		return err
	default:
		return fmt.Errorf("unsupported output format: %q", format)
	}
}

// Text renders the human readable report.
func Text(result *screening.Result) string {
	var b strings.Builder

	p := result.Profile
	if p == nil {
		p = &profile.Profile{Name: profile.NotFound}
	}

	b.WriteString("Candidate Details\n")
	fmt.Fprintf(&b, "  Name:   %s\n", p.Name)
	fmt.Fprintf(&b, "  Email:  %s\n", p.FirstEmail())
	fmt.Fprintf(&b, "  Phone:  %s\n", p.FirstPhone())
	fmt.Fprintf(&b, "  Skills: %s\n", utils.JoinOr(p.Skills, profile.NotFound))
	b.WriteString("\n")

	fmt.Fprintf(&b, "Similarity with %s\n", RoleTitle(result.Role))
	fmt.Fprintf(&b, "  %s %d%%\n", ProgressBar(result.Match.Score), Progress(result.Match.Score))
	fmt.Fprintf(&b, "  Similarity Score: %.2f%%\n", result.Match.Score)
	fmt.Fprintf(&b, "  %s\n", result.Band.Label())
	fmt.Fprintf(&b, "  Matched Skills: %s\n", utils.JoinOr(result.Match.Matched, none))
	fmt.Fprintf(&b, "  Missing Skills: %s\n", utils.JoinOr(result.Match.Missing, none))

	if result.Suggested {
		b.WriteString("\nSuggested Job Roles (Better Fit)\n")
		if len(result.Suggestions) == 0 {
			fmt.Fprintf(&b, "  %s\n", noSuggestions)
		}
		for _, s := range result.Suggestions {
			fmt.Fprintf(&b, "  %s\n", SuggestionLine(s))
		}
	}

	return b.String()
}

// SuggestionLine formats an alternative role with its score.
func SuggestionLine(s matching.Suggestion) string {
	return fmt.Sprintf("✔ %s — %.2f%% match", RoleTitle(s.Role), s.Score)
}

// RoleTitle capitalizes every word of a role identifier.
func RoleTitle(role string) string {
	return cases.Title(language.English).String(role)
}

// Progress truncates the score to an integer in [0,100].
func Progress(score float64) int {
	switch {
	case score <= 0:
		return 0
	case score >= 100:
		return 100
	default:
		return int(score)
	}
}

func ProgressBar(score float64) string {
	filled := Progress(score) * progressWidth / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", progressWidth-filled) + "]"
}
