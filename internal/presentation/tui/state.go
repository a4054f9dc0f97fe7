package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/anilink/pkg/domain"
	"github.com/muesli/termenv"
)

var classColors = map[domain.Class]string{
	domain.ClassDormant: "#94a3b8",
	domain.ClassIdle:    "#38bdf8",
	domain.ClassActive:  "#f472b6",
}

// StateStyler colors state values by lifecycle class.
type StateStyler struct {
	profile termenv.Profile
}

// NewStateStyler creates a styler for the given color profile.
// Use termenv.Ascii to disable colors.
func NewStateStyler(p termenv.Profile) StateStyler {
	return StateStyler{profile: p}
}

// Style returns the value colored by its class for a subject with the given action label.
// Values outside the subject's lifecycle are returned unstyled.
func (s StateStyler) Style(value, actionLabel string) string {
	c, ok := domain.Classify(value, actionLabel)
	if !ok {
		return value
	}
	out := s.profile.String(value).Foreground(s.profile.Color(classColors[c]))
	if c == domain.ClassActive {
		out = out.Bold()
	}
	return out.String()
}

// TransitionTable returns a markdown table of the lifecycle for a subject with the given action label.
// Rows are current states, columns are requested states.
func TransitionTable(actionLabel string) string {
	classes := domain.Classes()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Lifecycle of `%s`\n\n", actionLabel))

	sb.WriteString("| from \\ to |")
	for _, c := range classes {
		sb.WriteString(fmt.Sprintf(" %s |", domain.ValueOf(c, actionLabel)))
	}
	sb.WriteString("\n|---|")
	for range classes {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")

	for _, from := range classes {
		sb.WriteString(fmt.Sprintf("| **%s** |", domain.ValueOf(from, actionLabel)))
		for _, to := range classes {
			mark := "✗"
			switch {
			case from == to:
				mark = "·"
			case domain.Allowed(from, to):
				mark = "✓"
			}
			sb.WriteString(fmt.Sprintf(" %s |", mark))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("\n`%s` is an alias for `%s`. `·` marks a no-op.\n", domain.AliasAction, actionLabel))
	return sb.String()
}
