package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/anilink/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
// Values are concrete state values of the subject, not classes.
type GraphOverlay struct {
	VisitedStates []string
	CurrentState  string
}

// GenerateMermaid produces a Mermaid flowchart of the lifecycle for a subject with the given action label.
// It applies semantic styling:
// - Dormant: ((Circle))
// - Idle: [Rectangle]
// - Active: [[Subroutine]]
// Self-loops are drawn dotted. Overlay styles (Visited/Current) are applied if provided.
func GenerateMermaid(actionLabel string, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, c := range domain.Classes() {
		opener, closer := "[", "]"
		switch c {
		case domain.ClassDormant:
			opener, closer = "((", "))"
		case domain.ClassActive:
			opener, closer = "[[", "]]"
		}

		label := escapeLabel(domain.ValueOf(c, actionLabel))
		if c == domain.ClassActive {
			label = fmt.Sprintf("%s <br/> %s", label, domain.AliasAction)
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", nodeID(c), opener, label, closer))
	}

	for _, e := range domain.Edges() {
		arrow := "-->"
		if e.From == e.To {
			arrow = "-.->"
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", nodeID(e.From), arrow, nodeID(e.To)))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[domain.Class]bool)
		for _, value := range overlay.VisitedStates {
			c, ok := domain.Classify(value, actionLabel)
			if !ok || visited[c] {
				continue
			}
			visited[c] = true
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", nodeID(c)))
		}

		if c, ok := domain.Classify(domain.Resolve(overlay.CurrentState, actionLabel), actionLabel); ok {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", nodeID(c)))
		}
	}

	return sb.String()
}

func nodeID(c domain.Class) string {
	return strings.ToLower(c.String())
}

// escapeLabel keeps user supplied labels from breaking the quoted Mermaid string.
func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
