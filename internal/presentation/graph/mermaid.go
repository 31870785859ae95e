package graph

import (
	"fmt"
	"strings"

	"github.com/openpermit/openpermit/pkg/domain"
)

// Highlight marks nodes to emphasise on the graph.
type Highlight struct {
	Invalid  []string
	Selected string
}

// GenerateMermaid produces a Mermaid flowchart syntax string from nodes and crosswalks.
// It applies semantic styling:
// - Standard: [[Subroutine]]
// - Requirement: {{Hexagon}}
// - Actor: ((Circle))
// - Document: [/Parallelogram/]
// - Process: ([Stadium])
// - Default: [Rectangle]
// Relationship targets that are not in nodes are still drawn, as plain rectangles.
func GenerateMermaid(nodes []*domain.Node, crosswalks []domain.Crosswalk, highlight *Highlight) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, node := range nodes {
		safeID := sanitizeMermaidID(node.ID())

		opener, closer := "[", "]"
		switch node.Type() {
		case domain.NodeTypeStandard:
			opener, closer = "[[", "]]"
		case domain.NodeTypeRequirement:
			opener, closer = "{{", "}}"
		case domain.NodeTypeActor:
			opener, closer = "((", "))"
		case domain.NodeTypeDocument:
			opener, closer = "[/", "/]"
		case domain.NodeTypeProcess:
			opener, closer = "([", "])"
		}

		label := node.ID()
		if name := node.Metadata().Name; name != "" {
			label = fmt.Sprintf("%s <br/> %s", name, node.ID())
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escape(label), closer))

		for _, rel := range node.Relationships() {
			arrow := fmt.Sprintf("-- %s -->", rel.Type)
			if rel.Type == domain.RelationshipEquivalent {
				arrow = fmt.Sprintf("-. %s .->", rel.Type)
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, sanitizeMermaidID(rel.Target)))
		}
	}

	for _, cw := range crosswalks {
		sb.WriteString(fmt.Sprintf("    %s -. \"%s\" .-> %s\n",
			sanitizeMermaidID(cw.Source.Identifier), escape(cw.Type), sanitizeMermaidID(cw.Target.Identifier)))
	}

	if highlight != nil {
		sb.WriteString("\n    %% Highlight Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef invalid fill:#ffebee,stroke:#c62828,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef selected fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range highlight.Invalid {
			safeID := sanitizeMermaidID(id)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s invalid;\n", safeID))
			}
		}
		if highlight.Selected != "" {
			sb.WriteString(fmt.Sprintf("    class %s selected;\n", sanitizeMermaidID(highlight.Selected)))
		}
	}

	return sb.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	return strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", ":", "_", " ", "_").Replace(id)
}
