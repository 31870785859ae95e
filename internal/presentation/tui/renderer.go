package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/openpermit/openpermit/pkg/domain"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders markdown using glamour.
// When stdout is not a terminal, markdown is returned unchanged.
func NewRenderer() func(string) (string, error) {
	if !IsTerminal(os.Stdout) {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NodeMarkdown describes a node as a markdown document.
func NodeMarkdown(n *domain.Node) string {
	var b strings.Builder
	meta := n.Metadata()

	title := meta.Name
	if title == "" {
		title = n.ID()
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if meta.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", meta.Description)
	}
	fmt.Fprintf(&b, "| Field | Value |\n|---|---|\n")
	flat := meta.Map()
	fmt.Fprintf(&b, "| id | `%s` |\n| type | %s |\n| version | %s |\n", n.ID(), n.Type(), inline(flat["version"]))
	fmt.Fprintf(&b, "| created | %s |\n| modified | %s |\n\n", inline(flat["created"]), inline(flat["modified"]))

	if attrs := n.Attributes(); len(attrs) > 0 {
		b.WriteString("## Attributes\n\n")
		for _, k := range sortedKeys(attrs) {
			fmt.Fprintf(&b, "- **%s**: %s\n", k, inline(attrs[k]))
		}
		b.WriteString("\n")
	}

	if rels := n.Relationships(); len(rels) > 0 {
		b.WriteString("## Relationships\n\n")
		for _, r := range rels {
			fmt.Fprintf(&b, "- %s → `%s`\n", r.Type, r.Target)
		}
		b.WriteString("\n")
	}

	if rules := n.ValidationRules(); len(rules) > 0 {
		b.WriteString("## Validation rules\n\n")
		for _, r := range rules {
			fmt.Fprintf(&b, "- [%s] %s `%s` %s\n", r.Severity, r.RuleType, r.Expression, r.Message)
		}
		b.WriteString("\n")
	}

	if ai := n.AIInterface(); len(ai.Capabilities) > 0 {
		fmt.Fprintf(&b, "## AI capabilities\n\n%s\n\n", strings.Join(ai.Capabilities, ", "))
	}
	return b.String()
}

// ValidationMarkdown describes a validation result.
func ValidationMarkdown(res domain.ValidationResult) string {
	var b strings.Builder
	if res.Valid {
		b.WriteString("# ✓ Valid\n\n")
	} else {
		b.WriteString("# ✗ Invalid\n\n")
	}
	for _, section := range []struct {
		name   string
		issues []domain.Issue
	}{{"Errors", res.Errors}, {"Warnings", res.Warnings}, {"Info", res.Info}} {
		if len(section.issues) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", section.name)
		for _, i := range section.issues {
			fmt.Fprintf(&b, "- `%s` %s\n", i.Code, i.Message)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// CrosswalkMarkdown describes a crosswalk.
func CrosswalkMarkdown(cw domain.Crosswalk) string {
	return fmt.Sprintf("# Crosswalk `%s`\n\n| | Type | Identifier |\n|---|---|---|\n| source | %s | `%s` |\n| target | %s | `%s` |\n\n**%s**, %s, version %s, created %s by %s\n",
		cw.ID,
		cw.Source.NodeType, cw.Source.Identifier,
		cw.Target.NodeType, cw.Target.Identifier,
		cw.Type, cw.Metadata.Status, cw.Metadata.Version, cw.Metadata.Created, cw.Metadata.Creator,
	)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func inline(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return "`" + string(data) + "`"
}
