package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/pagestate/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	Active []string
}

type edge struct {
	from, to string
}

// GenerateMermaid produces a Mermaid stateDiagram-v2 from recorded trace events.
// Only state_enter events are used; each distinct edge is drawn once, labelled
// with how often it was taken when more than once. States that are left but
// never entered are drawn as initial states.
// Overlay marks the currently active states.
func GenerateMermaid(events []domain.TraceEvent, overlay *GraphOverlay) string {
	var (
		order   []string
		seen    = make(map[string]bool)
		entered = make(map[string]bool)
		edges   []edge
		counts  = make(map[edge]int)
	)
	addState := func(name string) {
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}

	for _, e := range events {
		if e.Type != domain.EventStateEnter {
			continue
		}
		addState(e.From)
		addState(e.To)
		entered[e.To] = true

		k := edge{e.From, e.To}
		if counts[k] == 0 {
			edges = append(edges, k)
		}
		counts[k]++
	}

	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")

	for _, name := range order {
		sb.WriteString(fmt.Sprintf("    state \"%s\" as %s\n", name, sanitizeMermaidID(name)))
	}
	for _, name := range order {
		if !entered[name] {
			sb.WriteString(fmt.Sprintf("    [*] --> %s\n", sanitizeMermaidID(name)))
		}
	}
	for _, k := range edges {
		line := fmt.Sprintf("    %s --> %s", sanitizeMermaidID(k.from), sanitizeMermaidID(k.to))
		if n := counts[k]; n > 1 {
			line += fmt.Sprintf(" : x%d", n)
		}
		sb.WriteString(line + "\n")
	}

	// Apply Overlay Styles
	if overlay != nil && len(overlay.Active) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef active fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000\n")
		for _, name := range overlay.Active {
			sb.WriteString(fmt.Sprintf("    class %s active\n", sanitizeMermaidID(name)))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
