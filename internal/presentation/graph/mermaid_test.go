package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/pagestate/internal/presentation/graph"
	"github.com/aretw0/pagestate/pkg/domain"
)

func enter(from, to string) domain.TraceEvent {
	return domain.TraceEvent{Type: domain.EventStateEnter, From: from, To: to}
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name        string
		events      []domain.TraceEvent
		overlay     *graph.GraphOverlay
		contains    []string
		notContains []string
	}{
		{
			name:   "Header Only",
			events: nil,
			contains: []string{
				"stateDiagram-v2\n",
			},
			notContains: []string{"-->"},
		},
		{
			name: "Chain With Initial State",
			events: []domain.TraceEvent{
				enter("user-not-loaded", "user-loading"),
				enter("user-loading", "user-loaded"),
			},
			contains: []string{
				`state "user-not-loaded" as user_not_loaded`,
				"[*] --> user_not_loaded",
				"user_not_loaded --> user_loading",
				"user_loading --> user_loaded",
			},
			notContains: []string{"[*] --> user_loading"},
		},
		{
			name: "Ignores Other Events",
			events: []domain.TraceEvent{
				{Type: domain.EventStateExit, From: "a", To: "b"},
				{Type: domain.EventTransitionSkipped, From: "x", To: "y"},
			},
			notContains: []string{"a --> b", "x --> y"},
		},
		{
			name: "Repeated Edge Count",
			events: []domain.TraceEvent{
				enter("a", "b"),
				enter("b", "a"),
				enter("a", "b"),
			},
			contains: []string{"a --> b : x2", "b --> a\n"},
		},
		{
			name:    "Overlay",
			events:  []domain.TraceEvent{enter("a", "b")},
			overlay: &graph.GraphOverlay{Active: []string{"b"}},
			contains: []string{
				"classDef active",
				"class b active",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.events, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("expected output to contain %q, got:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(got, unwanted) {
					t.Errorf("expected output not to contain %q, got:\n%s", unwanted, got)
				}
			}
		})
	}
}
