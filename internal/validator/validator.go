// Package validator checks page trees before they are rendered.
package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/pagestate/pkg/view"
)

// ValidateTree checks tree against the names of the declared states.
// It reports state cases naming an undeclared state, state cases without
// children (they can never render anything), function nodes without a
// callback and element nodes carrying text.
func ValidateTree(tree []view.Node, declared []string) error {
	var errors []string

	var walk func(nodes []view.Node, path string)
	walk = func(nodes []view.Node, path string) {
		for i, n := range nodes {
			at := fmt.Sprintf("%s[%d]", path, i)
			switch n.Kind {
			case view.KindState:
				at = fmt.Sprintf("%s(%s)", at, n.Tag)
				if !slices.Contains(declared, n.Tag) {
					errors = append(errors, fmt.Sprintf("Unknown state '%s' at %s", n.Tag, at))
				}
				if len(n.Children) == 0 {
					errors = append(errors, fmt.Sprintf("Empty state case at %s", at))
				}
			case view.KindFunc:
				if n.Render == nil {
					errors = append(errors, fmt.Sprintf("Function node without callback at %s", at))
				}
			case view.KindElement:
				if n.Text != "" {
					errors = append(errors, fmt.Sprintf("Element with text at %s", at))
				}
				if n.Tag != "" {
					at = fmt.Sprintf("%s<%s>", at, n.Tag)
				}
			}
			walk(n.Children, at)
		}
	}
	walk(tree, "")

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}

	return nil
}
