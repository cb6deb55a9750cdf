package compiler_test

import (
	"testing"

	"github.com/aretw0/pagestate/internal/compiler"
	"github.com/aretw0/pagestate/pkg/domain"
	"github.com/aretw0/pagestate/pkg/state"
	"github.com/aretw0/pagestate/pkg/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `
- tag: h1
  children:
    - text: Demo
- state: user-loading
  children:
    - text: Loading user...
- state: user-loaded
  props:
    class: user
  children:
    - tag: p
      children:
        - text: "User {{ .userId }}"
        - text: " ({{ upper .name }})"
`

func TestParse_RendersAgainstActiveState(t *testing.T) {
	tree, err := compiler.ParseTree([]byte(page))
	require.NoError(t, err)
	require.Len(t, tree, 3)

	loaded := state.New("user-loaded", state.WithContext(domain.Context{"userId": "1", "name": "ada"}))
	out := view.Switch(loaded, tree...)

	assert.Equal(t, "# Demo\n\nUser 1 (ADA)\n", view.Markdown(out))
	require.Len(t, out, 2)
	assert.Equal(t, view.Props{"class": "user"}, out[1].Props, "state props forwarded to the paragraph")
}

func TestParse_MissingKeyRendersEmpty(t *testing.T) {
	tree, err := compiler.ParseTree([]byte(`- text: "Hi {{ .who }}"`))
	require.NoError(t, err)

	out := view.Switch(state.New("any"), tree...)
	text := view.PlainText(out)
	assert.Equal(t, "Hi\n", text)
	assert.NotContains(t, text, "no value")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "- [unclosed"},
		{"unknown field", "- tag: p\n  colour: red"},
		{"text and tag", "- text: a\n  tag: p"},
		{"text with children", "- text: a\n  children:\n    - text: b"},
		{"bad template", `- text: "{{ .a "`},
		{"props without tag", "- props: {a: 1}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compiler.ParseTree([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestParse_Group(t *testing.T) {
	tree, err := compiler.ParseTree([]byte("- children:\n    - text: a\n    - text: b"))
	require.NoError(t, err)

	assert.Equal(t, "ab\n", view.PlainText(view.Switch(state.New("x"), tree...)))
}
