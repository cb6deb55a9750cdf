package demo

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/aretw0/pagestate/internal/compiler"
	"github.com/aretw0/pagestate/pkg/domain"
	"github.com/aretw0/pagestate/pkg/state"
	"github.com/aretw0/pagestate/pkg/view"
)

//go:embed page.yaml
var pageYAML []byte

// Page is the demo page built in code.
func (s States) Page() []view.Node {
	return []view.Node{
		view.El("div", view.Props{"class": "banner"}, view.Text("Some irrelevant info here")),

		view.El("div", view.Props{"class": "user"},
			view.Case(s.UserNotLoaded, view.El("p", nil, view.Text("User data is not yet loaded."))),
			view.Case(s.UserLoading, view.El("p", nil, view.Text("Loading user data..."))),
			view.Case(s.UserLoaded.PageState,
				view.Func(func(c domain.Context) view.Node {
					user, err := domain.Decode[UserData](c)
					if err != nil {
						return view.Group()
					}
					return UserLoadedFragment(user)
				}),
				view.El("p", nil, view.Text("User data is loaded!")),
			),
		),

		view.El("div", view.Props{"class": "posts"},
			view.Case(s.PostsNotLoaded, view.El("p", nil, view.Text("Posts are not yet loaded."))),
			view.Case(s.PostsLoading,
				view.CaseOf(s.UserLoaded, func(u UserData) view.Node {
					return view.El("p", nil, view.Textf("Loading %s's posts...", u.UserID))
				}),
			),
			view.CaseOf(s.PostsLoaded, func(p PostsData) view.Node {
				items := make([]view.Node, 0, len(p.Posts))
				for _, post := range p.Posts {
					items = append(items, view.El("li", nil, view.Text(post.Content)))
				}
				return view.Group(
					view.El("p", nil, view.Text("Posts are loaded!")),
					view.El("ul", nil, items...),
				)
			}),
		),
	}
}

// UserLoadedFragment shows the loaded user.
func UserLoadedFragment(u UserData) view.Node {
	return view.El("div", nil, view.El("h2", nil, view.Textf("User: %s", u.UserID)))
}

// StatusLine renders the current handle as a fragment.
func StatusLine(current *state.PageState, generation uint64) []view.Node {
	return view.Fragment(current, view.Props{"class": "status"},
		view.El("code", nil, view.Text(current.Name())),
		view.Textf(" · generation %d", generation),
	)
}

// LoadPage returns the page at path, or the built-in page when path is empty.
// The built-in YAML page is used when path is "builtin.yaml".
func (s States) LoadPage(path string) ([]view.Node, error) {
	switch path {
	case "":
		return s.Page(), nil
	case "builtin.yaml":
		return compiler.ParseTree(pageYAML)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read page %s: %w", path, err)
	}
	return compiler.ParseTree(data)
}
