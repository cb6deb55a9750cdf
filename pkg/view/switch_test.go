package view_test

import (
	"context"
	"testing"

	"github.com/aretw0/pagestate/pkg/domain"
	"github.com/aretw0/pagestate/pkg/state"
	"github.com/aretw0/pagestate/pkg/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwitch_LoadingToLoaded(t *testing.T) {
	reg := state.NewRegistry()
	loading := state.New("loading", state.In(reg))
	loaded := state.New("loaded")
	reg2 := loading.Registry()
	require.Same(t, reg, reg2)

	m, err := state.NewMachine(loading)
	require.NoError(t, err)
	require.True(t, m.Transition(context.Background(), loading, loaded, state.Passing(domain.Context{"data": 42})))

	tree := []view.Node{
		view.Case(loading, view.Text("x")),
		view.Case(loaded, view.Func(func(c domain.Context) view.Node {
			return view.Textf("%v", c["data"])
		})),
	}

	out := view.Switch(m.Current(), tree...)

	assert.Equal(t, []view.Node{view.Text("42")}, out)
}

func TestSwitch_OnlyActiveSibling(t *testing.T) {
	x := state.New("X")
	y := state.New("Y")

	out := view.Switch(x,
		view.Case(x, view.Text("in X")),
		view.Case(y, view.Text("in Y")),
	)

	assert.Equal(t, "in X\n", view.PlainText(out))
}

func TestSwitch_CompositeRendersBothInSourceOrder(t *testing.T) {
	a := state.New("A")
	b := state.New("B")
	c := state.New("C")
	current := state.Combine(a, b)

	out := view.Switch(current,
		view.Case(b, view.Text("b")),
		view.Case(c, view.Text("c")),
		view.Case(a, view.Text("a")),
	)

	assert.Equal(t, []view.Node{view.Text("b"), view.Text("a")}, out)
}

func TestSwitch_EmptyCaseRendersNothing(t *testing.T) {
	a := state.New("A")

	assert.Empty(t, view.Switch(a, view.Case(a)))
}

func TestSwitch_UntaggedLeavesAlwaysRender(t *testing.T) {
	a := state.New("A")
	b := state.New("B")

	out := view.Switch(a,
		view.El("h1", nil, view.Text("Title")),
		view.El("hr", nil),
		view.El("div", nil, view.Case(b, view.Text("hidden"))),
		view.Text("footer"),
	)

	require.Len(t, out, 4)
	assert.Equal(t, "h1", out[0].Tag)
	assert.Equal(t, "hr", out[1].Tag)
	assert.Empty(t, out[2].Children, "element kept, inactive case dropped")
	assert.Equal(t, "footer", out[3].Text)
}

func TestSwitch_NestedCases(t *testing.T) {
	a := state.New("A")
	b := state.New("B")
	c := state.New("C")
	current := state.Combine(a, b)

	out := view.Switch(current,
		view.Case(a,
			view.Case(b, view.Text("a and b")),
			view.Case(c, view.Text("a and c")),
		),
	)

	assert.Equal(t, []view.Node{view.Text("a and b")}, out)
}

func TestSwitch_CallbackUsesEnclosingCasePayload(t *testing.T) {
	user := state.New("user", state.WithContext(domain.Context{"userId": "1"}))
	posts := state.New("posts", state.WithContext(domain.Context{"count": 3}))
	current := state.Combine(user, posts)

	show := func(key string) view.Node {
		return view.Func(func(c domain.Context) view.Node { return view.Textf("%s=%v", key, c[key]) })
	}
	out := view.Switch(current,
		view.Case(user, show("userId")),
		view.Case(posts, show("count")),
	)

	assert.Equal(t, "userId=1count=3\n", view.PlainText(out))
}

func TestSwitch_CallbackOutsideCaseUsesCurrent(t *testing.T) {
	a := state.New("A", state.WithContext(domain.Context{"n": 1}))

	out := view.Switch(a, view.Func(func(c domain.Context) view.Node { return view.Textf("%v", c["n"]) }))

	assert.Equal(t, []view.Node{view.Text("1")}, out)
}

func TestSwitch_CallbackResultIsWalked(t *testing.T) {
	a := state.New("A")
	b := state.New("B")

	out := view.Switch(a, view.Func(func(domain.Context) view.Node {
		return view.Group(view.Case(a, view.Text("yes")), view.Case(b, view.Text("no")))
	}))

	assert.Equal(t, "yes\n", view.PlainText(out))
}

func TestSwitch_SingleLevelPropForwarding(t *testing.T) {
	a := state.New("A")

	tagged := view.Case(a,
		view.El("section", view.Props{"class": "mine"},
			view.El("p", nil, view.Text("deep")),
		),
		view.El("div", nil),
	).WithProps(view.Props{"class": "ambient", "data-state": "A"})

	out := view.Switch(a, tagged)

	require.Len(t, out, 2)
	assert.Equal(t, view.Props{"class": "mine", "data-state": "A"}, out[0].Props, "own props win")
	assert.Nil(t, out[0].Children[0].Props, "grandchildren receive nothing")
	assert.Equal(t, view.Props{"class": "ambient", "data-state": "A"}, out[1].Props)
}

func TestSwitch_NilCurrent(t *testing.T) {
	assert.Nil(t, view.Switch(nil, view.Text("x")))
}

func TestCaseOf_Typed(t *testing.T) {
	type user struct {
		UserID string `pagestate:"userId"`
	}
	loaded := state.DefineWith("user-loaded", user{UserID: "9"})

	out := view.Switch(loaded.PageState, view.CaseOf(loaded, func(u user) view.Node {
		return view.Textf("user %s", u.UserID)
	}))

	assert.Equal(t, "user 9\n", view.PlainText(out))
}

func TestSwitch_CompositeNameIsNotACase(t *testing.T) {
	a := state.New("a")
	b := state.New("b")
	current := state.Combine(a, b)
	require.Equal(t, "a-b", current.Name())

	out := view.Switch(current,
		view.CaseName("a-b", view.Text("joined")),
		view.Case(a, view.Text("member")),
	)

	assert.Equal(t, []view.Node{view.Text("member")}, out)
}

func TestSwitch_TransitionDuringWalkShowsNextRender(t *testing.T) {
	a := state.New("A")
	b := state.New("B")
	m, err := state.NewMachine(a)
	require.NoError(t, err)

	tree := []view.Node{
		view.Case(a,
			view.Text("in A"),
			view.Func(func(domain.Context) view.Node {
				m.Transition(context.Background(), a, b)
				return view.Group()
			}),
		),
		view.Case(b, view.Text("in B")),
	}

	first := view.SwitchView(m.View(), tree...)
	assert.Equal(t, "in A\n", view.PlainText(first))
	assert.Equal(t, "B", m.Current().Name())

	second := view.SwitchView(m.View(), tree...)
	assert.Equal(t, "in B\n", view.PlainText(second))
}

func TestSwitchView_ConcurrentTransitionsNeverTear(t *testing.T) {
	a := state.New("A")
	m, err := state.NewMachine(a)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		from := m.Current()
		for i := 0; i < 500; i++ {
			name := "A"
			if from.Name() == "A" {
				name = "B"
			}
			to := state.New(name)
			if m.Transition(context.Background(), from, to) {
				from = m.Current()
			}
		}
	}()

	tree := []view.Node{
		view.CaseName("A", view.Text("A")),
		view.CaseName("B", view.Text("B")),
	}
	for {
		select {
		case <-done:
			return
		default:
		}
		v := m.View()
		out := view.SwitchView(v, tree...)
		require.Len(t, out, 1)
		assert.Equal(t, v.Current().Name(), out[0].Text)

		snap := v.Snapshot(m.ID())
		assert.True(t, snap.Has(snap.Current))
	}
}

func TestSwitchView_NilView(t *testing.T) {
	assert.Nil(t, view.SwitchView(nil, view.Text("x")))
}
