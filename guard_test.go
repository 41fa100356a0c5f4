package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveQueue(t *testing.T) {
	root := &RouteRecord{path: "/a"}
	left := &RouteRecord{path: "/a/b", parent: root}
	right := &RouteRecord{path: "/a/c", parent: root}

	updated, activated, deactivated := resolveQueue(
		[]*RouteRecord{root, left},
		[]*RouteRecord{root, right},
	)
	assert.Equal(t, []*RouteRecord{root}, updated)
	assert.Equal(t, []*RouteRecord{right}, activated)
	assert.Equal(t, []*RouteRecord{left}, deactivated)

	updated, activated, deactivated = resolveQueue(nil, []*RouteRecord{root})
	assert.Empty(t, updated)
	assert.Equal(t, []*RouteRecord{root}, activated)
	assert.Empty(t, deactivated)
}

type leaveView struct {
	name  string
	calls *[]string
}

func (v *leaveView) BeforeRouteLeave(_, _ *Route, next Next) {
	*v.calls = append(*v.calls, v.name)
	next()
}

func TestExtractLeaveGuards_Reversed(t *testing.T) {
	var calls []string
	parent := &RouteRecord{components: map[string]any{DefaultView: &leaveView{name: "parent", calls: &calls}}}
	child := &RouteRecord{components: map[string]any{
		DefaultView: &leaveView{name: "child-default", calls: &calls},
		"side":      &leaveView{name: "child-side", calls: &calls},
		"plain":     struct{}{},
	}}

	guards := extractLeaveGuards([]*RouteRecord{parent, child})
	for _, g := range guards {
		g(nil, nil, func(...Decision) {})
	}
	assert.Equal(t, []string{"child-side", "child-default", "parent"}, calls)
}

func TestHookList(t *testing.T) {
	list := &hookList[string]{}
	removeA := list.add("a")
	list.add("b")
	removeC := list.add("c")

	assert.Equal(t, []string{"a", "b", "c"}, list.snapshot())

	removeA()
	removeA()
	removeC()
	assert.Equal(t, []string{"b"}, list.snapshot())
	assert.Equal(t, 1, list.len())

	var nilList *hookList[string]
	assert.Nil(t, nilList.snapshot())
	assert.Equal(t, 0, nilList.len())
}
