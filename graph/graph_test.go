package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTree() *Node {
	root := NewNode("root")
	root.AddField("root", "true")

	left := NewNode("mid")
	left.AddField("lefty", "true")

	right := NewNode("mid")
	child := NewNode("the child")
	child.AddField("young", "true")
	child.AddField("age", "3")
	right.AddChild("child", child)

	root.AddChild("left", left)
	root.AddChild("right", right)
	return root
}

func TestShow(t *testing.T) {
	g, err := Show(testTree())
	require.NoError(t, err)

	out := g.String()
	assert.Contains(t, out, "root_0")
	assert.Contains(t, out, "mid_0")
	assert.Contains(t, out, "mid_1")
	assert.Contains(t, out, "the_child_0")
	assert.Contains(t, out, "rankdir=LR")
}

func TestShowEscapesLabels(t *testing.T) {
	n := NewNode("Filter")
	n.AddField("predicate", "(a > 1)")

	g, err := Show(n)
	require.NoError(t, err)
	assert.Contains(t, g.String(), `(a \> 1)`)
}

func TestFormat(t *testing.T) {
	want := strings.Join([]string{
		"root root=true",
		"  left: mid lefty=true",
		"  right: mid",
		"    child: the child young=true, age=3",
		"",
	}, "\n")

	assert.Equal(t, want, Format(testTree()))
}
