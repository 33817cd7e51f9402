// Package forest rebuilds comment threads from the flat, server-ordered
// lists the forum returns, where each comment's ancestry is encoded in its
// materialized path.
//
// The forest is an arena: nodes live in one slice and refer to each other
// by index, and both building and traversal use explicit stacks so thread
// depth never grows the goroutine stack.
package forest

import "github.com/example/forum-client/internal/domain"

// Node is one comment placed in the forest.
type Node struct {
	Comment  domain.Comment
	Depth    int
	Parent   int // arena index, -1 for roots
	Children []int
	// Remainder is every deeper comment of this branch, in server order,
	// as handed to the children's partition step.
	Remainder []domain.Comment
}

// ReplyCount is the number of comments below n.
func (n *Node) ReplyCount() int {
	return len(n.Children) + len(n.Remainder)
}

type Forest struct {
	Nodes     []Node
	Roots     []int
	RootDepth int
	index     map[int64]int
}

type options struct {
	rootDepth int
	detect    bool
}

type Option func(*options)

// WithRootDepth fixes the depth of top-level comments instead of
// detecting it from the paths.
func WithRootDepth(depth int) Option {
	return func(o *options) {
		o.rootDepth = depth
		o.detect = false
	}
}

// Build partitions comments into a forest. Roots are the comments at the
// root depth, in input order; each node's children are found by
// partitioning its parent's remainder. Malformed paths are skipped.
func Build(comments []domain.Comment, opts ...Option) *Forest {
	o := options{detect: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.detect {
		o.rootDepth = DetectRootDepth(comments)
	}

	entries := parseEntries(comments)
	f := &Forest{
		Nodes:     make([]Node, 0, len(entries)),
		RootDepth: o.rootDepth,
		index:     make(map[int64]int, len(entries)),
	}

	type frame struct {
		node int
		pool []entry
	}
	var stack []frame

	for _, e := range entries {
		if len(e.segs) != o.rootDepth+1 {
			continue
		}
		idx := f.add(e.comment, o.rootDepth, -1)
		f.Roots = append(f.Roots, idx)
	}
	for i := len(f.Roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: f.Roots[i], pool: entries})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &f.Nodes[top.node]
		depth := n.Depth
		children, remainder := partitionEntries(n.Comment.ID, depth, top.pool)
		n.Remainder = commentsOf(remainder)

		first := len(f.Nodes)
		for _, c := range children {
			idx := f.add(c.comment, depth+1, top.node)
			f.Nodes[top.node].Children = append(f.Nodes[top.node].Children, idx)
		}
		for idx := len(f.Nodes) - 1; idx >= first; idx-- {
			stack = append(stack, frame{node: idx, pool: remainder})
		}
	}
	return f
}

func (f *Forest) add(c domain.Comment, depth, parent int) int {
	idx := len(f.Nodes)
	f.Nodes = append(f.Nodes, Node{Comment: c, Depth: depth, Parent: parent})
	if _, dup := f.index[c.ID]; !dup {
		f.index[c.ID] = idx
	}
	return idx
}

// Len is the number of placed comments.
func (f *Forest) Len() int { return len(f.Nodes) }

// Lookup returns the node of comment id.
func (f *Forest) Lookup(id int64) (*Node, bool) {
	idx, ok := f.index[id]
	if !ok {
		return nil, false
	}
	return &f.Nodes[idx], true
}
