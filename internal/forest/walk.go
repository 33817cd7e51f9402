package forest

import "github.com/example/forum-client/internal/domain"

// Collapsed reports whether a comment's subtree is folded. disclosure.Set
// satisfies it; a nil Collapsed folds nothing.
type Collapsed interface {
	Contains(id int64) bool
}

func isCollapsed(c Collapsed, id int64) bool {
	return c != nil && c.Contains(id)
}

// Walk visits nodes in display order (depth first, siblings in server
// order) and does not descend into collapsed nodes. The collapsed node
// itself is still visited. fn returning false stops the walk.
func (f *Forest) Walk(collapsed Collapsed, fn func(idx int, n *Node) bool) {
	stack := make([]int, 0, len(f.Roots))
	for i := len(f.Roots) - 1; i >= 0; i-- {
		stack = append(stack, f.Roots[i])
	}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &f.Nodes[idx]
		if !fn(idx, n) {
			return
		}
		if isCollapsed(collapsed, n.Comment.ID) {
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}

// Visible reports whether comment id is shown: it exists and none of its
// ancestors is collapsed.
func (f *Forest) Visible(id int64, collapsed Collapsed) bool {
	idx, ok := f.index[id]
	if !ok {
		return false
	}
	for p := f.Nodes[idx].Parent; p >= 0; p = f.Nodes[p].Parent {
		if isCollapsed(collapsed, f.Nodes[p].Comment.ID) {
			return false
		}
	}
	return true
}

// Row is one rendered line of a thread.
type Row struct {
	Comment domain.Comment `json:"comment"`
	// Level is 1 for top-level comments.
	Level      int  `json:"level"`
	Collapsed  bool `json:"collapsed"`
	ReplyCount int  `json:"reply_count"`
	// ShowReplies is set on collapsed rows that hide at least one reply.
	ShowReplies bool `json:"show_replies"`
}

// Rows flattens the visible part of the forest.
func (f *Forest) Rows(collapsed Collapsed) []Row {
	rows := make([]Row, 0, len(f.Nodes))
	f.Walk(collapsed, func(_ int, n *Node) bool {
		folded := isCollapsed(collapsed, n.Comment.ID)
		count := n.ReplyCount()
		rows = append(rows, Row{
			Comment:     n.Comment,
			Level:       n.Depth - f.RootDepth + 1,
			Collapsed:   folded,
			ReplyCount:  count,
			ShowReplies: folded && count > 0,
		})
		return true
	})
	return rows
}
