package forest

import "github.com/example/forum-client/internal/domain"

type placement int

const (
	dropped placement = iota
	child
	descendant
)

// classify places one parsed path relative to the node nodeID sitting at
// depth: a direct child has exactly depth+2 segments, a deeper descendant
// more, and both must carry nodeID at index depth.
func classify(segs []int64, nodeID int64, depth int) placement {
	if depth < 0 || len(segs) < depth+2 || segs[depth] != nodeID {
		return dropped
	}
	if len(segs) == depth+2 {
		return child
	}
	return descendant
}

// Partition splits candidates into the direct children of nodeID (at
// depth) and the remainder of its branch, preserving input order. Comments
// belonging to other branches are dropped, and so are comments whose path
// is malformed.
func Partition(nodeID int64, depth int, candidates []domain.Comment) (children, remainder []domain.Comment) {
	for _, c := range candidates {
		segs, ok := parsePath(c.Path)
		if !ok {
			continue
		}
		switch classify(segs, nodeID, depth) {
		case child:
			children = append(children, c)
		case descendant:
			remainder = append(remainder, c)
		}
	}
	return children, remainder
}

func partitionEntries(nodeID int64, depth int, pool []entry) (children, remainder []entry) {
	for _, e := range pool {
		switch classify(e.segs, nodeID, depth) {
		case child:
			children = append(children, e)
		case descendant:
			remainder = append(remainder, e)
		}
	}
	return children, remainder
}
