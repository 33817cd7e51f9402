package forest

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/example/forum-client/internal/domain"
)

type ids map[int64]bool

func (s ids) Contains(id int64) bool { return s[id] }

func comments(paths ...string) []domain.Comment {
	out := make([]domain.Comment, len(paths))
	for i, p := range paths {
		segs := strings.Split(p, ".")
		var id int64
		fmt.Sscan(segs[len(segs)-1], &id)
		out[i] = domain.Comment{ID: id, Path: p}
	}
	return out
}

func idsOf(cs []domain.Comment) []int64 {
	out := make([]int64, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func TestPartitionSplitsChildrenAndRemainder(t *testing.T) {
	in := comments("1", "1.2", "1.2.3", "4")
	children, rest := Partition(1, 0, in)
	if got := idsOf(children); !slices.Equal(got, []int64{2}) {
		t.Fatalf("children: %v", got)
	}
	if got := idsOf(rest); !slices.Equal(got, []int64{3}) {
		t.Fatalf("remainder: %v", got)
	}
}

func TestPartitionDisjointAndOrdered(t *testing.T) {
	in := comments("0.1", "0.1.2", "0.1.5", "0.1.2.3", "0.1.5.6.7", "0.4", "0.4.8", "0.1.2.9")
	children, rest := Partition(1, 1, in)
	if got := idsOf(children); !slices.Equal(got, []int64{2, 5}) {
		t.Fatalf("children: %v", got)
	}
	if got := idsOf(rest); !slices.Equal(got, []int64{3, 7, 9}) {
		t.Fatalf("remainder: %v", got)
	}
	seen := map[int64]bool{}
	for _, c := range append(children, rest...) {
		if seen[c.ID] {
			t.Fatalf("comment %d in both sets", c.ID)
		}
		seen[c.ID] = true
	}
	for _, c := range in {
		inBranch := strings.HasPrefix(c.Path, "0.1.")
		if inBranch != seen[c.ID] {
			t.Fatalf("comment %s: branch=%v placed=%v", c.Path, inBranch, seen[c.ID])
		}
	}
}

func TestPartitionDropsMalformed(t *testing.T) {
	in := []domain.Comment{
		{ID: 2, Path: "1.2"},
		{ID: 3, Path: "1..3"},
		{ID: 4, Path: "1.x"},
		{ID: 5, Path: ""},
	}
	children, rest := Partition(1, 0, in)
	if len(children) != 1 || children[0].ID != 2 || len(rest) != 0 {
		t.Fatalf("children=%v rest=%v", idsOf(children), idsOf(rest))
	}
}

func TestBuildBarePaths(t *testing.T) {
	f := Build(comments("1", "1.2", "1.2.3", "4"))
	if f.RootDepth != 0 {
		t.Fatalf("root depth: %d", f.RootDepth)
	}
	if len(f.Roots) != 2 {
		t.Fatalf("roots: %d", len(f.Roots))
	}
	one := f.Nodes[f.Roots[0]]
	if one.Comment.ID != 1 || one.ReplyCount() != 2 {
		t.Fatalf("root 1: id=%d replies=%d", one.Comment.ID, one.ReplyCount())
	}
	two, ok := f.Lookup(2)
	if !ok || two.ReplyCount() != 1 || two.Depth != 1 {
		t.Fatalf("node 2: %+v", two)
	}
	four := f.Nodes[f.Roots[1]]
	if four.Comment.ID != 4 || four.ReplyCount() != 0 {
		t.Fatalf("root 4: %+v", four)
	}
}

func TestBuildVirtualRoot(t *testing.T) {
	f := Build(comments("0.10", "0.10.11", "0.12", "0.10.11.13", "0.10.14"))
	if f.RootDepth != 1 {
		t.Fatalf("root depth: %d", f.RootDepth)
	}
	if f.Len() != 5 {
		t.Fatalf("len: %d", f.Len())
	}
	ten, _ := f.Lookup(10)
	var kids []int64
	for _, c := range ten.Children {
		kids = append(kids, f.Nodes[c].Comment.ID)
	}
	if !slices.Equal(kids, []int64{11, 14}) {
		t.Fatalf("children of 10: %v", kids)
	}
	if ten.ReplyCount() != 3 {
		t.Fatalf("reply count: %d", ten.ReplyCount())
	}
}

func TestBuildOrphansAreDropped(t *testing.T) {
	// 99's parent is absent from the list.
	f := Build(comments("0.1", "0.98.99"))
	if f.Len() != 1 {
		t.Fatalf("len: %d", f.Len())
	}
	if _, ok := f.Lookup(99); ok {
		t.Fatal("orphan placed")
	}
}

func TestBuildDeepThreadIsIterative(t *testing.T) {
	const depth = 200
	parts := []string{"0"}
	var in []domain.Comment
	for i := 1; i <= depth; i++ {
		parts = append(parts, fmt.Sprint(i))
		in = append(in, domain.Comment{ID: int64(i), Path: strings.Join(parts, ".")})
	}
	f := Build(in)
	if f.Len() != 200 {
		t.Fatalf("len: %d", f.Len())
	}
	last, _ := f.Lookup(200)
	if last.Depth != 200 {
		t.Fatalf("depth: %d", last.Depth)
	}
	n := 0
	f.Walk(nil, func(int, *Node) bool { n++; return true })
	if n != 200 {
		t.Fatalf("walked %d", n)
	}
}

func TestWalkSkipsCollapsedSubtrees(t *testing.T) {
	f := Build(comments("1", "1.2", "1.2.3", "4"))
	rows := f.Rows(ids{1: true})
	var got []int64
	for _, r := range rows {
		got = append(got, r.Comment.ID)
	}
	if !slices.Equal(got, []int64{1, 4}) {
		t.Fatalf("rows: %v", got)
	}
	if !rows[0].Collapsed || !rows[0].ShowReplies || rows[0].ReplyCount != 2 {
		t.Fatalf("row 1: %+v", rows[0])
	}
	if rows[1].ShowReplies {
		t.Fatal("leaf shows reply badge")
	}
}

func TestRowsLevelsAndOrder(t *testing.T) {
	f := Build(comments("0.1", "0.1.2", "0.1.2.3", "0.1.5", "0.4"))
	rows := f.Rows(nil)
	want := []struct {
		id    int64
		level int
	}{{1, 1}, {2, 2}, {3, 3}, {5, 2}, {4, 1}}
	if len(rows) != len(want) {
		t.Fatalf("rows: %d", len(rows))
	}
	for i, w := range want {
		if rows[i].Comment.ID != w.id || rows[i].Level != w.level {
			t.Fatalf("row %d: id=%d level=%d", i, rows[i].Comment.ID, rows[i].Level)
		}
	}
}

func TestVisibleAgreesWithWalk(t *testing.T) {
	f := Build(comments("0.1", "0.1.2", "0.1.2.3", "0.1.2.3.6", "0.1.5", "0.4", "0.4.7"))
	for _, folded := range []ids{{}, {1: true}, {2: true}, {3: true, 4: true}, {2: true, 1: true}} {
		walked := map[int64]bool{}
		f.Walk(folded, func(_ int, n *Node) bool {
			walked[n.Comment.ID] = true
			return true
		})
		for _, n := range f.Nodes {
			if got := f.Visible(n.Comment.ID, folded); got != walked[n.Comment.ID] {
				t.Fatalf("collapsed=%v id=%d: visible=%v walked=%v", folded, n.Comment.ID, got, walked[n.Comment.ID])
			}
		}
	}
	if f.Visible(404, nil) {
		t.Fatal("unknown id visible")
	}
}

func TestWithRootDepthOverride(t *testing.T) {
	f := Build(comments("5.1", "5.1.2"), WithRootDepth(1))
	if len(f.Roots) != 1 || f.Len() != 2 {
		t.Fatalf("roots=%d len=%d", len(f.Roots), f.Len())
	}
}
