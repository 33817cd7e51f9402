package forest

import (
	"strconv"
	"strings"

	"github.com/example/forum-client/internal/domain"
)

// VirtualRoot is the leading path segment the forum uses for the implicit
// root every top-level comment hangs from.
const VirtualRoot int64 = 0

// parsePath splits a materialized path into ids. ok is false for empty
// paths and for empty or non-integer segments.
func parsePath(path string) (segs []int64, ok bool) {
	if path == "" {
		return nil, false
	}
	parts := strings.Split(path, ".")
	segs = make([]int64, len(parts))
	for i, p := range parts {
		if p == "" {
			return nil, false
		}
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, false
		}
		segs[i] = n
	}
	return segs, true
}

// entry is a comment with its path parsed once.
type entry struct {
	comment domain.Comment
	segs    []int64
}

func parseEntries(comments []domain.Comment) []entry {
	out := make([]entry, 0, len(comments))
	for _, c := range comments {
		segs, ok := parsePath(c.Path)
		if !ok {
			continue
		}
		out = append(out, entry{comment: c, segs: segs})
	}
	return out
}

func commentsOf(entries []entry) []domain.Comment {
	if len(entries) == 0 {
		return nil
	}
	out := make([]domain.Comment, len(entries))
	for i, e := range entries {
		out[i] = e.comment
	}
	return out
}

// DetectRootDepth returns 1 when the list uses the forum's virtual root
// segment ("0.12.34") and 0 for bare paths ("12.34").
func DetectRootDepth(comments []domain.Comment) int {
	for _, c := range comments {
		segs, ok := parsePath(c.Path)
		if !ok {
			continue
		}
		if len(segs) > 1 && segs[0] == VirtualRoot {
			return 1
		}
	}
	return 0
}
