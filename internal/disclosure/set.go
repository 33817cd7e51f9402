// Package disclosure tracks which comment branches a reader has folded and
// what each comment's inline controls are doing.
package disclosure

import "encoding/json"

// Set is an insertion-ordered set of collapsed comment ids for one post.
// It is not safe for concurrent use; the owning session serializes access.
type Set struct {
	ids   []int64
	index map[int64]struct{}
}

func NewSet(ids ...int64) *Set {
	s := &Set{}
	s.Replace(ids)
	return s
}

// Toggle flips id and reports whether it is now collapsed.
func (s *Set) Toggle(id int64) bool {
	if s.index == nil {
		s.index = make(map[int64]struct{})
	}
	if _, ok := s.index[id]; ok {
		delete(s.index, id)
		for i, v := range s.ids {
			if v == id {
				s.ids = append(s.ids[:i], s.ids[i+1:]...)
				break
			}
		}
		return false
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

func (s *Set) Contains(id int64) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[id]
	return ok
}

// IDs returns a copy of the collapsed ids in the order they were folded.
func (s *Set) IDs() []int64 {
	if s == nil {
		return []int64{}
	}
	return append([]int64{}, s.ids...)
}

// Replace sets the collapsed ids wholesale, dropping duplicates.
func (s *Set) Replace(ids []int64) {
	s.ids = make([]int64, 0, len(ids))
	s.index = make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := s.index[id]; dup {
			continue
		}
		s.index[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

func (s *Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

func (s *Set) UnmarshalJSON(b []byte) error {
	var ids []int64
	if err := json.Unmarshal(b, &ids); err != nil {
		return err
	}
	s.Replace(ids)
	return nil
}
