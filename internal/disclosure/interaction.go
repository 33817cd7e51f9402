package disclosure

import (
	"fmt"
	"sync"
)

// Composer is the inline editor open under a comment.
type Composer int

const (
	Idle Composer = iota
	Replying
	Editing
)

func (c Composer) String() string {
	switch c {
	case Replying:
		return "reply"
	case Editing:
		return "edit"
	default:
		return "idle"
	}
}

func (c Composer) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Composer) UnmarshalText(b []byte) error {
	switch string(b) {
	case "idle", "":
		*c = Idle
	case "reply":
		*c = Replying
	case "edit":
		*c = Editing
	default:
		return fmt.Errorf("unknown composer %q", b)
	}
	return nil
}

// Interaction is the per-comment control state. Reply and edit are mutually
// exclusive; the vote menu is independent of both.
type Interaction struct {
	Composer     Composer `json:"composer"`
	VoteMenuOpen bool     `json:"vote_menu_open"`
}

// Interactions holds the control state of every comment a reader has
// touched. The zero value is ready to use.
type Interactions struct {
	mu sync.Mutex
	m  map[int64]Interaction
}

func (t *Interactions) update(id int64, fn func(*Interaction)) Interaction {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.m == nil {
		t.m = make(map[int64]Interaction)
	}
	st := t.m[id]
	fn(&st)
	if st == (Interaction{}) {
		delete(t.m, id)
	} else {
		t.m[id] = st
	}
	return st
}

func toggleComposer(st *Interaction, c Composer) {
	if st.Composer == c {
		st.Composer = Idle
		return
	}
	st.Composer = c
}

// ToggleReply opens the reply composer, closing edit, or closes it.
func (t *Interactions) ToggleReply(id int64) Interaction {
	return t.update(id, func(st *Interaction) { toggleComposer(st, Replying) })
}

// ToggleEdit opens the edit composer, closing reply, or closes it.
func (t *Interactions) ToggleEdit(id int64) Interaction {
	return t.update(id, func(st *Interaction) { toggleComposer(st, Editing) })
}

// Open sets the composer for id outright.
func (t *Interactions) Open(id int64, c Composer) Interaction {
	return t.update(id, func(st *Interaction) { st.Composer = c })
}

func (t *Interactions) CloseComposer(id int64) Interaction {
	return t.update(id, func(st *Interaction) { st.Composer = Idle })
}

func (t *Interactions) ToggleVoteMenu(id int64) Interaction {
	return t.update(id, func(st *Interaction) { st.VoteMenuOpen = !st.VoteMenuOpen })
}

func (t *Interactions) CloseVoteMenu(id int64) Interaction {
	return t.update(id, func(st *Interaction) { st.VoteMenuOpen = false })
}

func (t *Interactions) State(id int64) Interaction {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.m[id]
}

// Reset clears every comment's state, as when the reader leaves a thread.
func (t *Interactions) Reset() {
	t.mu.Lock()
	t.m = nil
	t.mu.Unlock()
}
