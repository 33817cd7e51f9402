package listing

import (
	"encoding/json"
	"fmt"

	"github.com/example/forum-client/internal/apperr"
)

// Page describes one page of a feed: its offset in the feed and the
// forum's cursor token for it. The first page has an empty cursor.
type Page struct {
	Index  int
	Cursor string
}

// MarshalJSON renders the page as a two element array, [index,"cursor"].
func (p Page) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.Index, p.Cursor})
}

func (p *Page) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("page descriptor has %d elements, want 2", len(raw))
	}
	if err := json.Unmarshal(raw[0], &p.Index); err != nil {
		return fmt.Errorf("page index: %w", err)
	}
	if string(raw[1]) == "null" {
		p.Cursor = ""
		return nil
	}
	if err := json.Unmarshal(raw[1], &p.Cursor); err != nil {
		return fmt.Errorf("page cursor: %w", err)
	}
	return nil
}

// Pages is the ordered list of pages a reader has scrolled through. It is
// what the page query parameter carries.
type Pages []Page

// FirstPage is the feed's starting descriptor.
var FirstPage = Page{Index: 0, Cursor: ""}

func (ps Pages) Has(p Page) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}

func (ps Pages) HasIndex(index int) bool {
	for _, q := range ps {
		if q.Index == index {
			return true
		}
	}
	return false
}

// OrFirst returns ps, or just the first page when ps is empty.
func (ps Pages) OrFirst() Pages {
	if len(ps) == 0 {
		return Pages{FirstPage}
	}
	return ps
}

// EncodePages renders ps for the page query parameter.
func EncodePages(ps Pages) string {
	if ps == nil {
		ps = Pages{}
	}
	b, _ := json.Marshal(ps)
	return string(b)
}

// DecodePages parses the page query parameter. An empty parameter is an
// empty list.
func DecodePages(s string) (Pages, error) {
	if s == "" {
		return nil, nil
	}
	var ps Pages
	if err := json.Unmarshal([]byte(s), &ps); err != nil {
		return nil, apperr.New(apperr.Params, "decode pages", err)
	}
	for _, p := range ps {
		if p.Index < 0 {
			return nil, apperr.Paramsf("decode pages", "negative page index %d", p.Index)
		}
	}
	return ps, nil
}
