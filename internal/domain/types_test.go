package domain

import "testing"

func TestComment_Depth(t *testing.T) {
	cases := map[string]int{
		"":      -1,
		"1":     0,
		"0.5":   1,
		"0.5.9": 2,
	}
	for path, want := range cases {
		if got := (Comment{Path: path}).Depth(); got != want {
			t.Errorf("Depth(%q) = %d, want %d", path, got, want)
		}
	}
}

func TestParseEnums(t *testing.T) {
	if ParseListingType("Local") != ListingLocal {
		t.Fatal("Local should parse")
	}
	if ParseListingType("bogus") != ListingAll {
		t.Fatal("unknown listing should fall back to All")
	}
	if ParseSortType("TopWeek") != SortTopWeek {
		t.Fatal("TopWeek should parse")
	}
	if ParseSortType("") != SortActive {
		t.Fatal("empty sort should fall back to Active")
	}
	if ParseCommentSortType("New") != CommentSortNew {
		t.Fatal("New should parse")
	}
	if ParseCommentSortType("x") != CommentSortHot {
		t.Fatal("unknown comment sort should fall back to Hot")
	}
}
