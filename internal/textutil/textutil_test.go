package textutil_test

import (
	"testing"

	"weeklyschedule/internal/textutil"
)

func TestStripHTML(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain", in: "  A show about things.  ", want: "A show about things."},
		{name: "paragraph", in: "<p><b>Severance</b> follows Mark.</p>", want: "Severance follows Mark."},
		{name: "entities", in: "<p>Tom &amp; Jerry&#39;s &quot;day&quot;</p>", want: `Tom & Jerry's "day"`},
		{name: "blocks", in: "<p>First.</p><p>Second.</p>", want: "First. Second."},
		{name: "line break", in: "One<br>Two", want: "One Two"},
		{name: "whitespace only markup", in: "<p> </p>", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := textutil.StripHTML(tc.in); got != tc.want {
				t.Fatalf("StripHTML(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFoldHelpers(t *testing.T) {
	if !textutil.EqualFold(" Sports ", "SPORTS") {
		t.Fatal("expected case-insensitive equality")
	}
	if !textutil.ContainsFold("Official YouTube Channel", "youtube") {
		t.Fatal("expected substring match after folding")
	}
	if textutil.ContainsFold("Netflix", "") {
		t.Fatal("expected empty substring not to match")
	}
	set := textutil.FoldSet([]string{"Quiz", " ", "GAME SHOW"})
	if len(set) != 2 {
		t.Fatalf("expected two folded entries, got %v", set)
	}
	if _, ok := set["game show"]; !ok {
		t.Fatalf("expected folded game show entry, got %v", set)
	}
}
