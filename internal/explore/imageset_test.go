package explore

import (
	"fmt"
	"strings"
	"testing"
)

// namedSet builds a set whose images use their file names as IDs so orders
// read naturally in assertions.
func namedSet(names ...string) *ImageSet {
	s := &ImageSet{newID: sequentialIDs()}
	for _, n := range names {
		s.items = append(s.items, PendingImage{ID: n, File: File{Name: n}})
	}
	return s
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("img-%d", n)
	}
}

func files(names ...string) []File {
	out := make([]File, len(names))
	for i, n := range names {
		out[i] = File{Name: n, ContentType: "image/png", Data: []byte(n)}
	}
	return out
}

func order(s *ImageSet) string {
	names := make([]string, 0, s.Len())
	for _, img := range s.items {
		names = append(names, img.Name)
	}
	return strings.Join(names, ",")
}

func TestAcceptNeverExceedsCapacity(t *testing.T) {
	batches := [][]File{
		files("a"),
		files("b", "c", "d"),
		files("e", "f", "g"),
		nil,
		files("h"),
	}
	s := &ImageSet{newID: sequentialIDs()}
	for i, batch := range batches {
		s.Accept(batch)
		if s.Len() > MaxImages {
			t.Fatalf("after batch %d: len = %d, want <= %d", i, s.Len(), MaxImages)
		}
	}
	if got := order(s); got != "a,b,c,d,e" {
		t.Fatalf("order = %q", got)
	}
}

func TestAcceptPreservesOrderAndDropsExcess(t *testing.T) {
	s := namedSet("x0", "x1", "x2")
	admitted := s.Accept(files("a", "b", "c"))
	if len(admitted) != 2 {
		t.Fatalf("admitted %d images, want 2", len(admitted))
	}
	if got := order(s); got != "x0,x1,x2,a,b" {
		t.Fatalf("order = %q", got)
	}

	s = namedSet("x0", "x1")
	s.Accept(files("a", "b", "c"))
	if got := order(s); got != "x0,x1,a,b,c" {
		t.Fatalf("order = %q", got)
	}
	if s.Accept(files("d")) != nil {
		t.Fatal("full set should admit nothing")
	}
}

func TestAcceptAssignsDistinctIDs(t *testing.T) {
	s := NewImageSet()
	s.Accept(files("a", "b", "c"))
	seen := map[string]bool{}
	for _, id := range s.IDs() {
		if id == "" || seen[id] {
			t.Fatalf("duplicate or empty id %q in %v", id, s.IDs())
		}
		seen[id] = true
	}
}

func TestRemoveAt(t *testing.T) {
	cases := []struct {
		name    string
		index   int
		want    string
		removed bool
	}{
		{name: "middle", index: 1, want: "A,C", removed: true},
		{name: "first", index: 0, want: "B,C", removed: true},
		{name: "last", index: 2, want: "A,B", removed: true},
		{name: "out of range", index: 5, want: "A,B,C", removed: false},
		{name: "negative", index: -1, want: "A,B,C", removed: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := namedSet("A", "B", "C")
			_, ok := s.RemoveAt(tc.index)
			if ok != tc.removed {
				t.Fatalf("RemoveAt(%d) ok = %v, want %v", tc.index, ok, tc.removed)
			}
			if got := order(s); got != tc.want {
				t.Fatalf("order = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMove(t *testing.T) {
	cases := []struct {
		from, to int
		want     string
		changed  bool
	}{
		{from: 0, to: 2, want: "B,C,A,D", changed: true},
		{from: 3, to: 0, want: "D,A,B,C", changed: true},
		{from: 1, to: 3, want: "A,C,D,B", changed: true},
		{from: 2, to: 1, want: "A,C,B,D", changed: true},
		{from: 2, to: 2, want: "A,B,C,D", changed: false},
		{from: 0, to: 4, want: "A,B,C,D", changed: false},
		{from: -1, to: 0, want: "A,B,C,D", changed: false},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d->%d", tc.from, tc.to), func(t *testing.T) {
			s := namedSet("A", "B", "C", "D")
			if changed := s.Move(tc.from, tc.to); changed != tc.changed {
				t.Fatalf("Move changed = %v, want %v", changed, tc.changed)
			}
			if got := order(s); got != tc.want {
				t.Fatalf("order = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestImagesReturnsCopy(t *testing.T) {
	s := namedSet("A", "B")
	imgs := s.Images()
	imgs[0].Name = "changed"
	if got := order(s); got != "A,B" {
		t.Fatalf("mutating the copy changed the set: %q", got)
	}
}
