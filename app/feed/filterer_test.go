package feed

import (
	"testing"

	"github.com/lysyi3m/foaf-comb/app/linkeddata"
)

func body(s string) *string {
	return &s
}

func testItems() []linkeddata.FeedItem {
	return []linkeddata.FeedItem{
		{Source: "https://blog.example/feed", Link: "https://blog.example/go", Title: "Notes on Go", Body: body("Generics and errors")},
		{Source: "https://blog.example/feed", Link: "https://blog.example/cats", Title: "Cat pictures"},
		{Source: "https://photos.example/rss", Link: "https://photos.example/1", Title: "Sunset", Body: body("Golden hour")},
	}
}

func links(items []linkeddata.FeedItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Link)
	}
	return out
}

func TestFiltererRun(t *testing.T) {
	tests := []struct {
		name    string
		filters []Filter
		want    []string
	}{
		{
			name: "no filters",
			want: []string{"https://blog.example/go", "https://blog.example/cats", "https://photos.example/1"},
		},
		{
			name:    "title include",
			filters: []Filter{{Field: "title", Includes: []string{"go"}}},
			want:    []string{"https://blog.example/go"},
		},
		{
			name:    "title exclude is case insensitive",
			filters: []Filter{{Field: "title", Excludes: []string{"CAT"}}},
			want:    []string{"https://blog.example/go", "https://photos.example/1"},
		},
		{
			name:    "source include",
			filters: []Filter{{Field: "source", Includes: []string{"photos.example"}}},
			want:    []string{"https://photos.example/1"},
		},
		{
			name:    "body include drops items without body",
			filters: []Filter{{Field: "body", Includes: []string{"o"}}},
			want:    []string{"https://blog.example/go", "https://photos.example/1"},
		},
		{
			name: "every filter must pass",
			filters: []Filter{
				{Field: "source", Includes: []string{"blog.example"}},
				{Field: "link", Excludes: []string{"/go"}},
			},
			want: []string{"https://blog.example/cats"},
		},
		{
			name:    "unknown field matches nothing",
			filters: []Filter{{Field: "authors", Includes: []string{"anyone"}}},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := links(NewFilterer().Run(testItems(), tt.filters))
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Expected %v, got %v", tt.want, got)
					break
				}
			}
		})
	}
}

func TestFiltererPreservesItems(t *testing.T) {
	items := testItems()
	result := NewFilterer().Run(items, []Filter{{Field: "title", Excludes: []string{"sunset"}}})

	if len(result) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(result))
	}
	if result[0].Body == nil || *result[0].Body != "Generics and errors" {
		t.Error("Expected item body to be preserved")
	}
	if len(items) != 3 {
		t.Error("Expected input slice to be untouched")
	}
}
