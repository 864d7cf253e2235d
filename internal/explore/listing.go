package explore

import (
	"fmt"
	"strings"

	"github.com/aguli-tv/aguli-admin/internal/aguli"
)

// PostsPerPage is the page size of the Explore listing.
const PostsPerPage = 12

// StatusFilter narrows the listing by publication status.
type StatusFilter string

const (
	FilterAll      StatusFilter = "all"
	FilterActive   StatusFilter = "active"
	FilterInactive StatusFilter = "inactive"
)

// ParseStatusFilter accepts all, active or inactive; blank means all.
func ParseStatusFilter(raw string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterInactive:
		return f, nil
	default:
		return "", fmt.Errorf("unknown status filter %q", raw)
	}
}

// Query selects a page of Explore posts.
type Query struct {
	Search string
	Status StatusFilter
	Page   int
}

// Page is one page of filtered posts.
type Page struct {
	Posts      []aguli.ExplorePost `json:"posts"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"total_pages"`
	Total      int                 `json:"total"`
}

// Filter applies a case-insensitive title search and a status filter, then
// returns the requested page. Pages are 1-based; out-of-range pages are
// clamped so the result always names a page that exists.
func Filter(posts []aguli.ExplorePost, q Query) Page {
	needle := strings.ToLower(q.Search)
	matched := make([]aguli.ExplorePost, 0, len(posts))
	for _, p := range posts {
		if needle != "" && !strings.Contains(strings.ToLower(p.Title), needle) {
			continue
		}
		if q.Status != "" && q.Status != FilterAll && p.Status != string(q.Status) {
			continue
		}
		matched = append(matched, p)
	}

	totalPages := (len(matched) + PostsPerPage - 1) / PostsPerPage
	page := q.Page
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	start := min((page-1)*PostsPerPage, len(matched))
	end := min(start+PostsPerPage, len(matched))
	return Page{
		Posts:      matched[start:end],
		Page:       page,
		TotalPages: totalPages,
		Total:      len(matched),
	}
}
