package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// SortMode selects the feed ordering. The empty value leaves ordering to
// the server.
type SortMode string

const (
	SortDefault SortMode = ""
	SortName    SortMode = "name"
	SortNewest  SortMode = "newest"
	SortOldest  SortMode = "oldest"
)

// ValidSort reports whether s is a known sort mode.
func ValidSort(s SortMode) bool {
	switch s {
	case SortDefault, SortName, SortNewest, SortOldest:
		return true
	}
	return false
}

// Criteria is the full set of feed filters plus the current page.
// Changing any filter field resets Page to 1; Page advances only through
// pagination.
type Criteria struct {
	Search string
	Genre  string
	Book   string
	Sort   SortMode
	Page   int
}

// filterFields fixes the canonical serialization order.
var filterFields = []string{"search", "genre", "book", "sort"}

// Query returns the canonical query-string form of the filters: fields in
// fixed order, empty fields omitted, page excluded. Exactly one string maps
// to each filter set, so the result is shareable and comparable.
func (c Criteria) Query() string {
	var parts []string
	for _, f := range filterFields {
		v := c.field(f)
		if v != "" {
			parts = append(parts, f+"="+url.QueryEscape(v))
		}
	}
	return strings.Join(parts, "&")
}

func (c Criteria) field(name string) string {
	switch name {
	case "search":
		return c.Search
	case "genre":
		return c.Genre
	case "book":
		return c.Book
	case "sort":
		return string(c.Sort)
	}
	return ""
}

// ParseQuery is the inverse of Query. Unknown keys are rejected so a
// mistyped share link fails loudly instead of silently filtering nothing.
func ParseQuery(q string) (Criteria, error) {
	var c Criteria
	c.Page = 1
	if strings.TrimSpace(q) == "" {
		return c, nil
	}
	values, err := url.ParseQuery(q)
	if err != nil {
		return c, fmt.Errorf("parse filters: %w", err)
	}
	for key := range values {
		v := values.Get(key)
		switch key {
		case "search":
			c.Search = v
		case "genre":
			c.Genre = v
		case "book":
			c.Book = v
		case "sort":
			if !ValidSort(SortMode(v)) {
				return c, fmt.Errorf("unknown sort mode %q", v)
			}
			c.Sort = SortMode(v)
		default:
			return c, fmt.Errorf("unknown filter %q", key)
		}
	}
	return c, nil
}

// SameFilters reports whether two criteria select the same content,
// ignoring the page. A false result is what forces a store clear and a
// page-1 reset.
func (c Criteria) SameFilters(o Criteria) bool {
	return c.Search == o.Search && c.Genre == o.Genre && c.Book == o.Book && c.Sort == o.Sort
}

// Active reports whether any filter is set.
func (c Criteria) Active() bool {
	return c.Search != "" || c.Genre != "" || c.Book != "" || c.Sort != SortDefault
}
