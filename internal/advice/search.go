package advice

import (
	"net/url"
	"strings"
)

// Filter is the search state for the advice list: a free-text query, two
// independent field facets, and an anonymous-only facet that is mutually
// exclusive with the text search. Exclusivity is enforced here, in the
// request building, not just by disabling checkboxes in the UI.
type Filter struct {
	Query         string
	Title         bool
	Content       bool
	AnonymousOnly bool
}

// DefaultFilter returns the reset state: both text facets enabled,
// anonymous-only off, empty query.
func DefaultFilter() Filter {
	return Filter{Title: true, Content: true}
}

// Reset restores the default state. The caller triggers a full reload.
func (f *Filter) Reset() {
	*f = DefaultFilter()
}

// IsEmpty reports whether submitting this filter is equivalent to a full
// reload: no query text and anonymous-only unset.
func (f Filter) IsEmpty() bool {
	return !f.AnonymousOnly && strings.TrimSpace(f.Query) == ""
}

// fields returns the enabled text facets in display order.
func (f Filter) fields() []string {
	var out []string
	if f.Title {
		out = append(out, "title")
	}
	if f.Content {
		out = append(out, "content")
	}
	return out
}

// Values builds the search query string. When AnonymousOnly is set the
// key/value form wins and the text facets are ignored entirely, whatever the
// UI state was.
func (f Filter) Values() url.Values {
	v := url.Values{}
	if f.AnonymousOnly {
		v.Set("key", "anonymous")
		v.Set("value", "true")
		return v
	}
	v.Set("q", strings.TrimSpace(f.Query))
	v.Set("fields", strings.Join(f.fields(), ","))
	return v
}

// Label is the human-readable chip for the active filter, e.g.
// "title+content: boot" or "anonymous: true". A query with no facet enabled
// falls back to the bare query text.
func (f Filter) Label() string {
	if f.AnonymousOnly {
		return "anonymous: true"
	}

	q := strings.TrimSpace(f.Query)
	facets := strings.Join(f.fields(), "+")
	if facets == "" {
		return q
	}
	return facets + ": " + q
}

// ActiveTerms returns the chips to display after a search was applied.
// An empty filter has no chips.
func (f Filter) ActiveTerms() []string {
	if f.IsEmpty() {
		return nil
	}
	return []string{f.Label()}
}
