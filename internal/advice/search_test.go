package advice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultFilter(t *testing.T) {
	f := DefaultFilter()

	assert.True(t, f.Title)
	assert.True(t, f.Content)
	assert.False(t, f.AnonymousOnly)
	assert.Empty(t, f.Query)
	assert.True(t, f.IsEmpty())
}

func TestFilterIsEmpty(t *testing.T) {
	f := DefaultFilter()
	f.Query = "   "
	assert.True(t, f.IsEmpty(), "whitespace-only query counts as empty")

	f.Query = "boot"
	assert.False(t, f.IsEmpty())

	f = DefaultFilter()
	f.AnonymousOnly = true
	assert.False(t, f.IsEmpty(), "anonymous-only is a real filter even with no text")
}

func TestFilterValues_TextSearch(t *testing.T) {
	f := DefaultFilter()
	f.Query = " boot loop "

	v := f.Values()
	assert.Equal(t, "boot loop", v.Get("q"))
	assert.Equal(t, "title,content", v.Get("fields"))
	assert.Empty(t, v.Get("key"))
}

func TestFilterValues_SingleFacet(t *testing.T) {
	f := Filter{Query: "bsod", Title: true}

	v := f.Values()
	assert.Equal(t, "bsod", v.Get("q"))
	assert.Equal(t, "title", v.Get("fields"))
}

func TestFilterValues_AnonymousOnlyWins(t *testing.T) {
	// Even with a query typed and facets checked, anonymous-only produces
	// only the key/value pair.
	f := Filter{Query: "boot", Title: true, Content: true, AnonymousOnly: true}

	v := f.Values()
	assert.Equal(t, "anonymous", v.Get("key"))
	assert.Equal(t, "true", v.Get("value"))
	assert.Empty(t, v.Get("q"))
	assert.Empty(t, v.Get("fields"))
}

func TestFilterLabel(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   string
	}{
		{"both facets", Filter{Query: "boot", Title: true, Content: true}, "title+content: boot"},
		{"title only", Filter{Query: "boot", Title: true}, "title: boot"},
		{"content only", Filter{Query: "boot", Content: true}, "content: boot"},
		{"no facets", Filter{Query: "boot"}, "boot"},
		{"anonymous only", Filter{AnonymousOnly: true}, "anonymous: true"},
		{"anonymous beats text", Filter{Query: "boot", Title: true, AnonymousOnly: true}, "anonymous: true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Label())
		})
	}
}

func TestFilterActiveTerms(t *testing.T) {
	f := DefaultFilter()
	assert.Nil(t, f.ActiveTerms())

	f.Query = "boot"
	assert.Equal(t, []string{"title+content: boot"}, f.ActiveTerms())
}

func TestFilterReset(t *testing.T) {
	f := Filter{Query: "boot", AnonymousOnly: true}
	f.Reset()

	assert.Equal(t, DefaultFilter(), f)
}
