package models

import (
	"math"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageRequest_Defaults(t *testing.T) {
	req := ParsePageRequest(url.Values{}, PostPageOptions)

	assert.Equal(t, 1, req.Page)
	assert.Equal(t, 20, req.Size)
	assert.Equal(t, "created_at", req.Sort)
	assert.Equal(t, SortDesc, req.Order)
	assert.Empty(t, req.Query)
	assert.Equal(t, 0, req.Offset())
}

func TestParsePageRequest_Values(t *testing.T) {
	tests := []struct {
		name  string
		query string
		check func(t *testing.T, req PageRequest)
	}{
		{"page and size", "page=3&size=10", func(t *testing.T, req PageRequest) {
			assert.Equal(t, 3, req.Page)
			assert.Equal(t, 10, req.Size)
			assert.Equal(t, 20, req.Offset())
		}},
		{"size clamped to max", "size=5000", func(t *testing.T, req PageRequest) {
			assert.Equal(t, 100, req.Size)
		}},
		{"negative page falls back", "page=-2", func(t *testing.T, req PageRequest) {
			assert.Equal(t, 1, req.Page)
		}},
		{"huge page clamped", "page=9223372036854775807&size=100", func(t *testing.T, req PageRequest) {
			assert.Equal(t, math.MaxInt32/100, req.Page)
			assert.Positive(t, req.Offset())
			assert.LessOrEqual(t, req.Offset(), math.MaxInt32)
		}},
		{"garbage page falls back", "page=abc&size=zz", func(t *testing.T, req PageRequest) {
			assert.Equal(t, 1, req.Page)
			assert.Equal(t, 20, req.Size)
		}},
		{"sort outside whitelist ignored", "sort=password_hash%3BDROP", func(t *testing.T, req PageRequest) {
			assert.Equal(t, "created_at", req.Sort)
		}},
		{"whitelisted sort", "sort=title&order=ASC", func(t *testing.T, req PageRequest) {
			assert.Equal(t, "title", req.Sort)
			assert.Equal(t, SortAsc, req.Order)
		}},
		{"bad order ignored", "order=sideways", func(t *testing.T, req PageRequest) {
			assert.Equal(t, SortDesc, req.Order)
		}},
		{"query trimmed", "q=%20%20hello%20", func(t *testing.T, req PageRequest) {
			assert.Equal(t, "hello", req.Query)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			tt.check(t, ParsePageRequest(q, PostPageOptions))
		})
	}
}

func TestParsePageRequest_LongQueryTruncated(t *testing.T) {
	q := url.Values{ParamQuery: {strings.Repeat("ğ", 150)}}
	req := ParsePageRequest(q, PostPageOptions)
	assert.Equal(t, 100, len([]rune(req.Query)))
}

func TestPageRequest_ValuesOmitDefaults(t *testing.T) {
	req := ParsePageRequest(url.Values{}, PostPageOptions)
	assert.Empty(t, req.Values())

	q, _ := url.ParseQuery("page=2&size=50&sort=title&order=asc&q=go")
	req = ParsePageRequest(q, PostPageOptions)
	v := req.Values()
	assert.Equal(t, "2", v.Get(ParamPage))
	assert.Equal(t, "50", v.Get(ParamSize))
	assert.Equal(t, "title", v.Get(ParamSort))
	assert.Equal(t, "asc", v.Get(ParamOrder))
	assert.Equal(t, "go", v.Get(ParamQuery))
}

func TestPageRequest_Links(t *testing.T) {
	q, _ := url.ParseQuery("page=4&q=go")
	req := ParsePageRequest(q, PostPageOptions)

	t.Run("page link keeps filters", func(t *testing.T) {
		assert.Equal(t, "?page=5&q=go", req.PageLink(5))
		assert.Equal(t, "?q=go", req.PageLink(1))
	})

	t.Run("with resets page", func(t *testing.T) {
		assert.Equal(t, "?q=rust", req.With(ParamQuery, "rust"))
		assert.Equal(t, "?", req.With(ParamQuery, ""))
	})

	t.Run("sort link on new field uses default order", func(t *testing.T) {
		assert.Equal(t, "?q=go&sort=title", req.SortLink("title"))
	})

	t.Run("sort link on current field flips order", func(t *testing.T) {
		assert.Equal(t, "?order=asc&q=go", req.SortLink("created_at"))

		q, _ := url.ParseQuery("sort=title&order=asc")
		asc := ParsePageRequest(q, PostPageOptions)
		assert.Equal(t, "?sort=title", asc.SortLink("title"))
		assert.True(t, asc.IsSortedBy("title"))
		assert.False(t, asc.IsSortedBy("created_at"))
	})
}

func TestPageOptions_NormalizedRepairsBrokenOptions(t *testing.T) {
	req := ParsePageRequest(url.Values{}, PageOptions{DefaultSize: 500, MaxSize: 50, DefaultSort: "nope", SortFields: []string{"name"}})
	assert.Equal(t, 50, req.Size)
	assert.Equal(t, "name", req.Sort)
	assert.Equal(t, SortDesc, req.Order)
}

func TestNewPage(t *testing.T) {
	req := PageRequest{Page: 2, Size: 10}

	page := NewPage[int](nil, req, 25)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasPrev())
	assert.True(t, page.HasNext())
	assert.Equal(t, 1, page.PrevPage())
	assert.Equal(t, 3, page.NextPage())

	empty := NewPage([]int{}, PageRequest{Page: 1, Size: 10}, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext())
	assert.False(t, empty.HasPrev())
	assert.Equal(t, 1, empty.NextPage())
	assert.Nil(t, empty.Window(5))
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		current, total, width int
		want                  []int
	}{
		{5, 10, 5, []int{3, 4, 5, 6, 7}},
		{1, 10, 5, []int{1, 2, 3, 4, 5}},
		{10, 10, 5, []int{6, 7, 8, 9, 10}},
		{2, 3, 5, []int{1, 2, 3}},
		{99, 4, 3, []int{2, 3, 4}},
		{1, 1, 0, []int{1}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PageWindow(tt.current, tt.total, tt.width))
	}
}
