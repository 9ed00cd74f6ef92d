package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest_Defaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	p := FromRequest(req)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 0, p.Offset)
}

func TestFromRequest_CustomValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/items?page=3&per_page=50", nil)
	p := FromRequest(req)

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 50, p.PerPage)
	assert.Equal(t, 100, p.Offset) // (3-1) * 50
}

func TestFromRequest_InvalidValuesFallBack(t *testing.T) {
	cases := []string{
		"/items?page=-1",
		"/items?page=0",
		"/items?page=abc",
		"/items?per_page=0",
		"/items?per_page=200", // above the cap
	}
	for _, path := range cases {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		p := FromRequest(req)
		assert.Equal(t, 1, p.Page, path)
		assert.Equal(t, 20, p.PerPage, path)
	}
}

func TestFromRequest_PerPage_Exactly100(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/items?per_page=100", nil)
	p := FromRequest(req)
	assert.Equal(t, 100, p.PerPage)
}

func TestNewResult_SinglePage(t *testing.T) {
	result := NewResult([]string{"a", "b", "c"}, 3, Params{Page: 1, PerPage: 10})

	assert.Equal(t, 3, result.TotalCount)
	assert.Equal(t, 1, result.TotalPages)
	assert.False(t, result.HasNext)
	assert.False(t, result.HasPrev)
}

func TestNewResult_MiddlePage(t *testing.T) {
	result := NewResult([]string{"a", "b"}, 10, Params{Page: 2, PerPage: 2})

	assert.Equal(t, 5, result.TotalPages)
	assert.True(t, result.HasNext)
	assert.True(t, result.HasPrev)
}

func TestNewResult_LastPageRoundsUp(t *testing.T) {
	result := NewResult([]string{"a"}, 11, Params{Page: 3, PerPage: 5})

	assert.Equal(t, 3, result.TotalPages) // ceil(11/5)
	assert.False(t, result.HasNext)
	assert.True(t, result.HasPrev)
}

func TestNewResult_Empty(t *testing.T) {
	result := NewResult([]string{}, 0, Params{Page: 1, PerPage: 20})

	assert.Equal(t, 0, result.TotalPages)
	assert.False(t, result.HasNext)
	assert.False(t, result.HasPrev)
}
