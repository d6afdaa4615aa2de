package storage

import (
	"math"
	"testing"

	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name string
		page models.Page
		want []int
	}{
		{name: "first page", page: models.Page{Page: 1, PageSize: 3}, want: []int{1, 2, 3}},
		{name: "last partial page", page: models.Page{Page: 3, PageSize: 3}, want: []int{7}},
		{name: "out of range", page: models.Page{Page: 9, PageSize: 3}, want: []int{}},
		{name: "defaults", page: models.Page{}, want: items},
		{name: "negative page", page: models.Page{Page: -2, PageSize: 2}, want: []int{1, 2}},
		{name: "huge page", page: models.Page{Page: 1 << 62, PageSize: 4}, want: []int{}},
		{name: "max int page", page: models.Page{Page: math.MaxInt, PageSize: models.MaxPageSize}, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Paginate(items, tt.page))
		})
	}
}

func TestPaginateCoversAllItems(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}

	var seen []int
	for p := 1; p <= 5; p++ {
		seen = append(seen, Paginate(items, models.Page{Page: p, PageSize: 5})...)
	}
	assert.Equal(t, items, seen)
}

func TestPageNormalize(t *testing.T) {
	assert.Equal(t, models.Page{Page: 1, PageSize: 10}, models.Page{Page: 0, PageSize: 0}.Normalize())
	assert.Equal(t, models.Page{Page: 2, PageSize: 100}, models.Page{Page: 2, PageSize: 500}.Normalize())
}

func TestPageNormalize_OffsetDoesNotOverflow(t *testing.T) {
	for _, p := range []int{1 << 62, math.MaxInt} {
		page := models.Page{Page: p, PageSize: 500}.Normalize()
		assert.Equal(t, models.MaxPage, page.Page)
		assert.Positive(t, page.Offset())
	}
}
