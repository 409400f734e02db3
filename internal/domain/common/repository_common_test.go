package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	all := []int{1, 2, 3, 4, 5}

	t.Run("first page", func(t *testing.T) {
		r := Paginate(all, Page{Number: 1, PerPage: 2})
		assert.Equal(t, []int{1, 2}, r.Items)
		assert.Equal(t, 5, r.TotalCount)
		assert.Equal(t, 3, r.TotalPages)
	})

	t.Run("last partial page", func(t *testing.T) {
		r := Paginate(all, Page{Number: 3, PerPage: 2})
		assert.Equal(t, []int{5}, r.Items)
	})

	t.Run("past the end", func(t *testing.T) {
		r := Paginate(all, Page{Number: 9, PerPage: 2})
		assert.Empty(t, r.Items)
		assert.Equal(t, 9, r.Page)
	})

	t.Run("defaults", func(t *testing.T) {
		r := Paginate(all, Page{})
		assert.Equal(t, all, r.Items)
		assert.Equal(t, 1, r.Page)
		assert.Equal(t, DefaultPerPage, r.PerPage)
	})

	t.Run("empty", func(t *testing.T) {
		r := Paginate([]int{}, Page{Number: 1})
		assert.Empty(t, r.Items)
		assert.Zero(t, r.TotalPages)
	})
}
