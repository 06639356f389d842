package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageWindow(t *testing.T) {
	cases := []struct {
		requested            string
		total                int64
		page, pages, offset int
	}{
		{"", 0, 1, 1, 0},
		{"1", 12, 1, 3, 0},
		{"2", 12, 2, 3, 5},
		{"3", 12, 3, 3, 10},
		{"9", 12, 3, 3, 10},
		{"0", 12, 1, 3, 0},
		{"abc", 12, 1, 3, 0},
		{"2", 10, 2, 2, 5},
	}
	for _, tc := range cases {
		page, pages, offset := PageWindow(tc.requested, tc.total, 5)
		assert.Equal(t, tc.page, page, "page for %q/%d", tc.requested, tc.total)
		assert.Equal(t, tc.pages, pages, "pages for %q/%d", tc.requested, tc.total)
		assert.Equal(t, tc.offset, offset, "offset for %q/%d", tc.requested, tc.total)
	}
}

func TestNewPage(t *testing.T) {
	p := NewPage[int](nil, 2, 3, 5, 12)
	assert.NotNil(t, p.Items)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrevious)

	last := NewPage([]int{1, 2}, 3, 3, 5, 12)
	assert.False(t, last.HasNext)
}
