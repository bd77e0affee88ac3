// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yomira-blog/pkg/pagination"
)

/*
TestParse verifies that malformed input falls back to defaults instead of failing.
*/
func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		page  string
		limit string
		want  pagination.Params
	}{
		{"absent", "", "", pagination.Params{Page: 1, Limit: 3}},
		{"numeric", "4", "10", pagination.Params{Page: 4, Limit: 10}},
		{"non_numeric", "abc", "x", pagination.Params{Page: 1, Limit: 3}},
		{"zero", "0", "0", pagination.Params{Page: 1, Limit: 3}},
		{"negative", "-2", "-5", pagination.Params{Page: 1, Limit: 3}},
		{"padded", " 2 ", " 5", pagination.Params{Page: 2, Limit: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pagination.Parse(tt.page, tt.limit))
		})
	}
}

/*
TestParams_Offset checks skip = (page-1) * limit.
*/
func TestParams_Offset(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 3}.Offset())
	assert.Equal(t, 3, pagination.Params{Page: 2, Limit: 3}.Offset())
	assert.Equal(t, 40, pagination.Params{Page: 5, Limit: 10}.Offset())
}

/*
TestParams_Offset_Saturates keeps a huge page from wrapping into a negative offset.
*/
func TestParams_Offset_Saturates(t *testing.T) {
	params := pagination.Parse("4000000000000000000", "3")

	assert.Equal(t, 4000000000000000000, params.Page)
	assert.Equal(t, math.MaxInt, params.Offset())
	assert.Equal(t, math.MaxInt, pagination.Params{Page: math.MaxInt, Limit: 100}.Offset())
}

/*
TestNewMeta checks the derived page counters.
*/
func TestNewMeta(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		limit int
		total int
		want  pagination.Meta
	}{
		{"first_of_three", 1, 3, 7, pagination.Meta{Page: 1, Limit: 3, Total: 7, TotalPages: 3, HasNext: true, HasPrev: false}},
		{"middle", 2, 3, 7, pagination.Meta{Page: 2, Limit: 3, Total: 7, TotalPages: 3, HasNext: true, HasPrev: true}},
		{"last", 3, 3, 7, pagination.Meta{Page: 3, Limit: 3, Total: 7, TotalPages: 3, HasNext: false, HasPrev: true}},
		{"exact_multiple", 2, 5, 10, pagination.Meta{Page: 2, Limit: 5, Total: 10, TotalPages: 2, HasNext: false, HasPrev: true}},
		{"empty", 1, 3, 0, pagination.Meta{Page: 1, Limit: 3, Total: 0, TotalPages: 0, HasNext: false, HasPrev: false}},
		{"past_the_end", 9, 3, 7, pagination.Meta{Page: 9, Limit: 3, Total: 7, TotalPages: 3, HasNext: false, HasPrev: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pagination.NewMeta(tt.page, tt.limit, tt.total))
		})
	}
}
