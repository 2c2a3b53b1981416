package emulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearch(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		program  []int64
		target   int64
		limit    int64
		expected int64
	}){
		{[]int64{1102, 0, 0, 0, 99}, 5963, 0, 6789},
		{[]int64{1102, 0, 0, 0, 99}, 9802, 0, SEARCH_NOT_FOUND},
		{[]int64{1101, 0, 0, 0, 99}, 0, 10, 0},
		{[]int64{1101, 0, 0, 0, 99}, 12, 10, 309},
		{[]int64{1101, 0, 0, 0, 99}, 12, 7, 606},
		{[]int64{1101, 0, 0, 0, 99}, 12, 6, SEARCH_NOT_FOUND},
		// Non-terminating and failing trials never match.
		{[]int64{1105, 0, 0, 99}, 42, 3, SEARCH_NOT_FOUND},
		{[]int64{1, 9, 10, 3, 2, 3, 11, 0, 99, 30, 40, 50}, 3500, 12, 910},
	}

	for _, entry := range table {
		result, err := Search(entry.program, entry.target, entry.limit)
		assert.NoError(err)
		assert.Equal(entry.expected, result, "%v", entry)
	}

	result, err := Search(nil, 0, 10)
	assert.ErrorIs(err, ErrSearchEmpty)
	assert.Equal(SEARCH_NOT_FOUND, result)
}
