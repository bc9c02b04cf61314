package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPage(t *testing.T) {
	list := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2}, page(list, 2, 0))
	assert.Equal(t, []int{4, 5}, page(list, 10, 3))
	assert.Equal(t, []int{}, page(list, 2, 5))
	assert.Equal(t, []int{}, page([]int(nil), 2, 0))
}
