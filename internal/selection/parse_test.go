package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_All(t *testing.T) {
	indices, err := Parse("all", 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, indices)
}

func TestParse_AllIsCaseInsensitive(t *testing.T) {
	indices, err := Parse("  ALL ", 2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, indices)
}

func TestParse_AllOverZeroListings(t *testing.T) {
	indices, err := Parse("all", 0)
	require.NoError(t, err)
	assert.Empty(t, indices)
}

func TestParse_SingleIndex(t *testing.T) {
	indices, err := Parse("2", 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, indices)
}

func TestParse_ListWithDuplicates(t *testing.T) {
	indices, err := Parse("2,2,1", 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, indices)
}

func TestParse_ToleratesWhitespace(t *testing.T) {
	indices, err := Parse(" 3 , 1 ", 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, indices)
}

func TestParse_OutOfRange(t *testing.T) {
	_, err := Parse("5", 3)
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "5", parseErr.Token)
	assert.Contains(t, err.Error(), `"5"`)
	assert.Contains(t, err.Error(), "1-3")
}

func TestParse_ZeroIsOutOfRange(t *testing.T) {
	_, err := Parse("0", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"0"`)
}

func TestParse_NegativeIsOutOfRange(t *testing.T) {
	_, err := Parse("-1", 3)
	require.Error(t, err)
}

func TestParse_NonNumericToken(t *testing.T) {
	_, err := Parse("1,two", 3)
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "two", parseErr.Token)
}

func TestParse_EmptyInput(t *testing.T) {
	_, err := Parse("   ", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty selection")
	assert.Contains(t, err.Error(), "1-3")
}

func TestParse_EmptyTokenInList(t *testing.T) {
	_, err := Parse("1,,2", 3)
	require.Error(t, err)
}

func TestParse_NeverClamps(t *testing.T) {
	// A list that mixes valid and invalid entries fails outright rather
	// than returning the valid subset.
	_, err := Parse("1,9", 3)
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "9", parseErr.Token)
}
