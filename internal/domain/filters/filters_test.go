package filters

import (
	"testing"

	"reviewhub/proj/internal/domain/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, Filters{Page: MaxPage, PageSize: MaxPageSize}.Validate())
	assert.NoError(t, Filters{Page: -5}.Validate())

	err := Filters{Page: 922337203685477581, PageSize: 20}.Validate()
	vErr, ok := errs.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "page")
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	f := Filters{Page: 2, PageSize: 2}
	assert.Equal(t, []int{3, 4}, Paginate(items, f))
	assert.Equal(t, []int{5}, Paginate(items, Filters{Page: 3, PageSize: 2}))
	assert.Empty(t, Paginate(items, Filters{Page: 4, PageSize: 2}))
	assert.Empty(t, Paginate(items, Filters{Page: 922337203685477581, PageSize: 20}))
}

func TestNormalize(t *testing.T) {
	f := Filters{PageSize: 1000}
	f.Normalize()
	assert.Equal(t, Filters{Page: 1, PageSize: MaxPageSize}, f)
}

func TestCalculateMetadata(t *testing.T) {
	assert.Equal(t, Metadata{}, CalculateMetadata(0, 1, 20))
	assert.Equal(t, Metadata{CurrentPage: 2, PageSize: 20, FirstPage: 1, LastPage: 3, TotalRecords: 41}, CalculateMetadata(41, 2, 20))
}
