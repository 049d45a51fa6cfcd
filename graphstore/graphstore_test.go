package graphstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestYearScope(t *testing.T) {
	all := YearScope{}
	assert.True(t, all.All())
	assert.True(t, all.Contains(1903))
	assert.Equal(t, "all", all.String())

	single := Year(1961)
	assert.False(t, single.All())
	assert.True(t, single.Contains(1961))
	assert.False(t, single.Contains(1962))
	assert.Equal(t, "1961", single.String())

	span := Range(1950, 1961)
	assert.True(t, span.Contains(1950))
	assert.True(t, span.Contains(1961))
	assert.False(t, span.Contains(1962))
	assert.Equal(t, "1950-1961", span.String())
}

func TestActivityPeriodDuration(t *testing.T) {
	assert.Equal(t, 43, ActivityPeriod{StartYear: 1946, EndYear: 1989}.Duration())
	assert.Equal(t, 0, ActivityPeriod{StartYear: 1961, EndYear: 1961}.Duration())
	assert.Equal(t, 0, ActivityPeriod{}.Duration())
}
