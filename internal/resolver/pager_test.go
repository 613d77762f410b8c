package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPager_StopsOnLastPage(t *testing.T) {
	lister := &fakeLister{pages: increasingPages(4, 2)}
	pager := NewPager(lister, "bucket", "p", 0)

	var seen int
	for page, err := range pager.Pages(context.Background()) {
		require.NoError(t, err)
		require.NotNil(t, page)
		seen++
	}

	assert.Equal(t, 4, seen)
	assert.Equal(t, 4, pager.Fetched())
	assert.False(t, pager.Capped())
}

func TestPager_SingleUse(t *testing.T) {
	lister := &fakeLister{pages: increasingPages(2, 1)}
	pager := NewPager(lister, "bucket", "p", 10)

	for range pager.Pages(context.Background()) {
	}
	for range pager.Pages(context.Background()) {
		t.Fatal("second iteration must not yield")
	}

	assert.Equal(t, 2, lister.calls())
}

func TestPager_EarlyBreakStopsFetching(t *testing.T) {
	lister := &fakeLister{pages: increasingPages(10, 1)}
	pager := NewPager(lister, "bucket", "p", 0)

	for range pager.Pages(context.Background()) {
		break
	}

	assert.Equal(t, 1, lister.calls())
	assert.False(t, pager.Capped())
}

func TestPager_Cap(t *testing.T) {
	lister := &fakeLister{pages: increasingPages(10, 1)}
	pager := NewPager(lister, "bucket", "p", 4)

	var seen int
	for _, err := range pager.Pages(context.Background()) {
		require.NoError(t, err)
		seen++
	}

	assert.Equal(t, 4, seen)
	assert.True(t, pager.Capped())
}

func TestPager_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lister := &fakeLister{pages: increasingPages(3, 1)}
	pager := NewPager(lister, "bucket", "p", 0)

	var errs []error
	for page, err := range pager.Pages(ctx) {
		assert.Nil(t, page)
		errs = append(errs, err)
	}

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], context.Canceled)
	assert.Equal(t, 0, lister.calls())
}
