package catalog

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(n int) *Store {
	s := NewStore()
	batch := make([]Product, 0, n)
	for i := 1; i <= n; i++ {
		batch = append(batch, Product{
			ID:          ID(fmt.Sprint(i)),
			Title:       fmt.Sprintf("Item %d", i),
			Description: fmt.Sprintf("Description of item %d", i),
		})
	}
	s.UpsertMany(batch)
	s.SetTotal(n)
	return s
}

func ids(items []Product) []ID {
	out := make([]ID, 0, len(items))
	for _, p := range items {
		out = append(out, p.ID)
	}
	return out
}

func sameBacking(a, b []Product) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer() && len(a) == len(b)
}

func TestProjectSingleChair(t *testing.T) {
	s := NewStore()
	s.UpsertOne(chair())

	view := NewProjector().Project(s.Snapshot())

	require.Len(t, view.Items, 1)
	assert.Equal(t, chair(), view.Items[0])
	assert.Equal(t, 1, view.VisibleCount)
}

func TestProjectAfterSoftDeleteIsEmpty(t *testing.T) {
	s := NewStore()
	s.UpsertOne(chair())
	s.SoftDelete("1")

	view := NewProjector().Project(s.Snapshot())

	assert.Empty(t, view.Items)
	assert.Zero(t, view.VisibleCount)
}

func TestDeletedExcludedRegardlessOfFilters(t *testing.T) {
	s := seeded(5)
	s.ToggleLiked("2")
	s.SoftDelete("2")
	s.SetFavoritesOnly(true)
	s.SetQuery("item 2")

	view := NewProjector().Project(s.Snapshot())

	assert.NotContains(t, ids(view.Items), ID("2"))
	assert.Zero(t, view.VisibleCount)
	assert.Equal(t, 1, view.FavoritesCount)
}

func TestFavoritesOnlyKeepsLikedItems(t *testing.T) {
	s := seeded(6)
	s.ToggleLiked("2")
	s.ToggleLiked("5")
	s.ToggleLiked("6")
	s.ToggleLiked("6")
	s.SetFavoritesOnly(true)

	view := NewProjector().Project(s.Snapshot())

	assert.Equal(t, []ID{"2", "5"}, ids(view.Items))
	for _, p := range view.Items {
		assert.True(t, s.Snapshot().Liked[p.ID])
	}
	assert.Equal(t, 2, view.FavoritesCount)
}

func TestQueryMatchesTitleOrDescriptionCaseInsensitive(t *testing.T) {
	s := NewStore()
	s.UpsertMany([]Product{
		chair(),
		{ID: "2", Title: "Desk", Description: "Oak desk with CHAIR cutout"},
		{ID: "3", Title: "Lamp", Description: "Brass lamp"},
		{ID: "4", Title: "STRASSE sign", Description: "Street sign"},
	})

	p := NewProjector()

	s.SetQuery("  chAir ")
	assert.Equal(t, []ID{"1", "2"}, ids(p.Project(s.Snapshot()).Items))

	s.SetQuery("SIGN")
	assert.Equal(t, []ID{"4"}, ids(p.Project(s.Snapshot()).Items))

	s.SetQuery("   ")
	assert.Len(t, p.Project(s.Snapshot()).Items, 4)
}

func TestFavoritesCountIgnoresPageAndQuery(t *testing.T) {
	s := seeded(30)
	s.ToggleLiked("1")
	s.ToggleLiked("29")
	s.SetQuery("item 1")
	s.SetPage(2)

	view := NewProjector().Project(s.Snapshot())

	assert.Equal(t, 2, view.FavoritesCount)
}

func TestWindowSlicesCurrentPage(t *testing.T) {
	s := seeded(30)
	s.SetPerPage(12)
	s.SetPage(3)

	view := NewProjector().Project(s.Snapshot())

	assert.Equal(t, 3, view.Page)
	assert.Equal(t, 3, view.LastPage)
	assert.Len(t, view.Items, 6)
	assert.Equal(t, ID("25"), view.Items[0].ID)
}

func TestPageClampsAfterFilterShrinksList(t *testing.T) {
	s := seeded(36)
	s.SetPerPage(12)
	s.SetPage(3)
	p := NewProjector()
	require.Equal(t, 3, p.Project(s.Snapshot()).Page)

	// Ten items mention "special"; the query resets the page, so force it
	// back to 3 to model a stale page surviving the filter change.
	for i := 1; i <= 10; i++ {
		s.UpdateLocal(ID(fmt.Sprint(i)), Patch{Description: ptr("special offer")})
	}
	s.SetQuery("special")
	s.SetPage(3)

	view := p.Project(s.Snapshot())
	assert.Equal(t, 10, view.VisibleCount)
	assert.Equal(t, 1, view.LastPage)
	assert.Equal(t, 1, view.Page)
	assert.Len(t, view.Items, 10)

	s.ClampPage(view.LastPage)
	assert.Equal(t, 1, s.Snapshot().Page)
}

func TestPagingTotalUsesRemoteTotalWithoutFilter(t *testing.T) {
	s := seeded(12)
	s.SetTotal(100)

	view := NewProjector().Project(s.Snapshot())

	assert.Equal(t, 100, view.PagingTotal)
	assert.Equal(t, 9, view.LastPage)

	s.SetPage(5)
	view = NewProjector().Project(s.Snapshot())
	assert.Equal(t, 5, view.Page)
	assert.Empty(t, view.Items, "pages not fetched yet render empty")
}

func TestPagingTotalUsesVisibleCountWithFilter(t *testing.T) {
	s := seeded(12)
	s.SetTotal(100)
	s.ToggleLiked("3")
	s.SetFavoritesOnly(true)

	view := NewProjector().Project(s.Snapshot())

	assert.Equal(t, 1, view.PagingTotal)
	assert.Equal(t, 1, view.LastPage)
}

func TestLastPage(t *testing.T) {
	assert.Equal(t, 1, LastPage(0, 12))
	assert.Equal(t, 1, LastPage(12, 12))
	assert.Equal(t, 2, LastPage(13, 12))
	assert.Equal(t, 1, LastPage(10, 0))
}

func TestProjectorReturnsCachedSlicesForUnchangedInputs(t *testing.T) {
	s := seeded(30)
	p := NewProjector()

	first := p.Project(s.Snapshot())
	s.SetStatus(StatusLoading)
	second := p.Project(s.Snapshot())

	assert.True(t, sameBacking(first.Items, second.Items))
	assert.Equal(t, StatusLoading, second.Status)
}

func TestProjectorRecomputesOnRelevantChange(t *testing.T) {
	s := seeded(30)
	p := NewProjector()
	first := p.Project(s.Snapshot())

	s.SoftDelete("1")
	second := p.Project(s.Snapshot())

	assert.False(t, sameBacking(first.Items, second.Items))
	assert.Equal(t, ID("2"), second.Items[0].ID)
}

func TestLikeDoesNotInvalidateUnfilteredList(t *testing.T) {
	s := seeded(30)
	p := NewProjector()
	first := p.Project(s.Snapshot())

	s.ToggleLiked("4")
	second := p.Project(s.Snapshot())

	assert.True(t, sameBacking(first.Items, second.Items))
	assert.Equal(t, 1, second.FavoritesCount)
}

func TestCreatedProductIsProjected(t *testing.T) {
	s := NewStore()
	draft := Draft{Title: "Lamp", Description: "Brass desk lamp", Thumbnail: "https://example.com/lamp.png"}

	created := s.CreateLocal(draft)
	view := NewProjector().Project(s.Snapshot())

	require.Len(t, view.Items, 1)
	got := view.Items[0]
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, draft, DraftFrom(got))
	assert.Equal(t, 1, s.Snapshot().Total)
}

func remotePage(skip, n int) []Product {
	out := make([]Product, 0, n)
	for i := range n {
		id := skip + i + 1
		out = append(out, Product{ID: ID(fmt.Sprint(id)), Title: fmt.Sprintf("Item %d", id)})
	}
	return out
}

func TestPagesLoadedOutOfOrderKeepTheirPlace(t *testing.T) {
	s := NewStore()
	s.UpsertPage(0, remotePage(0, 12))
	s.UpsertPage(24, remotePage(24, 12))
	s.SetTotal(100)
	p := NewProjector()

	s.SetPage(3)
	view := p.Project(s.Snapshot())
	assert.Equal(t, 9, view.LastPage)
	require.Len(t, view.Items, 12)
	assert.Equal(t, ID("25"), view.Items[0].ID)

	s.SetPage(2)
	assert.Empty(t, p.Project(s.Snapshot()).Items, "page 2 has not been fetched")

	s.SetPage(1)
	assert.Equal(t, ID("1"), p.Project(s.Snapshot()).Items[0].ID)
}

func TestSoftDeleteLeavesGapOnRemotePage(t *testing.T) {
	s := NewStore()
	s.UpsertPage(0, remotePage(0, 12))
	s.UpsertPage(12, remotePage(12, 12))
	s.SetTotal(24)
	s.SoftDelete("3")

	view := NewProjector().Project(s.Snapshot())

	assert.Len(t, view.Items, 11)
	assert.NotContains(t, ids(view.Items), ID("3"))
	assert.NotContains(t, ids(view.Items), ID("13"), "the next page does not slide up")
}

func TestCreatedProductsFollowRemoteCollection(t *testing.T) {
	s := NewStore()
	s.UpsertPage(0, remotePage(0, 12))
	s.SetTotal(20)
	created := s.CreateLocal(Draft{Title: "Lamp", Description: "Brass desk lamp"})

	p := NewProjector()
	view := p.Project(s.Snapshot())
	assert.Equal(t, 21, view.PagingTotal)
	assert.Equal(t, 2, view.LastPage)
	assert.NotContains(t, ids(view.Items), created.ID)

	s.SetPage(2)
	view = p.Project(s.Snapshot())
	assert.Equal(t, []ID{created.ID}, ids(view.Items))
}

func TestFilterIgnoresRemoteOffsets(t *testing.T) {
	s := NewStore()
	s.UpsertPage(24, remotePage(24, 12))
	s.SetTotal(100)
	s.SetQuery("item 3")

	view := NewProjector().Project(s.Snapshot())

	assert.Equal(t, []ID{"30", "31", "32", "33", "34", "35", "36"}, ids(view.Items))
	assert.Equal(t, 1, view.LastPage)
}

func TestProductFetchedAloneStaysOffRemotePages(t *testing.T) {
	s := NewStore()
	s.UpsertPage(0, remotePage(0, 12))
	s.UpsertOne(Product{ID: "150", Title: "Item 150"})
	s.SetTotal(194)

	view := NewProjector().Project(s.Snapshot())

	assert.NotContains(t, ids(view.Items), ID("150"))
	assert.Equal(t, 194, view.PagingTotal)
	assert.Equal(t, 13, view.VisibleCount)
}
