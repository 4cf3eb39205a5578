package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddBookmarkDuplicateURL(t *testing.T) {
	store := newTestStore(t)

	b := &Bookmark{Title: "Attention Is All You Need", URL: "https://arxiv.org/abs/1706.03762", Source: "arxiv", Type: "PDF"}
	require.NoError(t, store.AddBookmark(b))

	// Second add reports failure so the caller can tell the user; the table
	// still holds exactly one row for the URL.
	err := store.AddBookmark(&Bookmark{Title: "Attention (again)", URL: b.URL})
	assert.ErrorIs(t, err, ErrDuplicate)

	var count int
	require.NoError(t, store.DB().QueryRow(`SELECT COUNT(*) FROM bookmarks WHERE url = ?`, b.URL).Scan(&count))
	assert.Equal(t, 1, count)

	all, err := store.Bookmarks("")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Attention Is All You Need", all[0].Title, "duplicates never overwrite")
}

func TestRemoveBookmark(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.AddBookmark(&Bookmark{Title: "A", URL: "https://example.com/a"}))

	require.NoError(t, store.RemoveBookmark("https://example.com/a"))

	ok, err := store.IsBookmarked("https://example.com/a")
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing an unknown URL is a no-op.
	require.NoError(t, store.RemoveBookmark("https://example.com/missing"))
}

func TestBookmarksBySource(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.AddBookmark(&Bookmark{Title: "A", URL: "https://a", Source: "arxiv"}))
	require.NoError(t, store.AddBookmark(&Bookmark{Title: "B", URL: "https://b", Source: "wikipedia"}))

	arxivOnly, err := store.Bookmarks("arxiv")
	require.NoError(t, err)
	require.Len(t, arxivOnly, 1)
	assert.Equal(t, "A", arxivOnly[0].Title)
}

func TestSearchBookmarks(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.AddBookmark(&Bookmark{
		Title: "Quantum Error Correction", URL: "https://a", Description: "surface codes"}))
	require.NoError(t, store.AddBookmark(&Bookmark{
		Title: "Medieval History", URL: "https://b", Description: "feudalism"}))

	byTitle, err := store.SearchBookmarks("quantum")
	require.NoError(t, err)
	assert.Len(t, byTitle, 1)

	byDescription, err := store.SearchBookmarks("feudal")
	require.NoError(t, err)
	assert.Len(t, byDescription, 1)

	none, err := store.SearchBookmarks("biology")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBookmarkCount(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.AddBookmark(&Bookmark{Title: "A", URL: "https://a"}))
	require.NoError(t, store.AddBookmark(&Bookmark{Title: "B", URL: "https://b"}))

	count, err := store.BookmarkCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
