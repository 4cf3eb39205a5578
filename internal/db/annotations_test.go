package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotationsAreAppendOnlyPerResource(t *testing.T) {
	store := newTestStore(t)
	url := "https://arxiv.org/abs/1706.03762"

	_, err := store.AddAnnotation(url, "first pass notes", "")
	require.NoError(t, err)
	_, err = store.AddAnnotation(url, "", "multi-head attention")
	require.NoError(t, err)

	annotations, err := store.AnnotationsForResource(url)
	require.NoError(t, err)
	assert.Len(t, annotations, 2, "multiple annotations per resource are permitted")
}

func TestUpdateAnnotationOnlyChangesNote(t *testing.T) {
	store := newTestStore(t)
	url := "https://example.com/a"

	id, err := store.AddAnnotation(url, "draft", "the quoted passage")
	require.NoError(t, err)

	before, err := store.AnnotationsForResource(url)
	require.NoError(t, err)
	require.Len(t, before, 1)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, store.UpdateAnnotation(id, "final"))

	after, err := store.AnnotationsForResource(url)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "final", after[0].Note)
	assert.Equal(t, "the quoted passage", after[0].Highlight, "highlight text is immutable via update")
	assert.True(t, after[0].UpdatedAt.After(before[0].UpdatedAt))
}

func TestDeleteAnnotation(t *testing.T) {
	store := newTestStore(t)
	url := "https://example.com/a"

	id, err := store.AddAnnotation(url, "to be removed", "")
	require.NoError(t, err)
	_, err = store.AddAnnotation(url, "kept", "")
	require.NoError(t, err)

	require.NoError(t, store.DeleteAnnotation(id))

	annotations, err := store.AnnotationsForResource(url)
	require.NoError(t, err)
	require.Len(t, annotations, 1)
	assert.Equal(t, "kept", annotations[0].Note)
}
