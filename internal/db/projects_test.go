package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProjectDuplicateName(t *testing.T) {
	store := newTestStore(t)

	_, err := store.CreateProject("Thesis", "")
	require.NoError(t, err)

	_, err = store.CreateProject("Thesis", "second attempt")
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestAddResourceToProjectIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	id, err := store.CreateProject("Survey", "transformer architectures")
	require.NoError(t, err)

	url := "https://arxiv.org/abs/1706.03762"
	require.NoError(t, store.AddResourceToProject(id, url, "Attention Is All You Need"))
	require.NoError(t, store.AddResourceToProject(id, url, "Attention Is All You Need"))

	resources, err := store.ProjectResources(id)
	require.NoError(t, err)
	assert.Len(t, resources, 1, "a resource appears at most once per project")
	assert.Equal(t, ResourceToRead, resources[0].Status)
}

func TestAddResourceBumpsProjectUpdatedDate(t *testing.T) {
	store := newTestStore(t)
	id, err := store.CreateProject("Survey", "")
	require.NoError(t, err)

	before, err := store.ProjectByName("Survey")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, store.AddResourceToProject(id, "https://example.com/a", "A"))

	after, err := store.ProjectByName("Survey")
	require.NoError(t, err)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
}

func TestDeleteProjectCascades(t *testing.T) {
	store := newTestStore(t)
	doomed, err := store.CreateProject("Doomed", "")
	require.NoError(t, err)
	other, err := store.CreateProject("Other", "")
	require.NoError(t, err)

	require.NoError(t, store.AddResourceToProject(doomed, "https://example.com/a", "A"))
	require.NoError(t, store.AddResourceToProject(doomed, "https://example.com/b", "B"))
	require.NoError(t, store.AddResourceToProject(other, "https://example.com/a", "A"))

	require.NoError(t, store.DeleteProject(doomed))

	var orphans int
	err = store.DB().QueryRow(`SELECT COUNT(*) FROM project_resources WHERE project_id = ?`, doomed).Scan(&orphans)
	require.NoError(t, err)
	assert.Zero(t, orphans, "cascade must remove the project's resource rows")

	remaining, err := store.ProjectResources(other)
	require.NoError(t, err)
	assert.Len(t, remaining, 1, "unrelated projects are untouched")
}

func TestUpdateProjectResourceStatus(t *testing.T) {
	store := newTestStore(t)
	id, err := store.CreateProject("Survey", "")
	require.NoError(t, err)
	require.NoError(t, store.AddResourceToProject(id, "https://example.com/a", "A"))

	resources, err := store.ProjectResources(id)
	require.NoError(t, err)
	require.Len(t, resources, 1)

	require.NoError(t, store.UpdateProjectResourceStatus(resources[0].ID, ResourceSynthesized))

	resources, err = store.ProjectResources(id)
	require.NoError(t, err)
	assert.Equal(t, ResourceSynthesized, resources[0].Status)
}

func TestProjectsForResource(t *testing.T) {
	store := newTestStore(t)
	p1, err := store.CreateProject("One", "")
	require.NoError(t, err)
	p2, err := store.CreateProject("Two", "")
	require.NoError(t, err)

	url := "https://example.com/shared"
	require.NoError(t, store.AddResourceToProject(p1, url, "Shared"))
	require.NoError(t, store.AddResourceToProject(p2, url, "Shared"))

	projects, err := store.ProjectsForResource(url)
	require.NoError(t, err)
	assert.Len(t, projects, 2)
}
