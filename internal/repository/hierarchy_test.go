package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHierarchy = `{
	"identifier": "c1",
	"mimeType": "application/vnd.ekstep.content-collection",
	"visibility": "Default",
	"contentType": "Course",
	"leafNodesCount": 10,
	"children": [
		{
			"identifier": "m1",
			"mimeType": "application/vnd.ekstep.content-collection",
			"visibility": "Default",
			"contentType": "Course",
			"leafNodesCount": 4
		}
	]
}`

func TestHierarchyRepositoryGet(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c1.json"), []byte(sampleHierarchy), 0o644))

	repo := NewHierarchyRepository(dir)
	root, err := repo.Get(context.Background(), "c1")
	require.NoError(t, err)

	assert.Equal(t, "c1", root.Identifier)
	assert.Equal(t, 10, root.LeafCount())
	require.Len(t, root.Children, 1)
	assert.Equal(t, "m1", root.Children[0].Identifier)
	assert.Equal(t, 4, root.Children[0].LeafCount())
}

func TestHierarchyRepositoryMissingDocument(t *testing.T) {
	repo := NewHierarchyRepository(t.TempDir())

	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrHierarchyNotFound)
}

func TestHierarchyRepositoryMalformedDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644))

	repo := NewHierarchyRepository(dir)
	_, err := repo.Get(context.Background(), "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrHierarchyNotFound)
}

func TestHierarchyRepositoryAbsentChildren(t *testing.T) {
	dir := t.TempDir()
	doc := `{"identifier":"c2","mimeType":"application/vnd.ekstep.content-collection","visibility":"Default","contentType":"Course"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c2.json"), []byte(doc), 0o644))

	repo := NewHierarchyRepository(dir)
	root, err := repo.Get(context.Background(), "c2")
	require.NoError(t, err)

	assert.Empty(t, root.Children)
	assert.Equal(t, 0, root.LeafCount())
}
