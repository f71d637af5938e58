package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/learnops/progress-reporter/internal/domain/entities"
)

func collectionNode(id string, leaves int, children ...*entities.HierarchyNode) *entities.HierarchyNode {
	return &entities.HierarchyNode{
		Identifier:     id,
		MimeType:       entities.CollectionMimeType,
		Visibility:     entities.DefaultVisibility,
		ContentType:    "Course",
		LeafNodesCount: &leaves,
		Children:       children,
	}
}

func TestFlattenCourseWithModules(t *testing.T) {
	root := collectionNode("c1", 10,
		collectionNode("m1", 4),
		collectionNode("m2", 6),
	)

	flat := NewHierarchyFlattener().Flatten(root)

	assert.Equal(t, "c1", flat.CourseID)
	assert.Equal(t, "10", flat.LeafCount)
	assert.Equal(t, []entities.CourseModule{
		{ID: "m1", LeafCount: "4"},
		{ID: "m2", LeafCount: "6"},
	}, flat.Modules)
}

func TestFlattenNeverDescendsPastModules(t *testing.T) {
	grandchild := collectionNode("gc1", 99)
	root := collectionNode("c1", 10,
		collectionNode("m1", 4, grandchild),
	)

	flat := NewHierarchyFlattener().Flatten(root)

	assert.Len(t, flat.Modules, 1)
	assert.Equal(t, "m1", flat.Modules[0].ID)
}

func TestFlattenRootFailingFilter(t *testing.T) {
	leaves := 10
	root := &entities.HierarchyNode{
		Identifier:     "c1",
		MimeType:       "application/pdf",
		Visibility:     entities.DefaultVisibility,
		ContentType:    "Course",
		LeafNodesCount: &leaves,
		Children:       []*entities.HierarchyNode{collectionNode("m1", 4)},
	}

	flat := NewHierarchyFlattener().Flatten(root)

	assert.Equal(t, "c1", flat.CourseID)
	assert.Equal(t, "0", flat.LeafCount)
	assert.Empty(t, flat.Modules)
}

func TestFlattenSkipsNonMatchingSibling(t *testing.T) {
	resource := &entities.HierarchyNode{
		Identifier:  "r1",
		MimeType:    "application/vnd.ekstep.ecml-archive",
		Visibility:  entities.DefaultVisibility,
		ContentType: "Resource",
	}
	root := collectionNode("c1", 10,
		collectionNode("m1", 4),
		resource,
		collectionNode("m2", 6),
	)

	flat := NewHierarchyFlattener().Flatten(root)

	// The non-matching sibling contributes nothing but must not stop the
	// traversal of the siblings after it.
	assert.Equal(t, []entities.CourseModule{
		{ID: "m1", LeafCount: "4"},
		{ID: "m2", LeafCount: "6"},
	}, flat.Modules)
}

func TestFlattenContentTypeCaseInsensitive(t *testing.T) {
	root := collectionNode("c1", 10)
	root.ContentType = "COURSE"

	flat := NewHierarchyFlattener().Flatten(root)

	assert.Equal(t, "10", flat.LeafCount)
}

func TestFlattenTreatsMissingCountsAsZero(t *testing.T) {
	root := collectionNode("c1", 10)
	root.Children = []*entities.HierarchyNode{
		{
			Identifier:  "m1",
			MimeType:    entities.CollectionMimeType,
			Visibility:  entities.DefaultVisibility,
			ContentType: "Course",
			// LeafNodesCount absent.
		},
	}

	flat := NewHierarchyFlattener().Flatten(root)

	assert.Equal(t, []entities.CourseModule{{ID: "m1", LeafCount: "0"}}, flat.Modules)
}

func TestFlattenKeepsDuplicateModuleIDs(t *testing.T) {
	root := collectionNode("c1", 10,
		collectionNode("m1", 4),
		collectionNode("m1", 4),
	)

	flat := NewHierarchyFlattener().Flatten(root)

	assert.Len(t, flat.Modules, 2)
}

func TestFlattenNilRoot(t *testing.T) {
	flat := NewHierarchyFlattener().Flatten(nil)

	assert.Equal(t, "0", flat.LeafCount)
	assert.Empty(t, flat.Modules)
	assert.Empty(t, flat.CourseID)
}
