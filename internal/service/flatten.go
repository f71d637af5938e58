package service

import (
	"strconv"
	"strings"

	"github.com/learnops/progress-reporter/internal/domain/entities"
)

// maxFlattenDepth bounds hierarchy traversal: level 0 is the course root,
// level 1 its direct modules. Deeper nodes never contribute counts.
const maxFlattenDepth = 2

// HierarchyFlattener reduces a nested course hierarchy document into leaf
// counts at exactly two levels.
type HierarchyFlattener struct{}

func NewHierarchyFlattener() *HierarchyFlattener {
	return &HierarchyFlattener{}
}

// Flatten walks the document from its root and returns the course leaf count
// plus one module entry per qualifying direct child, in traversal order.
// A root that does not qualify yields the zero accumulator: leaf count "0"
// and no modules.
func (f *HierarchyFlattener) Flatten(root *entities.HierarchyNode) entities.FlattenedCourse {
	acc := entities.FlattenedCourse{LeafCount: "0"}
	if root == nil {
		return acc
	}
	acc.CourseID = root.Identifier
	return flattenNode(root, acc, 0, maxFlattenDepth)
}

// flattenNode is a pure reducer: it returns a new accumulator and never
// mutates its input. depth is carried explicitly so the bound is enforced in
// one place rather than re-derived at each call site.
func flattenNode(node *entities.HierarchyNode, acc entities.FlattenedCourse, depth, maxDepth int) entities.FlattenedCourse {
	if node == nil || depth >= maxDepth {
		return acc
	}

	if !isCourseCollection(node) {
		// Non-matching node: passthrough. Siblings are unaffected because
		// the caller iterates the children list independently of results.
		return acc
	}

	switch depth {
	case 0:
		acc.LeafCount = strconv.Itoa(node.LeafCount())
		for _, child := range node.Children {
			acc = flattenNode(child, acc, depth+1, maxDepth)
		}
	case 1:
		acc.Modules = append(acc.Modules, entities.CourseModule{
			ID:        node.Identifier,
			LeafCount: strconv.Itoa(node.LeafCount()),
		})
	}

	return acc
}

// isCourseCollection applies the three-field node filter: collection mime
// type, default visibility, and a case-insensitive "course" content type.
func isCourseCollection(node *entities.HierarchyNode) bool {
	return node.MimeType == entities.CollectionMimeType &&
		node.Visibility == entities.DefaultVisibility &&
		strings.EqualFold(node.ContentType, entities.CourseContentType)
}
