package entities

// CollectionMimeType marks a node as a content collection rather than a leaf resource.
const CollectionMimeType = "application/vnd.ekstep.content-collection"

// DefaultVisibility is the visibility a node must carry to count toward progress.
const DefaultVisibility = "Default"

// CourseContentType is matched case-insensitively against a node's content type.
const CourseContentType = "course"

// HierarchyNode is one node of a course hierarchy document as published by the
// content store. Counts and children are optional in the source documents, so
// LeafNodesCount is a pointer: absent means zero.
type HierarchyNode struct {
	Identifier     string           `json:"identifier"`
	MimeType       string           `json:"mimeType"`
	Visibility     string           `json:"visibility"`
	ContentType    string           `json:"contentType"`
	LeafNodesCount *int             `json:"leafNodesCount,omitempty"`
	Children       []*HierarchyNode `json:"children,omitempty"`
}

// LeafCount returns the node's leaf count, treating an absent or negative
// value as zero.
func (n *HierarchyNode) LeafCount() int {
	if n == nil || n.LeafNodesCount == nil || *n.LeafNodesCount < 0 {
		return 0
	}
	return *n.LeafNodesCount
}

// CourseModule is a direct child of a course root together with its leaf count.
type CourseModule struct {
	ID        string
	LeafCount string
}

// FlattenedCourse is the two-level reduction of one hierarchy document:
// the course's own leaf count plus one entry per qualifying direct child,
// in traversal order. It is immutable once built.
type FlattenedCourse struct {
	CourseID  string
	LeafCount string
	Modules   []CourseModule
}
