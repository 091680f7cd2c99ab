package java

// Hierarchy is the breadth-first linearisation of a type's ancestors. It
// is built once per query into an arena where each node points at the
// node it was reached from.
type Hierarchy struct {
	nodes []hierarchyNode
	index map[string]int
}

type hierarchyNode struct {
	class  *ClassModel
	parent int
	depth  int
}

// NewHierarchy linearises the supertypes of root. Supertypes of each type
// are visited superclass first, then interfaces in declaration order.
// Types reached twice keep their first position. java.lang.Object is
// always last, taken from the index or built in when missing. Supertypes
// the index cannot resolve are skipped.
func NewHierarchy(index ClassIndex, root *ClassModel) *Hierarchy {
	h := &Hierarchy{index: make(map[string]int)}
	if root == nil {
		return h
	}
	h.add(root, -1, 0)

	for i := 0; i < len(h.nodes); i++ {
		node := h.nodes[i]
		for _, super := range node.class.Supertypes() {
			name := super.ClassName()
			if !super.IsClass() || name == ObjectClassName {
				continue
			}
			if _, seen := h.index[name]; seen {
				continue
			}
			var class *ClassModel
			if index != nil {
				class = index.FindClass(name)
			}
			if class == nil {
				continue
			}
			h.add(class, i, node.depth+1)
		}
	}

	if root.Name != ObjectClassName {
		var object *ClassModel
		if index != nil {
			object = index.FindClass(ObjectClassName)
		}
		if object == nil {
			object = BuiltinObject()
		}
		h.add(object, 0, 1)
	}
	return h
}

func (h *Hierarchy) add(class *ClassModel, parent, depth int) {
	h.index[class.Name] = len(h.nodes)
	h.nodes = append(h.nodes, hierarchyNode{class: class, parent: parent, depth: depth})
}

func (h *Hierarchy) Root() *ClassModel {
	if len(h.nodes) == 0 {
		return nil
	}
	return h.nodes[0].class
}

// Ancestors returns the linearised supertypes, root excluded.
func (h *Hierarchy) Ancestors() []*ClassModel {
	if len(h.nodes) < 2 {
		return nil
	}
	ancestors := make([]*ClassModel, 0, len(h.nodes)-1)
	for _, n := range h.nodes[1:] {
		ancestors = append(ancestors, n.class)
	}
	return ancestors
}

// All returns the root followed by its ancestors.
func (h *Hierarchy) All() []*ClassModel {
	all := make([]*ClassModel, len(h.nodes))
	for i, n := range h.nodes {
		all[i] = n.class
	}
	return all
}

// Contains reports whether name is the root or one of its ancestors.
func (h *Hierarchy) Contains(name string) bool {
	_, ok := h.index[name]
	return ok
}

// Depth returns the number of supertype edges between the root and name,
// or -1 when name is not in the hierarchy.
func (h *Hierarchy) Depth(name string) int {
	i, ok := h.index[name]
	if !ok {
		return -1
	}
	return h.nodes[i].depth
}

// PathTo returns the chain of types from the root to name, following the
// edges the linearisation took.
func (h *Hierarchy) PathTo(name string) []*ClassModel {
	i, ok := h.index[name]
	if !ok {
		return nil
	}
	var path []*ClassModel
	for ; i >= 0; i = h.nodes[i].parent {
		path = append([]*ClassModel{h.nodes[i].class}, path...)
	}
	return path
}
