package tags

// Node is a category in a tag tree. Only the root-to-node path is rendered,
// so Name holds the local segment ("Business"), not the full display string.
type Node struct {
	Name         string
	Description  string
	ExternalDocs *ExternalDocs
	Children     []*Node
}

// Flatten walks the roots in pre-order and emits one Definition per node,
// joining the names along the path with sep. Parents always precede their
// descendants and siblings keep their declared order.
func Flatten(sep string, roots ...*Node) []Definition {
	var defs []Definition
	for _, root := range roots {
		defs = flattenNode(defs, sep, "", root)
	}
	return defs
}

func flattenNode(defs []Definition, sep, parent string, node *Node) []Definition {
	if node == nil {
		return defs
	}

	name := node.Name
	if parent != "" {
		name = parent + sep + node.Name
	}

	defs = append(defs, Definition{
		Tag:          Tag(name),
		Description:  node.Description,
		ExternalDocs: node.ExternalDocs,
	})
	for _, child := range node.Children {
		defs = flattenNode(defs, sep, name, child)
	}
	return defs
}
