package message

// Resolve descends from root through Parts following path and returns the node reached. An
// empty path is rejected with ErrEmptyPath; an index out of range at any depth returns an
// *AddressError.
func Resolve(root *Message, path []int) (*Message, error) {
	if len(path) == 0 {
		return nil, ErrEmptyPath
	}
	node := root
	for depth, i := range path {
		if i < 0 || i >= len(node.Parts) {
			return nil, &AddressError{Path: path, Depth: depth}
		}
		node = node.Parts[i]
	}
	return node, nil
}
