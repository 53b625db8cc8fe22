// Package view is the render tree produced by wizard steps. Hosts turn it into
// whatever UI they have.
package view

type Node struct {
	Type     string         `json:"type"`
	ID       string         `json:"id,omitempty"`
	Props    map[string]any `json:"props,omitempty"`
	Children []Node         `json:"children,omitempty"`
}

func New(typ string, props map[string]any, children ...Node) Node {
	return Node{
		Type:     typ,
		Props:    props,
		Children: children,
	}
}

func (n Node) WithID(id string) Node {
	n.ID = id
	return n
}

// Find collects every node of the given type, depth first, including n itself.
func (n Node) Find(typ string) []Node {
	var res []Node
	if n.Type == typ {
		res = append(res, n)
	}
	for _, c := range n.Children {
		res = append(res, c.Find(typ)...)
	}
	return res
}

// FindID returns the first node with the given id.
func (n Node) FindID(id string) (Node, bool) {
	if n.ID == id {
		return n, true
	}
	for _, c := range n.Children {
		if found, ok := c.FindID(id); ok {
			return found, true
		}
	}
	return Node{}, false
}

func Loading() Node {
	return New("loading", nil)
}
