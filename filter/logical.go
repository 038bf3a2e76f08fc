package filter

// AndFilter matches when all children match. Children write into the
// enclosing document directly; when two children use the same key the later
// one wins.
type AndFilter struct {
	Children []Node
}

// OrFilter matches when any child matches.
type OrFilter struct {
	Children []Node
}

func AllOf(children ...Node) AndFilter {
	return AndFilter{Children: children}
}

func AnyOf(children ...Node) OrFilter {
	return OrFilter{Children: children}
}

func (AndFilter) node() {}

func (OrFilter) node() {}

func (a AndFilter) ContributeTo(doc *Document, enc *Encoder) error {
	for _, child := range a.Children {
		if child == nil {
			continue
		}
		if err := child.ContributeTo(doc, enc); err != nil {
			return err
		}
	}
	return nil
}

// ContributeTo writes nothing for an empty group, inlines a single child and
// otherwise opens one "$or" list with a document per alternative.
func (o OrFilter) ContributeTo(doc *Document, enc *Encoder) error {
	children := compact(o.Children)
	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0].ContributeTo(doc, enc)
	}
	list := doc.List(string(OrKey))
	return appendAlternatives(list, children, enc)
}

// appendAlternatives adds one document per child to list. Or children are
// spliced in place so or-of-or collapses into a single list; every other
// node kind keeps its own document.
func appendAlternatives(list *DocumentList, children []Node, enc *Encoder) error {
	for _, child := range children {
		switch c := child.(type) {
		case OrFilter:
			if err := appendAlternatives(list, compact(c.Children), enc); err != nil {
				return err
			}
		case *OrFilter:
			if c == nil {
				continue
			}
			if err := appendAlternatives(list, compact(c.Children), enc); err != nil {
				return err
			}
		default:
			if err := child.ContributeTo(list.AppendDocument(), enc); err != nil {
				return err
			}
		}
	}
	return nil
}

func compact(nodes []Node) []Node {
	out := nodes[:0:0]
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
