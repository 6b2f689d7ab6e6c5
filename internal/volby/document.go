package volby

import (
	"errors"
	"os"

	"github.com/beevik/etree"
)

// DefaultNamespaceAlias is the alias registered for the namespace URI found
// on the document's root element.
const DefaultNamespaceAlias = "ps"

// Region element names shared by both feed layouts.
const (
	elemRegion     = "KRAJ"
	attrRegionName = "NAZ_KRAJ"
	attrRegionCode = "CIS_KRAJ"
)

// Document pairs a parsed XML tree with its namespace table so structural
// queries can be made by local tag name. The zero value is unloaded; every
// query against it reports ErrNotLoaded.
type Document struct {
	root       *etree.Element
	Namespaces map[string]string
}

// Parse reads a raw XML payload into a queryable Document, auto-registering
// the root element's namespace under DefaultNamespaceAlias.
func Parse(data []byte) (*Document, error) {
	return ParseWithNamespaces(data, nil)
}

// ParseWithNamespaces is Parse with a caller-supplied namespace table.
// Caller entries are kept verbatim; the default alias is only added when the
// caller has not claimed it.
func ParseWithNamespaces(data []byte, namespaces map[string]string) (*Document, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(data); err != nil {
		return nil, &LoadError{Source: "document", Err: err}
	}
	root := tree.Root()
	if root == nil {
		return nil, &LoadError{Source: "document", Err: errors.New("no root element")}
	}

	doc := &Document{root: root, Namespaces: make(map[string]string, len(namespaces)+1)}
	for alias, uri := range namespaces {
		doc.Namespaces[alias] = uri
	}
	doc.registerDefaultNamespace(DefaultNamespaceAlias)
	return doc, nil
}

// ParseFile reads and parses an XML document from a local file.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	doc, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			return nil, &LoadError{Source: path, Err: le.Err}
		}
		return nil, err
	}
	return doc, nil
}

func (d *Document) registerDefaultNamespace(alias string) {
	uri := d.root.NamespaceURI()
	if uri == "" {
		return
	}
	if _, ok := d.Namespaces[alias]; !ok {
		d.Namespaces[alias] = uri
	}
}

// Root returns the document's root element, or ErrNotLoaded when no parse
// has succeeded.
func (d *Document) Root() (*etree.Element, error) {
	if d == nil || d.root == nil {
		return nil, ErrNotLoaded
	}
	return d.root, nil
}

// Find returns the first child of parent with the given local tag name that
// satisfies the registered namespace table, or nil.
func (d *Document) Find(parent *etree.Element, tag string) *etree.Element {
	if parent == nil {
		return nil
	}
	for _, child := range parent.ChildElements() {
		if d.matches(child, tag) {
			return child
		}
	}
	return nil
}

// FindAll returns every child of parent with the given local tag name that
// satisfies the registered namespace table, in document order.
func (d *Document) FindAll(parent *etree.Element, tag string) []*etree.Element {
	if parent == nil {
		return nil
	}
	var out []*etree.Element
	for _, child := range parent.ChildElements() {
		if d.matches(child, tag) {
			out = append(out, child)
		}
	}
	return out
}

// matches accepts any namespace when the table is empty (non-namespaced
// feed); otherwise the element's resolved namespace URI must be registered.
func (d *Document) matches(el *etree.Element, tag string) bool {
	if el.Tag != tag {
		return false
	}
	if len(d.Namespaces) == 0 {
		return true
	}
	uri := el.NamespaceURI()
	for _, registered := range d.Namespaces {
		if uri == registered {
			return true
		}
	}
	return false
}
