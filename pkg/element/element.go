// Copyright (c) 2025 Sudo-Ivan
// Licensed under the MIT License

// Package element provides the attribute-bearing element tree shared between
// the geometry serializer and the documents that embed its output.
//
// A Node wraps an etree element whose attributes are kept in sorted key order,
// so the XML text of a tree does not depend on map iteration order.
package element

import (
	"io"
	"sort"
	"strings"

	"github.com/beevik/etree"
)

// Node is a single element of the tree.
type Node struct {
	*etree.Element
}

// New creates a Node with the given tag and attributes.
// The attribute map is not retained.
func New(tag string, attrs map[string]string) *Node {
	el := etree.NewElement(tag)
	for _, k := range sortedKeys(attrs) {
		el.CreateAttr(k, attrs[k])
	}
	return &Node{el}
}

func wrap(els []*etree.Element) []*Node {
	nodes := make([]*Node, len(els))
	for i, el := range els {
		nodes[i] = &Node{el}
	}
	return nodes
}

// Append adds children to n in order and returns n.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		n.AddChild(c.Element)
	}
	return n
}

// Sub creates a new child with the given tag and attributes, appends it to n and returns the child.
func (n *Node) Sub(tag string, attrs map[string]string) *Node {
	child := New(tag, attrs)
	n.AddChild(child.Element)
	return child
}

// Set sets an attribute value, keeping the attributes sorted.
func (n *Node) Set(key, value string) {
	n.CreateAttr(key, value)
	n.SortAttrs()
}

// Get returns an attribute value and whether it was present.
func (n *Node) Get(key string) (string, bool) {
	a := n.SelectAttr(key)
	if a == nil {
		return "", false
	}
	return a.Value, true
}

// Children returns the child elements of n in document order.
func (n *Node) Children() []*Node {
	return wrap(n.ChildElements())
}

// Find returns the children of n with the given tag, in document order.
func (n *Node) Find(tag string) []*Node {
	return wrap(n.SelectElements(tag))
}

// Document returns a new document holding a copy of n as its root.
// Changes to the document do not affect n.
func (n *Node) Document() *etree.Document {
	doc := etree.NewDocument()
	doc.SetRoot(n.Copy())
	return doc
}

// Encode writes the compact XML text of n (no declaration, no whitespace) to w.
// Childless elements are self-closing.
func (n *Node) Encode(w io.Writer) error {
	_, err := n.Document().WriteTo(w)
	return err
}

// EncodeTabs writes the XML text of n to w with every child element on its
// own line, indented by one tab per nesting level.
func (n *Node) EncodeTabs(w io.Writer) error {
	doc := n.Document()
	doc.IndentTabs()
	_, err := doc.WriteTo(w)
	return err
}

// String returns the compact XML text of n.
func (n *Node) String() string {
	var sb strings.Builder
	_ = n.Encode(&sb)
	return sb.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
