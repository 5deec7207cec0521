package clixon

import (
	"encoding/xml"
	"io"
)

// Serialize emits canonical XML for root's children (spec.md §6 "XML
// contract": "serializer emits canonical XML from a tree"). root itself
// is the synthetic tree-assembler root and is never emitted; each of its
// children becomes a top-level element.
func Serialize(w io.Writer, root *XmlNode) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	for _, child := range root.Children {
		if err := encodeNode(enc, child); err != nil {
			return err
		}
	}
	return enc.Flush()
}

func encodeNode(enc *xml.Encoder, n *XmlNode) error {
	start := xml.StartElement{Name: xml.Name{Local: n.Name}}
	if n.IsLeaf() {
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		if n.HasBody {
			if err := enc.EncodeToken(xml.CharData(n.Body)); err != nil {
				return err
			}
		}
		return enc.EncodeToken(start.End())
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := encodeNode(enc, c); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}
