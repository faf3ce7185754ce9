// Package population rewrites plans documents in a streaming fashion, so
// that full-size populations never have to be held in memory.
package population

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// ValueFunc returns the attribute value for a person id.
type ValueFunc func(personID string) string

// AttributeInjector sets one typed attribute on every person of a plans
// document. An existing attribute with the same name is replaced.
type AttributeInjector struct {
	Name  string
	Class string
	Value ValueFunc
}

// Inject copies the document from r to w and returns the number of persons
// that received the attribute.
//
//gocyclo:ignore
func (a AttributeInjector) Inject(r io.Reader, w io.Writer) (int, error) {
	if a.Name == "" || a.Value == nil {
		return 0, errors.New("attribute name and value function are required")
	}
	dec := xml.NewDecoder(r)
	enc := xml.NewEncoder(w)

	var (
		count     int
		depth     int
		personID  string
		inPerson  bool
		done      bool
		inAttrs   bool
		personLvl int
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, fmt.Errorf("read plans: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch {
			case t.Name.Local == "person" && !inPerson:
				inPerson, done, personLvl = true, false, depth
				personID = attr(t, "id")
			case inPerson && !done && depth == personLvl+1 && t.Name.Local == "attributes":
				inAttrs = true
				if err := enc.EncodeToken(t); err != nil {
					return count, err
				}
				if err := a.writeAttribute(enc, personID); err != nil {
					return count, err
				}
				done = true
				count++
				continue
			case inPerson && inAttrs && depth == personLvl+2 && t.Name.Local == "attribute" && attr(t, "name") == a.Name:
				if err := dec.Skip(); err != nil {
					return count, fmt.Errorf("read plans: %w", err)
				}
				depth--
				continue
			case inPerson && !done && depth == personLvl+1:
				if err := a.writeBlock(enc, personID); err != nil {
					return count, err
				}
				done = true
				count++
			}
			if err := enc.EncodeToken(t); err != nil {
				return count, err
			}
		case xml.EndElement:
			if inPerson && depth == personLvl+1 && t.Name.Local == "attributes" {
				inAttrs = false
			}
			if inPerson && depth == personLvl && t.Name.Local == "person" {
				if !done {
					if err := a.writeBlock(enc, personID); err != nil {
						return count, err
					}
					count++
				}
				inPerson = false
			}
			depth--
			if err := enc.EncodeToken(t); err != nil {
				return count, err
			}
		default:
			if err := enc.EncodeToken(xml.CopyToken(tok)); err != nil {
				return count, err
			}
		}
	}
	if err := enc.Flush(); err != nil {
		return count, err
	}
	return count, nil
}

func (a AttributeInjector) writeBlock(enc *xml.Encoder, personID string) error {
	block := xml.StartElement{Name: xml.Name{Local: "attributes"}}
	if err := enc.EncodeToken(block); err != nil {
		return err
	}
	if err := a.writeAttribute(enc, personID); err != nil {
		return err
	}
	return enc.EncodeToken(block.End())
}

func (a AttributeInjector) writeAttribute(enc *xml.Encoder, personID string) error {
	start := xml.StartElement{
		Name: xml.Name{Local: "attribute"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "name"}, Value: a.Name},
			{Name: xml.Name{Local: "class"}, Value: a.Class},
		},
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := enc.EncodeToken(xml.CharData(a.Value(personID))); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}

func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
