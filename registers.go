// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package svd

import "encoding/xml"

// RegisterCluster is implemented by Register and Cluster, the two
// kinds of nodes that may appear, interleaved, inside a <registers>
// element or a <cluster> element.
type RegisterCluster interface {
	registerCluster()
}

func (*Register) registerCluster() {}
func (*Cluster) registerCluster()  {}

// Registers is the ordered list of register and cluster children of a
// peripheral or cluster. The order of the elements in the document is
// preserved, which encoding/xml cannot do with two struct fields.
type Registers []RegisterCluster

func (rs *Registers) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "register":
				r := new(Register)
				if err := d.DecodeElement(r, &t); err != nil {
					return err
				}
				*rs = append(*rs, r)
			case "cluster":
				c := new(Cluster)
				if err := d.DecodeElement(c, &t); err != nil {
					return err
				}
				*rs = append(*rs, c)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// UnmarshalXML decodes a <cluster> element by hand: its register and
// nested cluster children are interleaved with the scalar child
// elements and must keep their document order.
func (c *Cluster) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		if a.Name.Local == "derivedFrom" {
			v := a.Value
			c.DerivedFrom = &v
		}
	}
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := c.decodeChild(d, t); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func (c *Cluster) decodeChild(d *xml.Decoder, se xml.StartElement) error {
	switch se.Name.Local {
	case "name":
		return d.DecodeElement(&c.Name, &se)
	case "description":
		return decStr(d, se, &c.Description)
	case "alternateCluster":
		return decStr(d, se, &c.AlternateCluster)
	case "headerStructName":
		return decStr(d, se, &c.HeaderStructName)
	case "addressOffset":
		return d.DecodeElement(&c.AddressOffset, &se)
	case "size":
		return decUint(d, se, &c.Size)
	case "access":
		return decStr(d, se, &c.Access)
	case "protection":
		return decStr(d, se, &c.Protection)
	case "resetValue":
		return decUint64(d, se, &c.ResetValue)
	case "resetMask":
		return decUint64(d, se, &c.ResetMask)
	case "dim":
		return decUint(d, se, &c.Dim)
	case "dimIncrement":
		return decUint(d, se, &c.DimIncrement)
	case "dimIndex":
		return decStr(d, se, &c.DimIndex)
	case "dimName":
		return decStr(d, se, &c.DimName)
	case "dimArrayIndex":
		c.DimArrayIndex = new(DimArrayIndex)
		return d.DecodeElement(c.DimArrayIndex, &se)
	case "register":
		r := new(Register)
		if err := d.DecodeElement(r, &se); err != nil {
			return err
		}
		c.Children = append(c.Children, r)
	case "cluster":
		nc := new(Cluster)
		if err := d.DecodeElement(nc, &se); err != nil {
			return err
		}
		c.Children = append(c.Children, nc)
	default:
		return d.Skip()
	}
	return nil
}

func decStr(d *xml.Decoder, se xml.StartElement, p **string) error {
	var s string
	if err := d.DecodeElement(&s, &se); err != nil {
		return err
	}
	*p = &s
	return nil
}

func decUint(d *xml.Decoder, se xml.StartElement, p **Uint) error {
	var u Uint
	if err := d.DecodeElement(&u, &se); err != nil {
		return err
	}
	*p = &u
	return nil
}

func decUint64(d *xml.Decoder, se xml.StartElement, p **Uint64) error {
	var u Uint64
	if err := d.DecodeElement(&u, &se); err != nil {
		return err
	}
	*p = &u
	return nil
}
