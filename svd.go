// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package svd provides the data model for parsed but untransformed
// CMSIS-SVD device descriptions: the raw tree as written by the SVD
// author, with derivedFrom links, dim groups and inheritable
// properties still unresolved. The process package turns this model
// into a fully expanded one.
package svd

import (
	"encoding/xml"
	"strconv"
)

// Int decodes an SVD integer that may be negative (interrupt values).
type Int int

func (i *Int) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	v, err := strconv.ParseInt(s, 0, 0)
	*i = Int(v)
	return err
}

// Uint decodes an SVD scaledNonNegativeInteger into an uint.
type Uint uint

func (u *Uint) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	v, err := ParseScaled(s)
	*u = Uint(v)
	return err
}

// Uint64 decodes an SVD scaledNonNegativeInteger into an uint64.
type Uint64 uint64

func (u *Uint64) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	v, err := ParseScaled(s)
	*u = Uint64(v)
	return err
}

type Device struct {
	SchemaVersion           string  `xml:"schemaVersion,attr"`
	Vendor                  *string `xml:"vendor"`
	VendorID                *string `xml:"vendorID"`
	Name                    string  `xml:"name"`
	Series                  *string `xml:"series"`
	Version                 string  `xml:"version"`
	Description             string  `xml:"description"`
	LicenseText             *string `xml:"licenseText"`
	CPU                     *CPU    `xml:"cpu"`
	HeaderSystemFilename    *string `xml:"headerSystemFilename"`
	HeaderDefinitionsPrefix *string `xml:"headerDefinitionsPrefix"`
	AddressUnitBits         Uint    `xml:"addressUnitBits"`
	Width                   Uint    `xml:"width"`
	RegisterPropertiesGroup
	Peripherals      []*Peripheral     `xml:"peripherals>peripheral"`
	VendorExtensions *VendorExtensions `xml:"vendorExtensions"`
}

// VendorExtensions carries the opaque vendor-extension payload through
// processing untouched.
type VendorExtensions struct {
	XML []byte `xml:",innerxml"`
}

type CPU struct {
	Name                string            `xml:"name"`
	Revision            string            `xml:"revision"`
	Endian              string            `xml:"endian"`
	MPUPresent          *bool             `xml:"mpuPresent"`
	FPUPresent          *bool             `xml:"fpuPresent"`
	FPUDP               *bool             `xml:"fpuDP"`
	DSPPresent          *bool             `xml:"dspPresent"`
	IcachePresent       *bool             `xml:"icachePresent"`
	DcachePresent       *bool             `xml:"dcachePresent"`
	ITCMPresent         *bool             `xml:"itcmPresent"`
	DTCMPresent         *bool             `xml:"dtcmPresent"`
	VTORPresent         *bool             `xml:"vtorPresent"`
	NVICPrioBits        Uint              `xml:"nvicPrioBits"`
	VendorSystickConfig bool              `xml:"vendorSystickConfig"`
	DeviceNumInterrupts *Uint             `xml:"deviceNumInterrupts"`
	SAUNumRegions       *Uint             `xml:"sauNumRegions"`
	SAURegionsConfig    *SAURegionsConfig `xml:"sauRegionsConfig"`
}

type SAURegionsConfig struct {
	Enabled                *bool        `xml:"enabled,attr"`
	ProtectionWhenDisabled *string      `xml:"protectionWhenDisabled,attr"`
	Regions                []*SAURegion `xml:"region"`
}

type SAURegion struct {
	Enabled *bool   `xml:"enabled,attr"`
	Name    *string `xml:"name,attr"`
	Base    Uint64  `xml:"base"`
	Limit   Uint64  `xml:"limit"`
	Access  string  `xml:"access"`
}

// RegisterPropertiesGroup holds the inheritable register properties.
// Any subset may be present at any level of the tree.
type RegisterPropertiesGroup struct {
	Size       *Uint   `xml:"size"`
	Access     *string `xml:"access"`
	Protection *string `xml:"protection"`
	ResetValue *Uint64 `xml:"resetValue"`
	ResetMask  *Uint64 `xml:"resetMask"`
}

// DimElementGroup drives array/list expansion. Dim == nil means the
// node is not dimmed.
type DimElementGroup struct {
	Dim           *Uint          `xml:"dim"`
	DimIncrement  *Uint          `xml:"dimIncrement"`
	DimIndex      *string        `xml:"dimIndex"`
	DimName       *string        `xml:"dimName"`
	DimArrayIndex *DimArrayIndex `xml:"dimArrayIndex"`
}

// DimArrayIndex attaches an enumeration over the indices of an
// array-form dim element.
type DimArrayIndex struct {
	HeaderEnumName  *string            `xml:"headerEnumName"`
	EnumeratedValue []*EnumeratedValue `xml:"enumeratedValue"`
}

type Peripheral struct {
	DerivedFrom *string `xml:"derivedFrom,attr"`
	DimElementGroup
	Name                string  `xml:"name"`
	Version             *string `xml:"version"`
	Description         *string `xml:"description"`
	AlternatePeripheral *string `xml:"alternatePeripheral"`
	GroupName           *string `xml:"groupName"`
	PrependToName       *string `xml:"prependToName"`
	AppendToName        *string `xml:"appendToName"`
	HeaderStructName    *string `xml:"headerStructName"`
	DisableCondition    *string `xml:"disableCondition"`
	BaseAddress         Uint64  `xml:"baseAddress"`
	RegisterPropertiesGroup
	AddressBlocks []*AddressBlock `xml:"addressBlock"`
	Interrupts    []*Interrupt    `xml:"interrupt"`
	Registers     Registers       `xml:"registers"`
}

type AddressBlock struct {
	Offset     Uint64  `xml:"offset"`
	Size       Uint64  `xml:"size"`
	Usage      string  `xml:"usage"`
	Protection *string `xml:"protection"`
}

type Interrupt struct {
	Name        string  `xml:"name"`
	Description *string `xml:"description"`
	Value       Int     `xml:"value"`
}

type Register struct {
	DerivedFrom *string `xml:"derivedFrom,attr"`
	DimElementGroup
	Name              string  `xml:"name"`
	DisplayName       *string `xml:"displayName"`
	Description       *string `xml:"description"`
	AlternateGroup    *string `xml:"alternateGroup"`
	AlternateRegister *string `xml:"alternateRegister"`
	AddressOffset     Uint64  `xml:"addressOffset"`
	RegisterPropertiesGroup
	DataType            *string          `xml:"dataType"`
	ModifiedWriteValues *string          `xml:"modifiedWriteValues"`
	WriteConstraint     *WriteConstraint `xml:"writeConstraint"`
	ReadAction          *string          `xml:"readAction"`
	Fields              []*Field         `xml:"fields>field"`
}

// Cluster has a custom unmarshaler (see registers.go): its register
// and nested cluster children must keep their source order.
type Cluster struct {
	DerivedFrom *string
	DimElementGroup
	Name             string
	Description      *string
	AlternateCluster *string
	HeaderStructName *string
	AddressOffset    Uint64
	RegisterPropertiesGroup
	Children Registers
}

type WriteConstraint struct {
	WriteAsRead         *bool  `xml:"writeAsRead"`
	UseEnumeratedValues *bool  `xml:"useEnumeratedValues"`
	Range               *Range `xml:"range"`
}

type Range struct {
	Minimum Uint64 `xml:"minimum"`
	Maximum Uint64 `xml:"maximum"`
}

type Field struct {
	DerivedFrom *string `xml:"derivedFrom,attr"`
	DimElementGroup
	Name        string  `xml:"name"`
	Description *string `xml:"description"`
	BitOffset   *Uint   `xml:"bitOffset"`
	BitWidth    *Uint   `xml:"bitWidth"`
	LSB         *Uint   `xml:"lsb"`
	MSB         *Uint   `xml:"msb"`
	BitRange    *string `xml:"bitRange"`
	Access      *string `xml:"access"`

	ModifiedWriteValues *string             `xml:"modifiedWriteValues"`
	WriteConstraint     *WriteConstraint    `xml:"writeConstraint"`
	ReadAction          *string             `xml:"readAction"`
	EnumeratedValues    []*EnumeratedValues `xml:"enumeratedValues"`
}

// EnumeratedValues is a container of enumerated values for one usage
// (read, write or read-write) of a field.
type EnumeratedValues struct {
	DerivedFrom     *string            `xml:"derivedFrom,attr"`
	Name            *string            `xml:"name"`
	HeaderEnumName  *string            `xml:"headerEnumName"`
	Usage           *string            `xml:"usage"`
	EnumeratedValue []*EnumeratedValue `xml:"enumeratedValue"`
}

type EnumeratedValue struct {
	Name        string  `xml:"name"`
	Description *string `xml:"description"`
	Value       *string `xml:"value"`
	IsDefault   *bool   `xml:"isDefault"`
}
