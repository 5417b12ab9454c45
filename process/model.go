// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package process

// The processed model: the same shape as the input tree but with all
// derivedFrom links resolved and removed, dim groups expanded into
// sibling lists, inheritable properties propagated, enumerations
// flattened and absolute addresses computed.

// Access is a register or field access qualifier.
type Access string

const (
	ReadOnly      Access = "read-only"
	WriteOnly     Access = "write-only"
	ReadWrite     Access = "read-write"
	WriteOnce     Access = "writeOnce"
	ReadWriteOnce Access = "read-writeOnce"
)

// Protection is an access-protection qualifier: secure, non-secure or
// privileged.
type Protection string

const (
	Secure     Protection = "s"
	NonSecure  Protection = "n"
	Privileged Protection = "p"
)

// Usage tells whether an enumeration applies to reads, writes or both.
type Usage string

const (
	UsageRead      Usage = "read"
	UsageWrite     Usage = "write"
	UsageReadWrite Usage = "read-write"
)

// BlockUsage classifies an address block.
type BlockUsage string

const (
	BlockRegisters BlockUsage = "registers"
	BlockBuffer    BlockUsage = "buffer"
	BlockReserved  BlockUsage = "reserved"
)

// Endian is the endianness descriptor of a CPU.
type Endian string

const (
	Little     Endian = "little"
	Big        Endian = "big"
	Selectable Endian = "selectable"
	OtherEnd   Endian = "other"
)

// SAUAccess is the access type of an SAU region.
type SAUAccess string

const (
	NonSecureCallable SAUAccess = "c"
	NonSecureOnly     SAUAccess = "n"
)

type Device struct {
	SchemaVersion           string
	Vendor                  string
	VendorID                string
	Name                    string
	Series                  string
	Version                 string
	Description             string
	LicenseText             string
	CPU                     *CPU
	HeaderSystemFilename    string
	HeaderDefinitionsPrefix string
	AddressUnitBits         uint
	Width                   uint

	Size       uint
	Access     Access
	Protection Protection
	ResetValue uint64
	ResetMask  uint64

	Peripherals []*Peripheral

	// VendorExtensions is the opaque payload from the input document,
	// passed through unchanged.
	VendorExtensions []byte

	// Partial is set in collect-diagnostics mode when fatal
	// diagnostics were raised and parts of the tree were skipped.
	Partial bool
}

type CPU struct {
	Name                string
	Revision            string
	Endian              Endian
	MPUPresent          bool
	FPUPresent          bool
	FPUDP               bool
	DSPPresent          bool
	IcachePresent       bool
	DcachePresent       bool
	ITCMPresent         bool
	DTCMPresent         bool
	VTORPresent         bool
	NVICPrioBits        uint
	VendorSystickConfig bool
	DeviceNumInterrupts *uint
	SAUNumRegions       *uint
	SAURegionsConfig    *SAURegionsConfig
}

type SAURegionsConfig struct {
	Enabled                bool
	ProtectionWhenDisabled Protection
	Regions                []*SAURegion
}

type SAURegion struct {
	Enabled bool
	Name    string
	Base    uint64
	Limit   uint64
	Access  SAUAccess
}

// Item is a register or cluster in the ordered child list of a
// peripheral or cluster. Expanded dim elements appear as ordinary
// items, inserted in ascending index order at the template's position.
type Item interface {
	item()
}

func (*Register) item() {}
func (*Cluster) item()  {}

type Peripheral struct {
	Name                string
	Version             string
	Description         string
	AlternatePeripheral string
	GroupName           string
	PrependToName       string
	AppendToName        string
	HeaderStructName    string
	DisableCondition    string
	BaseAddress         uint64

	Size       uint
	Access     Access
	Protection Protection
	ResetValue uint64
	ResetMask  uint64

	AddressBlocks []*AddressBlock
	Interrupts    []*Interrupt
	Items         []Item

	// Array is set on instances expanded from an array-form dim
	// group; Index carries the expansion index token for both forms.
	Array     bool
	Index     string
	IndexEnum *EnumeratedValues
}

type AddressBlock struct {
	Offset     uint64
	Size       uint64
	Usage      BlockUsage
	Protection Protection
}

type Interrupt struct {
	Name        string
	Description string
	Value       int
}

type Cluster struct {
	Name             string
	Description      string
	AlternateCluster string
	HeaderStructName string
	AddressOffset    uint64

	// BaseAddress and EndAddress are the absolute span of the
	// cluster; EndAddress is one past the last byte covered by a
	// descendant register.
	BaseAddress uint64
	EndAddress  uint64

	Size       uint
	Access     Access
	Protection Protection
	ResetValue uint64
	ResetMask  uint64

	Items []Item

	Array     bool
	Index     string
	IndexEnum *EnumeratedValues
}

type Register struct {
	Name              string
	DisplayName       string
	Description       string
	AlternateGroup    string
	AlternateRegister string
	AddressOffset     uint64

	// Address is the absolute address: peripheral base plus the
	// cluster offsets along the path plus AddressOffset.
	Address uint64

	Size       uint
	Access     Access
	Protection Protection
	ResetValue uint64
	ResetMask  uint64

	DataType            string
	ModifiedWriteValues string
	WriteConstraint     *WriteConstraint
	ReadAction          string

	Fields []*Field

	Array     bool
	Index     string
	IndexEnum *EnumeratedValues
}

type WriteConstraint struct {
	WriteAsRead         bool
	UseEnumeratedValues bool
	Range               *Range
}

type Range struct {
	Minimum uint64
	Maximum uint64
}

type Field struct {
	Name        string
	Description string
	LSB         uint
	MSB         uint

	Access              Access
	ModifiedWriteValues string
	WriteConstraint     *WriteConstraint
	ReadAction          string

	// Enums holds at most two containers keyed by usage; a single
	// read-write container serves both usages.
	Enums []*EnumeratedValues

	Array bool
	Index string
}

// Width returns the bit width of the field.
func (f *Field) Width() uint { return f.MSB - f.LSB + 1 }

// ReadEnum returns the container that applies to reads, if any.
func (f *Field) ReadEnum() *EnumeratedValues { return f.usageEnum(UsageRead) }

// WriteEnum returns the container that applies to writes, if any.
func (f *Field) WriteEnum() *EnumeratedValues { return f.usageEnum(UsageWrite) }

func (f *Field) usageEnum(u Usage) *EnumeratedValues {
	for _, e := range f.Enums {
		if e.Usage == u || e.Usage == UsageReadWrite {
			return e
		}
	}
	return nil
}

type EnumeratedValues struct {
	Name           string
	HeaderEnumName string
	Usage          Usage
	Values         []*EnumeratedValue

	// Complete reports whether the container covers every value of
	// the field's bit space (always true after isDefault expansion).
	Complete bool
}

type EnumeratedValue struct {
	Name        string
	Description string
	Value       uint64
}

// Register returns the direct child register with the given name.
func (p *Peripheral) Register(name string) *Register {
	return findRegister(p.Items, name)
}

// Cluster returns the direct child cluster with the given name.
func (p *Peripheral) Cluster(name string) *Cluster {
	return findCluster(p.Items, name)
}

// Register returns the direct child register with the given name.
func (c *Cluster) Register(name string) *Register {
	return findRegister(c.Items, name)
}

// Cluster returns the direct nested cluster with the given name.
func (c *Cluster) Cluster(name string) *Cluster {
	return findCluster(c.Items, name)
}

// Peripheral returns the peripheral with the given name.
func (d *Device) Peripheral(name string) *Peripheral {
	for _, p := range d.Peripherals {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Field returns the field with the given name.
func (r *Register) Field(name string) *Field {
	for _, f := range r.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func findRegister(items []Item, name string) *Register {
	for _, it := range items {
		if r, ok := it.(*Register); ok && r.Name == name {
			return r
		}
	}
	return nil
}

func findCluster(items []Item, name string) *Cluster {
	for _, it := range items {
		if c, ok := it.(*Cluster); ok && c.Name == name {
			return c
		}
	}
	return nil
}
