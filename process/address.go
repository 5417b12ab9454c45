// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package process

// computeAddresses fills in the absolute addresses: cluster offsets
// nest additively, so a register's address is the peripheral base
// plus the cluster offsets along its path plus its own offset.
func computeAddresses(d *Device) {
	for _, p := range d.Peripherals {
		resolveItemAddrs(p.Items, p.BaseAddress)
	}
}

func resolveItemAddrs(items []Item, base uint64) (end uint64) {
	end = base
	for _, it := range items {
		switch v := it.(type) {
		case *Register:
			v.Address = base + v.AddressOffset
			if e := v.Address + regBytes(v.Size); e > end {
				end = e
			}
		case *Cluster:
			v.BaseAddress = base + v.AddressOffset
			v.EndAddress = resolveItemAddrs(v.Items, v.BaseAddress)
			if v.EndAddress > end {
				end = v.EndAddress
			}
		}
	}
	return end
}

// regBytes returns the number of bytes a register occupies; address
// units are taken to be 8 bits wide.
func regBytes(size uint) uint64 {
	return uint64(size+7) / 8
}
