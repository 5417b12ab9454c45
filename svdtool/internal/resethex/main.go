// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resethex

import (
	"encoding/binary"
	"flag"
	"fmt"
	"os"

	"github.com/marcinbor85/gohex"

	"github.com/embeddedgo/svd/process"
	"github.com/embeddedgo/svd/svdtool/internal/util"
)

const Descr = "write an Intel HEX image of the register reset values"

func Main(args []string) {
	if len(args) == 0 {
		fmt.Println(Descr)
		return
	}
	fs := flag.NewFlagSet(args[0], flag.ExitOnError)
	fs.Usage = func() {
		os.Stderr.WriteString("Usage:\n  resethex [OPTIONS] SVD [HEX]\nOptions:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args[1:])
	if fs.NArg() < 1 || fs.NArg() > 2 {
		fs.Usage()
		os.Exit(1)
	}
	in := fs.Arg(0)
	out := util.OutFile(in, fs.Arg(1), ".hex")

	dev, err := util.LoadDevice(in)
	util.FatalErr("", err)
	pd, _, err := process.Process(dev, nil)
	util.FatalErr("process", err)

	mem := gohex.NewMemory()
	seen := make(map[uint64]bool)
	for _, p := range pd.Peripherals {
		addRegs(mem, seen, p.Items)
	}
	w, err := os.Create(out)
	util.FatalErr("", err)
	defer w.Close()
	err = mem.DumpIntelHex(w, 16)
	util.FatalErr("dumpintelhex", err)
}

func addRegs(mem *gohex.Memory, seen map[uint64]bool, items []process.Item) {
	for _, it := range items {
		switch v := it.(type) {
		case *process.Register:
			// Alternate registers share an address; the first one
			// provides the reset value.
			if seen[v.Address] {
				continue
			}
			seen[v.Address] = true
			buf := make([]byte, 8)
			binary.LittleEndian.PutUint64(buf, v.ResetValue&v.ResetMask)
			mem.AddBinary(uint32(v.Address), buf[:(v.Size+7)/8])
		case *process.Cluster:
			addRegs(mem, seen, v.Items)
		}
	}
}
