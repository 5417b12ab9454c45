// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package info

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/embeddedgo/svd/process"
	"github.com/embeddedgo/svd/svdtool/internal/util"
)

const Descr = "print the resolved memory map of an SVD file"

func Main(args []string) {
	if len(args) == 0 {
		fmt.Println(Descr)
		return
	}
	fs := flag.NewFlagSet(args[0], flag.ExitOnError)
	fs.Usage = func() {
		os.Stderr.WriteString("Usage:\n  info [OPTIONS] SVD\nOptions:\n")
		fs.PrintDefaults()
	}
	regs := fs.Bool("r", false, "list registers and fields")
	only := fs.String("p", "", "print only the given peripheral")
	fs.Parse(args[1:])
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}

	dev, err := util.LoadDevice(fs.Arg(0))
	util.FatalErr("", err)
	out, diags, err := process.Process(dev, nil)
	util.FatalErr("process", err)
	for _, d := range diags {
		util.Warn("%s", d.Error())
	}

	fmt.Printf("%s %s (%d-bit)\n", out.Name, out.Version, out.Width)
	tw := new(tabwriter.Writer)
	tw.Init(os.Stdout, 0, 0, 1, ' ', 0)
	for _, p := range out.Peripherals {
		if *only != "" && p.Name != *only {
			continue
		}
		fmt.Fprintf(tw, "%s\t %#010x\t %s\n", p.Name, p.BaseAddress, p.Description)
		if *regs {
			listItems(tw, p.Items)
		}
	}
	tw.Flush()
}

func listItems(tw *tabwriter.Writer, items []process.Item) {
	for _, it := range items {
		switch v := it.(type) {
		case *process.Register:
			fmt.Fprintf(tw, "  %#010x\t%3d\t %s", v.Address, v.Size, v.Name)
			for _, f := range v.Fields {
				if f.LSB == f.MSB {
					fmt.Fprintf(tw, " %s[%d]", f.Name, f.LSB)
				} else {
					fmt.Fprintf(tw, " %s[%d:%d]", f.Name, f.MSB, f.LSB)
				}
			}
			fmt.Fprintln(tw)
		case *process.Cluster:
			fmt.Fprintf(tw, "  %#010x\t\t %s{}\n", v.BaseAddress, v.Name)
			listItems(tw, v.Items)
		}
	}
}
