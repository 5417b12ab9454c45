// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package check

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/embeddedgo/svd/process"
	"github.com/embeddedgo/svd/svdtool/internal/util"
)

const Descr = "process SVD files and report semantic diagnostics"

func Main(args []string) {
	if len(args) == 0 {
		fmt.Println(Descr)
		return
	}
	fs := flag.NewFlagSet(args[0], flag.ExitOnError)
	fs.Usage = func() {
		os.Stderr.WriteString("Usage:\n  check [OPTIONS] SVD...\nOptions:\n")
		fs.PrintDefaults()
	}
	warnings := fs.Bool("w", false, "report warnings too")
	fs.Parse(args[1:])
	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(1)
	}
	files := fs.Args()

	type result struct {
		diags []*process.Diag
		err   error
	}
	results := make([]result, len(files))
	g := new(errgroup.Group)
	for i, file := range files {
		g.Go(func() error {
			dev, err := util.LoadDevice(file)
			if err != nil {
				results[i] = result{err: err}
				return nil
			}
			_, diags, err := process.Process(dev, &process.Options{CollectDiagnostics: true})
			results[i] = result{diags: diags, err: err}
			return nil
		})
	}
	g.Wait()

	bad := false
	for i, file := range files {
		r := results[i]
		if r.err != nil {
			util.Warn("%s: %v", file, r.err)
			bad = true
			continue
		}
		for _, d := range r.diags {
			if d.Warning && !*warnings {
				continue
			}
			if !d.Warning {
				bad = true
			}
			fmt.Printf("%s: %s\n", file, d.Error())
		}
	}
	if bad {
		os.Exit(1)
	}
}
