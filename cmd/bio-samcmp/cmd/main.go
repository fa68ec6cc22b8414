// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	golog "log"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/samcmp/compare"
	"github.com/grailbio/samcmp/encoding/bamprovider"
	"v.io/x/lib/cmdline"
)

const cmdName = "bio-samcmp"

type cmpFlags struct {
	file1, file2     string
	format1, format2 string
	parallelism      int
	opts             compare.Opts
}

func newCmdRoot() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  cmdName,
		Short: "Compare two SAM/BAM files record by record",
		Long: `
bio-samcmp checks that two SAM/BAM files contain equivalent records, in the
same order. The Nth record of file1 is compared with the Nth record of file2.
Flag, position and sequence are always compared; reference name, mapq and
cigar are compared unless either read is unmapped. Other fields can be
excluded with the flags below.

The command stops at the first difference, prints it to stderr, and exits
with status 1. It exits with status 0 and prints nothing if the files match.
Files ending in .bam are read as BAM, everything else as SAM (optionally
gzip-compressed).
`,
		ArgsName: "[file1 file2]",
		ArgsLong: "file1 and file2 may be given as arguments instead of with -file1 and -file2.",
	}
	f := &cmpFlags{}
	cmd.Flags.StringVar(&f.file1, "file1", "", "SAM/BAM file #1")
	cmd.Flags.StringVar(&f.file1, "f", "", "Shorthand for -file1")
	cmd.Flags.StringVar(&f.file2, "file2", "", "SAM/BAM file #2")
	cmd.Flags.StringVar(&f.file2, "g", "", "Shorthand for -file2")
	cmd.Flags.BoolVar(&f.opts.SkipQual, "noqual", false, "Do not compare qualities")
	cmd.Flags.BoolVar(&f.opts.SkipQual, "q", false, "Shorthand for -noqual")
	cmd.Flags.BoolVar(&f.opts.SkipAux, "noaux", false, "Do not compare auxiliary fields")
	cmd.Flags.BoolVar(&f.opts.SkipAux, "a", false, "Shorthand for -noaux")
	cmd.Flags.BoolVar(&f.opts.SkipTemplate, "notemplate", false, "Do not compare template/mate info")
	cmd.Flags.BoolVar(&f.opts.SkipTemplate, "t", false, "Shorthand for -notemplate")
	cmd.Flags.BoolVar(&f.opts.SkipUnknownRG, "unknownrg", false, "Skip RG:Z:UNKNOWN tags")
	cmd.Flags.BoolVar(&f.opts.SkipUnknownRG, "u", false, "Shorthand for -unknownrg")
	cmd.Flags.BoolVar(&f.opts.SkipMDNM, "nomd", false, "Do not compare MD/NM fields")
	cmd.Flags.BoolVar(&f.opts.SkipMDNM, "m", false, "Shorthand for -nomd")
	cmd.Flags.BoolVar(&f.opts.SkipQueryName, "noqname", false, "Do not compare query (read) names")
	cmd.Flags.BoolVar(&f.opts.SkipQueryName, "r", false, "Shorthand for -noqname")
	cmd.Flags.StringVar(&f.format1, "format1", "", `Format of file1, "bam" or "sam". By default, guessed from the file name.`)
	cmd.Flags.StringVar(&f.format2, "format2", "", `Format of file2, "bam" or "sam". By default, guessed from the file name.`)
	cmd.Flags.IntVar(&f.parallelism, "parallelism", 1, "Number of goroutines used to decompress each BAM file")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		return run(env, f, argv)
	})
	return cmd
}

func parseFormat(env *cmdline.Env, name, value string) (bamprovider.FileType, error) {
	if value == "" {
		return bamprovider.Unknown, nil
	}
	t := bamprovider.ParseFileType(value)
	if t == bamprovider.Unknown {
		return t, env.UsageErrorf("-%s: unknown format %q", name, value)
	}
	return t, nil
}

// run compares the two files. A mismatch is printed to env.Stderr and turned
// into exit status 1. Usage errors are detected before any file is opened.
func run(env *cmdline.Env, f *cmpFlags, argv []string) error {
	path1, path2 := f.file1, f.file2
	if len(argv) > 0 {
		if len(argv) != 2 || path1 != "" || path2 != "" {
			return env.UsageErrorf("expect two file arguments or -file1 and -file2, but got %v", argv)
		}
		path1, path2 = argv[0], argv[1]
	}
	if path1 == "" || path2 == "" {
		return env.UsageErrorf("options --file1 and --file2 are mandatory")
	}
	type1, err := parseFormat(env, "format1", f.format1)
	if err != nil {
		return err
	}
	type2, err := parseFormat(env, "format2", f.format2)
	if err != nil {
		return err
	}

	iter1 := bamprovider.NewIterator(path1, bamprovider.Opts{Type: type1, Parallelism: f.parallelism})
	iter2 := bamprovider.NewIterator(path2, bamprovider.Opts{Type: type2, Parallelism: f.parallelism})
	n, err := compare.NewComparator(f.opts).Compare(iter1, iter2)
	e := errors.Once{}
	e.Set(iter1.Close())
	e.Set(iter2.Close())

	switch err := err.(type) {
	case nil:
	case *compare.Mismatch:
		fmt.Fprintf(env.Stderr, "%s: %s\n", cmdName, compare.Format(err))
		if err.Kind == compare.LengthMismatch {
			fmt.Fprintf(env.Stderr, "%s: input 1 is %s, input 2 is %s\n", cmdName, path1, path2)
		}
		return cmdline.ErrExitCode(1)
	default:
		return err
	}
	if err := e.Err(); err != nil {
		return err
	}
	log.Debug.Printf("%s, %s: %d records match", path1, path2, n)
	return nil
}

// Run is the entry point of bio-samcmp.
func Run() {
	golog.SetFlags(golog.Ldate | golog.Ltime | golog.Lmicroseconds | golog.Lshortfile)
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(newCmdRoot())
}
