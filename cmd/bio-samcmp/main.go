// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package main

// bio-samcmp compares two SAM/BAM files record by record.
//
// Usage: bio-samcmp [flags] -file1 a.bam -file2 b.sam

import (
	"github.com/grailbio/samcmp/cmd/bio-samcmp/cmd"
)

func main() {
	cmd.Run()
}
