// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package compare

// Opts selects the optional checks. The zero value compares everything.
// Flag, position and sequence are always compared, as are reference name,
// mapq and cigar of mapped reads.
type Opts struct {
	// SkipQual disables the comparison of base quality strings.
	SkipQual bool
	// SkipAux disables the comparison of auxiliary tags.
	SkipAux bool
	// SkipTemplate disables the comparison of mate reference, mate position
	// and template length.
	SkipTemplate bool
	// SkipUnknownRG drops RG:Z:UNKNOWN from the tags before comparison.
	SkipUnknownRG bool
	// SkipMDNM drops the MD and NM tags before comparison.
	SkipMDNM bool
	// SkipQueryName disables the comparison of read names.
	SkipQueryName bool
}
