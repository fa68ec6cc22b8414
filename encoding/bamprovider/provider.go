// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bamprovider

import (
	"strings"

	"github.com/grailbio/hts/sam"
)

// Opts defines options for NewIterator.
type Opts struct {
	// Type forces the file format. If Type==Unknown, the format is guessed from
	// the pathname, and the file is read as SAM if the guess fails.
	Type FileType

	// Parallelism is the number of goroutines used to decompress BGZF blocks of
	// a BAM file. Values <= 0 are treated as 1. Ignored for SAM.
	Parallelism int
}

// Iterator yields sam.Records of one file in file order. Thread compatible.
type Iterator interface {
	// Scan returns whether there are any records remaining in the iterator, and
	// if so, advances the iterator to the next record. If an error occurs,
	// Scan() returns false and the error can be retrieved by calling Err().
	//
	// REQUIRES: Close has not been called.
	Scan() bool

	// Record returns the current record in the iterator. This must be called
	// only after a call to Scan() returns true.
	//
	// REQUIRES: Close has not been called.
	Record() *sam.Record

	// Err returns the error encountered during iteration, or nil if no error
	// occurred. An io.EOF error will be translated to nil.
	Err() error

	// Close must be called exactly once. It releases the underlying file and
	// returns the value of Err(), or an error raised while closing.
	Close() error
}

// FileType represents the type of a SAM-like file.
type FileType int

const (
	// Unknown is a sentinel.
	Unknown FileType = iota
	// BAM file
	BAM
	// SAM file, optionally gzip-compressed.
	SAM
)

// String returns the lowercase name of the type, e.g., "bam".
func (t FileType) String() string {
	switch t {
	case BAM:
		return "bam"
	case SAM:
		return "sam"
	default:
		return "unknown"
	}
}

// ParseFileType parses the file type string. "bam" returns bamprovider.BAM, for
// example. On error, it returns Unknown.
func ParseFileType(name string) FileType {
	switch strings.ToLower(name) {
	case "bam":
		return BAM
	case "sam":
		return SAM
	default:
		return Unknown
	}
}

// GuessFileType returns the file type from the pathname. Returns Unknown if
// the pathname has no recognized extension.
func GuessFileType(path string) FileType {
	switch {
	case strings.HasSuffix(path, ".bam"):
		return BAM
	case strings.HasSuffix(path, ".sam"), strings.HasSuffix(path, ".sam.gz"):
		return SAM
	}
	return Unknown
}
