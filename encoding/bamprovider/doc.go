// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package bamprovider opens BAM and SAM files and yields their records
// sequentially, in file order.
//
// NewIterator reads a BAM, SAM or gzip-compressed SAM file from a local path
// or any URL supported by github.com/grailbio/base/file. NewSliceIterator
// and NewErrorIterator yield records from memory and are mainly for tests.
package bamprovider
