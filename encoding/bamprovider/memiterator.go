// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bamprovider

import (
	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/sam"
)

type sliceIterator struct {
	recs []*sam.Record
	rec  *sam.Record
}

// NewSliceIterator creates an iterator that yields recs in order. It is
// mainly for unittests.
func NewSliceIterator(recs []*sam.Record) Iterator {
	return &sliceIterator{recs: recs}
}

// Scan implements the Iterator interface.
func (i *sliceIterator) Scan() bool {
	if len(i.recs) == 0 {
		i.rec = nil
		return false
	}
	i.rec = i.recs[0]
	i.recs = i.recs[1:]
	return true
}

// Record implements the Iterator interface.
func (i *sliceIterator) Record() *sam.Record {
	// Return a copy so that the code under test cannot alter the
	// input records.
	copy := sam.GetFromFreePool()
	*copy = *i.rec
	return copy
}

// Err implements the Iterator interface.
func (i *sliceIterator) Err() error { return nil }

// Close implements the Iterator interface.
func (i *sliceIterator) Close() error { return nil }

// errorIterator yields nothing and reports a fixed error. NewIterator
// returns one when the file cannot be opened at all.
type errorIterator struct {
	err error
}

// NewErrorIterator creates an Iterator that yields no record and returns err
// from Err and Close.
func NewErrorIterator(err error) Iterator {
	return &errorIterator{err: err}
}

func (i *errorIterator) Scan() bool   { return false }
func (i *errorIterator) Err() error   { return i.err }
func (i *errorIterator) Close() error { return i.err }

func (i *errorIterator) Record() *sam.Record {
	log.Panicf("Record called on an error iterator: %v", i.err)
	return nil
}
