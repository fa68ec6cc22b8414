// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bamprovider

import (
	"fmt"
	"io"

	"github.com/grailbio/base/errorreporter"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/klauspost/compress/gzip"
)

// recordReader is implemented by both sam.Reader and bam.Reader.
type recordReader interface {
	Header() *sam.Header
	Read() (*sam.Record, error)
}

// fileIterator implements Iterator for a BAM or SAM file. The path is
// allowed to be any URL supported by grailbio/base/file.
type fileIterator struct {
	path string
	in   file.File
	gz   *gzip.Reader
	bamr *bam.Reader
	r    recordReader

	// nRecs is the number of records yielded so far.
	nRecs int
	rec   *sam.Record
	done  bool
	err   errorreporter.T
}

// NewIterator opens the given path and returns an iterator over its
// records. Errors encountered while opening the file are not returned here;
// they are reported by Err and Close of the returned iterator.
func NewIterator(path string, opts ...Opts) Iterator {
	o := Opts{}
	for _, opt := range opts {
		if opt.Type != Unknown {
			o.Type = opt.Type
		}
		if opt.Parallelism > 0 {
			o.Parallelism = opt.Parallelism
		}
	}
	if o.Type == Unknown {
		if o.Type = GuessFileType(path); o.Type == Unknown {
			log.Debug.Printf("%v: could not detect file type, reading as SAM", path)
			o.Type = SAM
		}
	}
	if o.Parallelism <= 0 {
		o.Parallelism = 1
	}

	ctx := vcontext.Background()
	in, err := file.Open(ctx, path)
	if err != nil {
		return NewErrorIterator(errors.E(err, "open", path))
	}
	iter := &fileIterator{path: path, in: in}
	reader := io.Reader(in.Reader(ctx))
	switch o.Type {
	case BAM:
		if iter.bamr, err = bam.NewReader(reader, o.Parallelism); err != nil {
			iter.err.Set(errors.E(err, fmt.Sprintf("%s: failed to open BAM", path)))
			break
		}
		iter.r = iter.bamr
	default:
		if fileio.DetermineType(path) == fileio.Gzip {
			if iter.gz, err = gzip.NewReader(reader); err != nil {
				iter.err.Set(errors.E(err, fmt.Sprintf("%s: failed to open gzip stream", path)))
				break
			}
			reader = iter.gz
		}
		samr, err := sam.NewReader(reader)
		if err != nil {
			iter.err.Set(errors.E(err, fmt.Sprintf("%s: failed to open SAM", path)))
			break
		}
		iter.r = samr
	}
	if iter.r != nil {
		log.Debug.Printf("%v: opened as %v, %d references", path, o.Type, len(iter.r.Header().Refs()))
	}
	return iter
}

// Scan implements the Iterator interface.
func (i *fileIterator) Scan() bool {
	if i.done || i.err.Err() != nil {
		return false
	}
	rec, err := i.r.Read()
	if err != nil {
		if err != io.EOF {
			i.err.Set(errors.E(err, fmt.Sprintf("%s: failed to read record #%d", i.path, i.nRecs+1)))
		}
		i.done = true
		i.rec = nil
		return false
	}
	i.nRecs++
	i.rec = rec
	return true
}

// Record implements the Iterator interface.
func (i *fileIterator) Record() *sam.Record {
	return i.rec
}

// Err implements the Iterator interface.
func (i *fileIterator) Err() error {
	return i.err.Err()
}

// Close implements the Iterator interface.
func (i *fileIterator) Close() error {
	if i.bamr != nil {
		i.err.Set(i.bamr.Close())
	}
	if i.gz != nil {
		i.err.Set(i.gz.Close())
	}
	i.err.Set(i.in.Close(vcontext.Background()))
	i.rec = nil
	return i.err.Err()
}
