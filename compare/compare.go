// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package compare

import (
	"bytes"
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/sam"
)

// Field names reported in Mismatch.Field.
const (
	FieldFlag    = "flag"
	FieldPos     = "pos"
	FieldSeq     = "seq"
	FieldRefName = "rname"
	FieldMapQ    = "mapq"
	FieldCigar   = "cigar"
	FieldName    = "qname"
	FieldQual    = "qual"
	FieldMatePos = "pnext"
	FieldTempLen = "tlen"
	FieldMateRef = "rnext"
	FieldAux     = "optional tags"
	FieldRecords = "records"
)

// progressInterval is the number of record pairs between debug progress
// messages.
const progressInterval = 1 << 20

// Source is a sequence of records. It is implemented by
// bamprovider.Iterator.
type Source interface {
	// Scan advances to the next record and reports whether there is one.
	Scan() bool
	// Record returns the current record.
	Record() *sam.Record
	// Err returns the error that stopped Scan, or nil at the end of input.
	Err() error
}

// Comparator compares records under a fixed Opts. Thread compatible.
type Comparator struct {
	opts Opts
}

// NewComparator creates a Comparator. opts cannot be changed afterwards.
func NewComparator(opts Opts) *Comparator {
	return &Comparator{opts: opts}
}

// Opts returns the options the comparator was created with.
func (c *Comparator) Opts() Opts { return c.opts }

// Compare reads a and b in lock-step and compares each pair of records with
// Records. It stops at the first difference and returns it as a *Mismatch.
// If one input ends before the other, it returns a LengthMismatch. A read
// error from either input is returned as is, wrapped with the input number.
//
// Compare returns the number of record pairs it looked at, including the
// failing one. It does not close a or b.
func (c *Comparator) Compare(a, b Source) (int, error) {
	n := 0
	for {
		ok1, ok2 := a.Scan(), b.Scan()
		if err := a.Err(); err != nil {
			return n, errors.E(err, "input 1")
		}
		if err := b.Err(); err != nil {
			return n, errors.E(err, "input 2")
		}
		if !ok1 && !ok2 {
			log.Debug.Printf("compared %d records, no difference", n)
			return n, nil
		}
		n++
		if ok1 != ok2 {
			m := &Mismatch{Kind: LengthMismatch, Field: FieldRecords, Record: n, Value1: EndOfInput, Value2: EndOfInput}
			if ok1 {
				m.Value1 = a.Record().Name
			} else {
				m.Value2 = b.Record().Name
			}
			return n, m
		}
		r1, r2 := a.Record(), b.Record()
		err := c.Records(n, r1, r2)
		sam.PutInFreePool(r1)
		sam.PutInFreePool(r2)
		if err != nil {
			return n, err
		}
		if n%progressInterval == 0 && log.At(log.Debug) {
			log.Debug.Printf("compared %d records", n)
		}
	}
}

// Records compares one pair of records. n is the 1-based index of the pair,
// used only for reporting. The checks run in a fixed order: flag, pos, seq;
// rname, mapq and cigar unless either read is unmapped; then qname, qual,
// template (pnext, tlen, rnext) and aux, each unless disabled by Opts. It
// returns a *Mismatch for the first failing check, or nil.
func (c *Comparator) Records(n int, r1, r2 *sam.Record) error {
	if r1.Flags != r2.Flags {
		return newMismatch(FieldFlag, n, int(r1.Flags), int(r2.Flags))
	}
	if r1.Pos != r2.Pos {
		return newMismatch(FieldPos, n, r1.Pos, r2.Pos)
	}
	if s1, s2 := r1.Seq.Expand(), r2.Seq.Expand(); !bytes.Equal(s1, s2) {
		return newMismatch(FieldSeq, n, seqString(s1), seqString(s2))
	}

	// Unmapped reads may keep a stale reference, mapq and cigar. The case where
	// only one of the two is unmapped is let through as well.
	if !isUnmapped(r1) && !isUnmapped(r2) {
		if n1, n2 := refName(r1.Ref), refName(r2.Ref); n1 != n2 {
			return newMismatch(FieldRefName, n, n1, n2)
		}
		if r1.MapQ != r2.MapQ {
			return newMismatch(FieldMapQ, n, int(r1.MapQ), int(r2.MapQ))
		}
		if !cigarEqual(r1.Cigar, r2.Cigar) {
			return newMismatch(FieldCigar, n, r1.Cigar, r2.Cigar)
		}
	}

	if !c.opts.SkipQueryName && r1.Name != r2.Name {
		return newMismatch(FieldName, n, r1.Name, r2.Name)
	}

	if !c.opts.SkipQual {
		if q1, q2 := qualString(r1.Qual), qualString(r2.Qual); q1 != q2 {
			return newMismatch(FieldQual, n, q1, q2)
		}
	}

	if !c.opts.SkipTemplate {
		if r1.MatePos != r2.MatePos {
			return newMismatch(FieldMatePos, n, r1.MatePos, r2.MatePos)
		}
		if r1.TempLen != r2.TempLen {
			return newMismatch(FieldTempLen, n, r1.TempLen, r2.TempLen)
		}
		if r1.MateRef == nil || r2.MateRef == nil {
			if r1.MateRef != r2.MateRef {
				m := newMismatch(FieldMateRef, n, refName(r1.MateRef), refName(r2.MateRef))
				m.Kind = MateRefMismatch
				return m
			}
		} else if n1, n2 := refName(r1.MateRef), refName(r2.MateRef); n1 != n2 {
			return newMismatch(FieldMateRef, n, n1, n2)
		}
	}

	if !c.opts.SkipAux {
		if t1, t2 := NewTagSet(r1.AuxFields, c.opts), NewTagSet(r2.AuxFields, c.opts); !t1.Equal(t2) {
			return newMismatch(FieldAux, n, t1, t2)
		}
	}
	return nil
}

func isUnmapped(r *sam.Record) bool {
	return r.Flags&sam.Unmapped != 0
}

// refName returns the name of ref, or "*" for the unmapped sentinel. The
// sentinel is never looked up.
func refName(ref *sam.Reference) string {
	if ref == nil {
		return "*"
	}
	return ref.Name()
}

func cigarEqual(c1, c2 sam.Cigar) bool {
	if len(c1) != len(c2) {
		return false
	}
	for i := range c1 {
		if c1[i] != c2[i] {
			return false
		}
	}
	return true
}

func seqString(s []byte) string {
	if len(s) == 0 {
		return "*"
	}
	return string(s)
}

// qualString renders phred scores as SAM text. Both an empty slice and the
// 0xff filler used for missing qualities render as "*".
func qualString(q []byte) string {
	if len(q) == 0 || q[0] == 0xff {
		return "*"
	}
	buf := make([]byte, len(q))
	for i, v := range q {
		buf[i] = v + 33
	}
	return string(buf)
}

// Format renders a mismatch the way bio-samcmp prints it: the message on the
// first line, then the two values each prefixed by "> ".
func Format(m *Mismatch) string {
	return fmt.Sprintf("%s\n> %s\n> %s", m.Error(), m.Value1, m.Value2)
}
