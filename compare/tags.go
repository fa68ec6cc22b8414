// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package compare

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/grailbio/hts/sam"
)

// UnknownReadGroup is the RG placeholder dropped when Opts.SkipUnknownRG is
// set.
const UnknownReadGroup = "UNKNOWN"

var (
	mdTag = sam.NewTag("MD")
	nmTag = sam.NewTag("NM")
	rgTag = sam.NewTag("RG")
)

// Kinds of canonical values. Integers of every width share one kind, as do
// the A, Z and H text types.
const (
	intKind   = 'i'
	floatKind = 'f'
	textKind  = 'Z'
	arrayKind = 'B'
)

// tagEntry is one canonical (tag, value) pair. The value is rendered as
// "<kind>:<text>", so that two entries are equal iff their tags are equal and
// their values are structurally equal.
type tagEntry struct {
	tag   sam.Tag
	value string
}

func (e tagEntry) String() string {
	return e.tag.String() + ":" + e.value
}

// TagSet is the order-independent form of a record's auxiliary tags.
// Duplicate (tag, value) pairs collapse into one entry.
type TagSet map[tagEntry]struct{}

// NewTagSet canonicalizes aux. MD/NM and RG:Z:UNKNOWN entries are dropped when
// opts says so. The result depends only on the contents of aux and opts.
func NewTagSet(aux sam.AuxFields, opts Opts) TagSet {
	s := make(TagSet, len(aux))
	for _, a := range aux {
		tag := a.Tag()
		if opts.SkipMDNM && (tag == mdTag || tag == nmTag) {
			continue
		}
		v := canonicalValue(a)
		if opts.SkipUnknownRG && tag == rgTag && v == canonicalText(UnknownReadGroup) {
			continue
		}
		s[tagEntry{tag: tag, value: v}] = struct{}{}
	}
	return s
}

// Len returns the number of distinct entries.
func (s TagSet) Len() int { return len(s) }

// Equal checks if the two sets contain the same entries.
func (s TagSet) Equal(other TagSet) bool {
	if len(s) != len(other) {
		return false
	}
	for e := range s {
		if _, ok := other[e]; !ok {
			return false
		}
	}
	return true
}

// String renders the entries in sorted order, e.g., "{NM:i:1 RG:Z:grp1}".
func (s TagSet) String() string {
	entries := make([]string, 0, len(s))
	for e := range s {
		entries = append(entries, e.String())
	}
	sort.Strings(entries)
	return "{" + strings.Join(entries, " ") + "}"
}

func canonicalText(s string) string {
	return string(textKind) + ":" + s
}

// canonicalValue dispatches on the aux type byte: 'B' is an ordered array,
// everything else a scalar.
func canonicalValue(a sam.Aux) string {
	typ := a.Type()
	if typ == arrayKind {
		return string(arrayKind) + ":" + strings.Join(arrayElems(a.Value()), ",")
	}
	switch typ {
	case 'A':
		return canonicalText(string(a[3:4]))
	case 'Z', 'H':
		return canonicalText(strings.TrimSuffix(string(a[3:]), "\x00"))
	}
	v := a.Value()
	switch v := v.(type) {
	case int8:
		return formatInt(int64(v))
	case uint8:
		return formatInt(int64(v))
	case int16:
		return formatInt(int64(v))
	case uint16:
		return formatInt(int64(v))
	case int32:
		return formatInt(int64(v))
	case uint32:
		return formatInt(int64(v))
	case int:
		return formatInt(int64(v))
	case float32:
		return formatFloat(float64(v))
	case float64:
		return formatFloat(v)
	}
	return fmt.Sprintf("%c:%v", typ, v)
}

func formatInt(v int64) string {
	return string(intKind) + ":" + strconv.FormatInt(v, 10)
}

// formatFloat renders integral values the way formatInt does, so that 1.0
// and 1 are the same value.
func formatFloat(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return formatInt(int64(v))
	}
	return string(floatKind) + ":" + strconv.FormatFloat(v, 'g', -1, 32)
}

// arrayElems renders the elements of a 'B' value in order, without the kind
// prefix.
func arrayElems(v interface{}) []string {
	var elems []string
	addInt := func(x int64) { elems = append(elems, formatInt(x)[2:]) }
	addFloat := func(x float64) { elems = append(elems, formatFloat(x)[2:]) }
	switch v := v.(type) {
	case []int8:
		for _, x := range v {
			addInt(int64(x))
		}
	case []uint8:
		for _, x := range v {
			addInt(int64(x))
		}
	case []int16:
		for _, x := range v {
			addInt(int64(x))
		}
	case []uint16:
		for _, x := range v {
			addInt(int64(x))
		}
	case []int32:
		for _, x := range v {
			addInt(int64(x))
		}
	case []uint32:
		for _, x := range v {
			addInt(int64(x))
		}
	case []float32:
		for _, x := range v {
			addFloat(float64(x))
		}
	default:
		elems = append(elems, fmt.Sprint(v))
	}
	return elems
}
