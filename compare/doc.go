// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package compare checks whether two streams of alignment records are
// equivalent.
//
// Records are paired by position: the Nth record of one stream is compared
// only against the Nth record of the other. For each pair, a fixed sequence of
// field checks runs, some of which can be disabled through Opts. The first
// difference stops the comparison and is returned as a *Mismatch.
//
// Auxiliary tags are compared as sets (see TagSet), so their order and
// duplicate entries do not matter.
package compare
