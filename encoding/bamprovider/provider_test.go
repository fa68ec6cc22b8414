// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bamprovider_test

import (
	"bytes"
	"errors"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/samcmp/encoding/bamprovider"
	"github.com/grailbio/testutil"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSAM = "@HD\tVN:1.5\tSO:unsorted\n" +
	"@SQ\tSN:chr1\tLN:1000\n" +
	"@SQ\tSN:chr2\tLN:2000\n" +
	"read1\t99\tchr1\t100\t60\t4M\t=\t200\t104\tACGT\tIIII\tNM:i:0\tRG:Z:grp1\n" +
	"read2\t147\tchr1\t200\t60\t4M\t=\t100\t-104\tTTGA\tIIIJ\tNM:i:1\n" +
	"read3\t4\t*\t0\t0\t*\t*\t0\t0\tACGT\t*\n"

func TestMain(m *testing.M) {
	shutdown := grail.Init()
	status := m.Run()
	shutdown()
	os.Exit(status)
}

func readNames(t *testing.T, iter bamprovider.Iterator) []string {
	var names []string
	for iter.Scan() {
		names = append(names, iter.Record().Name)
	}
	require.NoError(t, iter.Err())
	require.NoError(t, iter.Close())
	return names
}

func writeFile(t *testing.T, path string, data []byte) {
	require.NoError(t, ioutil.WriteFile(path, data, 0644))
}

func TestFileType(t *testing.T) {
	for _, test := range []struct {
		path string
		want bamprovider.FileType
	}{
		{"foo.bam", bamprovider.BAM},
		{"s3://bucket/dir/foo.bam", bamprovider.BAM},
		{"foo.sam", bamprovider.SAM},
		{"foo.sam.gz", bamprovider.SAM},
		{"foo.txt", bamprovider.Unknown},
		{"foo", bamprovider.Unknown},
	} {
		assert.Equalf(t, test.want, bamprovider.GuessFileType(test.path), "path %s", test.path)
	}
	assert.Equal(t, bamprovider.BAM, bamprovider.ParseFileType("bam"))
	assert.Equal(t, bamprovider.SAM, bamprovider.ParseFileType("SAM"))
	assert.Equal(t, bamprovider.Unknown, bamprovider.ParseFileType("pam"))
	assert.Equal(t, "bam", bamprovider.BAM.String())
}

func TestSAM(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(tmpDir, "test.sam")
	writeFile(t, path, []byte(testSAM))

	iter := bamprovider.NewIterator(path)
	require.True(t, iter.Scan())
	r := iter.Record()
	assert.Equal(t, "read1", r.Name)
	assert.Equal(t, "chr1", r.Ref.Name())
	assert.Equal(t, 99, r.Pos)
	assert.Equal(t, 1, len(r.Cigar))
	assert.Equal(t, []string{"read2", "read3"}, readNames(t, iter))
}

func TestSAMWithoutExtension(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(tmpDir, "test.txt")
	writeFile(t, path, []byte(testSAM))
	assert.Equal(t, []string{"read1", "read2", "read3"}, readNames(t, bamprovider.NewIterator(path)))
}

func TestGzipSAM(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := io.WriteString(w, testSAM)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	path := filepath.Join(tmpDir, "test.sam.gz")
	writeFile(t, path, buf.Bytes())
	assert.Equal(t, []string{"read1", "read2", "read3"}, readNames(t, bamprovider.NewIterator(path)))
}

func TestBAM(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	sr, err := sam.NewReader(strings.NewReader(testSAM))
	require.NoError(t, err)
	var buf bytes.Buffer
	bw, err := bam.NewWriter(&buf, sr.Header(), 1)
	require.NoError(t, err)
	for {
		rec, err := sr.Read()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		require.NoError(t, bw.Write(rec))
	}
	require.NoError(t, bw.Close())
	path := filepath.Join(tmpDir, "test.bam")
	writeFile(t, path, buf.Bytes())

	assert.Equal(t, []string{"read1", "read2", "read3"},
		readNames(t, bamprovider.NewIterator(path, bamprovider.Opts{Parallelism: 2})))

	// Forcing the type overrides the extension.
	samPath := filepath.Join(tmpDir, "really-a-bam.sam")
	writeFile(t, samPath, buf.Bytes())
	assert.Equal(t, []string{"read1", "read2", "read3"},
		readNames(t, bamprovider.NewIterator(samPath, bamprovider.Opts{Type: bamprovider.BAM})))
}

func TestOpenError(t *testing.T) {
	iter := bamprovider.NewIterator("/nonexistent/dir/foo.bam")
	assert.False(t, iter.Scan())
	require.Error(t, iter.Err())
	assert.Regexp(t, "no such file", iter.Err().Error())
	assert.Regexp(t, "no such file", iter.Close().Error())
}

func TestCorruptBAM(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(tmpDir, "corrupt.bam")
	writeFile(t, path, []byte("this is not a bam file"))
	iter := bamprovider.NewIterator(path)
	assert.False(t, iter.Scan())
	assert.Error(t, iter.Err())
	assert.Error(t, iter.Close())
}

func TestSliceIterator(t *testing.T) {
	r0 := &sam.Record{Name: "a"}
	r1 := &sam.Record{Name: "b"}
	iter := bamprovider.NewSliceIterator([]*sam.Record{r0, r1})
	require.True(t, iter.Scan())
	rec := iter.Record()
	rec.Name = "modified"
	assert.Equal(t, "a", r0.Name)
	assert.Equal(t, []string{"b"}, readNames(t, iter))
}

func TestErrorIterator(t *testing.T) {
	err := errors.New("test error")
	iter := bamprovider.NewErrorIterator(err)
	assert.False(t, iter.Scan())
	assert.Equal(t, err, iter.Err())
	assert.Equal(t, err, iter.Close())
}
