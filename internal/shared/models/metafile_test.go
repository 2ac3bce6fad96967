package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoLengths(t *testing.T) {
	var tests = []struct {
		name   string
		given  Info
		assert func(t *testing.T, actual Info)
	}{
		{
			name: "single file with a short last piece",
			given: Info{
				PieceLength: 32768,
				Pieces:      make([]Digest, 3),
				Layout:      SingleFile{Length: 90000},
			},
			assert: func(t *testing.T, actual Info) {
				assert.False(t, actual.IsMultiFile())
				assert.Equal(t, int64(90000), actual.TotalLength())
				assert.Equal(t, 3, actual.NumPieces())
				assert.Equal(t, int64(32768), actual.PieceSize(0))
				assert.Equal(t, int64(32768), actual.PieceSize(1))
				assert.Equal(t, int64(90000-2*32768), actual.PieceSize(2))
				assert.Equal(t, int64(0), actual.PieceSize(3))
				assert.Equal(t, int64(0), actual.PieceSize(-1))
			},
		},
		{
			name: "multi file total length",
			given: Info{
				PieceLength: 1024,
				Pieces:      make([]Digest, 3),
				Layout: MultiFile{Files: []File{
					{Length: 1000, Path: []string{"subfolder1", "file1.txt"}},
					{Length: 2000, Path: []string{"file2.txt"}},
				}},
			},
			assert: func(t *testing.T, actual Info) {
				assert.True(t, actual.IsMultiFile())
				assert.Equal(t, int64(3000), actual.TotalLength())
				assert.Equal(t, int64(3000-2*1024), actual.PieceSize(2))
			},
		},
		{
			name: "lengths near the int64 limit",
			given: Info{
				PieceLength: math.MaxInt64 / 2,
				Pieces:      make([]Digest, 4),
				Layout: MultiFile{Files: []File{
					{Length: math.MaxInt64 - 1, Path: []string{"a"}},
					{Length: 10, Path: []string{"b"}},
				}},
			},
			assert: func(t *testing.T, actual Info) {
				assert.Equal(t, int64(math.MaxInt64), actual.TotalLength())
				assert.Equal(t, int64(math.MaxInt64/2), actual.PieceSize(0))
				assert.Equal(t, int64(1), actual.PieceSize(2))
				assert.Equal(t, int64(0), actual.PieceSize(3))
			},
		},
		{
			name:  "no layout",
			given: Info{},
			assert: func(t *testing.T, actual Info) {
				assert.Equal(t, int64(0), actual.TotalLength())
				assert.Equal(t, int64(0), actual.PieceSize(0))
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tt.assert(t, tt.given)
		})
	}
}

func TestFileJoinedPath(t *testing.T) {
	f := File{Path: []string{"subfolder1", "nested", "file1.txt"}}
	assert.Equal(t, "subfolder1/nested/file1.txt", f.JoinedPath())
}

func TestDigestString(t *testing.T) {
	var d Digest
	d[0] = 0xab
	d[19] = 0x01
	assert.Equal(t, "ab00000000000000000000000000000000000001", d.String())
}
