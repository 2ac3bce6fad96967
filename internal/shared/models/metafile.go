package models

import (
	"encoding/hex"
	"math"
	"path"
)

const DigestSize = 20

type Metainfo struct {
	Announce     string
	AnnounceList [][]string
	Info         Info
}

type Info struct {
	Name        string
	PieceLength int64
	Pieces      []Digest
	Layout      Layout
}

// Layout is either SingleFile or MultiFile.
type Layout interface {
	isLayout()
}

type SingleFile struct {
	Length int64
}

type MultiFile struct {
	Files []File
}

func (SingleFile) isLayout() {}
func (MultiFile) isLayout()  {}

type File struct {
	Length int64
	// Path components, root to leaf.
	Path []string
}

func (f File) JoinedPath() string {
	return path.Join(f.Path...)
}

type Digest [DigestSize]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

func (i Info) IsMultiFile() bool {
	_, ok := i.Layout.(MultiFile)
	return ok
}

// TotalLength sums the file lengths, saturating at math.MaxInt64.
func (i Info) TotalLength() int64 {
	switch l := i.Layout.(type) {
	case SingleFile:
		return l.Length
	case MultiFile:
		var total int64
		for _, file := range l.Files {
			if file.Length > math.MaxInt64-total {
				return math.MaxInt64
			}
			total += file.Length
		}
		return total
	}
	return 0
}

func (i Info) NumPieces() int {
	return len(i.Pieces)
}

// PieceSize returns the size in bytes of piece index. Every piece has
// PieceLength bytes except the last, which holds whatever is left.
func (i Info) PieceSize(index int) int64 {
	if index < 0 || index >= len(i.Pieces) || i.PieceLength <= 0 {
		return 0
	}
	if int64(index) > math.MaxInt64/i.PieceLength {
		return 0
	}
	pieceOffset := int64(index) * i.PieceLength
	left := i.TotalLength() - pieceOffset
	return max(min(left, i.PieceLength), 0)
}
