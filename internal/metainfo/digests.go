package metainfo

import "github.com/WendelHime/metainfo/internal/shared/models"

// SplitDigests cuts pieces into consecutive digests, in order. Callers must
// check that len(pieces) is a multiple of models.DigestSize; a trailing
// partial chunk is dropped.
func SplitDigests(pieces []byte) []models.Digest {
	digests := make([]models.Digest, len(pieces)/models.DigestSize)
	for i := range digests {
		copy(digests[i][:], pieces[i*models.DigestSize:])
	}
	return digests
}
