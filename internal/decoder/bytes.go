package decoder

import (
	"errors"
	"io"
)

// ReadAtLeast reads from r until at least min bytes have been collected,
// asking for up to size bytes in total. At end of stream it returns what was
// read along with io.EOF if nothing was read or io.ErrUnexpectedEOF if fewer
// than min bytes were available.
func ReadAtLeast(r io.Reader, min, size int) ([]byte, error) {
	size = max(size, min)
	buff := make([]byte, size)
	readed := 0
	for readed < min {
		n, err := r.Read(buff[readed:])
		readed += n
		if errors.Is(err, io.EOF) {
			if readed == 0 {
				return nil, io.EOF
			}
			if readed < min {
				return buff[:readed], io.ErrUnexpectedEOF
			}
			break
		}
		if err != nil {
			return buff[:readed], err
		}
	}

	return buff[:readed], nil
}
