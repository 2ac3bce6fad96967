package decoder

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/WendelHime/metainfo/internal/bencode"
	"github.com/WendelHime/metainfo/internal/metainfo"
	"github.com/WendelHime/metainfo/internal/shared/models"
)

const (
	DefaultMaxSize   = 32 << 20
	DefaultChunkSize = 32 << 10
)

var (
	ErrTruncated    = errors.New("metafile is truncated")
	ErrTooLarge     = errors.New("metafile exceeds the maximum size")
	ErrTrailingData = errors.New("unexpected data after metafile")
)

type MetafileDecoder interface {
	Decode(io.Reader) (models.Metainfo, error)
	DecodeBytes([]byte) (models.Metainfo, error)
	WithMaxDepth(depth int) MetafileDecoder
	WithMaxSize(size int) MetafileDecoder
	WithChunkSize(size int) MetafileDecoder
}

type decoder struct {
	parser    *bencode.Parser
	maxSize   int
	chunkSize int
	log       *slog.Logger
}

func NewDecoder(logger *slog.Logger) MetafileDecoder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &decoder{
		parser:    bencode.NewParser(),
		maxSize:   DefaultMaxSize,
		chunkSize: DefaultChunkSize,
		log:       logger,
	}
}

func (d *decoder) WithMaxDepth(depth int) MetafileDecoder {
	d.parser.WithMaxDepth(depth)
	return d
}

func (d *decoder) WithMaxSize(size int) MetafileDecoder {
	d.maxSize = max(size, 1)
	return d
}

func (d *decoder) WithChunkSize(size int) MetafileDecoder {
	d.chunkSize = max(size, 1)
	return d
}

// Decode reads a metafile from torrent. The stream is consumed
// incrementally: whenever the buffered bytes are a truncated prefix the
// decoder reads at least as many bytes as the parser reported missing and
// tries again.
func (d *decoder) Decode(torrent io.Reader) (models.Metainfo, error) {
	buf := make([]byte, 0, d.chunkSize)
	needed := 1
	eof := false

	var value bencode.Value
	for {
		if needed > d.maxSize-len(buf) {
			d.log.Error("metafile too large", slog.Int("buffered", len(buf)), slog.Int("needed", needed), slog.Int("max_size", d.maxSize))
			return models.Metainfo{}, fmt.Errorf("%w: %d bytes", ErrTooLarge, d.maxSize)
		}

		chunk, err := ReadAtLeast(torrent, needed, min(max(needed, d.chunkSize), d.maxSize-len(buf)))
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			eof = true
		case err != nil:
			d.log.Error("failed to read metafile", slog.Any("error", err))
			return models.Metainfo{}, err
		}
		buf = append(buf, chunk...)
		d.log.Debug("read metafile chunk", slog.Int("chunk", len(chunk)), slog.Int("buffered", len(buf)))

		v, rest, err := d.parser.Decode(buf)
		var inc *bencode.IncompleteError
		switch {
		case err == nil:
			if len(rest) > 0 {
				d.log.Error("unexpected data after metafile", slog.Int("trailing", len(rest)))
				return models.Metainfo{}, fmt.Errorf("%w: %d bytes", ErrTrailingData, len(rest))
			}
			value = v
		case errors.As(err, &inc):
			if eof {
				d.log.Error("metafile ended early", slog.Int("buffered", len(buf)), slog.Int("needed", inc.Needed))
				return models.Metainfo{}, fmt.Errorf("%w: %w", ErrTruncated, err)
			}
			needed = inc.Needed
			continue
		default:
			d.log.Error("failed to decode metafile", slog.Any("error", err))
			return models.Metainfo{}, err
		}
		break
	}

	if !eof {
		extra, err := ReadAtLeast(torrent, 1, 1)
		if len(extra) > 0 {
			d.log.Error("unexpected data after metafile", slog.Int("buffered", len(buf)))
			return models.Metainfo{}, fmt.Errorf("%w: stream continues after %d bytes", ErrTrailingData, len(buf))
		}
		if err != nil && !errors.Is(err, io.EOF) {
			d.log.Error("failed to read metafile", slog.Any("error", err))
			return models.Metainfo{}, err
		}
	}

	return d.extract(value)
}

func (d *decoder) DecodeBytes(torrent []byte) (models.Metainfo, error) {
	if len(torrent) > d.maxSize {
		d.log.Error("metafile too large", slog.Int("buffered", len(torrent)), slog.Int("max_size", d.maxSize))
		return models.Metainfo{}, fmt.Errorf("%w: %d bytes", ErrTooLarge, d.maxSize)
	}
	return d.Decode(bytes.NewReader(torrent))
}

func (d *decoder) extract(v bencode.Value) (models.Metainfo, error) {
	meta, err := metainfo.Extract(v)
	if err != nil {
		d.log.Error("invalid metafile", slog.Any("error", err))
		return models.Metainfo{}, err
	}

	d.log.Info("decoded metafile",
		slog.String("name", meta.Info.Name),
		slog.String("announce", meta.Announce),
		slog.Int("pieces", meta.Info.NumPieces()),
		slog.Int64("total_length", meta.Info.TotalLength()),
		slog.Bool("multi_file", meta.Info.IsMultiFile()),
	)
	return meta, nil
}
