package bencode

import (
	"errors"
	"math"
)

// DefaultMaxDepth bounds the nesting of lists and dictionaries. Real
// metainfo files nest a handful of levels deep.
const DefaultMaxDepth = 128

// Parser decodes bencode buffers. The zero value is not usable, use
// NewParser.
type Parser struct {
	maxDepth int
}

func NewParser() *Parser {
	return &Parser{maxDepth: DefaultMaxDepth}
}

// WithMaxDepth sets the maximum number of nested lists and dictionaries.
// The outermost aggregate counts as depth 1.
func (p *Parser) WithMaxDepth(depth int) *Parser {
	p.maxDepth = max(depth, 1)
	return p
}

func (p *Parser) MaxDepth() int {
	return p.maxDepth
}

// Decode decodes one value from buf with the default depth limit.
func Decode(buf []byte) (Value, []byte, error) {
	return NewParser().Decode(buf)
}

// DecodeAll decodes a concatenation of values with the default depth limit.
func DecodeAll(buf []byte) ([]Value, error) {
	return NewParser().DecodeAll(buf)
}

// Decode recognizes the value at the start of buf and returns it together
// with the unconsumed rest of buf. The returned value never references buf.
//
// When buf is a valid but truncated prefix the error is an *IncompleteError;
// any other failure is a *SyntaxError.
func (p *Parser) Decode(buf []byte) (Value, []byte, error) {
	s := &state{buf: buf, maxDepth: p.maxDepth}
	v, err := s.value(0)
	if err != nil {
		return nil, nil, err
	}
	return v, buf[s.pos:], nil
}

func (p *Parser) DecodeAll(buf []byte) ([]Value, error) {
	values := make([]Value, 0)
	consumed := 0
	for len(buf) > 0 {
		v, rest, err := p.Decode(buf)
		if err != nil {
			var syntaxErr *SyntaxError
			if errors.As(err, &syntaxErr) {
				return nil, &SyntaxError{Offset: consumed + syntaxErr.Offset, Err: syntaxErr.Err}
			}
			return nil, err
		}
		values = append(values, v)
		consumed += len(buf) - len(rest)
		buf = rest
	}
	return values, nil
}

type state struct {
	buf      []byte
	pos      int
	maxDepth int
}

func (s *state) fail(err error) error {
	return &SyntaxError{Offset: s.pos, Err: err}
}

func incomplete(needed int) error {
	return &IncompleteError{Needed: needed}
}

// enclosing adds the closing 'e' of an open aggregate to an incomplete hint.
func enclosing(err error) error {
	var inc *IncompleteError
	if errors.As(err, &inc) && inc.Needed < math.MaxInt {
		return incomplete(inc.Needed + 1)
	}
	return err
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func startsValue(c byte) bool {
	return isDigit(c) || c == 'i' || c == 'l' || c == 'd'
}

// value dispatches on the leading byte. depth is the number of aggregates
// enclosing the value.
func (s *state) value(depth int) (Value, error) {
	if s.pos >= len(s.buf) {
		return nil, incomplete(1)
	}
	c := s.buf[s.pos]
	switch {
	case isDigit(c):
		raw, err := s.rawString()
		if err != nil {
			return nil, err
		}
		out := make(ByteString, len(raw))
		copy(out, raw)
		return out, nil
	case c == 'i':
		return s.integer()
	case c == 'l':
		return s.list(depth + 1)
	case c == 'd':
		return s.dict(depth + 1)
	}
	return nil, s.fail(ErrMalformedTag)
}

// rawString reads <length>:<bytes> and returns a view into buf.
func (s *state) rawString() ([]byte, error) {
	n := 0
	for s.pos < len(s.buf) && isDigit(s.buf[s.pos]) {
		d := int(s.buf[s.pos] - '0')
		if n > (math.MaxInt-d)/10 {
			return nil, s.fail(ErrInvalidLength)
		}
		n = n*10 + d
		s.pos++
	}
	if s.pos >= len(s.buf) {
		// the colon and n payload bytes are still missing
		if n == math.MaxInt {
			return nil, incomplete(n)
		}
		return nil, incomplete(n + 1)
	}
	if s.buf[s.pos] != ':' {
		return nil, s.fail(ErrInvalidLength)
	}
	s.pos++
	if avail := len(s.buf) - s.pos; avail < n {
		return nil, incomplete(n - avail)
	}
	raw := s.buf[s.pos : s.pos+n]
	s.pos += n
	return raw, nil
}

func (s *state) integer() (Integer, error) {
	s.pos++
	negative := false
	if s.pos < len(s.buf) && s.buf[s.pos] == '-' {
		negative = true
		s.pos++
	}

	limit := uint64(math.MaxInt64)
	if negative {
		limit++
	}

	start := s.pos
	var n uint64
	for s.pos < len(s.buf) && isDigit(s.buf[s.pos]) {
		if s.pos > start && s.buf[start] == '0' {
			return 0, s.fail(ErrInvalidInteger)
		}
		d := uint64(s.buf[s.pos] - '0')
		if negative && d == 0 && s.pos == start {
			return 0, s.fail(ErrInvalidInteger)
		}
		if n > (limit-d)/10 {
			return 0, s.fail(ErrInvalidInteger)
		}
		n = n*10 + d
		s.pos++
	}
	if s.pos >= len(s.buf) {
		return 0, incomplete(1)
	}
	if s.pos == start || s.buf[s.pos] != 'e' {
		return 0, s.fail(ErrInvalidInteger)
	}
	s.pos++

	if !negative {
		return Integer(n), nil
	}
	if n == limit {
		return Integer(math.MinInt64), nil
	}
	return Integer(-int64(n)), nil
}

func (s *state) list(depth int) (List, error) {
	if depth > s.maxDepth {
		return nil, s.fail(ErrDepthExceeded)
	}
	s.pos++

	list := make(List, 0)
	for {
		if s.pos >= len(s.buf) {
			return nil, incomplete(1)
		}
		c := s.buf[s.pos]
		if c == 'e' {
			s.pos++
			return list, nil
		}
		if !startsValue(c) {
			return nil, s.fail(ErrMalformedTag)
		}
		v, err := s.value(depth)
		if err != nil {
			return nil, enclosing(err)
		}
		list = append(list, v)
	}
}

func (s *state) dict(depth int) (Dict, error) {
	if depth > s.maxDepth {
		return nil, s.fail(ErrDepthExceeded)
	}
	s.pos++

	dict := make(Dict)
	for {
		if s.pos >= len(s.buf) {
			return nil, incomplete(1)
		}
		c := s.buf[s.pos]
		if c == 'e' {
			s.pos++
			return dict, nil
		}
		// keys must be byte strings
		if !isDigit(c) {
			return nil, s.fail(ErrUnterminated)
		}
		key, err := s.rawString()
		if err != nil {
			return nil, enclosing(err)
		}
		v, err := s.value(depth)
		if err != nil {
			return nil, enclosing(err)
		}
		dict[string(key)] = v
	}
}
