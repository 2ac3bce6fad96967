package bencode

import (
	"fmt"
	"sort"
)

type Kind uint8

const (
	KindByteString Kind = iota + 1
	KindInteger
	KindList
	KindDict
)

func (k Kind) String() string {
	switch k {
	case KindByteString:
		return "byte string"
	case KindInteger:
		return "integer"
	case KindList:
		return "list"
	case KindDict:
		return "dictionary"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a decoded bencode value. It is implemented by ByteString,
// Integer, List and Dict only.
type Value interface {
	Kind() Kind
	isValue()
}

// ByteString holds raw bytes, which are not necessarily valid UTF-8.
type ByteString []byte

type Integer int64

type List []Value

// Dict maps raw key bytes to values. Keys are stored as Go strings so that
// arbitrary byte keys stay comparable.
type Dict map[string]Value

func (ByteString) Kind() Kind { return KindByteString }
func (Integer) Kind() Kind    { return KindInteger }
func (List) Kind() Kind       { return KindList }
func (Dict) Kind() Kind       { return KindDict }

func (ByteString) isValue() {}
func (Integer) isValue()    {}
func (List) isValue()       {}
func (Dict) isValue()       {}

func (b ByteString) String() string {
	return string(b)
}

func (d Dict) Get(key string) (Value, bool) {
	v, ok := d[key]
	return v, ok
}

// Keys returns the dictionary keys in byte order.
func (d Dict) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
