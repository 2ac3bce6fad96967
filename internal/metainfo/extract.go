package metainfo

import (
	"fmt"
	"unicode/utf8"

	"github.com/WendelHime/metainfo/internal/bencode"
	"github.com/WendelHime/metainfo/internal/shared/models"
)

// Extract validates a decoded .torrent dictionary and converts it into a
// models.Metainfo. Either every field is valid and the full record is
// returned, or the first violation is returned as an error and the record
// is empty. Keys not listed in the metainfo schema are ignored. v is never
// modified.
func Extract(v bencode.Value) (models.Metainfo, error) {
	root, ok := v.(bencode.Dict)
	if !ok {
		return models.Metainfo{}, ErrNotADictionary
	}

	announce, err := requiredText(root, "", "announce")
	if err != nil {
		return models.Metainfo{}, err
	}

	announceList, err := optionalAnnounceList(root)
	if err != nil {
		return models.Metainfo{}, err
	}

	infoValue, err := required(root, "", "info", bencode.KindDict)
	if err != nil {
		return models.Metainfo{}, err
	}

	info, err := extractInfo(infoValue.(bencode.Dict))
	if err != nil {
		return models.Metainfo{}, err
	}

	return models.Metainfo{
		Announce:     announce,
		AnnounceList: announceList,
		Info:         info,
	}, nil
}

func extractInfo(dict bencode.Dict) (models.Info, error) {
	const parent = "info"

	name, err := requiredText(dict, parent, "name")
	if err != nil {
		return models.Info{}, err
	}

	pieceLength, err := requiredInteger(dict, parent, "piece length")
	if err != nil {
		return models.Info{}, err
	}
	if pieceLength <= 0 {
		return models.Info{}, invalidValue(join(parent, "piece length"), fmt.Sprintf("%d is not positive", pieceLength))
	}

	piecesValue, err := required(dict, parent, "pieces", bencode.KindByteString)
	if err != nil {
		return models.Info{}, err
	}
	pieces := piecesValue.(bencode.ByteString)
	if len(pieces)%models.DigestSize != 0 {
		return models.Info{}, invalidValue(join(parent, "pieces"), fmt.Sprintf("length %d is not a multiple of %d", len(pieces), models.DigestSize))
	}

	var layouts []models.Layout

	if v, ok := dict.Get("length"); ok {
		length, err := nonNegative(join(parent, "length"), v)
		if err != nil {
			return models.Info{}, err
		}
		layouts = append(layouts, models.SingleFile{Length: length})
	}

	if v, ok := dict.Get("files"); ok {
		files, err := extractFiles(join(parent, "files"), v)
		if err != nil {
			return models.Info{}, err
		}
		layouts = append(layouts, models.MultiFile{Files: files})
	}

	switch len(layouts) {
	case 0:
		return models.Info{}, ErrMissingLayout
	case 2:
		return models.Info{}, ErrConflictingLayout
	}

	return models.Info{
		Name:        name,
		PieceLength: pieceLength,
		Pieces:      SplitDigests(pieces),
		Layout:      layouts[0],
	}, nil
}

func extractFiles(field string, v bencode.Value) ([]models.File, error) {
	list, ok := v.(bencode.List)
	if !ok {
		return nil, wrongType(field, bencode.KindList, v)
	}
	files := make([]models.File, 0, len(list))
	for i, item := range list {
		entryField := fmt.Sprintf("%s[%d]", field, i)
		entry, ok := item.(bencode.Dict)
		if !ok {
			return nil, wrongType(entryField, bencode.KindDict, item)
		}

		lengthValue, err := required(entry, entryField, "length", bencode.KindInteger)
		if err != nil {
			return nil, err
		}
		length, err := nonNegative(join(entryField, "length"), lengthValue)
		if err != nil {
			return nil, err
		}

		pathValue, err := required(entry, entryField, "path", bencode.KindList)
		if err != nil {
			return nil, err
		}
		path, err := textList(join(entryField, "path"), pathValue.(bencode.List))
		if err != nil {
			return nil, err
		}

		files = append(files, models.File{Length: length, Path: path})
	}
	return files, nil
}

func optionalAnnounceList(root bencode.Dict) ([][]string, error) {
	const field = "announce-list"
	v, ok := root.Get(field)
	if !ok {
		return nil, nil
	}
	tiers, ok := v.(bencode.List)
	if !ok {
		return nil, wrongType(field, bencode.KindList, v)
	}

	announceList := make([][]string, 0, len(tiers))
	for i, tier := range tiers {
		tierField := fmt.Sprintf("%s[%d]", field, i)
		urls, ok := tier.(bencode.List)
		if !ok {
			return nil, wrongType(tierField, bencode.KindList, tier)
		}
		texts, err := textList(tierField, urls)
		if err != nil {
			return nil, err
		}
		announceList = append(announceList, texts)
	}
	return announceList, nil
}

func join(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func required(dict bencode.Dict, parent, key string, kind bencode.Kind) (bencode.Value, error) {
	field := join(parent, key)
	v, ok := dict.Get(key)
	if !ok || v == nil {
		return nil, missing(field)
	}
	if v.Kind() != kind {
		return nil, wrongType(field, kind, v)
	}
	return v, nil
}

func requiredText(dict bencode.Dict, parent, key string) (string, error) {
	v, err := required(dict, parent, key, bencode.KindByteString)
	if err != nil {
		return "", err
	}
	return text(join(parent, key), v)
}

func requiredInteger(dict bencode.Dict, parent, key string) (int64, error) {
	v, err := required(dict, parent, key, bencode.KindInteger)
	if err != nil {
		return 0, err
	}
	return int64(v.(bencode.Integer)), nil
}

func nonNegative(field string, v bencode.Value) (int64, error) {
	n, ok := v.(bencode.Integer)
	if !ok {
		return 0, wrongType(field, bencode.KindInteger, v)
	}
	if n < 0 {
		return 0, invalidValue(field, fmt.Sprintf("%d is negative", n))
	}
	return int64(n), nil
}

func text(field string, v bencode.Value) (string, error) {
	b, ok := v.(bencode.ByteString)
	if !ok {
		return "", wrongType(field, bencode.KindByteString, v)
	}
	if !utf8.Valid(b) {
		return "", invalidText(field)
	}
	return string(b), nil
}

func textList(field string, list bencode.List) ([]string, error) {
	texts := make([]string, 0, len(list))
	for i, item := range list {
		s, err := text(fmt.Sprintf("%s[%d]", field, i), item)
		if err != nil {
			return nil, err
		}
		texts = append(texts, s)
	}
	return texts, nil
}
