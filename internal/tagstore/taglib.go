package tagstore

import (
	"fmt"

	"go.senan.xyz/taglib"
)

var taglibKeys = map[string]string{
	FieldArtist: taglib.Artist,
	FieldAlbum:  taglib.Album,
	FieldGenre:  taglib.Genre,
}

// taglibStore covers Ogg Vorbis and Musepack through TagLib's property map.
type taglibStore struct{}

func (taglibStore) ReadField(path, name string) ([]string, bool, error) {
	key, ok := taglibKeys[name]
	if !ok {
		return nil, false, unknownField(name)
	}

	tags, err := taglib.ReadTags(path)
	if err != nil {
		return nil, false, fmt.Errorf("reading tags: %w", err)
	}

	values := nonEmpty(tags[key])
	return values, len(values) > 0, nil
}

func (taglibStore) WriteFields(path string, fields map[string][]string) error {
	tags := make(map[string][]string, len(fields))
	for name, values := range fields {
		key, ok := taglibKeys[name]
		if !ok {
			return unknownField(name)
		}
		tags[key] = values
	}

	// Without the Clear option, keys not in tags are kept.
	if err := taglib.WriteTags(path, tags, 0); err != nil {
		return fmt.Errorf("writing tags: %w", err)
	}
	return nil
}
