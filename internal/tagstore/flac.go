package tagstore

import (
	"fmt"
	"strings"

	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
)

var vorbisFields = map[string]string{
	FieldArtist: flacvorbis.FIELD_ARTIST,
	FieldAlbum:  flacvorbis.FIELD_ALBUM,
	FieldGenre:  flacvorbis.FIELD_GENRE,
}

type flacStore struct{}

func (flacStore) ReadField(path, name string) ([]string, bool, error) {
	key, ok := vorbisFields[name]
	if !ok {
		return nil, false, unknownField(name)
	}

	f, err := flac.ParseMetadata(path)
	if err != nil {
		return nil, false, fmt.Errorf("parsing FLAC metadata: %w", err)
	}

	cmts, _, err := vorbisComment(f)
	if err != nil || cmts == nil {
		return nil, false, err
	}
	values, err := cmts.Get(key)
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", key, err)
	}
	values = nonEmpty(values)
	return values, len(values) > 0, nil
}

func (flacStore) WriteFields(path string, fields map[string][]string) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parsing FLAC file: %w", err)
	}

	cmts, idx, err := vorbisComment(f)
	if err != nil {
		return err
	}
	if cmts == nil {
		cmts = flacvorbis.New()
	}

	for name, values := range fields {
		key, ok := vorbisFields[name]
		if !ok {
			return unknownField(name)
		}
		removeComment(cmts, key)
		for _, v := range values {
			if err := cmts.Add(key, v); err != nil {
				return fmt.Errorf("adding %s: %w", key, err)
			}
		}
	}

	block := cmts.Marshal()
	if idx >= 0 {
		f.Meta[idx] = &block
	} else {
		f.Meta = append(f.Meta, &block)
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("saving FLAC file: %w", err)
	}
	return nil
}

// vorbisComment returns the file's comment block and its index, or nil and -1.
func vorbisComment(f *flac.File) (*flacvorbis.MetaDataBlockVorbisComment, int, error) {
	for idx, meta := range f.Meta {
		if meta.Type != flac.VorbisComment {
			continue
		}
		cmts, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			return nil, -1, fmt.Errorf("parsing vorbis comment: %w", err)
		}
		return cmts, idx, nil
	}
	return nil, -1, nil
}

// removeComment drops every KEY=value entry; Add only appends.
func removeComment(cmts *flacvorbis.MetaDataBlockVorbisComment, key string) {
	prefix := strings.ToUpper(key) + "="
	kept := cmts.Comments[:0]
	for _, c := range cmts.Comments {
		if !strings.HasPrefix(strings.ToUpper(c), prefix) {
			kept = append(kept, c)
		}
	}
	cmts.Comments = kept
}
