package tagstore

import (
	"fmt"
	"strings"

	mp4tag "github.com/Sorrow446/go-mp4tag"
)

// mp4Sep joins multiple genres; the ©gen atom holds a single string.
const mp4Sep = "; "

type mp4Store struct{}

func (mp4Store) ReadField(path, name string) ([]string, bool, error) {
	mp4, err := mp4tag.Open(path)
	if err != nil {
		return nil, false, fmt.Errorf("opening MP4 file: %w", err)
	}
	defer mp4.Close()

	tags, err := mp4.Read()
	if err != nil {
		return nil, false, fmt.Errorf("reading MP4 tags: %w", err)
	}

	var raw string
	switch name {
	case FieldArtist:
		raw = tags.Artist
	case FieldAlbum:
		raw = tags.Album
	case FieldGenre:
		values, ok := mp4Genre(tags.CustomGenre, tags.Genre != 0)
		return values, ok, nil
	default:
		return nil, false, unknownField(name)
	}

	values := nonEmpty(strings.Split(raw, mp4Sep))
	return values, len(values) > 0, nil
}

func (mp4Store) WriteFields(path string, fields map[string][]string) error {
	tags := &mp4tag.MP4Tags{}
	for name, values := range fields {
		joined := strings.Join(values, mp4Sep)
		switch name {
		case FieldArtist:
			tags.Artist = joined
		case FieldAlbum:
			tags.Album = joined
		case FieldGenre:
			tags.CustomGenre = joined
		default:
			return unknownField(name)
		}
	}

	mp4, err := mp4tag.Open(path)
	if err != nil {
		return fmt.Errorf("opening MP4 file: %w", err)
	}
	defer mp4.Close()

	// Empty fields in tags are left untouched.
	if err := mp4.Write(tags, []string{}); err != nil {
		return fmt.Errorf("writing MP4 tags: %w", err)
	}
	return nil
}

// mp4Genre reads the free-text ©gen atom. A numeric gnre atom alone still
// counts as a genre being present, with no text values to report.
func mp4Genre(custom string, standard bool) ([]string, bool) {
	values := nonEmpty(strings.Split(custom, mp4Sep))
	return values, len(values) > 0 || standard
}
