package tagstore

import (
	"fmt"
	"strings"

	"github.com/bogem/id3v2/v2"
)

// id3Frames maps field names to ID3v2.4 text frames.
var id3Frames = map[string]string{
	FieldArtist: "TPE1",
	FieldAlbum:  "TALB",
	FieldGenre:  "TCON",
}

// id3Sep separates multiple values in a v2.4 text frame.
const id3Sep = "\x00"

type id3Store struct{}

func (id3Store) ReadField(path, name string) ([]string, bool, error) {
	frame, ok := id3Frames[name]
	if !ok {
		return nil, false, unknownField(name)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true, ParseFrames: []string{frame}})
	if err != nil {
		return nil, false, fmt.Errorf("opening ID3 tag: %w", err)
	}
	defer tag.Close()

	values := nonEmpty(strings.Split(tag.GetTextFrame(frame).Text, id3Sep))
	return values, len(values) > 0, nil
}

func (id3Store) WriteFields(path string, fields map[string][]string) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("opening ID3 tag: %w", err)
	}
	defer tag.Close()

	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	for name, values := range fields {
		frame, ok := id3Frames[name]
		if !ok {
			return unknownField(name)
		}
		tag.DeleteFrames(frame)
		if len(values) > 0 {
			tag.AddTextFrame(frame, id3v2.EncodingUTF8, strings.Join(values, id3Sep))
		}
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("saving ID3 tag: %w", err)
	}
	return nil
}
