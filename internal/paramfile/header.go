package paramfile

import (
	"fmt"
	"strings"
)

// Header is the parsed first line of a block.
type Header struct {
	Key     string
	Name    string
	Comment string
}

// noteSeparator joins note tokens that were split on the comment marker.
const noteSeparator = " " + CommentMarker + " "

// ParseHeader splits "// CMTkk // Verbose Name // note" into its parts.
//
// Older files carry the note after a dash in the name field
// ("// CMT05 // Tussock Tundra - note"); that form is only honoured when
// there is no third field.
func ParseHeader(line string) (Header, error) {
	var tokens []string
	for _, tok := range strings.Split(strings.TrimSpace(line), CommentMarker) {
		if tok = strings.TrimSpace(tok); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) < 2 {
		return Header{}, fmt.Errorf("%w: %q", ErrMalformedHeader, line)
	}

	key, err := NormalizeKey(tokens[0])
	if err != nil {
		return Header{}, fmt.Errorf("%w: %q: %w", ErrMalformedHeader, line, err)
	}

	h := Header{Key: key, Name: tokens[1]}
	if len(tokens) > 2 {
		h.Comment = strings.Join(tokens[2:], noteSeparator)
	} else if name, note, ok := strings.Cut(h.Name, "-"); ok {
		h.Name = strings.TrimSpace(name)
		h.Comment = strings.TrimSpace(note)
	}
	return h, nil
}
