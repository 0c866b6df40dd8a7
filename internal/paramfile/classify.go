package paramfile

import (
	"regexp"
	"strings"
)

// CommentMarker introduces comments and separates metadata fields.
const CommentMarker = "//"

// pftRowMinTokens is the token count on a block's second line above which
// the line is read as the PFT name row rather than documentation.
const pftRowMinTokens = 9

// LineKind is the classification of a single raw line.
type LineKind int

const (
	LineBlank LineKind = iota
	LineDivider
	LineHeader
	LineComment
	LineData
)

func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineDivider:
		return "divider"
	case LineHeader:
		return "header"
	case LineComment:
		return "comment"
	case LineData:
		return "data"
	}
	return "unknown"
}

var headerKeyRe = regexp.MustCompile(`^(?i)cmt\d+$`)

// uncomment strips the leading comment marker(s) and surrounding space.
func uncomment(line string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "/"))
}

// firstToken returns the first token of a comment body, treating further
// comment markers as separators.
func firstToken(body string) string {
	fields := strings.Fields(strings.ReplaceAll(body, CommentMarker, " "))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Classify returns the kind of a raw line.
func Classify(line string) LineKind {
	t := strings.TrimSpace(line)
	if t == "" {
		return LineBlank
	}
	if !strings.HasPrefix(t, CommentMarker) {
		return LineData
	}
	body := uncomment(t)
	if body != "" && strings.Trim(body, "= \t") == "" {
		return LineDivider
	}
	if headerKeyRe.MatchString(firstToken(body)) {
		return LineHeader
	}
	return LineComment
}

// IsPFTNameRow reports whether a comment line looks like the row of PFT
// names that follows a PFT block header.
func IsPFTNameRow(line string) bool {
	if Classify(line) != LineComment {
		return false
	}
	return len(strings.Fields(uncomment(line))) >= pftRowMinTokens
}

// headerKey returns the normalized key of a header line.
func headerKey(line string) (string, error) {
	return NormalizeKey(firstToken(uncomment(line)))
}
