package paramfile

// Span is a half-open range of raw line indices. A block span runs from its
// header line through its last line that is neither blank nor a divider.
type Span struct {
	Start int
	End   int
}

// Len returns the number of raw lines covered.
func (s Span) Len() int { return s.End - s.Start }

// BlockSpan pairs a community key with the lines it occupies.
type BlockSpan struct {
	Key string
	Span
}

// Spans returns every block of a file in order. A block ends at its last
// line that is neither blank nor a divider. A key that occurs twice is an
// error.
func Spans(lines []string) ([]BlockSpan, error) {
	var spans []BlockSpan
	seen := make(map[string]struct{})
	lastContent := -1

	closeLast := func() {
		if n := len(spans); n > 0 && spans[n-1].End < 0 {
			spans[n-1].End = lastContent + 1
		}
	}

	for i, line := range lines {
		kind := Classify(line)
		if kind == LineHeader {
			key, err := headerKey(line)
			if err != nil {
				return nil, &LineError{Line: i + 1, Err: err}
			}
			if _, dup := seen[key]; dup {
				return nil, &DuplicateCommunityError{Key: key}
			}
			seen[key] = struct{}{}
			closeLast()
			spans = append(spans, BlockSpan{Key: key, Span: Span{Start: i, End: -1}})
		}
		if kind != LineBlank && kind != LineDivider {
			lastContent = i
		}
	}
	closeLast()
	return spans, nil
}

// ListKeys returns the community keys of a file in order of appearance.
func ListKeys(lines []string) ([]string, error) {
	spans, err := Spans(lines)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(spans))
	for i, s := range spans {
		keys[i] = s.Key
	}
	return keys, nil
}

// LocateBlock finds the span of the block for key. The key may be given in
// any form NormalizeKey accepts.
func LocateBlock(lines []string, key string) (Span, error) {
	k, err := NormalizeKey(key)
	if err != nil {
		return Span{}, err
	}
	spans, err := Spans(lines)
	if err != nil {
		return Span{}, err
	}
	for _, s := range spans {
		if s.Key == k {
			return s.Span, nil
		}
	}
	return Span{}, &CommunityNotFoundError{Key: k}
}

// BlockLines returns the non-blank lines of a span.
func BlockLines(lines []string, s Span) []string {
	return nonBlank(lines[s.Start:s.End])
}
