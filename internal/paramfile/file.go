package paramfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/fsutil"
)

// ReadLines reads a file into lines. CRLF endings are folded to LF and a
// trailing newline does not produce an empty last line.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return SplitLines(string(data)), nil
}

// SplitLines splits text the way ReadLines does.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// JoinLines is the inverse of SplitLines; the result ends with a newline.
func JoinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// fileError records the file name on errors that carry one and prefixes the
// rest with the path.
func fileError(path string, err error) error {
	var notFound *CommunityNotFoundError
	if errors.As(err, &notFound) && notFound.File == "" {
		notFound.File = path
		return err
	}
	var dup *DuplicateCommunityError
	if errors.As(err, &dup) && dup.File == "" {
		dup.File = path
		return err
	}
	return fmt.Errorf("%s: %w", path, err)
}

// KeysInFile lists the community keys defined in a file.
func KeysInFile(path string) ([]string, error) {
	lines, err := ReadLines(path)
	if err != nil {
		return nil, err
	}
	keys, err := ListKeys(lines)
	if err != nil {
		return nil, fileError(path, err)
	}
	return keys, nil
}

// LoadBlock reads the block for key from a file.
func LoadBlock(path, key string) (*Block, error) {
	lines, err := ReadLines(path)
	if err != nil {
		return nil, err
	}
	span, err := LocateBlock(lines, key)
	if err != nil {
		return nil, fileError(path, err)
	}
	b, err := BuildBlock(BlockLines(lines, span))
	if err != nil {
		return nil, fileError(path, err)
	}
	return b, nil
}

// LoadBlocks reads every block of a file, in file order.
func LoadBlocks(path string) ([]*Block, error) {
	lines, err := ReadLines(path)
	if err != nil {
		return nil, err
	}
	spans, err := Spans(lines)
	if err != nil {
		return nil, fileError(path, err)
	}
	blocks := make([]*Block, 0, len(spans))
	for _, s := range spans {
		b, err := BuildBlock(BlockLines(lines, s.Span))
		if err != nil {
			return nil, fileError(path, fmt.Errorf("%s: %w", s.Key, err))
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// Splice returns lines with the span replaced by repl.
func Splice(lines []string, s Span, repl []string) []string {
	out := make([]string, 0, len(lines)-s.Len()+len(repl))
	out = append(out, lines[:s.Start]...)
	out = append(out, repl...)
	return append(out, lines[s.End:]...)
}

// ReplaceBlock renders b and writes it over the block with the same key in
// path. Every other line of the file is kept verbatim. A missing block is
// appended, and a missing file is created. The write is atomic.
func ReplaceBlock(path string, b *Block, order []string) error {
	rendered, err := FormatBlock(b, order)
	if err != nil {
		return fmt.Errorf("%s: %w", b.Key, err)
	}

	lines, err := ReadLines(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	span, err := LocateBlock(lines, b.Key)
	switch {
	case err == nil:
		lines = Splice(lines, span, rendered)
	case errors.Is(err, ErrCommunityNotFound):
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, rendered...)
	default:
		return fileError(path, err)
	}

	return fsutil.WriteFileAtomic(path, []byte(JoinLines(lines)))
}
