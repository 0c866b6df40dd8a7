package tabular

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/ctxlog"
	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/fsutil"
	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/lookup"
	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/paramfile"
	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/targets"
)

// Encode writes doc in the layout named by its Version.
func Encode(w io.Writer, doc *Document) error {
	switch doc.Version {
	case V0:
		return EncodeV0(w, doc)
	case V1:
		return EncodeV1(w, doc)
	}
	return fmt.Errorf("unknown table version %d", doc.Version)
}

// Decode reads a table in either layout. A table whose first row is the
// v1 metadata header is read as v1, anything else as v0.
func Decode(r io.Reader) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}
	first, _, _ := strings.Cut(strings.TrimLeft(string(src), " \t\r\n"), "\n")
	if strings.HasPrefix(strings.TrimSpace(first), strings.Join(metaHeader, ",")) {
		return DecodeV1(bytes.NewReader(src))
	}
	return DecodeV0(bytes.NewReader(src))
}

// ToTable collects the blocks for key from every parameter file in dir.
// When tt is not nil, the calibration targets of the community are merged
// in as well.
func ToTable(ctx context.Context, dir, key string, tt *targets.Table) (*Document, error) {
	logger := ctxlog.FromContext(ctx)

	k, err := paramfile.NormalizeKey(key)
	if err != nil {
		return nil, err
	}
	idx, err := lookup.Build(ctx, dir)
	if err != nil {
		return nil, err
	}
	files, err := idx.FilesWithKey(k)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, &paramfile.CommunityNotFoundError{Key: k, File: dir}
	}

	doc := &Document{Version: V1, Key: k}
	for _, path := range files {
		b, err := paramfile.LoadBlock(path, k)
		if err != nil {
			return nil, err
		}
		if len(doc.Files) == 0 {
			doc.Name, doc.Comment = b.Name, b.Comment
		}
		doc.Files = append(doc.Files, FileBlock{File: filepath.Base(path), Block: b})
		logger.Debug("Added block to table.", "file", path, "key", k, "params", len(b.Order))
	}

	if tt != nil {
		if c, ok := tt.ForKey(k); ok {
			doc.Targets = c
		} else {
			logger.Debug("No calibration targets for community.", "key", k)
		}
	}
	return doc, nil
}

// FromTable writes every block of doc back to its file in dir, replacing
// the block with the same key or creating the file. Blocks are rendered in
// the row order recorded in the table. File names are matched against the
// files in dir ignoring case. Tables without metadata take it from the block
// currently on disk. It returns the paths written.
func FromTable(ctx context.Context, doc *Document, dir string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	var written []string
	for _, fb := range doc.Files {
		if err := checkFileName(fb.File); err != nil {
			return written, err
		}
		path, err := fsutil.ResolveName(dir, fb.File)
		if err != nil {
			return written, err
		}
		b := fb.Block
		if doc.Version == V0 {
			if err := restoreMetadata(path, b); err != nil {
				return written, err
			}
		}
		if err := paramfile.ReplaceBlock(path, b, b.Order); err != nil {
			return written, err
		}
		written = append(written, path)
		logger.Debug("Wrote block from table.", "file", path, "key", b.Key, "params", len(b.Order))
	}
	return written, nil
}

func restoreMetadata(path string, b *paramfile.Block) error {
	prev, err := paramfile.LoadBlock(path, b.Key)
	if errors.Is(err, paramfile.ErrCommunityNotFound) || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, name := range b.Order {
		if m, ok := prev.Metadata(name); ok {
			b.SetMetadata(name, m)
		}
	}
	return nil
}
