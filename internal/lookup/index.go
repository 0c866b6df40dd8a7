package lookup

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/ctxlog"
	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/fsutil"
	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/paramfile"
)

// Entry describes one parameter file.
type Entry struct {
	Path string
	// Keys lists the community keys of the file, in file order.
	Keys         []string
	PFTParams    map[string]struct{}
	ScalarParams map[string]struct{}
	// ByKey holds the parameter names of each block.
	ByKey map[string]map[string]struct{}
}

// Has reports whether the file defines name, as either kind.
func (e *Entry) Has(name string) bool {
	_, pft := e.PFTParams[name]
	_, scalar := e.ScalarParams[name]
	return pft || scalar
}

// IsPFT reports whether the file defines name as a PFT parameter.
func (e *Entry) IsPFT(name string) bool {
	_, ok := e.PFTParams[name]
	return ok
}

// HasKey reports whether the file holds a block for key.
func (e *Entry) HasKey(key string) bool {
	for _, k := range e.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Defines reports whether the block for key defines name.
func (e *Entry) Defines(key, name string) bool {
	_, ok := e.ByKey[key][name]
	return ok
}

// Index maps parameter files to the parameter names they define.
type Index struct {
	dir     string
	entries []*Entry
	byPath  map[string]*Entry
}

// Build parses every block of every file in dir. Files without community
// blocks are skipped; any other parse failure aborts the build.
func Build(ctx context.Context, dir string) (*Index, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building parameter lookup index.", "dir", dir)

	files, err := fsutil.ListParameterFiles(dir)
	if err != nil {
		return nil, err
	}

	ix := &Index{dir: dir, byPath: make(map[string]*Entry)}
	for _, path := range files {
		blocks, err := paramfile.LoadBlocks(path)
		if err != nil {
			return nil, fmt.Errorf("failed to index parameter directory: %w", err)
		}
		if len(blocks) == 0 {
			logger.Debug("Skipping file without community blocks.", "file", path)
			continue
		}

		e := &Entry{
			Path:         path,
			PFTParams:    make(map[string]struct{}),
			ScalarParams: make(map[string]struct{}),
			ByKey:        make(map[string]map[string]struct{}, len(blocks)),
		}
		for _, b := range blocks {
			e.Keys = append(e.Keys, b.Key)
			names := make(map[string]struct{}, len(b.Order))
			e.ByKey[b.Key] = names
			for _, name := range b.Order {
				names[name] = struct{}{}
				if b.IsVector(name) {
					e.PFTParams[name] = struct{}{}
				} else {
					e.ScalarParams[name] = struct{}{}
				}
			}
		}
		ix.entries = append(ix.entries, e)
		ix.byPath[path] = e
		logger.Debug("Indexed parameter file.", "file", path, "keys", len(e.Keys), "pft_params", len(e.PFTParams), "scalar_params", len(e.ScalarParams))
	}

	logger.Debug("Parameter lookup index built.", "files", len(ix.entries))
	return ix, nil
}

// Dir returns the directory the index was built from.
func (ix *Index) Dir() string { return ix.dir }

// Len returns the number of indexed files.
func (ix *Index) Len() int { return len(ix.entries) }

// Files returns the indexed file paths in lexical order.
func (ix *Index) Files() []string {
	out := make([]string, len(ix.entries))
	for i, e := range ix.entries {
		out[i] = e.Path
	}
	return out
}

// Entry returns the entry for a file, given its full path or base name.
func (ix *Index) Entry(path string) (*Entry, bool) {
	if e, ok := ix.byPath[path]; ok {
		return e, true
	}
	e, ok := ix.byPath[filepath.Join(ix.dir, filepath.Base(path))]
	return e, ok
}

// Params returns the sorted parameter names defined in a file.
func (ix *Index) Params(path string) ([]string, bool) {
	e, ok := ix.Entry(path)
	if !ok {
		return nil, false
	}
	names := make(map[string]struct{}, len(e.PFTParams)+len(e.ScalarParams))
	for n := range e.PFTParams {
		names[n] = struct{}{}
	}
	for n := range e.ScalarParams {
		names[n] = struct{}{}
	}
	return sortedSet(names), true
}

// WhichFile returns the first file, in lexical order, that defines name.
func (ix *Index) WhichFile(name string) (string, error) {
	for _, e := range ix.entries {
		if e.Has(name) {
			return e.Path, nil
		}
	}
	return "", &paramfile.ParameterNotFoundError{Name: name, Where: ix.dir}
}

// FilesWithKey returns the files that hold a block for key.
func (ix *Index) FilesWithKey(key string) ([]string, error) {
	k, err := paramfile.NormalizeKey(key)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range ix.entries {
		if e.HasKey(k) {
			out = append(out, e.Path)
		}
	}
	return out, nil
}

// Keys returns every community key found in the directory, sorted.
func (ix *Index) Keys() []string {
	seen := make(map[string]struct{})
	for _, e := range ix.entries {
		for _, k := range e.Keys {
			seen[k] = struct{}{}
		}
	}
	return sortedSet(seen)
}

// Names returns the sorted PFT and scalar parameter names of the directory.
func (ix *Index) Names() (pft, scalar []string) {
	pftSet := make(map[string]struct{})
	scalarSet := make(map[string]struct{})
	for _, e := range ix.entries {
		for n := range e.PFTParams {
			pftSet[n] = struct{}{}
		}
		for n := range e.ScalarParams {
			scalarSet[n] = struct{}{}
		}
	}
	return sortedSet(pftSet), sortedSet(scalarSet)
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Owner returns the first file whose block for key defines name. Failing
// that, it returns the first file that defines name in another block and
// also holds key, leaving the caller to report the missing parameter. A
// name defined nowhere is ErrParameterNotFound. A name whose files lack
// the key is ErrCommunityNotFound against the first defining file.
func (ix *Index) Owner(name, key string) (string, error) {
	k, err := paramfile.NormalizeKey(key)
	if err != nil {
		return "", err
	}
	first, err := ix.WhichFile(name)
	if err != nil {
		return "", err
	}
	for _, e := range ix.entries {
		if e.Defines(k, name) {
			return e.Path, nil
		}
	}
	for _, e := range ix.entries {
		if e.Has(name) && e.HasKey(k) {
			return e.Path, nil
		}
	}
	return "", &paramfile.CommunityNotFoundError{Key: k, File: first}
}
