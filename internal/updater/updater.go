package updater

import (
	"context"
	"fmt"

	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/ctxlog"
	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/fsutil"
	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/lookup"
	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/paramfile"
)

// ScalarPFT is the PFT index used to address scalar parameters.
const ScalarPFT = -1

// Request addresses one value.
type Request struct {
	Name  string
	Key   string
	PFT   int
	Value float64
}

// Result describes an applied update.
type Result struct {
	File string
	Key  string
	Name string
	PFT  int
	Old  float64
	New  float64
}

// UpdateInDir builds a fresh index of dir and applies req.
func UpdateInDir(ctx context.Context, dir string, req Request) (*Result, error) {
	ix, err := lookup.Build(ctx, dir)
	if err != nil {
		return nil, err
	}
	return Update(ctx, ix, req)
}

// Update applies req to the file the index names as its owner.
func Update(ctx context.Context, ix *lookup.Index, req Request) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	key, err := paramfile.NormalizeKey(req.Key)
	if err != nil {
		return nil, err
	}
	file, err := ix.Owner(req.Name, key)
	if err != nil {
		return nil, err
	}

	lines, err := paramfile.ReadLines(file)
	if err != nil {
		return nil, err
	}
	span, err := paramfile.LocateBlock(lines, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	block, err := paramfile.BuildBlock(paramfile.BlockLines(lines, span))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	old, err := block.Set(req.Name, req.PFT, req.Value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	rendered, err := paramfile.FormatBlock(block, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	lines = paramfile.Splice(lines, span, rendered)
	if err := fsutil.WriteFileAtomic(file, []byte(paramfile.JoinLines(lines))); err != nil {
		return nil, err
	}

	res := &Result{File: file, Key: key, Name: req.Name, PFT: req.PFT, Old: old, New: req.Value}
	logger.Debug("Parameter updated.", "file", file, "key", key, "name", req.Name, "pft", req.PFT, "old", old, "new", req.Value)
	return res, nil
}

// UpdateAll applies requests in order and stops at the first failure. The
// results of the updates applied before the failure are returned with it.
func UpdateAll(ctx context.Context, ix *lookup.Index, reqs []Request) ([]*Result, error) {
	results := make([]*Result, 0, len(reqs))
	for i, req := range reqs {
		res, err := Update(ctx, ix, req)
		if err != nil {
			return results, fmt.Errorf("update %d (%s %s): %w", i, req.Key, req.Name, err)
		}
		results = append(results, res)
	}
	return results, nil
}
