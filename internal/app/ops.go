package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/ctxlog"
	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/fsutil"
	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/lookup"
	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/paramfile"
	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/tabular"
	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/targets"
	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/updater"
)

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func paramLabel(name string, pft int) string {
	if pft < 0 {
		return name
	}
	return fmt.Sprintf("%s[%d]", name, pft)
}

// Locate prints the block for key in file exactly as it appears on disk.
func (a *App) Locate(ctx context.Context, file, key string) (paramfile.Span, error) {
	logger := ctxlog.FromContext(a.context(ctx))
	path := a.resolve(file)

	lines, err := paramfile.ReadLines(path)
	if err != nil {
		return paramfile.Span{}, err
	}
	span, err := paramfile.LocateBlock(lines, key)
	if err != nil {
		return paramfile.Span{}, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("Block located.", "file", path, "first_line", span.Start+1, "last_line", span.End)

	for _, line := range lines[span.Start:span.End] {
		fmt.Fprintln(a.outW, line)
	}
	return span, nil
}

// Keys prints the community keys of file, or of the whole parameter
// directory when file is empty.
func (a *App) Keys(ctx context.Context, file string) ([]string, error) {
	ctx = a.context(ctx)

	var keys []string
	if file == "" {
		idx, err := lookup.Build(ctx, a.config.ParamDir)
		if err != nil {
			return nil, err
		}
		keys = idx.Keys()
	} else {
		var err error
		if keys, err = paramfile.KeysInFile(a.resolve(file)); err != nil {
			return nil, err
		}
	}

	for _, k := range keys {
		fmt.Fprintln(a.outW, k)
	}
	return keys, nil
}

// Index builds the lookup index of the parameter directory and prints one
// row per parameter file.
func (a *App) Index(ctx context.Context) (*lookup.Index, error) {
	ctx = a.context(ctx)
	idx, err := lookup.Build(ctx, a.config.ParamDir)
	if err != nil {
		return nil, err
	}

	tw := tabwriter.NewWriter(a.outW, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tKEYS\tPFT PARAMS\tSCALAR PARAMS")
	for _, path := range idx.Files() {
		e, _ := idx.Entry(path)
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", filepath.Base(path), strings.Join(e.Keys, ","), len(e.PFTParams), len(e.ScalarParams))
	}
	if err := tw.Flush(); err != nil {
		return nil, err
	}

	a.logger.Info("Parameter directory indexed.", "dir", idx.Dir(), "files", idx.Len(), "keys", len(idx.Keys()))
	return idx, nil
}

// Which prints the file that defines name.
func (a *App) Which(ctx context.Context, name string) (string, error) {
	idx, err := lookup.Build(a.context(ctx), a.config.ParamDir)
	if err != nil {
		return "", err
	}
	path, err := idx.WhichFile(name)
	if err != nil {
		return "", err
	}
	fmt.Fprintln(a.outW, path)
	return path, nil
}

// Update changes one value in the parameter directory.
func (a *App) Update(ctx context.Context, req updater.Request) (*updater.Result, error) {
	res, err := updater.UpdateInDir(a.context(ctx), a.config.ParamDir, req)
	if err != nil {
		return nil, err
	}

	a.logger.Info("Parameter updated.", "file", res.File, "key", res.Key, "name", res.Name, "pft", res.PFT, "old", res.Old, "new", res.New)
	fmt.Fprintf(a.outW, "%s %s %s: %s -> %s\n", filepath.Base(res.File), res.Key, paramLabel(res.Name, res.PFT), formatNumber(res.Old), formatNumber(res.New))
	return res, nil
}

func (a *App) loadTargets() (*targets.Table, error) {
	if a.config.TargetsFile == "" {
		return nil, nil
	}
	return targets.Load(a.config.TargetsFile)
}

// ToCSV writes the blocks for key as a table, to outPath or, when outPath
// is empty, to the app output. Calibration targets are merged into v1
// tables when a targets file is configured.
func (a *App) ToCSV(ctx context.Context, key string, version tabular.Version, outPath string) (*tabular.Document, error) {
	ctx = a.context(ctx)
	tt, err := a.loadTargets()
	if err != nil {
		return nil, err
	}

	doc, err := tabular.ToTable(ctx, a.config.ParamDir, key, tt)
	if err != nil {
		return nil, err
	}
	doc.Version = version

	var buf bytes.Buffer
	if err := tabular.Encode(&buf, doc); err != nil {
		return nil, err
	}

	if outPath == "" {
		_, err = a.outW.Write(buf.Bytes())
	} else {
		err = fsutil.WriteFileAtomic(outPath, buf.Bytes())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write table: %w", err)
	}

	a.logger.Info("Table written.", "key", doc.Key, "version", version.String(), "files", len(doc.Files), "targets", doc.Targets != nil, "out", outPath)
	return doc, nil
}

// FromCSV reads a table and writes its blocks back into the parameter
// directory. Calibration targets found in the table replace the community
// in the configured targets file.
func (a *App) FromCSV(ctx context.Context, inPath string) ([]string, error) {
	ctx = a.context(ctx)

	f, err := os.Open(inPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open table: %w", err)
	}
	defer f.Close()

	doc, err := tabular.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", inPath, err)
	}

	written, err := tabular.FromTable(ctx, doc, a.config.ParamDir)
	if err != nil {
		return written, err
	}

	if doc.Targets != nil {
		if a.config.TargetsFile == "" {
			a.logger.Warn("Calibration targets in table ignored: no targets file configured.", "key", doc.Key)
		} else {
			if err := a.storeTargets(doc.Targets); err != nil {
				return written, err
			}
			written = append(written, a.config.TargetsFile)
		}
	}

	a.logger.Info("Table applied.", "key", doc.Key, "version", doc.Version.String(), "files", len(written))
	for _, path := range written {
		fmt.Fprintln(a.outW, path)
	}
	return written, nil
}

func (a *App) storeTargets(c *targets.Community) error {
	tt, err := targets.Load(a.config.TargetsFile)
	if errors.Is(err, fs.ErrNotExist) {
		tt, err = &targets.Table{}, nil
	}
	if err != nil {
		return err
	}
	tt.Put(c)
	return targets.Write(a.config.TargetsFile, tt)
}

// FileDifference is a value difference found in one parameter file.
type FileDifference struct {
	File string
	paramfile.Difference
}

// Compare prints the differences between the blocks for keyA and keyB in
// every parameter file that defines both.
func (a *App) Compare(ctx context.Context, keyA, keyB string) ([]FileDifference, error) {
	ctx = a.context(ctx)
	ka, err := paramfile.NormalizeKey(keyA)
	if err != nil {
		return nil, err
	}
	kb, err := paramfile.NormalizeKey(keyB)
	if err != nil {
		return nil, err
	}
	idx, err := lookup.Build(ctx, a.config.ParamDir)
	if err != nil {
		return nil, err
	}

	var out []FileDifference
	compared := 0
	for _, path := range idx.Files() {
		e, _ := idx.Entry(path)
		if !e.HasKey(ka) || !e.HasKey(kb) {
			continue
		}
		ba, err := paramfile.LoadBlock(path, ka)
		if err != nil {
			return nil, err
		}
		bb, err := paramfile.LoadBlock(path, kb)
		if err != nil {
			return nil, err
		}
		compared++

		name := filepath.Base(path)
		for _, d := range paramfile.CompareBlocks(ba, bb) {
			out = append(out, FileDifference{File: name, Difference: d})
			switch d.OnlyIn {
			case "a":
				fmt.Fprintf(a.outW, "%s %s: only in %s\n", name, d.Name, ka)
			case "b":
				fmt.Fprintf(a.outW, "%s %s: only in %s\n", name, d.Name, kb)
			case "shape":
				fmt.Fprintf(a.outW, "%s %s: scalar in one block, pft in the other\n", name, d.Name)
			default:
				fmt.Fprintf(a.outW, "%s %s: %s -> %s\n", name, paramLabel(d.Name, d.PFT), formatNumber(d.A), formatNumber(d.B))
			}
		}
	}
	if compared == 0 {
		return nil, fmt.Errorf("no parameter file defines both %s and %s: %w", ka, kb, paramfile.ErrCommunityNotFound)
	}

	a.logger.Info("Blocks compared.", "a", ka, "b", kb, "files", compared, "differences", len(out))
	return out, nil
}

// Format prints the block for key in file in canonical layout. The block
// order follows the configured reference file, if any.
func (a *App) Format(ctx context.Context, file, key string) ([]string, error) {
	logger := ctxlog.FromContext(a.context(ctx))
	path := a.resolve(file)

	b, err := paramfile.LoadBlock(path, key)
	if err != nil {
		return nil, err
	}

	var order []string
	if a.config.ReferenceFile != "" {
		if order, err = paramfile.ReferenceOrder(a.config.ReferenceFile); err != nil {
			return nil, err
		}
		logger.Debug("Using reference ordering.", "reference", a.config.ReferenceFile, "names", len(order))
	}

	lines, err := paramfile.FormatBlock(b, order)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, line := range lines {
		fmt.Fprintln(a.outW, line)
	}
	return lines, nil
}

// Sum prints the total of a PFT parameter over the contributing PFTs of
// the block for key.
func (a *App) Sum(ctx context.Context, name, key string) (float64, error) {
	ctx = a.context(ctx)
	idx, err := lookup.Build(ctx, a.config.ParamDir)
	if err != nil {
		return 0, err
	}
	path, err := idx.Owner(name, key)
	if err != nil {
		return 0, err
	}
	b, err := paramfile.LoadBlock(path, key)
	if err != nil {
		return 0, err
	}
	total, err := b.Sum(name)
	if err != nil {
		return 0, err
	}
	fmt.Fprintln(a.outW, formatNumber(total))
	return total, nil
}
