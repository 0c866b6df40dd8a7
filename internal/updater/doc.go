// Package updater changes single parameter values in place.
//
// An update resolves the owning file through a lookup.Index, re-reads that
// file, re-renders only the addressed community block and writes the file
// back atomically. Concurrent updates of the same file are not coordinated;
// callers running in parallel must each work on a private copy of the
// parameter directory.
package updater
