// Package lookup builds the directory lookup index: for each parameter file
// in a directory, the set of PFT and scalar parameter names it defines.
//
// An Index is a snapshot. It is built on demand, never persisted, and does
// not notice later changes to the directory; rebuild it after files change.
// Once built it is read-only, so it may be shared by concurrent readers.
package lookup
