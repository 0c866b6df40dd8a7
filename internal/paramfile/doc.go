// Package paramfile reads and writes the fixed-width, comment-annotated
// parameter files used by the ecosystem model.
//
// A file holds one or more community type (CMT) blocks:
//
//	// CMT05 // Tussock Tundra // note
//	//     Betula     Decid  ...  (ten PFT names, PFT blocks only)
//	  1.0000  2.0000 ... // cmax:gC/m2/day // description // comment // refs
//	400.0000             // kc:ppmv // description // comment // refs
//
// Parsing is split into small pure steps: Classify a line, LocateBlock a
// key inside a file, ParseHeader, ParseDataLine, and finally BuildBlock.
// FormatBlock is the inverse of BuildBlock. Files are re-read on every call;
// nothing is cached here.
package paramfile
