// Package tabular converts community blocks to and from a spreadsheet
// friendly CSV layout.
//
// Two layouts exist. Version 1 writes three sections introduced by fixed
// header rows: block metadata, PFT parameters and scalar parameters. Each
// row is keyed by file name and parameter name, so the blocks of several
// parameter files and the calibration targets of the community share one
// table. Version 0 is the older layout with one section per file, marked by
// the file name in capitals, and carries values only.
package tabular
