// Package targets loads and writes calibration target tables.
//
// Targets are declared data, not code. Each community gets a block:
//
//	community "tussock_tundra" {
//	  cmtnumber = 5
//	  pft_names = ["Betula", ...]
//	  scalars   = { MossDeathC = 0 }
//	  vectors   = { GPPAllIgnoringNitrogen = [...] }
//	  compartments "VegCarbon" {
//	    leaf = [...]
//	    stem = [...]
//	    root = [...]
//	  }
//	}
//
// Every vector holds exactly one value per PFT slot.
package targets
