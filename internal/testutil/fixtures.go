package testutil

// CalparbgcTXT holds two PFT blocks with uneven spacing, a divider and
// blank lines, the way hand-edited parameter files look.
const CalparbgcTXT = `// CMT01 // Shrub Tundra // Kougarok
//    Salix   Betula   Decid   EGreen   Sedges   Forbs   Grasses   Lichens   Feather   misc
  11.0 12.0 13.0 14.0 15.0 16.0 17.0 18.0 19.0 0.0  // cmax:gC/m2/month // maximum rate of C assimilation // tuned 2020 // Euskirchen et al. 2009
 0.5 0.5 0.5 0.5 0.5 0.5 0.5 0.5 0.5 0.5 // nmax:gN/m2/month // maximum N uptake // //
// ===========================================================

// CMT05 // Tussock Tundra // Toolik
//   Betula  Decid  EGreen  Sedges  Forbs  Lichens  Feather  Sphag  none  none
 91.0 40.5 33.2 108.2 20.0 7.5 3.2 1.1 0.0 0.0 // cmax:gC/m2/month // maximum rate of C assimilation // //
 1.25 1.5 2.0 2.5 3.0 3.5 4.0 4.5 0.0 0.0 // nmax:gN/m2/month // maximum N uptake // //

 0.0035 0.0035 0.0035 0.0035 0.0035 0.0035 0.0035 0.0035 0.0035 0.0035 // kra:1/month // maintenance respiration coefficient // from literature // Ryan 1991
`

// BgcsoilTXT holds two scalar blocks, one with a documentation comment and
// a value that needs scientific notation.
const BgcsoilTXT = `// CMT01 // Shrub Tundra // Kougarok
  0.38 // kdcrawc:1/yr // raw material C decomposition rate // //
  0.02 // kdcsoma:1/yr // active SOM C decomposition rate // //

// CMT05 // Tussock Tundra // Toolik
// soil decomposition rates at reference condition
  0.22 // kdcrawc:1/yr // raw material C decomposition rate // //
  0.0001234 // kdcsoma:1/yr // active SOM C decomposition rate // calibrated // Yi 2010
  400 // kc:ppmv // half saturation for CO2 // //
`

// ReadmeTXT is a file without community blocks.
const ReadmeTXT = `Parameter files for the ecosystem model.
Each file holds one block per community type.
`

// ParamFiles is a complete parameter directory.
var ParamFiles = map[string]string{
	"cmt_calparbgc.txt": CalparbgcTXT,
	"cmt_bgcsoil.txt":   BgcsoilTXT,
	"README.txt":        ReadmeTXT,
}

// TargetsHCL describes calibration targets for CMT05.
const TargetsHCL = `
community "tussock_tundra" {
  cmtnumber = 5
  pft_names = ["Betula", "Decid", "EGreen", "Sedges", "Forbs", "Lichens", "Feather", "Sphag", "none", "none"]

  scalars = {
    MossDeathC     = 0
    CarbonShallow  = 6509.9
    CarbonDeep     = 5654.1
  }

  vectors = {
    GPPAllIgnoringNitrogen = [11.8, 197.4, 45.6, 208.8, 37.1, 15.4, 24.2, 46.7, 0, 0]
  }

  compartments "VegCarbon" {
    leaf = [2.0, 37.1, 8.1, 44.1, 3.2, 80.8, 49.9, 188.0, 0, 0]
    stem = [4.1, 161.4, 12.2, 0, 0, 0, 0, 0, 0, 0]
    root = [0.7, 11.8, 3.1, 132.1, 2.5, 0, 0, 0, 0, 0]
  }
}

community "shrub_tundra" {
  cmtnumber = 1
  pft_names = ["Salix", "Betula", "Decid", "EGreen", "Sedges", "Forbs", "Grasses", "Lichens", "Feather", "misc"]

  scalars = {
    CarbonShallow = 3000
  }
}
`
