// Package instrument holds per-instrument run configurations: the
// wavelength, the base layer stack, the angular search window, the sweep
// specification and the output destinations.
//
// Each physical instrument is one Config value; a run never reads
// process-wide mutable state. Two presets ship in-tree (the 632.8 nm and
// 785 nm lines of the same sensor design); select one with ByName and
// optionally override the output paths and resolutions through the
// environment (a local .env file is honored via godotenv):
//
//	SPRSWEEP_OUTPUT_CSV    destination of the record rows (required surface)
//	SPRSWEEP_OUTPUT_XLSX   workbook side channel ("" disables)
//	SPRSWEEP_OUTPUT_PNG    plot side channel ("" disables)
//	SPRSWEEP_ANGLE_SAMPLES angular grid resolution
//	SPRSWEEP_SWEEP_SAMPLES sweep sample count
package instrument
