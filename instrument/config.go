package instrument

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/plasmonlab/sprsweep/optics"
	"github.com/plasmonlab/sprsweep/resonance"
)

// Sentinel errors of the configuration surface.
var (
	// ErrUnknownInstrument indicates a preset name ByName does not know.
	ErrUnknownInstrument = errors.New("instrument: unknown instrument")

	// ErrNoOutput indicates a config without a CSV destination.
	ErrNoOutput = errors.New("instrument: output CSV path is empty")
)

// Config is one instrument's complete run description. Values are plain
// data; Stack materializes the immutable optics value on demand.
type Config struct {
	Name        string
	Wavelength  float64 // nm, shared unit with Thicknesses
	Indices     []complex128
	Thicknesses []float64
	Pol         optics.Polarization
	Window      resonance.Grid
	Sweep       resonance.SweepSpec

	OutputCSV  string // record rows; required
	OutputXLSX string // workbook side channel; "" disables
	OutputPNG  string // plot side channel; "" disables
}

// Stack builds the base layer stack from the configured sequences.
func (c Config) Stack() (optics.Stack, error) {
	return optics.NewStack(c.Indices, c.Thicknesses)
}

// Validate checks the whole run up front: stack shape, sweep target,
// angular window and output destination. A config that passes Validate
// will not fail validation inside the locator.
func (c Config) Validate() error {
	stack, err := c.Stack()
	if err != nil {
		return err
	}
	if err = resonance.Validate(stack, c.Window, c.Sweep); err != nil {
		return err
	}
	if c.OutputCSV == "" {
		return ErrNoOutput
	}
	if c.Pol != optics.PolP && c.Pol != optics.PolS {
		return optics.ErrPolarization
	}
	if c.Wavelength <= 0 {
		return optics.ErrWavelength
	}

	return nil
}

// L633 is the HeNe-line instrument: BK7 prism, 5 nm chromium adhesion
// layer, 45 nm gold, lipid bilayer (headgroup + tails) and a thin adsorbed
// layer whose refractive index is the swept parameter, in water.
func L633() Config {
	return Config{
		Name:       "L633",
		Wavelength: 632.8,
		Indices: []complex128{
			1.515,        // BK7 prism
			3.14 + 3.54i, // Cr
			0.18 + 3.0i,  // Au
			1.46,         // lipid headgroups
			1.45,         // lipid tails
			1.45,         // adsorbed layer (swept)
			1.33,         // water
		},
		Thicknesses: []float64{
			optics.SemiInf, 5, 45, 0.6, 2.5, 1.45, optics.SemiInf,
		},
		Pol:        optics.PolP,
		Window:     resonance.Grid{MinDeg: 60, MaxDeg: 89.9, Samples: 1500},
		Sweep:      resonance.SweepSpec{Layer: 5, Min: 1.45, Max: 1.4507, Samples: 8},
		OutputCSV:  "resonance_633.csv",
		OutputXLSX: "",
		OutputPNG:  "",
	}
}

// L785 is the near-infrared variant of the same sensor: thicker gold and
// slightly lower dispersion-corrected indices, with its own search window.
func L785() Config {
	return Config{
		Name:       "L785",
		Wavelength: 785,
		Indices: []complex128{
			1.511,         // BK7 prism
			3.2 + 3.6i,    // Cr
			0.143 + 4.82i, // Au
			1.455,         // lipid headgroups
			1.447,         // lipid tails
			1.447,         // adsorbed layer (swept)
			1.327,         // water
		},
		Thicknesses: []float64{
			optics.SemiInf, 5, 48, 0.6, 2.5, 1.45, optics.SemiInf,
		},
		Pol:        optics.PolP,
		Window:     resonance.Grid{MinDeg: 58, MaxDeg: 88, Samples: 1500},
		Sweep:      resonance.SweepSpec{Layer: 5, Min: 1.447, Max: 1.4477, Samples: 8},
		OutputCSV:  "resonance_785.csv",
		OutputXLSX: "",
		OutputPNG:  "",
	}
}

// Names lists the built-in presets in a stable order.
func Names() []string { return []string{"L633", "L785"} }

// ByName returns a built-in preset.
//
// Errors:
//   - ErrUnknownInstrument when name matches no preset.
func ByName(name string) (Config, error) {
	switch name {
	case "L633":
		return L633(), nil
	case "L785":
		return L785(), nil
	default:
		return Config{}, fmt.Errorf("%w: %q (known: %v)", ErrUnknownInstrument, name, Names())
	}
}

// Environment keys honored by ApplyEnv.
const (
	EnvOutputCSV    = "SPRSWEEP_OUTPUT_CSV"
	EnvOutputXLSX   = "SPRSWEEP_OUTPUT_XLSX"
	EnvOutputPNG    = "SPRSWEEP_OUTPUT_PNG"
	EnvAngleSamples = "SPRSWEEP_ANGLE_SAMPLES"
	EnvSweepSamples = "SPRSWEEP_SWEEP_SAMPLES"
)

// ApplyEnv overrides output paths and sample counts from the environment,
// loading a local .env file first when one exists. Unset keys leave the
// config untouched.
func ApplyEnv(c *Config) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("instrument: load .env: %w", err)
	}

	if v, ok := os.LookupEnv(EnvOutputCSV); ok {
		c.OutputCSV = v
	}
	if v, ok := os.LookupEnv(EnvOutputXLSX); ok {
		c.OutputXLSX = v
	}
	if v, ok := os.LookupEnv(EnvOutputPNG); ok {
		c.OutputPNG = v
	}
	if v, ok := os.LookupEnv(EnvAngleSamples); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("instrument: %s: %w", EnvAngleSamples, err)
		}
		c.Window.Samples = n
	}
	if v, ok := os.LookupEnv(EnvSweepSamples); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("instrument: %s: %w", EnvSweepSamples, err)
		}
		c.Sweep.Samples = n
	}

	return nil
}
