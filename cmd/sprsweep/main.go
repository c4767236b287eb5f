// Command sprsweep runs a resonance-dip sweep for one instrument
// configuration and writes the (refractive index, resonance angle) records
// to CSV, with optional XLSX and PNG side channels.
//
// Usage:
//
//	sprsweep -instrument L633
//	sprsweep -instrument L785 -csv run.csv -png curves.png -workers 8
//
// Ctrl-C aborts between sweep samples; records already written stay on disk
// and the run is reported as incomplete.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/plasmonlab/sprsweep/instrument"
	"github.com/plasmonlab/sprsweep/optics"
	"github.com/plasmonlab/sprsweep/report"
	"github.com/plasmonlab/sprsweep/resonance"
)

func main() {
	var (
		name    = flag.String("instrument", "L633", "instrument preset to run")
		list    = flag.Bool("list", false, "list instrument presets and exit")
		csvPath = flag.String("csv", "", "override the CSV output path")
		xlsx    = flag.String("xlsx", "", "also save an XLSX workbook to this path")
		png     = flag.String("png", "", "also save a reflectance plot to this path")
		workers = flag.Int("workers", 1, "goroutines per reflectance curve")
	)
	flag.Parse()
	log.SetFlags(0)

	if *list {
		for _, n := range instrument.Names() {
			fmt.Println(n)
		}

		return
	}

	cfg, err := instrument.ByName(*name)
	if err != nil {
		log.Fatal(err)
	}
	if err = instrument.ApplyEnv(&cfg); err != nil {
		log.Fatal(err)
	}
	if *csvPath != "" {
		cfg.OutputCSV = *csvPath
	}
	if *xlsx != "" {
		cfg.OutputXLSX = *xlsx
	}
	if *png != "" {
		cfg.OutputPNG = *png
	}

	// Fail fast: nothing below may run, and no file may appear, on bad input.
	if err = cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	stack, err := cfg.Stack()
	if err != nil {
		log.Fatal(err)
	}

	// Ctrl-C support: cancel between sweep samples, keep finished records.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		log.Println("interrupt received, stopping after the current sample...")
		cancel()
	}()

	sink, err := report.NewCSVSink(cfg.OutputCSV)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("%s: λ=%g nm, window %g–%g° (%d angles), layer %d swept %g→%g (%d samples)",
		cfg.Name, cfg.Wavelength, cfg.Window.MinDeg, cfg.Window.MaxDeg, cfg.Window.Samples,
		cfg.Sweep.Layer, cfg.Sweep.Min, cfg.Sweep.Max, cfg.Sweep.Samples)

	done := 0
	recs, runErr := resonance.Sweep(ctx, optics.Reflectance, stack,
		cfg.Wavelength, cfg.Pol, cfg.Window, cfg.Sweep,
		resonance.WithParallelism(*workers),
		resonance.WithOnRecord(func(r resonance.Record) error {
			done++
			log.Printf("  %2d/%d  n=%.6f  dip=%.4f°  R=%.4g",
				done, cfg.Sweep.Samples, r.Value, r.AngleDeg, r.Reflectance)

			return sink.Emit(r)
		}),
	)
	if err = sink.Close(); err != nil {
		log.Print(err)
	}

	complete := runErr == nil
	switch {
	case complete:
		log.Printf("done: %d records -> %s", len(recs), cfg.OutputCSV)
	case errors.Is(runErr, context.Canceled):
		log.Printf("interrupted: %d of %d records kept in %s",
			len(recs), cfg.Sweep.Samples, cfg.OutputCSV)
	default:
		log.Printf("run incomplete (%d records kept): %v", len(recs), runErr)
	}

	if cfg.OutputXLSX != "" {
		info := report.RunInfo{
			Instrument: cfg.Name,
			Wavelength: cfg.Wavelength,
			Pol:        cfg.Pol,
			Grid:       cfg.Window,
			Spec:       cfg.Sweep,
			Complete:   complete,
		}
		if err = report.SaveWorkbook(cfg.OutputXLSX, info, recs); err != nil {
			log.Print(err)
		} else {
			log.Printf("workbook saved: %s", cfg.OutputXLSX)
		}
	}

	if cfg.OutputPNG != "" {
		if err = savePlot(cfg, stack); err != nil {
			log.Print(err)
		} else {
			log.Printf("plot saved: %s", cfg.OutputPNG)
		}
	}

	if !complete {
		os.Exit(1)
	}
}

// savePlot overlays the reflectance curves of the sweep's two endpoint
// stacks for visual inspection of the dip shift.
func savePlot(cfg instrument.Config, stack optics.Stack) error {
	lo, err := stack.WithIndex(cfg.Sweep.Layer, complex(cfg.Sweep.Min, 0))
	if err != nil {
		return err
	}
	hi, err := stack.WithIndex(cfg.Sweep.Layer, complex(cfg.Sweep.Max, 0))
	if err != nil {
		return err
	}

	curveLo, err := resonance.Curve(optics.Reflectance, lo, cfg.Wavelength, cfg.Pol, cfg.Window)
	if err != nil {
		return err
	}
	curveHi, err := resonance.Curve(optics.Reflectance, hi, cfg.Wavelength, cfg.Pol, cfg.Window)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s reflectance, λ=%g nm", cfg.Name, cfg.Wavelength)

	return report.SavePlot(cfg.OutputPNG, title, cfg.Window,
		report.CurveSeries{Label: fmt.Sprintf("n=%.4f", cfg.Sweep.Min), R: curveLo},
		report.CurveSeries{Label: fmt.Sprintf("n=%.4f", cfg.Sweep.Max), R: curveHi},
	)
}
