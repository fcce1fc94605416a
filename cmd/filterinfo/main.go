// Command filterinfo prints the frequency response of the synth filters.
//
// Usage:
//
//	filterinfo [flags] [model ...]
//
// Without arguments it prints every model.
//
// Examples:
//
//	filterinfo ladder
//	filterinfo -cutoff 72 -resonance 0.9 digital diode
//	filterinfo -style 24db -blend 1 analog
//	filterinfo -probe 100,1000,5000
//	filterinfo -list
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/filter/response"
	"github.com/cwbudde/algo-synth/dsp/filter/synth"
	"github.com/cwbudde/algo-synth/dsp/poly"
)

const floorDb = -120

type settings struct {
	cutoff    float64
	resonance float64
	blend     float64
	driveDb   float64
	style     synth.Style
	x, y      float64
}

func main() {
	size := flag.Int("size", 8192, "impulse response length in samples (power of two)")
	rate := flag.Float64("rate", response.DefaultSampleRate, "offscreen sample rate in Hz")
	cutoff := flag.Float64("cutoff", 60, "cutoff as a midi note")
	resonance := flag.Float64("resonance", 0.5, "resonance in [0, 1]")
	blend := flag.Float64("blend", 0, "pass blend in [0, 2]")
	drive := flag.Float64("drive", 0, "drive in dB")
	styleName := flag.String("style", synth.Style12Db.String(), "filter style")
	x := flag.Float64("x", 0, "formant interpolate x in [0, 1]")
	y := flag.Float64("y", 0, "formant interpolate y in [0, 1]")
	probe := flag.String("probe", "100,1000,5000", "comma-separated probe frequencies in Hz")
	list := flag.Bool("list", false, "list available models and styles")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: filterinfo [flags] [model ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints the frequency response of the synth filter models.\n")
		fmt.Fprintf(os.Stderr, "Without arguments, prints every model.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  filterinfo ladder\n")
		fmt.Fprintf(os.Stderr, "  filterinfo -cutoff 72 -resonance 0.9 digital diode\n")
		fmt.Fprintf(os.Stderr, "  filterinfo -list\n")
	}
	flag.Parse()

	if *list {
		printList()
		return
	}

	style, err := synth.ParseStyle(strings.ToLower(*styleName))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	probes, err := parseProbes(*probe)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	models := resolveModels(flag.Args())
	if len(models) == 0 {
		fmt.Fprintf(os.Stderr, "error: no matching filter models\n")
		os.Exit(1)
	}

	analyzer, err := response.New(*size, core.WithSampleRate(*rate))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	s := settings{
		cutoff:    *cutoff,
		resonance: *resonance,
		blend:     *blend,
		driveDb:   *drive,
		style:     style,
		x:         *x,
		y:         *y,
	}

	nyquist := analyzer.SampleRate() / 2
	for i, f := range probes {
		probes[i] = core.Clamp(f, 0, nyquist)
	}

	fmt.Printf("kernel %s, %d lanes, %.0f Hz\n", poly.KernelName(), poly.Lanes, analyzer.SampleRate())
	fmt.Printf("drive %.1f dB (x%.3f)\n\n", s.driveDb, core.DBToLinear(s.driveDb))
	printAnalysis(analyzer, models, s, probes)
}

func printList() {
	fmt.Println("models:")
	for m := range synth.NumModels {
		fmt.Printf("  %s\n", m)
	}
	fmt.Println("styles:")
	for s := range synth.NumStyles {
		fmt.Printf("  %s\n", s)
	}
}

func parseProbes(arg string) ([]float64, error) {
	var out []float64
	for _, field := range strings.Split(arg, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		f, err := strconv.ParseFloat(field, 64)
		if err != nil || f <= 0 {
			return nil, fmt.Errorf("invalid probe frequency %q", field)
		}
		out = append(out, f)
	}
	return out, nil
}

func resolveModels(names []string) []synth.Model {
	if len(names) == 0 {
		models := make([]synth.Model, 0, synth.NumModels)
		for m := range synth.NumModels {
			models = append(models, m)
		}
		return models
	}

	var result []synth.Model
	for _, name := range names {
		m, err := synth.ParseModel(strings.ToLower(strings.TrimSpace(name)))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: unknown model %q (use -list to see available)\n", name)
			continue
		}
		result = append(result, m)
	}
	return result
}

// controls maps the flags onto raw control values so they are clamped the
// same way a voice clamps them.
func (s settings) controls() *synth.ValueControls {
	var c synth.ValueControls
	c.Set(synth.InputMidiCutoff, float32(s.cutoff))
	c.Set(synth.InputResonance, float32(s.resonance))
	c.Set(synth.InputDrive, float32(s.driveDb))
	c.Set(synth.InputStyle, float32(s.style))
	c.Set(synth.InputPassBlend, float32(s.blend))
	c.Set(synth.InputInterpolateX, float32(s.x))
	c.Set(synth.InputInterpolateY, float32(s.y))
	return &c
}

func printAnalysis(a *response.Analyzer, models []synth.Model, s settings, probes []float64) {
	var state synth.State
	state.LoadSettings(s.controls())

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	header := "Model\tStyle\tPeak [Hz]\tPeak [dB]\tDC [dB]"
	rule := "-----\t-----\t---------\t---------\t-------"
	for _, f := range probes {
		label := fmt.Sprintf("%g Hz [dB]", f)
		header += "\t" + label
		rule += "\t" + strings.Repeat("-", len(label))
	}

	if _, err := fmt.Fprintln(tw, header+"\n"+rule); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}

	for _, m := range models {
		curve, err := a.Model(m, &state, 0)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "error: %s: %v\n", m, err)
			continue
		}

		peakHz, peak := curve.Peak()
		row := fmt.Sprintf("%s\t%s\t%.1f\t%.2f\t%.2f", m, state.Style, peakHz, toDb(peak), toDb(curve.Magnitudes[0]))
		for _, f := range probes {
			row += fmt.Sprintf("\t%.2f", toDb(curve.MagnitudeAt(f)))
		}

		if _, err := fmt.Fprintln(tw, row); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output row: %v\n", err)
			return
		}
	}

	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}

func toDb(magnitude float64) float64 {
	return max(floorDb, core.LinearToDB(magnitude))
}
