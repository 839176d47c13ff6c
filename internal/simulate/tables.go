// Package simulate models longitudinal car motion by walking empirically
// sampled speed-versus-time curves.
package simulate

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"sync"

	"github.com/gocarina/gocsv"
)

var ErrInvalidTable = errors.New("invalid lookup table")

// Samples were collected at a fixed rate from a car driving in a straight
// line on flat ground, one file per input regime.
//
//go:embed data/*.csv
var baseTables embed.FS

const (
	coastFile    = "coast.csv"
	throttleFile = "throttle.csv"
	boostFile    = "boost.csv"
)

type sample struct {
	Time  float64 `csv:"time"`
	Speed float64 `csv:"car_vel_y"`
}

// Curve is one regime's speed-versus-time samples in chronological order,
// plus the same samples in reverse order.
type Curve struct {
	Time     []float64
	Speed    []float64
	TimeRev  []float64
	SpeedRev []float64
}

// Tables holds the three sampled regimes. It is immutable after loading and
// safe to share between any number of simulations.
type Tables struct {
	Coast    Curve
	Throttle Curve
	Boost    Curve
}

var defaultTables = sync.OnceValues(func() (*Tables, error) {
	return LoadTables(nil)
})

// DefaultTables returns the tables embedded in the binary. They are parsed
// once per process.
func DefaultTables() (*Tables, error) {
	return defaultTables()
}

// LoadTables reads coast.csv, throttle.csv and boost.csv from fsys. A nil
// fsys falls back to the embedded tables.
func LoadTables(fsys fs.FS) (*Tables, error) {
	if fsys == nil {
		sub, err := fs.Sub(baseTables, "data")
		if err != nil {
			return nil, fmt.Errorf("open embedded tables: %w", err)
		}

		fsys = sub
	}

	readers := make([]io.Reader, 0, 3)

	for _, name := range []string{coastFile, throttleFile, boostFile} {
		fh, err := fsys.Open(name)
		if err != nil {
			return nil, fmt.Errorf("open table %q: %w", name, err)
		}

		defer fh.Close() //nolint:errcheck // read-only

		readers = append(readers, fh)
	}

	return LoadTablesFrom(readers[0], readers[1], readers[2])
}

// LoadTablesFrom parses the three regimes from CSV streams with the columns
// time and car_vel_y.
func LoadTablesFrom(coast, throttle, boost io.Reader) (*Tables, error) {
	var (
		tables Tables
		err    error
	)

	tables.Coast, err = parseCurve(coastFile, coast)
	if err != nil {
		return nil, err
	}

	tables.Throttle, err = parseCurve(throttleFile, throttle)
	if err != nil {
		return nil, err
	}

	tables.Boost, err = parseCurve(boostFile, boost)
	if err != nil {
		return nil, err
	}

	return &tables, nil
}

func parseCurve(name string, r io.Reader) (Curve, error) {
	samples := []sample{}

	err := gocsv.Unmarshal(r, &samples)
	if err != nil {
		return Curve{}, fmt.Errorf("parse table %q: %w", name, err)
	}

	if len(samples) == 0 {
		return Curve{}, fmt.Errorf("%w: %q has no samples", ErrInvalidTable, name)
	}

	curve := Curve{
		Time:     make([]float64, len(samples)),
		Speed:    make([]float64, len(samples)),
		TimeRev:  make([]float64, len(samples)),
		SpeedRev: make([]float64, len(samples)),
	}

	for i, s := range samples {
		if math.IsNaN(s.Time) || math.IsNaN(s.Speed) {
			return Curve{}, fmt.Errorf("%w: %q row %d is NaN", ErrInvalidTable, name, i+1)
		}

		if i > 0 && s.Time <= samples[i-1].Time {
			return Curve{}, fmt.Errorf("%w: %q time not ascending at row %d", ErrInvalidTable, name, i+1)
		}

		curve.Time[i] = s.Time
		curve.Speed[i] = s.Speed

		j := len(samples) - 1 - i
		curve.TimeRev[j] = s.Time
		curve.SpeedRev[j] = s.Speed
	}

	if !monotonic(curve.Speed) {
		return Curve{}, fmt.Errorf("%w: %q speed is not monotonic", ErrInvalidTable, name)
	}

	return curve, nil
}

func monotonic(xs []float64) bool {
	rising, falling := true, true

	for i := 1; i < len(xs); i++ {
		if xs[i] < xs[i-1] {
			rising = false
		}

		if xs[i] > xs[i-1] {
			falling = false
		}
	}

	return rising || falling
}

// bySpeed returns the sample pair ordered by ascending speed, suitable for
// searching a speed.
func (c *Curve) bySpeed() (speeds, times []float64) {
	if len(c.Speed) > 1 && c.Speed[0] > c.Speed[len(c.Speed)-1] {
		return c.SpeedRev, c.TimeRev
	}

	return c.Speed, c.Time
}

// Duration is the time covered by the curve.
func (c *Curve) Duration() float64 {
	if len(c.Time) == 0 {
		return 0
	}

	return c.Time[len(c.Time)-1] - c.Time[0]
}
