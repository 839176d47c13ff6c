// Package scenario loads route scenarios: a starting car state and an ordered
// list of segments to drive through.
package scenario

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/zetetos/rl-motion/internal/plan"
	"github.com/zetetos/rl-motion/internal/rl"
	"github.com/zetetos/rl-motion/internal/routing"
	"github.com/zetetos/rl-motion/internal/routing/segments"
	"github.com/zetetos/rl-motion/internal/simulate"
)

var ErrInvalidScenario = errors.New("invalid scenario")

const (
	DefaultTickRate    = 60.0
	DefaultMaxDuration = 10.0
)

//go:embed schema.json
var schemaJSON []byte

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7

	err := compiler.AddResource("scenario-schema.json", bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	schema, err := compiler.Compile("scenario-schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return schema, nil
})

type Start struct {
	Location [2]float64 `json:"location"`
	Yaw      float64    `json:"yaw"`
	Speed    float64    `json:"speed"`
	Boost    float64    `json:"boost"`
}

type Ball struct {
	Location [3]float64 `json:"location"`
	Velocity [3]float64 `json:"velocity"`
}

// Segment is one entry of the segment list. Which fields apply depends on
// Type.
type Segment struct {
	Type string `json:"type"`

	// straight
	Target      [2]float64 `json:"target"`
	TargetSpeed *float64   `json:"targetSpeed"`
	Mode        string     `json:"mode"`
	AllowDodge  bool       `json:"allowDodge"`

	// arc
	Center [2]float64 `json:"center"`
	Radius float64    `json:"radius"`
	End    [2]float64 `json:"end"`

	// dodge
	Direction float64 `json:"direction"`
}

type Scenario struct {
	Name        string    `json:"name"`
	TickRate    float64   `json:"tickRate"`
	MaxDuration float64   `json:"maxDuration"`
	Start       Start     `json:"start"`
	Ball        *Ball     `json:"ball"`
	Segments    []Segment `json:"segments"`
}

// Load reads and validates a scenario.
func Load(r io.Reader) (*Scenario, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, err
	}

	var doc any

	err = json.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	err = schema.Validate(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	var s Scenario

	err = json.Unmarshal(data, &s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	if s.TickRate == 0 {
		s.TickRate = DefaultTickRate
	}

	if s.MaxDuration == 0 {
		s.MaxDuration = DefaultMaxDuration
	}

	return &s, nil
}

// LoadFile reads and validates a scenario file.
func LoadFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// StartState is the car's initial state, resting on the ground.
func (s *Scenario) StartState() routing.CarState {
	start := routing.CarState2D{
		Loc:   mgl64.Vec2(s.Start.Location),
		Yaw:   s.Start.Yaw,
		Boost: s.Start.Boost,
	}
	start.Vel = start.Forward().Mul(s.Start.Speed)

	return start.To3D()
}

// TickDuration is the time between two ticks.
func (s *Scenario) TickDuration() float64 {
	return 1 / s.TickRate
}

// BallPredictor returns a constant-velocity prediction of the ball, if the
// scenario has one.
func (s *Scenario) BallPredictor() (plan.LinearBallPredictor, bool) {
	if s.Ball == nil {
		return plan.LinearBallPredictor{}, false
	}

	return plan.LinearBallPredictor{
		Loc: mgl64.Vec3(s.Ball.Location),
		Vel: mgl64.Vec3(s.Ball.Velocity),
	}, true
}

// Planner turns the segment list into a single planner.
func (s *Scenario) Planner(tables *simulate.Tables) (routing.Planner, error) {
	planners := make([]routing.Planner, 0, len(s.Segments))

	for i, seg := range s.Segments {
		p, err := seg.planner(tables)
		if err != nil {
			return nil, fmt.Errorf("%w: segment %d: %w", ErrInvalidScenario, i, err)
		}

		planners = append(planners, p)
	}

	return routing.ChainPlanners(planners...), nil
}

func (seg Segment) planner(tables *simulate.Tables) (routing.Planner, error) {
	switch seg.Type {
	case "straight":
		mode, err := segments.ParseStraightMode(seg.Mode)
		if err != nil {
			return nil, err
		}

		targetSpeed := rl.CarNormalSpeed
		if seg.TargetSpeed != nil {
			targetSpeed = *seg.TargetSpeed
		}

		return segments.StraightPlanner{
			Tables:      tables,
			Target:      mgl64.Vec2(seg.Target),
			TargetSpeed: targetSpeed,
			Mode:        mode,
			AllowDodge:  seg.AllowDodge,
		}, nil
	case "arc":
		return segments.ArcPlanner{
			Center: mgl64.Vec2(seg.Center),
			Radius: seg.Radius,
			End:    mgl64.Vec2(seg.End),
		}, nil
	case "dodge":
		return segments.DodgePlanner{Direction: seg.Direction}, nil
	default:
		return nil, fmt.Errorf("unknown segment type %q", seg.Type)
	}
}
