package segments_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/suite"

	"github.com/zetetos/rl-motion/internal/groundsim"
	"github.com/zetetos/rl-motion/internal/routing"
	"github.com/zetetos/rl-motion/internal/routing/segments"
	"github.com/zetetos/rl-motion/internal/simulate"
	"github.com/zetetos/rl-motion/pkg/models"
)

type JumpAndDodgeTestSuite struct {
	suite.Suite

	tables *simulate.Tables
	start  routing.CarState
}

func TestJumpAndDodgeTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(JumpAndDodgeTestSuite))
}

func (suite *JumpAndDodgeTestSuite) SetupSuite() {
	tables, err := simulate.DefaultTables()
	suite.Require().NoError(err)

	suite.tables = tables
}

func (suite *JumpAndDodgeTestSuite) SetupTest() {
	suite.start = routing.CarState2D{Vel: mgl64.Vec2{1000, 0}, Boost: 20}.To3D()
}

func (suite *JumpAndDodgeTestSuite) TestDurationIsConstant() {
	expected := 6.0/120.0 + 6.0/120.0 + 1.333333

	starts := []routing.CarState{
		suite.start,
		routing.CarState2D{Loc: mgl64.Vec2{-2000, 300}, Yaw: 2, Vel: mgl64.Vec2{-50, 10}}.To3D(),
	}

	for _, start := range starts {
		for _, direction := range []float64{0, 0.7, -math.Pi / 2, math.Pi} {
			dodge, err := segments.NewJumpAndDodge(start, direction)
			suite.Require().NoError(err)

			suite.InDelta(expected, dodge.Duration(), 1e-12)
		}
	}
}

func (suite *JumpAndDodgeTestSuite) TestForwardDodgeEndState() {
	// Act
	dodge, err := segments.NewJumpAndDodge(suite.start, 0)
	suite.Require().NoError(err)

	end := dodge.End().To2D()

	// Assert
	suite.InDelta(1500, end.Vel.X(), 1e-9)
	suite.InDelta(0, end.Vel.Y(), 1e-9)
	suite.InDelta(1000*0.1+1500*1.333333, end.Loc.X(), 1e-6)
	suite.InDelta(0, end.Yaw, 1e-12)
	suite.InDelta(20, end.Boost, 1e-12)
	suite.Equal(suite.start, dodge.Start())
}

func (suite *JumpAndDodgeTestSuite) TestSideDodgeIsRelativeToFacing() {
	// Facing +Y, dodging a quarter turn counter-clockwise pushes toward -X.
	start := routing.CarState2D{Yaw: math.Pi / 2, Vel: mgl64.Vec2{0, 1000}}.To3D()

	dodge, err := segments.NewJumpAndDodge(start, math.Pi/2)
	suite.Require().NoError(err)

	vel := dodge.End().To2D().Vel
	suite.InDelta(-500, vel.X(), 1e-9)
	suite.InDelta(1000, vel.Y(), 1e-9)
}

func (suite *JumpAndDodgeTestSuite) TestRejectsNaN() {
	_, err := segments.NewJumpAndDodge(suite.start, math.NaN())
	suite.Require().ErrorIs(err, routing.ErrInvalidState)

	broken := suite.start
	broken.Loc[0] = math.NaN()

	_, err = segments.NewJumpAndDodge(broken, 0)
	suite.Require().ErrorIs(err, routing.ErrInvalidState)
}

func (suite *JumpAndDodgeTestSuite) TestDodgeInputRoundTrips() {
	for _, direction := range []float64{0, 0.5, -1, math.Pi / 2, 3} {
		input := segments.DodgeInput(direction)

		suite.True(input.Jump)
		suite.InDelta(direction, segments.DodgeDirection(input), 1e-9)
	}
}

func (suite *JumpAndDodgeTestSuite) TestRunnerPhases() {
	// Arrange
	dodge, err := segments.NewJumpAndDodge(suite.start, 0)
	suite.Require().NoError(err)

	runner := dodge.Run()
	player := models.PlayerInfo{OnGround: true}

	// Act
	var phases []string

	finished := -1.0

	for i := range 400 {
		t := float64(i) / 120

		action := runner.Execute(contextAt(t, player))
		if action.Kind != routing.RunYield {
			suite.Equal(routing.RunSuccess, action.Kind)

			finished = t

			break
		}

		phase := "float"

		switch {
		case action.Input.Jump && action.Input.Pitch == 0:
			phase = "jump"
		case action.Input.Jump:
			phase = "dodge"
		}

		if len(phases) == 0 || phases[len(phases)-1] != phase {
			phases = append(phases, phase)
		}
	}

	// Assert
	suite.Equal([]string{"jump", "float", "dodge", "float"}, phases)
	suite.InDelta(dodge.Duration(), finished, 5.0/120)
}

func (suite *JumpAndDodgeTestSuite) TestForwardDodgeEndToEnd() {
	// Arrange
	dodge, err := segments.NewJumpAndDodge(suite.start, 0)
	suite.Require().NoError(err)

	sim := groundsim.New(suite.tables, suite.start.To2D())

	// Act
	result := drive(sim, dodge.Run(), 200)

	// Assert
	suite.Equal(routing.RunSuccess, result.outcome)
	suite.True(sim.OnGround())

	state := sim.State()
	suite.InDelta(dodge.End().Loc.X(), state.Loc.X(), 100)
	suite.InDelta(1500, state.Vel.Len(), 80)
}
