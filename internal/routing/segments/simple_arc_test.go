package segments_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/suite"

	"github.com/zetetos/rl-motion/internal/geometry"
	"github.com/zetetos/rl-motion/internal/groundsim"
	"github.com/zetetos/rl-motion/internal/routing"
	"github.com/zetetos/rl-motion/internal/routing/segments"
	"github.com/zetetos/rl-motion/internal/simulate"
	"github.com/zetetos/rl-motion/pkg/models"
)

type SimpleArcTestSuite struct {
	suite.Suite

	tables *simulate.Tables
}

func TestSimpleArcTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(SimpleArcTestSuite))
}

func (suite *SimpleArcTestSuite) SetupSuite() {
	tables, err := simulate.DefaultTables()
	suite.Require().NoError(err)

	suite.tables = tables
}

func (suite *SimpleArcTestSuite) TestQuarterTurnDuration() {
	// Act
	arc, err := segments.NewSimpleArc(
		mgl64.Vec2{0, 0}, 1000,
		mgl64.Vec2{1000, 0}, mgl64.Vec2{0, 500}, 100,
		mgl64.Vec2{0, 1000},
	)

	// Assert
	suite.Require().NoError(err)
	suite.InDelta(math.Pi/2, arc.Sweep(), 1e-9)
	suite.InDelta(1000*(math.Pi/2)/500, arc.Duration(), 1e-9)
}

func (suite *SimpleArcTestSuite) TestSweepFollowsDirectionOfTravel() {
	center := mgl64.Vec2{300, -200}
	radius := 800.0

	for startDeg := 0; startDeg < 360; startDeg += 45 {
		for endDeg := 10; endDeg < 360; endDeg += 50 {
			for _, turn := range []float64{math.Pi / 2, -math.Pi / 2} {
				startAngle := mgl64.DegToRad(float64(startDeg))
				endAngle := startAngle + mgl64.DegToRad(float64(endDeg))
				startLoc := center.Add(geometry.UnitFromAngle(startAngle).Mul(radius))
				endLoc := center.Add(geometry.UnitFromAngle(endAngle).Mul(radius))
				startVel := geometry.UnitFromAngle(startAngle + turn).Mul(900)

				// Act
				arc, err := segments.NewSimpleArc(center, radius, startLoc, startVel, 0, endLoc)

				// Assert
				suite.Require().NoError(err)

				expectedSign := geometry.Signum(geometry.AngleTo(startVel, center.Sub(startLoc)))
				suite.Equal(expectedSign, geometry.Signum(arc.Sweep()), "start %d end +%d turn %v", startDeg, endDeg, turn)
				suite.Greater(math.Abs(arc.Sweep()), 0.0)
				suite.Less(math.Abs(arc.Sweep()), 2*math.Pi)
				suite.True(arc.End().Loc.Vec2().ApproxEqualThreshold(endLoc, 1e-6))
			}
		}
	}
}

func (suite *SimpleArcTestSuite) TestGoesTheLongWayAround() {
	// Clockwise travel toward a point a quarter turn counter-clockwise.
	arc, err := segments.NewSimpleArc(
		mgl64.Vec2{0, 0}, 1000,
		mgl64.Vec2{1000, 0}, mgl64.Vec2{0, -500}, 0,
		mgl64.Vec2{0, 1000},
	)

	suite.Require().NoError(err)
	suite.InDelta(-3*math.Pi/2, arc.Sweep(), 1e-9)
	suite.InDelta(1000*(3*math.Pi/2)/500, arc.Duration(), 1e-9)
}

func (suite *SimpleArcTestSuite) TestVelocityTooLow() {
	tests := []struct {
		name   string
		vel    mgl64.Vec2
		endLoc mgl64.Vec2
	}{
		{name: "at rest", vel: mgl64.Vec2{0, 0}, endLoc: mgl64.Vec2{0, 1000}},
		{name: "just below", vel: mgl64.Vec2{0, 99.9}, endLoc: mgl64.Vec2{0, 1000}},
		{name: "bad geometry too", vel: mgl64.Vec2{0, 50}, endLoc: mgl64.Vec2{0, 5000}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := segments.NewSimpleArc(mgl64.Vec2{0, 0}, 1000, mgl64.Vec2{1000, 0}, tt.vel, 0, tt.endLoc)

			suite.Require().ErrorIs(err, segments.ErrVelocityTooLow)
		})
	}
}

func (suite *SimpleArcTestSuite) TestWrongGeometry() {
	tests := []struct {
		name      string
		endRadius float64
		fails     bool
	}{
		{name: "same radius", endRadius: 1000, fails: false},
		{name: "within tolerance", endRadius: 1000.9, fails: false},
		{name: "one unit out", endRadius: 1001, fails: true},
		{name: "far inside", endRadius: 400, fails: true},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := segments.NewSimpleArc(
				mgl64.Vec2{0, 0}, 1000,
				mgl64.Vec2{1000, 0}, mgl64.Vec2{0, 500}, 0,
				mgl64.Vec2{0, tt.endRadius},
			)

			if tt.fails {
				suite.Require().ErrorIs(err, segments.ErrWrongGeometry)
			} else {
				suite.Require().NoError(err)
			}
		})
	}
}

func (suite *SimpleArcTestSuite) TestEndStateIsRotatedStart() {
	arc, err := segments.NewSimpleArc(
		mgl64.Vec2{0, 0}, 1000,
		mgl64.Vec2{1000, 0}, mgl64.Vec2{0, 500}, 42,
		mgl64.Vec2{-1000, 0},
	)
	suite.Require().NoError(err)

	end := arc.End().To2D()

	suite.True(end.Loc.ApproxEqualThreshold(mgl64.Vec2{-1000, 0}, 1e-6))
	suite.True(end.Vel.ApproxEqualThreshold(mgl64.Vec2{0, -500}, 1e-6))
	suite.InDelta(-math.Pi/2, end.Yaw, 1e-9)
	suite.InDelta(42, end.Boost, 1e-12)
	suite.InDelta(42, arc.Start().Boost, 1e-12)
}

func (suite *SimpleArcTestSuite) TestArcPlannerStartsWhereTheCarIs() {
	start := routing.CarState2D{Loc: mgl64.Vec2{1000, 0}, Yaw: math.Pi / 2, Vel: mgl64.Vec2{0, 500}, Boost: 10}.To3D()

	plan, err := segments.ArcPlanner{Center: mgl64.Vec2{0, 0}, Radius: 1000, End: mgl64.Vec2{0, 1000}}.Plan(start)

	suite.Require().NoError(err)
	suite.Require().NoError(routing.CheckContinuity(start, plan.Start()))
}

func (suite *SimpleArcTestSuite) TestRunnerFailsOffTheGround() {
	arc, err := segments.NewSimpleArc(
		mgl64.Vec2{0, 0}, 1000,
		mgl64.Vec2{1000, 0}, mgl64.Vec2{0, 500}, 0,
		mgl64.Vec2{0, 1000},
	)
	suite.Require().NoError(err)

	action := arc.Run().Execute(contextAt(0, models.PlayerInfo{
		Physics: models.Physics{Location: mgl64.Vec3{1000, 0, 200}},
	}))

	suite.Equal(routing.RunFailure, action.Kind)
}

func (suite *SimpleArcTestSuite) TestQuarterTurnEndToEnd() {
	// Arrange
	arc, err := segments.NewSimpleArc(
		mgl64.Vec2{0, 0}, 1000,
		mgl64.Vec2{1000, 0}, mgl64.Vec2{0, 500}, 100,
		mgl64.Vec2{0, 1000},
	)
	suite.Require().NoError(err)

	sim := groundsim.New(suite.tables, arc.Start().To2D())

	// Act
	result := drive(sim, arc.Run(), 600)

	// Assert
	suite.Equal(routing.RunSuccess, result.outcome)
	suite.Less(float64(result.ticks)*dt, arc.Duration()+0.5)

	steers := make([]float64, 0, len(result.inputs))
	for _, input := range result.inputs {
		steers = append(steers, input.Steer)
	}

	suite.True(inRange(steers, -1, 1))

	loc := sim.State().Loc
	suite.GreaterOrEqual(geometry.AngleTo(mgl64.Vec2{1, 0}, loc), math.Pi/2)
	suite.InDelta(1000, loc.Len(), 300)
}

// onCircle is a grounded car at angle on a circle around the origin, heading
// counter-clockwise.
func onCircle(radius, angle float64) models.PlayerInfo {
	loc := geometry.UnitFromAngle(angle).Mul(radius)

	return models.PlayerInfo{
		Physics: models.Physics{
			Location: loc.Vec3(17),
			Rotation: models.Rotator{Yaw: angle + math.Pi/2},
		},
		OnGround: true,
	}
}

func (suite *SimpleArcTestSuite) TestRunnerCountsProgressPastTheStartAngle() {
	// Arrange
	sweep := mgl64.DegToRad(357)
	arc, err := segments.NewSimpleArc(
		mgl64.Vec2{0, 0}, 1000,
		mgl64.Vec2{1000, 0}, mgl64.Vec2{0, 500}, 100,
		geometry.UnitFromAngle(sweep).Mul(1000),
	)
	suite.Require().NoError(err)
	suite.Require().InDelta(sweep, arc.Sweep(), 1e-9)

	runner := arc.Run()

	// Act + Assert
	for deg := -3.0; deg <= 356; deg += 10 {
		action := runner.Execute(contextAt(0, onCircle(1000, mgl64.DegToRad(deg))))
		suite.Equal(routing.RunYield, action.Kind, "at %v degrees", deg)
	}

	action := runner.Execute(contextAt(0, onCircle(1000, mgl64.DegToRad(356.5))))
	suite.Equal(routing.RunYield, action.Kind)

	action = runner.Execute(contextAt(0, onCircle(1000, mgl64.DegToRad(357.5))))
	suite.Equal(routing.RunSuccess, action.Kind)
}

func (suite *SimpleArcTestSuite) TestNearFullLapEndToEnd() {
	tests := []struct {
		name     string
		startVel mgl64.Vec2
		endDeg   float64
	}{
		{name: "counter-clockwise", startVel: mgl64.Vec2{0, 500}, endDeg: -3},
		{name: "clockwise", startVel: mgl64.Vec2{0, -500}, endDeg: 3},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			// Arrange
			arc, err := segments.NewSimpleArc(
				mgl64.Vec2{0, 0}, 1000,
				mgl64.Vec2{1000, 0}, tt.startVel, 100,
				geometry.UnitFromAngle(mgl64.DegToRad(tt.endDeg)).Mul(1000),
			)
			suite.Require().NoError(err)
			suite.Require().InDelta(mgl64.DegToRad(357), math.Abs(arc.Sweep()), 1e-9)

			sim := groundsim.New(suite.tables, arc.Start().To2D())

			// Act
			result := drive(sim, arc.Run(), 1200)

			// Assert
			suite.Equal(routing.RunSuccess, result.outcome)
			suite.Less(float64(result.ticks)*dt, arc.Duration()+0.5)

			loc := sim.State().Loc
			suite.InDelta(1000, loc.Len(), 300)

			// Finished within a few degrees past the end point.
			past := geometry.AngleTo(arc.End().Loc.Vec2(), loc) * geometry.Signum(arc.Sweep())
			suite.GreaterOrEqual(past, -mgl64.DegToRad(1))
			suite.Less(past, mgl64.DegToRad(20))
		})
	}
}
