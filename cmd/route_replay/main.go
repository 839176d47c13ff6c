// Command route_replay plans the route described by a scenario file and drives
// it tick by tick against the flat-ground simulator, printing the car's trace.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	rlmotion "github.com/zetetos/rl-motion"
	"github.com/zetetos/rl-motion/internal/behavior"
	"github.com/zetetos/rl-motion/internal/groundsim"
	"github.com/zetetos/rl-motion/internal/plan"
	"github.com/zetetos/rl-motion/internal/routing"
	"github.com/zetetos/rl-motion/internal/scenario"
	"github.com/zetetos/rl-motion/pkg/models"
)

func main() {
	var (
		scenarioFile string
		tablesDir    string
		logLevel     string
		every        int
		realtime     bool
		noColor      bool
	)

	flag.StringVar(&scenarioFile, "scenario", "", "Scenario file to replay (required)")
	flag.StringVar(&tablesDir, "tables", "", "Directory holding coast.csv, throttle.csv and boost.csv. Default: embedded tables")
	flag.StringVar(&logLevel, "log-level", "warn", "Log level: trace, debug, info, warn, error or off")
	flag.IntVar(&every, "every", 10, "Print every n-th tick, 0 prints only the summary")
	flag.BoolVar(&realtime, "realtime", false, "Pace ticks at the scenario tick rate")
	flag.BoolVar(&noColor, "no-color", false, "Disable colored output")
	flag.Parse()

	if scenarioFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	c := newColorPrinter(noColor)

	s, err := scenario.LoadFile(scenarioFile)
	if err != nil {
		log.Fatalf("Error loading scenario: %v", err)
	}

	agent, err := rlmotion.New(rlmotion.Options{
		LogLevel:     logLevel,
		TablesDir:    tablesDir,
		StatsEnabled: true,
	})
	if err != nil {
		log.Fatalf("Error creating agent: %v", err)
	}

	planner, err := s.Planner(agent.Tables())
	if err != nil {
		log.Fatalf("Error building planner: %v", err)
	}

	start := s.StartState()
	sim := groundsim.New(agent.Tables(), start.To2D())

	ballPredictor, hasBall := s.BallPredictor()
	if hasBall {
		ballLoc, ballVel := ballPredictor.Predict(0)
		sim.WithBall(models.BallInfo{Physics: models.Physics{Location: ballLoc, Velocity: ballVel}})
	}

	follow := routing.NewFollowRoute(planner)
	agent.SetBehavior(follow)

	fmt.Printf("Replaying %s (%d segments, %.0f Hz)\n", c.Cyan(s.Name), len(s.Segments), s.TickRate)

	if hasBall {
		printBallOutlook(c, agent, start, ballPredictor)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var ticker *time.Ticker
	if realtime {
		ticker = time.NewTicker(time.Duration(s.TickDuration() * float64(time.Second)))
		defer ticker.Stop()
	}

	dt := s.TickDuration()
	maxTicks := int(math.Ceil(s.MaxDuration / dt))

	var tick int

	for tick = 0; tick < maxTicks; tick++ {
		select {
		case <-sigChan:
			fmt.Println("\nInterrupt received, stopping replay...")
			printSummary(c, agent, follow, sim, tick)

			return
		default:
		}

		cmd, err := agent.Tick(sim.Snapshot())
		if err != nil {
			fmt.Printf("%s tick %d: %v\n", c.Red("error"), tick, err)

			break
		}

		if agent.Status() != behavior.StatusRunning {
			break
		}

		if every > 0 && tick%every == 0 {
			printTick(c, sim, cmd)
		}

		sim.Step(cmd, dt)

		if ticker != nil {
			<-ticker.C
		}
	}

	printSummary(c, agent, follow, sim, tick)

	if agent.Status() != behavior.StatusSucceeded {
		os.Exit(1)
	}
}

func printBallOutlook(c *colorPrinter, agent *rlmotion.Agent, start routing.CarState, ball plan.LinearBallPredictor) {
	me := plan.CarFromState(start.Loc, start.Rot, start.Vel, start.Boost)
	// A mirrored opponent, as at kickoff.
	enemy := plan.CarFromState(
		mgl64.Vec3{-start.Loc.X(), -start.Loc.Y(), start.Loc.Z()},
		mgl64.QuatRotate(math.Pi, mgl64.Vec3{0, 0, 1}).Mul(start.Rot),
		mgl64.Vec3{-start.Vel.X(), -start.Vel.Y(), start.Vel.Z()},
		start.Boost,
	)

	ballLoc, _ := ball.Predict(0)
	rough := plan.RoughTimeDriveToLoc(agent.Tables(), me, ballLoc.Vec2())
	race := plan.RaceToBall(agent.Tables(), me, enemy, ball)

	fmt.Printf("  rough time to ball %s\n", c.Yellow(fmt.Sprintf("%.3fs", rough)))
	fmt.Printf("  race vs mirrored opponent: me %.3fs, them %.3fs, ratio %.2f\n",
		race.MeTime, race.EnemyTime, race.Ratio())
}

func printTick(c *colorPrinter, sim *groundsim.Sim, cmd models.ControlCommand) {
	state := sim.State()

	flags := ""
	if cmd.Boost {
		flags += "B"
	}

	if cmd.Jump {
		flags += "J"
	}

	if cmd.Handbrake {
		flags += "H"
	}

	if !sim.OnGround() {
		flags += c.Yellow("~")
	}

	fmt.Printf("%s loc=(%8.1f, %8.1f) yaw=%6.3f speed=%7.1f boost=%5.1f throttle=%5.2f steer=%5.2f %s\n",
		c.Faint(fmt.Sprintf("t=%6.3f", sim.Time())),
		state.Loc.X(), state.Loc.Y(), state.Yaw, state.Vel.Len(), state.Boost,
		cmd.Throttle, cmd.Steer, flags)
}

func printSummary(c *colorPrinter, agent *rlmotion.Agent, follow *routing.FollowRoute, sim *groundsim.Sim, ticks int) {
	status := agent.Status()

	label := c.Red(status.String())
	if status == behavior.StatusSucceeded {
		label = c.Green(status.String())
	}

	fmt.Printf("\nResult: %s after %d ticks (%.3fs)\n", label, ticks, sim.Time())

	if p := follow.Plan(); p != nil {
		end := p.End().To2D()
		miss := sim.State().Loc.Sub(end.Loc).Len()

		fmt.Printf("  planned %s in %.3fs, ended %.1f uu from the planned end\n", p.Name(), p.Duration(), miss)

		if route, ok := p.(*routing.Route); ok {
			for i, seg := range route.Segments() {
				fmt.Printf("    %d. %-14s %.3fs\n", i+1, seg.Name(), seg.Duration())
			}
		}
	}

	stats := agent.Statistics
	fmt.Printf("  tick time avg %v, max %v, %d over budget\n", stats.TickTimeAvg, stats.TickTimeMax, stats.BudgetOverruns)
}
