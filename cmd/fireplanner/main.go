// Command fireplanner builds a surveillance plan for a spreading wildfire:
// it loads a precomputed ignition raster, derives the fire front, then
// greedily inserts observation segments while the plan utility improves.
// The search here is deliberately simple; it stands in for an external
// metaheuristic driver and exercises the same mutation operators.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"sort"

	"github.com/banshee-data/firewatch/internal/archive"
	"github.com/banshee-data/firewatch/internal/config"
	"github.com/banshee-data/firewatch/internal/firedata"
	"github.com/banshee-data/firewatch/internal/geom"
	"github.com/banshee-data/firewatch/internal/monitoring"
	"github.com/banshee-data/firewatch/internal/plan"
	"github.com/banshee-data/firewatch/internal/planviz"
	"github.com/banshee-data/firewatch/internal/raster"
	"github.com/banshee-data/firewatch/internal/uav"
	"github.com/banshee-data/firewatch/internal/units"
	"github.com/banshee-data/firewatch/internal/version"
)

var (
	ignitionsPath = flag.String("ignitions", "", "Path to the ignition raster JSON file (required)")
	outPath       = flag.String("out", "", "Write plan metadata JSON to this file (default stdout)")
	plotDir       = flag.String("plot-dir", "", "Write PNG plots of the plan to this directory")
	archivePath   = flag.String("archive", "", "Record the run in this sqlite archive")
	tuningPath    = flag.String("tuning", "", "Planner tuning overrides (JSON)")

	uavTail     = flag.String("uav", "06", "UAV tail number")
	uavSpeed    = flag.Float64("uav-speed", 0, "Override cruise speed (0 keeps the model default)")
	speedUnits  = flag.String("speed-units", units.MPS, "Units for -uav-speed (mps, kmph, knots)")
	altitude    = flag.Float64("altitude", 0, "Override the UAV nominal observation altitude in metres (0 keeps the model default)")
	startTime   = flag.Float64("start-time", 0, "Trajectory start time in seconds")
	windowStart = flag.Float64("window-start", 0, "Plan time window start in seconds")
	windowEnd   = flag.Float64("window-end", math.Inf(1), "Plan time window end in seconds")
	maxFlight   = flag.Float64("max-flight-time", 3600, "Per-trajectory flight time budget in seconds")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *ignitionsPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if !units.IsValidSpeedUnit(*speedUnits) {
		log.Fatalf("invalid -speed-units %q, want one of %v", *speedUnits, units.ValidSpeedUnits)
	}

	tuning := config.Defaults()
	if *tuningPath != "" {
		var err error
		tuning, err = config.Load(*tuningPath)
		if err != nil {
			log.Fatalf("failed to load tuning: %v", err)
		}
	}

	ignitions, err := raster.LoadJSON(*ignitionsPath)
	if err != nil {
		log.Fatalf("failed to load ignitions: %v", err)
	}
	fire := firedata.NewWithDwell(ignitions, *tuning.BorderDwell)
	monitoring.Logf("fireplanner: loaded %dx%d ignition raster", ignitions.XWidth, ignitions.YHeight)

	drone := uav.X8(*uavTail)
	if *uavSpeed > 0 {
		drone.MaxAirSpeed = units.ToMPS(*uavSpeed, *speedUnits)
	}
	if *altitude > 0 {
		drone.NominalAltitude = *altitude
	}

	confs := []plan.TrajectoryConfig{{
		Name:          drone.Name,
		UAV:           drone,
		StartTime:     *startTime,
		MaxFlightTime: *maxFlight,
	}}
	tw := geom.TimeWindow{Start: *windowStart, End: *windowEnd}

	p, err := plan.NewWithParams(confs, fire, tw, nil, tuning.PlanParams())
	if err != nil {
		log.Fatalf("failed to build plan: %v", err)
	}
	monitoring.Logf("fireplanner: %d possible observations in window [%g, %g]",
		len(p.PossibleObservations), tw.Start, tw.End)

	best := greedyInsert(p, fire, drone, *tuning.MaxSegments, *tuning.SegmentLength)
	md := best.Metadata()
	monitoring.Logf("fireplanner: final utility %.2f over %d segments", md.Utility, md.NumSegments)

	blob, err := json.MarshalIndent(md, "", "  ")
	if err != nil {
		log.Fatalf("failed to encode metadata: %v", err)
	}
	if *outPath == "" {
		fmt.Println(string(blob))
	} else if err := os.WriteFile(*outPath, blob, 0o644); err != nil {
		log.Fatalf("failed to write metadata: %v", err)
	}

	if *plotDir != "" {
		if err := os.MkdirAll(*plotDir, 0o755); err != nil {
			log.Fatalf("failed to create plot directory: %v", err)
		}
		if err := planviz.SaveGroundTracks(best, *plotDir); err != nil {
			log.Fatalf("failed to plot ground tracks: %v", err)
		}
		if err := planviz.SaveUtilityMap(best, *plotDir); err != nil {
			log.Fatalf("failed to plot utility map: %v", err)
		}
		if err := planviz.SaveIgnitionMap(ignitions, *plotDir); err != nil {
			log.Fatalf("failed to plot ignitions: %v", err)
		}
	}

	if *archivePath != "" {
		a, err := archive.Open(*archivePath)
		if err != nil {
			log.Fatalf("failed to open archive: %v", err)
		}
		defer a.Close()
		runID, err := a.RecordRun(best, fmt.Sprintf("fireplanner -ignitions %s", *ignitionsPath))
		if err != nil {
			log.Fatalf("failed to record run: %v", err)
		}
		fmt.Fprintf(os.Stderr, "recorded run %s\n", runID)
	}
}

// greedyInsert tries observation segments over the fire front, earliest
// ignitions first, keeping each insertion that improves utility.
func greedyInsert(p *plan.Plan, fire *firedata.FireData, drone *uav.UAV, maxSegments int, segmentLength float64) *plan.Plan {
	candidates := append([]geom.PointTimeWindow(nil), p.PossibleObservations...)
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].TW.Start < candidates[j].TW.Start
	})

	best := p
	bestUtility := p.Utility()
	inserted := 0
	for _, cand := range candidates {
		if inserted >= maxSegments {
			break
		}
		cell := fire.Ignitions.CellOf(cand.Pt)
		// Fly along the front: perpendicular to the propagation direction.
		heading := geom.NormalizeHeading(fire.PropagationDirections.Get(cell) + math.Pi/2)
		seg := drone.ObservationSegment(cand.Pt.X, cand.Pt.Y, heading, segmentLength)

		next := best.Clone()
		tr := next.Trajectories().Trajectory(0)
		if err := next.InsertSegment(0, seg, tr.LastModifiableManeuver()+1, true); err != nil {
			continue
		}
		if u := next.Utility(); u < bestUtility {
			best = next
			bestUtility = u
			inserted++
			monitoring.Logf("fireplanner: inserted segment %d, utility %.2f", inserted, u)
		}
	}
	return best
}
