/*
 * Copyright (C) 2019-Present Pivotal Software, Inc. All rights reserved.
 *
 * This program and the accompanying materials are made available under the terms
 * of the Apache License, Version 2.0 (the "License”); you may not use this file
 * except in compliance with the License. You may obtain a copy of the License at:
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software distributed
 * under the License is distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR
 * CONDITIONS OF ANY KIND, either express or implied. See the License for the
 * specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bvinc/go-sqlite-lite/sqlite3"
	"github.com/logrusorgru/aurora"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"housesim/pkg/config"
	"housesim/pkg/data"
	"housesim/pkg/logging"
	"housesim/pkg/runner"
	"housesim/pkg/simulator"
	"housesim/pkg/tracelog"
)

var (
	defaults         = config.Default()
	startRunning     = time.Now()
	au               = aurora.NewAurora(true)
	printer          = message.NewPrinter(language.AmericanEnglish)
	configFile       = flag.String("config", "", "YAML scenario file; flags given explicitly override it")
	width            = flag.Float64("width", defaults.Width, "Width of the region houses live in")
	height           = flag.Float64("height", defaults.Height, "Height of the region houses live in")
	speed            = flag.Float64("speed", defaults.Speed, "Distance a house moves per tick")
	arrivalTolerance = flag.Float64("arrivalTolerance", 0, "Distance at which a house counts as arrived; 0 uses the speed")
	maxTicks         = flag.Int("maxTicks", defaults.MaxTicks, "Tick budget; 0 derives it from the diagonal of the region")
	tickDelay        = flag.Duration("tickDelay", 0, "Delay between ticks, for watching the trace")
	mode             = flag.String("mode", defaults.Mode, "'sequential' steps every house in one loop, 'concurrent' gives each house its own goroutine")
	seed             = flag.Int64("seed", 0, "Seed for target sampling; 0 seeds from the clock")
	randomHouses     = flag.Int("randomHouses", 0, "Number of extra houses placed at random, alternating capital and wooden")
	showTrace        = flag.Bool("showTrace", true, "Print positions as houses move (final positions only in concurrent mode)")
	storeRun         = flag.Bool("storeRun", false, "Store simulation run results in the -db file")
	dbPath           = flag.String("db", "housesim.db", "sqlite database used by -storeRun")
	tracePath        = flag.String("trace", "", "Write a zstd-compressed JSONL trace of every step to this file")
	logLevel         = flag.String("logLevel", "info", "Minimum level of log output included in the report")
)

func main() {
	flag.Parse()

	scenario, err := buildScenario()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not configure scenario: %s\n", err.Error())
		os.Exit(2)
	}

	r, err := NewRunner(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not configure logging: %s\n", err.Error())
		os.Exit(2)
	}

	observers := make([]simulator.Observer, 0)
	if *showTrace {
		observers = append(observers, ConsoleObserver(scenario.Mode, os.Stdout))
	}

	recorder := data.NewRecorder()
	if *storeRun {
		observers = append(observers, recorder)
	}

	var trace *tracelog.Writer
	if *tracePath != "" {
		trace, err = tracelog.Create(*tracePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not create trace file: %s\n", err.Error())
			os.Exit(1)
		}
		observers = append(observers, trace)
	}

	fmt.Println("Running simulation ... ")

	result, err := runner.Execute(r.Context(), scenario, simulator.Observers(observers...))
	if err != nil {
		fmt.Fprintf(os.Stderr, "there was an error during simulation: %s\n", err.Error())
		os.Exit(1)
	}

	if trace != nil {
		if err := trace.Close(); err != nil {
			fmt.Printf("there was an error writing the trace: %s\n", err.Error())
		}
	}

	if *storeRun {
		scenarioRunId, err := store(*dbPath, scenario, result, recorder)
		if err != nil {
			fmt.Printf("there was an error saving data: %s\n", err.Error())
		} else {
			fmt.Printf("#%d ", au.Bold(scenarioRunId))
		}
	}

	err = r.Report(scenario, result, os.Stdout)
	if err != nil {
		fmt.Printf("there was an error during reporting: %s\n", err.Error())
	}
}

type Runner interface {
	Context() context.Context
	Report(scenario config.Scenario, result runner.Result, writer io.Writer) error
}

type cliRunner struct {
	ctx    context.Context
	logbuf *bytes.Buffer
}

func (r *cliRunner) Context() context.Context {
	return r.ctx
}

func (r *cliRunner) Report(scenario config.Scenario, result runner.Result, writer io.Writer) error {
	summary := result.Summary

	status := au.BgGreen("Settled houses")
	if summary.Halted {
		status = au.BgBrown("Halted, settled")
	}

	fmt.Fprintf(writer,
		"%5s      %16s %-6s  %12s %-8s  %20s %-10s\n\n",
		au.Bold("Done."),
		status,
		au.Bold(printer.Sprintf("%d/%d", summary.Settled, summary.Entities)),
		au.Cyan("Ticks run:"),
		au.Bold(printer.Sprintf("%d", summary.Ticks)),
		au.Cyan("Running time:"),
		time.Since(startRunning).String(),
	)

	fmt.Fprintln(writer, au.BgGreen(fmt.Sprintf("%4s  %-14s %-24s %-24s %-24s %8s  %-10s", "ID", "Kind", "Start", "Target", "Final", "Ticks", "Status")).Bold())
	for _, h := range result.Houses {
		fmt.Fprintln(writer, printer.Sprintf(
			"%4d  %-14s %-24s %-24s %-24s %8d  %s",
			int(h.ID),
			string(h.Kind),
			formatPoint(h.Start),
			formatPoint(h.Target),
			formatPoint(h.Position),
			h.Ticks,
			houseStatus(h),
		))
	}

	fmt.Fprint(writer, "\n")
	fmt.Fprintln(writer, au.Bold(fmt.Sprintf("%-110s", "          Log output")).BgBlue())
	fmt.Fprintln(writer, r.logbuf.String())

	return nil
}

// ConsoleObserver prints every step in sequential mode. In concurrent mode it
// prints only final positions, since interleaved per-tick output is unreadable.
func ConsoleObserver(mode string, w io.Writer) simulator.Observer {
	if mode == config.ModeConcurrent {
		return simulator.Synchronized(simulator.FinalOnly(simulator.ObserverFunc(func(o simulator.Observation) {
			fmt.Fprintf(w, "%s #%d: arrived at %s after %d ticks\n", o.Kind, o.EntityID, formatPoint(o.Position), o.Tick)
		})))
	}

	return simulator.ObserverFunc(func(o simulator.Observation) {
		fmt.Fprintf(w, "[%d] %s #%d: %s\n", o.Tick, o.Kind, o.EntityID, formatPoint(o.Position))
	})
}

func NewRunner(level string) (Runner, error) {
	zapLevel, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	logger := logging.NewLogger(buf, zapLevel)

	return &cliRunner{
		ctx:    logging.WithLogger(context.Background(), logger),
		logbuf: buf,
	}, nil
}

func buildScenario() (config.Scenario, error) {
	scenario := config.Default()
	if *configFile != "" {
		var err error
		scenario, err = config.Load(*configFile)
		if err != nil {
			return scenario, err
		}
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	applyFlags(&scenario, func(name string) bool {
		return *configFile == "" || set[name]
	})

	return scenario, scenario.Validate()
}

// applyFlags copies flag values into the scenario for every flag that override reports as in force.
func applyFlags(scenario *config.Scenario, override func(name string) bool) {
	if override("width") {
		scenario.Width = *width
	}
	if override("height") {
		scenario.Height = *height
	}
	if override("speed") {
		scenario.Speed = *speed
	}
	if override("arrivalTolerance") {
		scenario.ArrivalTolerance = *arrivalTolerance
	}
	if override("maxTicks") {
		scenario.MaxTicks = *maxTicks
	}
	if override("tickDelay") {
		scenario.TickDelay = *tickDelay
	}
	if override("mode") {
		scenario.Mode = *mode
	}
	if override("seed") {
		scenario.Seed = *seed
	}
	if override("randomHouses") {
		scenario.RandomHouses = *randomHouses
	}
}

func store(path string, scenario config.Scenario, result runner.Result, recorder *data.Recorder) (int64, error) {
	conn, err := sqlite3.Open(path)
	if err != nil {
		return -1, err
	}
	defer conn.Close()

	runStore, err := data.NewRunStore(conn)
	if err != nil {
		return -1, err
	}

	return runStore.Store(data.RunRecord{
		Origin:       "housesim_cli",
		Mode:         scenario.Mode,
		Bounds:       scenario.Bounds(),
		Speed:        scenario.Speed,
		MaxTicks:     result.MaxTicks,
		Summary:      result.Summary,
		Entities:     result.Houses,
		Observations: recorder.Observations(),
	})
}

func houseStatus(h *simulator.Entity) string {
	switch {
	case h.Moving:
		return au.Red("moving").String()
	case h.Ticks == 0:
		return au.Cyan("home").String()
	default:
		return au.Green("arrived").String()
	}
}

func formatPoint(p simulator.Point) string {
	return printer.Sprintf("(%.2f, %.2f)", p.X, p.Y)
}
