// Command ldr runs a laser debris removal campaign simulation scenario,
// generalizing the teacher's cmd/mission/main.go CLI (a -scenario TOML flag
// driving a single mission) to loop over a scenario file's [[run]] records
// and persist each to a shared results CSV.
package main

import (
	"flag"
	"log"
	"path/filepath"
	"strings"

	"github.com/eliasboegel/ldr/internal/config"
	"github.com/eliasboegel/ldr/internal/harness"
	"github.com/eliasboegel/ldr/internal/logging"
)

const defaultScenario = "~~unset~~"

func main() {
	var scenario string
	flag.StringVar(&scenario, "scenario", defaultScenario, "scenario TOML file describing one or more runs")
	flag.Parse()

	if scenario == defaultScenario {
		log.Fatal("no -scenario provided")
	}

	dir := filepath.Dir(scenario)
	name := strings.TrimSuffix(filepath.Base(scenario), filepath.Ext(scenario))

	runs, err := config.Load(name, dir)
	if err != nil {
		log.Fatalf("loading scenario %s: %v", scenario, err)
	}

	logger := logging.New("harness")

	for i, run := range runs {
		key, err := harness.CompareKey(run)
		if err != nil {
			logger.Log("level", "error", "run", i, "err", err)
			continue
		}

		already, err := config.AlreadyRun(run.ResultsPath, key)
		if err != nil {
			logger.Log("level", "error", "run", i, "err", err)
			continue
		}
		if already {
			logger.Log("level", "info", "run", i, "event", "skip_already_run")
			continue
		}

		result, err := harness.Execute(run, logger)
		if err != nil {
			logger.Log("level", "error", "run", i, "err", err)
			continue
		}

		if err := config.Append(run.ResultsPath, result); err != nil {
			logger.Log("level", "error", "run", i, "event", "append_failed", "err", err)
			continue
		}

		logger.Log("level", "info", "run", i, "event", "done", "fraction_removed", result.FractionRemoved)
	}
}
