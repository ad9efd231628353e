package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"gopkg.in/cheggaaa/pb.v1"

	"site-energy-sim/internal/analysis"
	"site-energy-sim/internal/app"
	"site-energy-sim/internal/config"
	"site-energy-sim/internal/model"
	"site-energy-sim/internal/optimiser"
	"site-energy-sim/internal/simulate"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "simulate":
		cmdSimulate(os.Args[2:])
	case "validate":
		cmdValidate(os.Args[2:])
	case "capex":
		cmdCapex(os.Args[2:])
	case "report":
		cmdReport(os.Args[2:])
	case "optimise":
		cmdOptimise(os.Args[2:])
	case "tariffs":
		cmdTariffs(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate --config sim.yaml --task scenario.yaml [--full]")
	fmt.Println("  cli validate --config sim.yaml --task scenario.yaml")
	fmt.Println("  cli capex    --config sim.yaml --task scenario.yaml")
	fmt.Println("  cli report   --config sim.yaml --task scenario.yaml --out results/report.csv")
	fmt.Println("  cli optimise --config sim.yaml --tasks candidates.yaml [--no-store]")
	fmt.Println("  cli tariffs  --config sim.yaml")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - results are compared against the config's baseline_file")
	fmt.Println("  - report writes one CSV row per timestep for the installed components")
}

type common struct {
	fs      *flag.FlagSet
	cfgPath *string
}

func newCommon(name string) *common {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return &common{fs: fs, cfgPath: fs.String("config", "", "Path to YAML config")}
}

// open parses args and loads everything the config names.
func (c *common) open(ctx context.Context, args []string) *app.App {
	_ = c.fs.Parse(args)
	if *c.cfgPath == "" {
		fmt.Fprintln(os.Stderr, "--config is required")
		os.Exit(2)
	}
	cfg, err := config.Load(*c.cfgPath)
	fatalIf(err)
	log, err := app.NewLogger(cfg.Log)
	fatalIf(err)
	a, err := app.Open(ctx, cfg, log)
	fatalIf(err)
	return a
}

func loadTask(path string) *model.TaskData {
	if path == "" {
		fmt.Fprintln(os.Stderr, "--task is required")
		os.Exit(2)
	}
	task, err := config.LoadTask(path)
	fatalIf(err)
	return task
}

func cmdSimulate(args []string) {
	c := newCommon("simulate")
	taskPath := c.fs.String("task", "", "Path to scenario task (YAML or JSON)")
	full := c.fs.Bool("full", false, "Print the full result including per timestep series")
	a := c.open(context.Background(), args)
	defer a.Close()

	task := loadTask(*taskPath)
	if *full {
		res, err := a.Simulator.SimulateFull(task)
		fatalIf(err)
		printJSON(res)
		return
	}
	res, err := a.Simulator.SimulateScenario(task)
	fatalIf(err)
	printJSON(res)
}

func cmdValidate(args []string) {
	c := newCommon("validate")
	taskPath := c.fs.String("task", "", "Path to scenario task (YAML or JSON)")
	a := c.open(context.Background(), args)
	defer a.Close()

	task := loadTask(*taskPath)
	fatalIf(a.Simulator.ValidateScenario(task))
	fmt.Printf("ok hash=%016x\n", task.Hash())
}

func cmdCapex(args []string) {
	c := newCommon("capex")
	taskPath := c.fs.String("task", "", "Path to scenario task (YAML or JSON)")
	a := c.open(context.Background(), args)
	defer a.Close()

	capex, err := a.Simulator.CalculateCapexWithDiscounts(loadTask(*taskPath))
	fatalIf(err)

	fmt.Printf("%-22s %12s %9s\n", "component", "cost", "lifetime")
	for _, it := range capex.Items {
		fmt.Printf("%-22s %12.2f %9.1f\n", it.Component, it.Cost, it.Lifetime)
	}
	fmt.Printf("%-22s %12.2f\n", "gross", capex.Gross)
	fmt.Printf("%-22s %12.2f\n", "boiler upgrade grant", -capex.BoilerUpgradeDiscount)
	fmt.Printf("%-22s %12.2f\n", "general grant", -capex.GrantDiscount)
	fmt.Printf("%-22s %12.2f\n", "total", capex.Total)
}

func cmdReport(args []string) {
	c := newCommon("report")
	taskPath := c.fs.String("task", "", "Path to scenario task (YAML or JSON)")
	outPath := c.fs.String("out", "results/report.csv", "Output CSV path")
	a := c.open(context.Background(), args)
	defer a.Close()

	res, err := a.Simulator.SimulateFull(loadTask(*taskPath))
	fatalIf(err)

	// ensure output dir exists
	fatalIf(os.MkdirAll(filepath.Dir(*outPath), 0o755))

	site := a.Site.Data
	step := time.Duration(site.TimestepHours() * float64(time.Hour))
	fatalIf(simulate.WriteReportCSV(*outPath, res.Report, site.StartTS, step))

	fmt.Printf("Wrote %d rows to %s\n", res.Report.Timesteps(), *outPath)
	fmt.Printf("CAPEX=%.2f cost balance=%.2f/yr carbon balance=%.2f/yr payback=%.1fyr\n",
		res.Result.CAPEX, res.Result.CostBalance, res.Result.CarbonBalance, res.Result.PaybackHorizon)
}

func cmdOptimise(args []string) {
	c := newCommon("optimise")
	tasksPath := c.fs.String("tasks", "", "Path to a list of candidate tasks (YAML or JSON)")
	workers := c.fs.Int("workers", 0, "Worker count (0 = config)")
	noStore := c.fs.Bool("no-store", false, "Do not record the run in the store")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	a := c.open(ctx, args)
	defer a.Close()

	if *tasksPath == "" {
		fmt.Fprintln(os.Stderr, "--tasks is required")
		os.Exit(2)
	}
	tasks, err := config.LoadTasks(*tasksPath)
	fatalIf(err)

	cfg := a.Config
	if *workers > 0 {
		cfg.Optimiser.Workers = *workers
	}

	bar := pb.StartNew(len(tasks))
	bar.ShowTimeLeft = false
	opt := optimiser.New(a.Simulator, optimiser.Options{
		Workers:    cfg.Optimiser.Workers,
		LeagueSize: cfg.Optimiser.LeagueSize,
		Cache:      a.Cache,
		Logger:     a.Log,
		OnProgress: func(optimiser.Progress) { bar.Increment() },
	})
	sum, err := opt.Run(ctx, tasks)
	fatalIf(err)
	bar.FinishPrint(fmt.Sprintf("\tEvaluated %d tasks (%d cached, %d over capex limit, %d failed) in %s",
		sum.Tasks, sum.CacheHits, sum.Rejected, sum.Failed, sum.Duration.Round(time.Millisecond)))

	for _, o := range analysis.Objectives() {
		printLeague(o, sum.League[o])
	}

	if *noStore {
		return
	}
	st, err := a.OpenStore()
	fatalIf(err)
	defer st.Close()
	run := sum.Record(a.Site.Digest)
	fatalIf(st.SaveRun(run))
	fmt.Printf("\nRecorded run %s in %s\n", run.ID, cfg.Store.Path)
}

func printLeague(o analysis.Objective, entries []analysis.Entry) {
	fmt.Printf("\n%s\n", o)
	fmt.Printf("%-4s %-6s %-12s %-14s %-12s %-10s %-12s %-12s\n", "rank", "task", "capex", "annualised", "cost_bal", "payback", "carbon_bal", "npv_bal")
	for i, e := range entries {
		r := e.Result
		fmt.Printf("%-4d %-6d %-12.2f %-14.2f %-12.2f %-10.2f %-12.2f %-12.2f\n",
			i+1, e.Index, r.CAPEX, r.AnnualisedCost, r.CostBalance, r.PaybackHorizon, r.CarbonBalance, r.NPVBalance)
	}
}

func cmdTariffs(args []string) {
	c := newCommon("tariffs")
	a := c.open(context.Background(), args)
	defer a.Close()

	site := a.Site.Data
	ranked := analysis.RankTariffs(site.ImportTariffs, site.TimestepHours(), a.Config.Simulation.TariffPercentile)
	fmt.Printf("%-4s %-6s %-8s %-10s %-10s %-10s %-8s %-12s\n", "rank", "tariff", "count", "mean", "p95-p05", "min/max", "cheap", "arbitrage")
	for i, r := range ranked {
		fmt.Printf(
			"%-4d %-6d %-8d %-10.4f %-10.4f %-4.2f/%-5.2f %-8.2f %-12.2f\n",
			i+1,
			r.Index,
			r.Count,
			r.Mean,
			r.SpreadP95P05,
			r.Min,
			r.Max,
			r.CheapShare,
			r.ArbitrageValue,
		)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	fatalIf(enc.Encode(v))
}

func fatalIf(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
