package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/synapse-ops/synapse/internal/action"
	"github.com/synapse-ops/synapse/internal/action/builtin"
	"github.com/synapse-ops/synapse/internal/authz"
	"github.com/synapse-ops/synapse/internal/config"
	"github.com/synapse-ops/synapse/internal/llm"
	"github.com/synapse-ops/synapse/internal/orchestrator"
	"github.com/synapse-ops/synapse/internal/scenario"
	"github.com/synapse-ops/synapse/internal/telemetry"
	"github.com/synapse-ops/synapse/internal/types"
)

var (
	runScenarioID     string
	runScenarioFile   string
	runShowTranscript bool
)

var runCmd = &cobra.Command{
	Use:   "run [incident description]",
	Short: "Resolve an incident autonomously",
	Long: `Run the resolution loop against an incident. The incident is either
a free-form description given as the argument, or a catalog scenario
selected with --scenario. Scenario runs restrict the action catalog to
the scenario's allowed actions and pin the simulation seed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIncident,
}

func init() {
	runCmd.Flags().StringVarP(&runScenarioID, "scenario", "s", "", "Run a catalog scenario by id")
	runCmd.Flags().StringVar(&runScenarioFile, "scenarios", "", "Path to a scenario catalog file (built-in catalog when omitted)")
	runCmd.Flags().BoolVarP(&runShowTranscript, "transcript", "t", true, "Print the step transcript")
}

func runIncident(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	problem := ""
	if len(args) == 1 {
		problem = args[0]
	}

	seed := cfg.Simulation.Seed
	var sc *scenario.Scenario
	if runScenarioID != "" {
		catalog, err := loadScenarioCatalog(runScenarioFile)
		if err != nil {
			return err
		}
		s, err := catalog.Get(runScenarioID)
		if err != nil {
			return err
		}
		sc = &s
		problem = s.Description
		if s.Seed != 0 {
			seed = s.Seed
		}
	}
	if problem == "" {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "provide an incident description or --scenario")
	}

	// Action catalog, restricted to the scenario's allowed set when one
	// is selected.
	sim := builtin.New(seed)
	registry := action.NewRegistry(
		action.WithCallBudget(cfg.Engine.ActionTimeout),
		action.WithLogger(logger),
	)
	var allow func(string) bool
	if sc != nil {
		allow = sc.Allows
	}
	if err := builtin.RegisterAllowed(registry, sim, allow); err != nil {
		return err
	}

	gate := authz.NewGate(
		authz.WithResolver(authz.NewSimResolver(seed)),
		authz.WithGateLogger(logger),
		authz.WithEmergencyOverride(cfg.Authz.EmergencyOverride),
		gateFloorsOption(cfg.Authz.Floors),
		authz.WithAllowlist(cfg.Authz.Allowlist),
	)

	oracle, err := buildOracle(cfg)
	if err != nil {
		return err
	}

	collector := telemetry.NewInMemory()
	engine, err := orchestrator.NewEngine(oracle, registry,
		orchestrator.WithGate(gate),
		orchestrator.WithCollector(collector),
		orchestrator.WithLogger(logger),
		orchestrator.WithMaxSteps(cfg.Engine.MaxSteps),
		orchestrator.WithMaxReflections(cfg.Engine.MaxReflections),
		orchestrator.WithOracleTimeout(cfg.Engine.OracleTimeout),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	reporter := telemetry.NewReporter(collector, logger, cfg.Telemetry.ReportInterval)
	go reporter.Run(ctx)

	started := time.Now()
	state, err := engine.Run(ctx, problem)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if sc != nil {
		fmt.Fprintln(out, styleHeader.Render(fmt.Sprintf("Scenario: %s (%s)", sc.Title, sc.ID)))
	}
	fmt.Fprintln(out, styleHeader.Render("Run "+state.RunID))
	fmt.Fprintln(out)

	if runShowTranscript {
		fmt.Fprintln(out, orchestrator.Transcript(state))
	}

	fmt.Fprintln(out, stylePlanPanel.Render(stylePlanTitle.Render("Resolution Plan")+"\n\n"+state.Plan))
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderSummary(state, collector.Snapshot(), gate.Summarize(), time.Since(started)))
	return nil
}

func loadScenarioCatalog(path string) (*scenario.Catalog, error) {
	if path != "" {
		return scenario.LoadCatalog(path)
	}
	return scenario.DefaultCatalog(), nil
}

// gateFloorsOption translates the config's name-keyed floors into the
// gate's level-keyed form, dropping names that do not parse.
func gateFloorsOption(floors map[string]float64) authz.GateOption {
	if len(floors) == 0 {
		return authz.WithFloors(nil)
	}
	parsed := make(map[authz.Level]float64, len(floors))
	for name, floor := range floors {
		level, err := authz.ParseLevel(name)
		if err != nil {
			continue
		}
		parsed[level] = floor
	}
	return authz.WithFloors(parsed)
}

// buildOracle constructs the configured reasoning backend. OpenAI needs
// OPENAI_API_KEY in the environment; ollama talks to a local daemon.
func buildOracle(cfg *config.Config) (llm.Oracle, error) {
	var model llms.Model
	var err error

	switch cfg.Oracle.Provider {
	case "openai":
		model, err = openai.New(openai.WithModel(cfg.Oracle.Model))
	case "ollama":
		model, err = ollama.New(ollama.WithModel(cfg.Oracle.Model))
	default:
		return nil, types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("unsupported oracle provider %q (openai, ollama)", cfg.Oracle.Provider))
	}
	if err != nil {
		return nil, types.WrapError(types.ORACLE_CALL_FAILED, "initializing oracle provider", err)
	}

	return llm.NewLangChainOracle(model,
		llm.WithTemperature(cfg.Oracle.Temperature),
		llm.WithMaxTokens(cfg.Oracle.MaxTokens),
	), nil
}

func renderSummary(state *orchestrator.RunState, stats telemetry.Stats, gates authz.Summary, elapsed time.Duration) string {
	var b strings.Builder

	// Done is always true once Run returns; whether the run resolved or
	// was forced to a conclusion comes from the collector's criterion.
	outcome := "resolved"
	if stats.ResolvedRuns < stats.Runs {
		outcome = "concluded early"
	}

	b.WriteString(styleSummaryTitle.Render("Run Summary"))
	b.WriteString("\n")
	writeSummaryRow(&b, "Outcome", outcome)
	writeSummaryRow(&b, "Steps", fmt.Sprintf("%d (%d reflections)", len(state.History), state.Reflections()))
	writeSummaryRow(&b, "Duration", elapsed.Round(time.Millisecond).String())
	writeSummaryRow(&b, "Oracle calls", fmt.Sprintf("%d (%s, ~%d tokens)",
		stats.OracleCalls, stats.OracleTime.Round(time.Millisecond), stats.PromptTokens+stats.CompletionTokens))

	if gates.TotalRequests > 0 {
		writeSummaryRow(&b, "Approvals", fmt.Sprintf("%d requested, %d approved, %d rejected, %d pending",
			gates.TotalRequests, gates.Approved, gates.Rejected, gates.Pending))
	}

	if len(stats.Actions) > 0 {
		b.WriteString(styleSummaryTitle.Render("Actions"))
		b.WriteString("\n")
		for _, a := range stats.Actions {
			writeSummaryRow(&b, a.Name, fmt.Sprintf("%d calls, %.0f%% ok, %s total",
				a.Calls, a.SuccessRate()*100, a.TotalDuration.Round(time.Millisecond)))
		}
	}

	return b.String()
}

func writeSummaryRow(b *strings.Builder, label, value string) {
	b.WriteString(styleSummaryLabel.Render(label))
	b.WriteString(" ")
	b.WriteString(value)
	b.WriteString("\n")
}
