// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Command intentforge is the CLI entry point: "plan" solves a wave
// schedule and assignment for a batch of Intents, "run" solves and then
// dispatches it through an Execution Backend to Gate 1/2/3 completion.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"intentforge/internal/backend"
	"intentforge/internal/config"
	"intentforge/internal/executor"
	"intentforge/internal/planbuilder"
	"intentforge/internal/planner"
	"intentforge/internal/registry"
	"intentforge/internal/solver"
	"intentforge/pkg/types"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "plan":
		err = runPlan(os.Args[2:])
	case "run":
		err = runExecute(os.Args[2:])
	case "version":
		fmt.Printf("intentforge version %s\n", version)
	case "help":
		printUsage()
	default:
		fmt.Printf("unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("intentforge: %v", err)
	}
}

func printUsage() {
	fmt.Println("Usage: intentforge <command> [flags]")
	fmt.Println("\nCommands:")
	fmt.Println("  plan      Solve a wave schedule + assignment, print the Plan as JSON")
	fmt.Println("  run       Solve a Plan and dispatch it through an Execution Backend")
	fmt.Println("  version   Show version information")
	fmt.Println("  help      Show this help message")
}

// planInputFlags is the flag set shared by "plan" and "run": both need
// a configuration file and a batch of Intents, either already-structured
// JSON or freeform plan text run through internal/planner first.
type planInputFlags struct {
	configPath  string
	intentsPath string
	textPath    string
	prefix      string
	solverName  string
}

func bindPlanInputFlags(fs *flag.FlagSet) *planInputFlags {
	f := &planInputFlags{}
	fs.StringVar(&f.configPath, "config", "", "path to config.yaml (default: ./.intentforge/config.yaml)")
	fs.StringVar(&f.intentsPath, "intents", "", "path to a JSON file of []types.Intent")
	fs.StringVar(&f.textPath, "text", "", "path to freeform plan text (numbered/bulleted list) to derive intents from")
	fs.StringVar(&f.prefix, "prefix", "intent", "intent ID prefix when deriving intents from -text")
	fs.StringVar(&f.solverName, "solver", "decomposed", "assignment solver: greedy, branchbound, or decomposed")
	return f
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadDefaultPath()
	}
	return config.Load(path)
}

func loadIntents(f *planInputFlags) ([]types.Intent, error) {
	switch {
	case f.intentsPath != "":
		data, err := os.ReadFile(f.intentsPath)
		if err != nil {
			return nil, fmt.Errorf("read intents file: %w", err)
		}
		var intents []types.Intent
		if err := json.Unmarshal(data, &intents); err != nil {
			return nil, fmt.Errorf("parse intents JSON: %w", err)
		}
		return intents, nil

	case f.textPath != "":
		data, err := os.ReadFile(f.textPath)
		if err != nil {
			return nil, fmt.Errorf("read plan text file: %w", err)
		}
		parsed, err := planner.NewPlanParser().Parse(string(data))
		if err != nil {
			return nil, fmt.Errorf("parse plan text: %w", err)
		}
		return planner.NewIntentBuilder(f.prefix).Build(parsed)

	default:
		return nil, fmt.Errorf("one of -intents or -text is required")
	}
}

func pickSolver(name string) (solver.Solver, error) {
	switch name {
	case "greedy":
		return solver.Greedy{}, nil
	case "branchbound":
		return solver.BranchAndBound{}, nil
	case "decomposed", "":
		return solver.Decomposed{Inner: solver.BranchAndBound{}}, nil
	default:
		return nil, fmt.Errorf("unknown solver %q", name)
	}
}

func runPlan(args []string) error {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	in := bindPlanInputFlags(fs)
	outPath := fs.String("out", "", "write the Plan JSON here instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(in.configPath)
	if err != nil {
		return err
	}
	intents, err := loadIntents(in)
	if err != nil {
		return err
	}
	reg, err := registry.New(cfg.AgentPool())
	if err != nil {
		return fmt.Errorf("build agent registry: %w", err)
	}
	s, err := pickSolver(in.solverName)
	if err != nil {
		return err
	}

	plan, err := planbuilder.Build(intents, reg, s, cfg.SolverConfig())
	if err != nil {
		return fmt.Errorf("build plan: %w", err)
	}

	data, err := planbuilder.Serialize(plan)
	if err != nil {
		return fmt.Errorf("serialize plan: %w", err)
	}

	if *outPath == "" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(*outPath, data, 0644)
}

func runExecute(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	in := bindPlanInputFlags(fs)
	backendName := fs.String("backend", "mock", "execution backend: mock, shell, or opencode")
	opencodeURL := fs.String("opencode-url", "http://localhost:4096", "opencode server base URL (backend=opencode)")
	opencodePort := fs.Int("opencode-port", 4096, "opencode server port (backend=opencode)")
	outPath := fs.String("out", "", "write the ExecutionResult JSON here instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(in.configPath)
	if err != nil {
		return err
	}
	intents, err := loadIntents(in)
	if err != nil {
		return err
	}
	reg, err := registry.New(cfg.AgentPool())
	if err != nil {
		return fmt.Errorf("build agent registry: %w", err)
	}
	s, err := pickSolver(in.solverName)
	if err != nil {
		return err
	}

	plan, graph, assignment, err := planbuilder.BuildWithAssignment(intents, reg, s, cfg.SolverConfig())
	if err != nil {
		return fmt.Errorf("build plan: %w", err)
	}

	back, err := pickBackend(*backendName, *opencodeURL, *opencodePort)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if timeout := cfg.SessionTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	exec := executor.New(graph, reg, assignment, cfg.ExecutorConfig())
	result := exec.Run(ctx, plan, back, logEvent)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize execution result: %w", err)
	}

	if *outPath == "" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(*outPath, data, 0644)
}

func pickBackend(name, opencodeURL string, opencodePort int) (backend.Backend, error) {
	switch name {
	case "mock":
		m := backend.NewMock()
		m.Default = func(ctx context.Context, spec backend.IntentSpec, dctx backend.DispatchContext) (types.IntentResult, error) {
			return types.IntentResult{
				IntentID:      spec.Intent.ID,
				Profile:       spec.Profile,
				Agent:         dctx.Agent.Name,
				Attempt:       spec.Attempt,
				Status:        types.StatusCompleted,
				QualityScore:  0.9,
				TestsPassed:   true,
				CoverageDelta: 0.1,
				Artifacts:     []string{"summary.md", "plan-notes.txt"},
			}, nil
		}
		return m, nil
	case "shell":
		return backend.NewShell(), nil
	case "opencode":
		return backend.NewOpenCode(opencodeURL, opencodePort), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

func logEvent(ev executor.Event) {
	switch ev.Type {
	case executor.EventWaveStarted:
		log.Printf("wave %d started (%d intents)", ev.Wave, ev.IntentCount)
	case executor.EventIntentStarted:
		log.Printf("  intent %s started (profile=%s model=%s attempt=%d)", ev.IntentID, ev.Profile, ev.Model, ev.Attempt)
	case executor.EventIntentCompleted:
		log.Printf("  intent %s completed (status=%s score=%.2f)", ev.IntentID, ev.Status, ev.Score)
	case executor.EventIntentRetried:
		log.Printf("  intent %s retried (attempt=%d reason=%s)", ev.IntentID, ev.Attempt, ev.Reason)
	case executor.EventIntentEscalated:
		log.Printf("  intent %s escalated (%s -> %s, attempt=%d)", ev.IntentID, ev.FromModel, ev.ToModel, ev.Attempt)
	case executor.EventIntentHumanReview:
		log.Printf("  intent %s flagged for human review after %d attempts: %s", ev.IntentID, ev.Attempts, ev.LastError)
	case executor.EventWaveCompleted:
		log.Printf("wave %d completed (status=%s score=%.2f duration=%s)", ev.Wave, ev.Status, ev.Score, ev.Duration)
	case executor.EventExecutionCompleted:
		log.Printf("session completed: verdict=%s passed=%d failed=%d human_review=%d", ev.Verdict, ev.Passed, ev.Failed, ev.HumanReview)
	}
}
