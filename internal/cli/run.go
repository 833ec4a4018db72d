package cli

// #region imports
import (
	"context"
	"fmt"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JoelJaison394/Minecraft-Agent/internal/behavior"
	"github.com/JoelJaison394/Minecraft-Agent/internal/config"
	"github.com/JoelJaison394/Minecraft-Agent/internal/engine"
	"github.com/JoelJaison394/Minecraft-Agent/internal/executor"
	"github.com/JoelJaison394/Minecraft-Agent/internal/goals"
	"github.com/JoelJaison394/Minecraft-Agent/internal/history"
	"github.com/JoelJaison394/Minecraft-Agent/internal/inspect"
	"github.com/JoelJaison394/Minecraft-Agent/internal/policy"
	"github.com/JoelJaison394/Minecraft-Agent/internal/sim"
)

// #endregion

// #region run-command

// mineSearchRadius bounds how far the mining goal looks for ore.
const mineSearchRadius = 32.0

// RunCmd returns the run command: the full agent loop against the built-in
// simulated world, with the inspection server alongside.
func RunCmd() *cobra.Command {
	var (
		cfgPath string
		seed    int64
		debug   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the agent loop against the simulated world",
		Long: `Start the decision cycle, the goal scheduler, and the inspection server.
The agent acts in the built-in simulated world; the external policy advisor
is consulted at the configured URL (AGENT_ADVISOR_URL overrides it).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			logger, err := newLogger(debug)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck // stderr sync failure is unactionable

			return runAgent(cmd.Context(), cfg, seed, logger)
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to YAML config (defaults apply when empty)")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "simulation seed")
	cmd.Flags().BoolVar(&debug, "debug", false, "verbose logging")
	return cmd
}

// runAgent wires every component and blocks until interrupted.
func runAgent(parent context.Context, cfg config.Config, seed int64, logger *zap.Logger) error {
	simWorld := sim.NewWorld(seed, logger)

	var store *history.Store
	var counter behavior.FailureCounter
	if cfg.History.DBPath != "" {
		var err error
		store, err = history.OpenStore(cfg.History.DBPath)
		if err != nil {
			return fmt.Errorf("open history store: %w", err)
		}
		defer store.Close()
		counter = store
	}
	hist := history.NewLog(cfg.History.Cap, store, logger)

	exec := executor.New(cfg.Executor, simWorld, simWorld, executor.NewExecState(), hist, logger)
	mem := behavior.New(cfg.Behavior, counter, logger)
	src := policy.NewClient(cfg.Policy, logger)
	eng := engine.New(cfg, simWorld, exec, mem, src, hist, logger)

	rules, err := goals.CompileRules(cfg.Priority)
	if err != nil {
		return err
	}
	sched := goals.NewScheduler(cfg.Scheduler, simWorld, eng, rules, logger)
	sched.Register(goals.NewSurviveGoal())
	sched.Register(goals.NewDefendGoal())
	sched.Register(goals.NewMineGoal(mineSearchRadius, cfg.Executor.MaxVeinNodes))
	sched.Register(goals.NewExploreGoal(cfg.Behavior.RelocateDistance, rand.New(rand.NewSource(seed))))
	eng.AttachScheduler(sched)

	insp := inspect.NewServer(cfg.Inspect, eng, simWorld, hist, logger)
	insp.Start()
	eng.Start()

	color.Green("agent running")
	fmt.Printf("  inspect:  http://%s\n", cfg.Inspect.Addr)
	fmt.Printf("  advisor:  %s (%s)\n", cfg.Policy.URL, cfg.Policy.Model)
	fmt.Println("  ctrl-c to stop")

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	color.Yellow("shutting down")
	eng.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return insp.Shutdown(shutdownCtx)
}

// #endregion

// #region logger

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// #endregion
