package cli

// #region imports
import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/JoelJaison394/Minecraft-Agent/internal/engine"
	"github.com/JoelJaison394/Minecraft-Agent/internal/world"
)

// #endregion

// #region status-command

// StatusCmd returns the status command: a one-screen view of a running agent.
func StatusCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show engine, memory, and goal state of a running agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			var st engine.Status
			if err := newInspectClient(addr).get("/status", &st); err != nil {
				return err
			}
			printStatus(st)
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", defaultInspectAddr, "inspection server address")
	return cmd
}

func printStatus(st engine.Status) {
	if st.Running {
		color.Green("engine: running")
	} else {
		color.Red("engine: stopped")
	}
	fmt.Printf("  cycles: %d (%d skipped)\n", st.Cycles, st.Skipped)
	if st.LastSource != "" {
		fmt.Printf("  last:   %s via %s", st.LastResult, st.LastSource)
		if st.LastReason != "" {
			fmt.Printf(" (%s)", st.LastReason)
		}
		fmt.Println()
	}
	if st.InFlight != nil {
		color.Cyan("  in flight: %s since %s", st.InFlight.Kind, st.InFlight.Started.Format("15:04:05"))
	}

	fmt.Println()
	if st.Memory.Stuck {
		color.Red("memory: STUCK on %s (x%d)", st.Memory.CurrentSignature, st.Memory.ConsecutiveCount)
	} else {
		fmt.Printf("memory: %s (x%d), window %d\n",
			st.Memory.CurrentSignature, st.Memory.ConsecutiveCount, st.Memory.WindowFill)
	}

	if len(st.Goals) > 0 {
		fmt.Println()
		fmt.Println("goals:")
		for _, g := range st.Goals {
			marker := " "
			line := fmt.Sprintf("  %s %-10s pri %d", marker, g.Name, g.Priority)
			if g.Active {
				color.Green("  * %-10s pri %d  since %s", g.Name, g.Priority, g.StartedAt.Format("15:04:05"))
			} else {
				fmt.Println(line)
			}
		}
	}
	fmt.Printf("\nhistory: %d entries retained\n", st.HistoryLen)
}

// #endregion

// #region snapshot-command

// SnapshotCmd returns the snapshot command: the agent's current sensed world.
func SnapshotCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Show the agent's current world snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			var snap world.Snapshot
			if err := newInspectClient(addr).get("/snapshot", &snap); err != nil {
				return err
			}
			printSnapshot(snap)
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", defaultInspectAddr, "inspection server address")
	return cmd
}

func printSnapshot(snap world.Snapshot) {
	fmt.Printf("position: %.1f %.1f %.1f  (%s", snap.Position.X, snap.Position.Y, snap.Position.Z, snap.Biome)
	if snap.Night {
		fmt.Print(", night")
	}
	fmt.Println(")")
	fmt.Printf("vitals:   health %.0f  food %.0f  saturation %.1f\n",
		snap.Vitals.Health, snap.Vitals.Food, snap.Vitals.Saturation)

	if len(snap.Entities) > 0 {
		fmt.Println("entities:")
		for _, e := range snap.Entities {
			line := fmt.Sprintf("  %-12s %-8s %.1f blocks", e.Name, e.Kind, e.Distance)
			if e.Kind == "hostile" {
				color.Red(line)
			} else {
				fmt.Println(line)
			}
		}
	}
	if len(snap.Resources) > 0 {
		fmt.Printf("resources: %d sensed, nearest first\n", len(snap.Resources))
		for i, r := range snap.SortedResources() {
			if i >= 8 {
				fmt.Printf("  ... and %d more\n", len(snap.Resources)-i)
				break
			}
			fmt.Printf("  %-14s (%d,%d,%d)  %.1f blocks\n", r.Name, r.Position.X, r.Position.Y, r.Position.Z, r.Distance)
		}
	}
	if len(snap.Inventory) > 0 {
		fmt.Println("inventory:")
		for _, it := range snap.Inventory {
			fmt.Printf("  slot %-2d %-14s x%d\n", it.Slot, it.Name, it.Count)
		}
	}
}

// #endregion
