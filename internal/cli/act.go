package cli

// #region imports
import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/JoelJaison394/Minecraft-Agent/internal/history"
)

// #endregion

// #region act-command

// ActCmd returns the act command: submit one action to a running agent and
// wait for its terminal outcome.
func ActCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "act <action-json>",
		Short: "Submit an action and wait for its outcome",
		Long: `Submit one action as JSON and block until it finishes. Refused with a
conflict while another action is in flight.

Examples:
  agent act '{"kind":"eat"}'
  agent act '{"kind":"navigate","params":{"target":{"x":18,"y":64,"z":0}}}'
  agent act '{"kind":"mine","params":{"block":{"x":18,"y":63,"z":0}},"horizon_ms":15000}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Result string `json:"result"`
				Reason string `json:"reason"`
			}
			if err := newInspectClient(addr).post("/act", []byte(args[0]), &out); err != nil {
				return err
			}
			printOutcome(out.Result, out.Reason)
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", defaultInspectAddr, "inspection server address")
	return cmd
}

func printOutcome(result, reason string) {
	switch history.ResultKind(result) {
	case history.ResultCompleted:
		color.Green("completed")
	case history.ResultNoOp:
		color.Yellow("noop: %s", reason)
	case history.ResultTimedOut:
		color.Red("timed out: %s", reason)
	default:
		color.Red("%s: %s", result, reason)
	}
}

// #endregion
