package cli

// #region imports
import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/JoelJaison394/Minecraft-Agent/internal/history"
)

// #endregion

// #region history-command

// HistoryCmd returns the history command: recent execution outcomes.
func HistoryCmd() *cobra.Command {
	var (
		addr string
		n    int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent action outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			var entries []history.Entry
			if err := newInspectClient(addr).get(fmt.Sprintf("/history?n=%d", n), &entries); err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("no actions executed yet")
				return nil
			}
			for _, e := range entries {
				printEntry(e)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", defaultInspectAddr, "inspection server address")
	cmd.Flags().IntVarP(&n, "count", "n", 20, "number of entries")
	return cmd
}

func printEntry(e history.Entry) {
	stamp := e.At.Format("15:04:05")
	line := fmt.Sprintf("%4d  %s  %-11s %-10s %v", e.Seq, stamp, e.Action.Kind, e.Result, e.Duration.Round(time.Millisecond))
	switch e.Result {
	case history.ResultCompleted:
		fmt.Println(line)
	case history.ResultNoOp:
		color.Yellow("%s  %s", line, e.Error)
	default:
		color.Red("%s  %s", line, e.Error)
	}
}

// #endregion
