package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reel/internal/ipc"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Status()
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, resp)
				}
				stdout := cmd.OutOrStdout()
				fmt.Fprintf(stdout, "Running:  %s\n", yesNo(resp.Running))
				fmt.Fprintf(stdout, "PID:      %d\n", resp.PID)
				if resp.RunID != "" {
					fmt.Fprintf(stdout, "Run ID:   %s\n", resp.RunID)
				}
				if resp.StartedAt != "" {
					fmt.Fprintf(stdout, "Started:  %s\n", resp.StartedAt)
				}
				fmt.Fprintf(stdout, "Store:    %s\n", resp.StoreDBPath)
				fmt.Fprintf(stdout, "Socket:   %s\n", resp.SocketPath)
				fmt.Fprintf(stdout, "Lock:     %s\n", resp.LockPath)

				if len(resp.IRC) == 0 {
					return nil
				}
				fmt.Fprintln(stdout)
				rows := make([][]string, 0, len(resp.IRC))
				for _, conn := range resp.IRC {
					state := "stopped"
					if conn.Alive {
						state = "running"
					}
					rows = append(rows, []string{
						conn.Name,
						state,
						fmt.Sprintf("%d/%d", len(conn.Connected), len(conn.Channels)),
						fmt.Sprintf("%s:%d", conn.Server, conn.Port),
					})
				}
				table := renderTable(
					[]string{"Connection", "State", "Channels", "Server"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
				)
				fmt.Fprintln(stdout, table)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit status as JSON")
	return cmd
}
