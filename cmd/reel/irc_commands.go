package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reel/internal/ipc"
)

func newIRCCommand(ctx *commandContext) *cobra.Command {
	ircCmd := &cobra.Command{
		Use:   "irc",
		Short: "Control the daemon's IRC connections",
	}

	var jsonOutput bool
	statusCmd := &cobra.Command{
		Use:   "status [connection]",
		Short: "Show the state of IRC connections",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := connectionArg(args)
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.IRCStatus(name)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, resp.Connections)
				}
				if len(resp.Connections) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No IRC connections configured")
					return nil
				}
				rows := make([][]string, 0, len(resp.Connections))
				for _, conn := range resp.Connections {
					state := "stopped"
					if conn.Alive {
						state = "running"
					}
					rows = append(rows, []string{
						conn.Name,
						state,
						strings.Join(conn.Channels, ", "),
						strings.Join(conn.Connected, ", "),
						fmt.Sprintf("%s:%d", conn.Server, conn.Port),
					})
				}
				table := renderTable(
					[]string{"Connection", "State", "Channels", "Connected", "Server"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
	statusCmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit status as JSON")

	restartCmd := &cobra.Command{
		Use:   "restart [connection]",
		Short: "Restart one IRC connection, or all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := connectionArg(args)
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.IRCRestart(name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Restarted %s\n", describeTarget(name))
				return nil
			})
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop [connection]",
		Short: "Stop one IRC connection, or all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := connectionArg(args)
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.IRCStop(name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stopped %s\n", describeTarget(name))
				return nil
			})
		},
	}

	ircCmd.AddCommand(statusCmd, restartCmd, stopCmd)
	return ircCmd
}

func connectionArg(args []string) string {
	if len(args) == 0 {
		return "all"
	}
	return strings.TrimSpace(args[0])
}

func describeTarget(name string) string {
	if name == "" || name == "all" {
		return "all connections"
	}
	return fmt.Sprintf("connection %q", name)
}
