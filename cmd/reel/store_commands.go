package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"reel/internal/ipc"
)

func newStoreCommand(ctx *commandContext) *cobra.Command {
	storeCmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect and edit the daemon's persistence store",
	}

	var scope string
	var namespace string
	storeCmd.PersistentFlags().StringVar(&scope, "scope", "default", "Store scope, usually a run or task name")
	storeCmd.PersistentFlags().StringVar(&namespace, "namespace", "default", "Store namespace, usually a plugin name")

	getCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Read one value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.StoreGet(scope, namespace, args[0])
				if err != nil {
					return err
				}
				if !resp.Found {
					return fmt.Errorf("key %q not found in %s/%s", args[0], scope, namespace)
				}
				return writeJSON(cmd, resp.Value)
			})
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Stage one value; JSON values are stored structured",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value any
			if err := json.Unmarshal([]byte(args[1]), &value); err != nil {
				value = args[1]
			}
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.StoreSet(scope, namespace, args[0], value); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Staged %s/%s/%s (run `reel store flush` to commit)\n", scope, namespace, args[0])
				return nil
			})
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <key>",
		Short: "Stage one deletion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.StoreDelete(scope, namespace, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Staged deletion of %s/%s/%s\n", scope, namespace, args[0])
				return nil
			})
		},
	}

	flushCmd := &cobra.Command{
		Use:   "flush",
		Short: "Commit staged writes and deletions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.StoreFlush(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Store flushed")
				return nil
			})
		},
	}

	storeCmd.AddCommand(getCmd, setCmd, deleteCmd, flushCmd)
	return storeCmd
}
