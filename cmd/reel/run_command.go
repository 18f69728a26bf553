package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"reel/internal/deluge"
	"reel/internal/entry"
	"reel/internal/logging"
	"reel/internal/pipeline"
	"reel/internal/simplepersist"
	"reel/internal/trakt"
)

// entryCollector keeps the accepted entries so the command can render
// them once the pass finishes.
type entryCollector struct {
	entries []*entry.Entry
}

func (c *entryCollector) Add(ctx context.Context, entries []*entry.Entry) error {
	c.entries = append(c.entries, entries...)
	return nil
}

type runEntryReport struct {
	Title string  `json:"title"`
	Hash  string  `json:"hash,omitempty"`
	State string  `json:"state,omitempty"`
	Size  float64 `json:"size_mib,omitempty"`
}

type runReport struct {
	Pipeline string           `json:"pipeline"`
	Produced int              `json:"produced"`
	Seen     int              `json:"seen"`
	Accepted int              `json:"accepted"`
	Entries  []runEntryReport `json:"entries"`
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "run [pipeline]",
		Short: "Run one pipeline pass over the torrent session",
		Long: `Run connects to the Deluge web UI, generates one entry per torrent in
the session, attaches Trakt metadata bindings when a client id is
configured, and reports the entries not seen by a previous pass.
Accepted entries are remembered under the pipeline name.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "session"
			if len(args) == 1 {
				name = args[0]
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			// Log to stderr so table and JSON output stay parseable.
			logger, err := logging.New(logging.Options{
				Level:       cfg.Logging.Level,
				Format:      cfg.Logging.Format,
				OutputPaths: []string{"stderr"},
			})
			if err != nil {
				return err
			}

			store, err := simplepersist.Open(cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			session, err := deluge.NewWebSession(cfg.Deluge, logger)
			if err != nil {
				return err
			}
			input := deluge.NewInput(session, cfg.Deluge, logger)

			collector := &entryCollector{}
			opts := []pipeline.Option{pipeline.WithOutput(collector)}
			if cfg.Trakt.ClientID != "" {
				client, err := trakt.New(cfg.Trakt.ClientID, cfg.Trakt.BaseURL)
				if err != nil {
					return err
				}
				var pluginOpts []trakt.PluginOption
				if cfg.Trakt.Username != "" {
					pluginOpts = append(pluginOpts, trakt.WithUsername(cfg.Trakt.Username))
				}
				opts = append(opts, pipeline.WithMetadata(trakt.NewPlugin(client, logger, pluginOpts...)))
			}

			p, err := pipeline.New(name, input, store, logger, opts...)
			if err != nil {
				return err
			}
			summary, err := p.Run(cmd.Context())
			if err != nil {
				return err
			}

			report := runReport{
				Pipeline: name,
				Produced: summary.Produced,
				Seen:     summary.Seen,
				Accepted: summary.Accepted,
				Entries:  make([]runEntryReport, 0, len(collector.entries)),
			}
			for _, e := range collector.entries {
				item := runEntryReport{
					Title: e.GetDefaultString("title", ""),
					Hash:  e.GetDefaultString("torrent_info_hash", ""),
					State: e.GetDefaultString("deluge_state", ""),
				}
				if size, ok := e.Peek("content_size"); ok {
					if mib, ok := size.(float64); ok {
						item.Size = mib
					}
				}
				report.Entries = append(report.Entries, item)
			}

			if jsonOutput {
				return writeJSON(cmd, report)
			}

			stdout := cmd.OutOrStdout()
			if len(report.Entries) > 0 {
				rows := make([][]string, 0, len(report.Entries))
				for _, item := range report.Entries {
					size := ""
					if item.Size > 0 {
						size = fmt.Sprintf("%.1f MiB", item.Size)
					}
					rows = append(rows, []string{item.Title, item.State, size})
				}
				table := renderTable(
					[]string{"Title", "State", "Size"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight},
				)
				fmt.Fprintln(stdout, table)
			}
			fmt.Fprintf(stdout, "Pipeline %q: %d produced, %d already seen, %d new\n",
				name, report.Produced, report.Seen, report.Accepted)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the pass report as JSON")
	return cmd
}
