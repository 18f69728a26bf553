package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"reel/internal/entry"
	"reel/internal/logging"
	"reel/internal/simplepersist"
)

// Input produces the entries for one pass.
type Input interface {
	Entries(ctx context.Context) ([]*entry.Entry, error)
}

// Output receives the entries that survived filtering.
type Output interface {
	Add(ctx context.Context, entries []*entry.Entry) error
}

// Registrar attaches lazy metadata bindings to an entry.
type Registrar interface {
	RegisterOn(ctx context.Context, e *entry.Entry) error
}

// Summary reports what one pass did.
type Summary struct {
	Produced int
	Seen     int
	Accepted int
}

// Pipeline runs input, metadata registration, seen filtering, and output
// in order. Metadata and output stages are optional.
type Pipeline struct {
	name   string
	input  Input
	output Output
	meta   []Registrar
	seen   *simplepersist.ScopedStore
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithOutput attaches an output stage.
func WithOutput(output Output) Option {
	return func(p *Pipeline) {
		p.output = output
	}
}

// WithMetadata attaches metadata registrars, applied in order to every
// fresh entry.
func WithMetadata(registrars ...Registrar) Option {
	return func(p *Pipeline) {
		p.meta = append(p.meta, registrars...)
	}
}

// New creates a pipeline. Entries a previous run accepted are remembered
// in the store under the pipeline's name and skipped on later runs.
func New(name string, input Input, store *simplepersist.Store, logger *slog.Logger, opts ...Option) (*Pipeline, error) {
	if name == "" {
		return nil, errors.New("pipeline name required")
	}
	if input == nil {
		return nil, errors.New("pipeline input required")
	}
	if store == nil {
		return nil, errors.New("pipeline store required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Pipeline{
		name:   name,
		input:  input,
		seen:   store.Scoped(name, "seen"),
		logger: logger.With(logging.String("component", "pipeline"), logging.String("pipeline", name)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run executes one pass. A metadata registration failure only logs; an
// input, store, or output failure aborts the pass. Accepted entries are
// marked seen and the marks are flushed before Run returns.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	entries, err := p.input.Entries(ctx)
	if err != nil {
		return summary, fmt.Errorf("input: %w", err)
	}
	summary.Produced = len(entries)

	fresh := make([]*entry.Entry, 0, len(entries))
	for _, e := range entries {
		key := seenKey(e)
		if key != "" {
			_, err := p.seen.Get(ctx, key)
			if err == nil {
				summary.Seen++
				p.logger.Debug("skipping seen entry", logging.String("key", key))
				continue
			}
			if !errors.Is(err, simplepersist.ErrKeyMissing) {
				return summary, fmt.Errorf("seen lookup: %w", err)
			}
		}
		for _, registrar := range p.meta {
			if err := registrar.RegisterOn(ctx, e); err != nil {
				p.logger.Warn("metadata registration failed",
					logging.String("entry", e.String()),
					logging.Error(err))
			}
		}
		fresh = append(fresh, e)
	}

	if p.output != nil && len(fresh) > 0 {
		if err := p.output.Add(ctx, fresh); err != nil {
			return summary, fmt.Errorf("output: %w", err)
		}
	}
	summary.Accepted = len(fresh)

	for _, e := range fresh {
		if key := seenKey(e); key != "" {
			p.seen.Set(key, e.GetDefaultString("title", ""))
		}
	}
	if err := p.seen.Flush(ctx); err != nil {
		return summary, fmt.Errorf("flush seen marks: %w", err)
	}

	p.logger.Info("pass complete",
		logging.Int("produced", summary.Produced),
		logging.Int("seen", summary.Seen),
		logging.Int("accepted", summary.Accepted))
	return summary, nil
}

// seenKey identifies an entry across runs. The torrent info hash is
// stable where available; the title is the fallback.
func seenKey(e *entry.Entry) string {
	if hash := e.GetDefaultString("torrent_info_hash", ""); hash != "" {
		return hash
	}
	return e.GetDefaultString("title", "")
}
