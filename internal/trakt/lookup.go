package trakt

import (
	"context"
	"fmt"
	"log/slog"

	"reel/internal/entry"
	"reel/internal/logging"
	"reel/internal/textutil"
)

// Plugin registers lazy metadata bindings on entries. The Trakt API is
// only contacted when a covered field is actually read.
type Plugin struct {
	client   Lookuper
	username string
	logger   *slog.Logger
}

// PluginOption configures a Plugin.
type PluginOption func(*Plugin)

// WithUsername enables the user rating fields, resolved against the
// named user's public ratings.
func WithUsername(username string) PluginOption {
	return func(p *Plugin) {
		p.username = username
	}
}

// NewPlugin creates the lookup plugin around a Lookuper.
func NewPlugin(client Lookuper, logger *slog.Logger, opts ...PluginOption) *Plugin {
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Plugin{client: client, logger: logger.With(logging.String("component", "trakt_lookup"))}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RegisterOn classifies the entry and registers the applicable lazy
// bindings. The context is captured by the resolvers and governs the
// eventual lookup requests.
func (p *Plugin) RegisterOn(ctx context.Context, e *entry.Entry) error {
	e.SetLogger(p.logger)
	if entryIsShow(e) {
		if err := e.RegisterLazyMapping(seriesMapping, p.showResolver(ctx)); err != nil {
			return err
		}
		if p.username != "" {
			if err := e.RegisterLazyMapping(seriesUserRatingMapping, p.userRatingResolver(ctx, "shows")); err != nil {
				return err
			}
		}
		switch {
		case entryIsEpisode(e):
			return e.RegisterLazyMapping(episodeMapping, p.episodeResolver(ctx))
		case entryIsSeason(e):
			return e.RegisterLazyMapping(seasonMapping, p.seasonResolver(ctx))
		}
		return nil
	}
	if err := e.RegisterLazyMapping(movieMapping, p.movieResolver(ctx)); err != nil {
		return err
	}
	if p.username != "" {
		return e.RegisterLazyMapping(movieUserRatingMapping, p.userRatingResolver(ctx, "movies"))
	}
	return nil
}

func (p *Plugin) showResolver(ctx context.Context) entry.Resolver {
	return func(e *entry.Entry) (entry.Source, error) {
		show, err := p.lookupShow(ctx, e)
		if err != nil {
			return nil, err
		}
		return show, nil
	}
}

func (p *Plugin) seasonResolver(ctx context.Context) entry.Resolver {
	return func(e *entry.Entry) (entry.Source, error) {
		show, err := p.lookupShow(ctx, e)
		if err != nil {
			return nil, err
		}
		season, ok := intField(e, "series_season")
		if !ok {
			return nil, fmt.Errorf("entry %s has no usable season number", e)
		}
		payload, err := p.client.SeasonDetails(ctx, show.IDs.Trakt, season)
		if err != nil {
			return nil, err
		}
		return payload, nil
	}
}

func (p *Plugin) episodeResolver(ctx context.Context) entry.Resolver {
	return func(e *entry.Entry) (entry.Source, error) {
		show, err := p.lookupShow(ctx, e)
		if err != nil {
			return nil, err
		}
		season, okSeason := intField(e, "series_season")
		number, okNumber := intField(e, "series_episode")
		if !okSeason || !okNumber {
			return nil, fmt.Errorf("entry %s has no usable episode numbering", e)
		}
		episode, err := p.client.EpisodeDetails(ctx, show.IDs.Trakt, season, number)
		if err != nil {
			return nil, err
		}
		return episode, nil
	}
}

func (p *Plugin) movieResolver(ctx context.Context) entry.Resolver {
	return func(e *entry.Entry) (entry.Source, error) {
		movie, err := p.client.LookupMovie(ctx, movieArgs(e))
		if err != nil {
			return nil, err
		}
		return movie, nil
	}
}

// userRatingResolver resolves the object first so ratings can be matched
// by Trakt ID. The object lookup is its own binding and is evaluated at
// most once per entry; only the ratings request is extra work here.
func (p *Plugin) userRatingResolver(ctx context.Context, mediaType string) entry.Resolver {
	return func(e *entry.Entry) (entry.Source, error) {
		var id int64
		if mediaType == "shows" {
			show, err := p.lookupShow(ctx, e)
			if err != nil {
				return nil, err
			}
			id = show.IDs.Trakt
		} else {
			movie, err := p.client.LookupMovie(ctx, movieArgs(e))
			if err != nil {
				return nil, err
			}
			id = movie.IDs.Trakt
		}
		rating, err := p.client.UserRating(ctx, p.username, mediaType, id)
		if err != nil {
			return nil, err
		}
		return entry.MapSource{"rating": rating}, nil
	}
}

func (p *Plugin) lookupShow(ctx context.Context, e *entry.Entry) (*Show, error) {
	return p.client.LookupShow(ctx, showArgs(e))
}

// showArgs collects lookup identifiers without triggering other lazy
// bindings; peeking keeps resolvers from cascading into each other.
func showArgs(e *entry.Entry) LookupArgs {
	args := LookupArgs{
		TraktID: int64Field(e, "trakt_show_id"),
		TVDBID:  int64Field(e, "tvdb_id"),
		TMDBID:  int64Field(e, "tmdb_id"),
	}
	if title, ok := stringField(e, "series_name"); ok {
		args.Title = textutil.FoldTitle(title)
	}
	if year, ok := intField(e, "year"); ok {
		args.Year = year
	} else if args.Title != "" {
		args.Title, args.Year = textutil.SplitTitleYear(args.Title)
	}
	return args
}

func movieArgs(e *entry.Entry) LookupArgs {
	args := LookupArgs{
		TraktID: int64Field(e, "trakt_movie_id"),
		TMDBID:  int64Field(e, "tmdb_id"),
	}
	if slug, ok := stringField(e, "trakt_movie_slug"); ok {
		args.Slug = slug
	}
	if imdb, ok := stringField(e, "imdb_id"); ok {
		args.IMDBID = imdb
	}
	title, ok := stringField(e, "movie_name")
	if !ok {
		title, _ = stringField(e, "title")
	}
	if title != "" {
		args.Title = textutil.FoldTitle(title)
		if year, okYear := intField(e, "movie_year"); okYear {
			args.Year = year
		} else {
			args.Title, args.Year = textutil.SplitTitleYear(args.Title)
		}
	}
	return args
}

func entryIsShow(e *entry.Entry) bool {
	if _, ok := stringField(e, "series_name"); ok {
		return true
	}
	return int64Field(e, "tvdb_id") != 0
}

func entryIsEpisode(e *entry.Entry) bool {
	_, hasSeason := e.Peek("series_season")
	_, hasEpisode := e.Peek("series_episode")
	return hasSeason && hasEpisode
}

func entryIsSeason(e *entry.Entry) bool {
	_, hasSeason := e.Peek("series_season")
	return hasSeason && !entryIsEpisode(e)
}

func stringField(e *entry.Entry, field string) (string, bool) {
	value, ok := e.Peek(field)
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func intField(e *entry.Entry, field string) (int, bool) {
	value, ok := e.Peek(field)
	if !ok {
		return 0, false
	}
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

func int64Field(e *entry.Entry, field string) int64 {
	value, ok := e.Peek(field)
	if !ok {
		return 0
	}
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}
