package trakt

import (
	"fmt"

	"reel/internal/entry"
)

// Field maps translate provider attributes onto entry fields. Each
// internal field traces back to exactly one mapping entry; attributes the
// provider omits simply stay absent on the entry.

var seriesMapping = entry.Mapping{
	entry.Direct("trakt_series_name", "title"),
	entry.Direct("trakt_series_year", "year"),
	entry.Direct("imdb_id", "imdb_id"),
	entry.Direct("tvdb_id", "tvdb_id"),
	entry.Direct("tmdb_id", "tmdb_id"),
	entry.Direct("trakt_show_id", "id"),
	entry.Direct("trakt_slug", "slug"),
	entry.Direct("tvrage_id", "tvrage_id"),
	entry.Direct("trakt_trailer", "trailer"),
	entry.Direct("trakt_homepage", "homepage"),
	entry.Direct("trakt_series_runtime", "runtime"),
	entry.Direct("trakt_series_first_aired", "first_aired"),
	entry.Direct("trakt_series_air_time", "air_time"),
	entry.Direct("trakt_series_air_day", "air_day"),
	entry.Direct("trakt_series_content_rating", "certification"),
	entry.Direct("trakt_genres", "genres"),
	entry.Direct("trakt_series_network", "network"),
	entry.Transformed("imdb_url", "imdb_id", imdbURL),
	entry.Transformed("trakt_series_url", "slug", seriesURL),
	entry.Direct("trakt_series_country", "country"),
	entry.Direct("trakt_series_status", "status"),
	entry.Direct("trakt_series_overview", "overview"),
	entry.Direct("trakt_series_rating", "rating"),
	entry.Direct("trakt_series_votes", "votes"),
	entry.Direct("trakt_series_language", "language"),
	entry.Direct("trakt_series_aired_episodes", "aired_episodes"),
}

var episodeMapping = entry.Mapping{
	entry.Direct("trakt_ep_name", "title"),
	entry.Direct("trakt_ep_imdb_id", "imdb_id"),
	entry.Direct("trakt_ep_tvdb_id", "tvdb_id"),
	entry.Direct("trakt_ep_tmdb_id", "tmdb_id"),
	entry.Direct("trakt_episode_id", "id"),
	entry.Direct("trakt_ep_first_aired", "first_aired"),
	entry.Direct("trakt_ep_overview", "overview"),
	entry.Direct("trakt_ep_abs_number", "number_abs"),
	entry.Direct("trakt_season", "season"),
	entry.Direct("trakt_episode", "number"),
	entry.Direct("trakt_ep_id", "code"),
}

var seasonMapping = entry.Mapping{
	entry.Direct("trakt_season_name", "title"),
	entry.Direct("trakt_season_tvdb_id", "tvdb_id"),
	entry.Direct("trakt_season_tmdb_id", "tmdb_id"),
	entry.Direct("trakt_season_id", "id"),
	entry.Direct("trakt_season_first_aired", "first_aired"),
	entry.Direct("trakt_season_overview", "overview"),
	entry.Direct("trakt_season_episode_count", "episode_count"),
	entry.Direct("trakt_season", "number"),
	entry.Direct("trakt_season_aired_episodes", "aired_episodes"),
}

var movieMapping = entry.Mapping{
	entry.Direct("movie_name", "title"),
	entry.Direct("movie_year", "year"),
	entry.Direct("trakt_movie_name", "title"),
	entry.Direct("trakt_movie_year", "year"),
	entry.Direct("trakt_movie_id", "id"),
	entry.Direct("trakt_slug", "slug"),
	entry.Direct("imdb_id", "imdb_id"),
	entry.Direct("tmdb_id", "tmdb_id"),
	entry.Transformed("imdb_url", "imdb_id", imdbURL),
	entry.Direct("trakt_tagline", "tagline"),
	entry.Direct("trakt_overview", "overview"),
	entry.Direct("trakt_released", "released"),
	entry.Direct("trakt_runtime", "runtime"),
	entry.Direct("trakt_rating", "rating"),
	entry.Direct("trakt_votes", "votes"),
	entry.Direct("trakt_homepage", "homepage"),
	entry.Direct("trakt_trailer", "trailer"),
	entry.Direct("trakt_language", "language"),
	entry.Direct("trakt_genres", "genres"),
}

// User ratings come from a separate per-user endpoint and get their own
// bindings so an unrated object does not fail the main lookup.

var seriesUserRatingMapping = entry.Mapping{
	entry.Direct("trakt_series_user_rating", "rating"),
}

var movieUserRatingMapping = entry.Mapping{
	entry.Direct("trakt_movie_user_rating", "rating"),
}

func imdbURL(value any) (any, error) {
	id, ok := value.(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("imdb id is %T, want string", value)
	}
	return "https://www.imdb.com/title/" + id, nil
}

func seriesURL(value any) (any, error) {
	slug, ok := value.(string)
	if !ok || slug == "" {
		return nil, fmt.Errorf("slug is %T, want string", value)
	}
	return "https://trakt.tv/shows/" + slug, nil
}
