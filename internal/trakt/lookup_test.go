package trakt_test

import (
	"context"
	"errors"
	"testing"

	"reel/internal/entry"
	"reel/internal/trakt"
)

type fakeLookuper struct {
	show    *trakt.Show
	season  *trakt.Season
	episode *trakt.Episode
	movie   *trakt.Movie
	ratings map[int64]int
	err     error

	showCalls    int
	seasonCalls  int
	episodeCalls int
	movieCalls   int
	ratingCalls  int

	lastShowArgs   trakt.LookupArgs
	lastMovieArgs  trakt.LookupArgs
	lastSeason     int
	lastEpisode    int
	lastRatingUser string
	lastRatingType string
}

func (f *fakeLookuper) LookupShow(ctx context.Context, args trakt.LookupArgs) (*trakt.Show, error) {
	f.showCalls++
	f.lastShowArgs = args
	if f.err != nil {
		return nil, f.err
	}
	return f.show, nil
}

func (f *fakeLookuper) LookupMovie(ctx context.Context, args trakt.LookupArgs) (*trakt.Movie, error) {
	f.movieCalls++
	f.lastMovieArgs = args
	if f.err != nil {
		return nil, f.err
	}
	return f.movie, nil
}

func (f *fakeLookuper) SeasonDetails(ctx context.Context, showID int64, season int) (*trakt.Season, error) {
	f.seasonCalls++
	f.lastSeason = season
	if f.err != nil {
		return nil, f.err
	}
	return f.season, nil
}

func (f *fakeLookuper) EpisodeDetails(ctx context.Context, showID int64, season, number int) (*trakt.Episode, error) {
	f.episodeCalls++
	f.lastSeason = season
	f.lastEpisode = number
	if f.err != nil {
		return nil, f.err
	}
	return f.episode, nil
}

func (f *fakeLookuper) UserRating(ctx context.Context, username, mediaType string, traktID int64) (int, error) {
	f.ratingCalls++
	f.lastRatingUser = username
	f.lastRatingType = mediaType
	if f.err != nil {
		return 0, f.err
	}
	rating, ok := f.ratings[traktID]
	if !ok {
		return 0, trakt.ErrNotFound
	}
	return rating, nil
}

func fakeShow() *trakt.Show {
	show := &trakt.Show{Title: "Breaking Bad", Year: 2008, Status: "ended"}
	show.IDs.Trakt = 1388
	show.IDs.Slug = "breaking-bad"
	show.IDs.TVDB = 81189
	show.IDs.IMDB = "tt0903747"
	return show
}

func registerOn(t *testing.T, lookuper trakt.Lookuper, fields map[string]any) *entry.Entry {
	t.Helper()
	e := entry.NewWithFields(fields)
	plugin := trakt.NewPlugin(lookuper, nil)
	if err := plugin.RegisterOn(context.Background(), e); err != nil {
		t.Fatalf("RegisterOn: %v", err)
	}
	return e
}

func TestRegisterOnShow(t *testing.T) {
	fake := &fakeLookuper{show: fakeShow()}
	e := registerOn(t, fake, map[string]any{
		"title":       "Breaking.Bad.S01.1080p",
		"series_name": "Breaking Bad",
	})

	if !e.IsLazy("trakt_series_name") {
		t.Fatal("trakt_series_name not lazy after registration")
	}
	if fake.showCalls != 0 {
		t.Fatal("registration alone triggered a lookup")
	}

	name, err := e.Get("trakt_series_name")
	if err != nil {
		t.Fatalf("Get trakt_series_name: %v", err)
	}
	if name != "Breaking Bad" {
		t.Errorf("trakt_series_name = %v", name)
	}
	slug, err := e.Get("trakt_slug")
	if err != nil {
		t.Fatalf("Get trakt_slug: %v", err)
	}
	if slug != "breaking-bad" {
		t.Errorf("trakt_slug = %v", slug)
	}
	url, err := e.Get("trakt_series_url")
	if err != nil {
		t.Fatalf("Get trakt_series_url: %v", err)
	}
	if url != "https://trakt.tv/shows/breaking-bad" {
		t.Errorf("trakt_series_url = %v", url)
	}
	if fake.showCalls != 1 {
		t.Errorf("show lookups = %d, want 1", fake.showCalls)
	}
	if fake.lastShowArgs.Title != "Breaking Bad" {
		t.Errorf("lookup title = %q", fake.lastShowArgs.Title)
	}
}

func TestRegisterOnEpisode(t *testing.T) {
	overview := "Walt cooks for the first time."
	episode := &trakt.Episode{Season: 1, Number: 1, Title: "Pilot", Overview: &overview}
	episode.IDs.Trakt = 73482
	fake := &fakeLookuper{show: fakeShow(), episode: episode}
	e := registerOn(t, fake, map[string]any{
		"series_name":    "Breaking Bad",
		"series_season":  1,
		"series_episode": 1,
	})

	name, err := e.Get("trakt_ep_name")
	if err != nil {
		t.Fatalf("Get trakt_ep_name: %v", err)
	}
	if name != "Pilot" {
		t.Errorf("trakt_ep_name = %v", name)
	}
	code, err := e.Get("trakt_ep_id")
	if err != nil {
		t.Fatalf("Get trakt_ep_id: %v", err)
	}
	if code != "S01E01" {
		t.Errorf("trakt_ep_id = %v", code)
	}
	if text, err := e.Get("trakt_ep_overview"); err != nil || text != overview {
		t.Errorf("trakt_ep_overview = %v, %v", text, err)
	}

	// Series fields come from the separate show binding.
	if name, err := e.Get("trakt_series_name"); err != nil || name != "Breaking Bad" {
		t.Errorf("trakt_series_name = %v, %v", name, err)
	}

	if fake.episodeCalls != 1 {
		t.Errorf("episode lookups = %d, want 1", fake.episodeCalls)
	}
	if fake.lastSeason != 1 || fake.lastEpisode != 1 {
		t.Errorf("looked up S%02dE%02d", fake.lastSeason, fake.lastEpisode)
	}
}

func TestRegisterOnEpisodeNilOverview(t *testing.T) {
	episode := &trakt.Episode{Season: 2, Number: 3, Title: "Bit by a Dead Bee"}
	fake := &fakeLookuper{show: fakeShow(), episode: episode}
	e := registerOn(t, fake, map[string]any{
		"series_name":    "Breaking Bad",
		"series_season":  2,
		"series_episode": 3,
	})

	if _, err := e.Get("trakt_ep_overview"); !errors.Is(err, entry.ErrFieldNotFound) {
		t.Errorf("err = %v, want ErrFieldNotFound", err)
	}
	// The rest of the episode binding still resolves.
	if name, err := e.Get("trakt_ep_name"); err != nil || name != "Bit by a Dead Bee" {
		t.Errorf("trakt_ep_name = %v, %v", name, err)
	}
}

func TestRegisterOnSeason(t *testing.T) {
	season := &trakt.Season{Number: 2, Title: "Season 2", EpisodeCount: 13}
	season.IDs.Trakt = 3951
	fake := &fakeLookuper{show: fakeShow(), season: season}
	e := registerOn(t, fake, map[string]any{
		"series_name":   "Breaking Bad",
		"series_season": 2,
	})

	count, err := e.Get("trakt_season_episode_count")
	if err != nil {
		t.Fatalf("Get trakt_season_episode_count: %v", err)
	}
	if count != 13 {
		t.Errorf("trakt_season_episode_count = %v", count)
	}
	if fake.seasonCalls != 1 || fake.lastSeason != 2 {
		t.Errorf("season lookups = %d for season %d", fake.seasonCalls, fake.lastSeason)
	}
	if fake.episodeCalls != 0 {
		t.Error("season entry triggered an episode lookup")
	}
}

func TestRegisterOnShowByTVDBID(t *testing.T) {
	fake := &fakeLookuper{show: fakeShow()}
	e := registerOn(t, fake, map[string]any{
		"title":   "some.release.name",
		"tvdb_id": int64(81189),
	})

	if name, err := e.Get("trakt_series_name"); err != nil || name != "Breaking Bad" {
		t.Fatalf("trakt_series_name = %v, %v", name, err)
	}
	if fake.lastShowArgs.TVDBID != 81189 {
		t.Errorf("lookup args = %+v", fake.lastShowArgs)
	}
	if fake.movieCalls != 0 {
		t.Error("tvdb entry classified as movie")
	}
}

func TestRegisterOnMovie(t *testing.T) {
	movie := &trakt.Movie{Title: "Inception", Year: 2010, Overview: "Dreams within dreams."}
	movie.IDs.Trakt = 16662
	movie.IDs.IMDB = "tt1375666"
	fake := &fakeLookuper{movie: movie}
	e := registerOn(t, fake, map[string]any{
		"title": "Inception (2010)",
	})

	if name, err := e.Get("movie_name"); err != nil || name != "Inception" {
		t.Fatalf("movie_name = %v, %v", name, err)
	}
	if url, err := e.Get("imdb_url"); err != nil || url != "https://www.imdb.com/title/tt1375666" {
		t.Errorf("imdb_url = %v, %v", url, err)
	}
	if fake.movieCalls != 1 {
		t.Errorf("movie lookups = %d, want 1", fake.movieCalls)
	}
	if fake.lastMovieArgs.Title != "Inception" || fake.lastMovieArgs.Year != 2010 {
		t.Errorf("lookup args = %+v", fake.lastMovieArgs)
	}
	if fake.showCalls != 0 {
		t.Error("movie entry classified as show")
	}
}

func TestUserRatingFields(t *testing.T) {
	fake := &fakeLookuper{show: fakeShow(), ratings: map[int64]int{1388: 9}}
	e := entry.NewWithFields(map[string]any{"series_name": "Breaking Bad"})
	plugin := trakt.NewPlugin(fake, nil, trakt.WithUsername("someuser"))
	if err := plugin.RegisterOn(context.Background(), e); err != nil {
		t.Fatalf("RegisterOn: %v", err)
	}

	rating, err := e.Get("trakt_series_user_rating")
	if err != nil {
		t.Fatalf("Get trakt_series_user_rating: %v", err)
	}
	if rating != 9 {
		t.Errorf("rating = %v, want 9", rating)
	}
	if fake.lastRatingUser != "someuser" || fake.lastRatingType != "shows" {
		t.Errorf("rating lookup for %s/%s", fake.lastRatingUser, fake.lastRatingType)
	}
}

func TestUserRatingFieldsMovie(t *testing.T) {
	movie := &trakt.Movie{Title: "Inception", Year: 2010}
	movie.IDs.Trakt = 16662
	fake := &fakeLookuper{movie: movie, ratings: map[int64]int{16662: 8}}
	e := entry.NewWithFields(map[string]any{"title": "Inception (2010)"})
	plugin := trakt.NewPlugin(fake, nil, trakt.WithUsername("someuser"))
	if err := plugin.RegisterOn(context.Background(), e); err != nil {
		t.Fatalf("RegisterOn: %v", err)
	}

	if rating, err := e.Get("trakt_movie_user_rating"); err != nil || rating != 8 {
		t.Errorf("trakt_movie_user_rating = %v, %v", rating, err)
	}
	if fake.lastRatingType != "movies" {
		t.Errorf("rating lookup type = %s", fake.lastRatingType)
	}
}

func TestUserRatingFieldsNeedUsername(t *testing.T) {
	fake := &fakeLookuper{show: fakeShow(), ratings: map[int64]int{1388: 9}}
	e := registerOn(t, fake, map[string]any{"series_name": "Breaking Bad"})

	if e.IsLazy("trakt_series_user_rating") {
		t.Error("user rating registered without a username")
	}
	if fake.ratingCalls != 0 {
		t.Errorf("rating lookups = %d, want 0", fake.ratingCalls)
	}
}

func TestUserRatingUnrated(t *testing.T) {
	fake := &fakeLookuper{show: fakeShow()}
	e := entry.NewWithFields(map[string]any{"series_name": "Breaking Bad"})
	plugin := trakt.NewPlugin(fake, nil, trakt.WithUsername("someuser"))
	if err := plugin.RegisterOn(context.Background(), e); err != nil {
		t.Fatalf("RegisterOn: %v", err)
	}

	if _, err := e.Get("trakt_series_user_rating"); !errors.Is(err, entry.ErrFieldNotFound) {
		t.Errorf("err = %v, want ErrFieldNotFound", err)
	}
	// The unrated object does not poison the main series binding.
	if name, err := e.Get("trakt_series_name"); err != nil || name != "Breaking Bad" {
		t.Errorf("trakt_series_name = %v, %v", name, err)
	}
}

func TestShowArgsFoldTitleAndYear(t *testing.T) {
	fake := &fakeLookuper{show: fakeShow()}
	e := registerOn(t, fake, map[string]any{
		"series_name": "Amélie (2001)",
	})

	if _, err := e.Get("trakt_series_name"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if fake.lastShowArgs.Title != "Amelie" || fake.lastShowArgs.Year != 2001 {
		t.Errorf("lookup args = %+v", fake.lastShowArgs)
	}
}

func TestFailedLookupLeavesFieldsAbsent(t *testing.T) {
	fake := &fakeLookuper{err: trakt.ErrNotFound}
	e := registerOn(t, fake, map[string]any{
		"series_name": "No Such Show",
	})

	if _, err := e.Get("trakt_series_name"); !errors.Is(err, entry.ErrFieldNotFound) {
		t.Errorf("first read err = %v", err)
	}
	if _, err := e.Get("trakt_slug"); !errors.Is(err, entry.ErrFieldNotFound) {
		t.Errorf("second read err = %v", err)
	}
	if fake.showCalls != 1 {
		t.Errorf("show lookups = %d, want 1 (failed bindings are not retried)", fake.showCalls)
	}
}

func TestRegisterOnKeepsExistingFields(t *testing.T) {
	fake := &fakeLookuper{show: fakeShow()}
	e := registerOn(t, fake, map[string]any{
		"series_name": "Breaking Bad",
		"imdb_id":     "tt9999999",
	})

	// Materialized fields win over the lazy binding.
	if id, err := e.Get("imdb_id"); err != nil || id != "tt9999999" {
		t.Errorf("imdb_id = %v, %v", id, err)
	}
	if fake.showCalls != 0 {
		t.Error("existing field triggered a lookup")
	}
}
