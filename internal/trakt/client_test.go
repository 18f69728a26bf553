package trakt_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"reel/internal/trakt"
)

// newTestServer serves canned JSON per path and verifies the API headers
// on every request.
func newTestServer(t *testing.T, routes map[string]any) (*httptest.Server, *trakt.Client) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("trakt-api-version"); got != "2" {
			t.Errorf("trakt-api-version = %q", got)
		}
		if got := r.Header.Get("trakt-api-key"); got != "test-client-id" {
			t.Errorf("trakt-api-key = %q", got)
		}
		if got := r.URL.Query().Get("extended"); got != "full" {
			t.Errorf("extended = %q on %s", got, r.URL.Path)
		}
		payload, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(server.Close)

	client, err := trakt.New("test-client-id", server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return server, client
}

func testShow() *trakt.Show {
	show := &trakt.Show{
		Title:    "Breaking Bad",
		Year:     2008,
		Overview: "A chemistry teacher turns to crime.",
		Status:   "ended",
	}
	show.IDs.Trakt = 1388
	show.IDs.Slug = "breaking-bad"
	show.IDs.TVDB = 81189
	show.IDs.IMDB = "tt0903747"
	return show
}

func TestLookupShowByTraktID(t *testing.T) {
	_, client := newTestServer(t, map[string]any{
		"/shows/1388": testShow(),
	})

	show, err := client.LookupShow(context.Background(), trakt.LookupArgs{TraktID: 1388})
	if err != nil {
		t.Fatalf("LookupShow: %v", err)
	}
	if show.Title != "Breaking Bad" || show.IDs.Slug != "breaking-bad" {
		t.Errorf("show = %+v", show)
	}
}

func TestLookupShowBySlug(t *testing.T) {
	_, client := newTestServer(t, map[string]any{
		"/shows/breaking-bad": testShow(),
	})

	show, err := client.LookupShow(context.Background(), trakt.LookupArgs{Slug: "breaking-bad"})
	if err != nil {
		t.Fatalf("LookupShow: %v", err)
	}
	if show.IDs.Trakt != 1388 {
		t.Errorf("trakt id = %d", show.IDs.Trakt)
	}
}

func TestLookupShowByTVDBID(t *testing.T) {
	_, client := newTestServer(t, map[string]any{
		"/search/tvdb/81189": []map[string]any{
			{"type": "show", "show": testShow()},
		},
	})

	show, err := client.LookupShow(context.Background(), trakt.LookupArgs{TVDBID: 81189})
	if err != nil {
		t.Fatalf("LookupShow: %v", err)
	}
	if show.Title != "Breaking Bad" {
		t.Errorf("title = %q", show.Title)
	}
}

func TestLookupShowByTitle(t *testing.T) {
	var query, years string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/show" {
			http.NotFound(w, r)
			return
		}
		query = r.URL.Query().Get("query")
		years = r.URL.Query().Get("years")
		json.NewEncoder(w).Encode([]map[string]any{
			{"type": "show", "show": testShow()},
		})
	}))
	defer server.Close()

	client, err := trakt.New("test-client-id", server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	show, err := client.LookupShow(context.Background(), trakt.LookupArgs{Title: "Breaking Bad", Year: 2008})
	if err != nil {
		t.Fatalf("LookupShow: %v", err)
	}
	if show.IDs.TVDB != 81189 {
		t.Errorf("tvdb id = %d", show.IDs.TVDB)
	}
	if query != "Breaking Bad" || years != "2008" {
		t.Errorf("query = %q years = %q", query, years)
	}
}

func TestLookupShowNotFound(t *testing.T) {
	_, client := newTestServer(t, map[string]any{})

	if _, err := client.LookupShow(context.Background(), trakt.LookupArgs{TraktID: 9999}); !errors.Is(err, trakt.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLookupShowEmptySearchResult(t *testing.T) {
	_, client := newTestServer(t, map[string]any{
		"/search/show": []map[string]any{},
	})

	if _, err := client.LookupShow(context.Background(), trakt.LookupArgs{Title: "No Such Show"}); !errors.Is(err, trakt.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLookupShowNoIdentifiers(t *testing.T) {
	_, client := newTestServer(t, map[string]any{})

	if _, err := client.LookupShow(context.Background(), trakt.LookupArgs{}); !errors.Is(err, trakt.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLookupMovieSearch(t *testing.T) {
	movie := &trakt.Movie{Title: "Inception", Year: 2010}
	movie.IDs.Trakt = 16662
	movie.IDs.IMDB = "tt1375666"
	_, client := newTestServer(t, map[string]any{
		"/search/movie": []map[string]any{
			{"type": "movie", "movie": movie},
		},
	})

	got, err := client.LookupMovie(context.Background(), trakt.LookupArgs{Title: "Inception", Year: 2010})
	if err != nil {
		t.Fatalf("LookupMovie: %v", err)
	}
	if got.IDs.IMDB != "tt1375666" {
		t.Errorf("movie = %+v", got)
	}
}

func TestSeasonDetails(t *testing.T) {
	_, client := newTestServer(t, map[string]any{
		"/shows/1388/seasons/2/info": &trakt.Season{Number: 2, EpisodeCount: 13},
	})

	season, err := client.SeasonDetails(context.Background(), 1388, 2)
	if err != nil {
		t.Fatalf("SeasonDetails: %v", err)
	}
	if season.Number != 2 || season.EpisodeCount != 13 {
		t.Errorf("season = %+v", season)
	}
}

func TestEpisodeDetails(t *testing.T) {
	overview := "Walt cooks for the first time."
	_, client := newTestServer(t, map[string]any{
		"/shows/1388/seasons/1/episodes/1": &trakt.Episode{
			Season:   1,
			Number:   1,
			Title:    "Pilot",
			Overview: &overview,
		},
	})

	episode, err := client.EpisodeDetails(context.Background(), 1388, 1, 1)
	if err != nil {
		t.Fatalf("EpisodeDetails: %v", err)
	}
	if episode.Title != "Pilot" || episode.Overview == nil {
		t.Errorf("episode = %+v", episode)
	}
}

func TestEpisodeDetailsNotFound(t *testing.T) {
	_, client := newTestServer(t, map[string]any{})

	if _, err := client.EpisodeDetails(context.Background(), 1388, 9, 99); !errors.Is(err, trakt.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUserRating(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		other := testShow()
		other.IDs.Trakt = 42
		json.NewEncoder(w).Encode([]map[string]any{
			{"rating": 5, "type": "show", "show": other},
			{"rating": 9, "type": "show", "show": testShow()},
		})
	}))
	defer server.Close()

	client, err := trakt.New("test-client-id", server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rating, err := client.UserRating(context.Background(), "someuser", "shows", 1388)
	if err != nil {
		t.Fatalf("UserRating: %v", err)
	}
	if rating != 9 {
		t.Errorf("rating = %d, want 9", rating)
	}
	if path != "/users/someuser/ratings/shows" {
		t.Errorf("path = %q", path)
	}

	if _, err := client.UserRating(context.Background(), "someuser", "shows", 777); !errors.Is(err, trakt.ErrNotFound) {
		t.Errorf("unrated err = %v, want ErrNotFound", err)
	}
}

func TestServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := trakt.New("test-client-id", server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = client.LookupShow(context.Background(), trakt.LookupArgs{TraktID: 1})
	if err == nil || errors.Is(err, trakt.ErrNotFound) {
		t.Errorf("err = %v, want non-404 failure", err)
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := trakt.New("", "https://api.trakt.tv"); err == nil {
		t.Error("empty client id accepted")
	}
	if _, err := trakt.New("id", ""); err == nil {
		t.Error("empty base url accepted")
	}
}
