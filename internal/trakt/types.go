package trakt

import "fmt"

// IDs carries the cross-provider identifiers Trakt returns for any media
// object.
type IDs struct {
	Trakt  int64  `json:"trakt"`
	Slug   string `json:"slug"`
	TVDB   int64  `json:"tvdb"`
	IMDB   string `json:"imdb"`
	TMDB   int64  `json:"tmdb"`
	TVRage int64  `json:"tvrage"`
}

// Show is a Trakt series payload (extended=full).
type Show struct {
	Title         string   `json:"title"`
	Year          int      `json:"year"`
	IDs           IDs      `json:"ids"`
	Overview      string   `json:"overview"`
	FirstAired    string   `json:"first_aired"`
	Runtime       int      `json:"runtime"`
	Certification string   `json:"certification"`
	Network       string   `json:"network"`
	Country       string   `json:"country"`
	Trailer       string   `json:"trailer"`
	Homepage      string   `json:"homepage"`
	Status        string   `json:"status"`
	Rating        float64  `json:"rating"`
	Votes         int64    `json:"votes"`
	Language      string   `json:"language"`
	AiredEpisodes int      `json:"aired_episodes"`
	Genres        []string `json:"genres"`
	Airs          struct {
		Day      string `json:"day"`
		Time     string `json:"time"`
		Timezone string `json:"timezone"`
	} `json:"airs"`
}

// Season is a Trakt season payload.
type Season struct {
	Number        int    `json:"number"`
	IDs           IDs    `json:"ids"`
	Title         string `json:"title"`
	Overview      string `json:"overview"`
	FirstAired    string `json:"first_aired"`
	EpisodeCount  int    `json:"episode_count"`
	AiredEpisodes int    `json:"aired_episodes"`
}

// Episode is a Trakt episode payload.
type Episode struct {
	Season     int     `json:"season"`
	Number     int     `json:"number"`
	NumberAbs  int     `json:"number_abs"`
	Title      string  `json:"title"`
	IDs        IDs     `json:"ids"`
	Overview   *string `json:"overview"`
	FirstAired string  `json:"first_aired"`
	Rating     float64 `json:"rating"`
	Votes      int64   `json:"votes"`
}

// Movie is a Trakt movie payload (extended=full).
type Movie struct {
	Title    string   `json:"title"`
	Year     int      `json:"year"`
	IDs      IDs      `json:"ids"`
	Tagline  string   `json:"tagline"`
	Overview string   `json:"overview"`
	Released string   `json:"released"`
	Runtime  int      `json:"runtime"`
	Trailer  string   `json:"trailer"`
	Homepage string   `json:"homepage"`
	Rating   float64  `json:"rating"`
	Votes    int64    `json:"votes"`
	Language string   `json:"language"`
	Genres   []string `json:"genres"`
}

// Field exposes show attributes to field mappings. Zero values are
// reported as absent so optional provider fields never materialize as
// empty placeholders.
func (s *Show) Field(name string) (any, bool) {
	switch name {
	case "title":
		return stringAttr(s.Title)
	case "year":
		return intAttr(s.Year)
	case "imdb_id":
		return stringAttr(s.IDs.IMDB)
	case "tvdb_id":
		return int64Attr(s.IDs.TVDB)
	case "tmdb_id":
		return int64Attr(s.IDs.TMDB)
	case "tvrage_id":
		return int64Attr(s.IDs.TVRage)
	case "id":
		return int64Attr(s.IDs.Trakt)
	case "slug":
		return stringAttr(s.IDs.Slug)
	case "overview":
		return stringAttr(s.Overview)
	case "first_aired":
		return stringAttr(s.FirstAired)
	case "runtime":
		return intAttr(s.Runtime)
	case "certification":
		return stringAttr(s.Certification)
	case "network":
		return stringAttr(s.Network)
	case "country":
		return stringAttr(s.Country)
	case "trailer":
		return stringAttr(s.Trailer)
	case "homepage":
		return stringAttr(s.Homepage)
	case "status":
		return stringAttr(s.Status)
	case "rating":
		return floatAttr(s.Rating)
	case "votes":
		return int64Attr(s.Votes)
	case "language":
		return stringAttr(s.Language)
	case "aired_episodes":
		return intAttr(s.AiredEpisodes)
	case "air_day":
		return stringAttr(s.Airs.Day)
	case "air_time":
		return stringAttr(s.Airs.Time)
	case "genres":
		if len(s.Genres) == 0 {
			return nil, false
		}
		return s.Genres, true
	}
	return nil, false
}

// Field exposes season attributes to field mappings.
func (s *Season) Field(name string) (any, bool) {
	switch name {
	case "title":
		return stringAttr(s.Title)
	case "number":
		return s.Number, true
	case "id":
		return int64Attr(s.IDs.Trakt)
	case "tvdb_id":
		return int64Attr(s.IDs.TVDB)
	case "tmdb_id":
		return int64Attr(s.IDs.TMDB)
	case "overview":
		return stringAttr(s.Overview)
	case "first_aired":
		return stringAttr(s.FirstAired)
	case "episode_count":
		return intAttr(s.EpisodeCount)
	case "aired_episodes":
		return intAttr(s.AiredEpisodes)
	}
	return nil, false
}

// Field exposes episode attributes to field mappings. The synthetic
// "code" attribute renders the SxxExx episode code.
func (e *Episode) Field(name string) (any, bool) {
	switch name {
	case "title":
		return stringAttr(e.Title)
	case "season":
		return e.Season, true
	case "number":
		return e.Number, true
	case "number_abs":
		return intAttr(e.NumberAbs)
	case "id":
		return int64Attr(e.IDs.Trakt)
	case "imdb_id":
		return stringAttr(e.IDs.IMDB)
	case "tvdb_id":
		return int64Attr(e.IDs.TVDB)
	case "tmdb_id":
		return int64Attr(e.IDs.TMDB)
	case "overview":
		if e.Overview == nil {
			return nil, false
		}
		return stringAttr(*e.Overview)
	case "first_aired":
		return stringAttr(e.FirstAired)
	case "rating":
		return floatAttr(e.Rating)
	case "votes":
		return int64Attr(e.Votes)
	case "code":
		return fmt.Sprintf("S%02dE%02d", e.Season, e.Number), true
	}
	return nil, false
}

// Field exposes movie attributes to field mappings.
func (m *Movie) Field(name string) (any, bool) {
	switch name {
	case "title":
		return stringAttr(m.Title)
	case "year":
		return intAttr(m.Year)
	case "id":
		return int64Attr(m.IDs.Trakt)
	case "slug":
		return stringAttr(m.IDs.Slug)
	case "imdb_id":
		return stringAttr(m.IDs.IMDB)
	case "tmdb_id":
		return int64Attr(m.IDs.TMDB)
	case "tagline":
		return stringAttr(m.Tagline)
	case "overview":
		return stringAttr(m.Overview)
	case "released":
		return stringAttr(m.Released)
	case "runtime":
		return intAttr(m.Runtime)
	case "trailer":
		return stringAttr(m.Trailer)
	case "homepage":
		return stringAttr(m.Homepage)
	case "rating":
		return floatAttr(m.Rating)
	case "votes":
		return int64Attr(m.Votes)
	case "language":
		return stringAttr(m.Language)
	case "genres":
		if len(m.Genres) == 0 {
			return nil, false
		}
		return m.Genres, true
	}
	return nil, false
}

func stringAttr(value string) (any, bool) {
	if value == "" {
		return nil, false
	}
	return value, true
}

func intAttr(value int) (any, bool) {
	if value == 0 {
		return nil, false
	}
	return value, true
}

func int64Attr(value int64) (any, bool) {
	if value == 0 {
		return nil, false
	}
	return value, true
}

func floatAttr(value float64) (any, bool) {
	if value == 0 {
		return nil, false
	}
	return value, true
}
