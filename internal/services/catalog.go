// TMDB implementation of [Catalog]
//
// Response types based on https://developer.themoviedb.org/reference/intro/getting-started
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/marquee/internal/dispatcher"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/shared"
	"golang.org/x/oauth2"
)

const (
	defaultCatalogURL   = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p/w500"
	defaultLanguage     = "en-US"
	defaultTimeout      = 10 * time.Second

	youtubeWatchURL = "https://www.youtube.com/watch?v="

	maxCast        = 5
	maxSuggestions = 5
)

type tmdbSearchResult struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
}

type tmdbSearchResponse struct {
	Page         int                `json:"page"`
	Results      []tmdbSearchResult `json:"results"`
	TotalResults int                `json:"total_results"`
}

type tmdbCast struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
}

type tmdbCrew struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type tmdbVideo struct {
	Key  string `json:"key"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// tmdbMovie is a /movie/{id} response with credits and videos appended.
type tmdbMovie struct {
	ID          int            `json:"id"`
	Title       string         `json:"title"`
	Overview    string         `json:"overview"`
	PosterPath  string         `json:"poster_path"`
	ReleaseDate string         `json:"release_date"`
	VoteAverage float64        `json:"vote_average"`
	Runtime     int            `json:"runtime"`
	Genres      []models.Genre `json:"genres"`
	Credits     struct {
		Cast []tmdbCast `json:"cast"`
		Crew []tmdbCrew `json:"crew"`
	} `json:"credits"`
	Videos struct {
		Results []tmdbVideo `json:"results"`
	} `json:"videos"`
}

type tmdbGenres struct {
	Genres []models.Genre `json:"genres"`
}

type tmdbError struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

// CatalogService implements [Catalog] against the TMDB v3 API.
//
// Every HTTP call is submitted to a shared [dispatcher.Dispatcher], so all lookups
// observe one admission window regardless of which caller issued them.
type CatalogService struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	language     string
	bearer       bool
	httpClient   *http.Client
	dispatcher   *dispatcher.Dispatcher
	logger       *log.Logger
}

// NewCatalogService creates a catalog client. A v4 access token is sent as a bearer
// token through an [oauth2] transport; otherwise the v3 api_key query parameter is used.
func NewCatalogService(cfg shared.CatalogConfig, d *dispatcher.Dispatcher, logger *log.Logger) *CatalogService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultCatalogURL
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = defaultImageBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = defaultLanguage
	}
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if d == nil {
		d = dispatcher.New(dispatcher.Options{Logger: logger})
	}

	client := &http.Client{Timeout: timeout}
	if cfg.AccessToken != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken, TokenType: "Bearer"})
		client = oauth2.NewClient(context.Background(), src)
		client.Timeout = timeout
	}

	return &CatalogService{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL: cfg.ImageBaseURL,
		apiKey:       cfg.APIKey,
		language:     cfg.Language,
		bearer:       cfg.AccessToken != "",
		httpClient:   client,
		dispatcher:   d,
		logger:       shared.WithLogger(logger, "component", "catalog"),
	}
}

// SetHTTPClient replaces the underlying client, keeping its transport untouched.
func (c *CatalogService) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// SearchMovie searches by title and returns the full details of the first hit.
func (c *CatalogService) SearchMovie(ctx context.Context, title, language string) (*models.Movie, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}

	res, ok, err := c.search(ctx, title, language)
	if err != nil {
		return nil, err
	}
	if !ok || len(res.Results) == 0 {
		c.logger.Debug("no catalog match", "title", title)
		return nil, nil
	}

	return c.MovieDetails(ctx, strconv.Itoa(res.Results[0].ID), language)
}

// MovieDetails fetches a single movie with its top-billed cast, director and trailer.
func (c *CatalogService) MovieDetails(ctx context.Context, id, language string) (*models.Movie, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}

	params := url.Values{}
	params.Set("language", c.lang(language))
	params.Set("append_to_response", "credits,videos")

	m, ok, err := dispatcher.Do(ctx, c.dispatcher, func(ctx context.Context) (*tmdbMovie, error) {
		var out tmdbMovie
		if err := c.get(ctx, "/movie/"+url.PathEscape(id), params, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil || !ok {
		return nil, err
	}

	movie := c.toMovie(m)
	return &movie, nil
}

// Suggestions returns the first few search hits for an as-you-type dropdown.
func (c *CatalogService) Suggestions(ctx context.Context, query, language string) ([]models.Suggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Suggestion{}, nil
	}

	res, ok, err := c.search(ctx, query, language)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.Suggestion{}, nil
	}

	hits := res.Results[:min(len(res.Results), maxSuggestions)]
	suggestions := make([]models.Suggestion, 0, len(hits))
	for _, r := range hits {
		s := models.Suggestion{
			ID:        strconv.Itoa(r.ID),
			Title:     r.Title,
			PosterURL: c.posterURL(r.PosterPath),
		}
		if len(r.ReleaseDate) >= 4 {
			s.Year = r.ReleaseDate[:4]
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, nil
}

// Genres lists the catalog's movie genres.
func (c *CatalogService) Genres(ctx context.Context, language string) ([]models.Genre, error) {
	params := url.Values{}
	params.Set("language", c.lang(language))

	res, ok, err := dispatcher.Do(ctx, c.dispatcher, func(ctx context.Context) (*tmdbGenres, error) {
		var out tmdbGenres
		if err := c.get(ctx, "/genre/movie/list", params, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		return nil, err
	}
	if !ok || res.Genres == nil {
		return []models.Genre{}, nil
	}
	return res.Genres, nil
}

// Languages lists the languages the catalog can localize into.
func (c *CatalogService) Languages(ctx context.Context) ([]models.Language, error) {
	langs, ok, err := dispatcher.Do(ctx, c.dispatcher, func(ctx context.Context) ([]models.Language, error) {
		var out []models.Language
		if err := c.get(ctx, "/configuration/languages", url.Values{}, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	if !ok || langs == nil {
		return []models.Language{}, nil
	}
	return langs, nil
}

func (c *CatalogService) search(ctx context.Context, query, language string) (*tmdbSearchResponse, bool, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("language", c.lang(language))
	params.Set("page", "1")

	return dispatcher.Do(ctx, c.dispatcher, func(ctx context.Context) (*tmdbSearchResponse, error) {
		var out tmdbSearchResponse
		if err := c.get(ctx, "/search/movie", params, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// get performs a GET against the catalog and decodes a 2xx body into out.
//
// Status codes are mapped onto the sentinel errors the dispatcher classifies:
// 429 to [shared.ErrRateLimited] and 401 to [shared.ErrUnauthorized].
func (c *CatalogService) get(ctx context.Context, path string, params url.Values, out any) error {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	if !c.bearer && c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}

	endpoint := c.baseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("catalog request", "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var ne net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
			return fmt.Errorf("%w: %s", shared.ErrTimeout, path)
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, path, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func statusError(status int, path string, body []byte) error {
	var apiErr tmdbError
	msg := http.StatusText(status)
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.StatusMessage != "" {
		msg = apiErr.StatusMessage
	}

	switch status {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s: %s", shared.ErrRateLimited, path, msg)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", shared.ErrUnauthorized, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrMovieNotFound, path)
	default:
		return fmt.Errorf("%w: %s: status %d: %s", shared.ErrAPIRequest, path, status, msg)
	}
}

func (c *CatalogService) toMovie(m *tmdbMovie) models.Movie {
	movie := models.Movie{
		ID:             strconv.Itoa(m.ID),
		Title:          m.Title,
		Overview:       m.Overview,
		Cast:           make([]string, 0, maxCast),
		Genres:         make([]string, 0, len(m.Genres)),
		PosterURL:      c.posterURL(m.PosterPath),
		ReleaseDate:    m.ReleaseDate,
		Rating:         m.VoteAverage,
		Director:       models.UnknownDirector,
		RuntimeMinutes: m.Runtime,
	}
	if movie.Overview == "" {
		movie.Overview = models.NoOverview
	}

	for _, actor := range m.Credits.Cast[:min(len(m.Credits.Cast), maxCast)] {
		movie.Cast = append(movie.Cast, actor.Name)
	}
	for _, g := range m.Genres {
		movie.Genres = append(movie.Genres, g.Name)
	}
	for _, person := range m.Credits.Crew {
		if person.Job == "Director" {
			movie.Director = person.Name
			break
		}
	}
	for _, v := range m.Videos.Results {
		if v.Type == "Trailer" && v.Site == "YouTube" {
			movie.TrailerURL = youtubeWatchURL + v.Key
			break
		}
	}

	return movie
}

func (c *CatalogService) posterURL(path string) string {
	if path == "" {
		return ""
	}
	return c.imageBaseURL + path
}

func (c *CatalogService) lang(language string) string {
	if language == "" {
		return c.language
	}
	return language
}
