package komoot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the komoot web API endpoint.
	DefaultBaseURL = "https://www.komoot.de"

	defaultTimeout = 30 * time.Second

	// acceptHeader mimics a browser request; the komoot API rejects some
	// requests without it.
	acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// Client talks to the komoot API on behalf of one session. Requests are
// single-attempt; transient failures surface as *FetchError and the caller
// decides whether to skip or abort.
type Client struct {
	http    *http.Client
	baseURL string
	session Session
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithTimeout bounds every single HTTP request so one hung call cannot stall
// the whole run.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient creates a komoot API client for the given session.
func NewClient(session Session, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		baseURL: DefaultBaseURL,
		session: session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListOptions control the tour listing.
type ListOptions struct {
	// PageSize is the number of tours requested per page.
	PageSize int
	// AllPages walks the entire tour history instead of only the first page.
	AllPages bool
}

// ListTours returns a lazy scanner over the user's recorded tours. Pages are
// requested on demand while the caller iterates; the sequence is
// one-directional and restartable only by calling ListTours again.
func (c *Client) ListTours(ctx context.Context, opts ListOptions) *TourScanner {
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	return &TourScanner{ctx: ctx, client: c, opts: opts, page: -1}
}

// FetchDetail retrieves the full payload for one tour: metadata from the tour
// endpoint merged with the recorded track from the coordinates endpoint.
func (c *Client) FetchDetail(ctx context.Context, tourID int64) (*TourDetail, error) {
	var summary TourSummary
	url := fmt.Sprintf("%s/api/v007/tours/%d", c.baseURL, tourID)
	if err := c.getJSON(ctx, url, &summary); err != nil {
		return nil, wrapFetch(err, "tour detail", 0, tourID)
	}

	var coords coordinatesResponse
	url = fmt.Sprintf("%s/api/v007/tours/%d/coordinates", c.baseURL, tourID)
	if err := c.getJSON(ctx, url, &coords); err != nil {
		return nil, wrapFetch(err, "tour coordinates", 0, tourID)
	}

	return &TourDetail{TourSummary: summary, TrackPoints: coords.Items}, nil
}

func (c *Client) fetchPage(ctx context.Context, page, limit int) (*tourPage, error) {
	url := fmt.Sprintf("%s/api/v007/users/%s/tours/?page=%d&limit=%d", c.baseURL, c.session.UserID, page, limit)
	var tp tourPage
	if err := c.getJSON(ctx, url, &tp); err != nil {
		return nil, wrapFetch(err, "list tours", page, 0)
	}
	return &tp, nil
}

// getJSON performs an authenticated GET and decodes the JSON body into v.
func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Cookie", c.session.Cookie)

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &FetchError{StatusCode: res.StatusCode}
	}
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// wrapFetch fills in the request identity on a *FetchError, or wraps a
// transport/decoding error into one.
func wrapFetch(err error, op string, page int, tourID int64) error {
	var fe *FetchError
	if errors.As(err, &fe) {
		fe.Op = op
		fe.Page = page
		fe.TourID = tourID
		return fe
	}
	return &FetchError{Op: op, Page: page, TourID: tourID, Err: err}
}

// TourScanner iterates over the paginated tour listing in the style of
// bufio.Scanner: call Scan until it returns false, then check Err.
type TourScanner struct {
	ctx    context.Context
	client *Client
	opts   ListOptions

	page       int
	totalPages int
	buf        []TourSummary
	cur        TourSummary
	err        error
	done       bool
}

// Scan advances to the next recorded tour, fetching further pages as needed.
// It returns false when the listing is exhausted or a fetch failed.
func (s *TourScanner) Scan() bool {
	for {
		if s.err != nil {
			return false
		}
		for len(s.buf) > 0 {
			t := s.buf[0]
			s.buf = s.buf[1:]
			// Planned routes carry no recorded track, skip them.
			if t.Type != TypeRecorded {
				continue
			}
			s.cur = t
			return true
		}
		if s.done {
			return false
		}
		if !s.fetchNextPage() {
			return false
		}
	}
}

func (s *TourScanner) fetchNextPage() bool {
	next := s.page + 1
	if s.page >= 0 {
		// Past the first page: stop unless a full walk was requested and
		// more pages remain.
		if !s.opts.AllPages || next >= s.totalPages {
			s.done = true
			return false
		}
	}

	tp, err := s.client.fetchPage(s.ctx, next, s.opts.PageSize)
	if err != nil {
		s.err = err
		return false
	}
	s.page = next
	s.totalPages = tp.Page.TotalPages
	s.buf = tp.Embedded.Tours
	if len(s.buf) == 0 {
		s.done = true
		return false
	}
	return true
}

// Tour returns the summary most recently produced by Scan.
func (s *TourScanner) Tour() TourSummary {
	return s.cur
}

// Err returns the first error encountered during iteration, if any.
func (s *TourScanner) Err() error {
	return s.err
}
