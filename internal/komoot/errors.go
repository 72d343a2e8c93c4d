package komoot

import "fmt"

// FetchError reports a failed request against the komoot API. Exactly one of
// Page (tour listing) or TourID (detail/coordinates request) identifies the
// failing call. StatusCode is zero for transport-level failures.
type FetchError struct {
	Op         string
	Page       int
	TourID     int64
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch failed: %d", e.StatusCode)
	}
	return fmt.Sprintf("fetch failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
