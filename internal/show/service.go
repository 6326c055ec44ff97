package show

import (
	"context"
	"errors"
)

// PageSize is the number of shows per read API page.
const PageSize = 20

// ErrNoShows is returned by List before the first catalog page was stored.
var ErrNoShows = errors.New("no shows stored yet")

// Service provides read access to the stored catalog.
type Service struct {
	repo Repository
}

// NewService creates a new show service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns page (1-based) of the stored shows and the total count. A
// page below 1 selects every show.
func (s *Service) List(ctx context.Context, page int) ([]Show, int, error) {
	shows, err := s.repo.LoadShows(ctx)
	if err != nil {
		return nil, 0, err
	}
	if shows == nil {
		return nil, 0, ErrNoShows
	}

	total := len(shows)
	if page < 1 {
		return shows, total, nil
	}

	start := (page - 1) * PageSize
	if start >= total {
		return []Show{}, total, nil
	}
	end := min(start+PageSize, total)
	return shows[start:end], total, nil
}

// Get returns a single show by id.
func (s *Service) Get(ctx context.Context, id int) (Show, error) {
	shows, err := s.repo.LoadShows(ctx)
	if err != nil {
		return Show{}, err
	}
	for _, sh := range shows {
		if sh.ID == id {
			return sh, nil
		}
	}
	return Show{}, ErrNotFound
}
