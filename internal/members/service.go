package members

import (
	"context"
	"fmt"

	"github.com/teemow/clickup-mcp/internal/logging"
)

// Directory supplies the current flattened member roster.
type Directory interface {
	Members(ctx context.Context) ([]Member, error)
}

// Service resolves and searches members against a Directory. It holds no
// cache; each call works on a fresh roster snapshot.
type Service struct {
	dir    Directory
	logger logging.Logger
	opts   Options
}

// NewService creates a Service. A nil logger discards output.
func NewService(dir Directory, logger logging.Logger, opts Options) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{dir: dir, logger: logger, opts: opts}
}

// Options returns the resolution policy the service was built with.
func (s *Service) Options() Options {
	return s.opts
}

// Roster fetches the current roster.
func (s *Service) Roster(ctx context.Context) (Roster, error) {
	members, err := s.dir.Members(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch member roster: %w", err)
	}
	return Roster(members), nil
}

// Resolve maps identifiers to member IDs. The roster is fetched at most once,
// and not at all when every identifier is numeric.
//
// When the roster cannot be fetched, Resolve still returns the numeric tier
// (all other identifiers end up unresolved) together with the fetch error.
func (s *Service) Resolve(ctx context.Context, identifiers []string) (Resolution, error) {
	var (
		roster   Roster
		fetchErr error
	)
	if NeedsRoster(identifiers, s.opts) {
		roster, fetchErr = s.Roster(ctx)
	}

	res := ResolveWithOptions(roster, identifiers, s.opts, s.logger)
	s.logger.Debug("resolved member identifiers",
		"requested", len(identifiers),
		"resolved", len(res.IDs),
		"unresolved", len(res.Unresolved),
		logging.Err(fetchErr))
	return res, fetchErr
}

// FindMember returns the best match for identifier, or nil when nothing matches.
func (s *Service) FindMember(ctx context.Context, identifier string) (*Member, error) {
	roster, err := s.Roster(ctx)
	if err != nil {
		return nil, err
	}
	return FindMember(roster, identifier), nil
}

// SearchMembers returns every member matching query.
func (s *Service) SearchMembers(ctx context.Context, query string) (Roster, error) {
	roster, err := s.Roster(ctx)
	if err != nil {
		return nil, err
	}
	return SearchMembers(roster, query), nil
}
