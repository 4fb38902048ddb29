package links

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/shortlink-service/internal/analytics"
	"github.com/serroba/shortlink-service/internal/cache"
	"github.com/serroba/shortlink-service/internal/metrics"
	"github.com/serroba/shortlink-service/internal/middleware"
	"github.com/serroba/shortlink-service/internal/shortcode"
	"go.uber.org/zap"
)

const (
	// RedirectTTL bounds how long a redirect target may be served from
	// cache. Cache hits skip click tracking, so this is also the window
	// in which clicks go uncounted.
	RedirectTTL = 60 * time.Second

	// StatsTTL bounds staleness of the stats projection.
	StatsTTL = 60 * time.Second

	// SearchTTL bounds staleness of search results.
	SearchTTL = 5 * time.Minute

	searchPath  = "/links/search"
	searchParam = "original_url"
)

var aliasPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Service is the link lifecycle manager. All exclusion needed for code
// uniqueness is delegated to the store's unique constraint; the service
// holds no locks.
type Service struct {
	store      Store
	cache      cache.Cache
	publishers analytics.Publishers
	codeLength int
	logger     *zap.Logger
	nowFunc    func() time.Time
	newID      func() uuid.UUID
}

// NewService creates a link lifecycle service.
func NewService(
	store Store,
	c cache.Cache,
	publishers analytics.Publishers,
	codeLength int,
	logger *zap.Logger,
) *Service {
	if codeLength <= 0 {
		codeLength = shortcode.DefaultLength
	}

	return &Service{
		store:      store,
		cache:      c,
		publishers: publishers,
		codeLength: codeLength,
		logger:     logger,
		nowFunc:    time.Now,
		newID:      uuid.New,
	}
}

// CreateParams are the inputs to Create. OwnerID is nil for anonymous
// callers.
type CreateParams struct {
	TargetURL   string
	CustomAlias string
	ExpiresAt   *time.Time
	OwnerID     *uuid.UUID
}

// Create validates the request, assigns a code (custom alias or generated)
// and persists the new link. Anonymous links without an explicit expiry
// get one at creation time + 24h.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Link, error) {
	if err := validateTargetURL(params.TargetURL); err != nil {
		return nil, err
	}

	now := s.nowFunc()

	link := &Link{
		TargetURL: params.TargetURL,
		OwnerID:   params.OwnerID,
		CreatedAt: now,
		ExpiresAt: params.ExpiresAt,
	}

	if link.OwnerID == nil && link.ExpiresAt == nil {
		expires := now.Add(AnonymousLifetime)
		link.ExpiresAt = &expires
	}

	var err error
	if params.CustomAlias != "" {
		err = s.createWithAlias(ctx, link, params.CustomAlias)
	} else {
		err = s.createWithGeneratedCode(ctx, link)
	}

	if err != nil {
		return nil, err
	}

	metrics.LinkCreated()

	// Invalidate after the insert commits so a concurrent search cannot
	// re-cache the pre-insert result set afterwards.
	s.cache.Delete(ctx, searchPath, cache.P(searchParam, link.TargetURL))

	meta := middleware.RequestMetaFromContext(ctx)
	event := &analytics.LinkCreatedEvent{
		Code:      link.Code,
		TargetURL: link.TargetURL,
		Owned:     link.OwnerID != nil,
		CreatedAt: link.CreatedAt,
		ExpiresAt: link.ExpiresAt,
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
	}
	if err := s.publishers.LinkCreated(event); err != nil {
		s.logger.Error("failed to publish link created event",
			zap.String("code", link.Code),
			zap.Error(err),
		)
	}

	return link, nil
}

func (s *Service) createWithAlias(ctx context.Context, link *Link, alias string) error {
	if !aliasPattern.MatchString(alias) {
		return ErrInvalidAlias
	}

	if alias == ReservedAlias {
		return ErrAliasReserved
	}

	// Pre-check for a friendlier error; the store's unique constraint is
	// the real authority and a late violation still maps to AliasTaken.
	_, err := s.store.GetByCode(ctx, alias)
	if err == nil {
		return ErrAliasTaken
	}

	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("lookup alias: %w", err)
	}

	link.ID = s.newID()
	link.Code = alias

	if err := s.store.Insert(ctx, link); err != nil {
		if errors.Is(err, ErrCodeTaken) {
			return ErrAliasTaken
		}

		return fmt.Errorf("insert link: %w", err)
	}

	return nil
}

func (s *Service) createWithGeneratedCode(ctx context.Context, link *Link) error {
	// Retry by minting a fresh identifier; the encoding itself is
	// deterministic. No retry cap: at 128 bits of entropy over a base62
	// code the loop terminates on the first pass in practice, and the
	// store's unique constraint keeps every pass safe.
	for {
		id := s.newID()
		code := shortcode.Encode(id, s.codeLength)

		_, err := s.store.GetByCode(ctx, code)
		if err == nil {
			continue
		}

		if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("lookup code: %w", err)
		}

		link.ID = id
		link.Code = code

		err = s.store.Insert(ctx, link)
		if errors.Is(err, ErrCodeTaken) {
			// Lost the race to a concurrent insert of the same code
			continue
		}

		if err != nil {
			return fmt.Errorf("insert link: %w", err)
		}

		return nil
	}
}

// Redirect resolves a code to its target URL. Cache hits return
// immediately and intentionally skip the click-count write; statistics
// under high-traffic caching are undercounted for at most RedirectTTL.
func (s *Service) Redirect(ctx context.Context, code string) (string, error) {
	path := redirectPath(code)

	var target string
	if s.cache.Get(ctx, path, nil, &target) {
		metrics.CacheHit("redirect")
		metrics.Redirect()

		return target, nil
	}

	metrics.CacheMiss("redirect")

	link, err := s.store.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}

		return "", fmt.Errorf("lookup code: %w", err)
	}

	s.cache.Set(ctx, path, nil, link.TargetURL, RedirectTTL)

	now := s.nowFunc()
	if err := s.store.RecordClick(ctx, code, now); err != nil {
		return "", fmt.Errorf("record click: %w", err)
	}

	s.cache.Delete(ctx, statsPath(code), nil)

	meta := middleware.RequestMetaFromContext(ctx)
	event := &analytics.LinkAccessedEvent{
		Code:       code,
		AccessedAt: now,
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
	}
	if err := s.publishers.LinkAccessed(event); err != nil {
		s.logger.Error("failed to publish link accessed event",
			zap.String("code", code),
			zap.Error(err),
		)
	}

	metrics.Redirect()

	return link.TargetURL, nil
}

// Update replaces the target URL of an owned link. Only the owner may
// update; anonymous links reject every update.
func (s *Service) Update(ctx context.Context, code, target string, identity uuid.UUID) (*Link, error) {
	if err := validateTargetURL(target); err != nil {
		return nil, err
	}

	link, err := s.store.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("lookup code: %w", err)
	}

	if link.OwnerID == nil || *link.OwnerID != identity {
		return nil, ErrForbidden
	}

	previousTarget := link.TargetURL

	if err := s.store.UpdateTarget(ctx, code, target); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("update target: %w", err)
	}

	link.TargetURL = target

	// Invalidations strictly after the durable mutation commits
	s.cache.Delete(ctx, searchPath, cache.P(searchParam, previousTarget))
	s.cache.Delete(ctx, searchPath, cache.P(searchParam, target))
	s.cache.Delete(ctx, redirectPath(code), nil)
	s.cache.Delete(ctx, statsPath(code), nil)

	return link, nil
}

// Delete removes an owned link. Same ownership rule as Update.
func (s *Service) Delete(ctx context.Context, code string, identity uuid.UUID) error {
	link, err := s.store.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}

		return fmt.Errorf("lookup code: %w", err)
	}

	if link.OwnerID == nil || *link.OwnerID != identity {
		return ErrForbidden
	}

	if err := s.store.Delete(ctx, code); err != nil {
		return fmt.Errorf("delete link: %w", err)
	}

	s.cache.Delete(ctx, searchPath, cache.P(searchParam, link.TargetURL))
	s.cache.Delete(ctx, redirectPath(code), nil)
	s.cache.Delete(ctx, statsPath(code), nil)

	event := &analytics.LinkDeletedEvent{
		Code:      code,
		Reason:    "owner",
		Count:     1,
		DeletedAt: s.nowFunc(),
	}
	if err := s.publishers.LinkDeleted(event); err != nil {
		s.logger.Error("failed to publish link deleted event",
			zap.String("code", code),
			zap.Error(err),
		)
	}

	return nil
}

// Search returns the public projection of every link whose target URL
// equals target exactly. Matching is case-sensitive with no
// normalization.
func (s *Service) Search(ctx context.Context, target string) ([]PublicLink, error) {
	params := cache.P(searchParam, target)

	var results []PublicLink
	if s.cache.Get(ctx, searchPath, params, &results) {
		metrics.CacheHit("search")

		return results, nil
	}

	metrics.CacheMiss("search")

	found, err := s.store.FindByTarget(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("search by target: %w", err)
	}

	if len(found) == 0 {
		return nil, ErrNotFound
	}

	results = make([]PublicLink, 0, len(found))
	for _, link := range found {
		results = append(results, link.Public())
	}

	s.cache.Set(ctx, searchPath, params, results, SearchTTL)

	return results, nil
}

// Stats returns the full stats projection for a code.
func (s *Service) Stats(ctx context.Context, code string) (*LinkStats, error) {
	path := statsPath(code)

	var cached LinkStats
	if s.cache.Get(ctx, path, nil, &cached) {
		metrics.CacheHit("stats")

		return &cached, nil
	}

	metrics.CacheMiss("stats")

	link, err := s.store.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("lookup code: %w", err)
	}

	stats := link.Stats()
	s.cache.Set(ctx, path, nil, stats, StatsTTL)

	return &stats, nil
}

func redirectPath(code string) string {
	return "/links/" + code
}

func statsPath(code string) string {
	return "/links/" + code + "/stats"
}

func validateTargetURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ErrInvalidURL
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ErrInvalidURL
	}

	if parsed.Host == "" {
		return ErrInvalidURL
	}

	return nil
}
