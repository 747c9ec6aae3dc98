package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"talehub/internal/cache"
	"talehub/internal/microservices/http-api/dto"
	"talehub/internal/microservices/http-api/repository"
)

const (
	DefaultPage           = 1
	DefaultLimit          = 5
	MaxLimit              = 50
	DefaultMustWatchLimit = 10
	MinSearchLength       = 2
	AllCategories         = "All"
)

// ListStoriesQuery is the raw listing request. Out of range values fall back
// to defaults instead of failing.
type ListStoriesQuery struct {
	Page     int
	Limit    int
	Category string
	Sort     string
}

func (q ListStoriesQuery) normalize() ListStoriesQuery {
	q.Page, q.Limit = normalizePaging(q.Page, q.Limit, DefaultLimit)
	q.Category = strings.TrimSpace(q.Category)
	if q.Category == "" {
		q.Category = AllCategories
	}
	switch repository.StorySort(q.Sort) {
	case repository.SortRecent, repository.SortPopular, repository.SortTrending:
	default:
		q.Sort = string(repository.SortRecent)
	}
	return q
}

type SearchQuery struct {
	Q     string
	Page  int
	Limit int
}

func normalizePaging(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// FeedService serves the read side of the story feed through the query cache.
type FeedService interface {
	ListStories(ctx context.Context, q ListStoriesQuery) (*dto.StoryListResponse, error)
	SearchStories(ctx context.Context, q SearchQuery) (*dto.StoryListResponse, error)
	MustWatch(ctx context.Context, limit int) (*dto.MustWatchResponse, error)
}

type feedService struct {
	stories repository.StoryRepository
	cache   cache.QueryCache
	logger  *slog.Logger
}

func NewFeedService(stories repository.StoryRepository, queryCache cache.QueryCache, logger *slog.Logger) FeedService {
	if queryCache == nil {
		queryCache = cache.Noop{}
	}
	return &feedService{
		stories: stories,
		cache:   queryCache,
		logger:  loggerOrDefault(logger),
	}
}

func (s *feedService) ListStories(ctx context.Context, q ListStoriesQuery) (*dto.StoryListResponse, error) {
	q = q.normalize()
	key := cache.StoriesKey(q.Page, q.Limit, q.Category, q.Sort)

	var resp dto.StoryListResponse
	if s.fromCache(ctx, key, &resp) {
		return &resp, nil
	}

	filter := repository.StoryFilter{
		Sort:   repository.StorySort(q.Sort),
		Offset: (q.Page - 1) * q.Limit,
		Limit:  q.Limit,
	}
	if q.Category != AllCategories {
		filter.Category = q.Category
	}

	stories, total, err := s.stories.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}

	resp = dto.StoryListResponse{
		Data:       dto.FromStoryModels(stories),
		Pagination: dto.NewStoryPagination(q.Page, q.Limit, total),
	}
	s.toCache(ctx, key, resp)
	return &resp, nil
}

func (s *feedService) SearchStories(ctx context.Context, q SearchQuery) (*dto.StoryListResponse, error) {
	term := strings.TrimSpace(q.Q)
	if utf8.RuneCountInString(term) < MinSearchLength {
		return nil, newValidationError("search query must be at least %d characters", MinSearchLength)
	}
	page, limit := normalizePaging(q.Page, q.Limit, DefaultLimit)
	key := cache.SearchKey(term, page, limit)

	var resp dto.StoryListResponse
	if s.fromCache(ctx, key, &resp) {
		resp.SearchQuery = term
		return &resp, nil
	}

	stories, total, err := s.stories.Search(ctx, term, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search stories: %w", err)
	}

	resp = dto.StoryListResponse{
		Data:        dto.FromStoryModels(stories),
		Pagination:  dto.NewStoryPagination(page, limit, total),
		SearchQuery: term,
	}
	s.toCache(ctx, key, resp)
	return &resp, nil
}

func (s *feedService) MustWatch(ctx context.Context, limit int) (*dto.MustWatchResponse, error) {
	if limit < 1 {
		limit = DefaultMustWatchLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	key := cache.MustWatchKey(limit)

	var resp dto.MustWatchResponse
	if s.fromCache(ctx, key, &resp) {
		return &resp, nil
	}

	rows, err := s.stories.ListEngagement(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load engagement: %w", err)
	}

	ranked := RankByEngagement(rows, limit)
	resp.Data = make([]dto.MustWatchStory, 0, len(ranked))
	for i := range ranked {
		resp.Data = append(resp.Data, dto.MustWatchStory{
			StoryResponse:   dto.FromStoryModel(&ranked[i].Story),
			CommentsCount:   ranked[i].CommentsCount,
			EngagementScore: ranked[i].Score,
		})
	}
	s.toCache(ctx, key, resp)
	return &resp, nil
}

// fromCache decodes a cached payload into out. Undecodable payloads count as
// a miss.
func (s *feedService) fromCache(ctx context.Context, key string, out any) bool {
	payload, ok := s.cache.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(payload, out); err != nil {
		s.logger.Warn("discarding undecodable cache entry", "key", key, "error", err)
		return false
	}
	return true
}

func (s *feedService) toCache(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("failed to encode cache entry", "key", key, "error", err)
		return
	}
	s.cache.Set(ctx, key, payload)
}
