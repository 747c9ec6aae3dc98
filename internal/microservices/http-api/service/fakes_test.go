package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"talehub/internal/microservices/http-api/models"
	"talehub/internal/microservices/http-api/repository"

	"github.com/google/uuid"
)

// --- stories ---

type fakeStoryRepo struct {
	mu       sync.Mutex
	stories  map[string]*models.Story
	likes    map[string]map[string]bool
	comments map[string]int64
	seq      int

	listCalls       int
	searchCalls     int
	engagementCalls int
	err             error
}

func newFakeStoryRepo() *fakeStoryRepo {
	return &fakeStoryRepo{
		stories:  map[string]*models.Story{},
		likes:    map[string]map[string]bool{},
		comments: map[string]int64{},
	}
}

// add stores a published story. createdAt orders stories in tests.
func (r *fakeStoryRepo) add(s models.Story) *models.Story {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == "" {
		r.seq++
		s.ID = fmt.Sprintf("story-%d", r.seq)
	}
	if s.Status == "" {
		s.Status = models.StatusOngoing
	}
	stored := s
	r.stories[s.ID] = &stored
	return &stored
}

func (r *fakeStoryRepo) withLikes(s models.Story) models.Story {
	s.Likes = nil
	ids := make([]string, 0, len(r.likes[s.ID]))
	for uid := range r.likes[s.ID] {
		ids = append(ids, uid)
	}
	sort.Strings(ids)
	for _, uid := range ids {
		s.Likes = append(s.Likes, models.StoryLike{StoryID: s.ID, UserID: uid})
	}
	return s
}

func (r *fakeStoryRepo) Create(_ context.Context, story *models.Story, chapters []models.Chapter) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	r.seq++
	story.ID = fmt.Sprintf("story-%d", r.seq)
	story.CreatedAt = time.Now()
	story.UpdatedAt = story.CreatedAt
	for i := range chapters {
		chapters[i].StoryID = story.ID
		chapters[i].AuthorID = story.AuthorID
		chapters[i].ChapterNumber = i + 1
	}
	story.Chapters = chapters
	stored := *story
	r.stories[story.ID] = &stored
	r.mu.Unlock()
	return nil
}

func (r *fakeStoryRepo) GetByID(_ context.Context, id string) (*models.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := r.withLikes(*s)
	return &out, nil
}

func (r *fakeStoryRepo) Update(_ context.Context, story *models.Story) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stories[story.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *story
	r.stories[story.ID] = &stored
	return nil
}

func (r *fakeStoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.stories, id)
	delete(r.likes, id)
	return nil
}

func (r *fakeStoryRepo) published(category string) []models.Story {
	var out []models.Story
	for _, s := range r.stories {
		if !s.IsPublished {
			continue
		}
		if category != "" && s.Category != category {
			continue
		}
		out = append(out, r.withLikes(*s))
	}
	return out
}

func pageOf(stories []models.Story, offset, limit int) []models.Story {
	if offset >= len(stories) {
		return []models.Story{}
	}
	end := offset + limit
	if end > len(stories) {
		end = len(stories)
	}
	return stories[offset:end]
}

func (r *fakeStoryRepo) List(_ context.Context, f repository.StoryFilter) ([]models.Story, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	if r.err != nil {
		return nil, 0, r.err
	}
	stories := r.published(f.Category)
	sort.SliceStable(stories, func(i, j int) bool {
		a, b := stories[i], stories[j]
		switch f.Sort {
		case repository.SortPopular:
			if len(a.Likes) != len(b.Likes) {
				return len(a.Likes) > len(b.Likes)
			}
			if a.Reads != b.Reads {
				return a.Reads > b.Reads
			}
		case repository.SortTrending:
			if a.Reads != b.Reads {
				return a.Reads > b.Reads
			}
			if len(a.Likes) != len(b.Likes) {
				return len(a.Likes) > len(b.Likes)
			}
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return pageOf(stories, f.Offset, f.Limit), int64(len(stories)), nil
}

func (r *fakeStoryRepo) Search(_ context.Context, q string, offset, limit int) ([]models.Story, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searchCalls++
	q = strings.ToLower(q)
	var hits []models.Story
	for _, s := range r.published("") {
		haystack := strings.ToLower(s.Title + " " + s.Description + " " + s.Category + " " + strings.Join(s.Tags, " "))
		if strings.Contains(haystack, q) {
			hits = append(hits, s)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Reads != hits[j].Reads {
			return hits[i].Reads > hits[j].Reads
		}
		return hits[i].CreatedAt.After(hits[j].CreatedAt)
	})
	return pageOf(hits, offset, limit), int64(len(hits)), nil
}

func (r *fakeStoryRepo) ListByAuthor(_ context.Context, authorID string, includeUnpublished bool) ([]models.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Story
	for _, s := range r.stories {
		if s.AuthorID == authorID && (includeUnpublished || s.IsPublished) {
			out = append(out, r.withLikes(*s))
		}
	}
	return out, nil
}

func (r *fakeStoryRepo) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	stories, err := r.ListByAuthor(ctx, authorID, false)
	return int64(len(stories)), err
}

func (r *fakeStoryRepo) ListEngagement(_ context.Context) ([]models.StoryEngagement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engagementCalls++
	var out []models.StoryEngagement
	for _, s := range r.published("") {
		out = append(out, models.StoryEngagement{
			Story:         s,
			LikesCount:    int64(len(s.Likes)),
			CommentsCount: r.comments[s.ID],
		})
	}
	return out, nil
}

func (r *fakeStoryRepo) IncrementReads(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stories[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	s.Reads++
	return s.Reads, nil
}

func (r *fakeStoryRepo) Touch(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stories[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.UpdatedAt = time.Now()
	return nil
}

func (r *fakeStoryRepo) ToggleLike(_ context.Context, storyID, userID string) (bool, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := r.likes[storyID]
	if set == nil {
		set = map[string]bool{}
		r.likes[storyID] = set
	}
	if set[userID] {
		delete(set, userID)
		return false, int64(len(set)), nil
	}
	set[userID] = true
	return true, int64(len(set)), nil
}

// --- chapters ---

type fakeChapterRepo struct {
	mu          sync.Mutex
	chapters    map[string]*models.Chapter
	likes       map[string]map[string]bool
	numberCalls int
}

func newFakeChapterRepo() *fakeChapterRepo {
	return &fakeChapterRepo{chapters: map[string]*models.Chapter{}, likes: map[string]map[string]bool{}}
}

func (r *fakeChapterRepo) Create(_ context.Context, c *models.Chapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	stored := *c
	r.chapters[c.ID] = &stored
	return nil
}

func (r *fakeChapterRepo) GetByID(_ context.Context, id string) (*models.Chapter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chapters[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (r *fakeChapterRepo) ListByStory(_ context.Context, storyID string) ([]models.Chapter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Chapter
	for _, c := range r.chapters {
		if c.StoryID == storyID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChapterNumber < out[j].ChapterNumber })
	return out, nil
}

func (r *fakeChapterRepo) CountByStory(ctx context.Context, storyID string) (int64, error) {
	list, _ := r.ListByStory(ctx, storyID)
	return int64(len(list)), nil
}

func (r *fakeChapterRepo) Update(_ context.Context, c *models.Chapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *c
	r.chapters[c.ID] = &stored
	return nil
}

func (r *fakeChapterRepo) UpdateNumber(_ context.Context, id string, number int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.numberCalls++
	r.chapters[id].ChapterNumber = number
	return nil
}

func (r *fakeChapterRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chapters[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.chapters, id)
	return nil
}

func (r *fakeChapterRepo) ToggleLike(_ context.Context, chapterID, userID string) (bool, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := r.likes[chapterID]
	if set == nil {
		set = map[string]bool{}
		r.likes[chapterID] = set
	}
	if set[userID] {
		delete(set, userID)
		return false, int64(len(set)), nil
	}
	set[userID] = true
	return true, int64(len(set)), nil
}

func (r *fakeChapterRepo) AddComment(_ context.Context, comment *models.ChapterComment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chapters[comment.ChapterID]
	if !ok {
		return repository.ErrNotFound
	}
	comment.ID = fmt.Sprintf("cc-%d", len(c.Comments)+1)
	c.Comments = append(c.Comments, *comment)
	return nil
}

// --- users ---

type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[string]*models.User
	follows map[[2]string]bool
}

func newFakeUserRepo(ids ...string) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*models.User{}, follows: map[[2]string]bool{}}
	for _, id := range ids {
		r.users[id] = &models.User{ID: id, Username: "user-" + id}
	}
	return r
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (r *fakeUserRepo) ToggleFollow(_ context.Context, followerID, followingID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]string{followerID, followingID}
	if r.follows[key] {
		delete(r.follows, key)
		return false, nil
	}
	r.follows[key] = true
	return true, nil
}

func (r *fakeUserRepo) IsFollowing(_ context.Context, followerID, followingID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.follows[[2]string{followerID, followingID}], nil
}

func (r *fakeUserRepo) collect(match func(edge [2]string) (string, bool)) []models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for edge := range r.follows {
		if id, ok := match(edge); ok {
			out = append(out, *r.users[id])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeUserRepo) ListFollowers(_ context.Context, userID string) ([]models.User, error) {
	return r.collect(func(e [2]string) (string, bool) { return e[0], e[1] == userID }), nil
}

func (r *fakeUserRepo) ListFollowing(_ context.Context, userID string) ([]models.User, error) {
	return r.collect(func(e [2]string) (string, bool) { return e[1], e[0] == userID }), nil
}

func (r *fakeUserRepo) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	users, _ := r.ListFollowers(ctx, userID)
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (r *fakeUserRepo) CountFollowers(ctx context.Context, userID string) (int64, error) {
	users, _ := r.ListFollowers(ctx, userID)
	return int64(len(users)), nil
}

func (r *fakeUserRepo) CountFollowing(ctx context.Context, userID string) (int64, error) {
	users, _ := r.ListFollowing(ctx, userID)
	return int64(len(users)), nil
}

// --- notifications ---

type fakeNotificationRepo struct {
	mu        sync.Mutex
	items     []*models.Notification
	createErr error
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	n.ID = fmt.Sprintf("notification-%d", len(r.items)+1)
	n.CreatedAt = time.Now()
	stored := *n
	r.items = append(r.items, &stored)
	return nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id string) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.items {
		if n.ID == id {
			out := *n
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeNotificationRepo) byRecipient(id string) []models.Notification {
	var out []models.Notification
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].RecipientID == id {
			out = append(out, *r.items[i])
		}
	}
	return out
}

func (r *fakeNotificationRepo) ListByRecipient(_ context.Context, recipientID string, offset, limit int) ([]models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.byRecipient(recipientID)
	if offset >= len(all) {
		return []models.Notification{}, int64(len(all)), nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], int64(len(all)), nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, recipientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, item := range r.items {
		if item.RecipientID == recipientID && !item.Read {
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.items {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, recipientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var updated int64
	for _, n := range r.items {
		if n.RecipientID == recipientID && !n.Read {
			n.Read = true
			updated++
		}
	}
	return updated, nil
}

func (r *fakeNotificationRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.items {
		if n.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeNotificationRepo) ofType(t models.NotificationType) []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.items {
		if n.Type == t {
			out = append(out, *n)
		}
	}
	return out
}

// --- publisher ---

type publishedEvent struct {
	Room    string
	Event   string
	Payload any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) Publish(room, event string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Room: room, Event: event, Payload: payload})
}

func (p *fakePublisher) inRoom(room string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.Room == room {
			out = append(out, e)
		}
	}
	return out
}

// --- counting cache ---

type countingCache struct {
	mu            sync.Mutex
	entries       map[string][]byte
	invalidations int
}

func newCountingCache() *countingCache {
	return &countingCache{entries: map[string][]byte{}}
}

func (c *countingCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *countingCache) Set(_ context.Context, key string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = payload
}

func (c *countingCache) InvalidateAll(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string][]byte{}
	c.invalidations++
}
