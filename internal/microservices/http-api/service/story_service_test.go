package service

import (
	"context"
	"errors"
	"testing"

	"talehub/internal/microservices/http-api/dto"
	"talehub/internal/microservices/http-api/models"

	"github.com/stretchr/testify/suite"
)

// StoryServiceTestSuite wires the story service to in-memory fakes and a
// real notification service so fan-out is observed end to end.
type StoryServiceTestSuite struct {
	suite.Suite
	ctx           context.Context
	stories       *fakeStoryRepo
	notifications *fakeNotificationRepo
	publisher     *fakePublisher
	cache         *countingCache
	svc           StoryService
	story         *models.Story
}

func (s *StoryServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.stories = newFakeStoryRepo()
	s.notifications = &fakeNotificationRepo{}
	s.publisher = &fakePublisher{}
	s.cache = newCountingCache()
	notifier := NewNotificationService(s.notifications, s.publisher, nil)
	s.svc = NewStoryService(s.stories, s.cache, notifier, s.publisher, nil)
	s.story = s.stories.add(models.Story{Title: "The Keep", AuthorID: "author", Category: "Fantasy", IsPublished: true, CreatedAt: baseTime})
}

func (s *StoryServiceTestSuite) TestLikeTwiceRestoresOriginalState() {
	before, err := s.svc.Get(s.ctx, s.story.ID)
	s.Require().NoError(err)

	first, err := s.svc.ToggleLike(s.ctx, "reader", s.story.ID)
	s.Require().NoError(err)
	s.True(first.Liked)
	s.Equal(int64(before.LikesCount+1), first.LikesCount)

	second, err := s.svc.ToggleLike(s.ctx, "reader", s.story.ID)
	s.Require().NoError(err)
	s.False(second.Liked)
	s.Equal(int64(before.LikesCount), second.LikesCount)

	after, err := s.svc.Get(s.ctx, s.story.ID)
	s.Require().NoError(err)
	s.Equal(before.Likes, after.Likes)
	s.Equal(2, s.cache.invalidations, "every like and unlike invalidates")
}

func (s *StoryServiceTestSuite) TestLikeByOtherUserNotifiesAuthorOnce() {
	_, err := s.svc.ToggleLike(s.ctx, "reader", s.story.ID)
	s.Require().NoError(err)

	created := s.notifications.ofType(models.NotificationLikeStory)
	s.Require().Len(created, 1)
	s.Equal("author", created[0].RecipientID)
	s.Equal("reader", created[0].SenderID)
	s.Equal(s.story.ID, *created[0].StoryID)

	events := s.publisher.inRoom(UserRoom("author"))
	s.Require().Len(events, 1)
	s.Equal(EventNewNotification, events[0].Event)

	// unliking is not a new like
	_, err = s.svc.ToggleLike(s.ctx, "reader", s.story.ID)
	s.Require().NoError(err)
	s.Len(s.notifications.ofType(models.NotificationLikeStory), 1)
	s.Len(s.publisher.inRoom(UserRoom("author")), 1)
}

func (s *StoryServiceTestSuite) TestLikeOwnStoryCreatesNoNotification() {
	resp, err := s.svc.ToggleLike(s.ctx, "author", s.story.ID)
	s.Require().NoError(err)
	s.True(resp.Liked)

	s.Empty(s.notifications.ofType(models.NotificationLikeStory))
	s.Empty(s.publisher.events)
}

func (s *StoryServiceTestSuite) TestNotificationFailureDoesNotFailLike() {
	s.notifications.createErr = errors.New("insert failed")

	resp, err := s.svc.ToggleLike(s.ctx, "reader", s.story.ID)
	s.Require().NoError(err)
	s.True(resp.Liked)
	s.Empty(s.publisher.events, "nothing is published without a persisted notification")
}

func (s *StoryServiceTestSuite) TestLikeMissingStory() {
	_, err := s.svc.ToggleLike(s.ctx, "reader", "nope")
	s.ErrorIs(err, ErrNotFound)
}

func (s *StoryServiceTestSuite) TestReadsNeverDecrease() {
	last := s.story.Reads
	for i := 0; i < 25; i++ {
		resp, err := s.svc.IncrementReads(s.ctx, s.story.ID)
		s.Require().NoError(err)
		s.GreaterOrEqual(resp.Reads, last)
		last = resp.Reads
	}
	s.Equal(int64(25), last)

	_, err := s.svc.IncrementReads(s.ctx, "missing")
	s.ErrorIs(err, ErrNotFound)
}

func (s *StoryServiceTestSuite) TestCreatePublishesToFeed() {
	resp, err := s.svc.Create(s.ctx, "writer", dto.CreateStoryRequest{
		Title:       "New Dawn",
		Description: "it begins",
		Category:    "Sci-Fi",
		Tags:        []string{"space", " space ", "robots"},
		Chapters:    []dto.ChapterInput{{Title: "One", Content: "..."}, {Title: "Two", Content: "..."}},
	})
	s.Require().NoError(err)

	s.Equal("writer", resp.AuthorID)
	s.True(resp.IsPublished)
	s.Equal(string(models.StatusOngoing), resp.Status)
	s.Equal([]string{"space", "robots"}, resp.Tags)
	s.Require().Len(resp.Chapters, 2)
	s.Equal(2, resp.Chapters[1].ChapterNumber)

	events := s.publisher.inRoom(FeedRoom)
	s.Require().Len(events, 1)
	s.Equal(EventNewStory, events[0].Event)
	s.Equal(1, s.cache.invalidations)
}

func (s *StoryServiceTestSuite) TestCreateDraftIsNotBroadcast() {
	draft := false
	_, err := s.svc.Create(s.ctx, "writer", dto.CreateStoryRequest{
		Title: "Draft", Description: "wip", Category: "Drama", IsPublished: &draft,
		Chapters: []dto.ChapterInput{{Title: "One", Content: "..."}},
	})
	s.Require().NoError(err)
	s.Empty(s.publisher.inRoom(FeedRoom))
}

func (s *StoryServiceTestSuite) TestCreateValidation() {
	cases := map[string]dto.CreateStoryRequest{
		"missing title":    {Description: "d", Category: "c", Chapters: []dto.ChapterInput{{Title: "t", Content: "c"}}},
		"missing chapters": {Title: "t", Description: "d", Category: "c"},
		"empty chapter":    {Title: "t", Description: "d", Category: "c", Chapters: []dto.ChapterInput{{Title: "t"}}},
		"bad status":       {Title: "t", Description: "d", Category: "c", Status: "Abandoned", Chapters: []dto.ChapterInput{{Title: "t", Content: "c"}}},
	}
	for name, req := range cases {
		s.Run(name, func() {
			_, err := s.svc.Create(s.ctx, "writer", req)
			s.ErrorIs(err, ErrValidation)
		})
	}
	s.Empty(s.publisher.events)
}

func (s *StoryServiceTestSuite) TestUpdateAndDeleteRequireAuthor() {
	title := "Hijacked"
	_, err := s.svc.Update(s.ctx, "intruder", s.story.ID, dto.UpdateStoryRequest{Title: &title})
	s.ErrorIs(err, ErrForbidden)

	err = s.svc.Delete(s.ctx, "intruder", s.story.ID)
	s.ErrorIs(err, ErrForbidden)

	title = "The Keep, Revised"
	updated, err := s.svc.Update(s.ctx, "author", s.story.ID, dto.UpdateStoryRequest{Title: &title})
	s.Require().NoError(err)
	s.Equal(title, updated.Title)

	s.Require().NoError(s.svc.Delete(s.ctx, "author", s.story.ID))
	_, err = s.svc.Get(s.ctx, s.story.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *StoryServiceTestSuite) TestListByAuthorHidesDraftsFromOthers() {
	s.stories.add(models.Story{Title: "Hidden", AuthorID: "author", IsPublished: false})

	own, err := s.svc.ListByAuthor(s.ctx, "author", "author")
	s.Require().NoError(err)
	s.Len(own, 2)

	public, err := s.svc.ListByAuthor(s.ctx, "author", "someone")
	s.Require().NoError(err)
	s.Len(public, 1)
}

func TestStoryServiceSuite(t *testing.T) {
	suite.Run(t, new(StoryServiceTestSuite))
}
