package service

import (
	"sort"

	"talehub/internal/microservices/http-api/models"
)

// Engagement weights. Only top-level story comments count.
const (
	likeWeight    = 3
	readDivisor   = 10
	commentWeight = 5
)

// EngagementScore is likes*3 + reads/10 + comments*5.
func EngagementScore(likes, reads, comments int64) float64 {
	return float64(likes)*likeWeight + float64(reads)/readDivisor + float64(comments)*commentWeight
}

// RankedStory pairs a story's engagement row with its score.
type RankedStory struct {
	models.StoryEngagement
	Score float64
}

// RankByEngagement orders rows by score desc, then createdAt desc, and keeps
// at most limit of them. A limit < 1 keeps everything.
func RankByEngagement(rows []models.StoryEngagement, limit int) []RankedStory {
	ranked := make([]RankedStory, 0, len(rows))
	for _, row := range rows {
		ranked = append(ranked, RankedStory{
			StoryEngagement: row,
			Score:           EngagementScore(row.LikesCount, row.Story.Reads, row.CommentsCount),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Story.CreatedAt.After(ranked[j].Story.CreatedAt)
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
