package dto

import "talehub/internal/microservices/http-api/models"

type UserProfileResponse struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	Bio            string `json:"bio"`
	FollowersCount int64  `json:"followersCount"`
	FollowingCount int64  `json:"followingCount"`
	StoriesCount   int64  `json:"storiesCount"`
	IsFollowing    bool   `json:"isFollowing"`
}

type FollowResponse struct {
	Following      bool  `json:"following"`
	FollowersCount int64 `json:"followersCount"`
}

type UserListResponse struct {
	Data []UserSummary `json:"data"`
}

func FromUserModels(users []models.User) []UserSummary {
	out := make([]UserSummary, 0, len(users))
	for i := range users {
		out = append(out, *NewUserSummary(&users[i]))
	}
	return out
}
