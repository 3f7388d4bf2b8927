// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

package brightwheel

// FeedItem wraps one activity as it appears on the social feed, together
// with its engagement counters.
type FeedItem struct {
	ID            string   `json:"id"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
	Activity      Activity `json:"activity"`
	LikesCount    int      `json:"likes_count"`
	CommentsCount int      `json:"comments_count"`
	IsLiked       bool     `json:"is_liked"`
}

// Feed is one page of a student's activity feed.
type Feed struct {
	Items      []FeedItem `json:"items"`
	HasMore    bool       `json:"has_more"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// FeedRequest bounds a feed query. Zero values mean "no filter".
type FeedRequest struct {
	StudentID     string
	StartDate     string
	EndDate       string
	ActivityTypes []ActivityType
	Limit         int
	Cursor        string
}
