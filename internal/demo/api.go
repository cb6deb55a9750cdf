package demo

import (
	"context"
	"time"
)

// UserData is the payload of user-loaded.
type UserData struct {
	UserID string `pagestate:"userId" json:"userId"`
}

// Post is one entry of PostsData.
type Post struct {
	Content string `pagestate:"content" json:"content"`
}

// PostsData is the payload of posts-loaded.
type PostsData struct {
	Posts []Post `pagestate:"posts" json:"posts"`
}

// API is the backend the demo loads from.
type API interface {
	User(ctx context.Context) (UserData, error)
	Posts(ctx context.Context, userID string) (PostsData, error)
}

// SimulatedAPI answers with fixed data after fixed delays.
type SimulatedAPI struct {
	UserDelay  time.Duration
	PostsDelay time.Duration
}

// User implements API.
func (a SimulatedAPI) User(ctx context.Context) (UserData, error) {
	if err := sleep(ctx, a.UserDelay); err != nil {
		return UserData{}, err
	}
	return UserData{UserID: "abc"}, nil
}

// Posts implements API.
func (a SimulatedAPI) Posts(ctx context.Context, userID string) (PostsData, error) {
	if err := sleep(ctx, a.PostsDelay); err != nil {
		return PostsData{}, err
	}
	return PostsData{Posts: []Post{{Content: "hello"}}}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
