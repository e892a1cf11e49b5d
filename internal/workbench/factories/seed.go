package factories

import (
	"context"

	"EntityFactory/internal/workbench/domain"
	"EntityFactory/modules/factory"
)

const (
	SeedUserName        = "Test User"
	seedTags            = 3
	seedPosts           = 3
	seedCommentsPerPost = 2
)

// Report 记录一次播种写入的实体数量。
type Report struct {
	Users    int `json:"users" yaml:"users"`
	Posts    int `json:"posts" yaml:"posts"`
	Tags     int `json:"tags" yaml:"tags"`
	Comments int `json:"comments" yaml:"comments"`
}

// Seed 写入一个固定的示例数据集：一个 "Test User"，他的文章，文章的标签和评论。
func Seed(ctx context.Context, s *Set) (Report, error) {
	var r Report

	tags, err := s.Tag.Count(seedTags).Create(ctx)
	if err != nil {
		return r, err
	}
	r.Tags = len(tags)

	user, err := s.User.
		Has(s.Post.Count(seedPosts).AttachedTo(tags)).
		CreateOne(ctx, map[string]any{"name": SeedUserName})
	if err != nil {
		return r, err
	}
	posts := user.Posts()
	r.Users = 1
	r.Posts = len(posts)

	comments, err := s.Comment.
		Count(len(posts) * seedCommentsPerPost).
		Sequence(func(seq factory.Seq) map[string]any {
			return map[string]any{"post": posts[seq.Index/seedCommentsPerPost], "user": user}
		}).
		Create(ctx)
	if err != nil {
		return r, err
	}
	r.Comments = len(comments)
	return r, nil
}

// SeedUser 是只需要一个用户时的最小播种。
func SeedUser(ctx context.Context, s *Set) (*domain.User, error) {
	return s.User.CreateOne(ctx, map[string]any{"name": SeedUserName})
}
