// Package factories 定义工作台实体的工厂。
package factories

import (
	"EntityFactory/internal/workbench/domain"
	"EntityFactory/modules/factory"

	"github.com/brianvoe/gofakeit/v7"
)

// Set 是一组共享同一环境（persister/faker/logger）的工厂。
type Set struct {
	User     *factory.Factory[*domain.User]
	Post     *factory.Factory[*domain.Post]
	Comment  *factory.Factory[*domain.Comment]
	Tag      *factory.Factory[*domain.Tag]
	Registry *factory.Registry
}

func New(opts ...factory.Option) *Set {
	s := &Set{}
	s.User = factory.Define(factory.Blueprint[*domain.User]{
		Name:   "User",
		Params: []factory.Param{{Name: "name"}},
		New: func(args factory.Args) (*domain.User, error) {
			name, err := factory.Arg[string](args, "name")
			if err != nil {
				return nil, err
			}
			return domain.NewUser(name), nil
		},
		Relations: map[string]factory.Relation{
			"parent":         factory.Parent("User"),
			"children":       factory.Children("User", "parent"),
			"posts":          factory.Children("Post", "user"),
			"secondaryPosts": factory.Children("Post", "secondaryAuthor"),
		},
	}, userDefinition, opts...)

	s.Post = factory.Define(factory.Blueprint[*domain.Post]{
		Name: "Post",
		New: func(factory.Args) (*domain.Post, error) {
			return domain.NewPost(), nil
		},
		Relations: map[string]factory.Relation{
			"user":            factory.Parent("User"),
			"secondaryAuthor": factory.Parent("User"),
			"tags":            factory.Peers("Tag", "posts"),
		},
	}, func(f *gofakeit.Faker) factory.Definition {
		return factory.Definition{
			factory.F("title", f.Sentence(4)),
			factory.F("published", f.Bool()),
			factory.F("user", s.User),
		}
	}, opts...)

	s.Comment = factory.Define(factory.Blueprint[*domain.Comment]{
		Name: "Comment",
		Params: []factory.Param{
			{Name: "body"},
			{Name: "post"},
			{Name: "user", Optional: true},
		},
		New: newComment,
		Relations: map[string]factory.Relation{
			"post": factory.Parent("Post"),
			"user": factory.Parent("User"),
		},
	}, func(f *gofakeit.Faker) factory.Definition {
		return factory.Definition{
			factory.F("body", f.Sentence(12)),
			factory.F("user", nil),
		}
	}, opts...)

	s.Tag = factory.Define(factory.Blueprint[*domain.Tag]{
		Name:   "Tag",
		Params: []factory.Param{{Name: "name"}},
		New: func(args factory.Args) (*domain.Tag, error) {
			name, err := factory.Arg[string](args, "name")
			if err != nil {
				return nil, err
			}
			return domain.NewTag(name), nil
		},
		Relations: map[string]factory.Relation{
			"posts": factory.Peers("Post", "tags"),
		},
	}, func(f *gofakeit.Faker) factory.Definition {
		return factory.Definition{factory.F("name", f.Word())}
	}, opts...)

	s.Registry = factory.NewRegistry(s.User, s.Post, s.Comment, s.Tag)
	return s
}

func userDefinition(f *gofakeit.Faker) factory.Definition {
	return factory.Definition{
		factory.F("name", f.Name()),
		factory.F("admin", false),
	}
}

func newComment(args factory.Args) (*domain.Comment, error) {
	body, err := factory.Arg[string](args, "body")
	if err != nil {
		return nil, err
	}
	post, err := factory.Arg[*domain.Post](args, "post")
	if err != nil {
		return nil, err
	}
	user, err := factory.Arg[*domain.User](args, "user")
	if err != nil {
		return nil, err
	}
	return domain.NewComment(body, post, user), nil
}
