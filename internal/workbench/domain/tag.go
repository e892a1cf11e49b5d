package domain

import (
	"EntityFactory/modules/factory"
	"EntityFactory/modules/kit/collection"
	"EntityFactory/modules/kit/fieldx"
)

// Tag 是多对多的反向方，关联行由 Post.tags 决定。
type Tag struct {
	name  string
	posts *collection.List[*Post]
}

func NewTag(name string) *Tag {
	return &Tag{name: name, posts: collection.NewList[*Post]()}
}

func (t *Tag) Name() string        { return t.name }
func (t *Tag) SetName(name string) { t.name = name }
func (t *Tag) Posts() []*Post      { return t.posts.All() }

func (t *Tag) AddPost(p *Post) {
	if !t.posts.Contains(p) {
		t.posts.Add(p)
	}
}

func (t *Tag) RemovePost(p *Post) {
	t.posts.Remove(p)
}

func (t *Tag) AssignField(name string, v any) (bool, error) {
	if name == "name" {
		return true, fieldx.Assign(&t.name, name, v)
	}
	return false, nil
}

func (t *Tag) CollectionField(name string) (factory.Collection, bool) {
	if name == "posts" {
		return t.posts, true
	}
	return nil, false
}
