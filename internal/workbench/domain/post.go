package domain

import (
	"EntityFactory/modules/factory"
	"EntityFactory/modules/kit/collection"
	"EntityFactory/modules/kit/fieldx"
)

// Post 是 post_tags 多对多关系的拥有方。
type Post struct {
	title           string
	published       bool
	user            *User
	secondaryAuthor *User
	tags            *collection.List[*Tag]
}

func NewPost() *Post {
	return &Post{tags: collection.NewList[*Tag]()}
}

func (p *Post) Title() string              { return p.title }
func (p *Post) SetTitle(title string)      { p.title = title }
func (p *Post) Published() bool            { return p.published }
func (p *Post) User() *User                { return p.user }
func (p *Post) SetUser(u *User)            { p.user = u }
func (p *Post) SecondaryAuthor() *User     { return p.secondaryAuthor }
func (p *Post) SetSecondaryAuthor(u *User) { p.secondaryAuthor = u }
func (p *Post) Tags() []*Tag               { return p.tags.All() }

func (p *Post) AddTag(t *Tag) {
	if !p.tags.Contains(t) {
		p.tags.Add(t)
	}
}

func (p *Post) RemoveTag(t *Tag) {
	p.tags.Remove(t)
}

func (p *Post) AssignField(name string, v any) (bool, error) {
	switch name {
	case "title":
		return true, fieldx.Assign(&p.title, name, v)
	case "published":
		return true, fieldx.Assign(&p.published, name, v)
	case "user":
		return true, fieldx.Assign(&p.user, name, v)
	case "secondaryAuthor":
		return true, fieldx.Assign(&p.secondaryAuthor, name, v)
	}
	return false, nil
}

func (p *Post) CollectionField(name string) (factory.Collection, bool) {
	if name == "tags" {
		return p.tags, true
	}
	return nil, false
}
