// Package domain 是工作台里的示例实体：字段全部不导出，工厂通过友元入口写入。
package domain

import (
	"EntityFactory/modules/factory"
	"EntityFactory/modules/kit/collection"
	"EntityFactory/modules/kit/fieldx"
)

type User struct {
	name           string
	admin          bool
	parent         *User
	posts          *collection.List[*Post]
	secondaryPosts *collection.List[*Post]
	children       *collection.List[*User]
}

func NewUser(name string) *User {
	return &User{
		name:           name,
		posts:          collection.NewList[*Post](),
		secondaryPosts: collection.NewList[*Post](),
		children:       collection.NewList[*User](),
	}
}

func (u *User) Name() string            { return u.name }
func (u *User) SetName(name string)     { u.name = name }
func (u *User) IsAdmin() bool           { return u.admin }
func (u *User) Parent() *User           { return u.parent }
func (u *User) Posts() []*Post          { return u.posts.All() }
func (u *User) SecondaryPosts() []*Post { return u.secondaryPosts.All() }
func (u *User) Children() []*User       { return u.children.All() }

func (u *User) AssignField(name string, v any) (bool, error) {
	switch name {
	case "name":
		return true, fieldx.Assign(&u.name, name, v)
	case "admin":
		return true, fieldx.Assign(&u.admin, name, v)
	case "parent":
		return true, fieldx.Assign(&u.parent, name, v)
	}
	return false, nil
}

func (u *User) CollectionField(name string) (factory.Collection, bool) {
	switch name {
	case "posts":
		return u.posts, true
	case "secondaryPosts":
		return u.secondaryPosts, true
	case "children":
		return u.children, true
	}
	return nil, false
}
