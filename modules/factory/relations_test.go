package factory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasRelation_按约定解析并带数量和状态(t *testing.T) {
	tf := newTestFactories()

	f, err := tf.authors.HasRelation(tf.reg, "books", 3, map[string]any{"published": true})
	require.NoError(t, err)

	a, err := f.CreateOne(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, a.books.Len())
	for _, b := range a.books.All() {
		require.True(t, b.published)
		require.Same(t, a, b.author)
	}
}

func TestForRelation_显式声明的父关系(t *testing.T) {
	tf := newTestFactories()

	f, err := tf.authors.ForRelation(tf.reg, "mentor", map[string]any{"name": "yoda"})
	require.NoError(t, err)

	a, err := f.MakeOne(context.Background())
	require.NoError(t, err)
	require.NotNil(t, a.mentor)
	require.Equal(t, "yoda", a.mentor.name)
}

func TestForRelation_不接受数量参数(t *testing.T) {
	tf := newTestFactories()

	_, err := tf.books.ForRelation(tf.reg, "author", 2)
	require.True(t, errors.Is(err, ErrInvalidRelationArgument))
}

func TestAttachedToRelation_显式反向集合名(t *testing.T) {
	tf := newTestFactories()

	f, err := tf.authors.AttachedToRelation(tf.reg, "followed", 2)
	require.NoError(t, err)

	a, err := f.CreateOne(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, a.followed.Len())
	for _, peer := range a.followed.All() {
		require.True(t, peer.followed.Contains(a))
	}
}

func TestRelation_未知关系在声明时立即报错(t *testing.T) {
	tf := newTestFactories()

	f, err := tf.authors.HasRelation(tf.reg, "comments")
	require.Nil(t, f)
	require.True(t, errors.Is(err, ErrUnresolvableRelationship))
	require.True(t, errors.Is(err, ErrNotRegistered), "cause 链里保留注册表的错误")
	require.Empty(t, tf.rec.calls)
}

func TestRelation_声明类型与调用不一致(t *testing.T) {
	tf := newTestFactories()

	_, err := tf.authors.HasRelation(tf.reg, "mentor")
	require.True(t, errors.Is(err, ErrUnresolvableRelationship))
}

func TestRegistry_名字有序且可覆盖(t *testing.T) {
	tf := newTestFactories()
	require.Equal(t, []string{"Author", "Book", "Label", "Review"}, tf.reg.Names())

	var nilReg *Registry
	_, err := nilReg.Lookup("Author")
	require.True(t, errors.Is(err, ErrNotRegistered))
}

func TestNaming_关系名约定(t *testing.T) {
	require.Equal(t, "user", singularRelation("User"))
	require.Equal(t, "posts", pluralRelation("Post"))
	require.Equal(t, "secondaryPosts", pluralRelation("SecondaryPost"))
	require.Equal(t, "Tag", modelForRelation("tags"))
	require.Equal(t, "User", modelForRelation("user"))
}
