package factory

import (
	"unicode"
	"unicode/utf8"

	"github.com/jinzhu/inflection"
)

func lowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[n:]
}

func upperFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// 关系名约定：belongs-to 用 camel 基名，集合用复数 camel 基名。
func singularRelation(model string) string {
	return lowerFirst(model)
}

func pluralRelation(model string) string {
	if model == "" {
		return ""
	}
	return inflection.Plural(lowerFirst(model))
}

// modelForRelation 把关系名还原成模型名：tags -> Tag, user -> User。
func modelForRelation(rel string) string {
	return upperFirst(inflection.Singular(rel))
}
