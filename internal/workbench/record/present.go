package record

import (
	"EntityFactory/internal/workbench/domain"
)

// IDLookup 查询实体已写入的主键，未写入时 ok=false。
type IDLookup interface {
	IDOf(entity any) (int64, bool)
}

// Presenter 把实体转成对外展示的扁平结构，引用只展示主键。
type Presenter struct {
	ids IDLookup
}

func NewPresenter(ids IDLookup) *Presenter {
	return &Presenter{ids: ids}
}

func (p *Presenter) Present(entity any) map[string]any {
	out := map[string]any{}
	if id, ok := p.lookup(entity); ok {
		out["id"] = id
	}
	switch e := entity.(type) {
	case *domain.User:
		out["model"] = ModelUser
		out["name"] = e.Name()
		out["admin"] = e.IsAdmin()
		out["parent_id"] = p.ref(e.Parent())
		out["posts"] = len(e.Posts())
		out["children"] = len(e.Children())
	case *domain.Post:
		out["model"] = ModelPost
		out["title"] = e.Title()
		out["published"] = e.Published()
		out["user_id"] = p.ref(e.User())
		out["secondary_author_id"] = p.ref(e.SecondaryAuthor())
		tagIDs := make([]any, 0, len(e.Tags()))
		for _, t := range e.Tags() {
			tagIDs = append(tagIDs, p.ref(t))
		}
		out["tag_ids"] = tagIDs
	case *domain.Comment:
		out["model"] = ModelComment
		out["body"] = e.Body()
		out["post_id"] = p.ref(e.Post())
		out["user_id"] = p.ref(e.User())
	case *domain.Tag:
		out["model"] = ModelTag
		out["name"] = e.Name()
		out["posts"] = len(e.Posts())
	}
	return out
}

func (p *Presenter) lookup(entity any) (int64, bool) {
	if p == nil || p.ids == nil {
		return 0, false
	}
	return p.ids.IDOf(entity)
}

// ref 对空引用和未写入的实体都返回 nil。
func (p *Presenter) ref(entity any) any {
	if id, ok := p.lookup(entity); ok {
		return id
	}
	return nil
}
