package record

import (
	"EntityFactory/internal/persistence"
	"EntityFactory/internal/workbench/domain"
)

const (
	ModelUser    = "User"
	ModelPost    = "Post"
	ModelComment = "Comment"
	ModelTag     = "Tag"
)

// Schema 返回工作台实体到记录的映射。
func Schema() *persistence.Schema {
	return persistence.NewSchema(
		persistence.Map(ModelUser, "users", userRecord, nil),
		persistence.Map(ModelPost, "posts", postRecord, postJoins),
		persistence.Map(ModelComment, "comments", commentRecord, nil),
		persistence.Map(ModelTag, "tags", tagRecord, nil),
	)
}

func userRecord(u *domain.User, refs persistence.Refs) (*UserRecord, error) {
	parentID, err := optionalID(refs, "parent", u.Parent())
	if err != nil {
		return nil, err
	}
	return &UserRecord{Name: u.Name(), Admin: u.IsAdmin(), ParentID: parentID}, nil
}

func postRecord(p *domain.Post, refs persistence.Refs) (*PostRecord, error) {
	userID, err := optionalID(refs, "user", p.User())
	if err != nil {
		return nil, err
	}
	secondaryID, err := optionalID(refs, "secondaryAuthor", p.SecondaryAuthor())
	if err != nil {
		return nil, err
	}
	return &PostRecord{
		Title:             p.Title(),
		Published:         p.Published(),
		UserID:            userID,
		SecondaryAuthorID: secondaryID,
	}, nil
}

func postJoins(p *domain.Post) []persistence.Join {
	tags := p.Tags()
	if len(tags) == 0 {
		return nil
	}
	peers := make([]any, 0, len(tags))
	for _, t := range tags {
		peers = append(peers, t)
	}
	return []persistence.Join{{
		Table:       "post_tags",
		OwnerColumn: "post_id",
		PeerColumn:  "tag_id",
		Peers:       peers,
	}}
}

func commentRecord(c *domain.Comment, refs persistence.Refs) (*CommentRecord, error) {
	if c.Post() == nil {
		return nil, persistence.ErrReferentialIntegrity.
			WithMsg("comment requires a post").
			WithData("model", ModelComment).
			WithData("relationship", "post")
	}
	postID, err := refs.ID("post", c.Post())
	if err != nil {
		return nil, err
	}
	userID, err := optionalID(refs, "user", c.User())
	if err != nil {
		return nil, err
	}
	return &CommentRecord{Body: c.Body(), PostID: postID, UserID: userID}, nil
}

func tagRecord(t *domain.Tag, _ persistence.Refs) (*TagRecord, error) {
	return &TagRecord{Name: t.Name()}, nil
}

// optionalID 空引用写成 NULL。
func optionalID[E any](refs persistence.Refs, field string, e *E) (*int64, error) {
	if e == nil {
		return nil, nil
	}
	id, err := refs.ID(field, e)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
