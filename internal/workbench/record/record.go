// Package record 是工作台实体的存储形态，同时带 gorm 和 bson 标签，
// mysql 与 mongodb 两个后端共用一套记录。
package record

// UserRecord users 表
type UserRecord struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement;comment:用户ID" bson:"_id" json:"id"`
	Name     string `gorm:"column:name;type:varchar(255);not null;comment:用户名" bson:"name" json:"name"`
	Admin    bool   `gorm:"column:admin;not null;default:false;comment:是否管理员" bson:"admin" json:"admin"`
	ParentID *int64 `gorm:"column:parent_id;index;comment:上级用户ID" bson:"parent_id,omitempty" json:"parent_id,omitempty"`
}

func (UserRecord) TableName() string { return "users" }
func (r *UserRecord) GetID() int64   { return r.ID }
func (r *UserRecord) SetID(id int64) { r.ID = id }

// PostRecord posts 表
type PostRecord struct {
	ID                int64  `gorm:"column:id;primaryKey;autoIncrement;comment:文章ID" bson:"_id" json:"id"`
	Title             string `gorm:"column:title;type:varchar(255);not null;comment:标题" bson:"title" json:"title"`
	Published         bool   `gorm:"column:published;not null;default:false;comment:是否发布" bson:"published" json:"published"`
	UserID            *int64 `gorm:"column:user_id;index;comment:作者ID" bson:"user_id,omitempty" json:"user_id,omitempty"`
	SecondaryAuthorID *int64 `gorm:"column:secondary_author_id;index;comment:第二作者ID" bson:"secondary_author_id,omitempty" json:"secondary_author_id,omitempty"`
}

func (PostRecord) TableName() string { return "posts" }
func (r *PostRecord) GetID() int64   { return r.ID }
func (r *PostRecord) SetID(id int64) { r.ID = id }

// CommentRecord comments 表，post 必填
type CommentRecord struct {
	ID     int64  `gorm:"column:id;primaryKey;autoIncrement;comment:评论ID" bson:"_id" json:"id"`
	Body   string `gorm:"column:body;type:text;not null;comment:正文" bson:"body" json:"body"`
	PostID int64  `gorm:"column:post_id;not null;index;comment:文章ID" bson:"post_id" json:"post_id"`
	UserID *int64 `gorm:"column:user_id;index;comment:评论人ID" bson:"user_id,omitempty" json:"user_id,omitempty"`
}

func (CommentRecord) TableName() string { return "comments" }
func (r *CommentRecord) GetID() int64   { return r.ID }
func (r *CommentRecord) SetID(id int64) { r.ID = id }

// TagRecord tags 表
type TagRecord struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement;comment:标签ID" bson:"_id" json:"id"`
	Name string `gorm:"column:name;type:varchar(64);not null;comment:标签名" bson:"name" json:"name"`
}

func (TagRecord) TableName() string { return "tags" }
func (r *TagRecord) GetID() int64   { return r.ID }
func (r *TagRecord) SetID(id int64) { r.ID = id }
