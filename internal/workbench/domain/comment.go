package domain

// Comment 只能通过构造器拿到 body 和 post。
type Comment struct {
	body string
	post *Post
	user *User
}

func NewComment(body string, post *Post, user *User) *Comment {
	return &Comment{body: body, post: post, user: user}
}

func (c *Comment) Body() string { return c.body }
func (c *Comment) Post() *Post  { return c.post }
func (c *Comment) User() *User  { return c.user }
