package entity

import "time"

// Comment belongs to exactly one article and is removable only by its author.
type Comment struct {
	ID        int64
	Body      string
	Author    *User
	ArticleID int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewComment(author *User, article *Article, body string) *Comment {
	return &Comment{Body: body, Author: author, ArticleID: article.ID}
}

func (c *Comment) IsAuthoredBy(u *User) bool {
	return c.Author.Is(u)
}
