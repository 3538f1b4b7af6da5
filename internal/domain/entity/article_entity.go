package entity

import (
	"strings"
	"time"
)

// Article is a post owned by its Author. Slug is derived from Title and is
// the public identifier. FavoritedBy holds the IDs of users who favorited it.
type Article struct {
	ID          int64
	Slug        string
	Title       string
	Description string
	Body        string
	Author      *User
	Tags        []string
	FavoritedBy IDSet
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewArticle(author *User, title, description, body string, tags []string) *Article {
	return &Article{
		Slug:        Slugify(title),
		Title:       title,
		Description: description,
		Body:        body,
		Author:      author,
		Tags:        NormalizeTags(tags),
	}
}

// Update overwrites only the non-blank fields. A new title regenerates the slug.
// Authorship is checked by the caller.
func (a *Article) Update(title, description, body string) *Article {
	if strings.TrimSpace(title) != "" {
		a.Title = title
		a.Slug = Slugify(title)
	}
	if strings.TrimSpace(description) != "" {
		a.Description = description
	}
	if strings.TrimSpace(body) != "" {
		a.Body = body
	}
	return a
}

func (a *Article) FavoritedByUser(u *User) *Article {
	a.FavoritedBy.Add(u.ID)
	return a
}

func (a *Article) UnfavoritedByUser(u *User) *Article {
	a.FavoritedBy.Remove(u.ID)
	return a
}

func (a *Article) IsFavoritedBy(u *User) bool {
	return u != nil && a.FavoritedBy.Has(u.ID)
}

func (a *Article) FavoritesCount() int {
	return a.FavoritedBy.Len()
}

func (a *Article) IsAuthoredBy(u *User) bool {
	return a.Author.Is(u)
}
