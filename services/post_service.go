package services

import (
	"context"
	"strings"
	"time"

	"bookshelf/database"
	"bookshelf/models"
	"bookshelf/permissions"
	"bookshelf/utils"

	"gorm.io/gorm"
)

const DefaultPostsPerPage = 5

// PostFilter holds the blog list parameters.
type PostFilter struct {
	Q    string
	Tag  string
	Page string
}

type PostService struct {
	db      *gorm.DB
	posts   *database.Store[models.Post]
	perPage int
	now     func() time.Time
	events  EventPublisher
}

func NewPostService(db *gorm.DB, perPage int, now func() time.Time, events EventPublisher) *PostService {
	if perPage <= 0 {
		perPage = DefaultPostsPerPage
	}
	if now == nil {
		now = time.Now
	}
	if events == nil {
		events = noopPublisher{}
	}
	return &PostService{
		db:      db,
		posts:   database.NewStore[models.Post](db, "post"),
		perPage: perPage,
		now:     now,
		events:  events,
	}
}

// ListPosts returns one page of posts, newest first.
func (s *PostService) ListPosts(ctx context.Context, f PostFilter) (utils.Page[models.Post], error) {
	q := database.Query{
		DefaultOrdering: "-published_date,-id",
		Preloads:        []string{"Author", "Tags"},
	}
	if term := strings.TrimSpace(f.Q); term != "" {
		q.Scopes = append(q.Scopes, matchingText(term))
	}
	if tag := strings.TrimSpace(f.Tag); tag != "" {
		q.Scopes = append(q.Scopes, taggedWith(tag))
	}

	total, err := s.posts.Count(ctx, q)
	if err != nil {
		return utils.Page[models.Post]{}, err
	}
	page, pages, offset := utils.PageWindow(f.Page, total, s.perPage)
	q.Limit, q.Offset = s.perPage, offset

	items, err := s.posts.List(ctx, q)
	if err != nil {
		return utils.Page[models.Post]{}, err
	}
	return utils.NewPage(items, page, pages, s.perPage, total), nil
}

func (s *PostService) PostsByTag(ctx context.Context, tag, page string) (utils.Page[models.Post], error) {
	return s.ListPosts(ctx, PostFilter{Tag: tag, Page: page})
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.posts.Get(ctx, id, "Author", "Tags", "Comments", "Comments.Author")
}

// CreatePost records the caller as the post's author.
func (s *PostService) CreatePost(ctx context.Context, caller *permissions.Caller, req *models.CreatePostRequest) (*models.Post, error) {
	if err := permissions.Check(caller, permissions.Authenticated()); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, models.NewFieldError("title", "This field may not be blank.")
	}

	post := &models.Post{
		Title:         strings.TrimSpace(req.Title),
		Content:       req.Content,
		AuthorID:      caller.UserID,
		PublishedDate: s.now().UTC(),
	}

	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, req.Tags)
		if err != nil {
			return err
		}
		post.Tags = tags
		return tx.Create(post).Error
	})
	if err != nil {
		return nil, err
	}

	created, err := s.GetPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	s.events.Publish(models.EventPostCreated, created)
	return created, nil
}

// UpdatePost is allowed only for the post's author. The author never changes.
func (s *PostService) UpdatePost(ctx context.Context, caller *permissions.Caller, id uint, req *models.UpdatePostRequest) (*models.Post, error) {
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := permissions.CheckOwner(caller, post.AuthorID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, models.NewFieldError("title", "This field may not be blank.")
		}
		updates["title"] = title
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}

	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(post).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Tags != nil {
			tags, err := resolveTags(tx, req.Tags)
			if err != nil {
				return err
			}
			return tx.Model(post).Association("Tags").Replace(tags)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	s.events.Publish(models.EventPostUpdated, updated)
	return updated, nil
}

// DeletePost removes the post and its comments; author only.
func (s *PostService) DeletePost(ctx context.Context, caller *permissions.Caller, id uint) error {
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := permissions.CheckOwner(caller, post.AuthorID); err != nil {
		return err
	}

	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Model(post).Association("Tags").Clear(); err != nil {
			return err
		}
		return s.posts.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.events.Publish(models.EventPostDeleted, map[string]uint{"id": id})
	return nil
}

func (s *PostService) CountPosts(ctx context.Context) (int64, error) {
	return s.posts.Count(ctx, database.Query{})
}

func resolveTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	normalized := models.NormalizeTags(names)
	tags := make([]models.Tag, 0, len(normalized))
	for _, name := range normalized {
		tag := models.Tag{Name: name}
		if err := tx.Where(&tag).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// matchingText matches title, content or any tag name, case-insensitively.
func matchingText(term string) func(*gorm.DB) *gorm.DB {
	pattern := database.ContainsPattern(term)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			`(LOWER(posts.title) LIKE ? ESCAPE '\' OR LOWER(posts.content) LIKE ? ESCAPE '\' OR posts.id IN (?))`,
			pattern, pattern,
			db.Session(&gorm.Session{NewDB: true}).
				Table("post_tags").
				Select("post_tags.post_id").
				Joins("JOIN tags ON tags.id = post_tags.tag_id").
				Where(`LOWER(tags.name) LIKE ? ESCAPE '\'`, pattern),
		)
	}
}

func taggedWith(tag string) func(*gorm.DB) *gorm.DB {
	name := strings.ToLower(tag)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Table("post_tags").
				Select("post_tags.post_id").
				Joins("JOIN tags ON tags.id = post_tags.tag_id").
				Where("tags.name = ?", name),
		)
	}
}
