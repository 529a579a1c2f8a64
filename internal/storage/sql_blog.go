package storage

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/sqlscan"

	"aethermoor-server/internal/models"
)

const blogColumns = `id, title, title_i18n, slug, content, content_i18n,
	excerpt, excerpt_i18n, category, published_at, image_url`

func (s *SQLStore) ListBlogPosts(ctx context.Context) ([]models.BlogPost, error) {
	return firstOf(ctx, s.logger, "list_blog",
		strategy[[]models.BlogPost]{name: "db", run: func(ctx context.Context) ([]models.BlogPost, error) {
			var posts []models.BlogPost
			err := sqlscan.Select(ctx, s.m.Read, &posts,
				fmt.Sprintf("SELECT %s FROM blog_posts ORDER BY published_at DESC", blogColumns))
			if err != nil {
				return nil, err
			}
			saveSnapshot(s.snapshots, "blog", posts)
			return posts, nil
		}},
		strategy[[]models.BlogPost]{name: "snapshot", run: func(ctx context.Context) ([]models.BlogPost, error) {
			return loadSnapshot[models.BlogPost](s.snapshots, "blog")
		}},
	)
}

func (s *SQLStore) GetBlogPost(ctx context.Context, id string) (*models.BlogPost, error) {
	var p models.BlogPost
	err := sqlscan.Get(ctx, s.m.Read, &p,
		fmt.Sprintf("SELECT %s FROM blog_posts WHERE id = $1", blogColumns), id)
	if err != nil {
		if sqlscan.NotFound(err) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *SQLStore) GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var p models.BlogPost
	err := sqlscan.Get(ctx, s.m.Read, &p,
		fmt.Sprintf("SELECT %s FROM blog_posts WHERE slug = $1", blogColumns), slug)
	if err != nil {
		if sqlscan.NotFound(err) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *SQLStore) blogSlugTaken(ctx context.Context, slug string) (bool, error) {
	var n int
	err := s.m.Read.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM blog_posts WHERE slug = $1", slug).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLStore) CreateBlogPost(ctx context.Context, p models.BlogPost) (*models.BlogPost, error) {
	if p.ID == "" {
		p.ID = newID()
	}
	// Нормализация и дедупликация применяются и к желаемому slug'у
	base := p.Title
	if p.Slug != "" {
		base = p.Slug
	}
	slug, err := UniqueSlug(ctx, base, s.blogSlugTaken)
	if err != nil {
		return nil, err
	}
	p.Slug = slug
	if p.Excerpt == "" {
		p.Excerpt = DeriveExcerpt(p.Content)
	}
	if p.PublishedAt == "" {
		p.PublishedAt = nowISO()
	}
	if p.Category == "" {
		p.Category = "update"
	}

	insert := fmt.Sprintf(`INSERT INTO blog_posts
		(id, title, title_i18n, slug, content, content_i18n, excerpt, excerpt_i18n,
		 category, published_at, image_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING %s`, blogColumns)
	args := []any{p.ID, p.Title, p.TitleI18n, p.Slug, p.Content, p.ContentI18n,
		p.Excerpt, p.ExcerptI18n, p.Category, p.PublishedAt, p.ImageURL}

	return firstOf(ctx, s.logger, "create_blog",
		strategy[*models.BlogPost]{name: "insert-returning", run: func(ctx context.Context) (*models.BlogPost, error) {
			var out models.BlogPost
			if err := sqlscan.Get(ctx, s.m.Write, &out, insert, args...); err != nil {
				return nil, err
			}
			return &out, nil
		}},
		strategy[*models.BlogPost]{name: "reselect", run: func(ctx context.Context) (*models.BlogPost, error) {
			return s.GetBlogPost(ctx, p.ID)
		}},
		strategy[*models.BlogPost]{name: "payload", run: func(ctx context.Context) (*models.BlogPost, error) {
			return &p, nil
		}},
	)
}

func (s *SQLStore) UpdateBlogPost(ctx context.Context, id string, patch models.BlogPostPatch) (*models.BlogPost, error) {
	current, err := s.GetBlogPost(ctx, id)
	if err != nil {
		return nil, err
	}

	set := newSetBuilder()
	setCol(set, "title", patch.Title)
	setCol(set, "title_i18n", patch.TitleI18n)
	setCol(set, "slug", patch.Slug)
	setCol(set, "content", patch.Content)
	setCol(set, "content_i18n", patch.ContentI18n)
	setCol(set, "excerpt", patch.Excerpt)
	setCol(set, "excerpt_i18n", patch.ExcerptI18n)
	setCol(set, "category", patch.Category)
	setCol(set, "published_at", patch.PublishedAt)
	setCol(set, "image_url", patch.ImageURL)
	if patch.Content != nil && patch.Excerpt == nil {
		setCol(set, "excerpt", ptr(DeriveExcerpt(*patch.Content)))
	}
	if set.empty() {
		return current, nil
	}

	query, args := set.updateQuery("blog_posts", blogColumns, id)
	return firstOf(ctx, s.logger, "update_blog",
		strategy[*models.BlogPost]{name: "update-returning", run: func(ctx context.Context) (*models.BlogPost, error) {
			var out models.BlogPost
			if err := sqlscan.Get(ctx, s.m.Write, &out, query, args...); err != nil {
				return nil, err
			}
			return &out, nil
		}},
		strategy[*models.BlogPost]{name: "reselect", run: func(ctx context.Context) (*models.BlogPost, error) {
			return s.GetBlogPost(ctx, id)
		}},
		strategy[*models.BlogPost]{name: "payload", run: func(ctx context.Context) (*models.BlogPost, error) {
			merged := *current
			applyBlogPatch(&merged, patch)
			return &merged, nil
		}},
	)
}

func (s *SQLStore) DeleteBlogPost(ctx context.Context, id string) error {
	if _, err := s.GetBlogPost(ctx, id); err != nil {
		return err
	}
	_, err := s.m.Write.ExecContext(ctx, "DELETE FROM blog_posts WHERE id = $1", id)
	return err
}
