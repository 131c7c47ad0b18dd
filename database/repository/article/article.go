package articleRepo

import (
	"context"
	"sort"
	"time"

	"astrodesk/database"
	"astrodesk/models"

	"github.com/google/uuid"
)

const collectionName = "articles"

type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) (string, error)
	GetByID(ctx context.Context, id string) (*models.Article, error)
	// List returns articles newest first.
	List(ctx context.Context) ([]models.Article, error)
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id string) error
}

type articleRepo struct {
	coll database.Collection[models.Article]
}

func NewArticleRepo(b database.Backend) ArticleRepository {
	return &articleRepo{coll: database.NewCollection[models.Article](b, collectionName)}
}

func (r *articleRepo) Create(ctx context.Context, article *models.Article) (string, error) {
	if article.ID == "" {
		article.ID = uuid.New().String()
	}
	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now().UTC()
	}
	if err := r.coll.Insert(ctx, article.ID, *article); err != nil {
		return "", err
	}
	return article.ID, nil
}

func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	article, err := r.coll.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepo) List(ctx context.Context) ([]models.Article, error) {
	articles, err := r.coll.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].CreatedAt.After(articles[j].CreatedAt)
	})
	return articles, nil
}

func (r *articleRepo) Update(ctx context.Context, article *models.Article) error {
	article.UpdatedAt = time.Now().UTC()
	return r.coll.Replace(ctx, article.ID, *article)
}

func (r *articleRepo) Delete(ctx context.Context, id string) error {
	return r.coll.Delete(ctx, id)
}
