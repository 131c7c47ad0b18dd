package content

import (
	"context"
	"errors"
	"strings"

	"astrodesk/database"
	articleRepo "astrodesk/database/repository/article"
	"astrodesk/models"
	"astrodesk/services/auth"
	"astrodesk/services/storage"
	"astrodesk/utils"

	"go.uber.org/zap"
)

const articleImageFolder = "articles/images"

// ArticleService publishes the blog shown on the public site.
type ArticleService interface {
	ListArticles(ctx context.Context) ([]models.Article, error)
	GetArticle(ctx context.Context, id string) (*models.Article, error)
	CreateArticle(ctx context.Context, input models.ArticleInput) (*models.Article, error)
	UpdateArticle(ctx context.Context, id string, input models.ArticleInput) (*models.Article, error)
	DeleteArticle(ctx context.Context, id, password string) error
}

type DefaultArticleService struct {
	Repo     articleRepo.ArticleRepository
	Assets   storage.AssetStore
	Verifier auth.CredentialVerifier
	Logger   *zap.Logger
}

func NewDefaultArticleService(repo articleRepo.ArticleRepository, assets storage.AssetStore, verifier auth.CredentialVerifier, logger *zap.Logger) *DefaultArticleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultArticleService{Repo: repo, Assets: assets, Verifier: verifier, Logger: logger}
}

func (s *DefaultArticleService) ListArticles(ctx context.Context) ([]models.Article, error) {
	articles, err := s.Repo.List(ctx)
	if err != nil {
		return nil, utils.Upstream("Failed to list articles", err)
	}
	return articles, nil
}

func (s *DefaultArticleService) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	a, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, utils.NotFound("Article not found")
	}
	if err != nil {
		return nil, utils.Upstream("Failed to load article", err)
	}
	return a, nil
}

func (s *DefaultArticleService) CreateArticle(ctx context.Context, input models.ArticleInput) (*models.Article, error) {
	if err := s.authorize(input.Password); err != nil {
		return nil, err
	}
	if err := validate(input); err != nil {
		return nil, err
	}

	article := &models.Article{
		Title:    strings.TrimSpace(input.Title),
		Content:  input.Content,
		ImageURL: strings.TrimSpace(input.ImageURL),
	}
	if input.Image != nil {
		url, err := s.uploadImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		article.ImageURL = url
	}

	id, err := s.Repo.Create(ctx, article)
	if err != nil {
		return nil, utils.Upstream("Failed to save article", err)
	}
	s.Logger.Info("Article created", zap.String("article_id", id))
	return article, nil
}

// UpdateArticle replaces title and content; the image changes only when a new one is sent.
func (s *DefaultArticleService) UpdateArticle(ctx context.Context, id string, input models.ArticleInput) (*models.Article, error) {
	if err := s.authorize(input.Password); err != nil {
		return nil, err
	}
	if err := validate(input); err != nil {
		return nil, err
	}
	article, err := s.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}

	article.Title = strings.TrimSpace(input.Title)
	article.Content = input.Content
	if url := strings.TrimSpace(input.ImageURL); url != "" {
		article.ImageURL = url
	}
	if input.Image != nil {
		url, err := s.uploadImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		article.ImageURL = url
	}

	if err := s.Repo.Update(ctx, article); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NotFound("Article not found")
		}
		return nil, utils.Upstream("Failed to update article", err)
	}
	return article, nil
}

func (s *DefaultArticleService) DeleteArticle(ctx context.Context, id, password string) error {
	if err := s.authorize(password); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return utils.NotFound("Article not found")
		}
		return utils.Upstream("Failed to delete article", err)
	}
	s.Logger.Info("Article deleted", zap.String("article_id", id))
	return nil
}

func (s *DefaultArticleService) authorize(password string) error {
	if s.Verifier == nil || !s.Verifier.Verify(password) {
		return utils.Unauthorized("Invalid admin password")
	}
	return nil
}

func (s *DefaultArticleService) uploadImage(ctx context.Context, f *models.Upload) (string, error) {
	if s.Assets == nil {
		return "", utils.Upstream("Failed to upload image", errors.New("no asset store configured"))
	}
	stored, err := s.Assets.Upload(ctx, storage.Object{
		Folder:      articleImageFolder,
		Name:        f.Filename,
		ContentType: f.ContentType,
		Size:        f.Size,
		Body:        f.Body,
		Visibility:  storage.Public,
	})
	if err != nil {
		return "", utils.Upstream("Failed to upload image", err)
	}
	return stored.URL, nil
}

func validate(input models.ArticleInput) error {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" {
		return utils.InvalidInput("Title and content are required")
	}
	return nil
}
