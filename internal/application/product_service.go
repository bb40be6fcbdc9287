package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/minsuk-ha/go-shop-ddd/internal/domain/apperrors"
	"github.com/minsuk-ha/go-shop-ddd/internal/domain/entity"
	repo "github.com/minsuk-ha/go-shop-ddd/internal/domain/repository"
	"github.com/minsuk-ha/go-shop-ddd/pkg/helpers"
)

// ProductService owns the catalog command and query handlers. Commands run
// inside a transaction; search indexing, recently-viewed tracking and image
// storage are best-effort side channels that never fail a command.
type ProductService struct {
	Products   repo.ProductRepository
	Categories repo.CategoryRepository
	Tx         repo.TxManager
	GCS        *storage.Client
	GCSBucket  string
	Redis      *redis.Client
	Logger     *logrus.Logger
	ES         *elasticsearch.Client
	ESIndex    string
	RecentMax  int
}

func NewProductService(products repo.ProductRepository, categories repo.CategoryRepository, tx repo.TxManager, gcs *storage.Client, gcsBucket string, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esIndex string, recentMax int) *ProductService {
	if recentMax <= 0 {
		recentMax = 10
	}
	return &ProductService{
		Products:   products,
		Categories: categories,
		Tx:         tx,
		GCS:        gcs,
		GCSBucket:  gcsBucket,
		Redis:      rdb,
		Logger:     logger,
		ES:         es,
		ESIndex:    esIndex,
		RecentMax:  recentMax,
	}
}

func recentKey(memberID string) string {
	return "member:recent-products:" + memberID
}

type ProductInput struct {
	Title       string
	Slug        string
	Price       *int64
	Description string
	CategoryID  string
	Images      []string
}

// checkCategory verifies the referenced category exists. An empty id is left
// for the aggregate, which rejects it with its own message.
func (s *ProductService) checkCategory(ctx context.Context, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	ok, err := s.Categories.ExistsByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.InvalidCategory("category does not exist")
	}
	return nil
}

// Register creates a product. The category existence check and the insert
// share one transaction; indexing to Elasticsearch happens after commit and
// its failure is only logged.
func (s *ProductService) Register(ctx context.Context, in ProductInput) (*entity.Product, error) {
	var created *entity.Product
	err := s.Tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.checkCategory(ctx, in.CategoryID); err != nil {
			return err
		}
		p, err := entity.NewProduct(in.Title, in.Slug, in.Price, in.Description, in.CategoryID, in.Images)
		if err != nil {
			return err
		}
		if err := s.Products.Create(ctx, p); err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	_ = s.indexProduct(ctx, created)
	return created, nil
}

// Update replaces a product's fields. The load runs first so a missing
// product reports not-found even when the payload is also invalid; the
// mutated aggregate is then saved explicitly.
func (s *ProductService) Update(ctx context.Context, productID string, in ProductInput) (*entity.Product, error) {
	var updated *entity.Product
	err := s.Tx.WithTx(ctx, func(ctx context.Context) error {
		p, err := s.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return apperrors.ProductNotFound()
		}
		if err := s.checkCategory(ctx, in.CategoryID); err != nil {
			return err
		}
		if err := p.Update(in.Title, in.Slug, in.Price, in.Description, in.CategoryID, in.Images); err != nil {
			return err
		}
		if err := s.Products.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	_ = s.indexProduct(ctx, updated)
	return updated, nil
}

// Get loads a product and, when a member is known, records the view in their
// recently-viewed list.
func (s *ProductService) Get(ctx context.Context, productID, memberID string) (*entity.Product, error) {
	p, err := s.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperrors.ProductNotFound()
	}
	if memberID != "" {
		s.recordRecentlyViewed(ctx, memberID, p.ID)
	}
	return p, nil
}

func (s *ProductService) List(ctx context.Context, offset, limit int) ([]*entity.Product, error) {
	return s.Products.List(ctx, offset, clampLimit(limit))
}

func (s *ProductService) ListByCategory(ctx context.Context, categoryID string, offset, limit int) ([]*entity.Product, error) {
	return s.Products.ListByCategory(ctx, categoryID, offset, clampLimit(limit))
}

func (s *ProductService) ListOrderByPrice(ctx context.Context, ascending bool, offset, limit int) ([]*entity.Product, error) {
	return s.Products.ListOrderByPrice(ctx, ascending, offset, clampLimit(limit))
}

func (s *ProductService) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	return s.Categories.List(ctx)
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}

// Delete removes the product row and its search document.
func (s *ProductService) Delete(ctx context.Context, productID string) error {
	err := s.Tx.WithTx(ctx, func(ctx context.Context) error {
		return s.Products.Delete(ctx, productID)
	})
	if err != nil {
		return err
	}
	s.deleteProductIndex(ctx, productID)
	return nil
}

// UploadImage stores an image in GCS under the product's path and appends the
// resulting URL to the product.
func (s *ProductService) UploadImage(ctx context.Context, productID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", apperrors.Internal(errors.New("gcs not configured"))
	}
	p, err := s.Products.GetByID(ctx, productID)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", apperrors.ProductNotFound()
	}
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("products", productID, id+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", apperrors.Internal(err)
	}
	p.AddImage(url)
	if err := s.Products.Update(ctx, p); err != nil {
		return "", err
	}
	_ = s.indexProduct(ctx, p)
	return url, nil
}

// recordRecentlyViewed keeps a bounded, deduplicated list of product ids per
// member in Redis, most recent first.
func (s *ProductService) recordRecentlyViewed(ctx context.Context, memberID, productID string) {
	if s.Redis == nil {
		return
	}
	key := recentKey(memberID)
	pipe := s.Redis.Pipeline()
	pipe.LRem(ctx, key, 0, productID)
	pipe.LPush(ctx, key, productID)
	pipe.LTrim(ctx, key, 0, int64(s.RecentMax-1))
	pipe.Expire(ctx, key, 7*24*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("key", key).Warn("redis pipeline failed")
	}
}

// RecentlyViewed returns the member's recently viewed products, most recent
// first. Products deleted since the view was recorded are skipped.
func (s *ProductService) RecentlyViewed(ctx context.Context, memberID string) ([]*entity.Product, error) {
	if s.Redis == nil {
		return []*entity.Product{}, nil
	}
	ids, err := s.Redis.LRange(ctx, recentKey(memberID), 0, int64(s.RecentMax-1)).Result()
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if len(ids) == 0 {
		return []*entity.Product{}, nil
	}
	return s.Products.ListByIDs(ctx, ids)
}

func (s *ProductService) indexProduct(ctx context.Context, p *entity.Product) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":          p.ID,
		"title":       p.Title,
		"slug":        p.Slug,
		"price":       p.Price.Amount(),
		"description": p.Description,
		"category_id": p.CategoryID,
		"created_at":  p.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":  p.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: p.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("product_id", p.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("product_id", p.ID).Warn("es index response error")
	}
	return nil
}

func (s *ProductService) deleteProductIndex(ctx context.Context, productID string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: productID}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("product_id", productID).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search performs a multi_match query on title and description.
func (s *ProductService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "description"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperrors.Internal(err)
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// ParsePage converts raw query values into offset/limit with defaults.
func ParsePage(pageStr, sizeStr string) (offset, limit int) {
	page, _ := strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(sizeStr)
	size = clampLimit(size)
	return (page - 1) * size, size
}
