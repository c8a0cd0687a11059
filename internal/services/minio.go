package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storefront_back_end/internal/config"
	"storefront_back_end/internal/models"
)

const maxParallelTransfers = 5

// objectStore est le sous-ensemble de *minio.Client utilisé ici.
type objectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// ImageStore héberge les images produits dans un bucket MinIO.
type ImageStore struct {
	client  objectStore
	bucket  string
	baseURL string
}

func NewImageStore(client *minio.Client, cfg config.MinIOConfig) *ImageStore {
	return newImageStore(client, cfg)
}

func newImageStore(client objectStore, cfg config.MinIOConfig) *ImageStore {
	base := strings.TrimRight(cfg.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}
	return &ImageStore{client: client, bucket: cfg.Bucket, baseURL: base + "/" + cfg.Bucket}
}

func (s *ImageStore) URL(key string) string {
	return s.baseURL + "/" + key
}

// Upload envoie les fichiers en parallèle. En cas d'échec, les objets déjà
// envoyés sont supprimés avant de renvoyer l'erreur.
func (s *ImageStore) Upload(ctx context.Context, productID string, files []*multipart.FileHeader) ([]models.Image, error) {
	images := make([]models.Image, len(files))
	var (
		mu       sync.Mutex
		uploaded []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelTransfers)
	for i, fh := range files {
		i, fh := i, fh
		g.Go(func() error {
			key := path.Join("products", productID, uuid.NewString()+strings.ToLower(filepath.Ext(fh.Filename)))
			if err := s.put(gctx, key, fh); err != nil {
				return fmt.Errorf("upload %s: %w", fh.Filename, err)
			}
			mu.Lock()
			uploaded = append(uploaded, key)
			mu.Unlock()
			images[i] = models.Image{ObjectKey: key, URL: s.URL(key), Position: i}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.RemoveQuietly(context.WithoutCancel(ctx), uploaded)
		return nil, err
	}
	return images, nil
}

func (s *ImageStore) put(ctx context.Context, key string, fh *multipart.FileHeader) error {
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err = s.client.PutObject(ctx, s.bucket, key, f, fh.Size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

func (s *ImageStore) Remove(ctx context.Context, keys []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelTransfers)
	for _, key := range keys {
		key := key
		g.Go(func() error {
			if err := s.client.RemoveObject(gctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
				return fmt.Errorf("suppression %s: %w", key, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// RemoveQuietly supprime les objets et se contente de journaliser les échecs.
func (s *ImageStore) RemoveQuietly(ctx context.Context, keys []string) {
	if len(keys) == 0 {
		return
	}
	if err := s.Remove(ctx, keys); err != nil {
		zap.L().Warn("nettoyage images", zap.Strings("keys", keys), zap.Error(err))
	}
}
