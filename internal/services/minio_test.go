package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/config"
)

type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	failOn  string
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}}
}

func (f *fakeObjects) PutObject(_ context.Context, _, name string, r io.Reader, _ int64, _ minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	if f.failOn != "" && bytes.Equal(data, []byte(f.failOn)) {
		return minio.UploadInfo{}, errors.New("disk full")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[name] = data
	return minio.UploadInfo{Key: name, Size: int64(len(data))}, nil
}

func (f *fakeObjects) RemoveObject(_ context.Context, _, name string, _ minio.RemoveObjectOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, name)
	return nil
}

func (f *fakeObjects) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func fileHeaders(t *testing.T, files map[string]string) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := w.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, "/", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["images"]
}

func TestImageStore_Upload(t *testing.T) {
	objects := newFakeObjects()
	s := newImageStore(objects, config.MinIOConfig{Endpoint: "minio:9000", Bucket: "products"})

	images, err := s.Upload(context.Background(), "p1", fileHeaders(t, map[string]string{"a.PNG": "aaa", "b.jpg": "bbb"}))
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, 2, objects.count())

	for i, img := range images {
		assert.Equal(t, i, img.Position)
		assert.True(t, strings.HasPrefix(img.ObjectKey, "products/p1/"))
		assert.Equal(t, "http://minio:9000/products/"+img.ObjectKey, img.URL)
	}
}

func TestImageStore_UploadFailureCleansUp(t *testing.T) {
	objects := newFakeObjects()
	objects.failOn = "bad"
	s := newImageStore(objects, config.MinIOConfig{Endpoint: "minio:9000", Bucket: "products"})

	_, err := s.Upload(context.Background(), "p1", fileHeaders(t, map[string]string{"ok.png": "good", "ko.png": "bad"}))
	assert.Error(t, err)
	assert.Zero(t, objects.count())
}

func TestImageStore_PublicURL(t *testing.T) {
	s := newImageStore(newFakeObjects(), config.MinIOConfig{Endpoint: "minio:9000", Bucket: "img", PublicURL: "https://cdn.example/"})
	assert.Equal(t, "https://cdn.example/img/products/p1/x.png", s.URL("products/p1/x.png"))
}

func TestImageStore_Remove(t *testing.T) {
	objects := newFakeObjects()
	s := newImageStore(objects, config.MinIOConfig{Endpoint: "minio:9000", Bucket: "products"})

	images, err := s.Upload(context.Background(), "p1", fileHeaders(t, map[string]string{"a.png": "a"}))
	require.NoError(t, err)

	require.NoError(t, s.Remove(context.Background(), []string{images[0].ObjectKey}))
	assert.Zero(t, objects.count())
}
