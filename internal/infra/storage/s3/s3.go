package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/rakshil17/SENG3011-OMEGA/internal/domain"
)

type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	PathStyle bool
}

// Store — адаптер над MinIO-клиентом. Бакет передаётся в каждый вызов:
// один клиент обслуживает финансовый бакет и бакет новостей.
type Store struct {
	cl     *minio.Client
	logger *log.Logger
}

func New(cfg Config, logger *log.Logger) (*Store, error) {
	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	}
	if cfg.PathStyle {
		opts.BucketLookup = minio.BucketLookupPath
	}
	cl, err := minio.New(cfg.Endpoint, opts)
	if err != nil {
		return nil, err
	}
	return &Store{cl: cl, logger: logger}, nil
}

// Get читает объект целиком. Ошибки клиента переводятся в доменные:
// NoSuchKey / NoSuchBucket различимы, остальное уходит как ErrInfra.
func (s *Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := s.cl.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		s.logger.Printf("GET %s/%s: %v", bucket, key, err)
		return nil, translate(err)
	}
	defer obj.Close()

	// minio откладывает часть ошибок до первого чтения
	data, err := io.ReadAll(obj)
	if err != nil {
		s.logger.Printf("GET %s/%s: read: %v", bucket, key, err)
		return nil, translate(err)
	}
	s.logger.Printf("GET %s/%s: %d bytes", bucket, key, len(data))
	return data, nil
}

func (s *Store) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	_, err := s.cl.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		s.logger.Printf("PUT %s/%s failed: %v", bucket, key, err)
		return translate(err)
	}
	s.logger.Printf("PUT %s/%s ok (%d bytes)", bucket, key, len(data))
	return nil
}

// Delete идемпотентен: удаление несуществующего ключа — не ошибка.
func (s *Store) Delete(ctx context.Context, bucket, key string) error {
	err := s.cl.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		if errors.Is(translate(err), domain.ErrNoSuchKey) {
			s.logger.Printf("DELETE %s/%s: already absent", bucket, key)
			return nil
		}
		s.logger.Printf("DELETE %s/%s failed: %v", bucket, key, err)
		return translate(err)
	}
	s.logger.Printf("DELETE %s/%s ok", bucket, key)
	return nil
}

// ListKeys собирает все ключи по префиксу в плоский срез;
// пагинацию прячет клиент за каналом.
func (s *Store) ListKeys(ctx context.Context, bucket, prefix string) ([]string, error) {
	var keys []string
	for obj := range s.cl.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			s.logger.Printf("LIST %s prefix=%q failed: %v", bucket, prefix, obj.Err)
			return nil, translate(obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	s.logger.Printf("LIST %s prefix=%q: %d keys", bucket, prefix, len(keys))
	return keys, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.cl.ListBuckets(ctx); err != nil {
		s.logger.Printf("PING failed: %v", err)
		return translate(err)
	}
	return nil
}

func translate(err error) error {
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey":
		return fmt.Errorf("%w: %s", domain.ErrNoSuchKey, resp.Key)
	case "NoSuchBucket":
		return fmt.Errorf("%w: %s", domain.ErrNoSuchBucket, resp.BucketName)
	default:
		return fmt.Errorf("%w: %v", domain.ErrInfra, err)
	}
}
