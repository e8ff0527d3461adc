package export

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	appErr "github.com/dashspec/engine/pkg/errors"
	"github.com/dashspec/engine/pkg/utils"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Document is a rendered export.
type Document struct {
	ProjectID   uuid.UUID `json:"project_id"`
	Filename    string    `json:"filename"`
	Content     string    `json:"content"`
	ETag        string    `json:"etag"`
	GeneratedAt time.Time `json:"generated_at"`
}

// NewDocument renders s into a Document stamped with generatedAt.
func NewDocument(s Snapshot, generatedAt time.Time) *Document {
	content := Render(s, generatedAt)
	return &Document{
		ProjectID:   s.Project.ID,
		Filename:    Filename(s.Project.Name, s.Project.VersionNumber),
		Content:     content,
		ETag:        utils.SHA256Hex([]byte(content)),
		GeneratedAt: generatedAt.UTC(),
	}
}

// Cache keeps the latest asynchronously rendered export per project.
type Cache struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func NewCache(rdb redis.UniversalClient, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func cacheKey(projectID uuid.UUID) string {
	return "export:latest:" + projectID.String()
}

func (c *Cache) Put(ctx context.Context, doc *Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "encode export failed")
	}
	if err := c.rdb.Set(ctx, cacheKey(doc.ProjectID), b, c.ttl).Err(); err != nil {
		return appErr.Wrap(err, appErr.CodeUnavailable, "store export failed")
	}
	return nil
}

func (c *Cache) Latest(ctx context.Context, projectID uuid.UUID) (*Document, error) {
	b, err := c.rdb.Get(ctx, cacheKey(projectID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, appErr.New(appErr.CodeNotFound, "no export available")
	}
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeUnavailable, "load export failed")
	}
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "decode export failed")
	}
	return &doc, nil
}

func (c *Cache) Delete(ctx context.Context, projectID uuid.UUID) error {
	if err := c.rdb.Del(ctx, cacheKey(projectID)).Err(); err != nil {
		return appErr.Wrap(err, appErr.CodeUnavailable, "delete export failed")
	}
	return nil
}
