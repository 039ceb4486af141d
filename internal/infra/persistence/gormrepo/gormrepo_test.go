package gormrepo

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"

	po "github.com/lizhiwei-dev/echoes-app/internal/infra/persistence/model"
	"github.com/lizhiwei-dev/echoes-app/pkg/constant"
	"github.com/lizhiwei-dev/echoes-app/pkg/domain/model"
	"github.com/lizhiwei-dev/echoes-app/pkg/domain/repository"
	"github.com/lizhiwei-dev/echoes-app/pkg/idgen"
)

func TestMain(m *testing.M) {
	if err := idgen.InitSqidsEncoder(); err != nil {
		panic(err)
	}
	m.Run()
}

// newTestDB 在临时目录创建一个空的 sqlite 库并完成迁移。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(gormlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, po.Migrate(db))
	return db
}

func timePtr(v time.Time) *time.Time { return &v }

func createPublishedPost(t *testing.T, repo repository.PostRepository, slug, title string, publishedAt time.Time) *model.Post {
	t.Helper()
	post, err := repo.Create(context.Background(), &model.CreatePostParams{
		Title:       title,
		Slug:        slug,
		ContentMd:   "# " + title,
		ContentHTML: "<h1>" + title + "</h1>",
		Excerpt:     title,
		Status:      constant.PostStatusPublished,
		PublishedAt: timePtr(publishedAt),
	})
	require.NoError(t, err)
	return post
}
