package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/internal/repository"
	"github.com/d60-Lab/vidtube/pkg/hash"
	"github.com/d60-Lab/vidtube/pkg/token"
)

type testEnv struct {
	db        *gorm.DB
	users     repository.UserRepository
	likes     repository.LikeRepository
	subs      repository.SubscriptionRepository
	history   repository.WatchHistoryRepository
	relations RelationService
	auth      AuthService
	views     ViewService
	content   ContentService
	tokens    *token.Manager
	hasher    hash.PasswordHasher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	// sqlite 内存库：多连接会各自拿到独立的库，并发测试必须收敛到单连接
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.Video{}, &model.Tweet{}, &model.Comment{},
		&model.Like{}, &model.Subscription{}, &model.CleanupEvent{},
	))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	historyRepo := repository.NewWatchHistoryRepository(rdb, 100)

	tokens := token.NewManager("test-access-secret", "test-refresh-secret", 15*time.Minute, 7*24*time.Hour)
	hasher := hash.NewBcryptHasher(bcrypt.MinCost)
	relations := NewRelationService(likeRepo, subRepo, userRepo, videoRepo, tweetRepo, commentRepo)

	return &testEnv{
		db:        db,
		users:     userRepo,
		likes:     likeRepo,
		subs:      subRepo,
		history:   historyRepo,
		relations: relations,
		auth:      NewAuthService(userRepo, tokens, hasher),
		views:     NewViewService(userRepo, videoRepo, tweetRepo, commentRepo, likeRepo, subRepo, historyRepo, relations),
		// recorder 为 nil：观看历史在测试里直接写 repo，异步链路单独测
		content: NewContentService(db, videoRepo, tweetRepo, commentRepo, nil),
		tokens:  tokens,
		hasher:  hasher,
	}
}

// register 注册一个测试账号并返回 profile
func (e *testEnv) register(t *testing.T, username string) *UserProfile {
	t.Helper()
	p, err := e.auth.Register(context.Background(),
		username+" 本人", username, username+"@example.com", "passw0rd!", "", "")
	require.NoError(t, err)
	return p
}

func (e *testEnv) identity(p *UserProfile) IdentityContext {
	return IdentityContext{UserID: p.ID, Username: p.Username}
}

func (e *testEnv) publishVideo(t *testing.T, owner *UserProfile, title string) *model.Video {
	t.Helper()
	v, err := e.content.PublishVideo(context.Background(), e.identity(owner),
		title, "desc of "+title, fmt.Sprintf("https://cdn.example.com/%s.mp4", title), "", 120)
	require.NoError(t, err)
	return v
}
