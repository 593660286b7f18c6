package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/vidtube/config"
	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/internal/repository"
	"github.com/d60-Lab/vidtube/internal/service"
	"github.com/d60-Lab/vidtube/pkg/database"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))

	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	relSvc := service.NewRelationService(likeRepo, subRepo, userRepo, videoRepo, tweetRepo, commentRepo)

	ctx := context.Background()

	N := 10000
	if s := os.Getenv("N"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 { N = n }
	}
	CONC := 8
	if s := os.Getenv("CONC"); s != "" {
		if c, err := strconv.Atoi(s); err == nil && c > 0 { CONC = c }
	}

	// seed: 一个热门视频，N 个用户并发点赞
	owner := model.User{ID: uuid.New().String(), Username: "owner", Email: "owner@example.com", FullName: "Owner", Password: "p"}
	_ = db.Where("username = ?", owner.Username).FirstOrCreate(&owner).Error
	video := model.Video{ID: uuid.New().String(), OwnerID: owner.ID, Title: "hot", Description: "d"}
	_ = db.Create(&video).Error

	users := make([]model.User, N)
	batch := 1000
	for i := 0; i < N; i++ {
		id := uuid.New().String()
		users[i] = model.User{ID: id, Username: "u" + id[:8], Email: id[:8] + "@example.com", FullName: "u", Password: "p"}
		if (i+1)%batch == 0 {
			sub := users[i+1-batch : i+1]
			_ = db.Create(&sub).Error
		}
	}
	if N%batch != 0 {
		sub := users[N-N%batch:]
		_ = db.Create(&sub).Error
	}

	recs := make([]time.Duration, 0, N)
	recCh := make(chan time.Duration, N)

	t0 := time.Now()
	workers := CONC
	if workers > N { workers = N }
	feed := make(chan int, N)
	for i := 0; i < N; i++ { feed <- i }
	close(feed)
	done := make(chan struct{}, workers)
	for w := 0; w < workers; w++ {
		go func() {
			for i := range feed {
				st := time.Now()
				_, _ = relSvc.ToggleLike(ctx, users[i].ID, model.KindVideo, video.ID)
				recCh <- time.Since(st)
			}
			done <- struct{}{}
		}()
	}
	for w := 0; w < workers; w++ { <-done }
	close(recCh)
	for d := range recCh { recs = append(recs, d) }
	toggleDur := time.Since(t0)

	q0 := time.Now()
	likes := must(relSvc.CountLikes(ctx, model.KindVideo, video.ID))
	countDur := time.Since(q0)

	pct := func(vs []time.Duration, p float64) time.Duration {
		if len(vs) == 0 { return 0 }
		xs := append([]time.Duration(nil), vs...)
		sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
		k := int(math.Ceil(p*float64(len(xs)))) - 1
		if k < 0 { k = 0 }
		if k >= len(xs) { k = len(xs)-1 }
		return xs[k]
	}

	fmt.Printf("N=%d, CONC=%d\n", N, CONC)
	fmt.Printf("Toggle like total: %v, per op: %v, p50: %v, p95: %v, p99: %v\n",
		toggleDur, toggleDur/time.Duration(N), pct(recs, 0.50), pct(recs, 0.95), pct(recs, 0.99))
	fmt.Printf("CountLikes=%d, latency: %v\n", likes, countDur)
}
