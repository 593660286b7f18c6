package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/internal/repository"
	"github.com/d60-Lab/vidtube/pkg/apperr"
)

func TestAuthService_RegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		fullName string
		username string
		email    string
		password string
	}{
		{"empty full name", "", "alice", "a@example.com", "passw0rd!"},
		{"short username", "Alice", "al", "a@example.com", "passw0rd!"},
		{"username with space", "Alice", "a lice", "a@example.com", "passw0rd!"},
		{"bad email", "Alice", "alice", "not-an-email", "passw0rd!"},
		{"short password", "Alice", "alice", "a@example.com", "p0!"},
		{"password without digit", "Alice", "alice", "a@example.com", "password!"},
		{"password without special", "Alice", "alice", "a@example.com", "passw0rd"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.auth.Register(ctx, tc.fullName, tc.username, tc.email, tc.password, "", "")
			require.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
		})
	}
}

func TestAuthService_RegisterNormalizesAndRejectsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.auth.Register(ctx, "Alice", "ALICE", "alice@example.com", "passw0rd!", "", "")
	require.NoError(t, err)
	// 用户名入库统一小写
	require.Equal(t, "alice", p.Username)

	_, err = env.auth.Register(ctx, "Alice Again", "alice", "other@example.com", "passw0rd!", "", "")
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	_, err = env.auth.Register(ctx, "Alice Again", "alice2", "alice@example.com", "passw0rd!", "", "")
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestAuthService_LoginAndAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	// 用户名或邮箱都能登录
	_, pair, err := env.auth.Login(ctx, "alice", "passw0rd!")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	_, _, err = env.auth.Login(ctx, "alice@example.com", "passw0rd!")
	require.NoError(t, err)

	_, _, err = env.auth.Login(ctx, "alice", "wrong-pass1!")
	require.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	_, _, err = env.auth.Login(ctx, "nobody", "passw0rd!")
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	id, err := env.auth.Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, alice.ID, id.UserID)
	require.Equal(t, "alice", id.Username)

	// refresh token 不能当 access token 用（密钥不同）
	_, err = env.auth.Authenticate(ctx, pair.RefreshToken)
	require.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	_, err = env.auth.Authenticate(ctx, "garbage")
	require.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestAuthService_RefreshIsSingleUse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice")
	_, pair1, err := env.auth.Login(ctx, "alice", "passw0rd!")
	require.NoError(t, err)

	pair2, err := env.auth.Refresh(ctx, pair1.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair1.RefreshToken, pair2.RefreshToken)

	// 旧 token 已被轮换，重放失败
	_, err = env.auth.Refresh(ctx, pair1.RefreshToken)
	require.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	// 新 token 正常可用
	_, err = env.auth.Refresh(ctx, pair2.RefreshToken)
	require.NoError(t, err)
}

func TestAuthService_ConcurrentRefreshSingleWinner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice")
	_, pair, err := env.auth.Login(ctx, "alice", "passw0rd!")
	require.NoError(t, err)

	// 同一个 refresh token 并发刷新：CAS 保证恰好一个成功
	const workers = 12
	var wg sync.WaitGroup
	results := make(chan error, workers)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := env.auth.Refresh(ctx, pair.RefreshToken)
			results <- err
		}()
	}
	close(start)
	wg.Wait()
	close(results)

	var wins, rejects int
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		require.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
		rejects++
	}
	require.Equal(t, 1, wins)
	require.Equal(t, workers-1, rejects)
}

func TestAuthService_LogoutInvalidatesRefresh(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	_, pair, err := env.auth.Login(ctx, "alice", "passw0rd!")
	require.NoError(t, err)

	require.NoError(t, env.auth.Logout(ctx, alice.ID))
	_, err = env.auth.Refresh(ctx, pair.RefreshToken)
	require.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	// 登出幂等
	require.NoError(t, env.auth.Logout(ctx, alice.ID))
}

func TestAuthService_ChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	id := env.identity(alice)

	err := env.auth.ChangePassword(ctx, id, "wrong-old1!", "n3w-secret!")
	require.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	err = env.auth.ChangePassword(ctx, id, "passw0rd!", "weak")
	require.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))

	require.NoError(t, env.auth.ChangePassword(ctx, id, "passw0rd!", "n3w-secret!"))
	_, _, err = env.auth.Login(ctx, "alice", "passw0rd!")
	require.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	_, _, err = env.auth.Login(ctx, "alice", "n3w-secret!")
	require.NoError(t, err)
}

func TestAuthService_CurrentUserAndUpdateAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	id := env.identity(alice)

	p, err := env.auth.CurrentUser(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "alice", p.Username)

	p, err = env.auth.UpdateAccount(ctx, id, "Alice Cooper", "cooper@example.com")
	require.NoError(t, err)
	require.Equal(t, "Alice Cooper", p.FullName)
	require.Equal(t, "cooper@example.com", p.Email)

	_, err = env.auth.UpdateAccount(ctx, id, "Alice", "not-an-email")
	require.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}

// raceUserRepo 模拟注册竞态：存在性预检永远说没有，Create 撞唯一键
type raceUserRepo struct {
	repository.UserRepository
}

func (r *raceUserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	return false, nil
}

// timeoutUserRepo 模拟存储超时
type timeoutUserRepo struct {
	repository.UserRepository
}

func (r *timeoutUserRepo) Create(ctx context.Context, user *model.User) error {
	return context.DeadlineExceeded
}

func TestAuthService_RegisterRaceMapsToConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice")

	// 预检和写入之间另一请求已占用用户名，唯一键兜底要报 Conflict
	auth := NewAuthService(&raceUserRepo{UserRepository: env.users}, env.tokens, env.hasher)
	_, err := auth.Register(ctx, "Alice Again", "alice", "again@example.com", "passw0rd!", "", "")
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestAuthService_RegisterStoreTimeoutIsUnavailable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// 存储超时不是冲突，得报 Unavailable 让调用方重试
	auth := NewAuthService(&timeoutUserRepo{UserRepository: env.users}, env.tokens, env.hasher)
	_, err := auth.Register(ctx, "Alice", "alice", "alice@example.com", "passw0rd!", "", "")
	require.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))
}
