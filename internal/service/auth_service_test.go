package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fahroediin/resource-tracker/config"
	"github.com/fahroediin/resource-tracker/internal/dto"
	"github.com/fahroediin/resource-tracker/internal/model"
	pkgerrors "github.com/fahroediin/resource-tracker/pkg/errors"
	"github.com/fahroediin/resource-tracker/pkg/jwt"
)

// ── Mock TokenStore ──

type mockTokenStore struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newMockTokenStore() *mockTokenStore {
	return &mockTokenStore{revoked: make(map[string]time.Duration)}
}

func (m *mockTokenStore) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = ttl
	return nil
}

func (m *mockTokenStore) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[jti]
	return ok, nil
}

// ── 测试辅助 ──

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-key-for-unit-tests-32b",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: time.Hour,
			BcryptCost:      bcrypt.MinCost,
		},
		Seed: config.SeedConfig{OnSignIn: true},
	}
}

type authFixture struct {
	svc    *Service
	db     *memDB
	jwt    *jwt.Manager
	tokens *mockTokenStore
}

func setupTestAuth(t *testing.T, tokens *mockTokenStore) *authFixture {
	t.Helper()
	cfg := testConfig()
	db := newMemDB()
	mgr := jwt.NewManager(&cfg.Auth)

	var store TokenStore
	if tokens != nil {
		store = tokens
	}
	return &authFixture{
		svc:    NewService(cfg, newMockRepository(db), mgr, store, testLogger()),
		db:     db,
		jwt:    mgr,
		tokens: tokens,
	}
}

func (f *authFixture) signUp(t *testing.T, email string) *dto.TokenResponse {
	t.Helper()
	resp, err := f.svc.Auth.SignUp(context.Background(), &dto.SignUpRequest{
		Email: email, Password: "secret123", FullName: "Rina Wulandari",
	})
	if err != nil {
		t.Fatalf("SignUp 应成功: %v", err)
	}
	return resp
}

// ── SignUp / SignIn 测试 ──

func TestAuthService_SignUp_CreatesMemberProfile(t *testing.T) {
	f := setupTestAuth(t, nil)

	resp := f.signUp(t, " Rina@Company.com ")
	if resp.AccessToken == "" || resp.RefreshToken == "" || resp.ExpiresIn != 900 {
		t.Errorf("Token 对不完整: %+v", resp)
	}
	if resp.User.Email != "rina@company.com" || resp.User.Initials != "RW" {
		t.Errorf("身份信息不符: %+v", resp.User)
	}
	if resp.User.Profile == nil || resp.User.Profile.Role != string(model.RoleMember) {
		t.Fatalf("新用户应为 member 角色: %+v", resp.User.Profile)
	}
	if resp.User.Permissions.CanEdit || resp.User.Permissions.CanSeeUsers {
		t.Error("member 角色不应有编辑权限")
	}
	if len(f.db.identities) != 1 || f.db.identities[0].PasswordHash == "secret123" {
		t.Error("密码应以哈希形式保存")
	}
	if f.db.profiles[0].ProfileID != f.db.identities[0].IdentityID {
		t.Error("档案 ID 应与身份 ID 一致")
	}
}

func TestAuthService_SignUp_Rejections(t *testing.T) {
	f := setupTestAuth(t, nil)
	f.signUp(t, "rina@company.com")

	_, err := f.svc.Auth.SignUp(context.Background(), &dto.SignUpRequest{
		Email: "RINA@company.com", Password: "secret123", FullName: "Other",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("期望 ErrEmailTaken，实际: %v", err)
	}

	_, err = f.svc.Auth.SignUp(context.Background(), &dto.SignUpRequest{
		Email: "new@company.com", Password: "secret123", FullName: "  ",
	})
	assertValidation(t, err, "full_name")
}

func TestAuthService_SignUp_ConcurrentDuplicateIsEmailTaken(t *testing.T) {
	f := setupTestAuth(t, nil)
	// 查询时邮箱尚未注册，写入时被另一请求抢先
	f.db.fail["identity.create"] = gorm.ErrDuplicatedKey

	_, err := f.svc.Auth.SignUp(context.Background(), &dto.SignUpRequest{
		Email: "race@company.com", Password: "secret123", FullName: "Race",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("期望 ErrEmailTaken，实际: %v", err)
	}
	if pkgerrors.IsStore(err) {
		t.Error("唯一约束冲突不应作为存储错误返回")
	}
}

func TestAuthService_SignIn(t *testing.T) {
	f := setupTestAuth(t, nil)
	f.signUp(t, "rina@company.com")

	resp, err := f.svc.Auth.SignIn(context.Background(), &dto.SignInRequest{Email: "RINA@company.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("SignIn 应成功: %v", err)
	}
	claims, err := f.jwt.ParseToken(resp.AccessToken)
	if err != nil || claims.UserID != resp.User.ID || claims.TokenType != jwt.TokenTypeAccess {
		t.Errorf("AccessToken 内容不符: %+v, err=%v", claims, err)
	}

	for _, req := range []dto.SignInRequest{
		{Email: "rina@company.com", Password: "wrong-pass"},
		{Email: "nobody@company.com", Password: "secret123"},
	} {
		_, err := f.svc.Auth.SignIn(context.Background(), &req)
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
		}
		if !pkgerrors.IsAuth(err) || err.Error() != "Invalid login credentials" {
			t.Errorf("认证错误提示不符: %v", err)
		}
	}
}

func TestAuthService_SignIn_SeedsEmptyStoreOnce(t *testing.T) {
	f := setupTestAuth(t, nil)
	f.signUp(t, "rina@company.com")

	if len(f.db.members) != 7 || len(f.db.projects) != 4 {
		t.Fatalf("首次登录应写入演示数据，实际 members=%d projects=%d", len(f.db.members), len(f.db.projects))
	}

	if _, err := f.svc.Auth.SignIn(context.Background(), &dto.SignInRequest{Email: "rina@company.com", Password: "secret123"}); err != nil {
		t.Fatalf("SignIn 应成功: %v", err)
	}
	if len(f.db.members) != 7 || len(f.db.assignments) != 10 || len(f.db.skills) != 70 {
		t.Error("再次登录不应重复写入演示数据")
	}

	signIns := 0
	for _, l := range f.db.logs {
		if l.Action == model.ActionSignIn {
			signIns++
		}
	}
	if signIns != 2 {
		t.Errorf("期望 2 条登录审计日志，实际=%d", signIns)
	}
}

// ── SignOut / Refresh 测试 ──

func TestAuthService_SignOut_BlacklistsAccessToken(t *testing.T) {
	tokens := newMockTokenStore()
	f := setupTestAuth(t, tokens)
	resp := f.signUp(t, "rina@company.com")

	claims, err := f.jwt.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("解析 AccessToken 失败: %v", err)
	}
	if err := f.svc.Auth.SignOut(context.Background(), claims); err != nil {
		t.Fatalf("SignOut 应成功: %v", err)
	}
	ttl, ok := tokens.revoked[claims.ID]
	if !ok || ttl <= 0 || ttl > 15*time.Minute {
		t.Errorf("AccessToken 应写入黑名单直至过期，ttl=%v ok=%v", ttl, ok)
	}
}

func TestAuthService_SignOut_WithoutTokenStore(t *testing.T) {
	f := setupTestAuth(t, nil)
	resp := f.signUp(t, "rina@company.com")
	claims, _ := f.jwt.ParseToken(resp.AccessToken)

	if err := f.svc.Auth.SignOut(context.Background(), claims); err != nil {
		t.Errorf("未连接 Redis 时退出登录应降级成功: %v", err)
	}
	if err := f.svc.Auth.SignOut(context.Background(), nil); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("期望 ErrSessionInvalid，实际: %v", err)
	}
}

func TestAuthService_Refresh_RotatesToken(t *testing.T) {
	tokens := newMockTokenStore()
	f := setupTestAuth(t, tokens)
	first := f.signUp(t, "rina@company.com")

	second, err := f.svc.Auth.Refresh(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh 应成功: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Error("刷新后应签发新的 RefreshToken")
	}

	if _, err := f.svc.Auth.Refresh(context.Background(), first.RefreshToken); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("旧 RefreshToken 应失效，实际: %v", err)
	}
	if _, err := f.svc.Auth.Refresh(context.Background(), second.AccessToken); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("AccessToken 不能用于刷新，实际: %v", err)
	}
}

// ── Me / LoadActor 测试 ──

func TestAuthService_Me_ProfileDeleted(t *testing.T) {
	f := setupTestAuth(t, nil)
	resp := f.signUp(t, "rina@company.com")
	f.db.profiles = nil

	me, err := f.svc.Auth.Me(context.Background(), resp.User.ID)
	if err != nil {
		t.Fatalf("Me 应成功: %v", err)
	}
	if me.Profile != nil || me.DisplayName != "rina@company.com" || me.Permissions.CanEdit {
		t.Errorf("档案缺失时应退化为邮箱显示且无权限: %+v", me)
	}

	actor, err := f.svc.Auth.LoadActor(context.Background(), resp.User.ID, "rina@company.com")
	if err != nil {
		t.Fatalf("LoadActor 应成功: %v", err)
	}
	if actor.Role != "" || actor.CanEdit() || actor.IsAdmin() {
		t.Errorf("档案缺失时不应具备任何权限: %+v", actor)
	}
}

func TestAuthService_LoadActor_UsesStoredRole(t *testing.T) {
	f := setupTestAuth(t, nil)
	resp := f.signUp(t, "rina@company.com")
	f.db.profiles[0].Role = model.RoleHead

	actor, err := f.svc.Auth.LoadActor(context.Background(), resp.User.ID, "rina@company.com")
	if err != nil {
		t.Fatalf("LoadActor 应成功: %v", err)
	}
	if !actor.CanEdit() || actor.IsAdmin() || actor.FullName != "Rina Wulandari" {
		t.Errorf("Actor 不符: %+v", actor)
	}

	f.db.fail["profile.get"] = errMockStore
	if _, err := f.svc.Auth.LoadActor(context.Background(), resp.User.ID, ""); !pkgerrors.IsStore(err) {
		t.Errorf("期望 StoreError，实际: %v", err)
	}
}

func TestAuthService_Session(t *testing.T) {
	f := setupTestAuth(t, nil)
	resp := f.signUp(t, "rina@company.com")
	claims, _ := f.jwt.ParseToken(resp.AccessToken)

	s := f.svc.Auth.Session(claims)
	if s.UserID != resp.User.ID || s.TokenID != claims.ID || s.ExpiresAt == "" || s.IssuedAt == "" {
		t.Errorf("会话信息不符: %+v", s)
	}
}
