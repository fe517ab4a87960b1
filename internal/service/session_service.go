package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ── 会话模块业务错误 ──

var (
	ErrTokenIDMissing        = errors.New("Token 缺少 jti，无法吊销")
	ErrRevocationUnavailable = errors.New("吊销名单不可用")
)

// TokenRevoker 写入 Token 吊销名单
type TokenRevoker interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
}

// SessionService 会话业务接口
type SessionService interface {
	// Revoke 吊销当前 Token，名单条目在 Token 过期时自动失效
	Revoke(ctx context.Context, userID, tokenID string, expiresAt time.Time) error
}

type sessionService struct {
	revoker TokenRevoker
	now     func() time.Time
	logger  *zap.Logger
}

// NewSessionService 创建 SessionService 实例；revoker 为 nil 时吊销返回 ErrRevocationUnavailable
func NewSessionService(revoker TokenRevoker, logger *zap.Logger) SessionService {
	return &sessionService{revoker: revoker, now: time.Now, logger: logger}
}

func (s *sessionService) Revoke(ctx context.Context, userID, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return ErrTokenIDMissing
	}
	if s.revoker == nil {
		return ErrRevocationUnavailable
	}

	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		// 已过期的 Token 不会再通过校验
		return nil
	}
	if err := s.revoker.RevokeToken(ctx, tokenID, ttl); err != nil {
		reqLogger(ctx, s.logger).Error("写入吊销名单失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	reqLogger(ctx, s.logger).Info("Token 已吊销", zap.String("user_id", userID), zap.Duration("ttl", ttl))
	return nil
}
