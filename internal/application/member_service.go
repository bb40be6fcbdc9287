package application

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/minsuk-ha/go-shop-ddd/internal/domain/apperrors"
	"github.com/minsuk-ha/go-shop-ddd/internal/domain/entity"
	"github.com/minsuk-ha/go-shop-ddd/internal/domain/event"
	repo "github.com/minsuk-ha/go-shop-ddd/internal/domain/repository"
	"github.com/minsuk-ha/go-shop-ddd/pkg/helpers"
)

// PasswordHasher is the credential-hashing collaborator. Production wiring
// uses helpers.BcryptHasher; tests substitute a fake.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// MemberService owns the member command handlers. Writes and their duplicate
// checks run inside one transaction through Tx, and domain events are staged
// in the outbox within that same transaction.
type MemberService struct {
	Members repo.MemberRepository
	Outbox  repo.OutboxRepository
	Tx      repo.TxManager
	Hasher  PasswordHasher
	JWT     *helpers.JWTManager
	Redis   *redis.Client
	Logger  *logrus.Logger
}

func NewMemberService(members repo.MemberRepository, outbox repo.OutboxRepository, tx repo.TxManager, hasher PasswordHasher, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *MemberService {
	return &MemberService{
		Members: members,
		Outbox:  outbox,
		Tx:      tx,
		Hasher:  hasher,
		JWT:     jwt,
		Redis:   rdb,
		Logger:  logger,
	}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(memberID string) string {
	return "member:session:" + memberID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

type JoinInput struct {
	Email         string
	Password      string
	Username      string
	Name          string
	AddressLine   string
	AddressDetail string
	PostalCode    int
	Role          string
}

type JoinResult struct {
	MemberID string `json:"member_id"`
	Username string `json:"username"`
}

// Join registers a new member. Field presence and username length are checked
// before any storage access; uniqueness checks and the insert then run inside
// one transaction so no write survives a failed check.
func (s *MemberService) Join(ctx context.Context, in JoinInput) (*JoinResult, error) {
	if in.Email == "" {
		return nil, apperrors.EmptyField("email")
	}
	if in.Password == "" {
		return nil, apperrors.EmptyField("password")
	}
	if in.Username == "" {
		return nil, apperrors.EmptyField("username")
	}
	if in.Role == "" {
		return nil, apperrors.EmptyField("role")
	}
	if err := entity.ValidateUsername(in.Username); err != nil {
		return nil, err
	}
	role, err := entity.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	var result *JoinResult
	err = s.Tx.WithTx(ctx, func(ctx context.Context) error {
		n, err := s.Members.CountByEmail(ctx, in.Email)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperrors.DuplicateEmail()
		}
		n, err = s.Members.CountByUsername(ctx, in.Username)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperrors.DuplicateUsername()
		}

		hash, err := s.Hasher.Hash(in.Password)
		if err != nil {
			return apperrors.Internal(err)
		}
		addr := entity.Address{Line: in.AddressLine, Detail: in.AddressDetail, PostalCode: in.PostalCode}
		m, err := entity.NewMember(in.Username, in.Email, hash, in.Name, addr, role)
		if err != nil {
			return err
		}
		if err := s.Members.Create(ctx, m); err != nil {
			return err
		}

		payload, err := json.Marshal(event.MemberJoined{
			MemberID: m.ID,
			Username: m.Username,
			Email:    m.Email,
			Name:     m.Name,
			JoinedAt: time.Now().UTC(),
		})
		if err != nil {
			return apperrors.Internal(err)
		}
		if err := s.Outbox.CreateEvent(ctx, &entity.OutboxEvent{
			AggregateID: m.ID,
			EventType:   event.TypeMemberJoined,
			Payload:     payload,
		}); err != nil {
			return err
		}

		result = &JoinResult{MemberID: m.ID, Username: m.Username}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"member_id": result.MemberID, "username": result.Username}).Info("member joined")
	}
	return result, nil
}

type SignInResult struct {
	MemberID string `json:"member_id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// SignIn authenticates by username and password, issues a token pair and
// records the session in Redis.
func (s *MemberService) SignIn(ctx context.Context, username, password string) (*SignInResult, TokenPair, error) {
	m, err := s.Members.GetByUsername(ctx, username)
	if err != nil || m == nil {
		return nil, TokenPair{}, apperrors.PasswordNotMatch()
	}
	if !s.Hasher.Compare(m.PasswordHash, password) {
		return nil, TokenPair{}, apperrors.PasswordNotMatch()
	}
	if m.Blocked {
		return nil, TokenPair{}, apperrors.InvalidArgument("member is blocked")
	}
	pair, err := s.issueTokens(ctx, m)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return &SignInResult{MemberID: m.ID, Username: m.Username, Name: m.Name, Role: string(m.Role)}, pair, nil
}

func (s *MemberService) issueTokens(ctx context.Context, m *entity.Member) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(m.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("member_id", m.ID).Error("generate access token failed")
		}
		return TokenPair{}, apperrors.Internal(err)
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(m.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("member_id", m.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, apperrors.Internal(err)
	}

	if s.Redis != nil {
		key := sessionKey(m.ID)
		fields := map[string]any{
			"member_id":  m.ID,
			"username":   m.Username,
			"role":       string(m.Role),
			"sid":        sid,
			"created_at": nowRFC3339(),
		}
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh rotates the session and issues a fresh token pair when the refresh
// token is valid and matches the stored session.
func (s *MemberService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", apperrors.PasswordNotMatch()
	}
	m, err := s.Members.GetByID(ctx, claims.MemberID)
	if err != nil || m == nil {
		return TokenPair{}, "", apperrors.PasswordNotMatch()
	}
	if m.Blocked {
		return TokenPair{}, "", apperrors.InvalidArgument("member is blocked")
	}
	if s.Redis != nil {
		key := sessionKey(m.ID)
		data, rErr := s.Redis.HGetAll(ctx, key).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", apperrors.PasswordNotMatch()
		}
	}
	pair, err := s.issueTokens(ctx, m)
	if err != nil {
		return TokenPair{}, "", err
	}
	return pair, m.ID, nil
}

// SignOut drops the member's session from Redis.
func (s *MemberService) SignOut(ctx context.Context, memberID string) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, sessionKey(memberID)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("member_id", memberID).Warn("session delete failed")
	}
}

// GetProfile loads a member by id.
func (s *MemberService) GetProfile(ctx context.Context, memberID string) (*entity.Member, error) {
	m, err := s.Members.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperrors.MemberNotFound()
	}
	return m, nil
}

// ChangePassword verifies the current password against the stored hash before
// swapping in the new one. The mismatch failure is deliberate and reported as
// its own variant, not as a generic validation error.
func (s *MemberService) ChangePassword(ctx context.Context, memberID, currentPassword, newPassword string) error {
	if newPassword == "" {
		return apperrors.EmptyField("password")
	}
	return s.Tx.WithTx(ctx, func(ctx context.Context) error {
		m, err := s.Members.GetByID(ctx, memberID)
		if err != nil {
			return err
		}
		if m == nil {
			return apperrors.MemberNotFound()
		}
		if !s.Hasher.Compare(m.PasswordHash, currentPassword) {
			return apperrors.PasswordNotMatch()
		}
		hash, err := s.Hasher.Hash(newPassword)
		if err != nil {
			return apperrors.Internal(err)
		}
		if err := m.ChangePasswordHash(hash); err != nil {
			return err
		}
		return s.Members.Update(ctx, m)
	})
}

type UpdateMemberInput struct {
	Email         string
	Username      string
	Name          string
	AddressLine   string
	AddressDetail string
	PostalCode    int
}

// UpdateMember replaces the member's profile. Duplicate checks exclude the
// member's own row so resubmitting an unchanged profile succeeds.
func (s *MemberService) UpdateMember(ctx context.Context, memberID string, in UpdateMemberInput) (*entity.Member, error) {
	if in.Email == "" {
		return nil, apperrors.EmptyField("email")
	}
	if err := entity.ValidateUsername(in.Username); err != nil {
		return nil, err
	}

	var updated *entity.Member
	err := s.Tx.WithTx(ctx, func(ctx context.Context) error {
		m, err := s.Members.GetByID(ctx, memberID)
		if err != nil {
			return err
		}
		if m == nil {
			return apperrors.MemberNotFound()
		}
		n, err := s.Members.CountByEmailExcluding(ctx, in.Email, memberID)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperrors.DuplicateEmail()
		}
		n, err = s.Members.CountByUsernameExcluding(ctx, in.Username, memberID)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperrors.DuplicateUsername()
		}
		addr := entity.Address{Line: in.AddressLine, Detail: in.AddressDetail, PostalCode: in.PostalCode}
		if err := m.Update(in.Email, in.Username, in.Name, addr); err != nil {
			return err
		}
		if err := s.Members.Update(ctx, m); err != nil {
			return err
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// BlockMember flips the blocked flag on and drops any live session, so the
// block takes effect immediately instead of at token expiry.
func (s *MemberService) BlockMember(ctx context.Context, memberID string) error {
	if err := s.setBlocked(ctx, memberID, true); err != nil {
		return err
	}
	s.SignOut(ctx, memberID)
	return nil
}

// UnblockMember flips the blocked flag off; the member signs in again
// normally afterwards.
func (s *MemberService) UnblockMember(ctx context.Context, memberID string) error {
	return s.setBlocked(ctx, memberID, false)
}

func (s *MemberService) setBlocked(ctx context.Context, memberID string, blocked bool) error {
	return s.Tx.WithTx(ctx, func(ctx context.Context) error {
		m, err := s.Members.GetByID(ctx, memberID)
		if err != nil {
			return err
		}
		if m == nil {
			return apperrors.MemberNotFound()
		}
		if blocked {
			m.Block()
		} else {
			m.Unblock()
		}
		return s.Members.Update(ctx, m)
	})
}

// DeleteMember removes the member row and drops any live session.
func (s *MemberService) DeleteMember(ctx context.Context, memberID string) error {
	err := s.Tx.WithTx(ctx, func(ctx context.Context) error {
		return s.Members.Delete(ctx, memberID)
	})
	if err != nil {
		return err
	}
	s.SignOut(ctx, memberID)
	return nil
}
