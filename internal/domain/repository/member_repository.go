package repository

import (
	"context"

	"github.com/minsuk-ha/go-shop-ddd/internal/domain/entity"
)

// MemberRepository defines the member lookup/persistence contract consumed by
// the command handlers. Implementations must honor the transaction carried in
// ctx so duplicate checks and the following write share one transactional scope.
type MemberRepository interface {
	Create(ctx context.Context, m *entity.Member) error
	GetByID(ctx context.Context, id string) (*entity.Member, error)
	GetByUsername(ctx context.Context, username string) (*entity.Member, error)
	CountByEmail(ctx context.Context, email string) (int64, error)
	CountByUsername(ctx context.Context, username string) (int64, error)
	// Excluding variants keep a member's own row out of its duplicate checks
	// so a no-op update never fails as a duplicate of itself.
	CountByEmailExcluding(ctx context.Context, email, memberID string) (int64, error)
	CountByUsernameExcluding(ctx context.Context, username, memberID string) (int64, error)
	Update(ctx context.Context, m *entity.Member) error
	Delete(ctx context.Context, id string) error
}
