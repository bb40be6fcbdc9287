package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minsuk-ha/go-shop-ddd/internal/domain/apperrors"
	"github.com/minsuk-ha/go-shop-ddd/internal/domain/entity"
	repo "github.com/minsuk-ha/go-shop-ddd/internal/domain/repository"
)

type MemberRepository struct {
	pool *pgxpool.Pool
}

func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

const memberColumns = `id, username, email, password_hash, name, address_line, address_detail, postal_code, role, blocked, created_at, updated_at`

func scanMember(row pgx.Row) (*entity.Member, error) {
	m := &entity.Member{}
	err := row.Scan(&m.ID, &m.Username, &m.Email, &m.PasswordHash, &m.Name,
		&m.Address.Line, &m.Address.Detail, &m.Address.PostalCode,
		&m.Role, &m.Blocked, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MemberNotFound()
		}
		return nil, err
	}
	return m, nil
}

// mapUniqueViolation turns a unique-index violation into the matching
// duplicate variant. The race window between the count check and the insert
// lands here.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch {
		case strings.Contains(pgErr.ConstraintName, "email"):
			return apperrors.DuplicateEmail()
		case strings.Contains(pgErr.ConstraintName, "username"):
			return apperrors.DuplicateUsername()
		}
	}
	return err
}

func (r *MemberRepository) Create(ctx context.Context, m *entity.Member) error {
	q := queryFrom(ctx, r.pool)
	row := q.QueryRow(ctx, `
		INSERT INTO members (username, email, password_hash, name, address_line, address_detail, postal_code, role, blocked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, m.Username, m.Email, m.PasswordHash, m.Name,
		m.Address.Line, m.Address.Detail, m.Address.PostalCode, m.Role, m.Blocked)

	if err := row.Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

func (r *MemberRepository) GetByID(ctx context.Context, id string) (*entity.Member, error) {
	q := queryFrom(ctx, r.pool)
	return scanMember(q.QueryRow(ctx, `
		SELECT `+memberColumns+`
		FROM members
		WHERE id = $1
	`, id))
}

func (r *MemberRepository) GetByUsername(ctx context.Context, username string) (*entity.Member, error) {
	q := queryFrom(ctx, r.pool)
	return scanMember(q.QueryRow(ctx, `
		SELECT `+memberColumns+`
		FROM members
		WHERE username = $1
	`, username))
}

func (r *MemberRepository) CountByEmail(ctx context.Context, email string) (int64, error) {
	q := queryFrom(ctx, r.pool)
	var n int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM members WHERE email = $1`, email).Scan(&n)
	return n, err
}

func (r *MemberRepository) CountByUsername(ctx context.Context, username string) (int64, error) {
	q := queryFrom(ctx, r.pool)
	var n int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM members WHERE username = $1`, username).Scan(&n)
	return n, err
}

func (r *MemberRepository) CountByEmailExcluding(ctx context.Context, email, memberID string) (int64, error) {
	q := queryFrom(ctx, r.pool)
	var n int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM members WHERE email = $1 AND id <> $2`, email, memberID).Scan(&n)
	return n, err
}

func (r *MemberRepository) CountByUsernameExcluding(ctx context.Context, username, memberID string) (int64, error) {
	q := queryFrom(ctx, r.pool)
	var n int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM members WHERE username = $1 AND id <> $2`, username, memberID).Scan(&n)
	return n, err
}

func (r *MemberRepository) Update(ctx context.Context, m *entity.Member) error {
	q := queryFrom(ctx, r.pool)
	m.UpdatedAt = time.Now().UTC()

	res, err := q.Exec(ctx, `
		UPDATE members
		SET username = $1, email = $2, password_hash = $3, name = $4,
		    address_line = $5, address_detail = $6, postal_code = $7,
		    role = $8, blocked = $9, updated_at = $10
		WHERE id = $11
	`, m.Username, m.Email, m.PasswordHash, m.Name,
		m.Address.Line, m.Address.Detail, m.Address.PostalCode,
		m.Role, m.Blocked, m.UpdatedAt, m.ID)
	if err != nil {
		return mapUniqueViolation(err)
	}
	if res.RowsAffected() == 0 {
		return apperrors.MemberNotFound()
	}
	return nil
}

func (r *MemberRepository) Delete(ctx context.Context, id string) error {
	q := queryFrom(ctx, r.pool)
	res, err := q.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperrors.MemberNotFound()
	}
	return nil
}

var _ repo.MemberRepository = (*MemberRepository)(nil)
