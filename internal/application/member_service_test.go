package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/minsuk-ha/go-shop-ddd/internal/domain/apperrors"
	"github.com/minsuk-ha/go-shop-ddd/internal/domain/entity"
	"github.com/minsuk-ha/go-shop-ddd/internal/domain/event"
	"github.com/minsuk-ha/go-shop-ddd/pkg/helpers"
)

type fakeTx struct{}

func (fakeTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeHasher struct{}

func (fakeHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (fakeHasher) Compare(hash, plain string) bool { return hash == "hashed:"+plain }

type fakeMemberRepo struct {
	members map[string]*entity.Member
	nextID  int
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: map[string]*entity.Member{}}
}

func (r *fakeMemberRepo) Create(ctx context.Context, m *entity.Member) error {
	r.nextID++
	m.ID = fmt.Sprintf("m-%d", r.nextID)
	m.CreatedAt = time.Now().UTC()
	m.UpdatedAt = m.CreatedAt
	clone := *m
	r.members[m.ID] = &clone
	return nil
}

func (r *fakeMemberRepo) GetByID(ctx context.Context, id string) (*entity.Member, error) {
	m, ok := r.members[id]
	if !ok {
		return nil, apperrors.MemberNotFound()
	}
	clone := *m
	return &clone, nil
}

func (r *fakeMemberRepo) GetByUsername(ctx context.Context, username string) (*entity.Member, error) {
	for _, m := range r.members {
		if m.Username == username {
			clone := *m
			return &clone, nil
		}
	}
	return nil, apperrors.MemberNotFound()
}

func (r *fakeMemberRepo) CountByEmail(ctx context.Context, email string) (int64, error) {
	return r.CountByEmailExcluding(ctx, email, "")
}

func (r *fakeMemberRepo) CountByUsername(ctx context.Context, username string) (int64, error) {
	return r.CountByUsernameExcluding(ctx, username, "")
}

func (r *fakeMemberRepo) CountByEmailExcluding(ctx context.Context, email, memberID string) (int64, error) {
	var n int64
	for _, m := range r.members {
		if m.Email == email && m.ID != memberID {
			n++
		}
	}
	return n, nil
}

func (r *fakeMemberRepo) CountByUsernameExcluding(ctx context.Context, username, memberID string) (int64, error) {
	var n int64
	for _, m := range r.members {
		if m.Username == username && m.ID != memberID {
			n++
		}
	}
	return n, nil
}

func (r *fakeMemberRepo) Update(ctx context.Context, m *entity.Member) error {
	if _, ok := r.members[m.ID]; !ok {
		return apperrors.MemberNotFound()
	}
	clone := *m
	r.members[m.ID] = &clone
	return nil
}

func (r *fakeMemberRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.members[id]; !ok {
		return apperrors.MemberNotFound()
	}
	delete(r.members, id)
	return nil
}

type fakeOutbox struct {
	events []*entity.OutboxEvent
}

func (o *fakeOutbox) CreateEvent(ctx context.Context, e *entity.OutboxEvent) error {
	e.ID = int64(len(o.events) + 1)
	e.CreatedAt = time.Now().UTC()
	o.events = append(o.events, e)
	return nil
}

func (o *fakeOutbox) GetUnpublished(ctx context.Context, limit int) ([]*entity.OutboxEvent, error) {
	out := make([]*entity.OutboxEvent, 0)
	for _, e := range o.events {
		if e.PublishedAt == nil {
			out = append(out, e)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (o *fakeOutbox) MarkPublished(ctx context.Context, id int64) error {
	for _, e := range o.events {
		if e.ID == id {
			now := time.Now().UTC()
			e.PublishedAt = &now
		}
	}
	return nil
}

func newMemberService(repo *fakeMemberRepo, outbox *fakeOutbox) *MemberService {
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	return NewMemberService(repo, outbox, fakeTx{}, fakeHasher{}, jwt, nil, nil)
}

func validJoin() JoinInput {
	return JoinInput{
		Email:    "minsuk@example.com",
		Password: "secret123",
		Username: "minsuk",
		Name:     "Minsuk",
		Role:     "USER",
	}
}

func TestJoin(t *testing.T) {
	repo := newFakeMemberRepo()
	outbox := &fakeOutbox{}
	svc := newMemberService(repo, outbox)

	res, err := svc.Join(context.Background(), validJoin())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.MemberID == "" || res.Username != "minsuk" {
		t.Errorf("result = %+v", res)
	}

	stored := repo.members[res.MemberID]
	if stored == nil {
		t.Fatal("member not persisted")
	}
	if stored.PasswordHash != "hashed:secret123" {
		t.Errorf("stored hash = %q", stored.PasswordHash)
	}
	if stored.Role != entity.RoleUser {
		t.Errorf("role = %q", stored.Role)
	}

	if len(outbox.events) != 1 {
		t.Fatalf("outbox events = %d, want 1", len(outbox.events))
	}
	if outbox.events[0].EventType != event.TypeMemberJoined {
		t.Errorf("event type = %q", outbox.events[0].EventType)
	}
	if outbox.events[0].AggregateID != res.MemberID {
		t.Errorf("aggregate id = %q", outbox.events[0].AggregateID)
	}
}

func TestJoinPlaintextNeverStored(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := newMemberService(repo, &fakeOutbox{})

	res, err := svc.Join(context.Background(), validJoin())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.members[res.MemberID].PasswordHash == "secret123" {
		t.Fatal("plaintext password stored")
	}
}

func TestJoinRequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*JoinInput)
		field  string
	}{
		{"missing email", func(in *JoinInput) { in.Email = "" }, "email"},
		{"missing password", func(in *JoinInput) { in.Password = "" }, "password"},
		{"missing username", func(in *JoinInput) { in.Username = "" }, "username"},
		{"missing role", func(in *JoinInput) { in.Role = "" }, "role"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			repo := newFakeMemberRepo()
			outbox := &fakeOutbox{}
			svc := newMemberService(repo, outbox)

			in := validJoin()
			c.mutate(&in)
			_, err := svc.Join(context.Background(), in)
			if apperrors.KindOf(err) != apperrors.KindEmptyField {
				t.Fatalf("kind = %q", apperrors.KindOf(err))
			}
			if len(repo.members) != 0 || len(outbox.events) != 0 {
				t.Error("failed join must not write")
			}
		})
	}
}

func TestJoinLongUsernameWritesNothing(t *testing.T) {
	repo := newFakeMemberRepo()
	outbox := &fakeOutbox{}
	svc := newMemberService(repo, outbox)

	in := validJoin()
	in.Username = "verylongusername123"
	_, err := svc.Join(context.Background(), in)
	if apperrors.KindOf(err) != apperrors.KindInvalidUsernameLength {
		t.Fatalf("kind = %q", apperrors.KindOf(err))
	}
	if len(repo.members) != 0 || len(outbox.events) != 0 {
		t.Error("failed join must not write")
	}
}

func TestJoinEmptyChecksPrecedeLengthCheck(t *testing.T) {
	svc := newMemberService(newFakeMemberRepo(), &fakeOutbox{})

	// Both defects present; the missing role must win over the long username.
	in := validJoin()
	in.Role = ""
	in.Username = "verylongusername123"
	_, err := svc.Join(context.Background(), in)
	if apperrors.KindOf(err) != apperrors.KindEmptyField {
		t.Fatalf("kind = %q", apperrors.KindOf(err))
	}
}

func TestJoinUnknownRole(t *testing.T) {
	svc := newMemberService(newFakeMemberRepo(), &fakeOutbox{})
	in := validJoin()
	in.Role = "GUEST"
	_, err := svc.Join(context.Background(), in)
	if apperrors.KindOf(err) != apperrors.KindInvalidArgument {
		t.Fatalf("kind = %q", apperrors.KindOf(err))
	}
}

func TestJoinDuplicateEmail(t *testing.T) {
	repo := newFakeMemberRepo()
	outbox := &fakeOutbox{}
	svc := newMemberService(repo, outbox)

	if _, err := svc.Join(context.Background(), validJoin()); err != nil {
		t.Fatalf("first join: %v", err)
	}
	in := validJoin()
	in.Username = "other"
	_, err := svc.Join(context.Background(), in)
	if apperrors.KindOf(err) != apperrors.KindDuplicateEmail {
		t.Fatalf("kind = %q", apperrors.KindOf(err))
	}
	if len(repo.members) != 1 || len(outbox.events) != 1 {
		t.Error("failed join must not write")
	}
}

func TestJoinDuplicateUsername(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := newMemberService(repo, &fakeOutbox{})

	if _, err := svc.Join(context.Background(), validJoin()); err != nil {
		t.Fatalf("first join: %v", err)
	}
	in := validJoin()
	in.Email = "other@example.com"
	_, err := svc.Join(context.Background(), in)
	if apperrors.KindOf(err) != apperrors.KindDuplicateUsername {
		t.Fatalf("kind = %q", apperrors.KindOf(err))
	}
}

func TestChangePassword(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := newMemberService(repo, &fakeOutbox{})
	res, _ := svc.Join(context.Background(), validJoin())

	if err := svc.ChangePassword(context.Background(), res.MemberID, "secret123", "newsecret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.members[res.MemberID].PasswordHash != "hashed:newsecret" {
		t.Errorf("hash = %q", repo.members[res.MemberID].PasswordHash)
	}
}

func TestChangePasswordMismatch(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := newMemberService(repo, &fakeOutbox{})
	res, _ := svc.Join(context.Background(), validJoin())

	err := svc.ChangePassword(context.Background(), res.MemberID, "wrongpass", "newsecret")
	if apperrors.KindOf(err) != apperrors.KindPasswordNotMatch {
		t.Fatalf("kind = %q", apperrors.KindOf(err))
	}
	if repo.members[res.MemberID].PasswordHash != "hashed:secret123" {
		t.Error("hash must not change on mismatch")
	}
}

func TestChangePasswordMemberNotFound(t *testing.T) {
	svc := newMemberService(newFakeMemberRepo(), &fakeOutbox{})
	err := svc.ChangePassword(context.Background(), "missing", "a", "b")
	if apperrors.KindOf(err) != apperrors.KindMemberNotFound {
		t.Fatalf("kind = %q", apperrors.KindOf(err))
	}
}

func TestUpdateMemberKeepsOwnIdentity(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := newMemberService(repo, &fakeOutbox{})
	res, _ := svc.Join(context.Background(), validJoin())

	// Same email and username resubmitted; own row must not trip the
	// duplicate checks.
	m, err := svc.UpdateMember(context.Background(), res.MemberID, UpdateMemberInput{
		Email:    "minsuk@example.com",
		Username: "minsuk",
		Name:     "Renamed",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Name != "Renamed" {
		t.Errorf("name = %q", m.Name)
	}
}

func TestUpdateMemberDuplicateEmail(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := newMemberService(repo, &fakeOutbox{})
	res, _ := svc.Join(context.Background(), validJoin())

	other := validJoin()
	other.Email = "other@example.com"
	other.Username = "other"
	if _, err := svc.Join(context.Background(), other); err != nil {
		t.Fatalf("second join: %v", err)
	}

	_, err := svc.UpdateMember(context.Background(), res.MemberID, UpdateMemberInput{
		Email:    "other@example.com",
		Username: "minsuk",
	})
	if apperrors.KindOf(err) != apperrors.KindDuplicateEmail {
		t.Fatalf("kind = %q", apperrors.KindOf(err))
	}
	if repo.members[res.MemberID].Email != "minsuk@example.com" {
		t.Error("failed update must not mutate")
	}
}

func TestUpdateMemberNotFound(t *testing.T) {
	svc := newMemberService(newFakeMemberRepo(), &fakeOutbox{})
	_, err := svc.UpdateMember(context.Background(), "missing", UpdateMemberInput{
		Email:    "a@example.com",
		Username: "a",
	})
	if apperrors.KindOf(err) != apperrors.KindMemberNotFound {
		t.Fatalf("kind = %q", apperrors.KindOf(err))
	}
}

func TestDeleteMember(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := newMemberService(repo, &fakeOutbox{})
	res, _ := svc.Join(context.Background(), validJoin())

	if err := svc.DeleteMember(context.Background(), res.MemberID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.members) != 0 {
		t.Error("member not deleted")
	}
	err := svc.DeleteMember(context.Background(), res.MemberID)
	if apperrors.KindOf(err) != apperrors.KindMemberNotFound {
		t.Fatalf("second delete kind = %q", apperrors.KindOf(err))
	}
}

func TestBlockMember(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := newMemberService(repo, &fakeOutbox{})
	res, _ := svc.Join(context.Background(), validJoin())

	if err := svc.BlockMember(context.Background(), res.MemberID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.members[res.MemberID].Blocked {
		t.Error("blocked flag not persisted")
	}
	if _, _, err := svc.SignIn(context.Background(), "minsuk", "secret123"); apperrors.KindOf(err) != apperrors.KindInvalidArgument {
		t.Errorf("blocked sign-in kind = %q", apperrors.KindOf(err))
	}

	if err := svc.UnblockMember(context.Background(), res.MemberID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.members[res.MemberID].Blocked {
		t.Error("blocked flag not cleared")
	}
	if _, _, err := svc.SignIn(context.Background(), "minsuk", "secret123"); err != nil {
		t.Errorf("sign-in after unblock: %v", err)
	}
}

func TestBlockMemberNotFound(t *testing.T) {
	svc := newMemberService(newFakeMemberRepo(), &fakeOutbox{})
	if err := svc.BlockMember(context.Background(), "missing"); apperrors.KindOf(err) != apperrors.KindMemberNotFound {
		t.Fatalf("kind = %q", apperrors.KindOf(err))
	}
	if err := svc.UnblockMember(context.Background(), "missing"); apperrors.KindOf(err) != apperrors.KindMemberNotFound {
		t.Fatalf("kind = %q", apperrors.KindOf(err))
	}
}

func TestSignIn(t *testing.T) {
	svc := newMemberService(newFakeMemberRepo(), &fakeOutbox{})
	if _, err := svc.Join(context.Background(), validJoin()); err != nil {
		t.Fatalf("join: %v", err)
	}

	res, pair, err := svc.SignIn(context.Background(), "minsuk", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Username != "minsuk" {
		t.Errorf("username = %q", res.Username)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Error("tokens not issued")
	}

	if _, _, err := svc.SignIn(context.Background(), "minsuk", "wrong"); apperrors.KindOf(err) != apperrors.KindPasswordNotMatch {
		t.Errorf("wrong password kind = %q", apperrors.KindOf(err))
	}
	if _, _, err := svc.SignIn(context.Background(), "nobody", "secret123"); apperrors.KindOf(err) != apperrors.KindPasswordNotMatch {
		t.Errorf("unknown member kind = %q", apperrors.KindOf(err))
	}
}
