package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"medimarket/internal/converter"
	"medimarket/internal/delivery/dto"
	"medimarket/internal/domain/entity"
	"medimarket/internal/domain/port"
	"medimarket/internal/domain/repository"
	"medimarket/pkg/jwt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrIdentityEmailMissing = errors.New("identity has no email address")
	ErrIdentityConflict     = errors.New("identity could not be linked to a user")
)

type IdentityUsecase interface {
	// SyncUser returns the internal user for a verified identity, linking or creating it.
	SyncUser(ctx context.Context, claims *jwt.Claims) (*dto.SyncUserResponse, error)
	ResolveUser(ctx context.Context, authID string) (*entity.User, error)
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
}

type identityUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           repository.UserRepository
	patientProfileRepo repository.PatientProfileRepository
	cache              port.IdentityCache
	denylist           port.TokenDenylist
}

func NewIdentityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	patientProfileRepo repository.PatientProfileRepository,
	cache port.IdentityCache,
	denylist port.TokenDenylist,
) IdentityUsecase {
	return &identityUsecase{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		patientProfileRepo: patientProfileRepo,
		cache:              cache,
		denylist:           denylist,
	}
}

// SyncUser resolves the caller in three steps:
// 1. By provider subject -> touch last login
// 2. By email -> attach the subject to the existing row
// 3. Otherwise create a patient with a best-effort profile
//
// A failed lookup is an error, never a "not found".
func (u *identityUsecase) SyncUser(ctx context.Context, claims *jwt.Claims) (*dto.SyncUserResponse, error) {
	db := u.db.WithContext(ctx)
	now := time.Now().UTC()

	// Step 1: known subject
	user, err := u.userRepo.FindByAuthID(db, claims.Subject)
	if err != nil {
		u.log.Warnf("Failed to find user by auth id %s: %+v", claims.Subject, err)
		return nil, err
	}
	if user != nil {
		if err := u.userRepo.TouchLastLogin(db, user.ID, now); err != nil {
			u.log.Warnf("Failed to update last login for user %s: %+v", user.ID, err)
			return nil, err
		}
		user.LastLogin = &now
		u.remember(ctx, claims.Subject, user)
		return u.syncResponse(user, false, false), nil
	}

	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" {
		return nil, ErrIdentityEmailMissing
	}

	// Step 2: existing row with the same email
	user, err = u.userRepo.FindByEmail(db, email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user != nil {
		return u.link(ctx, user, claims.Subject, now)
	}

	// Step 3: first login
	return u.create(ctx, claims, email, now)
}

func (u *identityUsecase) link(ctx context.Context, user *entity.User, authID string, now time.Time) (*dto.SyncUserResponse, error) {
	db := u.db.WithContext(ctx)

	previous := user.AuthID

	rows, err := u.userRepo.LinkAuthID(db, user.ID, authID, now)
	if err != nil {
		if isDuplicateKeyError(err) {
			return u.reread(ctx, authID)
		}
		u.log.Warnf("Failed to link auth id to user %s: %+v", user.ID, err)
		return nil, err
	}
	if rows == 0 {
		// row deleted between lookup and link
		return u.reread(ctx, authID)
	}

	if previous != nil && *previous != authID {
		u.log.Infof("Moving user %s from identity %s to %s", user.ID, *previous, authID)
		if err := u.cache.Delete(ctx, *previous); err != nil {
			u.log.Warnf("Failed to evict identity cache for %s: %+v", *previous, err)
		}
	}

	user.AuthID = &authID
	user.IsVerified = true
	user.LastLogin = &now
	u.log.Infof("Linked identity %s to existing user %s", authID, user.ID)
	u.remember(ctx, authID, user)
	return u.syncResponse(user, false, true), nil
}

func (u *identityUsecase) create(ctx context.Context, claims *jwt.Claims, email string, now time.Time) (*dto.SyncUserResponse, error) {
	db := u.db.WithContext(ctx)

	name := claims.FullName()
	if name == "" {
		name = email
	}
	authID := claims.Subject

	user := &entity.User{
		AuthID:          &authID,
		RoleID:          entity.RoleIDPatient,
		Email:           email,
		Name:            name,
		Phone:           claims.PhoneNumber,
		ProfileImageURL: claims.Picture,
		IsActive:        true,
		IsVerified:      true,
		LastLogin:       &now,
	}

	if err := u.userRepo.Create(db, user); err != nil {
		if isDuplicateKeyError(err) {
			// lost a race with a concurrent first login
			return u.reread(ctx, authID)
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	profile := &entity.PatientProfile{
		UserID:      user.ID,
		PhoneNumber: claims.PhoneNumber,
	}
	if err := u.patientProfileRepo.Upsert(db, profile); err != nil {
		u.log.Warnf("Failed to create patient profile for user %s (non-fatal): %+v", user.ID, err)
	}

	user.Role = entity.Role{ID: entity.RoleIDPatient, RoleName: entity.RolePatient}
	u.log.Infof("Created user %s for identity %s", user.ID, authID)
	u.remember(ctx, authID, user)
	return u.syncResponse(user, true, false), nil
}

// reread returns the row that a concurrent sync wrote for this subject
func (u *identityUsecase) reread(ctx context.Context, authID string) (*dto.SyncUserResponse, error) {
	user, err := u.userRepo.FindByAuthID(u.db.WithContext(ctx), authID)
	if err != nil {
		u.log.Warnf("Failed to re-read user by auth id %s: %+v", authID, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrIdentityConflict
	}
	u.remember(ctx, authID, user)
	return u.syncResponse(user, false, false), nil
}

// ResolveUser checks the identity cache before the database. A cache failure only costs a query.
func (u *identityUsecase) ResolveUser(ctx context.Context, authID string) (*entity.User, error) {
	cached, err := u.cache.Get(ctx, authID)
	if err != nil {
		u.log.Warnf("Failed to read identity cache for %s: %+v", authID, err)
	}
	if cached != nil {
		return cached, nil
	}

	user, err := u.userRepo.FindByAuthID(u.db.WithContext(ctx), authID)
	if err != nil {
		u.log.Warnf("Failed to find user by auth id %s: %+v", authID, err)
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	u.remember(ctx, authID, user)
	return user, nil
}

func (u *identityUsecase) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	return u.denylist.IsRevoked(ctx, tokenID)
}

// Logout denylists the token until it would have expired anyway.
func (u *identityUsecase) Logout(ctx context.Context, claims *jwt.Claims) error {
	if err := u.cache.Delete(ctx, claims.Subject); err != nil {
		u.log.Warnf("Failed to evict identity cache for %s: %+v", claims.Subject, err)
	}

	ttl := claims.TTL()
	if claims.ID == "" || ttl <= 0 {
		return nil
	}

	if err := u.denylist.Revoke(ctx, claims.ID, ttl); err != nil {
		u.log.Warnf("Failed to revoke token %s: %+v", claims.ID, err)
		return err
	}
	return nil
}

func (u *identityUsecase) remember(ctx context.Context, authID string, user *entity.User) {
	if err := u.cache.Set(ctx, authID, user); err != nil {
		u.log.Warnf("Failed to cache identity %s: %+v", authID, err)
	}
}

func (u *identityUsecase) syncResponse(user *entity.User, created, linked bool) *dto.SyncUserResponse {
	return &dto.SyncUserResponse{
		User:    *converter.UserToResponse(user),
		Created: created,
		Linked:  linked,
	}
}
