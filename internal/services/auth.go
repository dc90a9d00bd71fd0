package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sanadlabs/sanad-backend/internal/logger"
	"github.com/sanadlabs/sanad-backend/internal/repos"
	"github.com/sanadlabs/sanad-backend/internal/requestdata"
	"github.com/sanadlabs/sanad-backend/internal/types"
)

type AuthService interface {
	RegisterUser(ctx context.Context, email, password, firstName, lastName string) (*types.User, error)
	LoginUser(ctx context.Context, email, password string) (accessToken, refreshToken string, err error)
	RefreshUser(ctx context.Context, refreshToken string) (newAccess, newRefresh string, err error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	avatarService AvatarService
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	avatarService AvatarService,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		avatarService: avatarService,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) RegisterUser(ctx context.Context, email, password, firstName, lastName string) (*types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	if firstName == "" || lastName == "" {
		return nil, fmt.Errorf("%w: first_name and last_name are required", ErrValidation)
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: email is already registered", ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		ID:               uuid.New(),
		Email:            email,
		Password:         string(hashed),
		FirstName:        firstName,
		LastName:         lastName,
		SubscriptionTier: types.TierFree,
	}
	err = runInTx(ctx, as.db, func(tx *gorm.DB) error {
		if as.avatarService != nil {
			if err := as.avatarService.CreateAndUploadUserAvatar(ctx, tx, user); err != nil {
				// Avatar generation is cosmetic; registration proceeds.
				as.log.Warn("Avatar generation failed during registration", "error", err)
			}
		}
		_, err := as.userRepo.Create(ctx, tx, []*types.User{user})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", "", fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return "", "", fmt.Errorf("fetch user: %w", err)
	}
	if len(users) == 0 {
		return "", "", fmt.Errorf("%w: invalid email or password", ErrValidation)
	}
	user := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", fmt.Errorf("%w: invalid email or password", ErrValidation)
	}

	var accessToken, refreshToken string
	err = runInTx(ctx, as.db, func(tx *gorm.DB) error {
		// One active session per user: stale tokens are replaced.
		if err := as.userTokenRepo.DeleteByUserIDs(ctx, tx, []uuid.UUID{user.ID}); err != nil {
			return fmt.Errorf("clear old tokens: %w", err)
		}
		tok, err := as.generateAccessToken(user)
		if err != nil {
			return fmt.Errorf("generate access token: %w", err)
		}
		accessToken = tok
		refreshToken = uuid.New().String()
		userToken := &types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		_, err = as.userTokenRepo.Create(ctx, tx, []*types.UserToken{userToken})
		return err
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (as *authService) RefreshUser(ctx context.Context, refreshToken string) (string, string, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return "", "", fmt.Errorf("%w: refresh_token is required", ErrValidation)
	}

	var newAccess, newRefresh string
	err := runInTx(ctx, as.db, func(tx *gorm.DB) error {
		stored, err := as.userTokenRepo.GetByRefreshToken(ctx, tx, refreshToken)
		if err != nil {
			return fmt.Errorf("fetch refresh token: %w", err)
		}
		if stored == nil || stored.ExpiresAt.Before(time.Now()) {
			return ErrUnauthorized
		}
		users, err := as.userRepo.GetByIDs(ctx, tx, []uuid.UUID{stored.UserID})
		if err != nil || len(users) == 0 {
			return ErrUnauthorized
		}
		if err := as.userTokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{stored.ID}); err != nil {
			return fmt.Errorf("rotate refresh token: %w", err)
		}
		tok, err := as.generateAccessToken(users[0])
		if err != nil {
			return fmt.Errorf("generate access token: %w", err)
		}
		newAccess = tok
		newRefresh = uuid.New().String()
		userToken := &types.UserToken{
			ID:           uuid.New(),
			UserID:       stored.UserID,
			AccessToken:  newAccess,
			RefreshToken: newRefresh,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		_, err = as.userTokenRepo.Create(ctx, tx, []*types.UserToken{userToken})
		return err
	})
	if err != nil {
		return "", "", err
	}
	return newAccess, newRefresh, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return ErrUnauthorized
	}
	return as.userTokenRepo.DeleteByUserIDs(ctx, nil, []uuid.UUID{rd.UserID})
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return ctx, ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx, ErrUnauthorized
	}
	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return ctx, ErrUnauthorized
	}
	email, _ := claims["email"].(string)
	return requestdata.WithRequestData(ctx, &requestdata.RequestData{
		UserID: userID,
		Email:  email,
	}), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"exp":     time.Now().Add(as.accessTTL).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}
