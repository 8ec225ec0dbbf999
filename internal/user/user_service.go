package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"gotube/internal/common"
	"gotube/internal/dbmongo"
	"gotube/internal/paginate"
	"gotube/internal/view"
)

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"`
}

//go:generate mockgen -source=user_service.go -destination=mock_user_service.go -package=user

type UserService interface {
	RegisterUser(ctx context.Context, in RegisterInput) (*dbmongo.User, string, error)
	LoginUser(ctx context.Context, login, password string) (*dbmongo.User, string, error)
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*dbmongo.User, error)
	WatchHistory(ctx context.Context, userID primitive.ObjectID, opts paginate.Options) (*paginate.Page[view.VideoItem], error)
}

type userService struct {
	userRepo UserRepository
	tokens   *common.TokenManager
	logger   *zap.Logger
}

func NewUserService(userRepo UserRepository, tokens *common.TokenManager, logger *zap.Logger) UserService {
	return &userService{userRepo: userRepo, tokens: tokens, logger: logger}
}

func (s *userService) RegisterUser(ctx context.Context, in RegisterInput) (*dbmongo.User, string, error) {
	if err := common.RequireFields("All fields are required",
		common.Field{Name: "username", Value: in.Username},
		common.Field{Name: "email", Value: in.Email},
		common.Field{Name: "fullName", Value: in.FullName},
		common.Field{Name: "password", Value: in.Password},
	); err != nil {
		return nil, "", err
	}
	if err := common.ValidateUsername(in.Username); err != nil {
		return nil, "", err
	}
	if err := common.ValidateEmail(in.Email); err != nil {
		return nil, "", err
	}
	if err := common.ValidatePassword(in.Password); err != nil {
		return nil, "", err
	}

	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))

	//duplicates check
	exists, err := s.userRepo.CheckUserExists(ctx, username, email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", common.ErrConflict("User with email or username already exists")
	}

	hashed, err := common.HashPassword(in.Password)
	if err != nil {
		return nil, "", common.ErrInternal("failed to hash password", err)
	}

	now := time.Now().UTC()
	user := &dbmongo.User{
		Username:     username,
		Email:        email,
		FullName:     strings.TrimSpace(in.FullName),
		Avatar:       strings.TrimSpace(in.Avatar),
		PasswordHash: hashed,
		WatchHistory: []primitive.ObjectID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", common.ErrInternal("failed to issue token", err)
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID.Hex()))
	return user, token, nil
}

func (s *userService) LoginUser(ctx context.Context, login, password string) (*dbmongo.User, string, error) {
	if err := common.RequireFields("Username or email and password are required",
		common.Field{Name: "login", Value: login},
		common.Field{Name: "password", Value: password},
	); err != nil {
		return nil, "", err
	}

	user, err := s.userRepo.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrNotFound("")) {
			return nil, "", common.ErrUnauthorized("Invalid user credentials")
		}
		return nil, "", err
	}

	if err := common.CheckPassword(password, user.PasswordHash); err != nil {
		return nil, "", common.ErrUnauthorized("Invalid user credentials")
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", common.ErrInternal("failed to issue token", err)
	}
	return user, token, nil
}

func (s *userService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*dbmongo.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

func (s *userService) WatchHistory(ctx context.Context, userID primitive.ObjectID, opts paginate.Options) (*paginate.Page[view.VideoItem], error) {
	page, err := s.userRepo.WatchHistory(ctx, userID, opts)
	if err != nil {
		return nil, err
	}
	for _, item := range page.Items {
		view.CheckSingular(s.logger, "video", item.ID, item.OwnerMatches)
	}
	return page, nil
}
