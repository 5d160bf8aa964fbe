package grpc

import (
	"context"

	"github.com/collabogames/collabo-auth/internal/authrpc"
	"github.com/collabogames/collabo-auth/internal/common"
	"github.com/collabogames/collabo-auth/internal/server/models"
	"github.com/collabogames/collabo-auth/internal/server/services"
)

func (s *GRPCServer) Register(ctx context.Context, req *authrpc.RegisterRequest) (*authrpc.TokenResponse, error) {

	session, err := s.users.Register(ctx, services.RegisterInput{
		Name:            req.Name,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Categories:      req.Categories,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Registered", "user_id", session.User.ID)
	return tokenResponse(session), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *authrpc.LoginRequest) (*authrpc.TokenResponse, error) {

	session, err := s.users.Login(ctx, req.Name, req.Password)
	if err != nil {
		return nil, err
	}

	return tokenResponse(session), nil
}

func (s *GRPCServer) WhoAmI(ctx context.Context, _ *authrpc.WhoAmIRequest) (*authrpc.UserProfile, error) {

	user, ok := UserFromContext(ctx)
	if !ok {
		return nil, common.ErrorUnauthenticated
	}

	return userProfile(user), nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *authrpc.PingRequest) (*authrpc.PingResponse, error) {
	resp := &authrpc.PingResponse{Status: "OK"}
	if user, ok := UserFromContext(ctx); ok {
		resp.User = user.Name
	}
	return resp, nil
}

func tokenResponse(s *services.Session) *authrpc.TokenResponse {
	return &authrpc.TokenResponse{
		AccessToken: s.AccessToken,
		TokenType:   s.TokenType,
		UserID:      s.User.ID,
		UserName:    s.User.Name,
		ExpiresAt:   s.ExpiresAt,
	}
}

func userProfile(u *models.User) *authrpc.UserProfile {
	categories := u.Categories
	if categories == nil {
		categories = []string{}
	}
	return &authrpc.UserProfile{
		ID:          u.ID,
		Name:        u.Name,
		Categories:  categories,
		Points:      u.Points,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
