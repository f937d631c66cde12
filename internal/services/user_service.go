package services

import (
	"database/sql"
	"fmt"
	"net/url"

	"nexusinvest/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewUserService(db *sql.DB, logger zerolog.Logger) *UserService {
	return &UserService{
		db:     db,
		logger: logger,
	}
}

// Signup creates a user with zeroed balances. The raw password is never
// stored, only its bcrypt hash.
func (s *UserService) Signup(req *models.SignupRequest) (*models.User, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: name, email, and password are required", ErrInvalidRequest)
	}

	var existingID string
	err := s.db.QueryRow("SELECT id FROM users WHERE email = ?", req.Email).Scan(&existingID)
	if err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if err != sql.ErrNoRows {
		s.logger.Error().Err(err).Msg("Error checking existing user")
		return nil, fmt.Errorf("%w: failed to check existing user", ErrStorageFailure)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return nil, fmt.Errorf("%w: failed to hash password", ErrStorageFailure)
	}

	userID, err := newID("usr_")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	avatar := "https://ui-avatars.com/api/?name=" + url.QueryEscape(req.Name) + "&background=random"

	_, err = s.db.Exec(
		"INSERT INTO users (id, name, email, password, avatar) VALUES (?, ?, ?, ?, ?)",
		userID, req.Name, req.Email, string(hashedPassword), avatar,
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error creating user")
		return nil, fmt.Errorf("%w: failed to create user", ErrStorageFailure)
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User registered successfully")
	return user, nil
}

// Authenticate verifies credentials and returns the user projection. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *UserService) Authenticate(req *models.LoginRequest) (*models.User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidRequest)
	}

	var user models.User
	err := s.db.QueryRow(
		"SELECT id, name, email, password, balance, active_investments, total_profit, avatar, created_at, updated_at FROM users WHERE email = ?",
		req.Email,
	).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Balance,
		&user.ActiveInvestments, &user.TotalProfit, &user.Avatar,
		&user.CreatedAt, &user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Error querying user")
		return nil, fmt.Errorf("%w: failed to query user", ErrStorageFailure)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password))
	if err != nil {
		s.logger.Warn().Str("email", req.Email).Msg("Failed authentication attempt")
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}

	user.PasswordHash = ""
	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User authenticated successfully")
	return &user, nil
}

func (s *UserService) GetUserByID(userID string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRow(
		"SELECT id, name, email, balance, active_investments, total_profit, avatar, created_at, updated_at FROM users WHERE id = ?",
		userID,
	).Scan(
		&user.ID, &user.Name, &user.Email, &user.Balance,
		&user.ActiveInvestments, &user.TotalProfit, &user.Avatar,
		&user.CreatedAt, &user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: user not found", ErrInvalidRequest)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Error fetching user")
		return nil, fmt.Errorf("%w: failed to fetch user", ErrStorageFailure)
	}

	return &user, nil
}
