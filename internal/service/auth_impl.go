package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"birthday-server/internal/config"
	"birthday-server/internal/domain"
	"birthday-server/internal/interfaces"
	"birthday-server/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "birthday-server"

// Compile-time check to ensure authServiceImpl implements AuthService
var _ AuthService = (*authServiceImpl)(nil)

// authServiceImpl implements the AuthService interface.
type authServiceImpl struct {
	userRepo interfaces.UserRepository
	cfg      *config.Config
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService creates a new instance of authServiceImpl.
func NewAuthService(userRepo interfaces.UserRepository, cfg *config.Config, logger *zap.Logger) AuthService {
	return &authServiceImpl{
		userRepo: userRepo,
		cfg:      cfg,
		logger:   logger.Named("AuthService"),
		now:      time.Now,
	}
}

// Signup registers a new user.
func (s *authServiceImpl) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	logFields := []zap.Field{zap.String("username", input.Username)}
	s.logger.Info("Registering new user", logFields...)

	if err := checkBirthday(input.Birthday, s.now()); err != nil {
		s.logger.Warn("Registration attempt with future birthday", append(logFields, zap.Time("birthday", input.Birthday))...)
		return nil, err
	}

	existingUser, err := s.userRepo.GetUserByUsername(ctx, input.Username)
	if err != nil && !errors.Is(err, models.ErrUserNotFound) {
		s.logger.Error("Error checking existing username during registration", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("error checking existing username: %w", err)
	}
	if existingUser != nil {
		s.logger.Warn("Registration attempt for existing username", logFields...)
		return nil, models.ErrUsernameTaken
	}

	hashedPassword, err := hashPassword(input.Password, s.cfg.PasswordPepper)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     input.Username,
		PasswordHash: hashedPassword,
		Name:         input.Name,
		Surname:      input.Surname,
		Birthday:     input.Birthday,
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		// The check above and the insert race under concurrent signups for
		// the same username; the repository maps the unique violation to
		// ErrUsernameTaken, so both paths surface the same error.
		if !errors.Is(err, models.ErrUsernameTaken) {
			s.logger.Error("Failed to create user via repository", append(logFields, zap.Error(err))...)
		}
		return nil, err
	}

	s.logger.Info("User registered successfully", zap.String("userID", user.ID.String()), zap.String("username", user.Username))
	return user, nil
}

// Signin authenticates a user and issues an access token.
func (s *authServiceImpl) Signin(ctx context.Context, username, password string) (*models.Token, error) {
	s.logger.Info("Signin attempt", zap.String("username", username))
	user, err := s.authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	token, err := s.createAccessToken(user.Username)
	if err != nil {
		s.logger.Error("Failed to create access token during signin", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	s.logger.Info("User signed in successfully", zap.String("userID", user.ID.String()))
	return token, nil
}

// authenticate verifies the credentials against the user store. A missing
// user and a wrong password are not distinguished in the returned error.
func (s *authServiceImpl) authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			s.logger.Warn("Signin failed: user not found", zap.String("username", username))
			return nil, models.ErrInvalidCredentials
		}
		s.logger.Error("Signin failed: error getting user from repository", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !checkPasswordHash(password, user.PasswordHash, s.cfg.PasswordPepper) {
		s.logger.Warn("Signin failed: invalid password", zap.String("username", username), zap.String("userID", user.ID.String()))
		return nil, models.ErrInvalidCredentials
	}

	return user, nil
}

// VerifyAccessToken parses and validates an access token string.
func (s *authServiceImpl) VerifyAccessToken(ctx context.Context, tokenString string) (*domain.Claims, error) {
	s.logger.Debug("Verifying access token")
	parser := jwt.NewParser(jwt.WithTimeFunc(s.now))
	token, err := parser.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.logger.Debug("Access token verification failed: expired")
			return nil, models.ErrTokenExpired
		}
		if errors.Is(err, jwt.ErrTokenMalformed) {
			s.logger.Warn("Access token verification failed: malformed")
			return nil, models.ErrTokenMalformed
		}
		s.logger.Warn("Failed to parse access token", zap.Error(err))
		return nil, models.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		s.logger.Warn("Access token verification failed (invalid claims or missing subject)")
		return nil, models.ErrTokenInvalid
	}

	s.logger.Debug("Access token verified successfully", zap.String("subject", claims.Subject))
	return claims, nil
}

// ResolveUser verifies the token and loads the user named by its subject.
// This is the single authorization gate for every protected operation.
func (s *authServiceImpl) ResolveUser(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.VerifyAccessToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			// A valid token naming a since-deleted user is just an invalid token.
			s.logger.Warn("User from valid token not found in DB", zap.String("subject", claims.Subject))
			return nil, models.ErrTokenInvalid
		}
		s.logger.Error("Failed to get user during token resolution", zap.Error(err), zap.String("subject", claims.Subject))
		return nil, fmt.Errorf("failed to get user for token resolution: %w", err)
	}

	return user, nil
}

// createAccessToken signs a token binding the username with an absolute
// expiry of now + configured TTL.
func (s *authServiceImpl) createAccessToken(username string) (*models.Token, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.AccessTokenTTL)

	claims := &domain.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	return &models.Token{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt.Unix(),
	}, nil
}

// --- Helper Functions ---

// checkBirthday rejects birthdays after the current date. The comparison is
// by calendar date; a birthday equal to today is allowed.
func checkBirthday(birthday, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	bday := time.Date(birthday.Year(), birthday.Month(), birthday.Day(), 0, 0, 0, 0, time.UTC)
	if bday.After(today) {
		return models.ErrInvalidBirthday
	}
	return nil
}

// applyPepper applies HMAC-SHA256 using the pepper as the key.
func applyPepper(password, pepper string) []byte {
	h := hmac.New(sha256.New, []byte(pepper))
	h.Write([]byte(password))
	return h.Sum(nil)
}

// hashPassword generates a bcrypt hash of the password after applying the pepper.
func hashPassword(password, pepper string) (string, error) {
	pepperedPassword := applyPepper(password, pepper)
	bytes, err := bcrypt.GenerateFromPassword(pepperedPassword, bcrypt.DefaultCost)
	return string(bytes), err
}

// checkPasswordHash compares a plain text password (after applying pepper) with a stored hash.
func checkPasswordHash(password, hash, pepper string) bool {
	pepperedPassword := applyPepper(password, pepper)
	err := bcrypt.CompareHashAndPassword([]byte(hash), pepperedPassword)
	return err == nil
}
