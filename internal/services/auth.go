package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/etechnosoft/authgate/internal/logger"
	"github.com/etechnosoft/authgate/internal/models"
)

// Error variables
var (
	ErrUserAlreadyExists  = errors.New("username or email already exists")
	ErrUserDoesNotExist   = errors.New("username does not exist")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInvalidToken       = errors.New("could not validate credentials")
	ErrUserNotActivated   = errors.New("inactive user")
)

const (
	secretKeyBytes = 32 // hex-encoded to 64 chars
	clientIDBytes  = 7  // hex-encoded to 14 chars
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
	GetByUsernameOrEmail(ctx context.Context, username *string, email *string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, username, email, passwordHash, secretKey, clientID string) error
	Activate(ctx context.Context, username string) error
}

// UserCache defines cache operations for user records.
type UserCache interface {
	Get(ctx context.Context, username string) (*models.UserDB, error)
	Set(ctx context.Context, user *models.UserDB) error
	Delete(ctx context.Context, username string) error
}

// TokenIssuer defines an interface for issuing and verifying JWT tokens
// signed with per-user secrets.
type TokenIssuer interface {
	Generate(ctx context.Context, username, secretKey string) (string, error)
	GenerateWithExpiry(ctx context.Context, username, secretKey string, exp time.Duration) (string, error)
	Subject(ctx context.Context, tokenString string) (string, error)
	Verify(ctx context.Context, tokenString, secretKey string) error
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// AuthService handles registration, login, token verification,
// account activation and token refresh.
type AuthService struct {
	reader      UserReader
	writer      UserWriter
	cache       UserCache
	jwt         TokenIssuer
	kafkaWriter KafkaWriter
	loginExp    time.Duration // expiry of tokens issued on login
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(
	reader UserReader,
	writer UserWriter,
	cache UserCache,
	jwt TokenIssuer,
	kafkaWriter KafkaWriter,
	loginExp time.Duration,
) *AuthService {
	return &AuthService{
		reader:      reader,
		writer:      writer,
		cache:       cache,
		jwt:         jwt,
		kafkaWriter: kafkaWriter,
		loginExp:    loginExp,
	}
}

// Register creates a new user and returns the credentials handed out
// exactly once: the generated signing secret and client identifier.
func (svc *AuthService) Register(ctx context.Context, username, email, password string) (*models.Credentials, error) {
	user, err := svc.reader.GetByUsernameOrEmail(ctx, &username, &email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return nil, err
	}
	if user != nil {
		logger.Log.Errorw("user already exists", "username", username, "email", email)
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	secretKey, err := randomHex(secretKeyBytes)
	if err != nil {
		return nil, err
	}
	clientID, err := randomHex(clientIDBytes)
	if err != nil {
		return nil, err
	}
	clientID = strings.ToUpper(clientID)

	if err := svc.writer.Save(ctx, username, email, string(hashedPassword), secretKey, clientID); err != nil {
		logger.Log.Errorw("failed to save user", "err", err)
		return nil, err
	}

	svc.publishEvent(ctx, models.EventUserRegistered, username, clientID)

	return &models.Credentials{
		Username:  username,
		Email:     email,
		SecretKey: secretKey,
		ClientID:  clientID,
	}, nil
}

// Login authenticates a user and returns a JWT token signed with the
// user's own secret key.
func (svc *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", err
	}
	if user == nil {
		logger.Log.Errorw("user does not exist", "username", username)
		return "", ErrUserDoesNotExist
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Log.Errorw("invalid credentials", "username", username)
		return "", ErrInvalidCredentials
	}

	token, err := svc.jwt.GenerateWithExpiry(ctx, username, user.SecretKey, svc.loginExp)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return "", err
	}

	svc.publishEvent(ctx, models.EventUserLogin, user.Username, user.ClientID)

	return token, nil
}

// Authenticate verifies a token and returns its owner. The subject is
// read from the unverified claims first; the signature is then checked
// against that user's secret key.
func (svc *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.UserDB, error) {
	username, err := svc.jwt.Subject(ctx, tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := svc.lookupUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}

	if err := svc.jwt.Verify(ctx, tokenString, user.SecretKey); err != nil {
		return nil, ErrInvalidToken
	}

	return user, nil
}

// Refresh issues a fresh token for an already authenticated user,
// with the issuer's default expiry.
func (svc *AuthService) Refresh(ctx context.Context, user *models.UserDB) (string, error) {
	token, err := svc.jwt.Generate(ctx, user.Username, user.SecretKey)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return "", err
	}
	return token, nil
}

// Activate verifies the activation token and marks the account as
// activated. The cached record is invalidated so subsequent requests
// see the new state.
func (svc *AuthService) Activate(ctx context.Context, tokenString string) error {
	user, err := svc.Authenticate(ctx, tokenString)
	if err != nil {
		return err
	}

	if err := svc.writer.Activate(ctx, user.Username); err != nil {
		logger.Log.Errorw("failed to activate user", "username", user.Username, "err", err)
		return err
	}

	if svc.cache != nil {
		if err := svc.cache.Delete(ctx, user.Username); err != nil {
			logger.Log.Warnw("failed to invalidate cached user", "username", user.Username, "err", err)
		}
	}

	svc.publishEvent(ctx, models.EventUserActivated, user.Username, user.ClientID)

	return nil
}

// lookupUser returns the user record, preferring the cache. Cache
// failures fall through to the database.
func (svc *AuthService) lookupUser(ctx context.Context, username string) (*models.UserDB, error) {
	if svc.cache != nil {
		cached, err := svc.cache.Get(ctx, username)
		if err == nil && cached != nil {
			return cached, nil
		}
		if err != nil {
			logger.Log.Warnw("user cache lookup failed", "username", username, "err", err)
		}
	}

	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, err
	}

	if user != nil && svc.cache != nil {
		if err := svc.cache.Set(ctx, user); err != nil {
			logger.Log.Warnw("failed to cache user", "username", username, "err", err)
		}
	}

	return user, nil
}

// publishEvent publishes an audit event to Kafka. Best effort: failures
// are logged and never surfaced to the caller.
func (svc *AuthService) publishEvent(ctx context.Context, eventType, username, clientID string) {
	if svc.kafkaWriter == nil {
		logger.Log.Debugw("Kafka writer not configured, skipping publishing", "type", eventType)
		return
	}

	event := models.AuthEvent{
		EventID:   uuid.NewString(),
		Type:      eventType,
		Username:  username,
		ClientID:  clientID,
		Timestamp: time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal auth event", "event_id", event.EventID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.EventID),
		Value: data,
	}

	if err := svc.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish auth event", "event_id", event.EventID, "error", err)
	} else {
		logger.Log.Infow("auth event published", "event_id", event.EventID, "type", eventType)
	}
}

// randomHex returns n random bytes encoded as a lowercase hex string.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
