package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/arnavshah/shift-calendar-go/pkg/database"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var jwtAlgorithm = jwt.SigningMethodHS256

var (
	// ErrInvalidCredentials is returned when a username or password does not match
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingCredentials is returned when registering without a username or password
	ErrMissingCredentials = errors.New("username and password are required")
	// ErrUserExists is returned when registering a taken username
	ErrUserExists = errors.New("username already registered")
	// ErrInvalidToken is returned for malformed, expired or revoked tokens
	ErrInvalidToken = errors.New("invalid token")
)

// DefaultPasswordCost is the bcrypt cost used for new password hashes
const DefaultPasswordCost = 14

// Claims represents the JWT claims
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Provider is the identity provider. It issues and revokes session tokens and
// reports sign-in state changes to registered listeners.
type Provider struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time

	mu        sync.Mutex
	revoked   map[string]time.Time
	sessions  map[string]int
	listeners []func(userID string, signedIn bool)
}

// NewProvider creates a provider signing tokens with secret
func NewProvider(db *gorm.DB, secret string, ttl time.Duration) *Provider {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Provider{
		db:       db,
		secret:   []byte(secret),
		ttl:      ttl,
		cost:     DefaultPasswordCost,
		now:      time.Now,
		revoked:  make(map[string]time.Time),
		sessions: make(map[string]int),
	}
}

// SetPasswordCost changes the bcrypt cost for accounts registered afterwards
func (p *Provider) SetPasswordCost(cost int) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultPasswordCost
	}
	p.cost = cost
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	return hashPassword(password, DefaultPasswordCost)
}

func hashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with its hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// OnChange registers fn to be called when a user's first session starts or
// their last session ends
func (p *Provider) OnChange(fn func(userID string, signedIn bool)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// Register creates a user account
func (p *Provider) Register(ctx context.Context, username, password string) (database.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return database.User{}, ErrMissingCredentials
	}

	var count int64
	if err := p.db.WithContext(ctx).Model(&database.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return database.User{}, err
	}
	if count > 0 {
		return database.User{}, ErrUserExists
	}

	hash, err := hashPassword(password, p.cost)
	if err != nil {
		return database.User{}, err
	}
	user := database.User{ID: uuid.NewString(), Username: username, PasswordHash: hash}
	if err := p.db.WithContext(ctx).Create(&user).Error; err != nil {
		return database.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Lookup finds a user by username
func (p *Provider) Lookup(ctx context.Context, username string) (database.User, error) {
	var user database.User
	if err := p.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return database.User{}, fmt.Errorf("user %s: %w", username, database.ErrNotFound)
		}
		return database.User{}, err
	}
	return user, nil
}

// Login verifies credentials and issues a session token
func (p *Provider) Login(ctx context.Context, username, password string) (string, database.User, error) {
	var user database.User
	if err := p.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", database.User{}, ErrInvalidCredentials
		}
		return "", database.User{}, err
	}
	if !CheckPasswordHash(password, user.PasswordHash) {
		return "", database.User{}, ErrInvalidCredentials
	}

	token, err := p.CreateToken(user)
	if err != nil {
		return "", database.User{}, err
	}

	p.mu.Lock()
	p.sessions[user.ID]++
	first := p.sessions[user.ID] == 1
	p.mu.Unlock()
	if first {
		p.notify(user.ID, true)
	}
	return token, user, nil
}

// CreateToken creates a new JWT token for a user
func (p *Provider) CreateToken(user database.User) (string, error) {
	now := p.now()
	claims := &Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwtAlgorithm, claims)
	return token.SignedString(p.secret)
}

// VerifyToken verifies a JWT token and rejects revoked ones
func (p *Provider) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwtAlgorithm.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return p.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	p.mu.Lock()
	_, revoked := p.revoked[claims.ID]
	p.mu.Unlock()
	if revoked {
		return nil, fmt.Errorf("%w: revoked", ErrInvalidToken)
	}
	return claims, nil
}

// CurrentUserID returns the user a token belongs to
func (p *Provider) CurrentUserID(tokenString string) (string, error) {
	claims, err := p.VerifyToken(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// Logout revokes the token until it would have expired
func (p *Provider) Logout(tokenString string) (string, error) {
	claims, err := p.VerifyToken(tokenString)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	p.pruneLocked()
	expires := p.now().Add(p.ttl)
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	p.revoked[claims.ID] = expires
	last := false
	if p.sessions[claims.Subject] > 0 {
		p.sessions[claims.Subject]--
		if p.sessions[claims.Subject] == 0 {
			delete(p.sessions, claims.Subject)
			last = true
		}
	}
	p.mu.Unlock()

	if last {
		p.notify(claims.Subject, false)
	}
	return claims.Subject, nil
}

func (p *Provider) pruneLocked() {
	now := p.now()
	for id, expires := range p.revoked {
		if now.After(expires) {
			delete(p.revoked, id)
		}
	}
}

func (p *Provider) notify(userID string, signedIn bool) {
	p.mu.Lock()
	listeners := append([]func(string, bool){}, p.listeners...)
	p.mu.Unlock()
	for _, fn := range listeners {
		fn(userID, signedIn)
	}
}
