package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campus-connect/internal/domain/entity"
	repo "github.com/oksasatya/campus-connect/internal/domain/repository"
	"github.com/oksasatya/campus-connect/pkg/helpers"
	"github.com/oksasatya/campus-connect/pkg/mailer"
	tpl "github.com/oksasatya/campus-connect/pkg/mailer/templates"
)

const (
	MinPreferredAge = 18
	MaxPreferredAge = 100
)

// TokenIssuer signs identity tokens for an account id.
type TokenIssuer interface {
	GenerateToken(userID string) (string, time.Time, error)
}

// JobPublisher enqueues background jobs (welcome email).
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// ProfileIndexer receives the latest redacted profile after onboarding changes.
type ProfileIndexer interface {
	IndexProfile(ctx context.Context, a *entity.Account) error
}

type AccountService struct {
	Accounts  repo.AccountRepository
	Colleges  repo.CollegeRepository
	Tokens    TokenIssuer
	Logger    *logrus.Logger
	MaxPhotos int

	// Optional collaborators; nil disables them.
	Welcome WelcomeMail
	Indexer ProfileIndexer
}

// WelcomeMail groups what the welcome email needs besides the publisher.
type WelcomeMail struct {
	Pub        JobPublisher
	AppName    string
	LoginURL   string
	SupportURL string
}

func NewAccountService(accounts repo.AccountRepository, colleges repo.CollegeRepository, tokens TokenIssuer, logger *logrus.Logger, maxPhotos int) *AccountService {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &AccountService{
		Accounts:  accounts,
		Colleges:  colleges,
		Tokens:    tokens,
		Logger:    logger,
		MaxPhotos: maxPhotos,
	}
}

type SignupInput struct {
	Name      string
	Username  string
	Email     string
	Password  string
	CollegeID string
}

type ProfileSetupInput struct {
	Bio       string
	Interests []string
	Photos    []string
}

type PreferencesInput struct {
	AgeMin   int
	AgeMax   int
	Distance int
	Gender   string
}

// AuthResult is returned by signup and login.
type AuthResult struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	User      PublicAccount `json:"user"`
}

// Signup creates an account after checking, in order: username free
// (case-insensitive), email free, college approved, email domain match.
func (s *AccountService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	if _, err := s.Accounts.FindByUsername(ctx, in.Username); err == nil {
		return nil, ConflictError("Username already taken")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, s.dependency("find account by username", err, nil)
	}

	if _, err := s.Accounts.FindByEmail(ctx, in.Email); err == nil {
		return nil, ConflictError("Email already registered")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, s.dependency("find account by email", err, nil)
	}

	college, err := s.Colleges.GetByID(ctx, in.CollegeID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, s.dependency("find college", err, logrus.Fields{"college_id": in.CollegeID})
	}
	if college == nil || !college.IsApproved {
		return nil, ValidationError("College not found or not approved")
	}

	if emailDomain(in.Email) != college.EmailDomain {
		return nil, ValidationError("Email domain does not match college")
	}

	if len(in.Password) > helpers.MaxPasswordBytes {
		return nil, ValidationError(MsgPasswordTooLong)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, s.dependency("hash password", err, nil)
	}

	a := &entity.Account{
		Name:         in.Name,
		Username:     strings.ToLower(in.Username),
		Email:        in.Email,
		PasswordHash: hash,
		CollegeID:    college.ID,
		College:      college,
	}
	if err := s.Accounts.Create(ctx, a); err != nil {
		if errors.Is(err, repo.ErrUniqueViolation) {
			return nil, ConflictError("Username or email already taken")
		}
		return nil, s.dependency("create account", err, nil)
	}

	res, err := s.issue(a)
	if err != nil {
		return nil, err
	}
	s.publishWelcome(ctx, a)
	s.Logger.WithFields(logrus.Fields{"account_id": a.ID, "college_id": a.CollegeID}).Info("account created")
	return res, nil
}

// Login never tells a missing account apart from a wrong password.
func (s *AccountService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	a, err := s.Accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			helpers.CompareHashAndPassword(dummyHash(), password)
			return nil, AuthenticationError(MsgInvalidCredentials)
		}
		return nil, s.dependency("find account by email", err, nil)
	}
	if !helpers.CompareHashAndPassword(a.PasswordHash, password) {
		return nil, AuthenticationError(MsgInvalidCredentials)
	}
	return s.issue(a)
}

// Me returns the account for an authenticated id.
func (s *AccountService) Me(ctx context.Context, accountID string) (*entity.Account, error) {
	a, err := s.Accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, s.mapUpdateErr("get account", accountID, err)
	}
	return a, nil
}

func (s *AccountService) UpdateProfileSetup(ctx context.Context, accountID string, in ProfileSetupInput) (*entity.Account, error) {
	bio := strings.TrimSpace(in.Bio)
	if bio == "" {
		return nil, ValidationError("Bio is required")
	}
	interests := cleanInterests(in.Interests)
	if len(interests) == 0 {
		return nil, ValidationError("At least one interest is required")
	}
	if len(in.Photos) == 0 {
		return nil, ValidationError("At least one photo is required")
	}
	if s.MaxPhotos > 0 && len(in.Photos) > s.MaxPhotos {
		return nil, ValidationError(maxPhotosMessage(s.MaxPhotos))
	}

	a, err := s.Accounts.UpdateProfile(ctx, accountID, bio, interests, in.Photos)
	if err != nil {
		return nil, s.mapUpdateErr("update profile", accountID, err)
	}
	s.index(ctx, a)
	return a, nil
}

// UpdatePreferences validates and stores preferences and marks the account
// onboarded. Repeating it with valid input is harmless.
func (s *AccountService) UpdatePreferences(ctx context.Context, accountID string, in PreferencesInput) (*entity.Account, error) {
	if in.AgeMin > in.AgeMax {
		return nil, ValidationError("Minimum age cannot be greater than maximum age")
	}
	if in.AgeMin < MinPreferredAge || in.AgeMax > MaxPreferredAge {
		return nil, ValidationError("Age must be between 18 and 100")
	}
	gender := entity.Gender(in.Gender)
	if !gender.Valid() {
		return nil, ValidationError("Invalid gender preference")
	}
	if in.Distance < 0 {
		return nil, ValidationError("Distance cannot be negative")
	}

	a, err := s.Accounts.UpdatePreferences(ctx, accountID, entity.Preferences{
		AgeMin:   in.AgeMin,
		AgeMax:   in.AgeMax,
		Distance: in.Distance,
		Gender:   gender,
	})
	if err != nil {
		return nil, s.mapUpdateErr("update preferences", accountID, err)
	}
	s.index(ctx, a)
	return a, nil
}

func (s *AccountService) issue(a *entity.Account) (*AuthResult, error) {
	token, exp, err := s.Tokens.GenerateToken(a.ID)
	if err != nil {
		return nil, s.dependency("generate token", err, logrus.Fields{"account_id": a.ID})
	}
	return &AuthResult{Token: token, ExpiresAt: exp, User: NewPublicAccount(a)}, nil
}

// mapUpdateErr treats a vanished account behind a valid token as an
// authentication failure.
func (s *AccountService) mapUpdateErr(op, accountID string, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return AuthenticationError(MsgUnauthorized)
	}
	return s.dependency(op, err, logrus.Fields{"account_id": accountID})
}

func (s *AccountService) dependency(op string, err error, fields logrus.Fields) error {
	if fields == nil {
		fields = logrus.Fields{}
	}
	fields["op"] = op
	s.Logger.WithError(err).WithFields(fields).Error("account operation failed")
	return DependencyError(MsgInternal, err)
}

func (s *AccountService) publishWelcome(ctx context.Context, a *entity.Account) {
	if s.Welcome.Pub == nil {
		return
	}
	collegeName := ""
	if a.College != nil {
		collegeName = a.College.Name
	}
	job := mailer.NewTemplateJob(a.Email, tpl.Welcome,
		tpl.WelcomeData(s.Welcome.AppName, a.Name, a.Username, collegeName, s.Welcome.LoginURL, s.Welcome.SupportURL))
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.Welcome.Pub.PublishJSON(c, job); err != nil {
		s.Logger.WithError(err).WithField("account_id", a.ID).Warn("failed to publish welcome email job")
	}
}

func (s *AccountService) index(ctx context.Context, a *entity.Account) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.IndexProfile(ctx, a); err != nil {
		s.Logger.WithError(err).WithField("account_id", a.ID).Warn("profile index failed")
	}
}

// cleanInterests trims entries and drops blanks and repeats, keeping the
// first occurrence order.
func cleanInterests(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// emailDomain returns everything after the first "@", or "" when absent.
func emailDomain(email string) string {
	_, domain, ok := strings.Cut(email, "@")
	if !ok {
		return ""
	}
	return domain
}

var (
	dummyOnce sync.Once
	dummy     string
)

// dummyHash is compared against on unknown emails so both login failure paths
// cost one bcrypt comparison.
func dummyHash() string {
	dummyOnce.Do(func() {
		dummy, _ = helpers.HashPassword("campus-connect-timing-equalizer")
	})
	return dummy
}
