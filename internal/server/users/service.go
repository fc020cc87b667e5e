package users

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/memberportal/internal/common"
	"github.com/dmitrijs2005/memberportal/internal/server/auth"
	"github.com/dmitrijs2005/memberportal/internal/server/config"
	"github.com/dmitrijs2005/memberportal/internal/server/sessions"
)

var mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

// LoginResult is what a successful OTP verification hands back.
type LoginResult struct {
	Member *Member
	Token  string
}

// Service runs the OTP login protocol: challenges live in memory keyed by
// mobile number, and every verified login opens a server-side session.
type Service struct {
	repo                  Repository
	sessionRepo           sessions.Repository
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	otpCode               string
	otpValidityDuration   time.Duration
	now                   func() time.Time

	mu         sync.Mutex
	challenges map[int64]*Challenge
}

func NewService(repo Repository, sessionRepo sessions.Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                  repo,
		sessionRepo:           sessionRepo,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		otpCode:               cfg.OTPCode,
		otpValidityDuration:   cfg.OTPValidityDuration,
		now:                   time.Now,
		challenges:            make(map[int64]*Challenge),
	}
}

func validMobile(mobile int64) bool {
	return mobilePattern.MatchString(strconv.FormatInt(mobile, 10))
}

// RequestOTP opens a challenge for mobile bound to deviceID, replacing any
// earlier one.
func (s *Service) RequestOTP(ctx context.Context, mobile int64, deviceID, fcm string) (*Challenge, error) {
	if !validMobile(mobile) {
		return nil, fmt.Errorf("%w: mobile number", common.ErrorValidation)
	}
	if deviceID == "" {
		return nil, fmt.Errorf("%w: device id", common.ErrorValidation)
	}

	sessionID, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, common.ErrorInternal
	}

	ch := &Challenge{
		MobileNumber: mobile,
		DeviceID:     deviceID,
		FCM:          fcm,
		Code:         s.otpCode,
		SessionID:    sessionID,
		ExpiresAt:    s.now().Add(s.otpValidityDuration),
	}

	s.mu.Lock()
	s.challenges[mobile] = ch
	s.mu.Unlock()

	c := *ch
	return &c, nil
}

// ResendOTP extends the open challenge for mobile and gives it a fresh
// session id. The device binding is kept.
func (s *Service) ResendOTP(ctx context.Context, mobile int64) (*Challenge, error) {
	sessionID, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, common.ErrorInternal
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.challenges[mobile]
	if !ok {
		return nil, common.ErrNoChallenge
	}
	ch.SessionID = sessionID
	ch.ExpiresAt = s.now().Add(s.otpValidityDuration)

	c := *ch
	return &c, nil
}

// VerifyOTP closes the challenge for mobile when otp and deviceID match it
// and returns the member with a fresh session token.
func (s *Service) VerifyOTP(ctx context.Context, mobile int64, otp int, deviceID string) (*LoginResult, error) {
	s.mu.Lock()
	ch, ok := s.challenges[mobile]
	if !ok {
		s.mu.Unlock()
		return nil, common.ErrNoChallenge
	}
	if !ch.ExpiresAt.After(s.now()) {
		delete(s.challenges, mobile)
		s.mu.Unlock()
		return nil, common.ErrOTPExpired
	}
	code := fmt.Sprintf("%0*d", len(ch.Code), otp)
	if subtle.ConstantTimeCompare([]byte(code), []byte(ch.Code)) != 1 || ch.DeviceID != deviceID {
		s.mu.Unlock()
		return nil, common.ErrInvalidOTP
	}
	delete(s.challenges, mobile)
	fcm := ch.FCM
	s.mu.Unlock()

	member, err := s.repo.GetOrCreateByMobile(ctx, mobile, fcm)
	if err != nil {
		return nil, fmt.Errorf("error loading member: %w", err)
	}

	tokenID := uuid.NewString()
	token, err := auth.GenerateToken(member.ID, tokenID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.sessionRepo.Create(ctx, member.ID, tokenID, s.tokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}

	return &LoginResult{Member: member, Token: token}, nil
}

// Authenticate checks token and its server-side session and returns the
// token claims.
func (s *Service) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}
	if _, err := s.sessionRepo.Find(ctx, claims.ID); err != nil {
		return nil, common.ErrorUnauthorized
	}
	return claims, nil
}

// Logout ends the session the token with tokenID belongs to.
func (s *Service) Logout(ctx context.Context, tokenID string) error {
	err := s.sessionRepo.Delete(ctx, tokenID)
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorUnauthorized
	}
	return err
}

func (s *Service) Profile(ctx context.Context, userID string) (*Member, error) {
	return s.repo.GetByID(ctx, userID)
}
