package scan

import (
	"context"
	"errors"
	"time"

	"go-gatepass/internal/credential"
	credentialerrors "go-gatepass/internal/credential/errors"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const badgeQRSize = 256

//go:generate mockgen -source=scan_service.go -destination=mock/scan_service_mock.go -package=mock
type Service interface {
	Verify(ctx context.Context, payload string) (VerificationResult, error)
	BadgeQR(ctx context.Context, id string) ([]byte, error)
}

type service struct {
	repo   credential.Repository
	codec  PayloadCodec
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo credential.Repository, codec PayloadCodec, logger ...*zap.Logger) Service {
	l := zap.L().Named("scan.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("scan.service")
	}
	return &service{
		repo:   repo,
		codec:  codec,
		now:    time.Now,
		logger: l,
	}
}

// Verify resolves a scanned payload to a stored credential and evaluates it
// as of now. It is a single read with no retries and no store mutation;
// every failure short of a store outage is a reported verdict, never an
// error to the caller.
func (s *service) Verify(ctx context.Context, payload string) (VerificationResult, error) {
	ref, err := s.codec.Decode(payload)
	if err != nil {
		s.logger.Warn("scan payload decode failed", zap.Error(err))
		return VerificationResult{OK: false, Reason: ReasonMalformedPayload}, nil
	}

	cred, err := s.repo.FindByID(ctx, ref.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("scan resolved to unknown credential", zap.String("credential_id", ref.ID))
			return VerificationResult{OK: false, Reason: ReasonUnknownCredential}, nil
		}
		s.logger.Error("scan lookup failed", zap.String("credential_id", ref.ID), zap.Error(err))
		return VerificationResult{}, err
	}

	asOf := s.now()
	status := credential.EvaluateStatus(cred, asOf)
	resp := credential.NewResponse(*cred, asOf)

	switch status {
	case credential.StatusActive, credential.StatusExpiringSoon:
		// Expiring-soon still verifies; the status travels with the verdict
		// so the gate can warn the holder to renew.
		s.logger.Info("scan verified",
			zap.String("credential_id", cred.ID),
			zap.String("status", string(status)),
		)
		return VerificationResult{
			OK:         true,
			Status:     string(status),
			Credential: &resp,
		}, nil
	default:
		s.logger.Info("scan rejected",
			zap.String("credential_id", cred.ID),
			zap.String("reason", string(status)),
		)
		return VerificationResult{
			OK:         false,
			Status:     string(status),
			Reason:     string(status),
			Credential: &resp,
		}, nil
	}
}

// BadgeQR renders the machine-readable code for an issued credential as a
// PNG, for the badge printing flow.
func (s *service) BadgeQR(ctx context.Context, id string) ([]byte, error) {
	cred, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, credentialerrors.ErrCredentialNotFound
		}
		return nil, err
	}

	payload, err := s.codec.Encode(CredentialRef{ID: cred.ID, Kind: cred.Kind})
	if err != nil {
		s.logger.Error("encode badge payload failed", zap.String("credential_id", id), zap.Error(err))
		return nil, err
	}

	png, err := qrcode.Encode(payload, qrcode.Medium, badgeQRSize)
	if err != nil {
		s.logger.Error("render badge qr failed", zap.String("credential_id", id), zap.Error(err))
		return nil, err
	}

	return png, nil
}
