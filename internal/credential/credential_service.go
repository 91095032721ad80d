package credential

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	credentialerrors "go-gatepass/internal/credential/errors"
	"go-gatepass/internal/events"
	"go-gatepass/internal/messaging/kafka"
	"go-gatepass/internal/shared/apperror"
	"go-gatepass/internal/shared/contextutil"
	"go-gatepass/internal/shared/counter"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const StatsCacheKey = "credentials:stats"

const statsCacheTTL = 5 * time.Minute

//go:generate mockgen -source=credential_service.go -destination=mock/credential_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateCredentialRequest) (CredentialResponse, error)
	GetAll(ctx context.Context, kind string) ([]CredentialResponse, error)
	GetByID(ctx context.Context, id string) (CredentialResponse, error)
	Update(ctx context.Context, id string, req UpdateCredentialRequest) (CredentialResponse, error)
	Deactivate(ctx context.Context, id string) (CredentialResponse, error)
	Search(ctx context.Context, kind, query string, field SearchField) ([]CredentialResponse, error)
	Stats(ctx context.Context) (StatsResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	rdb     *redis.Client
	sf      *singleflight.Group
	now     func() time.Time
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counter counter.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, counter, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	counter counter.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("credential.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("credential.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counter,
		outbox:  outboxRepo,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		now:     time.Now,
		logger:  l,
	}
}

func (s *service) Create(
	ctx context.Context,
	req CreateCredentialRequest,
) (CredentialResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create credential requested",
		zap.String("request_id", rid),
		zap.String("kind", req.Kind),
		zap.String("subject_name", req.SubjectName),
	)

	if !ValidKind(req.Kind) {
		s.logger.Warn("create credential invalid kind", zap.String("kind", req.Kind))
		return CredentialResponse{}, credentialerrors.ErrInvalidKind
	}

	expiry, err := validateFields(req.Kind, req.fields())
	if err != nil {
		s.logger.Warn("create credential validation failed",
			zap.String("request_id", rid),
			zap.Error(err),
		)
		return CredentialResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create credential begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return CredentialResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	nextVal, err := s.counter.GetNextValue(ctx, req.Kind)
	if err != nil {
		s.logger.Error("create credential generate id failed", zap.Error(err))
		return CredentialResponse{}, err
	}

	cred := &Credential{
		ID:             fmt.Sprintf("%s-%06d", KindPrefix(req.Kind), nextVal),
		Kind:           req.Kind,
		SubjectName:    req.SubjectName,
		Company:        req.Company,
		ContactPhone:   req.ContactPhone,
		IdentityNumber: req.IdentityNumber,
		ExpiryDate:     expiry,
		Deactivated:    false,
		Position:       req.Position,
		Email:          req.Email,
		PlateNumber:    req.PlateNumber,
		VehicleModel:   req.VehicleModel,
		VehicleColor:   req.VehicleColor,
		PhotoRef:       req.PhotoRef,
	}

	if err := qtx.Create(ctx, cred); err != nil {
		s.logger.Error("create credential persist failed", zap.Error(err))
		return CredentialResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.CredentialIssuedEvent{
			EventType:    "credential_issued",
			RequestID:    rid,
			CredentialID: cred.ID,
			Kind:         cred.Kind,
			OccurredAt:   time.Now().UTC(),
		}
		if err := s.enqueueOutbox(ctx, tx, cred, event.EventType, event); err != nil {
			return CredentialResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create credential commit failed", zap.String("request_id", rid), zap.Error(err))
		return CredentialResponse{}, err
	}

	s.invalidateStatsCache(ctx)

	s.logger.Info("create credential success",
		zap.String("request_id", rid),
		zap.String("credential_id", cred.ID),
	)

	return NewResponse(*cred, s.now()), nil
}

func (s *service) GetAll(
	ctx context.Context,
	kind string,
) ([]CredentialResponse, error) {
	s.logger.Debug("get all credentials requested", zap.String("kind", kind))

	if kind != "" && !ValidKind(kind) {
		return nil, credentialerrors.ErrInvalidKind
	}

	creds, err := s.repo.FindAllByKind(ctx, kind)
	if err != nil {
		s.logger.Error("get all credentials failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return newListResponse(creds, s.now()), nil
}

func (s *service) GetByID(
	ctx context.Context,
	id string,
) (CredentialResponse, error) {
	s.logger.Debug("get credential by id requested", zap.String("credential_id", id))

	cred, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("get credential by id failed", zap.Error(err))
		return CredentialResponse{}, mapRepositoryError(err)
	}

	return NewResponse(*cred, s.now()), nil
}

func (s *service) Update(
	ctx context.Context,
	id string,
	req UpdateCredentialRequest,
) (CredentialResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update credential requested",
		zap.String("request_id", rid),
		zap.String("credential_id", id),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update credential begin tx failed", zap.Error(err))
		return CredentialResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	cred, err := qtx.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("update credential fetch existing failed", zap.Error(err))
		return CredentialResponse{}, mapRepositoryError(err)
	}

	// Validate against the stored kind: requests cannot carry kind, so the
	// kind-specific required set is decided by the record itself.
	expiry, err := validateFields(cred.Kind, req.fields())
	if err != nil {
		s.logger.Warn("update credential validation failed",
			zap.String("credential_id", id),
			zap.Error(err),
		)
		return CredentialResponse{}, err
	}

	cred.SubjectName = req.SubjectName
	cred.Company = req.Company
	cred.ContactPhone = req.ContactPhone
	cred.IdentityNumber = req.IdentityNumber
	cred.ExpiryDate = expiry
	cred.Position = req.Position
	cred.Email = req.Email
	cred.PlateNumber = req.PlateNumber
	cred.VehicleModel = req.VehicleModel
	cred.VehicleColor = req.VehicleColor
	cred.PhotoRef = req.PhotoRef

	if err := qtx.Update(ctx, cred); err != nil {
		s.logger.Error("update credential persist failed", zap.Error(err))
		return CredentialResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update credential commit failed", zap.Error(err))
		return CredentialResponse{}, err
	}

	s.invalidateStatsCache(ctx)

	s.logger.Info("update credential success", zap.String("credential_id", id))

	return NewResponse(*cred, s.now()), nil
}

func (s *service) Deactivate(
	ctx context.Context,
	id string,
) (CredentialResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("deactivate credential requested",
		zap.String("request_id", rid),
		zap.String("credential_id", id),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("deactivate credential begin tx failed", zap.Error(err))
		return CredentialResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	cred, err := qtx.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("deactivate credential fetch failed", zap.Error(err))
		return CredentialResponse{}, mapRepositoryError(err)
	}

	// Already deactivated is not an error; repeating the request leaves the
	// record exactly as it was.
	if cred.Deactivated {
		s.logger.Info("credential already deactivated", zap.String("credential_id", id))
		return NewResponse(*cred, s.now()), nil
	}

	cred.Deactivated = true

	if err := qtx.Update(ctx, cred); err != nil {
		s.logger.Error("deactivate credential persist failed", zap.Error(err))
		return CredentialResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.CredentialDeactivatedEvent{
			EventType:    "credential_deactivated",
			RequestID:    rid,
			CredentialID: cred.ID,
			Kind:         cred.Kind,
			OccurredAt:   time.Now().UTC(),
		}
		if err := s.enqueueOutbox(ctx, tx, cred, event.EventType, event); err != nil {
			return CredentialResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("deactivate credential commit failed", zap.Error(err))
		return CredentialResponse{}, err
	}

	s.invalidateStatsCache(ctx)

	s.logger.Info("deactivate credential success", zap.String("credential_id", id))

	return NewResponse(*cred, s.now()), nil
}

func (s *service) Search(
	ctx context.Context,
	kind, query string,
	field SearchField,
) ([]CredentialResponse, error) {
	// Empty queries are rejected here, at the caller boundary, so the
	// filter itself never sees one.
	if strings.TrimSpace(query) == "" {
		return nil, credentialerrors.ErrEmptySearchQuery
	}
	if kind != "" && !ValidKind(kind) {
		return nil, credentialerrors.ErrInvalidKind
	}

	s.logger.Debug("search credentials requested",
		zap.String("kind", kind),
		zap.String("field", string(field)),
	)

	creds, err := s.repo.FindAllByKind(ctx, kind)
	if err != nil {
		s.logger.Error("search credentials list failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return newListResponse(Filter(query, field, creds), s.now()), nil
}

func (s *service) Stats(ctx context.Context) (StatsResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, StatsCacheKey).Result(); err == nil {
			var resp StatsResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// Singleflight collapses concurrent dashboard loads into one store read.
	v, err, _ := s.sf.Do(StatsCacheKey, func() (interface{}, error) {
		creds, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := computeStats(creds, s.now())

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, StatsCacheKey, jsonData, statsCacheTTL)
			}
		}

		return resp, nil
	})

	if err != nil {
		return StatsResponse{}, err
	}

	return v.(StatsResponse), nil
}

func (s *service) enqueueOutbox(ctx context.Context, tx *sql.Tx, cred *Credential, eventType string, event any) error {
	rid := contextutil.GetRequestID(ctx)

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal lifecycle event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	outboxRepo := s.outbox.WithTx(tx)
	if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "credential",
		AggregateID:   cred.ID,
		EventType:     eventType,
		Topic:         events.CredentialLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("credential outbox persist failed",
			zap.String("credential_id", cred.ID),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return err
	}

	return nil
}

func (s *service) invalidateStatsCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, StatsCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate stats cache",
			zap.Error(err),
			zap.String("key", StatsCacheKey),
		)
	}
}

func computeStats(creds []Credential, asOf time.Time) StatsResponse {
	var resp StatsResponse
	for i := range creds {
		switch creds[i].Kind {
		case KindEmployee:
			resp.TotalEmployees++
		case KindVehicle:
			resp.TotalVehicles++
		}
		switch EvaluateStatus(&creds[i], asOf) {
		case StatusActive:
			resp.Valid++
		case StatusExpiringSoon:
			resp.Valid++
			resp.ExpiringSoon++
		}
	}
	return resp
}

// validateFields walks the required fields in a fixed order so the first
// reported failure is deterministic for the same invalid input. It returns
// the parsed expiry date on success.
func validateFields(kind string, f credentialFields) (time.Time, error) {
	type check struct{ name, value string }

	checks := []check{
		{"subject_name", f.SubjectName},
		{"company", f.Company},
		{"contact_phone", f.ContactPhone},
		{"identity_number", f.IdentityNumber},
		{"expiry_date", f.ExpiryDate},
	}
	switch kind {
	case KindEmployee:
		checks = append(checks, check{"position", f.Position})
	case KindVehicle:
		checks = append(checks,
			check{"plate_number", f.PlateNumber},
			check{"vehicle_model", f.VehicleModel},
			check{"vehicle_color", f.VehicleColor},
		)
	}

	for _, c := range checks {
		if strings.TrimSpace(c.value) == "" {
			return time.Time{}, apperror.RequiredField(c.name)
		}
	}

	expiry, err := time.Parse(dateLayout, f.ExpiryDate)
	if err != nil {
		return time.Time{}, credentialerrors.ErrInvalidExpiryDate
	}

	if kind == KindEmployee && f.Email != "" && !govalidator.IsEmail(f.Email) {
		return time.Time{}, credentialerrors.ErrInvalidEmail
	}

	return expiry, nil
}
