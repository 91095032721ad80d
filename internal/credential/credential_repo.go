package credential

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=credential_repo.go -destination=mock/credential_repo_mock.go -package=mock

// Repository is the record store the engine consumes. Each call is atomic;
// the service serializes read-modify-write on one id inside a transaction.
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, cred *Credential) error
	FindByID(ctx context.Context, id string) (*Credential, error)
	FindAllByKind(ctx context.Context, kind string) ([]Credential, error)
	FindAll(ctx context.Context) ([]Credential, error)
	Update(ctx context.Context, cred *Credential) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) Create(ctx context.Context, cred *Credential) error {
	return r.db.WithContext(ctx).Create(cred).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Credential, error) {
	var cred Credential
	err := r.db.WithContext(ctx).
		First(&cred, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

func (r *repository) FindAllByKind(ctx context.Context, kind string) ([]Credential, error) {
	var creds []Credential
	q := r.db.WithContext(ctx).Order("id ASC")
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	err := q.Find(&creds).Error
	return creds, err
}

func (r *repository) FindAll(ctx context.Context) ([]Credential, error) {
	return r.FindAllByKind(ctx, "")
}

func (r *repository) Update(ctx context.Context, cred *Credential) error {
	return r.db.WithContext(ctx).Save(cred).Error
}
