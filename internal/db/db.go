package db

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"elevator-chat/internal/config"
)

// Consultation is one persisted question/answer pair in the Supabase
// "consultations" table. Conversations are regrouped from these rows
// client-side, they are not stored as such.
type Consultation struct {
	bun.BaseModel `bun:"table:consultations,alias:c"`
	ID            int64     `bun:"id,pk,autoincrement"`
	TechnicianID  string    `bun:"technician_id,notnull"`
	Question      string    `bun:"question,notnull"`
	Answer        string    `bun:"answer,notnull"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func ConnectDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	dsn := cfg.URL + "?sslmode=disable"
	return sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn), pgdriver.WithPassword(cfg.Key))), nil
}

// Store wraps the bun handle with the operations this service needs.
type Store struct {
	db *bun.DB
}

func NewStore(sqldb *sql.DB, debug bool) *Store {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().Model((*Consultation)(nil)).IfNotExists().Exec(ctx)
	return err
}

// SaveConsultation writes one question/answer row for the technician.
func (s *Store) SaveConsultation(ctx context.Context, technicianID, question, answer string) error {
	row := &Consultation{
		TechnicianID: technicianID,
		Question:     question,
		Answer:       answer,
	}
	_, err := s.db.NewInsert().Model(row).Exec(ctx)
	return err
}

// ListConsultations returns all rows for the technician, oldest first.
func (s *Store) ListConsultations(ctx context.Context, technicianID string) ([]Consultation, error) {
	var rows []Consultation
	err := s.db.NewSelect().
		Model(&rows).
		Where("technician_id = ?", technicianID).
		Order("created_at ASC").
		Scan(ctx)
	return rows, err
}

// CheckUsageLimit calls the check_usage_limit_user RPC. The counter itself is
// owned by the remote store and never materialized here.
func (s *Store) CheckUsageLimit(ctx context.Context, userUUID string) (bool, error) {
	var allowed bool
	err := s.db.NewRaw("SELECT check_usage_limit_user(?)", userUUID).Scan(ctx, &allowed)
	if err != nil {
		return false, err
	}
	return allowed, nil
}

// IncrementUsage calls the increment_usage_user RPC.
func (s *Store) IncrementUsage(ctx context.Context, userUUID string) error {
	_, err := s.db.ExecContext(ctx, "SELECT increment_usage_user(?)", userUUID)
	return err
}
