// Package adapters provides the repository implementation for the
// statements feature.
package adapters

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"disclosure_backend/internal/feature/statements/domain/entity"
	"disclosure_backend/internal/platform/cache"
)

type statementGorm struct {
	db *gorm.DB
}

var _ cache.StatementRepository = (*statementGorm)(nil)

// NewStatementRepository creates a statement repository on the given DB.
func NewStatementRepository(db *gorm.DB) *statementGorm {
	return &statementGorm{db: db}
}

// StatementModel is the persisted form of entity.Statement. The composite
// unique index is the upsert key; a re-sync of the same key overwrites the
// amount columns.
type StatementModel struct {
	ID          uint   `gorm:"primaryKey"`
	CorpCode    string `gorm:"size:8;not null;uniqueIndex:stmt_key,priority:1"`
	BsnsYear    int    `gorm:"not null;uniqueIndex:stmt_key,priority:2"`
	ReprtCode   string `gorm:"size:8;not null;uniqueIndex:stmt_key,priority:3"`
	FsDiv       string `gorm:"size:4;not null;uniqueIndex:stmt_key,priority:4"`
	SjDiv       string `gorm:"size:4;not null;uniqueIndex:stmt_key,priority:5"`
	AccountName string `gorm:"size:255;not null;uniqueIndex:stmt_key,priority:6"`

	AccountID string `gorm:"size:255"`
	Amount    int64  `gorm:"not null"`
	Currency  string `gorm:"size:8;not null;default:KRW"`
	Ord       int    `gorm:"not null;default:0"`
}

func (StatementModel) TableName() string {
	return "financial_statements"
}

func toModel(e entity.Statement) StatementModel {
	return StatementModel{
		CorpCode:    e.CorpCode,
		BsnsYear:    e.BsnsYear,
		ReprtCode:   e.ReprtCode,
		FsDiv:       e.FsDiv,
		SjDiv:       e.SjDiv,
		AccountName: e.AccountName,
		AccountID:   e.AccountID,
		Amount:      e.Amount,
		Currency:    e.Currency,
		Ord:         e.Ord,
	}
}

func toEntity(m StatementModel) entity.Statement {
	return entity.Statement{
		CorpCode:    m.CorpCode,
		BsnsYear:    m.BsnsYear,
		ReprtCode:   m.ReprtCode,
		FsDiv:       m.FsDiv,
		SjDiv:       m.SjDiv,
		AccountName: m.AccountName,
		AccountID:   m.AccountID,
		Amount:      m.Amount,
		Currency:    m.Currency,
		Ord:         m.Ord,
	}
}

// UpsertBatch inserts statements, updating the amount columns on key
// conflict (last write wins).
func (r *statementGorm) UpsertBatch(ctx context.Context, stmts []entity.Statement) error {
	if len(stmts) == 0 {
		return nil
	}
	ms := make([]StatementModel, 0, len(stmts))
	for _, e := range stmts {
		ms = append(ms, toModel(e))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "corp_code"}, {Name: "bsns_year"}, {Name: "reprt_code"},
			{Name: "fs_div"}, {Name: "sj_div"}, {Name: "account_name"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"account_id", "amount", "currency", "ord"}),
	}).Create(&ms).Error
}

// ListByYear returns all statement rows for a corporation and fiscal year
// in display order.
func (r *statementGorm) ListByYear(ctx context.Context, corpCode string, year int, fsDiv string) ([]entity.Statement, error) {
	var rows []StatementModel
	q := r.db.WithContext(ctx).
		Where("corp_code = ? AND bsns_year = ?", corpCode, year).
		Order("sj_div ASC, ord ASC")
	if fsDiv != "" {
		q = q.Where("fs_div = ?", fsDiv)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Statement, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}

// Years returns the distinct fiscal years stored for a corporation,
// ascending.
func (r *statementGorm) Years(ctx context.Context, corpCode string) ([]int, error) {
	var years []int
	if err := r.db.WithContext(ctx).
		Model(&StatementModel{}).
		Where("corp_code = ?", corpCode).
		Distinct("bsns_year").
		Order("bsns_year ASC").
		Pluck("bsns_year", &years).Error; err != nil {
		return nil, err
	}
	return years, nil
}
