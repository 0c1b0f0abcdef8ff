package services

import (
	"context"
	"encoding/json"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/example/topupadmin/internal/models"
	"github.com/example/topupadmin/internal/utils"
)

// Auditor records operator mutation attempts. Recording never fails the
// mutation itself.
type Auditor interface {
	Record(ctx context.Context, rec AuditRecord)
}

// AuditRecord is the input for one audit entry.
type AuditRecord struct {
	Actor     string
	Action    string
	TargetIDs []string
	Payload   any
	Err       error
}

// AuditFilter narrows the audit listing.
type AuditFilter struct {
	Action string
	Actor  string
	Page   utils.Pagination
}

// AuditService persists audit entries through gorm.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

func (s *AuditService) Record(ctx context.Context, rec AuditRecord) {
	entry := newAuditEntry(rec)
	if err := s.db.WithContext(context.WithoutCancel(ctx)).Create(&entry).Error; err != nil {
		log.Ctx(ctx).Error().Err(err).Str("action", rec.Action).Msg("failed to write audit entry")
	}
}

// List returns audit entries newest first together with the total count.
func (s *AuditService) List(ctx context.Context, filter AuditFilter) ([]models.AuditEntry, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.AuditEntry{})

	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.Actor != "" {
		query = query.Where("actor = ?", filter.Actor)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.AuditEntry
	if err := query.
		Order("created_at desc").
		Limit(filter.Page.Limit).
		Offset(filter.Page.Offset).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

const maxAuditErrorBytes = 1024

func newAuditEntry(rec AuditRecord) models.AuditEntry {
	entry := models.AuditEntry{
		Actor:     rec.Actor,
		Action:    rec.Action,
		TargetIDs: pq.StringArray(rec.TargetIDs),
		Outcome:   models.AuditOutcomeOK,
	}

	if rec.Payload != nil {
		if data, err := json.Marshal(rec.Payload); err == nil {
			entry.Payload = datatypes.JSON(data)
		}
	}

	if rec.Err != nil {
		entry.Outcome = models.AuditOutcomeError
		entry.Error = utils.TruncateUTF8(rec.Err.Error(), maxAuditErrorBytes)
	}

	return entry
}

type nopAuditor struct{}

func (nopAuditor) Record(context.Context, AuditRecord) {}

// NopAuditor discards every record; used when auditing is disabled.
func NopAuditor() Auditor {
	return nopAuditor{}
}
