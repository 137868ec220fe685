package registry

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ceyewan/scout/clog"
	"github.com/ceyewan/scout/service"
	"github.com/ceyewan/scout/xerrors"
)

// serviceRow 持久化行。结构化列用于索引与检索，
// 完整记录以 JSON 存在 payload 列里。
type serviceRow struct {
	ID           string `gorm:"primaryKey;size:64"`
	Name         string `gorm:"uniqueIndex;size:255"`
	Type         string `gorm:"size:64;index"`
	Description  string
	Status       string `gorm:"size:32"`
	HealthStatus string `gorm:"size:32"`
	Tags         string // 逗号连接，用于子串检索
	Payload      []byte
	FirstSeen    time.Time
	LastSeen     time.Time
}

func (serviceRow) TableName() string { return "services" }

// gormStore SQLite 持久化目录
type gormStore struct {
	cfg    *Config
	db     *gorm.DB
	logger clog.Logger
}

func newGormStore(cfg *Config, db *gorm.DB, logger clog.Logger) (*gormStore, error) {
	if err := db.AutoMigrate(&serviceRow{}); err != nil {
		return nil, xerrors.Wrap(err, "registry: migrate schema")
	}
	return &gormStore{cfg: cfg, db: db, logger: logger}, nil
}

func (g *gormStore) Register(ctx context.Context, rec *service.UnifiedRecord) (service.RegistrationResult, error) {
	name := service.NormalizeName(rec.Name)
	now := time.Now()
	var result service.RegistrationResult

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row serviceRow
		query := tx.Where("name = ?", name)
		if !g.cfg.EnableDeduplication && rec.ID != "" {
			query = tx.Where("id = ?", rec.ID)
		}

		err := query.First(&row).Error
		switch {
		case xerrors.Is(err, gorm.ErrRecordNotFound):
			stored := rec.Clone()
			stored.Name = name
			if stored.ID == "" {
				stored.ID = service.NewID()
			}
			if stored.FirstSeen.IsZero() {
				stored.FirstSeen = now
			}
			stored.LastSeen = now
			stored.MissedCycles = 0

			newRow, err := toRow(stored)
			if err != nil {
				return err
			}
			if err := tx.Create(&newRow).Error; err != nil {
				return xerrors.Wrap(err, "registry: insert")
			}
			rec.ID = stored.ID
			result = service.RegistrationResult{Outcome: service.OutcomeCreated, ID: stored.ID, Name: name}
			return nil

		case err != nil:
			return xerrors.Wrap(err, "registry: lookup")
		}

		existing, err := fromRow(&row)
		if err != nil {
			return err
		}

		if recordsEqual(existing, rec) {
			existing.LastSeen = now
			existing.MissedCycles = 0
			updatedRow, err := toRow(existing)
			if err != nil {
				return err
			}
			if err := tx.Save(&updatedRow).Error; err != nil {
				return xerrors.Wrap(err, "registry: touch")
			}
			rec.ID = existing.ID
			result = service.RegistrationResult{Outcome: service.OutcomeUnchanged, ID: existing.ID, Name: name}
			return nil
		}

		updated := rec.Clone()
		updated.Name = name
		updated.ID = existing.ID
		updated.FirstSeen = existing.FirstSeen
		updated.LastSeen = now
		updated.MissedCycles = 0

		updatedRow, err := toRow(updated)
		if err != nil {
			return err
		}
		if err := tx.Save(&updatedRow).Error; err != nil {
			return xerrors.Wrap(err, "registry: update")
		}
		rec.ID = existing.ID
		result = service.RegistrationResult{Outcome: service.OutcomeUpdated, ID: existing.ID, Name: name}
		return nil
	})
	return result, err
}

func (g *gormStore) Get(ctx context.Context, id string) (*service.UnifiedRecord, error) {
	var row serviceRow
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if xerrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, xerrors.Wrap(err, "registry: get")
	}
	return fromRow(&row)
}

func (g *gormStore) GetByName(ctx context.Context, name string) (*service.UnifiedRecord, error) {
	var row serviceRow
	err := g.db.WithContext(ctx).Where("name = ?", service.NormalizeName(name)).First(&row).Error
	if xerrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, xerrors.Wrap(err, "registry: get by name")
	}
	return fromRow(&row)
}

func (g *gormStore) List(ctx context.Context, filter service.Filter) ([]*service.UnifiedRecord, error) {
	var rows []serviceRow
	if err := g.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, xerrors.Wrap(err, "registry: list")
	}

	var out []*service.UnifiedRecord
	for i := range rows {
		rec, err := fromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		if filter.Match(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (g *gormStore) Search(ctx context.Context, term string) ([]*service.UnifiedRecord, error) {
	pattern := "%" + strings.ToLower(term) + "%"
	var rows []serviceRow
	err := g.db.WithContext(ctx).
		Where("name LIKE ? OR lower(description) LIKE ? OR lower(tags) LIKE ?", pattern, pattern, pattern).
		Order("name").
		Find(&rows).Error
	if err != nil {
		return nil, xerrors.Wrap(err, "registry: search")
	}

	out := make([]*service.UnifiedRecord, 0, len(rows))
	for i := range rows {
		rec, err := fromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (g *gormStore) Deregister(ctx context.Context, id string) error {
	res := g.db.WithContext(ctx).Where("id = ?", id).Delete(&serviceRow{})
	if res.Error != nil {
		return xerrors.Wrap(res.Error, "registry: deregister")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *gormStore) Count(ctx context.Context) (int, error) {
	var count int64
	if err := g.db.WithContext(ctx).Model(&serviceRow{}).Count(&count).Error; err != nil {
		return 0, xerrors.Wrap(err, "registry: count")
	}
	return int(count), nil
}

func toRow(rec *service.UnifiedRecord) (serviceRow, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return serviceRow{}, xerrors.Wrap(err, "registry: encode record")
	}
	return serviceRow{
		ID:           rec.ID,
		Name:         rec.Name,
		Type:         rec.Type,
		Description:  rec.Description,
		Status:       string(rec.Status),
		HealthStatus: string(rec.HealthStatus),
		Tags:         strings.Join(rec.Tags, ","),
		Payload:      payload,
		FirstSeen:    rec.FirstSeen,
		LastSeen:     rec.LastSeen,
	}, nil
}

func fromRow(row *serviceRow) (*service.UnifiedRecord, error) {
	var rec service.UnifiedRecord
	if err := json.Unmarshal(row.Payload, &rec); err != nil {
		return nil, xerrors.Wrap(err, "registry: decode record")
	}
	return &rec, nil
}
