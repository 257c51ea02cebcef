package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	entity "platform.GO/model/entity"
	"platform.GO/platform"
)

type SnapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Migrate creates or updates the snapshot table.
func (r *SnapshotRepository) Migrate() error {
	return r.db.AutoMigrate(&entity.ActionSnapshot{})
}

// Save writes rows in one transaction.
func (r *SnapshotRepository) Save(rows []entity.ActionSnapshot) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&rows, 100).Error
	})
}

// LatestBatch returns the batch ID of the most recent snapshot, or "" when the
// table is empty.
func (r *SnapshotRepository) LatestBatch() (string, error) {
	var row entity.ActionSnapshot
	err := r.db.Order("id DESC").Limit(1).Find(&row).Error
	if err != nil {
		return "", err
	}
	return row.Batch, nil
}

// FindByBatch returns the rows of a batch in registration order.
func (r *SnapshotRepository) FindByBatch(batch string) ([]entity.ActionSnapshot, error) {
	var rows []entity.ActionSnapshot
	if err := r.db.Where("batch = ?", batch).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Take collects every action of p under a new batch ID and saves it.
func (r *SnapshotRepository) Take(p *platform.Platform) (string, int, error) {
	batch := uuid.NewString()
	rows, err := Collect(p, batch)
	if err != nil {
		return "", 0, err
	}
	if err := r.Save(rows); err != nil {
		return "", 0, fmt.Errorf("save snapshot %s: %w", batch, err)
	}
	return batch, len(rows), nil
}

type paramRow struct {
	Key         string   `json:"key"`
	Default     any      `json:"default,omitempty"`
	Validator   string   `json:"validator,omitempty"`
	Description string   `json:"description,omitempty"`
	Optional    bool     `json:"optional"`
	Injections  []string `json:"injections,omitempty"`
}

// Collect turns the services of p into snapshot rows, services and actions in
// registration order.
func Collect(p *platform.Platform, batch string) ([]entity.ActionSnapshot, error) {
	services := p.Services()
	var rows []entity.ActionSnapshot
	for _, key := range p.Keys() {
		svc := services[key]
		for name, a := range svc.All() {
			row := entity.ActionSnapshot{
				Batch:       batch,
				ServiceKey:  key,
				ServiceType: string(svc.Type()),
				ActionKey:   name,
				HTTPMethod:  a.HTTPMethod(),
				HTTPPath:    a.HTTPPath(),
				Description: a.Description(),
			}

			ps := make([]paramRow, 0, len(a.Params()))
			for _, prm := range a.Params() {
				pr := paramRow{
					Key:         prm.Key,
					Default:     prm.Default,
					Description: prm.Description,
					Optional:    prm.Optional,
					Injections:  prm.Injections,
				}
				if prm.Validator != nil {
					pr.Validator = prm.Validator.Description()
				}
				ps = append(ps, pr)
			}
			labels := make(map[string]any, len(a.Labels()))
			for _, l := range a.Labels() {
				labels[l.Key] = l.Value
			}

			var err error
			if row.Groups, err = toJSON(a.Groups()); err != nil {
				return nil, fmt.Errorf("%s/%s groups: %w", key, name, err)
			}
			if row.Params, err = toJSON(ps); err != nil {
				return nil, fmt.Errorf("%s/%s params: %w", key, name, err)
			}
			if row.Labels, err = toJSON(labels); err != nil {
				return nil, fmt.Errorf("%s/%s labels: %w", key, name, err)
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func toJSON(v any) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
