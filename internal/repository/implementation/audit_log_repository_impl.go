package implementation

import (
	"context"
	"encoding/json"

	"matchtrip-be/internal/model"
	"matchtrip-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditLogRepositoryImpl struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) contract.AuditLogRepository {
	return &AuditLogRepositoryImpl{db: db}
}

func (r *AuditLogRepositoryImpl) Record(ctx context.Context, actorId uuid.UUID, action, entityType string, entityId uuid.UUID, details map[string]interface{}) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&model.AuditLog{
		ActorId:    actorId,
		Action:     action,
		EntityType: entityType,
		EntityId:   entityId,
		Details:    datatypes.JSON(raw),
	}).Error
}
