package service

import (
	"context"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LogService interface {
	LogAction(ctx context.Context, adminID primitive.ObjectID, action, description, ipAddress string, metadata map[string]interface{}) error
	GetAllLogs(ctx context.Context, page, limit int) ([]*models.LogEntry, error)
	GetLogsByAdminID(ctx context.Context, adminID string, page, limit int) ([]*models.LogEntry, error)
}

type logService struct {
	logRepo repository.LogRepository
}

func NewLogService(logRepo repository.LogRepository) LogService {
	return &logService{logRepo: logRepo}
}

func (s *logService) LogAction(ctx context.Context, adminID primitive.ObjectID, action, description, ipAddress string, metadata map[string]interface{}) error {
	logEntry := &models.LogEntry{
		AdminID:     adminID,
		Action:      action,
		Description: description,
		IPAddress:   ipAddress,
		Metadata:    metadata,
	}
	return s.logRepo.SaveLog(ctx, logEntry)
}

func (s *logService) GetAllLogs(ctx context.Context, page, limit int) ([]*models.LogEntry, error) {
	return s.logRepo.GetAllLogs(ctx, page, limit)
}

func (s *logService) GetLogsByAdminID(ctx context.Context, adminID string, page, limit int) ([]*models.LogEntry, error) {
	objID, err := parseID(adminID)
	if err != nil {
		return nil, err
	}
	return s.logRepo.GetLogsByAdminID(ctx, objID, page, limit)
}
