package services

import (
	"github.com/vikasavnish/flowguide/internal/models"
	"github.com/vikasavnish/flowguide/internal/netsim"
	"github.com/vikasavnish/flowguide/internal/store"
)

// HistoryService covers the append-only logs: advice, voice/SMS and safety.
type HistoryService interface {
	GetAdviceHistory(userID string) ([]models.AdviceHistory, error)
	CreateAdviceHistory(entry models.AdviceHistory) (*models.AdviceHistory, error)
	GetVoiceSmsHistory(userID string) ([]models.VoiceSmsHistory, error)
	CreateVoiceSmsHistory(entry models.VoiceSmsHistory) (*models.VoiceSmsHistory, error)
	GetSafetyLogs(userID string) ([]models.SafetyLog, error)
	CreateSafetyLog(entry models.SafetyLog) (*models.SafetyLog, error)
}

type historyService struct {
	advice   table[models.AdviceHistory]
	voiceSms table[models.VoiceSmsHistory]
	safety   table[models.SafetyLog]
}

func NewHistoryService(st *store.Store, net *netsim.Network) HistoryService {
	newest := newestFirst("created_at")
	return &historyService{
		advice:   newTable[models.AdviceHistory](st, net, store.AdviceHistory, newest),
		voiceSms: newTable[models.VoiceSmsHistory](st, net, store.VoiceSmsHistory, newest),
		safety:   newTable[models.SafetyLog](st, net, store.SafetyLogs, newest),
	}
}

func (s *historyService) GetAdviceHistory(userID string) ([]models.AdviceHistory, error) {
	return s.advice.list(userID, 0, nil)
}

func (s *historyService) CreateAdviceHistory(entry models.AdviceHistory) (*models.AdviceHistory, error) {
	return s.advice.create(entry)
}

func (s *historyService) GetVoiceSmsHistory(userID string) ([]models.VoiceSmsHistory, error) {
	return s.voiceSms.list(userID, 0, nil)
}

func (s *historyService) CreateVoiceSmsHistory(entry models.VoiceSmsHistory) (*models.VoiceSmsHistory, error) {
	return s.voiceSms.create(entry)
}

func (s *historyService) GetSafetyLogs(userID string) ([]models.SafetyLog, error) {
	return s.safety.list(userID, 0, nil)
}

func (s *historyService) CreateSafetyLog(entry models.SafetyLog) (*models.SafetyLog, error) {
	return s.safety.create(entry)
}
