package service

import "context"

// HealthService отвечает на readiness-проверку.
type HealthService struct {
	repo HealthRepo
}

func NewHealthService(repo HealthRepo) *HealthService {
	return &HealthService{repo: repo}
}

// Ready возвращает ошибку, если хранилище недоступно.
func (s *HealthService) Ready(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
