package service

import (
	"context"
	"fmt"

	"telegram-casino-bot/internal/model"
	"telegram-casino-bot/internal/repository"
)

// Leaderboard size shown to players.
const rankingLimit = 10

// Ranking keys accepted by RankingService.Top.
const (
	RankByDeposit  = "deposit"
	RankByTurnover = "turnover"
	RankByWins     = "wins"
)

// RankingService builds the leaderboards.
type RankingService struct {
	accounts *repository.AccountRepository
}

// NewRankingService creates a new RankingService instance.
func NewRankingService(accounts *repository.AccountRepository) *RankingService {
	return &RankingService{accounts: accounts}
}

// Top returns the ten best accounts for the given ranking key.
func (s *RankingService) Top(ctx context.Context, key string) ([]*model.Account, error) {
	accounts, err := s.accounts.TopBy(ctx, key, rankingLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s ranking: %w", key, err)
	}
	return accounts, nil
}

// Keys lists the supported ranking keys.
func (s *RankingService) Keys() []string {
	return []string{RankByDeposit, RankByTurnover, RankByWins}
}
