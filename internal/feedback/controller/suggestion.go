package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	e "github.com/avaliafacil/feedback/internal/feedback/errors"
	"github.com/avaliafacil/feedback/internal/feedback/models"
	"go.uber.org/zap"
)

// SuggestionService manages platform-wide feature requests.
type SuggestionService struct {
	repo   Repository
	logger *zap.Logger
}

func NewSuggestionService(repo Repository, logger *zap.Logger) *SuggestionService {
	return &SuggestionService{
		repo:   repo,
		logger: logger.Named("suggestion_service"),
	}
}

func (s *SuggestionService) List(ctx context.Context) ([]models.Suggestion, error) {
	suggestions, err := s.repo.ListSuggestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}
	return suggestions, nil
}

func (s *SuggestionService) Create(ctx context.Context, text string) (*models.Suggestion, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: missing text", e.ErrInvalidInput)
	}
	suggestion := &models.Suggestion{Text: text}
	if err := s.repo.CreateSuggestion(ctx, suggestion); err != nil {
		return nil, fmt.Errorf("failed to create suggestion: %w", err)
	}
	return suggestion, nil
}

// Vote bumps the like or dislike counter. The increment is atomic in SQL,
// never read-modify-write.
func (s *SuggestionService) Vote(ctx context.Context, id uint, voteType string) error {
	var column string
	switch voteType {
	case "like":
		column = "likes"
	case "dislike":
		column = "dislikes"
	default:
		return fmt.Errorf("%w: unknown vote type", e.ErrInvalidInput)
	}

	if err := s.repo.IncrementSuggestionVote(ctx, id, column); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to record vote: %w", err)
	}
	return nil
}
