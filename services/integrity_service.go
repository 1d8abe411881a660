package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Dosada05/tournament-progression/brackets"
	"github.com/Dosada05/tournament-progression/models"
	"github.com/Dosada05/tournament-progression/repositories"
)

type IssueKind string

const (
	IssueUnassignedParticipants IssueKind = "unassigned_participants"
	IssueMissingCategory        IssueKind = "missing_category"
	IssueInvalidRound           IssueKind = "invalid_round"
	IssueInvalidResult          IssueKind = "invalid_result"
)

type IntegrityIssue struct {
	Kind           IssueKind `json:"kind"`
	MatchNumber    int       `json:"match_number,omitempty"`
	ParticipantIDs []int     `json:"participant_ids,omitempty"`
	Message        string    `json:"message"`
}

type IntegrityReport struct {
	CategoryID int              `json:"category_id"`
	Healthy    bool             `json:"healthy"`
	Issues     []IntegrityIssue `json:"issues"`
}

type IntegrityService interface {
	CheckCategory(ctx context.Context, categoryID int) (*IntegrityReport, error)
}

type integrityService struct {
	categoryRepo    repositories.CategoryRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	logger          *slog.Logger
}

func NewIntegrityService(
	categoryRepo repositories.CategoryRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	logger *slog.Logger,
) IntegrityService {
	return &integrityService{
		categoryRepo:    categoryRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		logger:          logger,
	}
}

func (s *integrityService) CheckCategory(ctx context.Context, categoryID int) (*IntegrityReport, error) {
	cat, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	report := &IntegrityReport{CategoryID: cat.ID, Issues: []IntegrityIssue{}}

	if cat.Format != models.FormatKnockoutOnly {
		participants, err := s.participantRepo.ListByCategory(ctx, cat.ID)
		if err != nil {
			return nil, err
		}
		var unassigned *brackets.UnassignedParticipantsError
		if err := brackets.ValidateGroupAssignments(*cat, participantIDs(participants)); errors.As(err, &unassigned) {
			report.Issues = append(report.Issues, IntegrityIssue{
				Kind:           IssueUnassignedParticipants,
				ParticipantIDs: unassigned.ParticipantIDs,
				Message:        unassigned.Error(),
			})
		}
	}

	matches, err := s.matchRepo.List(ctx, nil, repositories.MatchFilter{TournamentID: cat.TournamentID})
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		if m.CategoryID != nil && *m.CategoryID != cat.ID {
			continue
		}
		if err := m.Validate(); err != nil {
			report.Issues = append(report.Issues, IntegrityIssue{
				Kind:        issueKind(err),
				MatchNumber: m.MatchNumber,
				Message:     err.Error(),
			})
		}
	}

	report.Healthy = len(report.Issues) == 0
	if !report.Healthy {
		s.logger.Warn("category integrity issues found",
			slog.Int("category_id", cat.ID), slog.Int("issues", len(report.Issues)))
	}
	return report, nil
}

func issueKind(err error) IssueKind {
	switch {
	case errors.Is(err, models.ErrMissingCategory):
		return IssueMissingCategory
	case errors.Is(err, models.ErrInvalidRound):
		return IssueInvalidRound
	default:
		return IssueInvalidResult
	}
}
