package service

import (
	"context"
	"strings"

	"github.com/Palpatine0/TalkThrough/internal/dto"
	"github.com/Palpatine0/TalkThrough/internal/pkg/apperror"
	"github.com/Palpatine0/TalkThrough/pkg/advice/profile"
)

// IRelationshipService exposes the static category/question metadata.
type IRelationshipService interface {
	GetCategories(ctx context.Context) *dto.ListCategoriesResponse
	GetSurveyQuestions(ctx context.Context, relationshipType string) (*dto.SurveyResponse, error)
	ValidateAnswers(ctx context.Context, request *dto.ValidateAnswersRequest) (*dto.ValidateAnswersResponse, error)
}

type relationshipService struct{}

func NewRelationshipService() IRelationshipService {
	return &relationshipService{}
}

func (rs *relationshipService) GetCategories(ctx context.Context) *dto.ListCategoriesResponse {
	categories := profile.Categories()
	res := &dto.ListCategoriesResponse{
		RelationshipTypes: make([]dto.CategoryResponse, 0, len(categories)),
		Total:             len(categories),
	}
	for _, c := range categories {
		res.RelationshipTypes = append(res.RelationshipTypes, dto.CategoryResponse{
			Type:        string(c),
			Description: profile.Description(c),
		})
	}
	return res
}

func (rs *relationshipService) GetSurveyQuestions(ctx context.Context, relationshipType string) (*dto.SurveyResponse, error) {
	category := profile.Category(relationshipType)
	if !profile.Valid(category) {
		return nil, invalidCategoryError()
	}

	questions := profile.Questions(category)
	res := &dto.SurveyResponse{
		RelationshipType: relationshipType,
		Questions:        make([]dto.QuestionResponse, 0, len(questions)),
	}
	for i, q := range questions {
		res.Questions = append(res.Questions, dto.QuestionResponse{
			Question: q,
			Order:    i + 1,
		})
	}
	return res, nil
}

// ValidateAnswers reports missing required question ids and blank string
// fields without rejecting unknown extra keys; the prompt builder accepts
// arbitrary extras.
func (rs *relationshipService) ValidateAnswers(ctx context.Context, request *dto.ValidateAnswersRequest) (*dto.ValidateAnswersResponse, error) {
	category := profile.Category(request.RelationshipType)
	if !profile.Valid(category) {
		return nil, invalidCategoryError()
	}

	missing := make([]string, 0)
	invalid := make([]string, 0)

	for _, q := range profile.Questions(category) {
		if q.Required {
			if v, ok := request.SurveyAnswers[q.ID]; !ok || v == nil || v == "" {
				missing = append(missing, q.ID)
			}
		}
	}

	for key, value := range request.SurveyAnswers {
		if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
			invalid = append(invalid, key+": cannot be empty")
		}
	}

	res := &dto.ValidateAnswersResponse{
		IsValid:          len(missing) == 0 && len(invalid) == 0,
		MissingFields:    missing,
		InvalidFields:    invalid,
		RelationshipType: request.RelationshipType,
	}
	if res.IsValid {
		res.Message = "Survey answers are valid"
	} else {
		res.Message = "Survey answers have validation errors"
	}
	return res, nil
}

func invalidCategoryError() error {
	valid := make([]string, 0, len(profile.Categories()))
	for _, c := range profile.Categories() {
		valid = append(valid, string(c))
	}
	return apperror.BadRequest("INVALID_RELATIONSHIP_TYPE", "Invalid relationship type").
		WithDetails(map[string]any{"validTypes": valid})
}
