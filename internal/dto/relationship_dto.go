package dto

import "github.com/Palpatine0/TalkThrough/pkg/advice/profile"

type QuestionResponse struct {
	profile.Question
	Order int `json:"order"`
}

type SurveyResponse struct {
	RelationshipType string             `json:"relationshipType"`
	Questions        []QuestionResponse `json:"questions"`
}

type CategoryResponse struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

type ListCategoriesResponse struct {
	RelationshipTypes []CategoryResponse `json:"relationshipTypes"`
	Total             int                `json:"total"`
}

type ValidateAnswersRequest struct {
	RelationshipType string         `json:"relationshipType" validate:"required"`
	SurveyAnswers    map[string]any `json:"surveyAnswers" validate:"required"`
}

type ValidateAnswersResponse struct {
	IsValid          bool     `json:"isValid"`
	MissingFields    []string `json:"missingFields"`
	InvalidFields    []string `json:"invalidFields"`
	RelationshipType string   `json:"relationshipType"`
	Message          string   `json:"message"`
}
