package dto

import (
	"time"

	"github.com/google/uuid"
)

// Conversations

type CreateConversationRequest struct {
	Title    string                 `json:"title" validate:"required,min=1,max=200"`
	Model    string                 `json:"model" validate:"omitempty,max=50"`
	Metadata map[string]interface{} `json:"metadata"`
}

type UpdateConversationRequest struct {
	Title    *string                `json:"title" validate:"omitempty,min=1,max=200"`
	Status   *string                `json:"status" validate:"omitempty,oneof=active archived deleted"`
	Metadata map[string]interface{} `json:"metadata"`
}

type ListConversationsQuery struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Status string `query:"status" validate:"omitempty,oneof=active archived deleted"`
}

type MessageResponse struct {
	Id             uuid.UUID              `json:"id"`
	ConversationId uuid.UUID              `json:"conversationId"`
	Role           string                 `json:"role"`
	Content        string                 `json:"content"`
	Tokens         *int                   `json:"tokens,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
}

type ConversationResponse struct {
	Id        uuid.UUID              `json:"id"`
	UserId    uuid.UUID              `json:"userId"`
	Title     string                 `json:"title"`
	Model     string                 `json:"model"`
	Status    string                 `json:"status"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
	Messages  []*MessageResponse     `json:"messages,omitempty"`
}

type ConversationListResponse struct {
	Conversations []*ConversationResponse `json:"conversations"`
	Pagination    Pagination              `json:"pagination"`
}

// Chat

type ChatRequest struct {
	Message        string     `json:"message" validate:"required,min=1,max=10000"`
	ConversationId *uuid.UUID `json:"conversationId"`
	Model          string     `json:"model" validate:"omitempty,max=50"`
	MaxTokens      int        `json:"maxTokens" validate:"omitempty,min=1,max=4096"`
	Temperature    float64    `json:"temperature" validate:"omitempty,min=0,max=2"`
}

type UsageBreakdown struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

type ChatResponse struct {
	ConversationId   uuid.UUID        `json:"conversationId"`
	UserMessage      *MessageResponse `json:"userMessage"`
	AssistantMessage *MessageResponse `json:"assistantMessage"`
	Usage            UsageBreakdown   `json:"usage"`
	Cost             float64          `json:"cost"`
}

// Images

type GenerateImagesRequest struct {
	Prompt  string `json:"prompt" validate:"required,min=1,max=4000"`
	N       int    `json:"n" validate:"omitempty,min=1,max=10"`
	Size    string `json:"size" validate:"omitempty,oneof=256x256 512x512 1024x1024 1792x1024 1024x1792"`
	Quality string `json:"quality" validate:"omitempty,oneof=standard hd"`
}

type ImageResponse struct {
	URL           string `json:"url"`
	RevisedPrompt string `json:"revisedPrompt,omitempty"`
}

type GenerateImagesResponse struct {
	Images []*ImageResponse `json:"images"`
}

// Analysis

type AnalyzeRequest struct {
	Text           string `json:"text" validate:"required,min=1,max=10000"`
	AnalysisType   string `json:"analysisType" validate:"omitempty,oneof=sentiment summary keywords translation"`
	TargetLanguage string `json:"targetLanguage" validate:"omitempty,max=20"`
}

type AnalyzeResponse struct {
	Type   string `json:"type"`
	Result string `json:"result"`
	Tokens int    `json:"tokens"`
}

// Usage

type UsageQuery struct {
	StartDate string `query:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Model     string `query:"model" validate:"omitempty,max=50"`
}

type UsageRecordResponse struct {
	Id               uuid.UUID `json:"id"`
	UserId           uuid.UUID `json:"userId"`
	Model            string    `json:"model"`
	PromptTokens     int       `json:"promptTokens"`
	CompletionTokens int       `json:"completionTokens"`
	TotalTokens      int       `json:"totalTokens"`
	Cost             float64   `json:"cost"`
	Date             string    `json:"date"`
	CreatedAt        time.Time `json:"createdAt"`
}

type UsageSummary struct {
	TotalTokens   int     `json:"totalTokens"`
	TotalCost     float64 `json:"totalCost"`
	TotalRequests int     `json:"totalRequests"`
}

type UsageResponse struct {
	Usage   []*UsageRecordResponse `json:"usage"`
	Summary UsageSummary           `json:"summary"`
}
