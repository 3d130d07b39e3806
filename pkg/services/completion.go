package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/vcisolabs/vciso-engine/pkg/llm"
)

// CompletionResult is an assistant answer with its derived metadata.
type CompletionResult struct {
	Response             string
	Confidence           float64
	ReferencedFrameworks []string
	ReferencedDocuments  []string
}

// CompletionService turns a user message plus organizational context into
// an assistant answer.
type CompletionService interface {
	// Respond completes the message under the given context. The context
	// may be nil; the answer is then framed by the base system prompt only.
	Respond(ctx context.Context, message string, contextInput *llm.ContextInput) (*CompletionResult, error)

	// AnalyzeDocument produces a compliance-oriented analysis of document
	// content against the given frameworks.
	AnalyzeDocument(ctx context.Context, content, documentType string, frameworks []string) (*CompletionResult, error)
}

type completionService struct {
	provider llm.Provider
	logger   *zap.Logger
}

// NewCompletionService creates a new completion service.
func NewCompletionService(provider llm.Provider, logger *zap.Logger) CompletionService {
	return &completionService{
		provider: provider,
		logger:   logger.Named("completion"),
	}
}

var _ CompletionService = (*completionService)(nil)

func (s *completionService) Respond(ctx context.Context, message string, contextInput *llm.ContextInput) (*CompletionResult, error) {
	systemPrompt := llm.ComposeSystemPrompt(llm.PromptGeneral, contextInput)

	response, err := s.provider.Complete(ctx, systemPrompt, message)
	if err != nil {
		s.logger.Error("Completion failed",
			zap.String("model", s.provider.GetModel()),
			zap.Error(err))
		return nil, fmt.Errorf("completion failed: %w", err)
	}

	return &CompletionResult{
		Response:             response,
		Confidence:           llm.ScoreConfidence(response, contextInput.HasCompanyContext()),
		ReferencedFrameworks: llm.ExtractFrameworks(response),
		ReferencedDocuments:  []string{},
	}, nil
}

func (s *completionService) AnalyzeDocument(ctx context.Context, content, documentType string, frameworks []string) (*CompletionResult, error) {
	prompt := fmt.Sprintf(`Analyze the following %s document for cybersecurity and compliance insights:

Document Content:
%s

Please provide:
1. A concise summary of the document's security relevance
2. Compliance framework mappings for: %s
3. Identified security controls and requirements
4. Potential gaps or recommendations
5. Risk level assessment

Format your response as structured analysis.`, documentType, content, strings.Join(frameworks, ", "))

	return s.Respond(ctx, prompt, nil)
}
