package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/syllabus/internal/app"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/llm"
)

const suggestSystemPrompt = `You help a school teacher write a lesson plan for one teaching session.
Reply with a single JSON object and nothing else, using exactly these keys:
"objectives", "methods", "resources", "assessment".
Each value is plain text of one to three short sentences.`

// SuggestionService drafts plan fields with a language model.
type SuggestionService struct {
	client   llm.Client
	observer UseCaseObserver
}

func NewSuggestionService(client llm.Client, observers ...UseCaseObserver) *SuggestionService {
	return &SuggestionService{client: client, observer: useCaseObserverOrNoop(observers)}
}

func (s *SuggestionService) Suggest(ctx context.Context, req app.SuggestionRequest) (f *domain.PlanFields, err error) {
	sp := startSpan(s.observer, "suggest-plan")
	sp.set("scope", req.Scope.String())
	defer func() { sp.done(ctx, err) }()

	resp, err := s.client.Chat(ctx, llm.ChatRequest{
		Task:   llm.TaskSuggestPlan,
		System: suggestSystemPrompt,
		User:   suggestUserPrompt(req),
		JSON:   true,
	})
	if err != nil {
		return nil, err
	}
	fields, err := llm.ExtractJSON[domain.PlanFields](resp.Text)
	if err != nil {
		return nil, err
	}
	return &fields, nil
}

func suggestUserPrompt(req app.SuggestionRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Class: %s\nSubject: %s\n", req.Scope.Class, req.Scope.Subject)
	fmt.Fprintf(&b, "Chapter %d: %s\n", req.ChapterNumber, req.ChapterName)
	fmt.Fprintf(&b, "Session %d: %s\n", req.SessionNumber, req.SessionName)
	if req.DurationMin > 0 {
		fmt.Fprintf(&b, "Duration: %d minutes\n", req.DurationMin)
	}
	return b.String()
}
