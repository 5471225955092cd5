package service

import (
	"fmt"
)

// QuestionType represents the type of question
type QuestionType string

const (
	QuestionTypeShortText    QuestionType = "short_text"
	QuestionTypeLongText     QuestionType = "long_text"
	QuestionTypeSingleChoice QuestionType = "single_choice"
)

// Question is one catalog entry in the patient follow-up questionnaire
type Question struct {
	ID       string
	Text     string
	Type     QuestionType
	Options  []string // present only for single-choice questions
	Required bool
	Removed  bool // flagged irrelevant for this case by the triage rules
}

// QuestionCatalog returns the full static follow-up question catalog,
// including the entries flagged as removed. The removed flags stand in for
// a per-case relevance model; in this version they are fixed.
func QuestionCatalog() []Question {
	return []Question{
		{
			ID:       "q1",
			Text:     "How long did the symptoms last?",
			Type:     QuestionTypeShortText,
			Required: true,
		},
		{
			ID:       "q2",
			Text:     "Did the symptoms resolve completely?",
			Type:     QuestionTypeSingleChoice,
			Options:  []string{"Yes", "No", "Partially"},
			Required: true,
		},
		{
			ID:       "q3",
			Text:     "Did you seek medical attention?",
			Type:     QuestionTypeSingleChoice,
			Options:  []string{"Yes", "No"},
			Required: true,
		},
		{
			ID:       "q4",
			Text:     "Were you hospitalized?",
			Type:     QuestionTypeSingleChoice,
			Options:  []string{"Yes", "No"},
			Required: true,
			Removed:  true,
		},
		{
			ID:       "q5",
			Text:     "Did you take any other medications at the time?",
			Type:     QuestionTypeLongText,
			Required: false,
		},
		{
			ID:       "q6",
			Text:     "Have you experienced similar reactions before?",
			Type:     QuestionTypeSingleChoice,
			Options:  []string{"Yes", "No"},
			Required: true,
		},
		{
			ID:       "q7",
			Text:     "Current health status",
			Type:     QuestionTypeSingleChoice,
			Options:  []string{"Fully recovered", "Improving", "No change", "Worsening"},
			Required: true,
		},
		{
			ID:       "q8",
			Text:     "Did you restart the medication?",
			Type:     QuestionTypeSingleChoice,
			Options:  []string{"Yes", "No"},
			Required: true,
		},
		{
			ID:       "q9",
			Text:     "Were any lab tests performed?",
			Type:     QuestionTypeSingleChoice,
			Options:  []string{"Yes", "No", "Unknown"},
			Required: false,
			Removed:  true,
		},
		{
			ID:       "q10",
			Text:     "Did symptoms recur after restarting?",
			Type:     QuestionTypeSingleChoice,
			Options:  []string{"Yes", "No", "Did not restart"},
			Required: false,
			Removed:  true,
		},
		{
			ID:       "q11",
			Text:     "Are you taking the medication as prescribed?",
			Type:     QuestionTypeSingleChoice,
			Options:  []string{"Yes", "No"},
			Required: true,
			Removed:  true,
		},
		{
			ID:       "q12",
			Text:     "Any other information you would like to share?",
			Type:     QuestionTypeLongText,
			Required: false,
		},
	}
}

// ActiveQuestions filters a catalog down to its non-removed entries,
// preserving catalog order.
func ActiveQuestions(catalog []Question) []Question {
	var active []Question
	for _, q := range catalog {
		if !q.Removed {
			active = append(active, q)
		}
	}
	return active
}

// RemovedCount returns how many catalog entries were dropped, for the
// "reduced question load by N" display messaging.
func RemovedCount(catalog []Question) int {
	count := 0
	for _, q := range catalog {
		if q.Removed {
			count++
		}
	}
	return count
}

// QuestionFlow steps a respondent through the active questions one at a
// time. Navigation is strictly sequential: no skipping ahead, no jumping
// to arbitrary indices.
type QuestionFlow struct {
	questions []Question
	answers   map[string]string
	current   int
	complete  bool
}

// NewQuestionFlow creates a flow over the active subset of the catalog
func NewQuestionFlow() *QuestionFlow {
	return &QuestionFlow{
		questions: ActiveQuestions(QuestionCatalog()),
		answers:   make(map[string]string),
		current:   0,
	}
}

// Current returns the question at the cursor, or nil once the flow is done
func (qf *QuestionFlow) Current() *Question {
	if qf.complete || qf.current >= len(qf.questions) {
		return nil
	}
	return &qf.questions[qf.current]
}

// CurrentIndex returns the 0-based cursor position
func (qf *QuestionFlow) CurrentIndex() int {
	return qf.current
}

// TotalQuestions returns the number of active questions in the flow
func (qf *QuestionFlow) TotalQuestions() int {
	return len(qf.questions)
}

// Answer records an answer for the current question
func (qf *QuestionFlow) Answer(value string) error {
	q := qf.Current()
	if q == nil {
		return fmt.Errorf("no current question")
	}
	qf.answers[q.ID] = value
	return nil
}

// AnswerFor returns the recorded answer for a question ID
func (qf *QuestionFlow) AnswerFor(questionID string) (string, bool) {
	value, ok := qf.answers[questionID]
	return value, ok
}

// Next advances the cursor by one. A required question blocks advancement
// until it has a non-empty answer. Advancing past the last question marks
// the flow complete.
func (qf *QuestionFlow) Next() error {
	q := qf.Current()
	if q == nil {
		return fmt.Errorf("questionnaire already complete")
	}

	if q.Required && qf.answers[q.ID] == "" {
		return fmt.Errorf("question %s requires an answer", q.ID)
	}

	qf.current++
	if qf.current >= len(qf.questions) {
		qf.complete = true
	}
	return nil
}

// Previous moves the cursor back one question, floored at the first
func (qf *QuestionFlow) Previous() {
	if qf.complete {
		// Stepping back from the completion screen reopens the last question
		qf.complete = false
		qf.current = len(qf.questions) - 1
		return
	}
	if qf.current > 0 {
		qf.current--
	}
}

// IsComplete reports whether the respondent has moved past the last question
func (qf *QuestionFlow) IsComplete() bool {
	return qf.complete
}

// ValidateAnswers checks that every required active question has a
// non-empty answer in the given set.
func ValidateAnswers(questions []Question, answers map[string]string) error {
	for _, q := range questions {
		if q.Required && answers[q.ID] == "" {
			return fmt.Errorf("response is required for question: %s", q.ID)
		}
	}
	return nil
}
