// Package render turns pending question and answer changes into the text of
// the update comments posted on a question's activity.
package render

import (
	"strings"

	"github.com/alfredjeanlab/qastream/internal/model"
)

// Localization keys set on update comments.
const (
	KeyQuestionTitle       = "question-update-title"
	KeyQuestionDetail      = "question-update-detail"
	KeyQuestionActivated   = "question-activated"
	KeyQuestionUnactivated = "question-unactivated"
	KeyQuestionAttachment  = "question-add-attachment"
	KeyQuestionLanguage    = "question-add-language"

	KeyAnswerAdded       = "answer-add"
	KeyAnswerContent     = "answer-update-content"
	KeyAnswerPromoted    = "answer-promoted"
	KeyAnswerActivated   = "answer-activated"
	KeyAnswerUnactivated = "answer-unactivated"
	KeyAnswerApproved    = "answer-approved"
	KeyAnswerDisapproved = "answer-disapproved"
)

// QuestionChanges renders one line per change, joined by newlines, and tags
// target with the localization key of each change in turn. A language
// change naming no language is skipped.
func QuestionChanges(q *model.Question, changes []model.QuestionChange, target *model.Activity) string {
	lines := make([]string, 0, len(changes))
	for _, c := range changes {
		if line, ok := questionMessage(q, c, target); ok {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func questionMessage(q *model.Question, c model.QuestionChange, target *model.Activity) (string, bool) {
	switch c.Kind {
	case model.QuestionTitleChanged:
		target.SetResourceKey(KeyQuestionTitle, q.Title)
		return "Title has been updated to: " + q.Title, true
	case model.QuestionDetailChanged:
		detail := FourFirstLines(q.Detail)
		target.SetResourceKey(KeyQuestionDetail, detail)
		return "Details has been edited to: " + detail, true
	case model.QuestionActivationToggled:
		if c.Active {
			target.SetResourceKey(KeyQuestionActivated)
			return "Question has been activated.", true
		}
		target.SetResourceKey(KeyQuestionUnactivated)
		return "Question has been unactivated.", true
	case model.QuestionAttachmentAdded:
		target.SetResourceKey(KeyQuestionAttachment)
		return "Attachment(s) has been added.", true
	default:
		// New variants are appended last, so the last one is the added language.
		lang := c.Language
		if lang == "" {
			lang = q.LastLanguage()
		}
		if lang == "" {
			return "", false
		}
		target.SetResourceKey(KeyQuestionLanguage, lang)
		return "Question has been added in " + lang, true
	}
}

// AnswerChanges renders one line per change, joined by newlines, and tags
// target with the localization key of each change in turn.
func AnswerChanges(a *model.Answer, changes []model.AnswerChange, target *model.Activity) string {
	lines := make([]string, 0, len(changes))
	for _, c := range changes {
		lines = append(lines, answerMessage(a, c, target))
	}
	return strings.Join(lines, "\n")
}

func answerMessage(a *model.Answer, c model.AnswerChange, target *model.Activity) string {
	content := FourFirstLines(a.Body)
	switch c.Kind {
	case model.AnswerContentEdited:
		target.SetResourceKey(KeyAnswerContent, content)
		return "Answer has been edited to: " + content
	case model.AnswerPromoted:
		target.SetResourceKey(KeyAnswerPromoted, content)
		return PromotedMessage(a)
	case model.AnswerActivationToggled:
		if c.Active {
			target.SetResourceKey(KeyAnswerActivated, content)
			return "Answer has been activated: " + content + "."
		}
		target.SetResourceKey(KeyAnswerUnactivated, content)
		return "Answer has been unactivated: " + content + "."
	default:
		if c.Approved {
			target.SetResourceKey(KeyAnswerApproved, content)
			return "Answer has been approved: " + content + "."
		}
		target.SetResourceKey(KeyAnswerDisapproved, content)
		return "Answer has been disapproved: " + content + "."
	}
}

// PromotedMessage is the text rendered when a comment is promoted to an
// answer. The engine compares rendered titles against it to detect a
// promotion.
func PromotedMessage(a *model.Answer) string {
	return "Comment " + FourFirstLines(a.Body) + " has been promoted as an answer"
}

// SubmittedAnswer sets the title and localization key of the comment posted
// for a brand-new answer.
func SubmittedAnswer(a *model.Answer, target *model.Activity) {
	content := FourFirstLines(a.Body)
	target.Title = "Answer has been submitted: " + content
	target.SetResourceKey(KeyAnswerAdded, content)
}
