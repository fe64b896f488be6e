package qbank

import (
	"strconv"
	"strings"

	"prepkart/internal/model"

	"github.com/google/uuid"
)

// Document is a question bank entry.
type Document struct {
	ID         string    `bson:"_id,omitempty"`
	QuestionID string    `bson:"questionId,omitempty"`
	TaxonomyID string    `bson:"taxonomyId,omitempty"`
	Version    int64     `bson:"version,omitempty"`
	Session    int64     `bson:"session,omitempty"`
	Status     int32     `bson:"status,omitempty"`
	Content    []Content `bson:"content,omitempty"`
}

// Content is the question body in one language.
type Content struct {
	Language        int32        `bson:"language,omitempty"`
	Answer          string       `bson:"answer,omitempty"`
	QuestionStem    QuestionStem `bson:"questionStem,omitempty"`
	Options         []Option     `bson:"options,omitempty"`
	DifficultyLevel int32        `bson:"difficultyLevel,omitempty"`
}

type QuestionStem struct {
	Text string `bson:"text,omitempty"`
}

type Option struct {
	Text        string `bson:"text,omitempty"`
	Explanation string `bson:"explanation,omitempty"`
	SequenceID  int32  `bson:"sequenceId"`
}

// idSpace namespaces the ids derived from question bank identifiers so that
// importing the same document twice yields the same question id.
var idSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("prepkart/qbank"))

// ToQuestion maps the content in language (or the first content when that
// language is missing) to a quiz question. It reports false for documents
// without a stem, with fewer than two options or without exactly one option
// matching the answer.
func ToQuestion(doc Document, language int32) (model.Question, bool) {
	c, ok := pickContent(doc.Content, language)
	if !ok {
		return model.Question{}, false
	}

	text := strings.TrimSpace(c.QuestionStem.Text)
	if text == "" || len(c.Options) < 2 {
		return model.Question{}, false
	}

	answer := strings.TrimSpace(c.Answer)
	key := doc.QuestionID
	if key == "" {
		key = doc.ID
	}

	q := model.Question{
		ID:         uuid.NewSHA1(idSpace, []byte(key)),
		Text:       text,
		Options:    make([]model.Option, len(c.Options)),
		Difficulty: difficulty(c.DifficultyLevel),
	}

	correct := 0
	for i, o := range c.Options {
		seq := strconv.Itoa(int(o.SequenceID))
		isCorrect := seq == answer
		if isCorrect {
			correct++
			q.Explanation = strings.TrimSpace(o.Explanation)
		}
		q.Options[i] = model.Option{
			ID:        uuid.NewSHA1(idSpace, []byte(key+"/"+seq)),
			Text:      strings.TrimSpace(o.Text),
			IsCorrect: isCorrect,
		}
	}
	if correct != 1 {
		return model.Question{}, false
	}

	if doc.Session > 0 {
		year := int(doc.Session)
		q.Year = &year
	}

	return q, true
}

func pickContent(contents []Content, language int32) (Content, bool) {
	if len(contents) == 0 {
		return Content{}, false
	}
	for _, c := range contents {
		if c.Language == language {
			return c, true
		}
	}
	return contents[0], true
}

func difficulty(level int32) model.Difficulty {
	switch {
	case level == 1:
		return model.DifficultyEasy
	case level >= 3:
		return model.DifficultyHard
	default:
		return model.DifficultyMedium
	}
}
