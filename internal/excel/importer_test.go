package excel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportQuestionsFromCSV(t *testing.T) {
	data := strings.Join([]string{
		"Вопрос,A,B,C,D,Ответ",
		"Какой срок гарантии на кофемашину?,1 год,2 года,3 года,5 лет,B",
		"Какая мощность у модели X100 в ваттах?,1000,1200,1500,2000,c",
	}, "\n")

	questions, rowErrors, err := ImportQuestions(strings.NewReader(data), "questions.csv")
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, questions, 2)

	assert.Equal(t, "Какой срок гарантии на кофемашину?", questions[0].Question)
	assert.Equal(t, "2 года", questions[0].OptionB)
	assert.Equal(t, "B", questions[0].CorrectAnswer)
	// the answer letter is normalized to upper case
	assert.Equal(t, "C", questions[1].CorrectAnswer)
}

func TestImportQuestionsBadRows(t *testing.T) {
	data := strings.Join([]string{
		"Какой срок гарантии на кофемашину?,1 год,2 года,3 года,5 лет,B",
		"Коротко,A,B,C,D,A",
		"Какой срок гарантии на соковыжималку?,1 год,2 года,3 года,5 лет,E",
		"Вопрос без вариантов,только один,A",
		",,,,,",
	}, "\n")

	questions, rowErrors, err := ImportQuestions(strings.NewReader(data), "questions.csv")
	require.NoError(t, err)

	require.Len(t, questions, 1)
	assert.Len(t, rowErrors, 3)
	assert.Contains(t, rowErrors[0], "строка 2")
	assert.Contains(t, rowErrors[1], "строка 3")
	assert.Contains(t, rowErrors[2], "строка 4")
}

func TestImportQuestionsEmptyFile(t *testing.T) {
	questions, rowErrors, err := ImportQuestions(strings.NewReader(""), "empty.csv")
	require.NoError(t, err)
	assert.Empty(t, questions)
	assert.Empty(t, rowErrors)
}

func TestParseRowValidation(t *testing.T) {
	base := []string{"Какой срок гарантии на кофемашину?", "1 год", "2 года", "3 года", "5 лет", "A"}

	t.Run("valid", func(t *testing.T) {
		q, err := parseRow(base)
		require.NoError(t, err)
		assert.Equal(t, "A", q.CorrectAnswer)
	})

	t.Run("short question", func(t *testing.T) {
		row := append([]string{}, base...)
		row[0] = "Коротко"
		_, err := parseRow(row)
		require.Error(t, err)
	})

	t.Run("empty option", func(t *testing.T) {
		row := append([]string{}, base...)
		row[3] = "  "
		_, err := parseRow(row)
		require.Error(t, err)
	})

	t.Run("bad answer letter", func(t *testing.T) {
		row := append([]string{}, base...)
		row[5] = "X"
		_, err := parseRow(row)
		require.Error(t, err)
	})
}
