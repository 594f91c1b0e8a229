package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/example/trainbot/pkg/models"
	"github.com/xuri/excelize/v2"
)

// Expected row layout for question files: question text, option A,
// option B, option C, option D, correct answer letter.
const columnsPerRow = 6

// ImportQuestions parses an uploaded .xlsx or .csv file into quiz
// questions. Rows that fail validation are skipped and reported in
// the returned error list; a well-formed file with some bad rows is
// not an error. ProductID and CreatedBy on the returned questions are
// left for the caller to fill in.
func ImportQuestions(r io.Reader, filename string) ([]models.TestQuestion, []string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var rows [][]string
	var err error
	if ext == ".csv" {
		rows, err = readCSV(r)
	} else {
		rows, err = readExcel(r)
	}
	if err != nil {
		return nil, nil, err
	}

	var questions []models.TestQuestion
	var rowErrors []string

	for i, row := range rows {
		rowNum := i + 1

		// Tolerate a header row at the top of the file
		if i == 0 && looksLikeHeader(row) {
			continue
		}
		if isEmptyRow(row) {
			continue
		}

		question, err := parseRow(row)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("строка %d: %v", rowNum, err))
			continue
		}
		questions = append(questions, question)
	}

	return questions, rowErrors, nil
}

// readExcel reads all rows of the first sheet
func readExcel(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}
	return rows, nil
}

// readCSV reads all rows of a CSV file
func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseRow validates one data row and builds a question from it
func parseRow(row []string) (models.TestQuestion, error) {
	if len(row) < columnsPerRow {
		return models.TestQuestion{}, fmt.Errorf("ожидается %d колонок, найдено %d", columnsPerRow, len(row))
	}

	question := strings.TrimSpace(row[0])
	options := make([]string, 4)
	for i := 0; i < 4; i++ {
		options[i] = strings.TrimSpace(row[i+1])
	}
	correct := strings.ToUpper(strings.TrimSpace(row[5]))

	if n := utf8.RuneCountInString(question); n < 10 || n > 1000 {
		return models.TestQuestion{}, fmt.Errorf("текст вопроса должен быть от 10 до 1000 символов")
	}
	for i, opt := range options {
		if n := utf8.RuneCountInString(opt); n < 1 || n > 500 {
			return models.TestQuestion{}, fmt.Errorf("вариант %c должен быть от 1 до 500 символов", 'A'+i)
		}
	}
	if correct != "A" && correct != "B" && correct != "C" && correct != "D" {
		return models.TestQuestion{}, fmt.Errorf("правильный ответ должен быть буквой A, B, C или D")
	}

	return models.TestQuestion{
		Question:      question,
		OptionA:       options[0],
		OptionB:       options[1],
		OptionC:       options[2],
		OptionD:       options[3],
		CorrectAnswer: correct,
	}, nil
}

// looksLikeHeader reports whether a row is a column-name header
// rather than data
func looksLikeHeader(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(row[0]))
	return strings.Contains(first, "вопрос") || strings.Contains(first, "question")
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
