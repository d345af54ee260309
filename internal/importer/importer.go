// Package importer loads vocabulary into the catalog from spreadsheet
// files. Excel and CSV share one row pipeline: resolve the level, resolve
// the lesson, then create or update the word.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/xxivani/langcat/internal/database"
	"github.com/xxivani/langcat/pkg/models"
)

// Config maps file columns onto word fields. Columns are Excel-style
// letters and apply to CSV files as positions (A = first field).
type Config struct {
	FilePath            string
	SheetName           string
	StartRow            int // 1-based first data row
	LevelColumn         string
	LessonColumn        string
	TermColumn          string
	TranslationColumn   string
	PronunciationColumn string
	NotesColumn         string
}

// DefaultConfig matches the layout of the course spreadsheets:
// level code, lesson title, term, translation, pronunciation, notes.
func DefaultConfig() Config {
	return Config{
		SheetName:           "Sheet1",
		StartRow:            2,
		LevelColumn:         "A",
		LessonColumn:        "B",
		TermColumn:          "C",
		TranslationColumn:   "D",
		PronunciationColumn: "E",
		NotesColumn:         "F",
	}
}

// Result counts what one import run did.
type Result struct {
	TotalProcessed int
	LevelsCreated  int
	LessonsCreated int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

// Importer writes imported vocabulary through the catalog repositories.
type Importer struct {
	lessons *database.LessonRepository
	words   *database.WordRepository
	logger  *zap.Logger

	levels      map[string]*models.Level // by lowercased code
	lessonIDs   map[string]string        // by levelID + "\x00" + lowercased title
	maxPosition int
}

func New(db *database.DB, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{
		lessons:   database.NewLessonRepository(db),
		words:     database.NewWordRepository(db),
		logger:    logger,
		levels:    make(map[string]*models.Level),
		lessonIDs: make(map[string]string),
	}
}

// Import reads the configured file and loads every row. Row-level problems
// are collected in the result; only file-level failures abort the run.
func (imp *Importer) Import(ctx context.Context, cfg Config) (*Result, error) {
	if err := imp.loadLevels(ctx); err != nil {
		return nil, err
	}

	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(cfg.FilePath)) {
	case ".csv":
		rows, err = readCSV(cfg.FilePath)
	default:
		rows, err = readExcel(cfg.FilePath, cfg.SheetName)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{Errors: make([]string, 0)}
	for i, row := range rows {
		rowNum := i + 1
		if rowNum < cfg.StartRow {
			continue
		}
		if isBlank(row) {
			continue
		}
		result.TotalProcessed++
		if err := imp.processRow(ctx, cfg, row, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
		}
	}

	imp.logger.Info("import finished",
		zap.String("file", cfg.FilePath),
		zap.Int("processed", result.TotalProcessed),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading csv: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (imp *Importer) processRow(ctx context.Context, cfg Config, row []string, result *Result) error {
	levelCode := cell(row, cfg.LevelColumn)
	lessonTitle := cell(row, cfg.LessonColumn)
	term := cell(row, cfg.TermColumn)
	translation := cell(row, cfg.TranslationColumn)

	if term == "" {
		return fmt.Errorf("term cannot be empty")
	}
	if translation == "" {
		return fmt.Errorf("translation cannot be empty")
	}
	if levelCode == "" || lessonTitle == "" {
		return fmt.Errorf("level and lesson are required for %q", term)
	}

	level, err := imp.getOrCreateLevel(ctx, levelCode, result)
	if err != nil {
		return err
	}
	lessonID, err := imp.getOrCreateLesson(ctx, level, lessonTitle, result)
	if err != nil {
		return err
	}

	word := models.Word{
		LessonID:      &lessonID,
		Term:          term,
		Translation:   translation,
		Pronunciation: cell(row, cfg.PronunciationColumn),
		Notes:         cell(row, cfg.NotesColumn),
	}
	return imp.upsertWord(ctx, word, result)
}

func (imp *Importer) loadLevels(ctx context.Context) error {
	existing, err := imp.lessons.Levels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list levels: %w", err)
	}
	for i := range existing {
		level := existing[i]
		imp.levels[strings.ToLower(level.Code)] = &level
		if level.Position > imp.maxPosition {
			imp.maxPosition = level.Position
		}
	}
	return nil
}

func (imp *Importer) getOrCreateLevel(ctx context.Context, code string, result *Result) (*models.Level, error) {
	if level, ok := imp.levels[strings.ToLower(code)]; ok {
		return level, nil
	}
	imp.maxPosition++
	level := &models.Level{
		Code:     strings.ToUpper(code),
		Title:    strings.ToUpper(code),
		Position: imp.maxPosition,
	}
	if err := imp.lessons.CreateLevel(ctx, level); err != nil {
		return nil, fmt.Errorf("failed to create level %s: %w", code, err)
	}
	imp.levels[strings.ToLower(code)] = level
	result.LevelsCreated++
	return level, nil
}

func (imp *Importer) getOrCreateLesson(ctx context.Context, level *models.Level, title string, result *Result) (string, error) {
	key := level.ID + "\x00" + strings.ToLower(title)
	if id, ok := imp.lessonIDs[key]; ok {
		return id, nil
	}

	lesson, err := imp.lessons.LessonByTitle(ctx, level.ID, title)
	if err == nil {
		imp.lessonIDs[key] = lesson.ID
		return lesson.ID, nil
	}
	if !isNotFound(err) {
		return "", fmt.Errorf("failed to look up lesson %q: %w", title, err)
	}

	existing, err := imp.lessons.LessonsByLevel(ctx, level.ID)
	if err != nil {
		return "", fmt.Errorf("failed to list lessons: %w", err)
	}
	created := &models.Lesson{
		LevelID:  level.ID,
		Title:    title,
		Position: len(existing) + 1,
	}
	if err := imp.lessons.CreateLesson(ctx, created); err != nil {
		return "", fmt.Errorf("failed to create lesson %q: %w", title, err)
	}
	imp.lessonIDs[key] = created.ID
	result.LessonsCreated++
	return created.ID, nil
}

// upsertWord creates the word, updates it when the file brings new content,
// or counts it as skipped when nothing changed.
func (imp *Importer) upsertWord(ctx context.Context, word models.Word, result *Result) error {
	existing, err := imp.words.GetByTermAndLesson(ctx, word.Term, *word.LessonID)
	if isNotFound(err) {
		if err := imp.words.Create(ctx, &word); err != nil {
			return fmt.Errorf("failed to create word %q: %w", word.Term, err)
		}
		result.Created++
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up word %q: %w", word.Term, err)
	}

	if existing.Translation == word.Translation &&
		existing.Pronunciation == word.Pronunciation &&
		existing.Notes == word.Notes {
		result.Skipped++
		return nil
	}
	existing.Translation = word.Translation
	existing.Pronunciation = word.Pronunciation
	existing.Notes = word.Notes
	if err := imp.words.Update(ctx, existing); err != nil {
		return fmt.Errorf("failed to update word %q: %w", word.Term, err)
	}
	result.Updated++
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}

// cell reads the trimmed value of an Excel-style column from a row, empty
// when the row is too short.
func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	idx := columnToIndex(column)
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// columnToIndex converts a column letter ("A", "B", ... "AA") to its
// zero-based index.
func columnToIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	index := 0
	for i := 0; i < len(column); i++ {
		c := column[i]
		if c < 'A' || c > 'Z' {
			return -1
		}
		index = index*26 + int(c-'A'+1)
	}
	return index - 1
}

func isBlank(row []string) bool {
	for _, field := range row {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
