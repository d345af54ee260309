// Command langcat-import loads a vocabulary spreadsheet into the catalog.
// It shares the server's database configuration through the environment and
// takes the file layout as flags.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/xxivani/langcat/internal/config"
	"github.com/xxivani/langcat/internal/database"
	"github.com/xxivani/langcat/internal/importer"
)

func main() {
	defaults := importer.DefaultConfig()

	filePath := flag.String("file", "", "path to the vocabulary file (.xlsx or .csv)")
	sheet := flag.String("sheet", defaults.SheetName, "worksheet to read (Excel only)")
	startRow := flag.Int("start-row", defaults.StartRow, "first data row, 1-based")
	levelCol := flag.String("level-col", defaults.LevelColumn, "level code column")
	lessonCol := flag.String("lesson-col", defaults.LessonColumn, "lesson title column")
	termCol := flag.String("term-col", defaults.TermColumn, "term column")
	translationCol := flag.String("translation-col", defaults.TranslationColumn, "translation column")
	pronunciationCol := flag.String("pronunciation-col", defaults.PronunciationColumn, "pronunciation column")
	notesCol := flag.String("notes-col", defaults.NotesColumn, "notes column")
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: langcat-import -file vocabulary.xlsx [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(database.Config{Driver: cfg.DBDriver, DSN: cfg.DBDSN})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	result, err := importer.New(db, logger).Import(context.Background(), importer.Config{
		FilePath:            *filePath,
		SheetName:           *sheet,
		StartRow:            *startRow,
		LevelColumn:         *levelCol,
		LessonColumn:        *lessonCol,
		TermColumn:          *termCol,
		TranslationColumn:   *translationCol,
		PronunciationColumn: *pronunciationCol,
		NotesColumn:         *notesCol,
	})
	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}

	fmt.Printf("Processed %d rows: %d levels, %d lessons, %d words created, %d updated, %d unchanged\n",
		result.TotalProcessed, result.LevelsCreated, result.LessonsCreated,
		result.Created, result.Updated, result.Skipped)
	if len(result.Errors) > 0 {
		fmt.Printf("%d rows failed:\n", len(result.Errors))
		for _, rowErr := range result.Errors {
			fmt.Println("  " + rowErr)
		}
		os.Exit(1)
	}
}
