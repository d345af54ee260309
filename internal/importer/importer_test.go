package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"github.com/xxivani/langcat/internal/database"
)

func testDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", DSN: ":memory:"})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func writeWorkbook(t *testing.T, path string, rows [][]string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	header := []string{"Level", "Lesson", "Term", "Translation", "Pronunciation", "Notes"}
	for c, v := range header {
		cellName, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		if err := f.SetCellValue("Sheet1", cellName, v); err != nil {
			t.Fatalf("SetCellValue: %v", err)
		}
	}
	for r, row := range rows {
		for c, v := range row {
			cellName, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				t.Fatalf("CoordinatesToCellName: %v", err)
			}
			if err := f.SetCellValue("Sheet1", cellName, v); err != nil {
				t.Fatalf("SetCellValue: %v", err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
}

func TestImportExcelBuildsCatalog(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vocab.xlsx")
	writeWorkbook(t, path, [][]string{
		{"A1", "Greetings", "hola", "hello", "OH-lah", ""},
		{"A1", "Greetings", "adiós", "goodbye", "", ""},
		{"A1", "Numbers", "uno", "one", "", ""},
		{"B1", "Travel", "billete", "ticket", "", "also a bank note"},
	})

	imp := New(db, nil)
	cfg := DefaultConfig()
	cfg.FilePath = path

	result, err := imp.Import(ctx, cfg)
	assert.NoError(t, err)
	assert.Equal(t, 4, result.TotalProcessed)
	assert.Equal(t, 2, result.LevelsCreated)
	assert.Equal(t, 3, result.LessonsCreated)
	assert.Equal(t, 4, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Empty(t, result.Errors)

	lessons := database.NewLessonRepository(db)
	levels, err := lessons.Levels(ctx)
	assert.NoError(t, err)
	assert.Len(t, levels, 2)
	assert.Equal(t, "A1", levels[0].Code)
	assert.Equal(t, 1, levels[0].Position)
	assert.Equal(t, "B1", levels[1].Code)
	assert.Equal(t, 2, levels[1].Position)

	a1Lessons, err := lessons.LessonsByLevel(ctx, levels[0].ID)
	assert.NoError(t, err)
	assert.Len(t, a1Lessons, 2)

	words := database.NewWordRepository(db)
	greetings, err := lessons.LessonByTitle(ctx, levels[0].ID, "Greetings")
	assert.NoError(t, err)
	inGreetings, err := words.GetByLesson(ctx, greetings.ID)
	assert.NoError(t, err)
	assert.Len(t, inGreetings, 2)

	hola, err := words.GetByTermAndLesson(ctx, "hola", greetings.ID)
	assert.NoError(t, err)
	assert.Equal(t, "hello", hola.Translation)
	assert.Equal(t, "OH-lah", hola.Pronunciation)
}

func TestImportIsIdempotent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vocab.xlsx")
	writeWorkbook(t, path, [][]string{
		{"A1", "Greetings", "hola", "hello", "", ""},
		{"A1", "Greetings", "adiós", "goodbye", "", ""},
	})

	imp := New(db, nil)
	cfg := DefaultConfig()
	cfg.FilePath = path

	first, err := imp.Import(ctx, cfg)
	assert.NoError(t, err)
	assert.Equal(t, 2, first.Created)

	second, err := imp.Import(ctx, cfg)
	assert.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 0, second.Updated)
	assert.Equal(t, 2, second.Skipped, "unchanged rows are skipped, not rewritten")
	assert.Equal(t, 0, second.LevelsCreated)
	assert.Equal(t, 0, second.LessonsCreated)
}

func TestImportCSVUpdatesAndCollectsRowErrors(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	// Seed via Excel, then reshape one word through a CSV drop.
	xlsxPath := filepath.Join(t.TempDir(), "seed.xlsx")
	writeWorkbook(t, xlsxPath, [][]string{
		{"A1", "Greetings", "hola", "hello", "", ""},
	})
	imp := New(db, nil)
	cfg := DefaultConfig()
	cfg.FilePath = xlsxPath
	_, err := imp.Import(ctx, cfg)
	assert.NoError(t, err)

	csvPath := filepath.Join(t.TempDir(), "update.csv")
	csvContent := "Level,Lesson,Term,Translation,Pronunciation,Notes\n" +
		"A1,Greetings,hola,hi there,OH-lah,\n" +
		"A1,Greetings,buenas,,,\n" +
		"\n" +
		"A1,Greetings,gracias,thanks,,\n"
	if err := os.WriteFile(csvPath, []byte(csvContent), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	// A fresh importer proves the caches warm up from the database.
	csvImp := New(db, nil)
	csvCfg := DefaultConfig()
	csvCfg.FilePath = csvPath

	result, err := csvImp.Import(ctx, csvCfg)
	assert.NoError(t, err)
	assert.Equal(t, 3, result.TotalProcessed, "blank lines are not rows")
	assert.Equal(t, 1, result.Updated, "hola picked up the new translation")
	assert.Equal(t, 1, result.Created, "gracias is new")
	assert.Len(t, result.Errors, 1, "missing translation is a row error")
	assert.Contains(t, result.Errors[0], "row 3")
	assert.Equal(t, 0, result.LevelsCreated)

	words := database.NewWordRepository(db)
	lessons := database.NewLessonRepository(db)
	level, err := lessons.LevelByCode(ctx, "A1")
	assert.NoError(t, err)
	greetings, err := lessons.LessonByTitle(ctx, level.ID, "Greetings")
	assert.NoError(t, err)
	hola, err := words.GetByTermAndLesson(ctx, "hola", greetings.ID)
	assert.NoError(t, err)
	assert.Equal(t, "hi there", hola.Translation)
	assert.Equal(t, "OH-lah", hola.Pronunciation)
}

func TestColumnToIndex(t *testing.T) {
	tests := []struct {
		col  string
		want int
	}{
		{"A", 0},
		{"b", 1},
		{"F", 5},
		{"Z", 25},
		{"AA", 26},
		{"", -1},
		{"1", -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, columnToIndex(tt.col), tt.col)
	}
}
