package admin

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/addmath/internal/bank"
)

var fixedNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

const csvFile = `topicId,question,optionA,optionB,optionC,optionD,correct,explanation
form4-functions,"If $f(x) = 2x$, find $f(3)$",6,5,3,2,0,Substitute x = 3
form5-vectors,"Magnitude of (3, 4)",5,7,1,12,0,"$\sqrt{9 + 16} = 5$"
`

func addQuestion(t *testing.T, b *bank.Bank, topicID, id string) {
	t.Helper()
	require.NoError(t, b.Add(t.Context(), topicID, bank.Question{
		ID: id, Text: "What is $x^2$?", Options: [4]string{"a", "b", "c", "d"}, Correct: 2,
	}))
}

func TestImportFileAppends(t *testing.T) {
	b := bank.New(nil)
	addQuestion(t, b, "form4-functions", "existing")

	path := filepath.Join(t.TempDir(), "questions.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvFile), 0o644))

	status, err := ImportFile(t.Context(), b, path, false, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "Imported 2 questions", status)
	assert.Equal(t, 3, b.Total())

	_, err = ImportFile(t.Context(), b, path, true, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 2, b.Total(), "replace drops existing questions")
}

func TestImportFileRejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("topicId,question\n"), 0o644))

	_, err := ImportFile(t.Context(), bank.New(nil), path, false, fixedNow)
	assert.ErrorContains(t, err, "no questions found")
}

func TestImportFileReportsSkippedAndUnknown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mixed.csv")
	data := csvFile + "form9-astrology,Q,a,b,c,d,0,e\nshort,row\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	status, err := ImportFile(t.Context(), bank.New(nil), path, false, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "Imported 3 questions, skipped 1 rows (unknown topics: form9-astrology)", status)
}

func TestExportsAndRestore(t *testing.T) {
	dir := t.TempDir()
	b := bank.New(nil)
	addQuestion(t, b, "form5-probability", "p1")

	status, err := ExportTemplate(dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "question_template.csv"))
	assert.Contains(t, status, "Template saved")

	status, err = ExportCSV(dir, b.All(), fixedNow)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "questions_20260301.csv"))
	assert.Contains(t, status, "Exported 1 questions")

	_, err = ExportBackup(dir, b.All(), fixedNow)
	require.NoError(t, err)
	backupPath := filepath.Join(dir, "questions_backup_20260301.json")

	fresh := bank.New(nil)
	status, err = RestoreBackup(t.Context(), fresh, backupPath)
	require.NoError(t, err)
	assert.Equal(t, "Restored 1 questions", status)
	q, topicID, err := fresh.Find("p1")
	require.NoError(t, err)
	assert.Equal(t, "form5-probability", topicID)
	assert.Equal(t, 2, q.Correct)
}

func TestRestoreBackupMissingFile(t *testing.T) {
	_, err := RestoreBackup(t.Context(), bank.New(nil), filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorContains(t, err, "open backup")
}

func TestCleanPath(t *testing.T) {
	assert.Equal(t, "/tmp/a b.csv", CleanPath(`  "/tmp/a b.csv" `))
	assert.Equal(t, "x.csv", CleanPath("'x.csv'"))
}
