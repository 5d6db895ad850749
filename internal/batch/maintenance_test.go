package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eegprep/internal/config"
	apperrors "eegprep/internal/errors"
)

func TestCleanAll_DropsEmptyAndIncompleteRows(t *testing.T) {
	root := t.TempDir()
	content := "ch1;ch2;ch3\n" +
		"1.0;2.0;3.0\n" +
		";;\n" +
		"4.0;;6.0\n" +
		"7.0;bad;9.0\n" +
		"10.0;11.0;12.0\n"
	path := filepath.Join(root, "subj01", "task1_memorize.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	o := newTestOrchestrator()
	summary, err := o.CleanAll(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Files)
	assert.Equal(t, 3, summary.RowsRemoved)
	assert.Equal(t, 0, summary.Failed)

	raw, _, err := o.loader.Load(path, []rune{';'})
	require.NoError(t, err)
	require.Equal(t, 2, raw.NumRows())
	assert.Equal(t, []string{"1.0", "2.0", "3.0"}, raw.Cells[0])
	assert.Equal(t, []string{"10.0", "11.0", "12.0"}, raw.Cells[1])
}

func TestCleanAll_CleanFileUntouched(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "task1_memorize.csv")
	require.NoError(t, os.WriteFile(path, []byte(sineCSV(3, 10)), 0644))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	summary, err := newTestOrchestrator().CleanAll(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.RowsRemoved)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "file rewritten without removals")
}

func TestCleanAll_UnparseableFileCountedAsFailed(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.csv"), []byte("onlyonecolumn\n1\n"), 0644))

	summary, err := newTestOrchestrator().CleanAll(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
}

func TestRenameAll_AppliesLookupMap(t *testing.T) {
	root := t.TempDir()
	subject := filepath.Join(root, "subj01")
	require.NoError(t, os.MkdirAll(subject, 0755))
	for _, name := range []string{"M.csv", "ET.csv", "R.csv", "unknown.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(subject, name), []byte("a;b\n1;2\n"), 0644))
	}

	summary, err := newTestOrchestrator().RenameAll(context.Background(), root, config.DefaultRenameMap())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Renamed)
	assert.Equal(t, 1, summary.Skipped)
	for _, want := range []string{"task1_memorize.csv", "task2_viewing.csv", "task3_recall.csv", "unknown.csv"} {
		_, err := os.Stat(filepath.Join(subject, want))
		assert.NoError(t, err, "expected %s", want)
	}
	_, err = os.Stat(filepath.Join(subject, "M.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestRenameAll_ExistingTargetSkipped(t *testing.T) {
	root := t.TempDir()
	subject := filepath.Join(root, "subj01")
	require.NoError(t, os.MkdirAll(subject, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(subject, "M.csv"), []byte("old"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(subject, "task1_memorize.csv"), []byte("new"), 0644))

	summary, err := newTestOrchestrator().RenameAll(context.Background(), root, config.DefaultRenameMap())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Renamed)
	assert.Equal(t, 1, summary.Skipped)
	content, err := os.ReadFile(filepath.Join(subject, "task1_memorize.csv"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))
}

func TestRenameAll_IgnoresFilesAtRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "M.csv"), []byte("a;b\n"), 0644))

	summary, err := newTestOrchestrator().RenameAll(context.Background(), root, config.DefaultRenameMap())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Renamed)

	_, err = os.Stat(filepath.Join(root, "M.csv"))
	assert.NoError(t, err)
}

func TestPrune_RequiresForce(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "other.csv"), []byte("a;b\n"), 0644))

	_, err := newTestOrchestrator().Prune(context.Background(), root, PruneKeepTargets, false)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))

	_, statErr := os.Stat(filepath.Join(root, "other.csv"))
	assert.NoError(t, statErr, "file deleted despite missing force")
}

func TestPrune_KeepTargets(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"subj01/task1_memorize.csv": "a;b\n",
		"subj01/task2_viewing.csv":  "a;b\n",
		"subj01/eyes_closed.csv":    "a;b\n",
		"subj02/scratch.csv":        "a;b\n",
		"subj02/task3_recall.csv":   "a;b\n",
	})

	summary, err := newTestOrchestrator().Prune(context.Background(), root, PruneKeepTargets, true)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Deleted)
	assert.Equal(t, 3, summary.Kept)
	_, err = os.Stat(filepath.Join(root, "subj01", "eyes_closed.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "subj01", "task1_memorize.csv"))
	assert.NoError(t, err)
}

func TestPrune_KeepFiltered(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"subj01/task1_memorize.csv":          "a;b\n",
		"subj01/task1_memorize_filtered.csv": "a;b\n",
		"subj01/task2_viewing_filtered.csv":  "a;b\n",
	})

	summary, err := newTestOrchestrator().Prune(context.Background(), root, PruneKeepFiltered, true)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Deleted)
	assert.Equal(t, 2, summary.Kept)
	_, err = os.Stat(filepath.Join(root, "subj01", "task1_memorize.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "subj01", "task1_memorize_filtered.csv"))
	assert.NoError(t, err)
}

func TestPrune_UnknownMode(t *testing.T) {
	_, err := newTestOrchestrator().Prune(context.Background(), t.TempDir(), PruneMode("bogus"), true)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}
