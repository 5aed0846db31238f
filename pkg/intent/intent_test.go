package intent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyBinary(t *testing.T) {
	c := NewClassifier(DefaultTriggers())

	assert.True(t, c.Classify("Можно ли участвовать в двух проектах сразу?").Binary)
	assert.True(t, c.Classify("допускается ли перенос сроков").Binary)
	assert.False(t, c.Classify("расскажи про стажировки").Binary)
}

func TestClassifyList(t *testing.T) {
	c := NewClassifier(DefaultTriggers())

	assert.True(t, c.Classify("Какие курсы доступны студентам?").List)
	assert.True(t, c.Classify("перечисли программы").List)
	assert.False(t, c.Classify("когда начинается набор").List)
}

func TestSignalsAreIndependent(t *testing.T) {
	c := NewClassifier(DefaultTriggers())

	s := c.Classify("можно ли узнать, какие есть проекты?")
	assert.True(t, s.Binary)
	assert.True(t, s.List)
}

func TestAudienceScanOrder(t *testing.T) {
	c := NewClassifier(DefaultTriggers())

	kw, ok := c.Audience("я преподаватель, какие проекты мне доступны?")
	require.True(t, ok)
	assert.Equal(t, "преподаватель", kw)

	// first keyword in table order wins when several are present
	kw, ok = c.Audience("я студент, но спрашиваю за школьника")
	require.True(t, ok)
	assert.Equal(t, "студент", kw)

	_, ok = c.Audience("просто вопрос без категории")
	assert.False(t, ok)
}

func TestLoadTriggersOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triggers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("list:\n  - покажи варианты\n"), 0o644))

	tr, err := LoadTriggers(path)
	require.NoError(t, err)

	c := NewClassifier(tr)
	assert.True(t, c.Classify("покажи варианты курсов").List)
	// unset tables keep their defaults
	assert.True(t, c.Classify("можно ли так сделать").Binary)
}

func TestLoadTriggersMissingFileFallsBack(t *testing.T) {
	tr, err := LoadTriggers(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, DefaultTriggers(), tr)
}
