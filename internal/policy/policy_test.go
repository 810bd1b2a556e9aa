package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "company-policy.md")
	require.NoError(t, os.WriteFile(path, []byte("# Правила\nНикаких обещаний возврата."), 0644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Contains(t, doc.Text, "Правила")
}

func TestLoadMissingFileYieldsEmptyPolicy(t *testing.T) {
	doc, err := Load(filepath.Join(t.TempDir(), "absent.md"))
	require.NoError(t, err)
	assert.Empty(t, doc.Text)
}

func TestCheckCompliance(t *testing.T) {
	assert.NoError(t, CheckCompliance("Спасибо за отзыв! Напишите нам в личные сообщения."))
	assert.Error(t, CheckCompliance("Мы оформим возврат средств."))
	assert.Error(t, CheckCompliance("We will issue a REFUND immediately"))
	assert.Error(t, CheckCompliance("Предложим компенсацию"))
}
