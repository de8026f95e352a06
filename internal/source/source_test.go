package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heritage/internal/models"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "json array",
			file:    "sites.json",
			content: `[{"name":"Angkor","country":"Cambodia","year":1992},{"name":"Petra","country":"Jordan"}]`,
		},
		{
			name:    "json envelope",
			file:    "sites.json",
			content: `{"sites":[{"name":"Angkor","country":"Cambodia","year":1992},{"name":"Petra","country":"Jordan"}]}`,
		},
		{
			name:    "jsonl",
			file:    "sites.JSONL",
			content: "{\"name\":\"Angkor\",\"country\":\"Cambodia\",\"year\":1992}\n\n{\"name\":\"Petra\",\"country\":\"Jordan\"}\n",
		},
		{
			name:    "yaml list",
			file:    "sites.yaml",
			content: "- name: Angkor\n  country: Cambodia\n  year: 1992\n- name: Petra\n  country: Jordan\n",
		},
		{
			name:    "yml envelope",
			file:    "sites.yml",
			content: "sites:\n  - name: Angkor\n    country: Cambodia\n    year: 1992\n  - name: Petra\n    country: Jordan\n",
		},
		{
			name:    "csv",
			file:    "sites.csv",
			content: "Name,Country,Year\nAngkor,Cambodia,1992\nPetra,Jordan,\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Load(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			require.Len(t, records, 2)

			assert.Equal(t, "Angkor", records[0].GetOr(models.FieldName, ""))
			assert.Equal(t, "Cambodia", records[0].GetOr(models.FieldCountry, ""))
			assert.Equal(t, "1992", records[0].GetOr(models.FieldYear, ""))

			_, hasYear := records[1].Get(models.FieldYear)
			assert.False(t, hasYear)
		})
	}
}

func TestLoadEmpty(t *testing.T) {
	for _, file := range []string{"a.json", "a.jsonl", "a.yaml", "a.csv"} {
		records, err := Load(writeFile(t, file, ""))
		require.NoError(t, err, file)
		assert.NotNil(t, records, file)
		assert.Empty(t, records, file)
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "sites.xml", "<sites/>"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(writeFile(t, "sites.json", "[{"))
	require.ErrorIs(t, err, ErrMalformedInput)

	_, err = Load(writeFile(t, "sites.jsonl", "{}\nnot json\n"))
	require.ErrorIs(t, err, ErrMalformedInput)
	assert.Contains(t, err.Error(), "line 2")

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeCSVRaggedRows(t *testing.T) {
	records, err := Decode(strings.NewReader("name,country\nAngkor\nPetra,Jordan,extra\n"), "csv")
	require.NoError(t, err)
	require.Len(t, records, 2)

	_, hasCountry := records[0].Get(models.FieldCountry)
	assert.False(t, hasCountry)
	assert.Equal(t, "Jordan", records[1].GetOr(models.FieldCountry, ""))
	assert.Len(t, records[1], 2)
}
