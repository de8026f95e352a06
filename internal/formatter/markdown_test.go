package formatter

import (
	"strings"
	"testing"
	"time"

	"heritage/pkg/metadata"
)

func TestFormatMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name: "Basic table formatting",
			input: `
| Continent | Sites |
| --- | --- |
| Asia | 12 |
`,
			expected: `
| Continent | Sites |
| --------- | ----- |
| Asia      | 12    |
`,
		},
		{
			name: "Fix excessive dashes",
			input: `
| Tier | Sites |
| ---------------------- | ---------------------------------- |
| High | 3 |
`,
			expected: `
| Tier | Sites |
| ---- | ----- |
| High | 3     |
`,
		},
		{
			name: "Keep alignment markers",
			input: `
| Country | Sites | Share |
| :--- | ---: | :---: |
| Cambodia | 2 | 1% |
`,
			expected: `
| Country  | Sites | Share |
| -------- | ----: | :---: |
| Cambodia |     2 |  1%   |
`,
		},
		{
			name: "Mixed content",
			input: `
# Title

| H1 | H2 |
| -- | -- |
| v1 | v2 |

Text after table.
`,
			expected: `
# Title

| H1  | H2  |
| --- | --- |
| v1  | v2  |

Text after table.
`,
		},
		{
			name: "Wide characters",
			input: `
| Name | Country |
| --- | --- |
| 古都京都の文化財 | Japan |
| Angkor | Cambodia |
`,
			expected: `
| Name             | Country  |
| ---------------- | -------- |
| 古都京都の文化財 | Japan    |
| Angkor           | Cambodia |
`,
		},
		{
			name: "Short rows are padded",
			input: `
| A | B |
| --- | --- |
| only |
`,
			expected: `
| A    | B   |
| ---- | --- |
| only |     |
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatMarkdown(strings.TrimSpace(tt.input))

			if strings.TrimSpace(got) != strings.TrimSpace(tt.expected) {
				t.Errorf("FormatMarkdown() = \n%v\nwant \n%v", got, tt.expected)
			}
		})
	}
}

func TestFormatMarkdownKeepsSignature(t *testing.T) {
	signed := metadata.Sign("| A | B |\n| --- | --- |\n| x | y |", metadata.SignOptions{
		Now:       time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		RunID:     "run-1",
		Validated: true,
	})

	got := FormatMarkdown(signed)

	meta, clean := metadata.Extract(got)
	if meta == nil {
		t.Fatal("FormatMarkdown() dropped the metadata block")
	}

	if !meta.Validation || meta.RunID != "run-1" {
		t.Errorf("metadata = %+v, want validated run-1", meta)
	}

	if !strings.Contains(clean, "| x   | y   |") {
		t.Errorf("table not aligned:\n%s", clean)
	}

	if ok, err := metadata.Verify(got); !ok || err != nil {
		t.Errorf("Verify() = %v, %v; want true, nil", ok, err)
	}
}
