package validator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/specroute/specroute/contract"
)

// writeContractDir copies the canonical contract into a temp dir and writes
// the requested companion files next to it.
func writeContractDir(t *testing.T, companions map[string]string) *contract.Document {
	t.Helper()
	dir := t.TempDir()
	raw, err := os.ReadFile(filepath.Join("testdata", "company_basic_info.json"))
	if err != nil {
		t.Fatalf("read canonical contract: %v", err)
	}
	target := filepath.Join(dir, "company_basic_info.json")
	if err := os.WriteFile(target, raw, 0o644); err != nil {
		t.Fatalf("write contract: %v", err)
	}
	for name, content := range companions {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write companion %s: %v", name, err)
		}
	}
	doc, err := contract.Load(target)
	if err != nil {
		t.Fatalf("load contract: %v", err)
	}
	return doc
}

const validLinkedData = `{"@context": "https://schema.org/", "@type": "Dataset", "name": "Company Basic Info"}`

func TestCompanionDocsAcceptsCompleteSet(t *testing.T) {
	t.Parallel()

	doc, err := contract.Load(filepath.Join("testdata", "company_basic_info.json"))
	if err != nil {
		t.Fatalf("load contract: %v", err)
	}
	if err := NewCompanionDocs().Validate(doc); err != nil {
		t.Fatalf("complete companion set rejected: %v", err)
	}
}

func TestCompanionDocsFailures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		companions map[string]string
		want       ErrorCode
	}{
		{
			name:       "markdown missing",
			companions: map[string]string{"company_basic_info.jsonld": validLinkedData},
			want:       CompanionFileMissing,
		},
		{
			name: "markdown empty",
			companions: map[string]string{
				"company_basic_info.md":     "   \n",
				"company_basic_info.jsonld": validLinkedData,
			},
			want: CompanionFileEmpty,
		},
		{
			name:       "linked data missing",
			companions: map[string]string{"company_basic_info.md": "# Company Basic Info\n"},
			want:       CompanionFileMissing,
		},
		{
			name: "linked data not json",
			companions: map[string]string{
				"company_basic_info.md":     "# Company Basic Info\n",
				"company_basic_info.jsonld": "not json at all",
			},
			want: CompanionFileInvalid,
		},
		{
			name: "linked data without context",
			companions: map[string]string{
				"company_basic_info.md":     "# Company Basic Info\n",
				"company_basic_info.jsonld": `{"@type": "Dataset"}`,
			},
			want: CompanionFileInvalid,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			doc := writeContractDir(t, tc.companions)
			wantCode(t, NewCompanionDocs().Validate(doc), tc.want)
		})
	}
}
