package tiktoken

import (
	"slices"
	"testing"
)

func TestListEncodingNames(t *testing.T) {
	got := ListEncodingNames()
	want := []string{"cl100k_base", "gpt2", "p50k_base", "p50k_edit", "r50k_base"}

	if !slices.Equal(got, want) {
		t.Fatalf("ListEncodingNames = %v, want %v", got, want)
	}
}

func TestEncodingNameForModel(t *testing.T) {
	tests := []struct {
		model string
		want  string
	}{
		{"gpt2", "gpt2"},
		{"text-davinci-003", "p50k_base"},
		{"text-davinci-001", "r50k_base"},
		{"text-davinci-edit-001", "p50k_edit"},
		{"gpt-4", "cl100k_base"},
		{"gpt-4-0314", "cl100k_base"},
		{"gpt-3.5-turbo-0301", "cl100k_base"},
		{"text-embedding-ada-002", "cl100k_base"},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			got, err := encodingNameForModel(tt.model)
			if err != nil {
				t.Fatalf("encodingNameForModel(%q): %v", tt.model, err)
			}
			if got != tt.want {
				t.Fatalf("encodingNameForModel(%q) = %q, want %q", tt.model, got, tt.want)
			}
		})
	}

	if _, err := encodingNameForModel("not-a-model"); err == nil {
		t.Fatal("unknown model did not fail")
	}
}

func TestGetEncodingUnknown(t *testing.T) {
	if _, err := GetEncoding("not-an-encoding"); err == nil {
		t.Fatal("unknown encoding did not fail")
	}
}
