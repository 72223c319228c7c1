// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id       Id
		contains string
	}{
		{ConfigLoadFailedId, "Failed to load configuration"},
		{VersionNotFoundId, "Version not found"},
		{FetchFailedId, "Download failed"},
		{ManifestParseFailedId, "Failed to parse a manifest"},
		{MetadataSchemaId, "Unsupported metadata store"},
		{HostNotSupportedId, "Host not supported"},
		{JavaNotFoundId, "Java not found"},
		{ProfileInvalidId, "Invalid account profile"},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			t.Parallel()
			issue := Get(tt.id)
			if issue == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if issue.Id() != tt.id {
				t.Errorf("Id() = %d, want %d", issue.Id(), tt.id)
			}
			if !strings.Contains(string(issue.MarkdownMsg()), tt.contains) {
				t.Errorf("MarkdownMsg() should contain %q", tt.contains)
			}
		})
	}

	if Get(Id(9999)) != nil {
		t.Error("Get(9999) should return nil")
	}
}

func TestValues_OrderedAndComplete(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != len(issues) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), len(issues))
	}
	for i := 1; i < len(values); i++ {
		if values[i-1].Id() >= values[i].Id() {
			t.Errorf("Values() not ordered at %d: %d >= %d", i, values[i-1].Id(), values[i].Id())
		}
	}
}

func TestIssue_RenderPlain(t *testing.T) {
	t.Parallel()

	for _, issue := range Values() {
		rendered, err := issue.Render("notty")
		if err != nil {
			t.Errorf("Render(%d) error = %v", issue.Id(), err)
			continue
		}
		if strings.TrimSpace(rendered) == "" {
			t.Errorf("Render(%d) returned empty output", issue.Id())
		}
	}
}

func TestIssue_DocLinksAreCloned(t *testing.T) {
	t.Parallel()

	issue := &Issue{id: 1, docLinks: []HttpLink{"https://example.invalid/docs"}}
	links := issue.DocLinks()
	links[0] = "modified"
	if issue.DocLinks()[0] != "https://example.invalid/docs" {
		t.Error("DocLinks() should return a clone")
	}
}
