package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/obslog/internal/server/models"
)

// ObservationMarkdown renders the deterministic export document. The
// structure is a compatibility surface: any producer rendering the same
// observation must emit byte-identical output.
func ObservationMarkdown(o models.Observation) string {
	title := o.Title
	if title == "" {
		title = "Untitled Observation"
	}

	project := "(none)"
	if o.ProjectID != nil {
		project = *o.ProjectID
	}

	tags := strings.Join(o.Tags, ", ")
	if tags == "" {
		tags = "(none)"
	}

	lines := []string{
		"# " + title,
		"",
		"- Status: " + string(o.Status),
		"- Confidence: " + string(o.Confidence),
		"- Project: " + project,
		"- Tags: " + tags,
		"- Updated: " + o.UpdatedAt.Format(time.RFC3339),
		"",
		"## Context",
		contextLines(o.Context),
		"",
		"## Observation",
		o.Observation,
		"",
		"## Interpretation",
		o.Interpretation,
		"",
		"## Next Action",
		o.NextAction,
		"",
		"## Links",
		linkLines(o.Links),
		"",
		"## Attachments",
		attachmentLines(o.Attachments),
	}

	return strings.Join(lines, "\n")
}

func contextLines(context []models.ContextItem) string {
	if len(context) == 0 {
		return "- (none)"
	}
	lines := make([]string, len(context))
	for i, c := range context {
		lines[i] = fmt.Sprintf("- %s: %s", c.Key, c.Value)
	}
	return strings.Join(lines, "\n")
}

func linkLines(links []models.Link) string {
	if len(links) == 0 {
		return "- (none)"
	}
	lines := make([]string, len(links))
	for i, l := range links {
		title := l.Title
		if title == "" {
			title = l.URL
		}
		lines[i] = fmt.Sprintf("- [%s](%s)", title, l.URL)
	}
	return strings.Join(lines, "\n")
}

func attachmentLines(attachments []models.Attachment) string {
	if len(attachments) == 0 {
		return "- (none)"
	}
	lines := make([]string, len(attachments))
	for i, a := range attachments {
		lines[i] = fmt.Sprintf("- %s (%s, %d bytes)", a.FileName, a.Kind, a.Size)
	}
	return strings.Join(lines, "\n")
}
