// Package quickadd parses one-line task entries such as
// "Run 5k #fitness !high @tomorrow".
package quickadd

import (
	"regexp"
	"strings"

	"github.com/nhle/momentum/internal/model"
)

var (
	tagPattern      = regexp.MustCompile(`(?:^|\s)#([\p{L}\p{N}_-]+)`)
	priorityPattern = regexp.MustCompile(`(?:^|\s)!(low|medium|med|high|[1-3])\b`)
	duePattern      = regexp.MustCompile(`(?:^|\s)@(today|tomorrow|\d{4}-\d{2}-\d{2})\b`)
	spacePattern    = regexp.MustCompile(`\s+`)
)

// Entry is the parsed form of a quick-add line.
type Entry struct {
	Title    string
	Tags     []string
	Priority model.Priority
	DueDate  model.Date
}

// ExtractTags returns the #tags in text, lowercased and deduplicated,
// in order of first occurrence.
func ExtractTags(text string) []string {
	matches := tagPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var result []string
	for _, m := range matches {
		tag := strings.ToLower(m[1])
		if seen[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, tag)
	}
	return result
}

// Parse splits text into a title and the markers embedded in it. Relative
// due dates resolve against today. Unrecognized markers stay in the title.
func Parse(text string, today model.Date) Entry {
	e := Entry{Tags: ExtractTags(text)}

	if m := priorityPattern.FindStringSubmatch(text); m != nil {
		e.Priority, _ = model.ParsePriority(m[1])
	}

	if m := duePattern.FindStringSubmatch(text); m != nil {
		switch m[1] {
		case "today":
			e.DueDate = today
		case "tomorrow":
			e.DueDate = today.AddDays(1)
		default:
			if d, err := model.ParseDate(m[1]); err == nil {
				e.DueDate = d
			}
		}
	}

	title := tagPattern.ReplaceAllString(text, " ")
	title = priorityPattern.ReplaceAllString(title, " ")
	if !e.DueDate.IsZero() {
		title = duePattern.ReplaceAllString(title, " ")
	}
	e.Title = strings.TrimSpace(spacePattern.ReplaceAllString(title, " "))
	return e
}
