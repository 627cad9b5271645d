// Package format renders a daily scrum into its two text representations.
// All functions are pure: same scrum in, same text out.
package format

import (
	"fmt"
	"strings"
	"time"

	"scrumlog/internal/model"
)

var dayNames = [...]string{"일", "월", "화", "수", "목", "금", "토"}

const nonePlaceholder = "없음"

// DateLabel renders "YYYY-MM-DD" as the weekday-qualified long form,
// e.g. "6월 2일 (월)". Unparseable input falls back to the raw string.
func DateLabel(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d월 %d일 (%s)", int(t.Month()), t.Day(), dayNames[t.Weekday()])
}

// Render dispatches on the scrum's format.
func Render(s *model.DailyScrum) string {
	if s.Format == model.FormatDocument {
		return DocumentText(s)
	}
	return ChatText(s)
}

// ChatText renders the chat-message form: emoji section headers and bullet
// lines, ready to paste into a messenger.
func ChatText(s *model.DailyScrum) string {
	lines := []string{
		"📅 데일리 스크럼 - " + DateLabel(s.Date),
		"",
		"✅ 어제 한 일",
		bulletLines(s.Yesterday, "• "),
		"",
		"🔨 오늘 할 일",
		bulletLines(s.Today, "• "),
		"",
		"⚠️ 블로커",
		"• " + normalizeBlocker(s.Blocker),
	}
	return strings.Join(lines, "\n")
}

// DocumentText renders the document form: markdown headings and hyphen
// bullets.
func DocumentText(s *model.DailyScrum) string {
	lines := []string{
		"## 데일리 스크럼 - " + s.Date,
		"",
		"### 어제 한 일",
		bulletLines(s.Yesterday, "- "),
		"",
		"### 오늘 할 일",
		bulletLines(s.Today, "- "),
		"",
		"### 블로커",
		"- " + normalizeBlocker(s.Blocker),
	}
	return strings.Join(lines, "\n")
}

// bulletLines renders each entry as one bullet; an empty list becomes a
// single "(없음)" placeholder bullet.
func bulletLines(items []string, bullet string) string {
	if len(items) == 0 {
		return bullet + "(" + nonePlaceholder + ")"
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = bullet + item
	}
	return strings.Join(lines, "\n")
}

// normalizeBlocker trims the blocker and collapses the empty and literal
// "없음"/"none" spellings to the single localized marker.
func normalizeBlocker(blocker string) string {
	trimmed := strings.TrimSpace(blocker)
	if trimmed == "" || trimmed == nonePlaceholder || strings.EqualFold(trimmed, "none") {
		return nonePlaceholder
	}
	return trimmed
}
