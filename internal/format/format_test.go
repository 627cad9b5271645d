package format

import (
	"strings"
	"testing"

	"scrumlog/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestDateLabel(t *testing.T) {
	// 2025-06-02 is a Monday.
	assert.Equal(t, "6월 2일 (월)", DateLabel("2025-06-02"))
	assert.Equal(t, "12월 25일 (목)", DateLabel("2025-12-25"))
	assert.Equal(t, "garbage", DateLabel("garbage"))
}

func TestChatText(t *testing.T) {
	s := &model.DailyScrum{
		Date:      "2025-06-02",
		Yesterday: model.StringList{"API 구현", "코드 리뷰"},
		Today:     model.StringList{"테스트 작성"},
		Blocker:   "배포 서버 접근 권한 대기",
		Format:    model.FormatChat,
	}
	text := ChatText(s)

	assert.True(t, strings.HasPrefix(text, "📅 데일리 스크럼 - 6월 2일 (월)"))
	assert.Contains(t, text, "✅ 어제 한 일\n• API 구현\n• 코드 리뷰")
	assert.Contains(t, text, "🔨 오늘 할 일\n• 테스트 작성")
	assert.Contains(t, text, "⚠️ 블로커\n• 배포 서버 접근 권한 대기")
}

func TestDocumentText(t *testing.T) {
	s := &model.DailyScrum{
		Date:      "2025-06-02",
		Yesterday: model.StringList{"API 구현"},
		Today:     model.StringList{"테스트 작성"},
		Blocker:   "없음",
		Format:    model.FormatDocument,
	}
	text := DocumentText(s)

	assert.True(t, strings.HasPrefix(text, "## 데일리 스크럼 - 2025-06-02"))
	assert.Contains(t, text, "### 어제 한 일\n- API 구현")
	assert.Contains(t, text, "### 오늘 할 일\n- 테스트 작성")
	assert.Contains(t, text, "### 블로커\n- 없음")
}

func TestEmptyListsRenderPlaceholder(t *testing.T) {
	s := &model.DailyScrum{Date: "2025-06-02", Format: model.FormatChat}

	chat := ChatText(s)
	assert.Contains(t, chat, "✅ 어제 한 일\n• (없음)")
	assert.Contains(t, chat, "🔨 오늘 할 일\n• (없음)")
	// Exactly one placeholder bullet per empty section.
	assert.Equal(t, 2, strings.Count(chat, "• (없음)"))

	doc := DocumentText(s)
	assert.Contains(t, doc, "### 어제 한 일\n- (없음)")
	assert.Contains(t, doc, "### 오늘 할 일\n- (없음)")
}

func TestBlockerSpellingsCollapse(t *testing.T) {
	for _, blocker := range []string{"", "  ", "없음", "none", "None", "NONE", " none "} {
		s := &model.DailyScrum{Date: "2025-06-02", Blocker: blocker, Format: model.FormatChat}
		assert.True(t, strings.HasSuffix(ChatText(s), "⚠️ 블로커\n• 없음"), "blocker %q", blocker)
	}

	s := &model.DailyScrum{Date: "2025-06-02", Blocker: "  실제 블로커  ", Format: model.FormatChat}
	assert.True(t, strings.HasSuffix(ChatText(s), "• 실제 블로커"))
}

func TestRenderDispatchesOnFormat(t *testing.T) {
	s := &model.DailyScrum{Date: "2025-06-02", Format: model.FormatChat}
	assert.True(t, strings.HasPrefix(Render(s), "📅"))

	s.Format = model.FormatDocument
	assert.True(t, strings.HasPrefix(Render(s), "##"))
}
