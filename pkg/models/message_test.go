package models

import (
	"strings"
	"testing"
)

func TestNewMessageConstructors(t *testing.T) {
	sys := NewSystemMessage("you are helpful")
	if sys.Role != RoleSystem {
		t.Errorf("Role = %q, want %q", sys.Role, RoleSystem)
	}
	if sys.ID == "" {
		t.Error("ID should not be empty")
	}
	if sys.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}

	usr := NewUserMessage("hello")
	if usr.Role != RoleUser {
		t.Errorf("Role = %q, want %q", usr.Role, RoleUser)
	}

	asst := NewAssistantMessage("hi there")
	if asst.Role != RoleAssistant {
		t.Errorf("Role = %q, want %q", asst.Role, RoleAssistant)
	}

	tool := NewToolMessage("42", "call-1")
	if tool.Role != RoleTool {
		t.Errorf("Role = %q, want %q", tool.Role, RoleTool)
	}
	if tool.ToolCallID != "call-1" {
		t.Errorf("ToolCallID = %q, want %q", tool.ToolCallID, "call-1")
	}
}

func TestMessage_WithToolCalls(t *testing.T) {
	calls := []ToolCallInfo{{ID: "c1", Name: "archival_search", Arguments: `{"query":"x"}`}}
	m := NewAssistantMessage("").WithToolCalls(calls)
	if len(m.ToolCalls) != 1 || m.ToolCalls[0].Name != "archival_search" {
		t.Errorf("ToolCalls = %+v, want one archival_search call", m.ToolCalls)
	}
}

func TestMessage_TokenEstimate(t *testing.T) {
	m := NewUserMessage(strings.Repeat("a", 40))
	if got, want := m.TokenEstimate(), 10; got != want {
		t.Errorf("TokenEstimate() = %d, want %d", got, want)
	}
}

func TestMessageBuffer_PushEvictsOldest(t *testing.T) {
	buf := NewMessageBuffer(2)
	buf.Push(NewUserMessage("one"))
	buf.Push(NewUserMessage("two"))
	buf.Push(NewUserMessage("three"))

	msgs := buf.Messages()
	if len(msgs) != 2 {
		t.Fatalf("len(Messages()) = %d, want 2", len(msgs))
	}
	if msgs[0].Content != "two" || msgs[1].Content != "three" {
		t.Errorf("Messages() = %+v, want [two three]", msgs)
	}
}

func TestMessageBuffer_GetRecent(t *testing.T) {
	buf := NewMessageBuffer(10)
	for _, c := range []string{"a", "b", "c"} {
		buf.Push(NewUserMessage(c))
	}

	recent := buf.GetRecent(2)
	if len(recent) != 2 || recent[0].Content != "b" || recent[1].Content != "c" {
		t.Errorf("GetRecent(2) = %+v, want [b c]", recent)
	}

	all := buf.GetRecent(100)
	if len(all) != 3 {
		t.Errorf("GetRecent(100) returned %d messages, want 3", len(all))
	}
}

func TestMessageBuffer_SearchIsCaseInsensitive(t *testing.T) {
	buf := NewMessageBuffer(10)
	buf.Push(NewUserMessage("The Quick Brown Fox"))
	buf.Push(NewUserMessage("lazy dog"))
	buf.Push(NewUserMessage("another fox sighting"))

	results := buf.Search("FOX", 10)
	if len(results) != 2 {
		t.Fatalf("Search(FOX) returned %d results, want 2", len(results))
	}
}

func TestMessageBuffer_SearchRespectsLimit(t *testing.T) {
	buf := NewMessageBuffer(10)
	buf.Push(NewUserMessage("fox one"))
	buf.Push(NewUserMessage("fox two"))
	buf.Push(NewUserMessage("fox three"))

	results := buf.Search("fox", 2)
	if len(results) != 2 {
		t.Errorf("Search limit not respected: got %d, want 2", len(results))
	}
}

func TestMessageBuffer_Clear(t *testing.T) {
	buf := NewMessageBuffer(5)
	buf.Push(NewUserMessage("x"))
	buf.Clear()
	if buf.Len() != 0 {
		t.Errorf("Len() after Clear() = %d, want 0", buf.Len())
	}
}
