package ui

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	"github.com/mattn/go-runewidth"

	"github.com/orlevii/agent-prism/prism"
)

func (a *AppView) updateViewportContent(gotoBottom bool) {
	if a.dataModel.Transcript.Len() == 0 {
		a.viewport.SetContent("No messages yet. Start chatting!")
		return
	}

	var content strings.Builder

	open := a.dataModel.Transcript.OpenResponse()
	for i := range a.dataModel.Transcript.Messages {
		msg := &a.dataModel.Transcript.Messages[i]
		streaming := a.dataModel.Streaming && open == msg
		content.WriteString(a.renderMessage(i, msg, streaming))
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

func (a *AppView) renderMessage(idx int, msg *prism.Message, streaming bool) string {
	if msg.IsResponse() {
		return a.renderResponse(idx, msg, streaming)
	}
	return a.renderRequest(msg)
}

func (a *AppView) renderRequest(msg *prism.Message) string {
	var b strings.Builder

	for _, part := range msg.Parts {
		switch p := part.(type) {
		case *prism.SystemPromptPart:
			ts := formatTimestamp(p.Timestamp)
			b.WriteString(fmt.Sprintf("%s %s\n%s\n\n", ts, DimStyle.Render("System"), DimStyle.Render(p.Content)))
		case *prism.UserPromptPart:
			ts := formatTimestamp(p.Timestamp)
			role := UserStyle.Render("You")
			b.WriteString(formatUserMessage(ts, role, p.Content))
		case *prism.ToolReturnPart:
			b.WriteString(a.renderToolReturn(p))
		}
	}

	return b.String()
}

func (a *AppView) renderResponse(idx int, msg *prism.Message, streaming bool) string {
	var b strings.Builder

	ts := formatTimestamp(msg.Timestamp)
	role := AssistantStyle.Render("Assistant")
	header := fmt.Sprintf("%s %s", ts, role)
	if msg.ModelName != "" {
		header += DimStyle.Render(" (" + msg.ModelName + ")")
	}
	b.WriteString(header + "\n")

	if len(msg.Parts) == 0 {
		if streaming {
			b.WriteString(a.loadingSpinner.View() + "\n\n")
		}
		return b.String()
	}

	for _, part := range msg.Parts {
		switch p := part.(type) {
		case *prism.ThinkingPart:
			b.WriteString(ThinkingStyle.Render("∴ "+p.Content) + "\n")
		case *prism.TextPart:
			text := p.Content
			if !streaming {
				if rendered, ok := a.renderedMarkdown[idx]; ok {
					text = rendered
				}
			} else {
				text += "▋"
			}
			b.WriteString(text + "\n")
		case *prism.ToolCallPart:
			b.WriteString(a.renderToolCall(p))
		case *prism.ToolReturnPart:
			b.WriteString(a.renderToolReturn(p))
		}
	}

	b.WriteString("\n")
	return b.String()
}

func (a *AppView) renderToolCall(p *prism.ToolCallPart) string {
	line := fmt.Sprintf("🔧 %s(%s)", p.ToolName, argsPreview(p.Args))
	return ToolStyle.Render(truncateLine(line, a.width-4)) + "\n"
}

func (a *AppView) renderToolReturn(p *prism.ToolReturnPart) string {
	name := p.ToolName
	if name == "" {
		name = p.ToolCallID
	}
	line := fmt.Sprintf("↳ %s: %s", name, argsPreview(p.Content))
	return DimStyle.Render(truncateLine(line, a.width-4)) + "\n"
}

// argsPreview compacts tool arguments or results to a single displayable line.
func argsPreview(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.ReplaceAll(val, "\n", " ")
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	}
}

// truncateLine trims a line to the given display width, emoji-aware.
func truncateLine(line string, width int) string {
	if width <= 0 {
		return line
	}
	if runewidth.StringWidth(line) <= width {
		return line
	}
	return runewidth.Truncate(line, width, "...")
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return DimStyle.Render(t.Local().Format("[15:04]"))
}

func formatUserMessage(timestamp, role, content string) string {
	greenBold := "\x1b[32;1m"
	reset := "\x1b[0m"
	bar := greenBold + "┃" + reset

	lines := strings.Split(content, "\n")

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s %s %s\n", bar, timestamp, role))

	for _, line := range lines {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}

	result.WriteString("\n")

	return result.String()
}

// renderMarkdownAsync renders a finished assistant reply off the update loop.
func (a AppView) renderMarkdownAsync(messageIndex int, content string) tea.Cmd {
	width := a.width
	return func() tea.Msg {
		start := time.Now()

		// Autolink disabled keeps URLs plain so the terminal can make them
		// clickable itself.
		defaultExt := markdown.Extensions()
		customExt := defaultExt &^ parser.Autolink
		p := parser.NewWithExtensions(customExt)
		r := markdown.NewRenderer(width-4, 0)
		doc := p.Parse([]byte(content))
		rendered := gomarkdown.Render(doc, r)

		debugf("[UI] markdown rendered for message %d in %v", messageIndex, time.Since(start))

		return markdownRenderedMsg{
			PartIndex: messageIndex,
			Rendered:  strings.TrimRight(string(rendered), "\n"),
		}
	}
}

// renderFinishedResponse kicks off markdown rendering for the text part of
// the message that just finished streaming.
func (a AppView) renderFinishedResponse() tea.Cmd {
	idx := a.dataModel.Transcript.Len() - 1
	if idx < 0 {
		return nil
	}
	msg := &a.dataModel.Transcript.Messages[idx]
	if !msg.IsResponse() {
		return nil
	}
	for _, part := range msg.Parts {
		if text, ok := part.(*prism.TextPart); ok && text.Content != "" {
			return a.renderMarkdownAsync(idx, text.Content)
		}
	}
	return nil
}
