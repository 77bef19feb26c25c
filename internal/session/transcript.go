package session

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// transcriptLine is the subset of a host transcript entry that is rendered.
type transcriptLine struct {
	Type    string `json:"type"`
	Message struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"message"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Name string `json:"name"`
}

// RenderTranscript converts a host JSON-lines transcript into Markdown with
// one subsection per user or assistant message. Other entries are skipped.
func RenderTranscript(sessionID string, r io.Reader) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Sesión %s\n\n", sessionID)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for scanner.Scan() {
		var line transcriptLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			continue
		}
		role := line.Message.Role
		if role == "" {
			role = line.Type
		}
		if role != "user" && role != "assistant" {
			continue
		}
		text := messageText(line.Message.Content)
		if text == "" {
			continue
		}
		fmt.Fprintf(&sb, "## %s\n\n%s\n\n", role, text)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading transcript: %w", err)
	}
	return sb.String(), nil
}

func messageText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return ""
	}
	var parts []string
	for _, b := range blocks {
		switch b.Type {
		case "text":
			if t := strings.TrimSpace(b.Text); t != "" {
				parts = append(parts, t)
			}
		case "tool_use":
			parts = append(parts, fmt.Sprintf("`[%s]`", b.Name))
		}
	}
	return strings.Join(parts, "\n\n")
}
