package messenger

import (
	"strings"
	"testing"
)

func TestSplitMessageShort(t *testing.T) {
	chunks := splitMessage("hello", 2000)
	if len(chunks) != 1 || chunks[0] != "hello" {
		t.Errorf("got %v", chunks)
	}
}

func TestSplitMessageLongSplitsAtNewline(t *testing.T) {
	msg := strings.Repeat("line one\n", 300) // ~2700 bytes
	chunks := splitMessage(msg, 2000)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 2000 {
			t.Errorf("chunk %d exceeds limit: %d bytes", i, len(c))
		}
	}
	if strings.Join(chunks, "") != msg {
		t.Error("chunks do not reassemble to the original message")
	}
	if !strings.HasSuffix(chunks[0], "\n") {
		t.Errorf("expected first chunk to end at a newline, got %q", chunks[0][len(chunks[0])-10:])
	}
}

func TestSplitMessageNoNewlines(t *testing.T) {
	msg := strings.Repeat("a", 4500)
	chunks := splitMessage(msg, 2000)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if strings.Join(chunks, "") != msg {
		t.Error("chunks do not reassemble to the original message")
	}
}
