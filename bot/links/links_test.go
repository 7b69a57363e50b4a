package links

import (
	"strings"
	"testing"
)

func testBuilder() *Builder {
	return NewBuilder(
		"https://stream.example.com/{file_key}",
		"https://download.example.com/{file_key}",
		"https://t.me/{username}/{message_id}",
	)
}

func TestBuilderExpandsTemplates(t *testing.T) {
	b := testBuilder()

	if got, want := b.Stream("abc123"), "https://stream.example.com/abc123"; got != want {
		t.Fatalf("Stream = %q, want %q", got, want)
	}
	if got, want := b.Download("abc123"), "https://download.example.com/abc123"; got != want {
		t.Fatalf("Download = %q, want %q", got, want)
	}
	if got, want := b.Telegram("mybot", 42), "https://t.me/mybot/42"; got != want {
		t.Fatalf("Telegram = %q, want %q", got, want)
	}
}

func TestBuildSet(t *testing.T) {
	set := testBuilder().Build("abc123", "mybot", 42)
	want := Set{
		Stream:   "https://stream.example.com/abc123",
		Download: "https://download.example.com/abc123",
		Telegram: "https://t.me/mybot/42",
	}
	if set != want {
		t.Fatalf("Build = %+v, want %+v", set, want)
	}
}

func TestDeliveryMessageContents(t *testing.T) {
	set := testBuilder().Build("abc123", "mybot", 42)
	msg := DeliveryMessage("movie.mkv", "abc123", false, set)

	for _, want := range []string{
		"`movie.mkv`",
		"*File Key:* `abc123`",
		"*Password Protected:* No",
		"[Stream Link](https://stream.example.com/abc123)",
		"[Download Link](https://download.example.com/abc123)",
		"[Telegram Link](https://t.me/mybot/42)",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("delivery message missing %q:\n%s", want, msg)
		}
	}
}

func TestDeliveryMessagePasswordStatus(t *testing.T) {
	set := testBuilder().Build("abc123", "mybot", 42)
	msg := DeliveryMessage("a.bin", "abc123", true, set)
	if !strings.Contains(msg, "*Password Protected:* Yes") {
		t.Fatalf("protected message lacks Yes status:\n%s", msg)
	}
	if strings.Contains(msg, "Protected:* No") {
		t.Fatalf("protected message claims No:\n%s", msg)
	}
}

func TestDeliveryMessageEscapesFileName(t *testing.T) {
	set := testBuilder().Build("abc123", "mybot", 42)
	msg := DeliveryMessage("my_file*.bin", "abc123", false, set)
	if !strings.Contains(msg, `my\_file\*.bin`) {
		t.Fatalf("file name not escaped:\n%s", msg)
	}
	// The key must stay verbatim for copy-paste.
	if !strings.Contains(msg, "`abc123`") {
		t.Fatalf("file key altered:\n%s", msg)
	}
}
