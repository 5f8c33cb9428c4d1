package main

import (
	"html"
	"net/url"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	xhtml "golang.org/x/net/html"
)

// readClipboardText prefers plain text from the system clipboard. macOS
// pbpaste can be asked for the txt flavor directly; everywhere else the
// clipboard package's default read is used and cleaned afterwards.
func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if out, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(out), nil
		}
		if out, err := exec.Command("pbpaste").Output(); err == nil {
			return string(out), nil
		}
	}
	return clipboard.ReadAll()
}

// cleanClipboardText turns whatever flavor the clipboard produced into
// plain text: RTF and HTML payloads are unwrapped, control characters
// dropped, newlines normalized.
func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	switch {
	case isRTF(text):
		text = extractTextFromRTF(text)
	case isHTML(text):
		text = extractTextFromHTML(text)
	}

	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' || r >= 32 {
			sb.WriteRune(r)
		}
	}
	out := strings.ReplaceAll(sb.String(), "\r\n", "\n")
	out = strings.ReplaceAll(out, "\r", "\n")
	return strings.TrimRight(out, "\n")
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

func isHTML(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "<") &&
		(strings.Contains(t, "<html") || strings.Contains(t, "<body") || strings.Contains(t, "<div"))
}

// extractTextFromRTF pulls the visible text out of an RTF payload: control
// words are skipped except the ones that map to whitespace, hex escapes are
// decoded, group braces dropped.
func extractTextFromRTF(rtf string) string {
	var sb strings.Builder
	sb.Grow(len(rtf))
	b := []byte(rtf)

	for i := 0; i < len(b); i++ {
		c := b[i]
		switch c {
		case '{', '}':
			// Group markers carry no text.
		case '\\':
			if i+1 >= len(b) {
				break
			}
			next := b[i+1]
			switch {
			case next == '\'' && i+3 < len(b):
				if v, err := strconv.ParseUint(string(b[i+2:i+4]), 16, 8); err == nil {
					sb.WriteByte(byte(v))
					i += 3
				}
			case next == '\\' || next == '{' || next == '}':
				sb.WriteByte(next)
				i++
			case next == '~':
				sb.WriteByte(' ')
				i++
			default:
				word, n := rtfControlWord(b[i+1:])
				i += n
				switch word {
				case "par", "line":
					sb.WriteByte('\n')
				case "tab":
					sb.WriteByte('\t')
				}
			}
		default:
			if c >= 32 && c < 127 || c == '\n' || c == '\t' {
				sb.WriteByte(c)
			}
		}
	}
	return sb.String()
}

// rtfControlWord reads a control word plus its optional numeric parameter
// and trailing space, returning the word and how many bytes were consumed.
func rtfControlWord(b []byte) (string, int) {
	i := 0
	for i < len(b) && (b[i] >= 'a' && b[i] <= 'z' || b[i] >= 'A' && b[i] <= 'Z') {
		i++
	}
	word := string(b[:i])
	for i < len(b) && (b[i] == '-' || b[i] >= '0' && b[i] <= '9') {
		i++
	}
	if i < len(b) && b[i] == ' ' {
		i++
	}
	return word, i
}

// extractTextFromHTML walks the token stream and keeps text nodes,
// skipping script and style bodies.
func extractTextFromHTML(src string) string {
	z := xhtml.NewTokenizer(strings.NewReader(src))
	var sb strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			return html.UnescapeString(sb.String())
		case xhtml.StartTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style":
				skip++
			case "br", "p", "div", "li", "tr":
				sb.WriteByte('\n')
			}
		case xhtml.EndTagToken:
			name, _ := z.TagName()
			if n := string(name); (n == "script" || n == "style") && skip > 0 {
				skip--
			}
		case xhtml.TextToken:
			if skip == 0 {
				sb.Write(z.Text())
			}
		}
	}
}

func looksLikeURL(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "http://") || strings.HasPrefix(t, "https://")
}

// urlHost returns a short display form of a link, host only.
func urlHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return strings.TrimPrefix(u.Host, "www.")
}

// truncate cuts a string to width runes, keeping an ellipsis when it had
// to cut.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}
