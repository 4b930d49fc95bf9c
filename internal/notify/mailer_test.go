package notify

import (
	"strings"
	"testing"
)

func TestBuildMessageHeaders(t *testing.T) {
	m := &SMTPMailer{from: "noreply@forma.ir"}
	raw := string(m.buildMessage([]string{"a@example.com", "b@example.com"}, Message{
		Subject: "Hello",
		HTML:    "<p>hi</p>",
	}))

	for _, want := range []string{
		"From: noreply@forma.ir\r\n",
		"To: a@example.com, b@example.com\r\n",
		"Subject: Hello\r\n",
		"Content-Type: text/html; charset=UTF-8\r\n",
	} {
		if !strings.Contains(raw, want) {
			t.Errorf("Message missing header %q", want)
		}
	}
	if !strings.HasSuffix(raw, "<p>hi</p>\r\n") {
		t.Errorf("Body not terminated correctly")
	}
}

func TestEncodeHeaderPersianSubject(t *testing.T) {
	if got := encodeHeader("Plain subject"); got != "Plain subject" {
		t.Errorf("ASCII subject rewritten: %s", got)
	}

	got := encodeHeader("ثبت درخواست در فرما")
	if !strings.HasPrefix(got, "=?UTF-8?B?") || !strings.HasSuffix(got, "?=") {
		t.Errorf("Persian subject not RFC 2047 encoded: %s", got)
	}
}
