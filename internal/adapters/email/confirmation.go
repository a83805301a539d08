package email

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// ConfirmationSubject is the subject line of the registration confirmation.
const ConfirmationSubject = "Xác nhận đăng ký tư vấn"

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`",
	"[", `\[`, "]", `\]`, "<", `\<`, ">", `\>`, "#", `\#`,
)

// Confirmation is the data shown in the email sent after a consulting form is accepted.
type Confirmation struct {
	StudentName string
	Course      string
	Class       string
}

// RenderConfirmation builds the subject and bodies of a confirmation email.
// PRE: c.StudentName is non-empty
// POST: Text is plain text; HTML is the Markdown rendering of the same body. To is left for the caller.
func RenderConfirmation(c Confirmation) (SendRequest, error) {
	if strings.TrimSpace(c.StudentName) == "" {
		return SendRequest{}, errors.New("confirmation requires a student name")
	}

	md := confirmationBody(c, func(s string) string { return "**" + mdEscaper.Replace(s) + "**" })
	var html bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &html); err != nil {
		return SendRequest{}, fmt.Errorf("render confirmation: %w", err)
	}

	return SendRequest{
		Subject: ConfirmationSubject,
		Text:    confirmationBody(c, func(s string) string { return s }),
		HTML:    html.String(),
	}, nil
}

// confirmationBody writes the message with every user-supplied value passed through em.
func confirmationBody(c Confirmation, em func(string) string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Chào %s,\n\n", em(c.StudentName))
	switch {
	case c.Course != "" && c.Class != "":
		fmt.Fprintf(&b, "Cảm ơn bạn đã đăng ký tư vấn khóa học %s, chương trình %s.\n\n", em(c.Course), em(c.Class))
	case c.Course != "":
		fmt.Fprintf(&b, "Cảm ơn bạn đã đăng ký tư vấn khóa học %s.\n\n", em(c.Course))
	default:
		b.WriteString("Cảm ơn bạn đã đăng ký tư vấn tuyển sinh.\n\n")
	}
	b.WriteString("Tư vấn viên sẽ liên hệ với bạn trong thời gian sớm nhất.\n\n")
	b.WriteString("Trân trọng,\nBan tư vấn tuyển sinh\n")
	return b.String()
}
