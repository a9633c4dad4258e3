package mailer

import (
	"errors"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"
)

// subjectTag is the business label every outgoing subject carries
const subjectTag = "白名单新增"

// bodyLeadIn and bodySignOff are fixed business copy; only the list of
// attachment names between them varies per message.
var bodyLeadIn = []string{
	"经理，您好",
	"",
	"附件为本期白名单新增，烦请录入，谢谢！",
}

var bodySignOff = []string{
	"",
	"祝好。",
	"",
	"姓名/Name：请替换为你的姓名",
	"部门/Dept：请替换为你的部门",
	"电话/Tel：请替换为你的电话",
	"邮箱/Email：请替换为你的邮箱",
	"官网/Web：请替换为你的官网",
	"地址/Add：请替换为你的地址",
}

// Composed holds the assembled content of one outbound message
type Composed struct {
	Subject     string
	PlainBody   string
	HTMLBody    string
	Attachments []string
}

// Compose builds subject, bodies and the attachment set for one group
func Compose(g *MatchGroup) *Composed {
	names := baseNames(g.MatchedFiles)
	lines := BodyLines(names)
	return &Composed{
		Subject:     Subject(names),
		PlainBody:   strings.Join(lines, "\n"),
		HTMLBody:    htmlBody(lines),
		Attachments: g.MatchedFiles,
	}
}

// BodyLines lists the attachment names between the fixed lead-in and
// sign-off blocks.
func BodyLines(attachmentNames []string) []string {
	lines := make([]string, 0, len(bodyLeadIn)+len(attachmentNames)+len(bodySignOff))
	lines = append(lines, bodyLeadIn...)
	lines = append(lines, attachmentNames...)
	lines = append(lines, bodySignOff...)
	return lines
}

// Subject derives the message subject from the attachment basenames:
// one attachment uses its full name without extension, several use the
// shared two-letter carrier prefix plus a count.
func Subject(attachmentNames []string) string {
	switch {
	case len(attachmentNames) == 1:
		name := attachmentNames[0]
		return strings.TrimSuffix(name, filepath.Ext(name)) + "_" + subjectTag
	case len(attachmentNames) > 1:
		return carrierPrefix(attachmentNames[0]) + "_" + subjectTag + fmt.Sprintf("_%d家", len(attachmentNames))
	default:
		// a matched group always has files; kept for safety
		return subjectTag + "_0家"
	}
}

// htmlBody mirrors the plain body, one styled paragraph per line. Empty
// lines become a non-breaking space so vertical spacing survives HTML
// whitespace collapsing.
func htmlBody(lines []string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, line := range lines {
		content := "&nbsp;"
		if line != "" {
			content = html.EscapeString(line)
		}
		b.WriteString("<p style='font-family:Microsoft YaHei; font-size:14px; margin:0 0 10px 0;'>")
		b.WriteString(content)
		b.WriteString("</p>")
	}
	b.WriteString("</body></html>")
	return b.String()
}

var carrierPrefixPattern = regexp.MustCompile(`^[A-Z]{2}`)

// carrierPrefix returns the leading two uppercase letters of a filename,
// or the empty string when absent.
func carrierPrefix(name string) string {
	return carrierPrefixPattern.FindString(name)
}

// ErrPrefixMismatch aborts the run when one group mixes carrier prefixes
var ErrPrefixMismatch = errors.New("attachment filename prefixes are inconsistent")

// checkGroupPrefixes verifies that every attachment in the group carries
// the same non-empty carrier prefix. A mismatch poisons the whole run:
// the caller must abort before any message is sent.
func checkGroupPrefixes(g *MatchGroup) error {
	if len(g.MatchedFiles) == 0 {
		return nil
	}
	prefixes := make([]string, 0, len(g.MatchedFiles))
	distinct := make(map[string]struct{})
	for _, f := range g.MatchedFiles {
		p := carrierPrefix(filepath.Base(f))
		prefixes = append(prefixes, p)
		distinct[p] = struct{}{}
	}
	if _, missing := distinct[""]; missing || len(distinct) > 1 {
		return fmt.Errorf("%w: %v", ErrPrefixMismatch, prefixes)
	}
	return nil
}
