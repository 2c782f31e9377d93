package adapter

import (
	"html"
	"regexp"
	"strings"
)

var (
	headBlock     = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	styleBlock    = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	lineBreak     = regexp.MustCompile(`(?i)<br\s*/?>`)
	paragraphEnd  = regexp.MustCompile(`(?i)</p\s*>`)
	blockClose    = regexp.MustCompile(`(?i)</(div|tr|h[1-6]|li|table|section|header|footer)>`)
	cellClose     = regexp.MustCompile(`(?i)</t[dh]>`)
	anyTag        = regexp.MustCompile(`(?s)<[^>]+>`)
	inlineSpace   = regexp.MustCompile(`[ \t\r\f\v\x{00A0}]+`)
	blankLineRuns = regexp.MustCompile(`\n{3,}`)
)

// HTMLToText is a best-effort plain-text rendition of an invoice document.
func HTMLToText(doc string) string {
	out := headBlock.ReplaceAllString(doc, "")
	out = styleBlock.ReplaceAllString(out, "")
	out = lineBreak.ReplaceAllString(out, "\n")
	out = paragraphEnd.ReplaceAllString(out, "\n\n")
	out = blockClose.ReplaceAllString(out, "\n")
	out = cellClose.ReplaceAllString(out, " ")
	out = anyTag.ReplaceAllString(out, "")
	out = html.UnescapeString(out)
	out = inlineSpace.ReplaceAllString(out, " ")

	lines := strings.Split(out, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	out = strings.Join(lines, "\n")
	out = blankLineRuns.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
