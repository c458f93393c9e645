package assistant

import (
	"regexp"
	"strconv"
	"strings"
)

// Format selects the output representation of the assistant reply.
type Format string

const (
	FormatVerbatim Format = "verbatim"
	FormatMarkdown Format = "markdown"
	FormatPlain    Format = "plain"
)

// The reply markup is the provider's own rendering output, so its shape is
// bounded and known; an ordered regex pipeline is sufficient. Structural
// rewrites must run before the generic tag strip or their meaning is lost.
var (
	reHeader      = regexp.MustCompile(`(?is)<h([1-6])[^>]*>(.*?)</h[1-6]\s*>`)
	reBold        = regexp.MustCompile(`(?is)<(?:b|strong)[^>]*>(.*?)</(?:b|strong)\s*>`)
	reItalic      = regexp.MustCompile(`(?is)<(?:i|em)[^>]*>(.*?)</(?:i|em)\s*>`)
	reFencedCode  = regexp.MustCompile(`(?is)<div class="codehilite"[^>]*>\s*<pre[^>]*>\s*<code[^>]*>(.*?)</code>\s*</pre>\s*</div>`)
	reInlineCode  = regexp.MustCompile(`(?is)<code[^>]*>(.*?)</code>`)
	reListWrapO   = regexp.MustCompile(`(?i)<(?:ul|ol)[^>]*>`)
	reListWrapC   = regexp.MustCompile(`(?i)</(?:ul|ol)\s*>`)
	reListItemO   = regexp.MustCompile(`(?i)<li[^>]*>`)
	reListItemC   = regexp.MustCompile(`(?i)</li\s*>`)
	reEmptyPara   = regexp.MustCompile(`(?i)<p[^>]*>\s*</p>`)
	rePara        = regexp.MustCompile(`(?is)<p[^>]*>(.*?)</p>`)
	reBreak       = regexp.MustCompile(`(?i)<br\s*/?>`)
	reAnyTag      = regexp.MustCompile(`(?s)</?[a-zA-Z][^>]*>`)
	reNewlineRuns = regexp.MustCompile(`\n{3,}`)
	reBlockTag    = regexp.MustCompile(`(?i)</?(?:p|h[1-6]|div)[^>]*>`)
	reSpaceRuns   = regexp.MustCompile(`[ \t]+`)
)

// entityDecoder decodes the five standard markup entity escapes. A
// double-escaped sequence like &amp;lt; correctly decodes to the text &lt;.
var entityDecoder = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&amp;", "&",
)

// FormatReply converts the provider's rich-markup reply into the requested
// representation. Unrecognized Format values fall back to markdown: the
// output format is a display-only parameter, so a malformed value degrades
// rather than failing the exchange.
func FormatReply(markup string, format Format) string {
	switch format {
	case FormatVerbatim:
		return markup
	case FormatPlain:
		return toPlain(markup)
	default:
		return toMarkdown(markup)
	}
}

// toMarkdown applies the rewrite pipeline in fixed order.
func toMarkdown(markup string) string {
	out := markup

	out = reHeader.ReplaceAllStringFunc(out, func(m string) string {
		sub := reHeader.FindStringSubmatch(m)
		level, _ := strconv.Atoi(sub[1])
		return strings.Repeat("#", level) + " " + sub[2] + "\n\n"
	})

	out = reBold.ReplaceAllString(out, "**$1**")
	out = reItalic.ReplaceAllString(out, "*$1*")

	out = reFencedCode.ReplaceAllString(out, "```\n$1\n```\n\n")
	out = reInlineCode.ReplaceAllString(out, "`$1`")

	out = reListWrapO.ReplaceAllString(out, "")
	out = reListWrapC.ReplaceAllString(out, "\n")
	out = reListItemO.ReplaceAllString(out, "- ")
	out = reListItemC.ReplaceAllString(out, "\n")

	out = reEmptyPara.ReplaceAllString(out, "")
	out = rePara.ReplaceAllString(out, "$1\n\n")
	out = reBreak.ReplaceAllString(out, "\n")

	out = reAnyTag.ReplaceAllString(out, "")
	out = entityDecoder.Replace(out)
	out = reNewlineRuns.ReplaceAllString(out, "\n\n")

	return strings.TrimSpace(out)
}

// toPlain flattens the markup to undecorated text.
func toPlain(markup string) string {
	out := markup

	out = reBlockTag.ReplaceAllString(out, "\n")
	out = reBreak.ReplaceAllString(out, "\n")
	out = reListItemO.ReplaceAllString(out, "- ")
	out = reListItemC.ReplaceAllString(out, "\n")

	out = reAnyTag.ReplaceAllString(out, "")
	out = reNewlineRuns.ReplaceAllString(out, "\n\n")
	out = reSpaceRuns.ReplaceAllString(out, " ")

	return strings.TrimSpace(out)
}
