package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

// stdoutWrites flags direct stdout output. In stdio mode stdout carries the
// MCP protocol stream; any stray print corrupts it. Diagnostics go to the
// slog logger (stderr).
func stdoutWrites(m dsl.Matcher) {
	m.Match(`fmt.Println($*_)`, `fmt.Printf($*_)`, `fmt.Print($*_)`).
		Report(`stdout belongs to the stdio transport; log via slog instead`)

	m.Match(`os.Stdout.Write($*_)`).
		Report(`stdout belongs to the stdio transport; log via slog instead`)
}

func smells(m dsl.Matcher) {
	m.Match(`if $c1 { return $ret }; if $c2 { return $ret }`).
		Report(`two consecutive guards return the same value; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { return $ret }`)

	m.Match(`if $c1 { continue }; if $c2 { continue }`).
		Report(`two consecutive continues; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { continue }`)
}
