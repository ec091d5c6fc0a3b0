package record

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	reLineComment  = regexp.MustCompile(`//[^\n]*`)
	reBlockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	reEmptyExpr    = regexp.MustCompile(`=\s*;`)
	reMain         = regexp.MustCompile(`\bvoid\s+main\s*\(\s*(void)?\s*\)`)
	reDecl         = regexp.MustCompile(`\b(uniform|attribute)\s+(?:(?:lowp|mediump|highp)\s+)?\w+\s+(\w+)\s*(?:\[\s*\d+\s*\])?\s*;`)
)

// declarations lists the uniforms and attributes of a shader in source order.
type declarations struct {
	uniforms []string
	attribs  []string
}

// checkGLSL returns the declarations of src, or a compiler style info log if
// src is not well formed. It catches empty sources, unbalanced brackets,
// assignments without an expression and a missing main; anything else a
// real GLSL front end would reject passes.
func checkGLSL(src string) (declarations, string) {
	// Block comments may span lines; keep the line count intact.
	code := reBlockComment.ReplaceAllStringFunc(src, func(m string) string {
		return strings.Repeat("\n", strings.Count(m, "\n"))
	})
	code = reLineComment.ReplaceAllString(code, "")

	if strings.TrimSpace(code) == "" {
		return declarations{}, "ERROR: 0:0: '' : syntax error: empty source"
	}
	if msg := checkBalance(code); msg != "" {
		return declarations{}, msg
	}
	if loc := reEmptyExpr.FindStringIndex(code); loc != nil {
		line := 1 + strings.Count(code[:loc[1]], "\n")
		return declarations{}, fmt.Sprintf("ERROR: 0:%d: ';' : syntax error: expected expression", line)
	}
	if !reMain.MatchString(code) {
		return declarations{}, "ERROR: 0:0: 'main' : function not defined"
	}

	var d declarations
	for _, m := range reDecl.FindAllStringSubmatch(code, -1) {
		switch m[1] {
		case "uniform":
			d.uniforms = append(d.uniforms, m[2])
		case "attribute":
			d.attribs = append(d.attribs, m[2])
		}
	}
	return d, ""
}

func checkBalance(code string) string {
	pairs := map[rune]rune{')': '(', '}': '{', ']': '['}
	var stack []rune
	line := 1
	for _, r := range code {
		switch r {
		case '\n':
			line++
		case '(', '{', '[':
			stack = append(stack, r)
		case ')', '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[r] {
				return fmt.Sprintf("ERROR: 0:%d: '%c' : syntax error", line, r)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		return fmt.Sprintf("ERROR: 0:%d: '' : syntax error: unexpected end of source, unclosed '%c'", line, stack[len(stack)-1])
	}
	return ""
}
