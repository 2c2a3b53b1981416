package cpu

import (
	"strconv"
	"strings"
)

// ParseProgram parses comma separated base-10 integers. Whitespace around
// the text and around each token is ignored. Empty text is an empty program.
func ParseProgram(text string) (program []int64, err error) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return
	}

	tokens := strings.Split(text, ",")
	program = make([]int64, 0, len(tokens))
	for n, token := range tokens {
		token = strings.TrimSpace(token)
		var value int64
		value, err = strconv.ParseInt(token, 10, 64)
		if err != nil {
			err = &ErrSyntax{Index: n, Token: token, Err: ErrParseNumber(token)}
			program = nil
			return
		}
		program = append(program, value)
	}

	return
}

// FormatProgram renders a program in the text form read by ParseProgram.
func FormatProgram(program []int64) string {
	words := make([]string, len(program))
	for n, value := range program {
		words[n] = strconv.FormatInt(value, 10)
	}

	return strings.Join(words, ",")
}
