// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"io"
	"log"
	"maps"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]int64{
	"MODE_POSITION":  int64(MODE_POSITION),
	"MODE_IMMEDIATE": int64(MODE_IMMEDIATE),
	"MODE_RELATIVE":  int64(MODE_RELATIVE),
}

// mnemonicMap maps instruction names to operations.
var mnemonicMap = func() map[string]Op {
	mnemonics := make(map[string]Op, len(opParams))
	for op := range opParams {
		mnemonics[op.String()] = op
	}
	return mnemonics
}()

// Assembler is a two pass assembler for Intcode programs.
//
// Each line holds optional 'label:' prefixes followed by an instruction
// mnemonic and its operands, a '.data' list, or an '.equ NAME VALUE'.
// Operands are positional by default, immediate with a '#' prefix, and
// relative with an '@' prefix. Values may be numbers, 'c' characters,
// labels, equates, or $(...) starlark expressions over labels, equates
// and LINENO. Text after ';' is a comment.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	Label  map[string]int64 // Map of labels to addresses.
	Equate map[string]int64 // Map of equates.

	predefine map[string]int64
}

// asmLine is a line of source that produces words or an equate.
type asmLine struct {
	lineno int
	text   string
	words  []string
}

// Predefine defines an equate visible to every subsequent Parse.
func (asm *Assembler) Predefine(equ string, value int64) {
	if asm.predefine == nil {
		asm.predefine = map[string]int64{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// Parse assembles an input stream into a program.
func (asm *Assembler) Parse(input io.Reader) (program []int64, err error) {
	scanner := bufio.NewScanner(input)

	var line asmLine
	var lines []asmLine
	var ip int64

	defer func() {
		if err != nil {
			program = nil
			err = &ErrAsmSyntax{LineNo: line.lineno, Line: line.text, Err: err}
		}
	}()

	asm.Label = make(map[string]int64, 16)
	asm.Equate = maps.Clone(sysEquate)
	maps.Copy(asm.Equate, asm.predefine)

	// Layout: assign label addresses and check instruction shapes.
	lineno := 0
	for scanner.Scan() {
		lineno++
		line = asmLine{lineno: lineno, text: scanner.Text()}

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, line.text)
		}

		var words []string
		words, err = splitWords(line.text)
		if err != nil {
			return
		}

		for len(words) > 0 && strings.HasSuffix(words[0], ":") {
			label := strings.TrimSuffix(words[0], ":")
			_, ok := asm.Label[label]
			if ok {
				err = ErrLabelDuplicate
				return
			}
			asm.Label[label] = ip
			words = words[1:]
		}

		if len(words) == 0 {
			continue
		}

		switch words[0] {
		case ".equ":
			if len(words) != 3 {
				err = ErrEquateSyntax
				return
			}
		case ".data":
			if len(words) < 2 {
				err = ErrDataEmpty
				return
			}
			ip += int64(len(words) - 1)
		default:
			op, ok := mnemonicMap[words[0]]
			if !ok {
				err = ErrInstructionInvalid
				return
			}
			if len(words)-1 != op.Params() {
				err = ErrOperandCount
				return
			}
			ip += int64(op.Width())
		}

		line.words = words
		lines = append(lines, line)
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Encode, now that every label is known.
	program = make([]int64, 0, ip)
	for _, line = range lines {
		var words []int64
		words, err = asm.encode(line)
		if err != nil {
			return
		}
		program = append(program, words...)
	}

	return
}

// encode produces the words for a single line.
func (asm *Assembler) encode(line asmLine) (words []int64, err error) {
	switch line.words[0] {
	case ".equ":
		name := line.words[1]
		_, ok := asm.Equate[name]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		var value int64
		value, err = asm.valueOf(line.words[2], line.lineno)
		if err != nil {
			return
		}
		asm.Equate[name] = value
	case ".data":
		for _, word := range line.words[1:] {
			var value int64
			value, err = asm.valueOf(word, line.lineno)
			if err != nil {
				return
			}
			words = append(words, value)
		}
	default:
		ins := Instruction{Op: mnemonicMap[line.words[0]]}
		params := make([]int64, 0, ins.Op.Params())
		for n, word := range line.words[1:] {
			mode := MODE_POSITION
			switch {
			case strings.HasPrefix(word, "#"):
				mode = MODE_IMMEDIATE
				word = word[1:]
			case strings.HasPrefix(word, "@"):
				mode = MODE_RELATIVE
				word = word[1:]
			}
			if n == ins.Op.Target() && mode == MODE_IMMEDIATE {
				err = ErrWriteImmediate
				return
			}
			ins.Modes[n] = mode

			var value int64
			value, err = asm.valueOf(word, line.lineno)
			if err != nil {
				return
			}
			params = append(params, value)
		}
		words = append([]int64{ins.Word()}, params...)
	}

	return
}

// valueOf returns the value of a single operand word.
func (asm *Assembler) valueOf(word string, lineno int) (value int64, err error) {
	if len(word) == 0 {
		err = ErrParseValue(word)
		return
	}

	if strings.HasPrefix(word, "$(") && strings.HasSuffix(word, ")") {
		return asm.parenEval(word[2:len(word)-1], lineno)
	}

	if word[0] == '\'' {
		str, _err := strconv.Unquote(word)
		if _err != nil || utf8.RuneCountInString(str) != 1 {
			err = ErrParseValue(word)
			return
		}
		r, _ := utf8.DecodeRuneInString(str)
		value = int64(r)
		return
	}

	value, ok := asm.Label[word]
	if ok {
		return
	}

	value, ok = asm.Equate[word]
	if ok {
		return
	}

	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		if r, _ := utf8.DecodeRuneInString(word); unicode.IsLetter(r) || r == '_' {
			err = ErrLabelMissing(word)
		} else {
			err = ErrParseValue(word)
		}
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string, lineno int) (value int64, err error) {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, value := range asm.Equate {
		pred[key] = starlark.MakeInt64(value)
	}
	for key, value := range asm.Label {
		pred[key] = starlark.MakeInt64(value)
	}
	pred["LINENO"] = starlark.MakeInt(lineno)

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}

	return
}

// splitWords splits a line on spaces and commas, keeping $(...) groups and
// quoted characters whole, and drops any ';' comment.
func splitWords(text string) (words []string, err error) {
	var word strings.Builder
	depth := 0
	quoted := false
	escaped := false

	flush := func() {
		if word.Len() > 0 {
			words = append(words, word.String())
			word.Reset()
		}
	}

scan:
	for _, r := range text {
		switch {
		case quoted:
			word.WriteRune(r)
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '\'':
				quoted = false
			}
		case r == ';':
			break scan
		case r == '\'':
			quoted = true
			word.WriteRune(r)
		case r == '(':
			depth++
			word.WriteRune(r)
		case r == ')':
			if depth > 0 {
				depth--
			}
			word.WriteRune(r)
		case depth == 0 && (unicode.IsSpace(r) || r == ','):
			flush()
		default:
			word.WriteRune(r)
		}
	}

	if quoted {
		err = ErrQuoteUnterminated
		return
	}

	flush()

	return
}
