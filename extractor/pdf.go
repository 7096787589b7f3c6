package extractor

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"content_repurposer/logger"
)

// tjSpaceThreshold is the TJ displacement (thousandths of text space) beyond
// which two fragments are treated as separate words.
const tjSpaceThreshold = 200

// pageContent returns the decoded content stream of one page.
var pageContent = pdfcpu.ExtractPageContent

// parsePDF reads data with pdfcpu and scans every page's content stream. A
// page whose content cannot be read is kept empty and logged.
func parsePDF(ctx context.Context, data []byte, log *slog.Logger) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("%w: pdfcpu: %v", ErrParseFailure, r)
		}
	}()

	conf := model.NewDefaultConfiguration()
	pdf, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: pdfcpu read: %v", ErrParseFailure, err)
	}

	doc = &Document{Pages: make([]Page, 0, pdf.PageCount)}
	for pageNr := 1; pageNr <= pdf.PageCount; pageNr++ {
		page := Page{Number: pageNr}
		texts, err := readPage(pdf, pageNr)
		if err != nil {
			log.WarnContext(ctx, "pdf page unreadable", "page", pageNr, logger.Err(err))
		}
		page.Texts = texts
		doc.Pages = append(doc.Pages, page)
	}
	return doc, nil
}

func readPage(pdf *model.Context, pageNr int) ([]Text, error) {
	r, err := pageContent(pdf, pageNr)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, nil
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return scanContentStream(content), nil
}

type tokenKind int

const (
	tokOther tokenKind = iota
	tokOperator
	tokString
	tokArray
	tokArrayEnd
	tokNumber
)

type token struct {
	kind  tokenKind
	value string
	num   float64
}

// scanContentStream collects the strings shown by Tj, TJ, ' and " grouped
// by their enclosing BT…ET text object.
func scanContentStream(data []byte) []Text {
	s := &scanner{data: data}

	var (
		texts    []Text
		current  *Text
		operands []token
	)
	flush := func() {
		if current != nil && len(current.Runs) > 0 {
			texts = append(texts, *current)
		}
		current = nil
	}
	show := func(str string) {
		if str == "" {
			return
		}
		if current == nil {
			current = &Text{}
		}
		current.Runs = append(current.Runs, newRun(str))
	}

	for {
		tok, ok := s.next()
		if !ok {
			break
		}
		if tok.kind != tokOperator {
			operands = append(operands, tok)
			continue
		}
		switch tok.value {
		case "BT":
			flush()
			current = &Text{}
		case "ET":
			flush()
		case "Tj", "'", `"`:
			if op, ok := lastOperand(operands, tokString); ok {
				show(op.value)
			}
		case "TJ":
			if op, ok := lastOperand(operands, tokArray); ok {
				show(op.value)
			}
		case "ID":
			s.skipInlineImage()
		}
		operands = operands[:0]
	}
	flush()
	return texts
}

func lastOperand(ops []token, kind tokenKind) (token, bool) {
	if len(ops) == 0 || ops[len(ops)-1].kind != kind {
		return token{}, false
	}
	return ops[len(ops)-1], true
}

type scanner struct {
	data []byte
	pos  int
}

func isPDFSpace(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isPDFDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (s *scanner) peek(off int) byte {
	if s.pos+off < len(s.data) {
		return s.data[s.pos+off]
	}
	return 0
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch {
		case isPDFSpace(c):
			s.pos++
		case c == '%':
			for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
				s.pos++
			}
		default:
			return
		}
	}
}

func (s *scanner) next() (token, bool) {
	s.skipSpace()
	if s.pos >= len(s.data) {
		return token{}, false
	}

	c := s.data[s.pos]
	switch {
	case c == '(':
		return token{kind: tokString, value: decodePDFText(s.literal())}, true
	case c == '<' && s.peek(1) == '<', c == '>' && s.peek(1) == '>':
		s.pos += 2
		return token{kind: tokOther}, true
	case c == '<':
		return token{kind: tokString, value: decodePDFText(s.hexString())}, true
	case c == '[':
		s.pos++
		return s.array(), true
	case c == ']':
		s.pos++
		return token{kind: tokArrayEnd}, true
	case c == '/':
		s.pos++
		s.regular()
		return token{kind: tokOther}, true
	case isPDFDelimiter(c):
		s.pos++
		return token{kind: tokOther}, true
	}

	word := s.regular()
	if n, err := strconv.ParseFloat(word, 64); err == nil {
		return token{kind: tokNumber, num: n}, true
	}
	switch word {
	case "true", "false", "null":
		return token{kind: tokOther}, true
	}
	return token{kind: tokOperator, value: word}, true
}

func (s *scanner) regular() string {
	start := s.pos
	for s.pos < len(s.data) && !isPDFSpace(s.data[s.pos]) && !isPDFDelimiter(s.data[s.pos]) {
		s.pos++
	}
	return string(s.data[start:s.pos])
}

// array concatenates the strings of a TJ operand, inserting a space where
// the displacement is wide enough to be a word gap.
func (s *scanner) array() token {
	var sb strings.Builder
	for {
		tok, ok := s.next()
		if !ok || tok.kind == tokArrayEnd || tok.kind == tokOperator {
			break
		}
		switch tok.kind {
		case tokString, tokArray:
			sb.WriteString(tok.value)
		case tokNumber:
			if tok.num < -tjSpaceThreshold && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
		}
	}
	return token{kind: tokArray, value: sb.String()}
}

// literal reads a (…) string, handling nesting and backslash escapes.
func (s *scanner) literal() []byte {
	s.pos++
	depth := 1
	var out []byte
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++
		switch c {
		case '\\':
			if s.pos >= len(s.data) {
				return out
			}
			e := s.data[s.pos]
			s.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r':
				if s.pos < len(s.data) && s.data[s.pos] == '\n' {
					s.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for i := 0; i < 2 && s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '7'; i++ {
						val = val*8 + int(s.data[s.pos]-'0')
						s.pos++
					}
					out = append(out, byte(val))
				} else {
					out = append(out, e)
				}
			}
		case '(':
			depth++
			out = append(out, c)
		case ')':
			depth--
			if depth == 0 {
				return out
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return out
}

func (s *scanner) hexString() []byte {
	s.pos++
	var digits []byte
	for s.pos < len(s.data) && s.data[s.pos] != '>' {
		c := s.data[s.pos]
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') {
			digits = append(digits, c)
		}
		s.pos++
	}
	s.pos++
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out, err := hex.DecodeString(string(digits))
	if err != nil {
		return nil
	}
	return out
}

// skipInlineImage moves past the binary payload between ID and EI.
func (s *scanner) skipInlineImage() {
	for s.pos+1 < len(s.data) {
		if s.data[s.pos] == 'E' && s.data[s.pos+1] == 'I' &&
			s.pos > 0 && isPDFSpace(s.data[s.pos-1]) &&
			(s.pos+2 >= len(s.data) || isPDFSpace(s.data[s.pos+2])) {
			s.pos += 2
			return
		}
		s.pos++
	}
	s.pos = len(s.data)
}

// decodePDFText maps string bytes to text: UTF-16BE when BOM-prefixed,
// otherwise one rune per byte.
func decodePDFText(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		b = b[2:]
		units := make([]uint16, 0, len(b)/2)
		for i := 0; i+1 < len(b); i += 2 {
			units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
		}
		return string(utf16.Decode(units))
	}
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
