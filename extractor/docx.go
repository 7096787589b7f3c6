package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// extractDocx returns the raw text of word/document.xml: paragraphs separated
// by blank lines, tabs and breaks kept as whitespace.
func extractDocx(data []byte, maxXML int64) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: open zip: %v", ErrParseFailure, err)
	}

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("%w: word/document.xml not found in archive", ErrParseFailure)
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open document.xml: %v", ErrParseFailure, err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(io.LimitReader(rc, maxXML))
	var (
		sb         strings.Builder
		paragraph  strings.Builder
		paragraphs int
		inText     bool
	)
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: document.xml: %v", ErrParseFailure, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				paragraph.WriteByte('\t')
			case "br", "cr":
				paragraph.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				paragraph.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if paragraphs > 0 {
					sb.WriteString("\n\n")
				}
				sb.WriteString(paragraph.String())
				paragraph.Reset()
				paragraphs++
			}
		}
	}
	if paragraph.Len() > 0 {
		if paragraphs > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(paragraph.String())
	}

	return strings.TrimRight(sb.String(), "\n"), nil
}
