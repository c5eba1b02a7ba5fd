package document

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

const wordprocessingNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrDecode, err)
	}
	defer doc.Close()

	paragraphs, err := bodyParagraphs(doc.Editable().GetContent())
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrDecode, err)
	}

	return strings.Join(paragraphs, "\n"), nil
}

// bodyParagraphs walks word/document.xml and returns the text of every
// top-level body paragraph in document order. Paragraphs inside tables are
// skipped, empty paragraphs are kept as "".
func bodyParagraphs(content string) ([]string, error) {
	decoder := xml.NewDecoder(strings.NewReader(content))

	var (
		paragraphs []string
		current    strings.Builder
		tableDepth int
		paraDepth  int
		inText     bool
	)

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if !isWordElement(el.Name) {
				continue
			}
			switch el.Name.Local {
			case "tbl":
				tableDepth++
			case "p":
				paraDepth++
				if paraDepth == 1 {
					current.Reset()
				}
			case "t":
				inText = true
			case "tab":
				if collecting(tableDepth, paraDepth) {
					current.WriteString("\t")
				}
			case "br", "cr":
				if collecting(tableDepth, paraDepth) {
					current.WriteString("\n")
				}
			}
		case xml.EndElement:
			if !isWordElement(el.Name) {
				continue
			}
			switch el.Name.Local {
			case "tbl":
				tableDepth--
			case "p":
				if collecting(tableDepth, paraDepth) {
					paragraphs = append(paragraphs, current.String())
				}
				paraDepth--
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText && collecting(tableDepth, paraDepth) {
				current.Write(el)
			}
		}
	}

	return paragraphs, nil
}

func collecting(tableDepth, paraDepth int) bool {
	return tableDepth == 0 && paraDepth == 1
}

func isWordElement(name xml.Name) bool {
	return name.Space == wordprocessingNS || name.Space == "w"
}
