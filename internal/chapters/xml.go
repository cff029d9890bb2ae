package chapters

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/listenupapp/mkvchapters/internal/errors"
)

const xmlHeader = `<?xml version="1.0"?>` + "\n"

// Wire types. Unmodelled elements (UIDs, flags, languages, nested atoms) are dropped.

type xmlChapters struct {
	XMLName  xml.Name     `xml:"Chapters"`
	Editions []xmlEdition `xml:"EditionEntry"`
}

type xmlEdition struct {
	XMLName xml.Name  `xml:"EditionEntry"`
	Atoms   []xmlAtom `xml:"ChapterAtom"`
}

type xmlAtom struct {
	Start   *string      `xml:"ChapterTimeStart"`
	End     *string      `xml:"ChapterTimeEnd,omitempty"`
	Display []xmlDisplay `xml:"ChapterDisplay"`
}

type xmlDisplay struct {
	String *string `xml:"ChapterString"`
}

// Parse decodes a chapter XML document.
func Parse(data []byte) (*Document, error) {
	return ParseReader(bytes.NewReader(data))
}

// ParseReader decodes a chapter XML document from r.
// The root may be a bare <EditionEntry> or a <Chapters> element wrapping one or more editions,
// in which case the first edition is used.
func ParseReader(r io.Reader) (*Document, error) {
	// Strip a UTF-8 BOM and transcode BOM-marked UTF-16; anything else passes through untouched
	// so invalid UTF-8 is still reported by the decoder.
	dec := xml.NewDecoder(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	dec.CharsetReader = charsetReader

	root, err := rootStart(dec)
	if err != nil {
		return nil, err
	}

	var edition xmlEdition
	doc := &Document{}

	switch root.Name.Local {
	case "EditionEntry":
		doc.root = rootEdition
		if err := dec.DecodeElement(&edition, &root); err != nil {
			return nil, errors.Wrap(err, errors.CodeMalformedInput, "decode chapter xml")
		}
	case "Chapters":
		doc.root = rootChapters
		var wrapper xmlChapters
		if err := dec.DecodeElement(&wrapper, &root); err != nil {
			return nil, errors.Wrap(err, errors.CodeMalformedInput, "decode chapter xml")
		}
		if len(wrapper.Editions) == 0 {
			return nil, errors.MalformedInput("chapter xml has no EditionEntry")
		}
		edition = wrapper.Editions[0]
	default:
		return nil, errors.MalformedInputf("unexpected root element <%s>", root.Name.Local)
	}

	if err := expectEOF(dec); err != nil {
		return nil, err
	}

	doc.chapters = make([]Chapter, 0, len(edition.Atoms))
	for i, atom := range edition.Atoms {
		ch, err := atom.chapter()
		if err != nil {
			return nil, errors.Wrapf(err, errors.CodeMalformedInput, "chapter %d", i+1)
		}
		doc.chapters = append(doc.chapters, ch)
	}

	return doc, nil
}

// Marshal encodes the document with an XML declaration, using the same root shape it was parsed from.
func (d *Document) Marshal() ([]byte, error) {
	edition := xmlEdition{Atoms: make([]xmlAtom, 0, len(d.chapters))}
	for _, ch := range d.chapters {
		edition.Atoms = append(edition.Atoms, newXMLAtom(ch))
	}

	var v any = edition
	if d.root == rootChapters {
		v = xmlChapters{Editions: []xmlEdition{edition}}
	}

	body, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "encode chapter xml")
	}

	out := make([]byte, 0, len(xmlHeader)+len(body)+1)
	out = append(out, xmlHeader...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

func (a xmlAtom) chapter() (Chapter, error) {
	if a.Start == nil {
		return Chapter{}, errors.New("missing ChapterTimeStart")
	}
	if len(a.Display) == 0 {
		return Chapter{}, errors.New("missing ChapterDisplay")
	}
	title := a.Display[0].String
	if title == nil {
		return Chapter{}, errors.New("missing ChapterString")
	}

	ch := Chapter{StartTime: *a.Start, Title: *title}
	if a.End != nil {
		end := *a.End
		ch.EndTime = &end
	}
	return ch, nil
}

func newXMLAtom(ch Chapter) xmlAtom {
	start, title := ch.StartTime, ch.Title
	atom := xmlAtom{
		Start:   &start,
		Display: []xmlDisplay{{String: &title}},
	}
	if end, ok := ch.End(); ok {
		atom.End = &end
	}
	return atom
}

// rootStart advances to the first start element.
func rootStart(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return xml.StartElement{}, errors.MalformedInput("chapter xml has no root element")
		}
		if err != nil {
			return xml.StartElement{}, errors.Wrap(err, errors.CodeMalformedInput, "read chapter xml")
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start, nil
		}
	}
}

// expectEOF consumes the rest of the input. Only comments, processing instructions and
// whitespace may follow the root element.
func expectEOF(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, errors.CodeMalformedInput, "read chapter xml")
		}
		switch t := tok.(type) {
		case xml.Comment, xml.ProcInst:
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return errors.MalformedInput("trailing content after root element")
			}
		default:
			return errors.MalformedInput("trailing content after root element")
		}
	}
}

// charsetReader honours the encoding named in the XML declaration.
// UTF-16 input has already been transcoded by the BOM override.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	if strings.HasPrefix(strings.ToLower(label), "utf-16") {
		return input, nil
	}
	return charset.NewReaderLabel(label, input)
}
