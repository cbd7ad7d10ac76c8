package export

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"

	"github.com/ginjaninja78/batchfile/internal/record"
)

// =============================================================================
// XML STRUCTURE
// =============================================================================
//
//   <?xml version="1.0" encoding="UTF-8"?>
//   <batch records="4">
//     <header n="1">
//       <name>John</name>
//       <surname>Doe</surname>
//       ...
//     </header>
//     <transaction n="2">
//       <counter>1</counter>
//       <amount>20.00</amount>
//       <currency>USD</currency>
//     </transaction>
//     <footer n="4">
//       <total_counter>2</total_counter>
//       <control_sum>30.50</control_sum>
//     </footer>
//   </batch>
//
// The n attribute is the 1-based position of the record in the batch.

const xmlIndent = "  "

// xmlElement is a node of the document tree.
type xmlElement struct {
	Name       string
	Attributes []xml.Attr
	Value      string
	Children   []xmlElement
}

// WriteXML renders records as an XML document.
func WriteXML(w io.Writer, records []record.Record) error {
	root, err := buildDocument(records)
	if err != nil {
		return err
	}

	var buffer bytes.Buffer
	buffer.WriteString(xml.Header)
	writeElement(&buffer, root, 0)

	_, err = w.Write(buffer.Bytes())
	return err
}

// buildDocument builds the element tree for the batch.
func buildDocument(records []record.Record) (xmlElement, error) {
	root := xmlElement{
		Name: "batch",
		Attributes: []xml.Attr{
			{Name: xml.Name{Local: "records"}, Value: strconv.Itoa(len(records))},
		},
	}

	for i, rec := range records {
		fields, err := fieldsOf(rec)
		if err != nil {
			return xmlElement{}, err
		}

		el := xmlElement{
			Name: elementName(rec.Kind()),
			Attributes: []xml.Attr{
				{Name: xml.Name{Local: "n"}, Value: strconv.Itoa(i + 1)},
			},
		}
		for _, f := range fields {
			el.Children = append(el.Children, xmlElement{Name: f.Name, Value: f.Value})
		}
		root.Children = append(root.Children, el)
	}

	return root, nil
}

// writeElement writes an element and its children with indentation.
func writeElement(buffer *bytes.Buffer, element xmlElement, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(xmlIndent)
	}

	buffer.WriteString("<")
	buffer.WriteString(element.Name)

	for _, attr := range element.Attributes {
		buffer.WriteString(" ")
		buffer.WriteString(attr.Name.Local)
		buffer.WriteString(`="`)
		xml.EscapeText(buffer, []byte(attr.Value))
		buffer.WriteString(`"`)
	}

	if len(element.Children) == 0 && element.Value == "" {
		buffer.WriteString("/>\n")
		return
	}

	buffer.WriteString(">")

	if len(element.Children) == 0 {
		xml.EscapeText(buffer, []byte(element.Value))
	} else {
		buffer.WriteString("\n")
		for _, child := range element.Children {
			writeElement(buffer, child, level+1)
		}
		for i := 0; i < level; i++ {
			buffer.WriteString(xmlIndent)
		}
	}

	buffer.WriteString("</")
	buffer.WriteString(element.Name)
	buffer.WriteString(">\n")
}
