package export

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/batchfile/internal/record"
)

// WriteYAML renders records as a YAML document:
//
//	count: 4
//	records:
//	  - kind: Header
//	    tag: "01"
//	    name: "John"
//	    ...
//	  - kind: Transaction
//	    tag: "02"
//	    counter: "1"
//	    amount: "20.00"
//	    currency: "USD"
//
// Values are always quoted strings so amounts keep their two decimals. Fields keep
// their layout order.
func WriteYAML(w io.Writer, records []record.Record) error {
	list := &yaml.Node{Kind: yaml.SequenceNode}

	for _, rec := range records {
		fields, err := fieldsOf(rec)
		if err != nil {
			return err
		}

		item := &yaml.Node{Kind: yaml.MappingNode}
		item.Content = append(item.Content,
			keyNode("kind"), keyNode(rec.Kind().String()),
			keyNode("tag"), valueNode(string(rec.Kind())),
		)
		for _, f := range fields {
			item.Content = append(item.Content, keyNode(f.Name), valueNode(f.Value))
		}
		list.Content = append(list.Content, item)
	}

	doc := &yaml.Node{
		Kind: yaml.DocumentNode,
		Content: []*yaml.Node{{
			Kind: yaml.MappingNode,
			Content: []*yaml.Node{
				keyNode("count"), {Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(len(records))},
				keyNode("records"), list,
			},
		}},
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write YAML: %w", err)
	}
	return enc.Close()
}

func keyNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: s}
}

// valueNode double-quotes s so "01" or "20.00" are not read back as numbers.
func valueNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Style: yaml.DoubleQuotedStyle, Value: s}
}
