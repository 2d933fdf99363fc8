package catalog

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// editorColumns are the headers of the dictionary editor's CSV extract,
// either as exported or as labelled in the editor's table.
var editorColumns = columnNames{
	id:          []string{"NAACCR XML ID", "ID"},
	num:         []string{"NAACCR Number", "Num"},
	parent:      []string{"Parent XML Element"},
	recordTypes: []string{"Record Types"},
}

type xmlDictionary struct {
	XMLName       xml.Name `xml:"NaaccrDictionary"`
	NaaccrVersion string   `xml:"naaccrVersion,attr"`
	Items         []struct {
		NaaccrID         string `xml:"naaccrId,attr"`
		NaaccrNum        int    `xml:"naaccrNum,attr"`
		RecordTypes      string `xml:"recordTypes,attr"`
		ParentXMLElement string `xml:"parentXmlElement,attr"`
	} `xml:"ItemDefs>ItemDef"`
}

// readDictionary reads a user dictionary, either a NAACCR XML dictionary
// (".xml") or the CSV extract written by the dictionary editor.
func readDictionary(path string) ([]item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		return parseXMLDictionary(data)
	}
	return parseCatalogCSV(bytes.NewReader(data), editorColumns)
}

func parseXMLDictionary(data []byte) ([]item, error) {
	var d xmlDictionary
	if err := xml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse XML dictionary: %w", err)
	}
	items := make([]item, 0, len(d.Items))
	for i, def := range d.Items {
		if def.NaaccrID == "" {
			return nil, fmt.Errorf("item definition %d: missing naaccrId", i+1)
		}
		items = append(items, item{
			id:          def.NaaccrID,
			num:         def.NaaccrNum,
			parent:      def.ParentXMLElement,
			recordTypes: def.RecordTypes,
		})
	}
	return items, nil
}
