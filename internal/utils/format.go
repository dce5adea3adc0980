package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/iancoleman/orderedmap"
	"github.com/jedib0t/go-pretty/v6/table"
)

/**
 * Convert a struct into an ordered map keyed by its JSON field names
 * @param {any} v - Struct value with json tags
 * @returns {*orderedmap.OrderedMap} Fields in declaration order
 */
func StructToOrderedMap(v any) (*orderedmap.OrderedMap, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	m := orderedmap.New()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

// PrintFormat prints rows as a table on stdout, columns follow the first row's keys
func PrintFormat(dataList []*orderedmap.OrderedMap) {
	WriteFormat(os.Stdout, dataList)
}

// WriteFormat renders rows as a table to w
func WriteFormat(w io.Writer, dataList []*orderedmap.OrderedMap) {
	if len(dataList) == 0 {
		return
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	keys := dataList[0].Keys()
	header := make(table.Row, 0, len(keys))
	for _, k := range keys {
		header = append(header, k)
	}
	tw.AppendHeader(header)

	for _, rec := range dataList {
		row := make(table.Row, 0, len(keys))
		for _, k := range keys {
			val, ok := rec.Get(k)
			if !ok || val == nil {
				row = append(row, "-")
				continue
			}
			row = append(row, fmt.Sprint(val))
		}
		tw.AppendRow(row)
	}
	tw.Render()
}

// PrintJSON prints v as indented JSON on stdout
func PrintJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
