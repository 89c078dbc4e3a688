package policies

import (
	"encoding/json"
	"fmt"

	"github.com/zeu5/dropmind/util"
)

const typeScriptHeader = "// Auto-generated Q-table\n"

// TypeScriptModule renders the table as a module exporting qTableData
func TypeScriptModule(q *QTable) ([]byte, error) {
	bs, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(bs)+64)
	out = append(out, typeScriptHeader...)
	out = append(out, "export const qTableData = "...)
	out = append(out, bs...)
	out = append(out, ";\n"...)
	return out, nil
}

func WriteTypeScript(q *QTable, tsPath string) error {
	bs, err := TypeScriptModule(q)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", tsPath, err)
	}
	return util.WriteFileAtomic(tsPath, bs)
}

// ExportTypeScript converts a JSON snapshot into a TypeScript module
func ExportTypeScript(jsonPath, tsPath string) (int, error) {
	table, err := ReadJSONTable(jsonPath)
	if err != nil {
		return 0, err
	}
	if err := WriteTypeScript(table, tsPath); err != nil {
		return 0, err
	}
	return table.Size(), nil
}
