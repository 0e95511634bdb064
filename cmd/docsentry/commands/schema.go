// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"

	"github.com/bartekus/docsentry/cmd/docsentry/internal/clierr"
	"github.com/bartekus/docsentry/internal/extract"
	"github.com/bartekus/docsentry/internal/report"
	"github.com/bartekus/docsentry/internal/structure"
)

// enumPath names a string property by its path from the document root.
// "[]" steps into array items.
type enumPath struct {
	path   string
	values []any
}

var reportSchemas = map[string]func() (*jsonschema.Schema, error){
	"coverage": func() (*jsonschema.Schema, error) {
		return withEnums(jsonschema.For[report.CoverageDocument](nil))(
			enumPath{"apis.[].api_type", anySlice(extract.Kinds())},
		)
	},
	"validation": func() (*jsonschema.Schema, error) {
		categories := anySlice(structure.Categories())
		return withEnums(jsonschema.For[report.ValidationDocument](nil))(
			enumPath{"by_category.[].category", categories},
			enumPath{"issues.[].category", categories},
			enumPath{"advisories.[].category", categories},
		)
	},
}

func withEnums(schema *jsonschema.Schema, err error) func(...enumPath) (*jsonschema.Schema, error) {
	return func(enums ...enumPath) (*jsonschema.Schema, error) {
		if err != nil {
			return nil, err
		}
		for _, e := range enums {
			node := schema
			for _, step := range strings.Split(e.path, ".") {
				if step == "[]" {
					node = node.Items
				} else {
					node = node.Properties[step]
				}
				if node == nil {
					return nil, fmt.Errorf("schema has no property %s", e.path)
				}
			}
			node.Enum = e.values
		}
		return schema, nil
	}
}

func anySlice[T ~string](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// NewSchemaCommand returns the `docsentry schema` command, which prints the
// JSON Schema of a report's json format.
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "schema <coverage|validation>",
		Short:     "Print the JSON Schema of a json report",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"coverage", "validation"},
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := reportSchemas[args[0]]()
			if err != nil {
				return clierr.Wrapf(clierr.ExitOperational, err, "building %s schema", args[0])
			}
			schema.Title = fmt.Sprintf("docsentry %s report", args[0])
			return writeJSON(cmd.OutOrStdout(), schema)
		},
	}
}
