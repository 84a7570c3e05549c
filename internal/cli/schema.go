package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/filterql/internal/schema"
)

// SchemaResult is the payload of a validated schema.
type SchemaResult struct {
	Name   string                   `json:"name"`
	Fields []schema.FieldDescriptor `json:"fields"`
}

func (r SchemaResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "schema %s (%d fields)\n", r.Name, len(r.Fields))
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, fd := range r.Fields {
		var flags []string
		if fd.MultiValue {
			flags = append(flags, "multivalue")
		}
		if fd.Nested {
			flags = append(flags, "nested")
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", fd.Name, fd.Kind, strings.Join(flags, ","))
	}
	tw.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema <file>",
		Short: "Validate a field schema and list its fields",
		Long: `Load a CUE or YAML field schema, report errors with their positions,
and list the declared fields with their value kinds.

Examples:
  filterql schema articles.cue
  filterql schema articles.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runSchema(opts *RootOptions, path string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	registry, err := schema.Load(path)
	if err != nil {
		return out.Fail(ExitFailure, ErrCodeSchema, err)
	}

	fields := registry.Fields()
	out.VerboseLog("Loaded %d field(s) from %s", len(fields), path)
	return out.Success(SchemaResult{Name: registry.Name(), Fields: fields})
}
