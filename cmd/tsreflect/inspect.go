package main

import (
	"fmt"
	"io"
	"os"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/spf13/cobra"

	"github.com/tsgonest/tsreflect/internal/codegen"
	"github.com/tsgonest/tsreflect/internal/diagnostic"
	"github.com/tsgonest/tsreflect/internal/metadata"
	"github.com/tsgonest/tsreflect/internal/reflector"
	"github.com/tsgonest/tsreflect/reflection"
)

type inspectOptions struct {
	js          bool
	noDominance bool
	maxDepth    int
}

func propertiesCmd(stdout io.Writer) *cobra.Command {
	return inspectCmd(stdout, metadata.OpProperties,
		"properties <document> <type>",
		"Print the property descriptors of a named type")
}

func valuesCmd(stdout io.Writer) *cobra.Command {
	return inspectCmd(stdout, metadata.OpValues,
		"values <document> <type>",
		"Print the literal values of a named type")
}

// inspectCmd reflects one named type of a document, the way a site
// referring to it would be reflected by build.
func inspectCmd(stdout io.Writer, op metadata.Operation, use, short string) *cobra.Command {
	var opts inspectOptions
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := metadata.LoadDocument(args[0])
			if err != nil {
				return err
			}
			registry := doc.Registry()
			if !registry.Has(args[1]) {
				return fmt.Errorf("type %q is not defined in %s", args[1], args[0])
			}

			r, err := reflector.New(reflector.Options{
				Dominance: !opts.noDominance,
				MaxDepth:  opts.maxDepth,
			})
			if err != nil {
				return err
			}
			diags := diagnostic.NewCollector(false, false)
			site := &metadata.Site{ID: args[1], Op: op, Type: metadata.Metadata{Kind: metadata.KindRef, Ref: args[1]}}
			res, err := r.Site(registry, site, diags)
			if err != nil {
				return err
			}
			if out := diags.FormatAll(); out != "" {
				fmt.Fprint(cmd.ErrOrStderr(), out)
			}
			return printResult(stdout, res, opts.js)
		},
	}
	cmd.Flags().BoolVar(&opts.js, "js", false, "print the JavaScript literal instead of JSON")
	cmd.Flags().BoolVar(&opts.noDominance, "no-dominance", false, "keep literals that a keyword of the same domain swallows")
	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", 0, "maximum type nesting depth (default 64)")
	return cmd
}

func printResult(w io.Writer, res codegen.SiteResult, js bool) error {
	if js {
		var out string
		switch res.Op {
		case metadata.OpProperties:
			out = codegen.EmitProperties(res.Properties)
		default:
			s, err := codegen.EmitValues(res.Values)
			if err != nil {
				return err
			}
			out = s
		}
		_, err := fmt.Fprintln(w, out)
		return err
	}

	var v any = res.Values
	if res.Op == metadata.OpProperties {
		v = res.Properties
	}
	return writeJSON(w, v)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.Marshal(v, jsontext.WithIndent("  "))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func filterCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "filter <descriptors.json> [query...]",
		Short: "Select property names from descriptors with JSON queries",
		Long: `Select property names from a JSON array of descriptors, as generated
code does at run time. Each query is a JSON object such as
'{"public": true, "readonly": false}'; a name is kept when any query
matches. Without queries, public members are selected.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read descriptors: %w", err)
			}
			var ds []reflection.PropertyDescriptor
			if err := json.Unmarshal(data, &ds, json.RejectUnknownMembers(true)); err != nil {
				return fmt.Errorf("parsing descriptors %s: %w", args[0], err)
			}
			for i, d := range ds {
				if !d.Flags.Valid() {
					return fmt.Errorf("descriptor %d (%s): invalid flags %d", i, d.Name, d.Flags)
				}
			}

			queries := make([]reflection.PropertyQuery, 0, len(args)-1)
			for _, arg := range args[1:] {
				q, err := reflection.ParseQuery([]byte(arg))
				if err != nil {
					return err
				}
				queries = append(queries, q)
			}
			return writeJSON(stdout, reflection.PropertiesOf(ds)(queries...))
		},
	}
}
