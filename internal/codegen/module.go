package codegen

import (
	"fmt"

	"github.com/tsgonest/tsreflect/internal/metadata"
	"github.com/tsgonest/tsreflect/reflection"
)

// DefaultRuntimeModule is the module the run-time filter factory is
// required from.
const DefaultRuntimeModule = "tsreflect/runtime"

// runtimeExport is the name the runtime module exports its factory under.
const runtimeExport = "createPropertiesOf"

// SiteResult is the reflection result of one call site.
type SiteResult struct {
	ID         string
	Op         metadata.Operation
	Properties []reflection.PropertyDescriptor
	Values     []metadata.Literal
}

// ModuleOptions controls how generated code reaches the runtime.
type ModuleOptions struct {
	RuntimeModule     string
	RuntimeIdentifier string
}

func (o ModuleOptions) withDefaults() ModuleOptions {
	if o.RuntimeModule == "" {
		o.RuntimeModule = DefaultRuntimeModule
	}
	if o.RuntimeIdentifier == "" {
		o.RuntimeIdentifier = DefaultRuntimeIdentifier
	}
	return o
}

// Expression returns the JavaScript expression replacing the call site.
func Expression(r SiteResult, opts ModuleOptions) (string, error) {
	opts = opts.withDefaults()
	switch r.Op {
	case metadata.OpProperties:
		return EmitPropertiesOfCall(opts.RuntimeIdentifier, r.Properties), nil
	case metadata.OpValues:
		return EmitValues(r.Values)
	default:
		return "", fmt.Errorf("site %q: unknown op %q", r.ID, r.Op)
	}
}

// GenerateModule renders a CommonJS module exporting one expression per
// site id. The runtime is only required when a properties site exists.
func GenerateModule(results []SiteResult, opts ModuleOptions) (string, error) {
	opts = opts.withDefaults()

	e := NewEmitter()
	e.Line(`"use strict";`)
	e.Comment("Code generated by tsreflect. DO NOT EDIT.")
	e.Blank()

	for _, r := range results {
		if r.Op == metadata.OpProperties {
			e.Line("const { %s: %s } = require(%s);", runtimeExport, opts.RuntimeIdentifier, jsString(opts.RuntimeModule))
			e.Blank()
			break
		}
	}

	e.Block("module.exports =")
	for _, r := range results {
		expr, err := Expression(r, opts)
		if err != nil {
			return "", err
		}
		e.Entry(r.ID, expr)
	}
	e.EndBlockSuffix(";")
	return e.String(), nil
}
