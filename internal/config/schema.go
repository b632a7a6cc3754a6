package config

import (
	_ "embed"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/lenspop/internal/simerr"
)

//go:embed schema.cue
var schemaCUE string

// validateSchema unifies the configuration with #Config and requires a
// concrete result.
func validateSchema(c *Config) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return &simerr.Error{Code: simerr.CodeConfiguration, Message: "invalid embedded schema", Err: err}
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	data := ctx.Encode(c)
	if err := data.Err(); err != nil {
		return &simerr.Error{Code: simerr.CodeConfiguration, Message: "encode config", Err: err}
	}

	if err := def.Unify(data).Validate(cue.Concrete(true)); err != nil {
		field := "config"
		if errs := cueerrors.Errors(err); len(errs) > 0 {
			if path := errs[0].Path(); len(path) > 0 {
				field = strings.Join(path, ".")
			}
		}
		return &simerr.Error{
			Code:    simerr.CodeConfiguration,
			Field:   field,
			Message: "schema violation",
			Err:     err,
		}
	}
	return nil
}
