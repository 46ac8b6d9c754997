package parser

import (
	"maps"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/jsvensson/studioicons/internal/color"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// EvalContext exposes the base palette as colors.<name> together with the
// brighten and darken functions, so theme blocks can derive their colors.
func EvalContext(base color.Palette) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"colors": paletteToCty(base),
		},
		Functions: map[string]function.Function{
			"brighten": makeAdjustFunc("Brightens a color by the given OKLCH lightness amount (-1.0 to 1.0)", color.Brighten),
			"darken":   makeAdjustFunc("Darkens a color by the given OKLCH lightness amount (-1.0 to 1.0)", color.Darken),
		},
	}
}

func paletteToCty(p color.Palette) cty.Value {
	if len(p) == 0 {
		return cty.EmptyObjectVal
	}
	vals := make(map[string]cty.Value, len(p))
	for _, k := range slices.Sorted(maps.Keys(p)) {
		vals[k] = cty.StringVal(p[k])
	}
	return cty.ObjectVal(vals)
}

// makeAdjustFunc wraps a lightness adjustment as an HCL function.
// Usage: brighten("#hex", 0.1) or darken(colors.background, 0.1)
func makeAdjustFunc(description string, adjust func(color.Color, float64) color.Color) function.Function {
	return function.New(&function.Spec{
		Description: description,
		Params: []function.Parameter{
			{Name: "color", Type: cty.String},
			{Name: "amount", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			amount, _ := args[1].AsBigFloat().Float64()

			c, err := color.ParseHex(args[0].AsString())
			if err != nil {
				return cty.NilVal, err
			}

			return cty.StringVal(adjust(c, amount).Hex()), nil
		},
	})
}
