package jobfile

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/tilegrid/internal/grid"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Regions are the named presets exposed to job files as region.<name>.
var Regions = map[string]grid.Bounds{
	"full":                    {XMin: -2, XMax: 1, YMin: -1.5, YMax: 1.5},
	"zoom":                    {XMin: -0.68, XMax: -0.66, YMin: 0.45, YMax: 0.47},
	"seahorse_valley":         {XMin: -0.8, XMax: -0.7, YMin: 0.05, YMax: 0.15},
	"elephant_valley":         {XMin: -1.85, XMax: -1.75, YMin: -0.10, YMax: -0.02},
	"spiral_minibrot":         {XMin: -0.7435, XMax: -0.7420, YMin: 0.1310, YMax: 0.1325},
	"triple_spiral":           {XMin: -0.7480, XMax: -0.7450, YMin: 0.0950, YMax: 0.0980},
	"valley_of_the_dragon":    {XMin: -0.7400, XMax: -0.7350, YMin: 0.1800, YMax: 0.1850},
	"minibrot_in_mini_spiral": {XMin: -1.7390, XMax: -1.7375, YMin: -0.0235, YMax: -0.0220},
}

// boundsType is the object shape a region value must convert to.
var boundsType = cty.Object(map[string]cty.Type{
	"xmin": cty.Number,
	"xmax": cty.Number,
	"ymin": cty.Number,
	"ymax": cty.Number,
})

type boundsObject struct {
	XMin float64 `cty:"xmin"`
	XMax float64 `cty:"xmax"`
	YMin float64 `cty:"ymin"`
	YMax float64 `cty:"ymax"`
}

// newEvalContext builds the variables and functions visible to job files.
func newEvalContext() *hcl.EvalContext {
	regions := make(map[string]cty.Value, len(Regions))
	for name, b := range Regions {
		regions[name] = cty.ObjectVal(map[string]cty.Value{
			"xmin": cty.NumberFloatVal(b.XMin),
			"xmax": cty.NumberFloatVal(b.XMax),
			"ymin": cty.NumberFloatVal(b.YMin),
			"ymax": cty.NumberFloatVal(b.YMax),
		})
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"region": cty.ObjectVal(regions),
		},
		Functions: map[string]function.Function{
			"min":   stdlib.MinFunc,
			"max":   stdlib.MaxFunc,
			"pow":   stdlib.PowFunc,
			"abs":   stdlib.AbsoluteFunc,
			"floor": stdlib.FloorFunc,
			"ceil":  stdlib.CeilFunc,
		},
	}
}

// resolveBounds merges a region object with any explicit bounds. Explicit
// attributes win; without a region all four must be given.
func resolveBounds(attrs regionAttrs) (grid.Bounds, error) {
	var b grid.Bounds
	haveRegion := attrs.Region != nil && !attrs.Region.IsNull()

	if haveRegion {
		converted, err := convert.Convert(*attrs.Region, boundsType)
		if err != nil {
			return b, fmt.Errorf("region must be an object with xmin, xmax, ymin and ymax: %w", err)
		}
		var obj boundsObject
		if err := gocty.FromCtyValue(converted, &obj); err != nil {
			return b, fmt.Errorf("invalid region: %w", err)
		}
		b = grid.Bounds{XMin: obj.XMin, XMax: obj.XMax, YMin: obj.YMin, YMax: obj.YMax}
	}

	for _, f := range []struct {
		name string
		src  *float64
		dst  *float64
	}{
		{"xmin", attrs.XMin, &b.XMin},
		{"xmax", attrs.XMax, &b.XMax},
		{"ymin", attrs.YMin, &b.YMin},
		{"ymax", attrs.YMax, &b.YMax},
	} {
		if f.src != nil {
			*f.dst = *f.src
		} else if !haveRegion {
			return b, fmt.Errorf("missing %q: set it or use a region", f.name)
		}
	}
	return b, b.Validate()
}
