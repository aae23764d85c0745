package jobfile

import "github.com/zclconf/go-cty/cty"

// fileRoot decodes all top-level blocks of a single file.
type fileRoot struct {
	Renders  []*renderBlock   `hcl:"render,block"`
	Sweeps   []*sweepBlock    `hcl:"sweep,block"`
	Progress []*progressBlock `hcl:"progress,block"`
}

// regionAttrs gathers the region-related fields of a render or sweep block
// for resolveBounds. It is filled by hand, not decoded.
type regionAttrs struct {
	Region                 *cty.Value
	XMin, XMax, YMin, YMax *float64
}

type renderBlock struct {
	Name          string     `hcl:"name,label"`
	Region        *cty.Value `hcl:"region,optional"`
	XMin          *float64   `hcl:"xmin,optional"`
	XMax          *float64   `hcl:"xmax,optional"`
	YMin          *float64   `hcl:"ymin,optional"`
	YMax          *float64   `hcl:"ymax,optional"`
	Points        int        `hcl:"points"`
	Divisions     int        `hcl:"divisions,optional"`
	MaxIterations int        `hcl:"max_iterations"`
	Workers       int        `hcl:"workers,optional"`
	Mode          string     `hcl:"mode,optional"`
	Kernel        string     `hcl:"kernel,optional"`
	Radius        float64    `hcl:"radius,optional"`
	Timeout       string     `hcl:"timeout,optional"`
	Output        string     `hcl:"output,optional"`
}

func (b *renderBlock) region() regionAttrs {
	return regionAttrs{Region: b.Region, XMin: b.XMin, XMax: b.XMax, YMin: b.YMin, YMax: b.YMax}
}

type sweepBlock struct {
	Name          string     `hcl:"name,label"`
	Region        *cty.Value `hcl:"region,optional"`
	XMin          *float64   `hcl:"xmin,optional"`
	XMax          *float64   `hcl:"xmax,optional"`
	YMin          *float64   `hcl:"ymin,optional"`
	YMax          *float64   `hcl:"ymax,optional"`
	Points        int        `hcl:"points"`
	Divisions     []int      `hcl:"divisions"`
	MaxIterations int        `hcl:"max_iterations"`
	Workers       int        `hcl:"workers,optional"`
	Kernel        string     `hcl:"kernel,optional"`
	Radius        float64    `hcl:"radius,optional"`
	Timeout       string     `hcl:"timeout,optional"`
	Output        string     `hcl:"output,optional"`
}

func (b *sweepBlock) region() regionAttrs {
	return regionAttrs{Region: b.Region, XMin: b.XMin, XMax: b.XMax, YMin: b.YMin, YMax: b.YMax}
}

type progressBlock struct {
	URL                string `hcl:"url"`
	Namespace          string `hcl:"namespace,optional"`
	InsecureSkipVerify bool   `hcl:"insecure_skip_verify,optional"`
}
