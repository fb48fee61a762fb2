// Package export renders flow graph snapshots to SVG, PNG and JSON.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/sync/errgroup"

	"github.com/careermap/pathview/pkg/analysis"
	"github.com/careermap/pathview/pkg/model"
)

// Layout space the converter positions nodes in; snapshots scale from this
// to the requested output size.
const (
	sourceWidth  = 800.0
	sourceHeight = 600.0
)

// SnapshotOptions configures one snapshot.
type SnapshotOptions struct {
	Path   string // output file; extension picks the format (.svg/.png/.json)
	Graph  model.FlowGraph
	Title  string
	Width  int // pixels, default 800
	Height int // pixels, default 600

	// Paths is included in JSON output when non-empty.
	Paths []model.AlternativePath
}

// SaveSnapshot writes the graph to opts.Path in the format implied by the
// file extension.
func SaveSnapshot(opts SnapshotOptions) error {
	if opts.Width <= 0 {
		opts.Width = int(sourceWidth)
	}
	if opts.Height <= 0 {
		opts.Height = int(sourceHeight)
	}

	switch strings.ToLower(filepath.Ext(opts.Path)) {
	case ".svg":
		return saveSVG(opts)
	case ".png":
		return savePNG(opts)
	case ".json":
		return saveJSON(opts)
	default:
		return fmt.Errorf("unsupported snapshot format: %s", filepath.Ext(opts.Path))
	}
}

// SaveAll writes the same graph to several output files concurrently.
func SaveAll(opts SnapshotOptions, outPaths ...string) error {
	var g errgroup.Group
	for _, p := range outPaths {
		o := opts
		o.Path = p
		g.Go(func() error {
			return SaveSnapshot(o)
		})
	}
	return g.Wait()
}

// kindColor returns fill colors per node kind (hex for SVG, RGB for PNG).
func kindColor(kind model.NodeKind) (hex string, r, g, b float64) {
	switch kind {
	case model.KindRoot:
		return "#f0a818", 0.94, 0.66, 0.09
	case model.KindSkill:
		return "#3a78c3", 0.23, 0.47, 0.76
	case model.KindCareer:
		return "#3f9c50", 0.25, 0.61, 0.31
	case model.KindOutcome:
		return "#8856c9", 0.53, 0.34, 0.79
	}
	return "#888888", 0.53, 0.53, 0.53
}

// nodeRadius shrinks with depth, mirroring the ring layout's emphasis.
func nodeRadius(depth int) float64 {
	r := 22.0 - 4.0*float64(depth)
	if r < 8 {
		r = 8
	}
	return r
}

func saveSVG(opts SnapshotOptions) error {
	f, err := os.Create(opts.Path)
	if err != nil {
		return fmt.Errorf("create svg: %w", err)
	}
	defer f.Close()

	sx := float64(opts.Width) / sourceWidth
	sy := float64(opts.Height) / sourceHeight

	canvas := svg.New(f)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:#ffffff")
	if opts.Title != "" {
		canvas.Text(opts.Width/2, 24, opts.Title, "text-anchor:middle;font-size:16px;font-family:sans-serif;fill:#333333")
	}

	byID := make(map[string]model.FlowNode, len(opts.Graph.Nodes))
	for _, n := range opts.Graph.Nodes {
		byID[n.ID] = n
	}
	for _, e := range opts.Graph.Edges {
		src, ok1 := byID[e.Source]
		dst, ok2 := byID[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		width := 1.0 + e.Weight
		canvas.Line(
			int(src.Position.X*sx), int(src.Position.Y*sy),
			int(dst.Position.X*sx), int(dst.Position.Y*sy),
			fmt.Sprintf("stroke:#b9b9b9;stroke-width:%.1f", width))
	}
	for _, n := range opts.Graph.Nodes {
		hex, _, _, _ := kindColor(n.Kind)
		x, y := int(n.Position.X*sx), int(n.Position.Y*sy)
		canvas.Circle(x, y, int(nodeRadius(n.Depth)),
			fmt.Sprintf("fill:%s;stroke:#444444;stroke-width:1", hex))
		canvas.Text(x, y+int(nodeRadius(n.Depth))+14, n.Label,
			"text-anchor:middle;font-size:11px;font-family:sans-serif;fill:#222222")
	}
	canvas.End()
	return nil
}

func savePNG(opts SnapshotOptions) error {
	sx := float64(opts.Width) / sourceWidth
	sy := float64(opts.Height) / sourceHeight

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	byID := make(map[string]model.FlowNode, len(opts.Graph.Nodes))
	for _, n := range opts.Graph.Nodes {
		byID[n.ID] = n
	}
	dc.SetRGB(0.73, 0.73, 0.73)
	for _, e := range opts.Graph.Edges {
		src, ok1 := byID[e.Source]
		dst, ok2 := byID[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		dc.SetLineWidth(1 + e.Weight)
		dc.DrawLine(src.Position.X*sx, src.Position.Y*sy, dst.Position.X*sx, dst.Position.Y*sy)
		dc.Stroke()
	}
	for _, n := range opts.Graph.Nodes {
		_, r, g, b := kindColor(n.Kind)
		x, y := n.Position.X*sx, n.Position.Y*sy
		dc.SetRGB(r, g, b)
		dc.DrawCircle(x, y, nodeRadius(n.Depth))
		dc.Fill()
		dc.SetRGB(0.13, 0.13, 0.13)
		dc.DrawStringAnchored(n.Label, x, y+nodeRadius(n.Depth)+12, 0.5, 0.5)
	}
	if opts.Title != "" {
		dc.SetRGB(0.2, 0.2, 0.2)
		dc.DrawStringAnchored(opts.Title, float64(opts.Width)/2, 20, 0.5, 0.5)
	}

	if err := dc.SavePNG(opts.Path); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

// jsonSnapshot is the machine-readable bundle format.
type jsonSnapshot struct {
	Title string                  `json:"title,omitempty"`
	Graph model.FlowGraph         `json:"graph"`
	Stats analysis.GraphStats     `json:"stats"`
	Paths []model.AlternativePath `json:"alternativePaths,omitempty"`
}

func saveJSON(opts SnapshotOptions) error {
	bundle := jsonSnapshot{
		Title: opts.Title,
		Graph: opts.Graph,
		Stats: analysis.Analyze(opts.Graph, nil),
		Paths: opts.Paths,
	}
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(opts.Path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
