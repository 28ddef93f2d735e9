package main

import (
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wlkit/scanout"
	"github.com/wlkit/scanout/backend"
	"github.com/wlkit/scanout/backend/virtual"
)

var (
	simBackend        string
	simPNG            string
	simRepaints       int
	simNoUnderlay     bool
	simBrokenSprites  bool
	simPlanesDisabled bool
	simColorEffect    bool
	simProtectedLink  bool
	simCursorSize     int

	modeColor    = color.New(color.FgCyan, color.Bold)
	planeColor   = color.New(color.FgGreen)
	rendererText = color.New(color.FgYellow)
	reasonColor  = color.New(color.FgRed)
	hintColor    = color.New(color.FgMagenta)
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [scene]",
	Short: "Run repaints over a synthetic scene",
	Long: `Run one or more repaints of a preset scene against the virtual device
and print the per-view decision table.

Available scenes: ` + strings.Join(sceneNames(), ", ") + `.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scene := "video"
		if len(args) == 1 {
			scene = args[0]
		}
		return runSimulate(scene)
	},
}

func init() {
	f := simulateCmd.Flags()
	f.StringVar(&simBackend, "backend", "",
		"drive a registered device backend (\"auto\" picks the best available; default: built-in virtual model)")
	f.StringVar(&simPNG, "png", "", "write a plane layout visualization to this file")
	f.IntVar(&simRepaints, "repaints", 1, "number of repaints to run (shows feedback debouncing)")
	f.BoolVar(&simNoUnderlay, "no-underlay", false, "device cannot place underlay planes")
	f.BoolVar(&simBrokenSprites, "broken-sprites", false, "device has broken overlay planes")
	f.BoolVar(&simPlanesDisabled, "planes-disabled", false, "disable all plane use on the output")
	f.BoolVar(&simColorEffect, "color-effect", false, "output-wide color effect is active")
	f.BoolVar(&simProtectedLink, "protected-link", false, "output link carries content protection")
	f.IntVar(&simCursorSize, "cursor-size", 256, "cursor plane dimensions (0 disables the cursor plane)")
}

// resolveDevice picks the device to drive: the locally configured virtual
// model by default, or a backend resolved through the registry when
// --backend is given. The device model flags apply only to the built-in
// model; registered backends bring their own configuration.
func resolveDevice() (scanout.Device, func(), error) {
	if simBackend == "" {
		cfg := virtual.DefaultConfig()
		cfg.Caps.Underlay = !simNoUnderlay
		cfg.Caps.BrokenSprites = simBrokenSprites
		cfg.Caps.CursorWidth = simCursorSize
		cfg.Caps.CursorHeight = simCursorSize
		return virtual.New(cfg), func() {}, nil
	}

	var b backend.DeviceBackend
	if simBackend == "auto" {
		var err error
		if b, err = backend.InitDefault(); err != nil {
			return nil, nil, err
		}
	} else {
		if b = backend.Get(simBackend); b == nil {
			return nil, nil, fmt.Errorf("unknown backend %q (have %v)",
				simBackend, backend.Available())
		}
		if err := b.Init(); err != nil {
			return nil, nil, err
		}
	}
	return b.Device(), b.Close, nil
}

// printingSink logs dmabuf feedback tranche changes as they are emitted.
type printingSink struct{}

func (printingSink) AddScanoutTranche(surface uint64) {
	hintColor.Printf("  feedback: surface %d gains scanout tranche\n", surface)
}

func (printingSink) RemoveScanoutTranche(surface uint64) {
	hintColor.Printf("  feedback: surface %d loses scanout tranche\n", surface)
}

func runSimulate(scene string) error {
	bounds := image.Rect(0, 0, 1920, 1080)
	views, err := buildScene(scene, bounds)
	if err != nil {
		return err
	}

	dev, cleanup, err := resolveDevice()
	if err != nil {
		return err
	}
	defer cleanup()

	// A fixed fake clock stepped between repaints makes the feedback
	// debounce observable in a batch run.
	now := time.Unix(0, 0)
	eng := scanout.New(dev,
		scanout.WithFeedback(printingSink{}),
		scanout.WithClock(func() time.Time { return now }),
	)
	defer eng.Close()

	out := &scanout.Output{
		Name:           "SIM-1",
		Bounds:         bounds,
		PlanesDisabled: simPlanesDisabled,
		ColorEffect:    simColorEffect,
		Protected:      simProtectedLink,
		// Pretend a renderer pass already produced a frame, so mixed mode
		// has its baseline scanout buffer.
		LastRendererFB: scanout.NewFramebuffer(1000, bounds.Dx(), bounds.Dy(),
			scanout.FormatXRGB8888, scanout.ModifierLinear, nil),
	}

	nodes := make([]*scanout.PaintNode, len(views))
	for i, v := range views {
		nodes[i] = v.Node
	}

	if simRepaints < 1 {
		simRepaints = 1
	}
	var st *scanout.OutputState
	for i := 0; i < simRepaints; i++ {
		if prev := out.Current(); prev != nil {
			prev.Release()
		}
		st = eng.Repaint(out, nodes)
		out.SetCurrent(st)
		if simRepaints > 1 {
			fmt.Printf("repaint %d (t=%s)\n", i+1, now.Sub(time.Unix(0, 0)))
		}
		now = now.Add(3 * time.Second)
	}

	fmt.Printf("scene %q on %s: mode %s, %d plane(s)\n\n",
		scene, out.Name, modeColor.Sprint(st.Mode), len(st.Planes))
	printDecisionTable(views)

	if simPNG != "" {
		if err := writeLayoutPNG(simPNG, bounds, views); err != nil {
			return fmt.Errorf("write %s: %w", simPNG, err)
		}
		fmt.Printf("\nlayout written to %s\n", simPNG)
	}
	return nil
}

// printDecisionTable renders the per-view outcome: placement, zpos,
// zero-copy status and the accumulated rejection reasons.
func printDecisionTable(views []sceneView) {
	rows := make([][]string, 0, len(views)+1)
	rows = append(rows, []string{"VIEW", "BUFFER", "PLACEMENT", "ZPOS", "ZERO-COPY", "REASONS"})
	for _, v := range views {
		n := v.Node
		placement, zpos := placementOf(n)
		rows = append(rows, []string{
			v.Label,
			bufferDesc(n),
			placement,
			zpos,
			fmt.Sprintf("%v", n.ZeroCopy),
			n.Reasons.String(),
		})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	for ri, row := range rows {
		for i, cell := range row {
			padded := fmt.Sprintf("%-*s", widths[i]+2, cell)
			if ri == 0 {
				fmt.Print(color.New(color.Bold).Sprint(padded))
				continue
			}
			switch i {
			case 2:
				if strings.HasPrefix(cell, "renderer") {
					fmt.Print(rendererText.Sprint(padded))
				} else {
					fmt.Print(planeColor.Sprint(padded))
				}
			case 5:
				if cell != "none" {
					fmt.Print(reasonColor.Sprint(padded))
				} else {
					fmt.Print(padded)
				}
			default:
				fmt.Print(padded)
			}
		}
		fmt.Println()
	}
}

// placementOf reports where the view ended up after binding.
func placementOf(n *scanout.PaintNode) (placement, zpos string) {
	pl := n.Plane
	if pl == nil {
		return "renderer", "-"
	}
	onPlane := n.ZeroCopy || pl.Type == scanout.PlaneCursor
	if !onPlane {
		return "renderer", "-"
	}
	kind := pl.Type.String()
	if ps := pl.Current(); ps != nil {
		if n.NeedsHole {
			kind = "underlay"
		}
		return fmt.Sprintf("%s (plane %d)", kind, pl.ID), fmt.Sprintf("%d", ps.Zpos)
	}
	return fmt.Sprintf("%s (plane %d)", kind, pl.ID), "-"
}

func bufferDesc(n *scanout.PaintNode) string {
	if n.Solid {
		c := n.SolidColor
		return fmt.Sprintf("solid #%02x%02x%02x",
			int(c.R*255), int(c.G*255), int(c.B*255))
	}
	if n.Buffer == nil {
		return "none"
	}
	return fmt.Sprintf("%s %s %dx%d",
		n.Buffer.Type, fourccString(n.Buffer.Format),
		n.Buffer.Width, n.Buffer.Height)
}

// fourccString decodes a DRM fourcc into its four character codes.
func fourccString(f uint32) string {
	b := []byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)}
	for i, c := range b {
		if c < ' ' || c > '~' {
			b[i] = '?'
		}
	}
	return string(b)
}
