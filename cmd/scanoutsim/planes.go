package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wlkit/scanout/backend/virtual"
)

var planesCmd = &cobra.Command{
	Use:   "planes",
	Short: "Show the virtual device's plane table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printPlaneTable(virtual.DefaultConfig())
		return nil
	},
}

func printPlaneTable(cfg virtual.Config) {
	bold := color.New(color.Bold)
	bold.Printf("%-4s %-8s %-10s %-10s %-7s %s\n",
		"ID", "TYPE", "ZPOS", "ALPHA", "FENCE", "FORMATS")
	for _, pc := range cfg.Planes {
		formats := make([]string, 0, len(pc.Formats))
		for f := range pc.Formats {
			formats = append(formats, fourccString(f))
		}
		sort.Strings(formats)
		fmt.Printf("%-4d %-8s %-10s %-10s %-7v ",
			pc.ID, pc.Type,
			fmt.Sprintf("%d..%d", pc.ZposMin, pc.ZposMax),
			fmt.Sprintf("%g..%g", pc.AlphaMin, pc.AlphaMax),
			pc.InFence)
		for i, f := range formats {
			if i > 0 {
				fmt.Print(" ")
			}
			planeColor.Print(f)
		}
		fmt.Println()
	}
	fmt.Printf("\ncaps: underlay=%v cursor=%dx%d gpu-import=%v\n",
		cfg.Caps.Underlay, cfg.Caps.CursorWidth, cfg.Caps.CursorHeight,
		cfg.Caps.GPUImport)
}
