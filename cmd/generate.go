/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skyforge/wingen/export"
	"github.com/skyforge/wingen/generator"
	"github.com/skyforge/wingen/params"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a wing mesh from planform parameters or a text prompt",
	Long: `
Generates a closed, mirrored wing surface mesh and writes it as a binary GLB
or STL artifact alongside its aerodynamic summary.

Parameters come from flags, a YAML spec file (-I), or a free-text prompt:

wingen generate --rootChord 5 --semiSpan 10 --sweepAngle 25 --taperRatio 0.5
wingen generate --prompt "a wing with a root chord of 6 and taper ratio of 0.3"`,
	Run: func(cmd *cobra.Command, args []string) {
		if cpuprofile, _ := cmd.Flags().GetBool("cpuprofile"); cpuprofile {
			defer profile.Start(profile.CPUProfile).Stop()
		}
		rs := processGenerateInput(cmd)
		RunGenerate(cmd, rs)
	},
}

func processGenerateInput(cmd *cobra.Command) (rs *params.RunSpec) {
	rs = &params.RunSpec{}
	if specFile, _ := cmd.Flags().GetString("specFile"); len(specFile) != 0 {
		data, err := os.ReadFile(specFile)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		if err = rs.Parse(data); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			exampleFile := `
########################################
Title: "Swept Test Wing"
RootChord: 5.
SemiSpan: 10.
SweepAngleDeg: 25.
TaperRatio: 0.5
Format: glb
OutputDir: generated_models
########################################
`
			fmt.Printf("Example File:%s\n", exampleFile)
			os.Exit(1)
		}
		rs.Print()
	}
	if v, _ := cmd.Flags().GetFloat64("rootChord"); v != 0 {
		rs.RootChord = v
	}
	if v, _ := cmd.Flags().GetFloat64("semiSpan"); v != 0 {
		rs.SemiSpan = v
	}
	if changed := cmd.Flags().Changed("sweepAngle"); changed {
		rs.SweepAngleDeg, _ = cmd.Flags().GetFloat64("sweepAngle")
	}
	if v, _ := cmd.Flags().GetFloat64("taperRatio"); v != 0 {
		rs.TaperRatio = v
	}
	if p, _ := cmd.Flags().GetString("prompt"); len(p) != 0 {
		rs.Prompt = p
	}
	if o, _ := cmd.Flags().GetString("outputDir"); len(o) != 0 {
		rs.OutputDir = o
	}
	if f, _ := cmd.Flags().GetString("format"); len(f) != 0 {
		rs.Format = f
	}
	if rs.OutputDir == "" {
		rs.OutputDir = "generated_models"
	}
	return
}

func RunGenerate(cmd *cobra.Command, rs *params.RunSpec) {
	format, err := export.ParseFormat(rs.Format)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	g := generator.New(rs.OutputDir, format, log)

	var res *generator.Result
	if len(rs.Prompt) != 0 && rs.RootChord == 0 && rs.SemiSpan == 0 {
		res, err = g.FromPrompt(rs.Prompt)
	} else {
		res, err = g.FromParameters(rs.Parameters(), rs.Prompt)
	}
	if err != nil {
		log.Error("generation failed", zap.Error(err))
		os.Exit(1)
	}
	md := res.Metadata
	fmt.Printf("%s\t\t= Artifact\n", res.Path)
	fmt.Printf("%8.5f\t\t= TotalSpan\n", md.TotalSpan)
	fmt.Printf("%8.5f\t\t= WingArea\n", md.WingArea)
	fmt.Printf("%8.5f\t\t= AspectRatio\n", md.AspectRatio)
	fmt.Printf("%8.5f\t\t= TipChord\n", md.TipChord)
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().Float64P("rootChord", "r", 0, "chord length at the wing root")
	generateCmd.Flags().Float64P("semiSpan", "s", 0, "distance from root to one wingtip")
	generateCmd.Flags().Float64P("sweepAngle", "w", 0, "leading edge sweep angle in degrees")
	generateCmd.Flags().Float64P("taperRatio", "t", 0, "tip chord / root chord, in (0,1]")
	generateCmd.Flags().StringP("prompt", "p", "", "free-text wing description, e.g. \"a wing with a root chord of 6\"")
	generateCmd.Flags().StringP("specFile", "I", "", "YAML file for generation parameters like:\n\t- RootChord\n\t- SemiSpan\n\t- SweepAngleDeg\n\t- TaperRatio")
	generateCmd.Flags().StringP("outputDir", "o", "", "directory the mesh artifact is written to")
	generateCmd.Flags().StringP("format", "f", "glb", "output encoding: glb or stl")
	generateCmd.Flags().Bool("cpuprofile", false, "write a CPU profile for the generation run")
}
