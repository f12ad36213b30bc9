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
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/skyforge/wingen/export"
	"github.com/skyforge/wingen/generator"
	"github.com/skyforge/wingen/server"
	"github.com/skyforge/wingen/services"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the wing generator over HTTP",
	Long: `
Exposes POST /generate (prompt driven, hosted generator first with parametric
fallback), POST /generate-parametric (structured parameters), and /models
static serving of generated artifacts.

Environment overrides: WINGEN_REMOTE_ENDPOINT, WINGEN_BASE_URL,
WINGEN_OUTPUT_DIR, WINGEN_REMOTE_TIMEOUT, WINGEN_GENAI_API_KEY,
WINGEN_GENAI_MODEL`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			port, _      = cmd.Flags().GetInt("port")
			workers, _   = cmd.Flags().GetInt("workers")
			outputDir, _ = cmd.Flags().GetString("outputDir")
			endpoint, _  = cmd.Flags().GetString("remoteEndpoint")
			baseURL, _   = cmd.Flags().GetString("baseURL")
		)
		if v := viper.GetString("output_dir"); v != "" {
			outputDir = v
		}
		if v := viper.GetString("remote_endpoint"); v != "" {
			endpoint = v
		}
		if v := viper.GetString("base_url"); v != "" {
			baseURL = v
		}
		timeout := time.Duration(viper.GetInt("remote_timeout")) * time.Second

		gen := generator.New(outputDir, export.FormatGLB, log)
		assets := services.NewRemoteClient(endpoint, baseURL, outputDir, timeout, log)

		var vertex *services.VertexClient
		if apiKey := viper.GetString("genai_api_key"); apiKey != "" {
			var err error
			vertex, err = services.NewVertexClient(context.Background(), apiKey, viper.GetString("genai_model"))
			if err != nil {
				return fmt.Errorf("configuring generative model client: %w", err)
			}
		}

		srv := server.New(gen, assets, vertex, workers, log)
		log.Info("serving wing generator",
			zap.Int("port", port), zap.String("output_dir", outputDir),
			zap.Bool("remote_enabled", endpoint != ""),
			zap.Bool("generative_enabled", vertex != nil))
		return srv.Router().Run(fmt.Sprintf(":%d", port))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8000, "listen port")
	serveCmd.Flags().IntP("workers", "n", server.DefaultWorkers, "max concurrent mesh generations")
	serveCmd.Flags().StringP("outputDir", "o", "generated_models", "directory served under /models")
	serveCmd.Flags().String("remoteEndpoint", "", "hosted wing generator URL (tried before the parametric core)")
	serveCmd.Flags().String("baseURL", "http://127.0.0.1:8000", "public base URL for viewer links")
}
