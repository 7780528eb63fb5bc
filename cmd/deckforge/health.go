package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the configured upstream presentation and diagram endpoints are reachable",
		RunE:  runHealth,
	}
	rootCmd.AddCommand(cmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := loggerFor(cmd, cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	ok := true
	if err := pingEndpoint(ctx, cfg.Upstream.BaseURL); err != nil {
		logger.Error("upstream presentation API unreachable at %s: %v", cfg.Upstream.BaseURL, err)
		ok = false
	} else {
		logger.Info("upstream presentation API reachable at %s", cfg.Upstream.BaseURL)
	}

	if cfg.Diagram.Endpoint != "" {
		if err := pingEndpoint(ctx, cfg.Diagram.Endpoint); err != nil {
			logger.Error("diagram render endpoint unreachable at %s: %v", cfg.Diagram.Endpoint, err)
			ok = false
		} else {
			logger.Info("diagram render endpoint reachable at %s", cfg.Diagram.Endpoint)
		}
	} else {
		logger.Info("no diagram render endpoint configured; diagram content items will be skipped with an element error at generate time")
	}

	logger.Info("known themes: %v", themeBuiltinNames())

	if !ok {
		return fmt.Errorf("one or more configured endpoints are unreachable")
	}
	fmt.Println("OK")
	return nil
}

func pingEndpoint(ctx context.Context, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, baseURL, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}
