package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/digital-finance/labsite/internal/config"
	laberrors "github.com/digital-finance/labsite/internal/errors"
	"github.com/digital-finance/labsite/internal/index"
	"github.com/digital-finance/labsite/internal/site"
	"github.com/digital-finance/labsite/internal/ui"
)

func newIndexCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Generate the search index payload",
		Long: `Generate the pre-built search index payload from the site sections and
the publication list. The site loads this file at startup and falls back
to building the same documents itself when it is missing.

By default the payload is written to data.index_payload.`,
		Example: `  labsite index
  labsite index -o _site/search-index.json
  labsite index status
  labsite index verify`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIndex(cmd, outPath)
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Payload file (default: data.index_payload)")
	cmd.AddCommand(newIndexStatusCmd())
	cmd.AddCommand(newIndexVerifyCmd())
	return cmd
}

func runIndex(cmd *cobra.Command, outPath string) error {
	out, err := newWriter(cmd)
	if err != nil {
		return err
	}
	cfg, s, err := openSite(cmd.Context())
	if err != nil {
		return err
	}

	if outPath == "" {
		outPath = cfg.Data.IndexPayload
	}
	if outPath == "" || config.IsURL(outPath) {
		return laberrors.ValidationError("no local payload path to write to", nil).
			WithSuggestion("Pass --output or set data.index_payload to a file path")
	}

	payload := index.FallbackPayload(site.Sections(cfg), s.Catalog())
	if err := writePayloadFile(outPath, payload); err != nil {
		return err
	}
	slog.Info("index_payload_written",
		slog.String("path", outPath),
		slog.Int("sections", len(payload.Sections)),
		slog.Int("publications", len(payload.Publications)))

	if out.JSONMode() {
		return out.JSON(map[string]any{
			"path":         outPath,
			"sections":     len(payload.Sections),
			"publications": len(payload.Publications),
		})
	}
	out.Successf("Wrote %s (%d sections, %d publications)", outPath, len(payload.Sections), len(payload.Publications))
	return nil
}

// writePayloadFile writes p through a temp file so readers never see a
// partial payload.
func writePayloadFile(path string, p *index.Payload) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return laberrors.New(laberrors.ErrCodeFilePermission, "cannot create "+filepath.Dir(path), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".search-index-*.json")
	if err != nil {
		return laberrors.New(laberrors.ErrCodeFilePermission, "cannot write "+path, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := index.WritePayload(tmp, p); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func newIndexStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Build the index and report where it came from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := newWriter(cmd)
			if err != nil {
				return err
			}
			_, s, err := openSite(cmd.Context())
			if err != nil {
				return err
			}
			buildErr := s.BuildIndex(cmd.Context())

			status := s.IndexStatus()
			if out.JSONMode() {
				if err := out.JSON(status); err != nil {
					return err
				}
			} else {
				styles := ui.NewConfig(cmd.OutOrStdout(), currentTheme()).Styles()
				out.Raw(ui.RenderStatus(status, s.QueryMetrics(), styles))
			}
			if buildErr != nil {
				return laberrors.New(laberrors.ErrCodeIndexFailed, "search index build failed", buildErr).
					WithSuggestion("Run 'labsite index verify' and 'labsite check'")
			}
			return nil
		},
	}
}

func newIndexVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that the configured index payload loads",
		Long: `Fetch the payload at data.index_payload once, from a file or an http(s)
URL, and validate it. Unlike a normal build this does not fall back to the
local documents, so a broken payload is reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := newWriter(cmd)
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			location := cfg.Data.IndexPayload
			if location == "" {
				return laberrors.ValidationError("no index payload configured", nil).
					WithSuggestion("Set data.index_payload in .labsite.yaml")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.FetchTimeout())
			defer cancel()
			payload, err := index.FetchPayload(ctx, nil, location)
			if err != nil {
				return payloadError(location, err)
			}

			if out.JSONMode() {
				return out.JSON(map[string]any{
					"location":     location,
					"sections":     len(payload.Sections),
					"publications": len(payload.Publications),
				})
			}
			out.Successf("%s is valid (%d sections, %d publications)", location, len(payload.Sections), len(payload.Publications))
			return nil
		},
	}
}

// payloadError classifies a payload fetch failure.
func payloadError(location string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return laberrors.IOError("index payload not found: "+location, err).
			WithSuggestion("Run 'labsite index' to generate it")
	case errors.Is(err, index.ErrMalformedPayload):
		return laberrors.New(laberrors.ErrCodePayloadMalformed, "index payload is malformed: "+location, err).
			WithSuggestion("Regenerate it with 'labsite index'")
	case errors.Is(err, context.DeadlineExceeded):
		return laberrors.New(laberrors.ErrCodeNetworkTimeout, "timed out fetching "+location, err).
			WithSuggestion("Increase search.fetch_timeout in .labsite.yaml")
	case config.IsURL(location):
		return laberrors.New(laberrors.ErrCodeNetworkUnavailable, "cannot fetch "+location, err)
	default:
		return laberrors.IOError("cannot read index payload "+location, err)
	}
}
