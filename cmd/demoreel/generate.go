package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/v0xg/demoreel/internal/ai"
	"github.com/v0xg/demoreel/internal/browser"
	"github.com/v0xg/demoreel/internal/crawler"
	"github.com/v0xg/demoreel/internal/demo"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		out      string
		provider string
		model    string
	)

	cmd := &cobra.Command{
		Use:   "generate <url> <prompt>",
		Short: "Crawl a page and let an AI model write a demo file",
		Long: `generate opens the page, maps its interactive elements and asks the
configured AI provider for a demo file that follows your prompt.

Example:
  demoreel generate "https://myapp.com" "click login, show the dashboard" --out login.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, prompt := args[0], args[1]
			ctx := cmd.Context()
			w := cmd.OutOrStdout()
			cfg := a.cfg

			if provider == "" {
				provider = cfg.AI.Provider
			}
			if model == "" {
				model = cfg.AI.Model
			}
			p, err := ai.NewProvider(ai.Settings{
				Provider:     provider,
				Model:        model,
				AnthropicKey: cfg.AI.AnthropicKey,
				OpenAIKey:    cfg.AI.OpenAIKey,
				MaxTokens:    cfg.AI.MaxTokens,
				Logger:       a.logger,
			})
			if err != nil {
				return fmt.Errorf("AI provider init failed: %w", err)
			}

			fmt.Fprintf(w, "→ Crawling %s... ", url)
			b, err := browser.Launch(ctx, browser.Options{
				Width:      cfg.Browser.Width,
				Height:     cfg.Browser.Height,
				Headless:   cfg.Browser.Headless,
				ProfileDir: cfg.Browser.ProfileDir,
				Bin:        cfg.Browser.Bin,
				Timeout:    cfg.Browser.Timeout,
			}, a.logger)
			if err != nil {
				fmt.Fprintln(w, "failed")
				return err
			}
			defer b.Close()

			pageMap, err := crawler.Crawl(ctx, b, url, a.logger)
			if err != nil {
				fmt.Fprintln(w, "failed")
				return fmt.Errorf("crawl failed: %w", err)
			}
			fmt.Fprintf(w, "done (%s)\n", pageMap.Summary())

			fmt.Fprintf(w, "→ Writing demo via %s... ", provider)
			d, err := p.GenerateDemo(ctx, pageMap, prompt)
			if err != nil {
				fmt.Fprintln(w, "failed")
				return fmt.Errorf("demo generation failed: %w", err)
			}
			if d.Viewport == nil {
				d.Viewport = &demo.Viewport{Width: cfg.Browser.Width, Height: cfg.Browser.Height}
			}
			fmt.Fprintf(w, "done (%d beats)\n", len(d.Beats))

			for _, issue := range d.Lint() {
				fmt.Fprintf(w, "  ! %s\n", issue)
			}
			if err := demo.Write(out, d); err != nil {
				return err
			}
			fmt.Fprintf(w, "✓ Saved to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "demo.yaml", "Output demo file")
	cmd.Flags().StringVar(&provider, "provider", "", "AI provider: claude, openai (default from config)")
	cmd.Flags().StringVar(&model, "model", "", "Specific model override")
	return cmd
}
