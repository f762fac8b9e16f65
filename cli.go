package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Rshep3087/findash/api"
	"github.com/Rshep3087/findash/config"
	"github.com/Rshep3087/findash/session"
)

const (
	jsonOutputFormat  = "json"
	tableOutputFormat = "table"
)

// contextKey is used as a key for storing values in context.
type contextKey string

const (
	// appContextKey is the key for storing the app in context.
	appContextKey contextKey = "findashApp"
)

// app holds what every command and the TUI share.
type app struct {
	cfg    config.Config
	sess   *session.Session
	client *api.Client
	ai     *AIRecommender
}

// newApp opens the stored session and builds an API client that reads its
// token from it.
func newApp(cfg config.Config) (*app, error) {
	sess, err := session.New(session.NewFileStore(cfg.SessionFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	client, err := api.NewClient(cfg.BaseURL,
		api.WithHTTPClient(newHTTPClient(log.Default())),
		api.WithTokenSource(sess),
		api.WithLogger(log.Default()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	var provider AIProvider
	if cfg.AnthropicAPIKey != "" {
		provider = NewAnthropicProvider(cfg.AnthropicAPIKey)
	}

	return &app{
		cfg:    cfg,
		sess:   sess,
		client: client,
		ai:     NewAIRecommender(provider),
	}, nil
}

func withApp(ctx context.Context, a *app) context.Context {
	return context.WithValue(ctx, appContextKey, a)
}

// appFromContext retrieves the app from context.
func appFromContext(ctx context.Context) (*app, error) {
	a, ok := ctx.Value(appContextKey).(*app)
	if !ok {
		return nil, errors.New("findash app not found in context")
	}
	return a, nil
}

// runWithApp adapts a command body that needs the app to a cobra RunE.
func runWithApp(run func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := appFromContext(cmd.Context())
		if err != nil {
			return err
		}
		return run(cmd, args, a)
	}
}

// apiError wraps a failed call and points at login when the session is the
// problem.
func apiError(action string, err error) error {
	if errors.Is(err, api.ErrUnauthenticated) || api.IsUnauthorized(err) {
		return fmt.Errorf("failed to %s: %w (run `%s login`)", action, err, appName)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", tableOutputFormat, "Output format: table or json")
}

// validateOutputFormat returns the --output value if it is supported.
func validateOutputFormat(cmd *cobra.Command) (string, error) {
	outputFormat, _ := cmd.Flags().GetString("output")

	validFormats := []string{tableOutputFormat, jsonOutputFormat}
	if !slices.Contains(validFormats, outputFormat) {
		return "", fmt.Errorf("invalid output format: %s (must be one of %v)", outputFormat, validFormats)
	}
	return outputFormat, nil
}

// Utility functions for output formatting.
func outputJSON(cmd *cobra.Command, data any) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
	return nil
}

func createStyledTable(headers ...string) *table.Table {
	var (
		purple    = lipgloss.Color("99")
		gray      = lipgloss.Color("245")
		lightGray = lipgloss.Color("241")

		headerStyle  = lipgloss.NewStyle().Foreground(purple).Bold(true).Align(lipgloss.Center)
		cellStyle    = lipgloss.NewStyle().Padding(0, 1)
		oddRowStyle  = cellStyle.Foreground(gray)
		evenRowStyle = cellStyle.Foreground(lightGray)
	)

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(purple)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 0:
				return evenRowStyle
			default:
				return oddRowStyle
			}
		}).
		Headers(headers...)
}

func printTable(cmd *cobra.Command, t *table.Table) {
	fmt.Fprintln(cmd.OutOrStdout(), t)
}

// confirmAction asks question unless --yes was given.
func confirmAction(cmd *cobra.Command, question string) (bool, error) {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true, nil
	}

	var ok bool
	err := huh.NewConfirm().
		Title(question).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&ok).
		Run()
	if err != nil {
		return false, fmt.Errorf("confirmation aborted: %w", err)
	}
	return ok, nil
}

func addYesFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
