package cmd

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	laberrors "github.com/digital-finance/labsite/internal/errors"
	"github.com/digital-finance/labsite/internal/theme"
)

func newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the display theme",
		Long:      `Show the saved display theme, set it, or toggle between light and dark.`,
		Example:   "  labsite theme\n  labsite theme dark\n  labsite theme toggle",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(theme.Light), string(theme.Dark), "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := newWriter(cmd)
			if err != nil {
				return err
			}
			store := theme.NewStore(theme.DefaultPath())

			var t theme.Theme
			switch {
			case len(args) == 0:
				t, err = store.Get()
			case strings.EqualFold(args[0], "toggle"):
				t, err = store.Toggle()
			default:
				t, err = theme.Parse(args[0])
				if err != nil {
					return laberrors.ValidationError(err.Error(), err).
						WithSuggestion("Use light, dark or toggle")
				}
				err = store.Set(t)
			}
			if err != nil {
				return laberrors.New(laberrors.ErrCodeFilePermission, "cannot access "+store.Path(), err)
			}

			if out.JSONMode() {
				return out.JSON(map[string]string{"theme": string(t), "path": store.Path()})
			}
			out.Line(string(t))
			return nil
		},
	}
}

// currentTheme returns the saved theme, or the default when it cannot be
// read.
func currentTheme() theme.Theme {
	t, err := theme.NewStore(theme.DefaultPath()).Get()
	if err != nil {
		slog.Debug("theme_unavailable", slog.String("error", err.Error()))
	}
	return t
}
