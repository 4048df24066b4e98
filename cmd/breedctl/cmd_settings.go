package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dog-breed-social/internal/client/localcache"
)

var themes = map[string]bool{"light": true, "dark": true, "system": true}

func (c *cli) settingsCmd() *cobra.Command {
	var (
		p             localcache.SettingsPatch
		theme         string
		notifications bool
		language      string
	)
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change local preferences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache := c.app.Cache
			f := cmd.Flags()
			if f.Changed("theme") {
				if !themes[theme] {
					return errors.New("theme must be light, dark or system")
				}
				p.Theme = &theme
			}
			if f.Changed("notifications") {
				p.Notifications = &notifications
			}
			if f.Changed("language") {
				p.Language = &language
			}

			s := cache.Settings()
			if p.Theme != nil || p.Notifications != nil || p.Language != nil {
				var err error
				if s, err = cache.UpdateSettings(p); err != nil {
					return fmt.Errorf("save settings: %w", err)
				}
				if p.Theme != nil {
					_ = cache.SetTheme(theme)
				}
			}

			if c.asJSON {
				return c.printJSON(s)
			}
			c.printf("theme:         %s\n", s.Theme)
			c.printf("notifications: %t\n", s.Notifications)
			c.printf("language:      %s\n", s.Language)
			return nil
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "", "light, dark or system")
	cmd.Flags().BoolVar(&notifications, "notifications", true, "Enable notifications")
	cmd.Flags().StringVar(&language, "language", "", "Interface language")
	return cmd
}
