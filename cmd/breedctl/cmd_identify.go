package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"dog-breed-social/internal/client/api"
)

func (c *cli) identifyCmd() *cobra.Command {
	var visibility string
	cmd := &cobra.Command{
		Use:   "identify <image>",
		Short: "Identify the breed mix in a photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open image: %w", err)
			}
			defer f.Close()

			ctx, cancel := c.ctx(cmd)
			defer cancel()

			name := filepath.Base(args[0])
			img := api.Image{Name: name, ContentType: mime.TypeByExtension(filepath.Ext(name)), Data: f}

			s := c.app.Identify
			rec, ok := s.Analyze(ctx, img, visibility)
			if !ok {
				return failed(s.Snapshot().Error)
			}
			if c.asJSON {
				return c.printJSON(rec)
			}
			c.renderRecord(rec)
			return nil
		},
	}
	cmd.Flags().StringVar(&visibility, "visibility", "", "public or private (public also creates a post when signed in)")
	return cmd
}

func (c *cli) historyCmd() *cobra.Command {
	var (
		limit int
		local bool
	)
	cmd := &cobra.Command{
		Use:   "history [record-id]",
		Short: "Show past identifications, or one of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.ctx(cmd)
			defer cancel()

			s := c.app.Identify
			if len(args) == 1 {
				if !s.Get(ctx, args[0]) {
					return failed(s.Snapshot().Error)
				}
				rec := *s.Snapshot().Current
				if c.asJSON {
					return c.printJSON(rec)
				}
				c.renderRecord(rec)
				return nil
			}

			// sin sesión solo hay historial local.
			if !local && c.app.Auth.Snapshot().Authenticated {
				if !s.LoadHistory(ctx, limit) {
					return failed(s.Snapshot().Error)
				}
			}
			list := s.Snapshot().History
			if c.asJSON {
				return c.printJSON(list)
			}
			c.renderHistory(list)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum records from the server")
	cmd.Flags().BoolVar(&local, "local", false, "Only the history kept in the local cache")
	return cmd
}
