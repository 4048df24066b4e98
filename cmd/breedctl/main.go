// breedctl es el cliente de línea de comandos: usa los mismos stores y cache local que una UI.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"dog-breed-social/internal/client/app"
)

const (
	envAPIURL     = "BREEDCTL_API_URL"
	defaultAPIURL = "http://localhost:8080"
)

// cli guarda los flags globales y el App construido en PersistentPreRunE.
type cli struct {
	configPath string
	apiURL     string
	cachePath  string
	timeout    time.Duration
	asJSON     bool

	out io.Writer
	app *app.App
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:           "breedctl",
		Short:         "Identify dog breeds and browse the community feed",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.resolve(cmd); err != nil {
				return err
			}
			a, err := app.New(app.Options{BaseURL: c.apiURL, Timeout: c.timeout, CachePath: c.cachePath})
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return c.app.Close()
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&c.configPath, "config", defaultConfigPath(), "Config file (yaml: api_url, cache, timeout)")
	root.PersistentFlags().StringVar(&c.apiURL, "api-url", defaultAPIURL, "API base URL (or set "+envAPIURL+")")
	root.PersistentFlags().StringVar(&c.cachePath, "cache", defaultCachePath(), "Local cache file (sqlite); empty keeps it in memory")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", app.DefaultTimeout, "Request timeout")
	root.PersistentFlags().BoolVar(&c.asJSON, "json", false, "Print JSON instead of text")

	root.AddCommand(
		c.loginCmd(),
		c.registerCmd(),
		c.logoutCmd(),
		c.meCmd(),
		c.breedsCmd(),
		c.identifyCmd(),
		c.historyCmd(),
		c.postsCmd(),
		c.settingsCmd(),
	)
	return root
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "breedctl", "cache.db")
}

func (c *cli) ctx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, c.timeout)
}

// printJSON se usa con --json y para estructuras sin formato de texto propio.
func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// failed convierte el slot de error de un store en el error del comando.
func failed(msg string) error {
	if msg == "" {
		msg = "request failed"
	}
	return errors.New(msg)
}
