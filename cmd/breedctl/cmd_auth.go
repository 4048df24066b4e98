package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dog-breed-social/internal/client/api"
)

func (c *cli) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session in the local cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				pw, err := readLine(cmd, "Password: ")
				if err != nil {
					return err
				}
				password = pw
			}
			ctx, cancel := c.ctx(cmd)
			defer cancel()

			s := c.app.Auth
			if !s.Login(ctx, email, password) {
				return failed(s.Snapshot().Error)
			}
			st := s.Snapshot()
			if c.asJSON {
				return c.printJSON(st.User)
			}
			c.printf("Signed in as %s (%s)\n", st.User.Name, st.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when empty)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) registerCmd() *cobra.Command {
	var email, password, name string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				pw, err := readLine(cmd, "Password: ")
				if err != nil {
					return err
				}
				password = pw
			}
			ctx, cancel := c.ctx(cmd)
			defer cancel()

			s := c.app.Auth
			if !s.Register(ctx, email, password, name) {
				return failed(s.Snapshot().Error)
			}
			c.printf("%s\n", s.Snapshot().Message)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when empty)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name (defaults to the email local part)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the local session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := c.ctx(cmd)
			defer cancel()

			s := c.app.Auth
			if !s.Logout(ctx) {
				// la sesión local ya se borró igual.
				c.printf("Signed out locally (%s)\n", s.Snapshot().Error)
				return nil
			}
			c.printf("Signed out\n")
			return nil
		},
	}
}

func (c *cli) meCmd() *cobra.Command {
	var name, avatar string
	var clearAvatar bool
	cmd := &cobra.Command{
		Use:   "me",
		Short: "Show (or update) the signed-in profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := c.ctx(cmd)
			defer cancel()

			s := c.app.Auth
			var ok bool
			if cmd.Flags().Changed("name") || cmd.Flags().Changed("avatar") || clearAvatar {
				in := api.ProfileUpdate{ClearAvatar: clearAvatar}
				if cmd.Flags().Changed("name") {
					in.Name = &name
				}
				if cmd.Flags().Changed("avatar") {
					in.AvatarURL = &avatar
				}
				ok = s.UpdateProfile(ctx, in)
			} else {
				ok = s.Refresh(ctx)
			}
			if !ok {
				return failed(s.Snapshot().Error)
			}

			u := s.Snapshot().User
			if c.asJSON {
				return c.printJSON(u)
			}
			c.printf("%s <%s>\n", u.Name, u.Email)
			c.printf("id:     %s\n", u.ID)
			if u.AvatarURL != nil {
				c.printf("avatar: %s\n", *u.AvatarURL)
			}
			c.printf("theme:  %s\n", u.Settings.Theme)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().StringVar(&avatar, "avatar", "", "New avatar URL")
	cmd.Flags().BoolVar(&clearAvatar, "clear-avatar", false, "Remove the avatar")
	return cmd
}

func readLine(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
