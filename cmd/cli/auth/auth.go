package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/crucial707/quote-api/cmd/cli/client"
	"github.com/crucial707/quote-api/cmd/cli/config"
	"github.com/spf13/cobra"
)

// InitAuth registers register, login and logout on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(registerCmd(), loginCmd(), logoutCmd())
}

// ==========================
// Register
// ==========================
func registerCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and store its token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}
			payload := map[string]string{"username": username, "email": email, "password": password}
			if err := authenticate(cmd, "/register", payload); err != nil {
				return fmt.Errorf("failed to register: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Registration successful. Token stored locally.")
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address (login key)")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	return cmd
}

// ==========================
// Login
// ==========================
func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the Quote API",
		Long:  "Authenticate with the Quote API and store a JWT token for subsequent CLI commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}
			payload := map[string]string{"email": email, "password": password}
			if err := authenticate(cmd, "/login", payload); err != nil {
				return fmt.Errorf("failed to login: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Login successful. Token stored locally.")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the locally saved token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.DeleteToken(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

// authenticate posts credentials and saves the returned token. The API answers
// some refusals ("Email already exists", "Incorrect password") with 200 and no
// token; those become errors here.
func authenticate(cmd *cobra.Command, path string, payload map[string]string) error {
	env, status, err := client.Call(http.MethodPost, path, payload, false)
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		if env.Message != "" {
			return errors.New(env.Message)
		}
		return fmt.Errorf("unexpected status %d", status)
	}

	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		return fmt.Errorf("no token returned")
	}
	return config.SaveToken(data.Token)
}
