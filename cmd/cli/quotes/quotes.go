package quotes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/crucial707/quote-api/cmd/cli/client"
	"github.com/crucial707/quote-api/cmd/cli/output"
	"github.com/crucial707/quote-api/cmd/cli/root"
	"github.com/spf13/cobra"
)

type quote struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// InitQuotes registers the quotes command group on the root command.
func InitQuotes(rootCmd *cobra.Command) {
	quotesCmd := &cobra.Command{
		Use:   "quotes",
		Short: "Manage quotes (requires login)",
	}
	quotesCmd.AddCommand(listCmd(), getCmd(), createCmd(), updateCmd(), deleteCmd())
	rootCmd.AddCommand(quotesCmd)
}

// ==========================
// List / Get
// ==========================
func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all quotes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, _, err := client.Call(http.MethodGet, "/crud/read", nil, true)
			if err != nil {
				return err
			}
			var qs []quote
			if err := json.Unmarshal(env.Response, &qs); err != nil {
				return fmt.Errorf("decode quotes: %w", err)
			}
			return render(cmd, qs...)
		},
	}
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return callOne(cmd, http.MethodGet, "/crud/read/"+url.PathEscape(args[0]), nil)
		},
	}
}

// ==========================
// Create / Update / Delete
// ==========================
func createCmd() *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a quote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return callOne(cmd, http.MethodPost, "/crud/create", map[string]string{
				"title":       title,
				"description": description,
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Quote title")
	cmd.Flags().StringVar(&description, "description", "", "Quote description")
	return cmd
}

func updateCmd() *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the given fields of a quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := map[string]string{}
			if cmd.Flags().Changed("title") {
				patch["title"] = title
			}
			if cmd.Flags().Changed("description") {
				patch["description"] = description
			}
			if len(patch) == 0 {
				return fmt.Errorf("nothing to update: pass --title and/or --description")
			}
			return callOne(cmd, http.MethodPut, "/crud/update/"+url.PathEscape(args[0]), patch)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return callOne(cmd, http.MethodDelete, "/crud/delete/"+url.PathEscape(args[0]), nil)
		},
	}
}

func callOne(cmd *cobra.Command, method, path string, payload any) error {
	env, _, err := client.Call(method, path, payload, true)
	if err != nil {
		return err
	}
	var q quote
	if err := json.Unmarshal(env.Response, &q); err != nil {
		return fmt.Errorf("decode quote: %w", err)
	}
	return render(cmd, q)
}

func render(cmd *cobra.Command, qs ...quote) error {
	if root.JSONOutput() {
		if len(qs) == 1 && cmd.Name() != "list" {
			return output.RenderJSON(cmd.OutOrStdout(), qs[0])
		}
		return output.RenderJSON(cmd.OutOrStdout(), qs)
	}
	rows := make([][]interface{}, 0, len(qs))
	for _, q := range qs {
		rows = append(rows, []interface{}{q.ID, q.Title, q.Description, q.UpdatedAt})
	}
	output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Title", "Description", "Updated"}, rows)
	return nil
}
