package main

import (
	"github.com/crucial707/quote-api/cmd/cli/auth"
	"github.com/crucial707/quote-api/cmd/cli/quotes"
	"github.com/crucial707/quote-api/cmd/cli/root"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	quotes.InitQuotes(rootCmd)

	root.Execute()
}
