package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ollama-chat",
	Short: "A local chat front-end for Ollama with document and web ingestion",
	Long: `ollama-chat is a single-binary chat front-end for a locally running
Ollama server. It augments user messages with text extracted from
uploaded documents (PDF, Word, Excel, CSV, source code), routes image
uploads to vision models, and inlines the readable content of URLs
found in a message before forwarding the prompt for generation.`,
	Version: "1.0.0",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
