package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "playlist-hub",
		Short:         "Playlist sharing service with catalog search, reviews and moderation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newTokenCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "playlist-hub: %v\n", err)
		os.Exit(1)
	}
}
