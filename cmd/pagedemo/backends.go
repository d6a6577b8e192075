package main

import (
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/pagecanvas/surface"
)

func newBackendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List the registered surface backends in selection order",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printBackends(cmd.OutOrStdout(), surface.Backends())
		},
	}
}

func printBackends(w io.Writer, backends []surface.Backend) {
	p := message.NewPrinter(language.English)
	for _, b := range backends {
		state := "available"
		if !b.IsAvailable() {
			state = "unavailable"
		}
		alpha := "opaque"
		if b.Alpha {
			alpha = "alpha"
		}
		p.Fprintf(w, "%-12s priority %4d  %-6s  %s\n", b.Name, b.Priority, alpha, state)
	}
}
