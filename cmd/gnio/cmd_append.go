package main

import (
	"fmt"
	"strings"

	"github.com/Giulio2002/gnio"
	"github.com/spf13/cobra"
)

func (a *app) cmdAppend() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "append <file> <text>...",
		Short: "Append text to a file, creating it if needed",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[1:], " ")
			if !a.v.GetBool("no-newline") {
				text += "\n"
			}
			return a.append(args[0], text)
		},
	}
	cmd.Flags().BoolP("no-newline", "n", false, "Do not append a trailing newline")
	return cmd
}

func (a *app) append(path, text string) error {
	chunk, err := a.chunkSize()
	if err != nil {
		return err
	}
	c, err := a.open(path, gnio.Append|gnio.Create, chunk)
	if err != nil {
		return err
	}

	buf := gnio.Wrap([]byte(text))
	for buf.HasRemaining() {
		if _, err := c.Write(buf); err != nil {
			c.Close()
			return fmt.Errorf("append %s: %w", path, err)
		}
	}
	size, _ := c.Size()
	a.log.Debug().Str("path", path).Int("wrote", len(text)).Int64("size", size).Msg("appended")
	return c.Close()
}
