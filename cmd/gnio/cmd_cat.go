package main

import (
	"fmt"
	"io"

	"github.com/Giulio2002/gnio"
	"github.com/spf13/cobra"
)

func (a *app) cmdCat() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat <file>",
		Short: "Print a file starting at an offset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cat(cmd.OutOrStdout(), args[0], a.v.GetInt64("offset"), a.v.GetBool("map"))
		},
	}
	cmd.Flags().Int64("offset", 0, "Byte offset to start at")
	cmd.Flags().Bool("map", false, "Read through a read-only mapping instead of a buffer loop")
	return cmd
}

func (a *app) cat(w io.Writer, path string, offset int64, mapped bool) error {
	chunk, err := a.chunkSize()
	if err != nil {
		return err
	}
	c, err := a.open(path, gnio.Read, chunk)
	if err != nil {
		return err
	}
	defer c.Close()

	if mapped {
		return catMapped(w, c, offset)
	}

	if err := c.SetPosition(offset); err != nil {
		return err
	}
	buf, err := gnio.Allocate(chunk)
	if err != nil {
		return err
	}
	for {
		if _, err := c.Read(buf); err == io.EOF {
			return nil
		} else if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		buf.Flip()
		p, _ := buf.Next(buf.Remaining())
		if _, err := w.Write(p); err != nil {
			return err
		}
		buf.Clear()
	}
}

func catMapped(w io.Writer, c *gnio.Channel, offset int64) error {
	size, err := c.Size()
	if err != nil {
		return err
	}
	if offset >= size {
		return nil
	}
	m, err := c.Map(gnio.MapReadOnly, offset, size-offset)
	if err != nil {
		return err
	}
	defer m.Unmap()

	p, err := m.Next(m.Remaining())
	if err != nil {
		return err
	}
	_, err = w.Write(p)
	return err
}
