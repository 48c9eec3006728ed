package main

import (
	"fmt"
	"time"

	"github.com/Giulio2002/gnio"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func (a *app) cmdCopy() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy <src> <dst>",
		Short: "Copy a file through a buffer loop, a mapping or a channel transfer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.copy(args[0], args[1], a.v.GetString("method"))
		},
	}
	cmd.Flags().String("method", "buffer", "Copy method (buffer, map or transfer)")
	return cmd
}

func (a *app) copy(srcPath, dstPath, method string) (err error) {
	dstFlags := gnio.Write | gnio.Create | gnio.Truncate
	switch method {
	case "buffer", "transfer":
	case "map":
		// The destination mapping needs a readable channel; CopyMapped
		// truncates to the source size itself.
		dstFlags = gnio.ReadWrite | gnio.Create
	default:
		return fmt.Errorf("unknown copy method %q", method)
	}

	chunk, err := a.chunkSize()
	if err != nil {
		return err
	}

	src, err := a.open(srcPath, gnio.Read, chunk)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := a.open(dstPath, dstFlags, chunk)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
	}()

	start := time.Now()
	var n int64
	switch method {
	case "buffer":
		buf, aerr := gnio.Allocate(chunk)
		if aerr != nil {
			return aerr
		}
		n, err = gnio.CopyBuffered(dst, src, buf)
	case "map":
		n, err = gnio.CopyMapped(dst, src)
	case "transfer":
		var size int64
		if size, err = src.Size(); err != nil {
			return err
		}
		n, err = dst.TransferFrom(src, 0, size)
	}
	if err != nil {
		return fmt.Errorf("copy %s to %s: %w", srcPath, dstPath, err)
	}

	a.log.Info().Str("src", srcPath).Str("dst", dstPath).Str("method", method).
		Str("size", humanize.Bytes(uint64(n))).Dur("took", time.Since(start)).Msg("copied")
	return nil
}
