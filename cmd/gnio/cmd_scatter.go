package main

import (
	"fmt"
	"io"

	"github.com/Giulio2002/gnio"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func (a *app) cmdScatter() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scatter <src> <dst>",
		Short: "Copy a file by scattering reads into several buffers and gathering them back out",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.scatter(args[0], args[1], a.v.GetIntSlice("sizes"))
		},
	}
	cmd.Flags().IntSlice("sizes", []int{100, 1024}, "Capacities of the scatter buffers")
	return cmd
}

func (a *app) scatter(srcPath, dstPath string, sizes []int) (err error) {
	if len(sizes) == 0 {
		return fmt.Errorf("no buffer sizes given")
	}
	bufs := make([]*gnio.Buffer, len(sizes))
	for i, size := range sizes {
		if bufs[i], err = gnio.Allocate(size); err != nil {
			return fmt.Errorf("buffer %d: %w", i, err)
		}
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

	dst, err := a.open(dstPath, gnio.Write|gnio.Create|gnio.Truncate, chunk)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
	}()

	var total int64
	rounds := 0
	for {
		n, err := src.ReadBuffers(bufs...)
		if err == io.EOF {
			break
		} else if err != nil {
			return fmt.Errorf("scatter %s: %w", srcPath, err)
		}
		if n == 0 {
			// Every buffer has zero capacity.
			break
		}
		for _, b := range bufs {
			b.Flip()
		}
		if _, err := dst.WriteBuffers(bufs...); err != nil {
			return fmt.Errorf("gather %s: %w", dstPath, err)
		}
		for _, b := range bufs {
			b.Clear()
		}
		total += n
		rounds++
	}

	a.log.Info().Str("src", srcPath).Str("dst", dstPath).Ints("sizes", sizes).Int("rounds", rounds).
		Str("size", humanize.Bytes(uint64(total))).Msg("scattered")
	return nil
}
