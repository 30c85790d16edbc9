/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ssargent/stegpng/pkg/metrics"
	"github.com/ssargent/stegpng/pkg/steg"
)

// statCmd represents the stat command
var statCmd = &cobra.Command{
	Use:     "stat",
	Aliases: []string{"s"},
	Short:   "Show image capacity and embedded payload details",
	Long: `Show the dimensions and color type of a PNG image, how many payload bytes
it can carry for common layouts, and the header of an embedded payload when
one is present.

Examples:
  stegpng stat -s hidden.png
  stegpng stat < photo.png`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return instrument(metrics.OpStat, func(logger *slog.Logger) error {
			return runStat(cmd, logger)
		})
	},
}

func init() {
	rootCmd.AddCommand(statCmd)

	statCmd.Flags().StringP("source", "s", stdio, "Source PNG path, - for stdin")
}

func runStat(cmd *cobra.Command, logger *slog.Logger) error {
	codec, err := imageCodec(cmd)
	if err != nil {
		return err
	}

	source, _ := cmd.Flags().GetString("source")
	buf, err := readImage(cmd, codec, source)
	if err != nil {
		return err
	}

	stat, err := steg.Inspect(buf)
	if err != nil {
		return err
	}
	if stat.Embedded() {
		capacity, _ := steg.PayloadCapacity(buf, steg.Layout{
			BitsPerChannel: int(stat.Header.BitsPerChannel),
			IncludeAlpha:   stat.Header.UseAlpha,
		})
		container.GetMetrics().UpdatePayloadStats(stat.PayloadBytes, stat.StoredBytes, capacity)
	}
	logger.Debug("image inspected", "embedded", stat.Embedded(), "header_error", stat.HeaderErr)

	return outputStat(cmd.OutOrStdout(), stat)
}

// outputStat displays a Stat in table format
func outputStat(out io.Writer, stat *steg.Stat) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "Dimensions:\t%dx%d\n", stat.Width, stat.Height)
	fmt.Fprintf(w, "Color model:\t%s\n", stat.Model)
	fmt.Fprintf(w, "Bit depth:\t%d\n", stat.Depth)

	for _, row := range stat.Capacities {
		fmt.Fprintf(w, "Capacity (%s):\t%d bytes\n", formatLayout(row.Layout.BitsPerChannel, row.Layout.IncludeAlpha), row.Bytes)
	}

	if !stat.Embedded() {
		fmt.Fprintf(w, "Embedded:\tno\n")
		if stat.HeaderErr != nil && !steg.IsNotEmbedded(stat.HeaderErr) {
			fmt.Fprintf(w, "Header error:\t%v\n", stat.HeaderErr)
		}
		return w.Flush()
	}

	h := stat.Header
	fmt.Fprintf(w, "Embedded:\tyes\n")
	fmt.Fprintf(w, "Version:\t%d\n", h.Version)
	fmt.Fprintf(w, "Layout:\t%s\n", formatLayout(int(h.BitsPerChannel), h.UseAlpha))
	fmt.Fprintf(w, "Compression:\t%s\n", h.Compression)
	fmt.Fprintf(w, "Start pixel:\t%d\n", h.StartPixel)
	fmt.Fprintf(w, "Payload CRC32:\t%08x\n", h.PayloadCRC)

	if stat.HeaderErr != nil {
		fmt.Fprintf(w, "Payload error:\t%v\n", stat.HeaderErr)
		return w.Flush()
	}

	fmt.Fprintf(w, "Stored bytes:\t%d\n", stat.StoredBytes)
	fmt.Fprintf(w, "Payload bytes:\t%d\n", stat.PayloadBytes)
	fmt.Fprintf(w, "Payload xxh64:\t%016x\n", stat.Digest)

	return w.Flush()
}

func formatLayout(bits int, alpha bool) string {
	unit := "bits"
	if bits == 1 {
		unit = "bit"
	}
	if alpha {
		return fmt.Sprintf("%d %s/channel + alpha", bits, unit)
	}
	return fmt.Sprintf("%d %s/channel", bits, unit)
}
