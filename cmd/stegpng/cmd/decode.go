/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ssargent/stegpng/pkg/metrics"
	"github.com/ssargent/stegpng/pkg/steg"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:     "decode",
	Aliases: []string{"d", "dec"},
	Short:   "Recover the payload hidden in a PNG image",
	Long: `Recover the payload hidden in a PNG image by stegpng encode.

The image is read from --source, or from stdin. The payload is written to
stdout byte for byte unless --output names a file. Nothing is written when the
image carries no valid payload.

Examples:
  stegpng decode -s hidden.png
  stegpng decode < hidden.png | tar xz`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return instrument(metrics.OpDecode, func(logger *slog.Logger) error {
			return runDecode(cmd, logger)
		})
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().StringP("source", "s", stdio, "Source PNG path, - for stdin")
	decodeCmd.Flags().StringP("output", "o", stdio, "Payload output path, - for stdout")
}

func runDecode(cmd *cobra.Command, logger *slog.Logger) error {
	codec, err := imageCodec(cmd)
	if err != nil {
		return err
	}

	source, _ := cmd.Flags().GetString("source")
	buf, err := readImage(cmd, codec, source)
	if err != nil {
		return err
	}

	payload, header, err := steg.Decode(buf)
	if err != nil {
		if steg.IsNotEmbedded(err) {
			return fmt.Errorf("no embedded payload found: %w", err)
		}
		return fmt.Errorf("failed to recover payload: %w", err)
	}
	container.GetMetrics().UpdatePayloadBytes(len(payload))

	output, _ := cmd.Flags().GetString("output")
	if err := writeOutput(cmd, output, payload); err != nil {
		return err
	}

	logger.Info("payload recovered",
		"payload_bytes", len(payload),
		"start_pixel", header.StartPixel,
		"bits_per_channel", header.BitsPerChannel,
		"alpha", header.UseAlpha,
		"compression", header.Compression.String())
	return nil
}
