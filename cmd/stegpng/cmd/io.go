package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ssargent/stegpng/pkg/pixel"
	"github.com/ssargent/stegpng/pkg/pngio"
)

// stdio is the path value meaning stdin or stdout
const stdio = "-"

// imageCodec builds the PNG codec from the effective config, honouring a
// --png-compression flag on cmd when present
func imageCodec(cmd *cobra.Command) (pngio.ImageCodec, error) {
	level := container.GetConfig().Output.PNGCompression
	if f := cmd.Flags().Lookup("png-compression"); f != nil && f.Changed {
		level = f.Value.String()
	}
	return container.GetCodecFactory().CreateCodec(level)
}

// readImage decodes the PNG at path, or from stdin when path is empty or "-"
func readImage(cmd *cobra.Command, codec pngio.ImageCodec, path string) (*pixel.Buffer, error) {
	if path == "" || path == stdio {
		buf, err := codec.Decode(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read image from stdin: %w", err)
		}
		return buf, nil
	}

	buf, err := codec.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	return buf, nil
}

// writeImage encodes buf to path, or to stdout when path is empty or "-"
func writeImage(cmd *cobra.Command, codec pngio.ImageCodec, path string, buf *pixel.Buffer) error {
	if path != "" && path != stdio {
		if err := codec.WriteFile(path, buf); err != nil {
			return fmt.Errorf("failed to write image %s: %w", path, err)
		}
		return nil
	}

	// encoded fully before writing so a failure never leaves partial output
	var out bytes.Buffer
	if err := codec.Encode(&out, buf); err != nil {
		return err
	}
	return writeOutput(cmd, stdio, out.Bytes())
}

// writeOutput writes data to path, or to stdout when path is empty or "-".
// Callers build data completely first so a failure never leaves partial output.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == stdio {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(filepath.Clean(path), data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// readPayload returns the --message value, or all of stdin
func readPayload(cmd *cobra.Command, imageFromStdin bool) ([]byte, error) {
	if cmd.Flags().Changed("message") {
		msg, _ := cmd.Flags().GetString("message")
		return []byte(msg), nil
	}
	if imageFromStdin {
		return nil, errors.New("stdin already carries the image; pass the payload with --message")
	}

	payload, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("failed to read payload from stdin: %w", err)
	}
	return payload, nil
}
