// Package cli assembles the huffman command-line tool's Cobra command: flag
// parsing, file open/close, and the one-line structured summary are the
// "external collaborators" the core codec never has to know about.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	colorable "github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/blake2b"

	"github.com/kelbwah/huffmin/internal/codec"
	"github.com/kelbwah/huffmin/internal/errs"
)

type flags struct {
	encode bool
	decode bool
	ascii  bool
	print  bool
	input  string
	output string
}

// NewRootCommand builds the huffman root command. stdout/stderr let tests
// capture output instead of writing to the real process streams.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	f := &flags{}
	log := newLogger(stderr)

	cmd := &cobra.Command{
		Use:           "huffman",
		Short:         "Static Huffman codec for 8-bit byte streams",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(f, stdout, log)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().BoolVarP(&f.encode, "encode", "e", false, "encode the input file")
	cmd.Flags().BoolVarP(&f.decode, "decode", "d", false, "decode the input file")
	cmd.Flags().BoolVarP(&f.ascii, "ascii", "a", false, "use ASCII '0'/'1' text opcodes instead of packed bits")
	cmd.Flags().BoolVarP(&f.print, "print", "p", false, "also print the opcode body to stdout")
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "input file (required)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file, truncate-and-create (required)")

	cmd.MarkFlagsMutuallyExclusive("encode", "decode")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func newLogger(w io.Writer) zerolog.Logger {
	out := w
	color := false
	if f, ok := w.(*os.File); ok {
		if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
			out = colorable.NewColorable(f)
			color = true
		}
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: out, NoColor: !color}).With().Timestamp().Logger()
}

// ExitCode maps a codec error kind to a small positive process exit code.
// The source used errno values and distinguished negative small integers;
// Go's os.Exit only accepts a shell-visible 0-255 range, so this
// implementation picks one fixed code per kind instead.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errs.InvalidArgument):
		return 1
	case errors.Is(err, errs.InvalidState):
		return 2
	case errors.Is(err, errs.CorruptArtifact):
		return 3
	case errors.Is(err, errs.Allocation):
		return 4
	case errors.Is(err, errs.IO):
		return 5
	default:
		return 6
	}
}

func run(f *flags, stdout io.Writer, log zerolog.Logger) error {
	if !f.encode && !f.decode {
		return fmt.Errorf("one of -e or -d is required: %w", errs.InvalidArgument)
	}

	mode := codec.Bit
	if f.ascii {
		mode = codec.Text
	}

	in, err := os.Open(f.input)
	if err != nil {
		return fmt.Errorf("open input %q: %w", f.input, errs.IO)
	}
	defer in.Close()

	out, err := os.Create(f.output)
	if err != nil {
		return fmt.Errorf("create output %q: %w", f.output, errs.IO)
	}
	defer out.Close()

	if f.encode {
		return runEncode(in, out, mode, f, stdout, log)
	}
	return runDecode(in, out, mode, log)
}

func runEncode(in, out *os.File, mode codec.Mode, f *flags, stdout io.Writer, log zerolog.Logger) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read %q: %w", f.input, errs.IO)
	}

	if f.print {
		table, err := codec.BuildTable(data)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, codec.TextBody(data, table))
	}

	stats, err := codec.EncodeBytes(data, out, mode)
	if err != nil {
		log.Error().Err(err).Str("input", f.input).Msg("encode failed")
		return err
	}

	digest, err := artifactDigest(f.output)
	if err != nil {
		return err
	}

	log.Info().
		Str("mode", modeName(mode)).
		Str("input", f.input).
		Str("output", f.output).
		Int("input_bytes", stats.InputBytes).
		Int64("output_bytes", stats.OutputBytes).
		Int("symbols", stats.Symbols).
		Str("blake2b", digest).
		Msg("encoded")
	return nil
}

func runDecode(in, out *os.File, mode codec.Mode, log zerolog.Logger) error {
	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat input: %w", errs.IO)
	}

	decoded, err := codec.Decode(in, info.Size(), mode)
	if err != nil {
		log.Error().Err(err).Msg("decode failed")
		return err
	}

	if _, err := out.Write(decoded); err != nil {
		return fmt.Errorf("write output: %w", errs.IO)
	}

	log.Info().
		Str("mode", modeName(mode)).
		Int64("artifact_bytes", info.Size()).
		Int("output_bytes", len(decoded)).
		Msg("decoded")
	return nil
}

func modeName(mode codec.Mode) string {
	if mode == codec.Text {
		return "text"
	}
	return "bit"
}

func artifactDigest(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("digest %q: %w", path, errs.IO)
	}
	sum := blake2b.Sum256(data)
	return fmt.Sprintf("%x", sum), nil
}
