// Command gkey compresses and decompresses streams using the Gordon Key
// codec, reading from stdin and writing to stdout unless -i/-o name files.
package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/fednetgo/gkey"
)

// sizePrefixLen is the width of the file-format header the codec itself
// never sees (spec: "the fixed 4-byte little-endian 'expected decompressed
// size' file prefix ... is the responsibility of the caller and out of
// scope"). This wrapper is that caller.
const sizePrefixLen = 4

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "usage: gkey <compress|decompress> [flags]")
		return 2
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "compress":
		return runCodec(rest, stdin, stdout, stderr, compressWithPrefix)
	case "decompress":
		return runCodec(rest, stdin, stdout, stderr, decompressWithPrefix)
	case "-h", "--help":
		printUsage(stderr)
		return 0
	default:
		fmt.Fprintf(stderr, "error: unknown subcommand %q\n\n", sub)
		printUsage(stderr)
		return 2
	}
}

// compressWithPrefix reads all of r, compresses it, and prepends the
// 4-byte little-endian original-size header that the codec package itself
// never writes.
func compressWithPrefix(r io.Reader, opts gkey.Options) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	compressed, err := gkey.Compress(data, opts)
	if err != nil {
		return nil, err
	}
	out := make([]byte, sizePrefixLen+len(compressed))
	binary.LittleEndian.PutUint32(out, uint32(len(data)))
	copy(out[sizePrefixLen:], compressed)
	return out, nil
}

// decompressWithPrefix strips the 4-byte header compressWithPrefix added,
// decompresses the remainder, and checks the result matches the size the
// header promised.
func decompressWithPrefix(r io.Reader, opts gkey.Options) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) < sizePrefixLen {
		return nil, fmt.Errorf("gkey: input shorter than the %d-byte size prefix", sizePrefixLen)
	}
	wantSize := binary.LittleEndian.Uint32(data[:sizePrefixLen])

	out, err := gkey.Decompress(data[sizePrefixLen:], opts)
	if err != nil {
		return nil, err
	}
	if uint32(len(out)) != wantSize {
		return nil, fmt.Errorf("gkey: decompressed %d bytes, header promised %d", len(out), wantSize)
	}
	return out, nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: gkey <compress|decompress> [flags]")
	fmt.Fprintln(w, "  -k, --history-log2 uint   history order, 0-9 (default 9)")
	fmt.Fprintln(w, "  -i, --input string        input file (default stdin)")
	fmt.Fprintln(w, "  -o, --output string       output file (default stdout)")
	fmt.Fprintln(w, "      --lenient-zero-length treat a decoded zero-length copy as length 1")
	fmt.Fprintln(w, "  -v, --verbose             log progress at debug level")
}

type codecFunc func(r io.Reader, opts gkey.Options) ([]byte, error)

func runCodec(args []string, stdin io.Reader, stdout, stderr io.Writer, codec codecFunc) int {
	flags := flag.NewFlagSet("gkey", flag.ContinueOnError)
	flags.SetOutput(stderr)

	historyLog2 := flags.UintP("history-log2", "k", gkey.MaxHistoryLog2, "history order, 0-9")
	inputPath := flags.StringP("input", "i", "", "input file (default stdin)")
	outputPath := flags.StringP("output", "o", "", "output file (default stdout)")
	lenient := flags.Bool("lenient-zero-length", false, "treat a decoded zero-length copy as length 1")
	verbose := flags.BoolP("verbose", "v", false, "log progress at debug level")

	if err := flags.Parse(args); err != nil {
		return 2
	}

	in := stdin
	if *inputPath != "" {
		f, err := os.Open(*inputPath)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	out := stdout
	if *outputPath != "" {
		f, err := os.Create(*outputPath)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		defer f.Close()
		out = f
	}

	opts := gkey.DefaultOptions()
	opts.HistoryLog2 = *historyLog2
	opts.LenientZeroLength = *lenient
	if *verbose {
		opts.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	result, err := codec(in, opts)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	if _, err := out.Write(result); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	return 0
}
